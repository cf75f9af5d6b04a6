package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("Writes To Provided Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain 'hello', got %q", buf.String())
		}
	})

	t.Run("Child Logger Carries Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "push")
		logger.Warn("reconnecting")

		out := buf.String()
		if !strings.Contains(out, "component") || !strings.Contains(out, "push") {
			t.Errorf("expected child logger fields in output, got %q", out)
		}
	})

	t.Run("SetLogLevel Filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("ignored")

		if strings.Contains(buf.String(), "ignored") {
			t.Errorf("expected info log to be filtered at error level")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Errorf("expected unique ids, got %s twice", a)
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string length 36, got %d", len(a))
	}
}
