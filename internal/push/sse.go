package push

import (
	"bufio"
	"io"
	"strings"
)

// Frame is one server-sent event: an optional event name, an optional id,
// and the concatenated data lines.
type Frame struct {
	Event string
	ID    string
	Data  string
}

// readFrames scans a text/event-stream body and invokes handle for each
// complete frame. Comment lines (leading ':') and unknown fields are
// ignored per the SSE wire format. Returns the underlying read error when
// the stream ends.
func readFrames(r io.Reader, handle func(Frame)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var frame Frame
	var data []string

	flush := func() {
		if len(data) == 0 && frame.Event == "" && frame.ID == "" {
			return
		}
		frame.Data = strings.Join(data, "\n")
		handle(frame)
		frame = Frame{}
		data = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			frame.Event = value
		case "data":
			data = append(data, value)
		case "id":
			frame.ID = value
		}
	}

	// A final frame without a trailing blank line still counts.
	flush()

	return scanner.Err()
}
