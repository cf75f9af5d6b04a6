package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nmoreras/soundpost/internal/models"
)

func sampleNotifications() []models.Notification {
	return []models.Notification{
		{
			ID:        "n2",
			Message:   "commented on your post",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 2, 0, time.UTC),
			Username:  "ben",
			PostID:    "p1",
		},
		{
			ID:        "n1",
			Message:   "liked your post",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
			Read:      true,
			Username:  "ana",
		},
	}
}

func TestNotificationsToTable(t *testing.T) {
	out, err := NotificationsToTable(sampleNotifications(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "Notifications: 2 (1 unread)") {
		t.Errorf("expected header with counts, got:\n%s", text)
	}
	if !strings.Contains(text, "ben") || !strings.Contains(text, "commented on your post") {
		t.Errorf("expected notification rows, got:\n%s", text)
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for _, line := range lines {
		if strings.Contains(line, "commented on your post") && !strings.HasPrefix(line, "*") {
			t.Errorf("expected unread marker on unread row, got %q", line)
		}
		if strings.Contains(line, "liked your post") && strings.HasPrefix(line, "*") {
			t.Errorf("expected no marker on read row, got %q", line)
		}
	}
}

func TestNotificationsToCSV(t *testing.T) {
	out, err := NotificationsToCSV(sampleNotifications())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Timestamp,Read,Username,Message,PostID" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "n2") || !strings.Contains(lines[1], "false") {
		t.Errorf("unexpected first record: %q", lines[1])
	}
	if !strings.Contains(lines[2], "n1") || !strings.Contains(lines[2], "true") {
		t.Errorf("unexpected second record: %q", lines[2])
	}
}

func TestNotificationsToJSON(t *testing.T) {
	out, err := NotificationsToJSON(sampleNotifications())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded []models.Notification
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ID != "n2" {
		t.Errorf("unexpected round-trip: %+v", decoded)
	}
}

func TestPostsToTable(t *testing.T) {
	posts := []models.Post{
		{ID: "p1", Username: "ana", Title: "morning loop", Likes: 3, Comments: 1,
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", UserID: "u2", Title: "field recording"},
	}

	out, err := PostsToTable(posts)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "morning loop") || !strings.Contains(text, "ana") {
		t.Errorf("expected post row, got:\n%s", text)
	}
	if !strings.Contains(text, "u2") {
		t.Errorf("expected user id fallback when username missing, got:\n%s", text)
	}
}

func TestCommentsToText(t *testing.T) {
	comments := []models.Comment{
		{ID: "c1", Username: "ana", Text: "love this",
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "c2", UserID: "u2", Text: "same"},
	}

	out, err := CommentsToText(comments)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "Comments: 2") {
		t.Errorf("expected count header, got:\n%s", text)
	}
	if !strings.Contains(text, "1. ana") || !strings.Contains(text, "love this") {
		t.Errorf("expected numbered comments, got:\n%s", text)
	}
}

func TestProfileToText(t *testing.T) {
	out, err := ProfileToText(&models.Profile{
		Username: "ana",
		Email:    "a@b.c",
		Bio:      "making loops",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(out)
	for _, want := range []string{"Username: ana", "Email: a@b.c", "Bio: making loops"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Avatar:") {
		t.Errorf("expected avatar line omitted when empty:\n%s", text)
	}
}
