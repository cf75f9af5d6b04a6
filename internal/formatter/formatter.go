// package formatter renders notifications, posts, and comments for CLI output (table, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

// NotificationsToTable renders the feed as an aligned table, newest first,
// with unread entries marked.
func NotificationsToTable(notifications []models.Notification, unread int) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Notifications: %d (%d unread)\n\n", len(notifications), unread)

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, " \tWHEN\tFROM\tMESSAGE")
	for _, n := range notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		from := n.Username
		if from == "" {
			from = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, shared.FormatTimestamp(n.Timestamp), from, n.Message)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render notification table: %w", err)
	}

	return buf.Bytes(), nil
}

// NotificationsToCSV renders the feed as CSV with columns: ID, Timestamp, Read, Username, Message, PostID
func NotificationsToCSV(notifications []models.Notification) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Timestamp", "Read", "Username", "Message", "PostID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, n := range notifications {
		record := []string{
			n.ID,
			n.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			strconv.FormatBool(n.Read),
			n.Username,
			n.Message,
			n.PostID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// NotificationsToJSON renders the feed as indented JSON.
func NotificationsToJSON(notifications []models.Notification) ([]byte, error) {
	return shared.MarshalJSON(notifications, true)
}

// PostsToTable renders the public feed as an aligned table.
func PostsToTable(posts []models.Post) ([]byte, error) {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOSTED\tUSER\tTITLE\tLIKES\tCOMMENTS")
	for _, p := range posts {
		user := p.Username
		if user == "" {
			user = p.UserID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			p.ID, shared.FormatTimestamp(p.CreatedAt), user, p.Title, p.Likes, p.Comments)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render post table: %w", err)
	}

	return buf.Bytes(), nil
}

// CommentsToText renders a post's comments as numbered plain text.
func CommentsToText(comments []models.Comment) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Comments: %d\n\n", len(comments))
	for i, c := range comments {
		user := c.Username
		if user == "" {
			user = c.UserID
		}
		fmt.Fprintf(&buf, "%d. %s (%s): %s\n", i+1, user, shared.FormatTimestamp(c.CreatedAt), c.Text)
	}

	return buf.Bytes(), nil
}

// ProfileToText renders a public profile as labeled plain text.
func ProfileToText(profile *models.Profile) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Username: %s\n", profile.Username)
	fmt.Fprintf(&buf, "Email: %s\n", profile.Email)
	if profile.Bio != "" {
		fmt.Fprintf(&buf, "Bio: %s\n", profile.Bio)
	}
	if profile.AvatarURL != "" {
		fmt.Fprintf(&buf, "Avatar: %s\n", profile.AvatarURL)
	}

	return buf.Bytes(), nil
}
