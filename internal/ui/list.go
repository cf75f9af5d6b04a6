package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

var _ list.Item = notificationItem{}

// notificationItem wraps [models.Notification] to implement [list.Item].
type notificationItem struct {
	notification models.Notification
}

func (i notificationItem) FilterValue() string {
	return i.notification.Username + " " + i.notification.Message
}

func (i notificationItem) Title() string {
	title := i.notification.Message
	if i.notification.Username != "" {
		title = fmt.Sprintf("%s %s", i.notification.Username, i.notification.Message)
	}
	if !i.notification.Read {
		title = "● " + title
	}
	return title
}

func (i notificationItem) Description() string {
	desc := shared.FormatTimestamp(i.notification.Timestamp)
	if i.notification.CommentText != "" {
		desc = fmt.Sprintf("%s • “%s”", desc, i.notification.CommentText)
	}
	return desc
}

func notificationItems(notifications []models.Notification) []list.Item {
	items := make([]list.Item, len(notifications))
	for i, n := range notifications {
		items[i] = notificationItem{notification: n}
	}
	return items
}
