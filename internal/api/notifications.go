package api

import (
	"context"
	"net/url"

	"github.com/nmoreras/soundpost/internal/models"
)

// GetNotifications fetches the full notification snapshot for the given
// identity via GET /get-notifications.
func (c *Client) GetNotifications(ctx context.Context, email string) ([]models.Notification, error) {
	var body struct {
		Notifications []models.Notification `json:"notifications"`
	}
	path := "/get-notifications?email=" + url.QueryEscape(email)
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, err
	}
	return body.Notifications, nil
}

// MarkAllNotificationsRead acknowledges every notification for the given
// identity via PUT /mark-all-notifications-read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, email string) error {
	return c.putJSON(ctx, "/mark-all-notifications-read", map[string]string{"email": email}, nil)
}
