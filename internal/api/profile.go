package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

// UserProfile fetches the public profile for the given identity.
func (c *Client) UserProfile(ctx context.Context, email string) (*models.Profile, error) {
	resp, err := c.Get(ctx, "/user-profile?email="+url.QueryEscape(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileNotFound, email)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var profile models.Profile
	if err := resp.Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile pushes profile edits to the backend and returns the updated
// user record for the session layer to merge.
func (c *Client) UpdateProfile(ctx context.Context, profile *models.Profile) (*models.User, error) {
	var body struct {
		User *models.User `json:"user"`
	}
	if err := c.putJSON(ctx, "/update-profile", profile, &body); err != nil {
		return nil, err
	}
	return body.User, nil
}
