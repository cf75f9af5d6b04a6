// package models defines the data model for the soundpost client
package models

import (
	"fmt"
	"strings"
	"time"
)

// User represents the authenticated account as returned by the backend
// and as cached in durable session storage.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Validate checks that the user record carries the fields the session
// layer depends on.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	return nil
}

// Merge returns a copy of u with non-empty fields from other applied on
// top. Server fields win; empty server fields keep the cached value.
func (u User) Merge(other *User) User {
	if other == nil {
		return u
	}
	merged := u
	if other.ID != "" {
		merged.ID = other.ID
	}
	if other.Email != "" {
		merged.Email = other.Email
	}
	if other.Username != "" {
		merged.Username = other.Username
	}
	if other.AvatarURL != "" {
		merged.AvatarURL = other.AvatarURL
	}
	return merged
}

// Profile represents the public profile returned by GET /user-profile.
type Profile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Email     string `json:"email"`
}

// Notification represents a single feed entry, delivered either by the
// push channel or by a snapshot fetch. The JSON field names follow the
// backend wire contract.
type Notification struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
	Username    string    `json:"username,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	PostID      string    `json:"postId,omitempty"`
	CommentText string    `json:"commentText,omitempty"`
}

// Validate checks that a notification can participate in feed merging.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification id is required")
	}
	if n.Message == "" {
		return fmt.Errorf("notification message is required")
	}
	return nil
}

// Post represents an audio post in the public feed.
type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
