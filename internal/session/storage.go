package session

import (
	"encoding/json"
	"fmt"

	"github.com/nmoreras/soundpost/internal/models"
)

// Durable storage keys. The names reproduce the backend's persisted-state
// layout bit-for-bit so a session written by one client build is readable
// by another.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyEmail     = "email"
	KeyUsername  = "username"
	KeyAvatarURL = "avatarUrl"
)

// Storage is the durable key-value layer the session survives restarts in.
// Get returns an empty string for missing keys; absence is not an error.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
	Clear() error
}

// SaveUser persists the cached user record: the full JSON blob under
// "user" plus the denormalized keys other parts of the client read
// individually.
func SaveUser(s Storage, u *models.User) error {
	if u == nil {
		return s.Delete(KeyUser, KeyEmail, KeyUsername, KeyAvatarURL)
	}

	blob, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := s.Set(KeyUser, string(blob)); err != nil {
		return err
	}
	if err := s.Set(KeyEmail, u.Email); err != nil {
		return err
	}
	if err := s.Set(KeyUsername, u.Username); err != nil {
		return err
	}
	return s.Set(KeyAvatarURL, u.AvatarURL)
}

// LoadUser reads the cached user record. Returns nil (no error) when no
// user is cached; a corrupt blob is discarded the same way, since the
// verify round-trip will replace it.
func LoadUser(s Storage) (*models.User, error) {
	blob, err := s.Get(KeyUser)
	if err != nil {
		return nil, err
	}
	if blob == "" {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(blob), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}
