package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nmoreras/soundpost/internal/models"
)

// NotificationCacheRepository persists a mirror of the notification feed.
// Replace swaps the whole cache in one transaction; List returns it newest
// first. The cache is a convenience copy, never the source of truth.
type NotificationCacheRepository struct {
	db *sql.DB
}

// NewNotificationCacheRepository creates a new [NotificationCacheRepository] with the given database connection
func NewNotificationCacheRepository(db *sql.DB) *NotificationCacheRepository {
	return &NotificationCacheRepository{db: db}
}

// Replace swaps the cached feed for the given notifications atomically.
func (r *NotificationCacheRepository) Replace(notifications []models.Notification) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM notification_cache`); err != nil {
		return fmt.Errorf("failed to clear notification cache: %w", err)
	}

	query := `
		INSERT INTO notification_cache
			(id, message, timestamp, read, username, avatar_url, post_id, comment_text, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	for _, n := range notifications {
		if n.ID == "" {
			continue
		}
		_, err := tx.Exec(query,
			n.ID, n.Message, n.Timestamp.UTC(), n.Read,
			n.Username, n.AvatarURL, n.PostID, n.CommentText, now,
		)
		if err != nil {
			return fmt.Errorf("failed to cache notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notification cache: %w", err)
	}
	return nil
}

// List returns the cached feed, newest first.
func (r *NotificationCacheRepository) List() ([]models.Notification, error) {
	query := `
		SELECT id, message, timestamp, read, username, avatar_url, post_id, comment_text
		FROM notification_cache
		ORDER BY timestamp DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification cache: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.Message, &n.Timestamp, &n.Read,
			&n.Username, &n.AvatarURL, &n.PostID, &n.CommentText)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notification cache: %w", err)
	}

	return notifications, nil
}
