package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/nmoreras/soundpost/internal/models"
)

// API is the slice of the backend client the feed needs.
type API interface {
	GetNotifications(ctx context.Context, email string) ([]models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, email string) error
}

// Cache mirrors the current feed to durable storage so a restart can show
// notifications before the first snapshot fetch completes.
type Cache interface {
	Replace(notifications []models.Notification) error
	List() ([]models.Notification, error)
}

// Store is the in-memory notification feed: newest first, deduplicated by
// id, with a derived unread count. Snapshot fetches replace the feed;
// push deliveries merge into it.
type Store struct {
	mu      sync.Mutex
	items   []models.Notification
	fetches int
	pending []models.Notification
	api     API
	cache   Cache
	logger  *log.Logger
}

// NewStore creates an empty feed. cache may be nil when durable mirroring
// is not wanted.
func NewStore(api API, cache Cache, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{api: api, cache: cache, logger: logger}
}

// LoadCached seeds the feed from the durable mirror. A missing or empty
// cache is not an error; the feed just starts empty.
func (s *Store) LoadCached() error {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.List()
	if err != nil {
		return fmt.Errorf("failed to load cached notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = sortNewestFirst(cached)
	return nil
}

// Refresh fetches the authoritative snapshot and replaces the feed with
// it. Whatever the server says wins, including read flags set elsewhere.
// Pushes merged while the fetch is in flight are re-merged over the
// snapshot so the replacement cannot lose them; on an id collision the
// server row wins.
func (s *Store) Refresh(ctx context.Context, email string) error {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()

	snapshot, err := s.api.GetNotifications(ctx, email)

	s.mu.Lock()
	s.fetches--
	if err != nil {
		// The feed was never replaced, so the racing pushes are
		// already in it and nothing needs re-merging.
		if s.fetches == 0 {
			s.pending = nil
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to fetch notification snapshot: %w", err)
	}

	merged := dedupe(snapshot)
	seen := make(map[string]bool, len(merged))
	for _, n := range merged {
		seen[n.ID] = true
	}
	for _, n := range s.pending {
		if !seen[n.ID] {
			seen[n.ID] = true
			merged = append(merged, n)
		}
	}
	if s.fetches == 0 {
		s.pending = nil
	}
	s.items = sortNewestFirst(merged)
	items := s.copyItemsLocked()
	s.mu.Unlock()

	s.mirror(items)
	return nil
}

// MergePush folds one live notification into the feed. A notification
// whose id is already present is a duplicate delivery and changes
// nothing. New notifications slot in by timestamp, so an out-of-order
// delivery cannot break the newest-first ordering.
func (s *Store) MergePush(n models.Notification) {
	if err := n.Validate(); err != nil {
		s.logger.Warn("ignoring invalid notification", "err", err)
		return
	}

	s.mu.Lock()
	for _, existing := range s.items {
		if existing.ID == n.ID {
			s.mu.Unlock()
			s.logger.Debug("duplicate push delivery ignored", "id", n.ID)
			return
		}
	}
	s.items = sortNewestFirst(append(s.items, n))
	if s.fetches > 0 {
		s.pending = append(s.pending, n)
	}
	items := s.copyItemsLocked()
	s.mu.Unlock()

	s.mirror(items)
}

// MarkAllRead flips every notification to read locally, then tells the
// server. The local flip is optimistic and is not rolled back on failure;
// the next snapshot fetch reconciles any divergence.
func (s *Store) MarkAllRead(ctx context.Context, email string) error {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	items := s.copyItemsLocked()
	s.mu.Unlock()

	s.mirror(items)

	if err := s.api.MarkAllNotificationsRead(ctx, email); err != nil {
		return fmt.Errorf("failed to acknowledge notifications: %w", err)
	}
	return nil
}

// Notifications returns a copy of the feed, newest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItemsLocked()
}

// UnreadCount returns how many notifications are still unread.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Len returns the feed size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) copyItemsLocked() []models.Notification {
	items := make([]models.Notification, len(s.items))
	copy(items, s.items)
	return items
}

// mirror writes the feed to the durable cache. Mirror failures are logged
// and swallowed; the in-memory feed is the source of truth for this run.
func (s *Store) mirror(items []models.Notification) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Replace(items); err != nil {
		s.logger.Warn("failed to mirror notifications to cache", "err", err)
	}
}

func sortNewestFirst(items []models.Notification) []models.Notification {
	sorted := make([]models.Notification, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

func dedupe(items []models.Notification) []models.Notification {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, n := range items {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}
