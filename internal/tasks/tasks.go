// package tasks orchestrates the live notification feed.
//
// The core abstraction is FeedEngine, which owns the push connection for a
// session: it seeds the feed from cache, fetches the authoritative
// snapshot, and folds live deliveries into the feed for as long as it
// runs. Feed events are emitted via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/nmoreras/soundpost/internal/feed"
	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

// NotificationSource defines the live delivery transport the engine
// drains. This abstraction allows for easier testing and decoupling from
// the concrete push channel.
type NotificationSource interface {
	// Open starts delivery for the given identity. Must be idempotent.
	Open(email string) error

	// Close tears delivery down. Safe to call from any state.
	Close()

	// Events returns the stream of parsed notifications.
	Events() <-chan models.Notification
}

// FeedEngine connects a notification source to the feed store. The engine
// is the sole owner of the source's lifecycle: nothing else opens or
// closes the push connection while the engine runs.
type FeedEngine struct {
	source NotificationSource
	feed   *feed.Store
	logger *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFeedEngine creates a new FeedEngine over the provided source and feed.
func NewFeedEngine(source NotificationSource, store *feed.Store, logger *log.Logger) *FeedEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &FeedEngine{source: source, feed: store, logger: logger}
}

// sendUpdate sends a feed update through the channel without blocking.
// Uses select with default to ensure event reporting never blocks the
// drain loop.
func (e *FeedEngine) sendUpdate(updates chan<- FeedUpdate, update FeedUpdate) {
	if updates == nil {
		return
	}
	select {
	case updates <- update:
	default:
	}
}

// Start brings the feed up for the given identity: cached entries first,
// then the live connection, then the authoritative snapshot. A failed
// snapshot fetch is reported but does not stop the engine; the live
// stream keeps the feed moving and a later refresh reconciles.
//
// Calling Start while the engine is already running is a no-op.
func (e *FeedEngine) Start(ctx context.Context, email string, updates chan<- FeedUpdate) error {
	if email == "" {
		return fmt.Errorf("%w: feed engine needs an identity", shared.ErrMissingIdentity)
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.mu.Unlock()
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	if err := e.feed.LoadCached(); err != nil {
		e.logger.Warn("failed to seed feed from cache", "err", err)
	} else if count := e.feed.Len(); count > 0 {
		e.sendUpdate(updates, cacheLoadedUpdate(count, e.feed.UnreadCount()))
	}

	if err := e.source.Open(email); err != nil {
		cancel()
		close(done)
		e.reset()
		return fmt.Errorf("failed to open notification source: %w", err)
	}

	if err := e.feed.Refresh(ctx, email); err != nil {
		e.logger.Warn("initial snapshot fetch failed", "err", err)
		e.sendUpdate(updates, snapshotFailedUpdate(err, e.feed.UnreadCount()))
	} else {
		e.sendUpdate(updates, snapshotUpdate(e.feed.Len(), e.feed.UnreadCount()))
	}

	go e.drain(runCtx, updates, done)
	return nil
}

// Stop closes the push connection and waits for the drain loop to exit.
// Safe to call when the engine never started.
func (e *FeedEngine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	e.source.Close()
	<-done
	e.reset()
}

// MarkAllRead acknowledges the whole feed and reports the result.
func (e *FeedEngine) MarkAllRead(ctx context.Context, email string, updates chan<- FeedUpdate) error {
	count := e.feed.Len()
	if err := e.feed.MarkAllRead(ctx, email); err != nil {
		return err
	}
	e.sendUpdate(updates, ackAllUpdate(count))
	return nil
}

// drain folds live deliveries into the feed until the engine stops.
func (e *FeedEngine) drain(ctx context.Context, updates chan<- FeedUpdate, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-e.source.Events():
			if !ok {
				return
			}
			before := e.feed.Len()
			e.feed.MergePush(n)
			if e.feed.Len() == before {
				continue
			}
			e.sendUpdate(updates, liveUpdate(n, e.feed.UnreadCount()))
		}
	}
}

func (e *FeedEngine) reset() {
	e.mu.Lock()
	e.cancel = nil
	e.done = nil
	e.mu.Unlock()
}
