package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nmoreras/soundpost/internal/feed"
	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

// fakeSource is a scripted NotificationSource.
type fakeSource struct {
	events    chan models.Notification
	openErr   error
	openCalls int
	closed    bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan models.Notification, 8)}
}

func (f *fakeSource) Open(email string) error {
	f.openCalls++
	return f.openErr
}

func (f *fakeSource) Close() { f.closed = true }

func (f *fakeSource) Events() <-chan models.Notification { return f.events }

// fakeFeedAPI scripts the feed store's backend.
type fakeFeedAPI struct {
	snapshot    []models.Notification
	snapshotErr error
	markErr     error
}

func (f *fakeFeedAPI) GetNotifications(ctx context.Context, email string) ([]models.Notification, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakeFeedAPI) MarkAllNotificationsRead(ctx context.Context, email string) error {
	return f.markErr
}

func notif(id string, sec int) models.Notification {
	return models.Notification{
		ID:        id,
		Message:   "msg " + id,
		Timestamp: time.Date(2026, 3, 1, 12, 0, sec, 0, time.UTC),
	}
}

func recvUpdate(t *testing.T, updates <-chan FeedUpdate) FeedUpdate {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed update")
		return FeedUpdate{}
	}
}

func TestFeedEngine(t *testing.T) {
	t.Run("Start Requires Identity", func(t *testing.T) {
		engine := NewFeedEngine(newFakeSource(), feed.NewStore(&fakeFeedAPI{}, nil, nil), nil)
		if err := engine.Start(context.Background(), "", nil); !errors.Is(err, shared.ErrMissingIdentity) {
			t.Errorf("expected ErrMissingIdentity, got %v", err)
		}
	})

	t.Run("Start Fetches Snapshot And Reports It", func(t *testing.T) {
		api := &fakeFeedAPI{snapshot: []models.Notification{notif("1", 1), notif("2", 2)}}
		store := feed.NewStore(api, nil, nil)
		engine := NewFeedEngine(newFakeSource(), store, nil)
		updates := make(chan FeedUpdate, 8)

		if err := engine.Start(context.Background(), "a@b.c", updates); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer engine.Stop()

		u := recvUpdate(t, updates)
		if u.Phase != FetchSnapshot || u.Unread != 2 {
			t.Errorf("expected snapshot update with 2 unread, got %+v", u)
		}
		if store.Len() != 2 {
			t.Errorf("expected 2 notifications in feed, got %d", store.Len())
		}
	})

	t.Run("Snapshot Failure Does Not Stop The Engine", func(t *testing.T) {
		api := &fakeFeedAPI{snapshotErr: errors.New("boom")}
		store := feed.NewStore(api, nil, nil)
		source := newFakeSource()
		engine := NewFeedEngine(source, store, nil)
		updates := make(chan FeedUpdate, 8)

		if err := engine.Start(context.Background(), "a@b.c", updates); err != nil {
			t.Fatalf("snapshot failure must not fail start, got %v", err)
		}
		defer engine.Stop()

		if u := recvUpdate(t, updates); u.Phase != FetchSnapshot {
			t.Errorf("expected snapshot phase update, got %+v", u)
		}

		// The live path still works.
		source.events <- notif("live", 3)
		u := recvUpdate(t, updates)
		if u.Phase != LiveNotification || u.Notification == nil || u.Notification.ID != "live" {
			t.Errorf("expected live update, got %+v", u)
		}
	})

	t.Run("Source Open Failure Fails Start", func(t *testing.T) {
		source := newFakeSource()
		source.openErr = errors.New("no transport")
		engine := NewFeedEngine(source, feed.NewStore(&fakeFeedAPI{}, nil, nil), nil)

		if err := engine.Start(context.Background(), "a@b.c", nil); err == nil {
			t.Fatal("expected error")
		}

		// A failed start leaves the engine restartable.
		source.openErr = nil
		if err := engine.Start(context.Background(), "a@b.c", nil); err != nil {
			t.Fatalf("expected restart to succeed, got %v", err)
		}
		engine.Stop()
	})

	t.Run("Live Deliveries Merge Into The Feed", func(t *testing.T) {
		api := &fakeFeedAPI{snapshot: []models.Notification{notif("2", 2), notif("1", 1)}}
		store := feed.NewStore(api, nil, nil)
		source := newFakeSource()
		engine := NewFeedEngine(source, store, nil)
		updates := make(chan FeedUpdate, 8)

		engine.Start(context.Background(), "a@b.c", updates)
		defer engine.Stop()
		recvUpdate(t, updates) // snapshot

		source.events <- notif("3", 3)
		u := recvUpdate(t, updates)
		if u.Unread != 3 {
			t.Errorf("expected 3 unread after live merge, got %d", u.Unread)
		}

		got := store.Notifications()
		if len(got) != 3 || got[0].ID != "3" {
			t.Errorf("expected live notification on top, got %+v", got)
		}
	})

	t.Run("Duplicate Delivery Emits No Update", func(t *testing.T) {
		store := feed.NewStore(&fakeFeedAPI{}, nil, nil)
		source := newFakeSource()
		engine := NewFeedEngine(source, store, nil)
		updates := make(chan FeedUpdate, 8)

		engine.Start(context.Background(), "a@b.c", updates)
		defer engine.Stop()
		recvUpdate(t, updates) // snapshot

		source.events <- notif("1", 1)
		recvUpdate(t, updates)

		source.events <- notif("1", 1)
		source.events <- notif("2", 2)

		u := recvUpdate(t, updates)
		if u.Notification == nil || u.Notification.ID != "2" {
			t.Errorf("expected duplicate suppressed, got %+v", u)
		}
	})

	t.Run("Start Is Idempotent While Running", func(t *testing.T) {
		source := newFakeSource()
		engine := NewFeedEngine(source, feed.NewStore(&fakeFeedAPI{}, nil, nil), nil)

		for i := 0; i < 3; i++ {
			if err := engine.Start(context.Background(), "a@b.c", nil); err != nil {
				t.Fatalf("start %d failed: %v", i, err)
			}
		}
		engine.Stop()

		if source.openCalls != 1 {
			t.Errorf("expected one open, got %d", source.openCalls)
		}
	})

	t.Run("Stop Closes Source And Can Restart", func(t *testing.T) {
		source := newFakeSource()
		engine := NewFeedEngine(source, feed.NewStore(&fakeFeedAPI{}, nil, nil), nil)

		engine.Start(context.Background(), "a@b.c", nil)
		engine.Stop()

		if !source.closed {
			t.Error("expected source closed on stop")
		}
		if err := engine.Start(context.Background(), "a@b.c", nil); err != nil {
			t.Fatalf("expected restart to succeed, got %v", err)
		}
		engine.Stop()
	})

	t.Run("Stop Without Start Is Safe", func(t *testing.T) {
		engine := NewFeedEngine(newFakeSource(), feed.NewStore(&fakeFeedAPI{}, nil, nil), nil)
		engine.Stop()
	})

	t.Run("MarkAllRead Reports The Acknowledged Count", func(t *testing.T) {
		store := feed.NewStore(&fakeFeedAPI{}, nil, nil)
		store.MergePush(notif("1", 1))
		store.MergePush(notif("2", 2))
		engine := NewFeedEngine(newFakeSource(), store, nil)
		updates := make(chan FeedUpdate, 8)

		if err := engine.MarkAllRead(context.Background(), "a@b.c", updates); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		u := recvUpdate(t, updates)
		if u.Phase != AckAll {
			t.Errorf("expected ack update, got %+v", u)
		}
		if store.UnreadCount() != 0 {
			t.Errorf("expected 0 unread, got %d", store.UnreadCount())
		}
	})
}
