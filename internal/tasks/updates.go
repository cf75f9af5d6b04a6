package tasks

import (
	"fmt"

	"github.com/nmoreras/soundpost/internal/models"
)

// FeedUpdate represents a feed event during a live watch session.
//
// Used to send real-time updates to the CLI or UI layer for display.
type FeedUpdate struct {
	Phase        Phase                // Feed phase
	Message      string               // Human-readable message for display
	Notification *models.Notification // The notification behind the event, when there is one
	Unread       int                  // Unread count after the event
}

// Feed phase enumeration
type Phase int

const (
	LoadCache Phase = iota
	FetchSnapshot
	LiveNotification
	AckAll
)

func (p Phase) String() string {
	switch p {
	case LoadCache:
		return "load_cache"
	case FetchSnapshot:
		return "fetch_snapshot"
	case LiveNotification:
		return "live_notification"
	case AckAll:
		return "ack_all"
	default:
		return ""
	}
}

func cacheLoadedUpdate(count, unread int) FeedUpdate {
	return FeedUpdate{
		Phase:   LoadCache,
		Message: fmt.Sprintf("Loaded %d cached notifications", count),
		Unread:  unread,
	}
}

func snapshotUpdate(count, unread int) FeedUpdate {
	return FeedUpdate{
		Phase:   FetchSnapshot,
		Message: fmt.Sprintf("Fetched %d notifications (%d unread)", count, unread),
		Unread:  unread,
	}
}

func snapshotFailedUpdate(err error, unread int) FeedUpdate {
	return FeedUpdate{
		Phase:   FetchSnapshot,
		Message: fmt.Sprintf("Snapshot fetch failed: %v", err),
		Unread:  unread,
	}
}

func liveUpdate(n models.Notification, unread int) FeedUpdate {
	message := n.Message
	if n.Username != "" {
		message = fmt.Sprintf("%s: %s", n.Username, n.Message)
	}
	return FeedUpdate{
		Phase:        LiveNotification,
		Message:      message,
		Notification: &n,
		Unread:       unread,
	}
}

func ackAllUpdate(count int) FeedUpdate {
	return FeedUpdate{
		Phase:   AckAll,
		Message: fmt.Sprintf("Marked %d notifications read", count),
	}
}
