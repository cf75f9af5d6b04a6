package ui

import (
	"github.com/nmoreras/soundpost/internal/tasks"
)

// feedStartedMsg reports the outcome of bringing the feed engine up.
type feedStartedMsg struct {
	err error
}

// feedUpdateMsg wraps one engine event for the Elm update loop.
type feedUpdateMsg tasks.FeedUpdate

// refreshDoneMsg reports the outcome of a manual snapshot refetch.
type refreshDoneMsg struct {
	err error
}

// markReadDoneMsg reports the outcome of acknowledging the feed.
type markReadDoneMsg struct {
	err error
}
