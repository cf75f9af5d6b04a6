// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the live notification feed: the [Model] starts the feed
// engine on init, then folds engine updates into a scrolling list with an
// unread badge in the title. Live deliveries flow through a channel from
// the FeedEngine, surfacing in the UI without blocking the drain loop.
//
// Keyboard navigation uses vim-style bindings (j/k, m to mark everything
// read, r to refetch the snapshot, q to quit) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
