// Package interactions syncs the user's post interactions with the
// backend. The server is the source of truth for like state; this package
// only mirrors what it confirms.
package interactions
