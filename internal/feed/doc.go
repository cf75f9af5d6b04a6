// Package feed holds the client-side notification feed.
//
// The feed has two inputs with different trust levels: snapshot fetches
// from the backend replace it wholesale, and live push deliveries merge
// into it one at a time, deduplicated by id. The unread count is always
// derived from the feed itself rather than tracked separately, so the two
// can never disagree.
package feed
