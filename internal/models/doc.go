// Package models holds the wire and domain types shared across the client:
// the authenticated [User], the public [Profile], feed [Notification]
// entries, and the [Post]/[Comment] pair for the audio feed.
//
// Types mirror the backend's JSON field names exactly so the client can
// interoperate with the existing REST contract.
package models
