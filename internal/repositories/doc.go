// package repositories provides the sqlite persistence layer.
//
// SessionRepository is the durable key-value store behind the session
// layer; NotificationCacheRepository mirrors the notification feed so a
// restart can render it before the first snapshot fetch.
package repositories
