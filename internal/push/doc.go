// Package push maintains the live notification connection to the backend.
//
// [Channel] owns the lifecycle: it opens one server-sent-event stream per
// authenticated identity, parses frames into [models.Notification] values,
// and delivers them on a typed channel. A dropped transport moves the
// channel to its error state and a fixed-delay reconnect loop brings it
// back, forever, until Close.
package push
