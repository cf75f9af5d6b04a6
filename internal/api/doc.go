// Package api implements the typed REST client for the soundpost backend.
//
// [Client] owns the base URL, the HTTP transport, the bearer token, and a
// per-request timeout applied to every call. Endpoint wrappers are grouped
// by concern: auth.go (login/register/verify/reset), notifications.go
// (snapshot fetch + mark-all-read), posts.go (feed, likes, comments), and
// profile.go.
//
// Error taxonomy: connectivity failures wrap [shared.ErrServiceUnavailable],
// non-2xx statuses wrap [shared.ErrAPIRequest], and a rejected verify
// wraps [shared.ErrTokenRejected] so the session layer can treat it as a
// deliberate logout rather than an exception.
package api
