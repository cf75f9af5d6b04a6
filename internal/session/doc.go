// Package session owns authentication truth for the client process.
//
// [Store] is the single authoritative in-memory session; [Storage] is the
// durable key-value layer it survives restarts in (sqlite-backed in
// production, in-memory in tests); [Verifier] is the one-shot startup
// reconciliation between the two and the server.
//
// The store never opens or closes the push channel — callers coordinate
// that through the channel's owner, keeping session mutation free of
// networking side effects beyond the verify round-trip itself.
package session
