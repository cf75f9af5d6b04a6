package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Verifier performs the one-shot startup reconciliation: read the persisted
// session, verify it against the server, and leave the store in a ready
// state (authenticated or not) before any protected surface runs.
type Verifier struct {
	store  *Store
	logger *log.Logger
	once   sync.Once
}

// NewVerifier creates a verifier for the given store.
func NewVerifier(store *Store, logger *log.Logger) *Verifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Verifier{store: store, logger: logger}
}

// Run executes the verification exactly once per process lifetime;
// subsequent calls return the first outcome's error state immediately.
// The network round-trip is bounded by the API client's timeout, so a
// stalled backend cannot hold the session in loading forever.
func (v *Verifier) Run(ctx context.Context) error {
	var err error
	v.once.Do(func() {
		err = v.run(ctx)
	})
	return err
}

func (v *Verifier) run(ctx context.Context) error {
	hasToken, err := v.store.Init()
	if err != nil {
		return err
	}
	if !hasToken {
		v.logger.Debug("no persisted token, starting unauthenticated")
		return nil
	}

	if err := v.store.Verify(ctx); err != nil {
		return err
	}

	if v.store.IsAuthenticated() {
		v.logger.Debug("session verified", "email", v.store.Email())
	} else {
		v.logger.Debug("persisted session rejected, cleared")
	}
	return nil
}
