package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/nmoreras/soundpost/internal/models"
)

// State is a point-in-time snapshot of the session.
//
// Invariants maintained by [Store]: Token is non-empty whenever
// IsAuthenticated is true; Loading is true only during the startup
// verification window; User is non-nil whenever IsAuthenticated is true.
type State struct {
	IsAuthenticated bool
	User            *models.User
	Token           string
	Loading         bool
}

// VerifyAPI is the slice of the backend client the store needs: install a
// bearer token and verify it.
type VerifyAPI interface {
	SetToken(token string)
	VerifyAuth(ctx context.Context) (*models.User, error)
}

// Store owns the single authoritative in-memory representation of who is
// logged in. All mutation goes through Init, Verify, Login, Logout, and
// UpdateUser; consumers read snapshots.
type Store struct {
	mu      sync.RWMutex
	state   State
	storage Storage
	api     VerifyAPI
	logger  *log.Logger
}

// NewStore creates a session store over the given durable storage and
// backend client. The session starts in the loading state until Init runs.
func NewStore(storage Storage, api VerifyAPI, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		state:   State{Loading: true},
		storage: storage,
		api:     api,
		logger:  logger,
	}
}

// Init reads the cached token and user from durable storage. When no token
// is present the session transitions directly to unauthenticated-ready and
// Init reports false; otherwise the cached identity is staged for Verify
// and Init reports true.
func (s *Store) Init() (bool, error) {
	token, err := s.storage.Get(KeyToken)
	if err != nil {
		return false, fmt.Errorf("failed to read session storage: %w", err)
	}

	user, err := LoadUser(s.storage)
	if err != nil {
		return false, fmt.Errorf("failed to read cached user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		s.state = State{}
		return false, nil
	}

	// Cached identity renders immediately; it is not trusted until Verify.
	s.state = State{Loading: true, Token: token, User: user}
	s.api.SetToken(token)
	return true, nil
}

// Verify reconciles the staged token against the server.
//
// On success the returned user fields win over the cached copy and the
// merged record is re-persisted. On any failure — connectivity or a
// rejected token — the session and durable storage are cleared. Either way
// the session leaves the loading state. A rejected or unreachable verify is
// a normal outcome, not an error; only storage faults are returned.
func (s *Store) Verify(ctx context.Context) error {
	s.mu.RLock()
	token := s.state.Token
	s.mu.RUnlock()

	if token == "" {
		return s.clear()
	}

	serverUser, err := s.api.VerifyAuth(ctx)
	if err != nil {
		s.logger.Warn("session verification failed, clearing session", "err", err)
		return s.clear()
	}

	s.mu.Lock()
	var cached models.User
	if s.state.User != nil {
		cached = *s.state.User
	}
	merged := cached.Merge(serverUser)
	s.state = State{
		IsAuthenticated: true,
		User:            &merged,
		Token:           token,
	}
	s.mu.Unlock()

	if err := SaveUser(s.storage, &merged); err != nil {
		return fmt.Errorf("failed to persist verified user: %w", err)
	}
	return nil
}

// Login installs a fresh identity from a successful login or registration
// and persists it. Opening the push channel is the caller's job; the store
// stays side-effect-free with respect to networking.
func (s *Store) Login(user *models.User, token string) error {
	if token == "" {
		return fmt.Errorf("login requires a token")
	}

	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := SaveUser(s.storage, user); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}

	s.mu.Lock()
	s.state = State{
		IsAuthenticated: true,
		User:            user,
		Token:           token,
	}
	s.mu.Unlock()

	s.api.SetToken(token)
	return nil
}

// Logout clears durable storage and resets the session to the
// unauthenticated state. The owner of the push channel must close it
// before calling Logout.
func (s *Store) Logout() error {
	return s.clear()
}

// UpdateUser shallow-merges the non-empty fields of partial into the
// current user and re-persists the result. Authentication state and token
// are untouched.
func (s *Store) UpdateUser(partial *models.User) error {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return fmt.Errorf("no user in session")
	}
	merged := s.state.User.Merge(partial)
	s.state.User = &merged
	s.mu.Unlock()

	if err := SaveUser(s.storage, &merged); err != nil {
		return fmt.Errorf("failed to persist user update: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}

// IsAuthenticated reports whether the session holds a verified identity.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Loading reports whether the startup verification window is still open.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Email returns the authenticated identity's email, or "" when logged out.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.Email
}

func (s *Store) clear() error {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	s.api.SetToken("")

	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("failed to clear session storage: %w", err)
	}
	return nil
}
