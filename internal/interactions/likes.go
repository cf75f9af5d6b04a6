package interactions

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/nmoreras/soundpost/internal/api"
	"github.com/nmoreras/soundpost/internal/shared"
)

// LikeAPI is the slice of the backend client like syncing needs.
type LikeAPI interface {
	CheckLike(ctx context.Context, postID, userID string) (bool, error)
	LikePost(ctx context.Context, postID, userID string) (*api.LikeResult, error)
}

// LikeState is the tracked per-post like state. Both fields come from
// server responses, never from local guessing.
type LikeState struct {
	Liked bool
	Count int
}

// LikeSync keeps per-post like state in step with the server. The server
// owns the toggle semantics: every update to local state is copied from a
// server response, so repeated toggles converge instead of drifting.
type LikeSync struct {
	mu      sync.Mutex
	state   map[string]LikeState
	api     LikeAPI
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewLikeSync creates a like tracker. perSecond bounds how fast toggles
// hit the server; values <= 0 disable the bound.
func NewLikeSync(likeAPI LikeAPI, perSecond float64, logger *log.Logger) *LikeSync {
	if logger == nil {
		logger = log.Default()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &LikeSync{
		state:   make(map[string]LikeState),
		api:     likeAPI,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Check asks the server whether the user likes the post and records the
// answer.
func (s *LikeSync) Check(ctx context.Context, postID, userID string) (bool, error) {
	if postID == "" || userID == "" {
		return false, fmt.Errorf("%w: post and user ids are required", shared.ErrInvalidInput)
	}

	liked, err := s.api.CheckLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check like state: %w", err)
	}

	s.mu.Lock()
	entry := s.state[postID]
	entry.Liked = liked
	s.state[postID] = entry
	s.mu.Unlock()

	return liked, nil
}

// Toggle flips the user's like on a post. The server decides the outcome;
// local state is updated only from its response, and a failed request
// leaves local state exactly as it was.
func (s *LikeSync) Toggle(ctx context.Context, postID, userID string) (LikeState, error) {
	if postID == "" || userID == "" {
		return LikeState{}, fmt.Errorf("%w: post and user ids are required", shared.ErrInvalidInput)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return LikeState{}, fmt.Errorf("like toggle cancelled: %w", err)
	}

	result, err := s.api.LikePost(ctx, postID, userID)
	if err != nil {
		return LikeState{}, fmt.Errorf("failed to toggle like: %w", err)
	}

	next := LikeState{Liked: result.Liked(), Count: result.Likes}

	s.mu.Lock()
	s.state[postID] = next
	s.mu.Unlock()

	s.logger.Debug("like toggled", "post", postID, "action", result.Action, "likes", result.Likes)
	return next, nil
}

// State returns the last server-confirmed like state for a post. The
// second return is false when the post has never been checked or toggled.
func (s *LikeSync) State(postID string) (LikeState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.state[postID]
	return entry, ok
}
