package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
)

// DefaultReconnectDelay is the fixed wait between reconnect attempts,
// matching the backend's expected client behavior.
const DefaultReconnectDelay = 5 * time.Second

// Event names on the push stream.
const (
	eventConnection   = "connection"
	eventNotification = "notification"
)

// State models the channel lifecycle:
// CLOSED → CONNECTING → OPEN → (ERROR → CONNECTING) | CLOSED.
type State int32

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
	StateError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Options configures a [Channel].
type Options struct {
	HTTPClient     *http.Client
	ReconnectDelay time.Duration
	Logger         *log.Logger
	// Toast, when set, is invoked for every parsed notification. It is a
	// courtesy display hook; delivery to consumers never depends on it.
	Toast func(models.Notification)
}

// Channel owns one live push connection per authenticated identity. It
// reconnects after a fixed delay for as long as it is open, translates raw
// frames into typed notifications, and delivers them on Events.
type Channel struct {
	baseURL        string
	httpClient     *http.Client
	reconnectDelay time.Duration
	logger         *log.Logger
	toast          func(models.Notification)
	events         chan models.Notification

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChannel creates a push channel for the backend at baseURL. The
// channel is inert until Open is called.
func NewChannel(baseURL string, opts Options) *Channel {
	if opts.HTTPClient == nil {
		// The stream is long-lived; the client must not carry a global timeout.
		opts.HTTPClient = &http.Client{}
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Channel{
		baseURL:        baseURL,
		httpClient:     opts.HTTPClient,
		reconnectDelay: opts.ReconnectDelay,
		logger:         opts.Logger,
		toast:          opts.Toast,
		events:         make(chan models.Notification, 64),
	}
}

// Events returns the stream of parsed notifications.
func (c *Channel) Events() <-chan models.Notification {
	return c.events
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open establishes the push connection for the given identity and starts
// the reconnect loop. Calling Open while the channel is already running is
// a no-op: at most one connection exists per identity. An empty identity
// fails fast without touching the network.
func (c *Channel) Open(email string) error {
	if email == "" {
		return fmt.Errorf("%w: push channel needs an identity", shared.ErrMissingIdentity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = StateConnecting

	go c.run(ctx, email, c.done)
	return nil
}

// Close tears the connection down deterministically. Safe to call from any
// state, including when the channel was never opened.
func (c *Channel) Close() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.setState(StateClosed)
}

// run is the reconnect loop: one connection attempt per iteration, a fixed
// delay between attempts, forever until the context is cancelled.
func (c *Channel) run(ctx context.Context, email string, done chan struct{}) {
	defer close(done)

	for {
		err := c.connect(ctx, email)
		if ctx.Err() != nil {
			c.setState(StateClosed)
			return
		}

		c.setState(StateError)
		c.logger.Warn("push connection dropped, scheduling reconnect",
			"delay", c.reconnectDelay, "err", err)

		select {
		case <-ctx.Done():
			c.setState(StateClosed)
			return
		case <-time.After(c.reconnectDelay):
		}

		c.setState(StateConnecting)
	}
}

// connect performs a single streaming request and pumps frames until the
// stream breaks. Always returns a non-nil reason for the disconnect.
func (c *Channel) connect(ctx context.Context, email string) error {
	streamURL := c.baseURL + "/notifications?email=" + url.QueryEscape(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: stream status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	c.setState(StateOpen)
	c.logger.Debug("push connection open", "email", email)

	if err := readFrames(resp.Body, func(frame Frame) {
		c.handleFrame(ctx, frame)
	}); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return fmt.Errorf("stream ended")
}

// handleFrame translates one raw frame. Malformed frames are dropped and
// logged; they never terminate the connection.
func (c *Channel) handleFrame(ctx context.Context, frame Frame) {
	switch frame.Event {
	case eventConnection:
		c.logger.Debug("push handshake acknowledged")
	case eventNotification:
		var n models.Notification
		if err := json.Unmarshal([]byte(frame.Data), &n); err != nil {
			c.logger.Warn("dropping malformed push frame", "err", fmt.Errorf("%w: %v", shared.ErrMalformedFrame, err))
			return
		}
		if n.ID == "" {
			if frame.ID != "" {
				n.ID = frame.ID
			} else {
				// Feed dedup needs an id; synthesize one for frames sent without.
				n.ID = shared.GenerateID()
			}
		}
		if n.Timestamp.IsZero() {
			n.Timestamp = time.Now()
		}

		if c.toast != nil {
			c.toast(n)
		}

		select {
		case c.events <- n:
		case <-ctx.Done():
		}
	default:
		// Unknown event names are ignored; the stream stays up.
	}
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
