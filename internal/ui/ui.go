package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nmoreras/soundpost/internal/feed"
	"github.com/nmoreras/soundpost/internal/tasks"
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	engine  *tasks.FeedEngine
	feed    *feed.Store
	email   string
	updates chan tasks.FeedUpdate

	width    int
	height   int
	feedList list.Model
	started  bool
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model over the provided feed engine. The
// engine must not be started yet; the model starts and stops it.
func NewModel(ctx context.Context, engine *tasks.FeedEngine, store *feed.Store, email string) *Model {
	return &Model{
		ctx:     ctx,
		engine:  engine,
		feed:    store,
		email:   email,
		updates: make(chan tasks.FeedUpdate, 50),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init brings the feed engine up and starts listening for its events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startFeed(), m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.started {
			m.feedList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case feedStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.started = true
		m.rebuildList()
		return m, nil

	case feedUpdateMsg:
		m.status = msg.Message
		m.rebuildList()
		return m, m.waitForUpdate()

	case refreshDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Refresh failed: %v", msg.err)
		} else {
			m.status = "Feed refreshed"
		}
		m.rebuildList()
		return m, nil

	case markReadDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Mark read failed: %v", msg.err)
		} else {
			m.status = "All notifications marked read"
		}
		m.rebuildList()
		return m, nil
	}

	if m.started {
		var cmd tea.Cmd
		m.feedList, cmd = m.feedList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the feed list with the unread badge, status line, and help.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if !m.started {
		return styles.status.Render("Connecting to notification stream...")
	}

	status := ""
	if m.status != "" {
		status = styles.status.Render(m.status)
	}
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n%s", m.feedList.View(), status, helpView)
}

// Stop tears the feed engine down. Called by the program owner after the
// Elm loop exits.
func (m *Model) Stop() {
	m.engine.Stop()
}

// Err returns the fatal error the model quit with, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "m":
		if m.started {
			return m, m.markAllRead()
		}
	case "r":
		if m.started {
			return m, m.refresh()
		}
	}

	if m.started {
		var cmd tea.Cmd
		m.feedList, cmd = m.feedList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) rebuildList() {
	items := notificationItems(m.feed.Notifications())
	if !m.started {
		return
	}

	if m.feedList.Items() == nil {
		m.feedList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.feedList.SetSize(m.width-4, m.height-8)
	} else {
		m.feedList.SetItems(items)
	}
	m.feedList.Title = m.feedTitle()
}

func (m *Model) feedTitle() string {
	title := "Notifications"
	if unread := m.feed.UnreadCount(); unread > 0 {
		title = fmt.Sprintf("%s %s", title, styles.badge.Render(fmt.Sprintf("(%d unread)", unread)))
	}
	return title
}

func (m *Model) startFeed() tea.Cmd {
	return func() tea.Msg {
		return feedStartedMsg{err: m.engine.Start(m.ctx, m.email, m.updates)}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case update := <-m.updates:
			return feedUpdateMsg(update)
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.feed.Refresh(m.ctx, m.email)}
	}
}

func (m *Model) markAllRead() tea.Cmd {
	return func() tea.Msg {
		return markReadDoneMsg{err: m.engine.MarkAllRead(m.ctx, m.email, nil)}
	}
}
