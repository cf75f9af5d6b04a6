package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nmoreras/soundpost/internal/feed"
	"github.com/nmoreras/soundpost/internal/push"
	"github.com/nmoreras/soundpost/internal/repositories"
	"github.com/nmoreras/soundpost/internal/shared"
	"github.com/nmoreras/soundpost/internal/tasks"
	"github.com/nmoreras/soundpost/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for the live notification feed.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/soundpost-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	cache := repositories.NewNotificationCacheRepository(db)
	store := feed.NewStore(r.api, cache, r.logger)
	channel := push.NewChannel(r.config.API.BaseURL, push.Options{
		ReconnectDelay: r.config.API.ReconnectDelay(),
		Logger:         r.logger,
	})
	engine := tasks.NewFeedEngine(channel, store, r.logger)

	model := ui.NewModel(ctx, engine, store, session.Email())
	defer model.Stop()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
