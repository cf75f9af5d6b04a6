package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nmoreras/soundpost/internal/feed"
	"github.com/nmoreras/soundpost/internal/formatter"
	"github.com/nmoreras/soundpost/internal/push"
	"github.com/nmoreras/soundpost/internal/repositories"
	"github.com/nmoreras/soundpost/internal/tasks"
	"github.com/urfave/cli/v3"
)

// NotificationsList fetches the notification snapshot and prints it.
//
// With --cached the local mirror is printed instead, without touching the
// server; useful offline.
func (r *Runner) NotificationsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	cache := repositories.NewNotificationCacheRepository(db)

	if cmd.Bool("cached") {
		store := feed.NewStore(r.api, cache, r.logger)
		if err := store.LoadCached(); err != nil {
			return err
		}
		return r.printNotifications(cmd, store)
	}

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	store := feed.NewStore(r.api, cache, r.logger)
	if err := store.Refresh(ctx, session.Email()); err != nil {
		return err
	}
	return r.printNotifications(cmd, store)
}

// NotificationsWatch keeps a live connection open and prints notifications
// as they arrive, until interrupted.
func (r *Runner) NotificationsWatch(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	cache := repositories.NewNotificationCacheRepository(db)
	store := feed.NewStore(r.api, cache, r.logger)

	channel := push.NewChannel(r.config.API.BaseURL, push.Options{
		ReconnectDelay: r.config.API.ReconnectDelay(),
		Logger:         r.logger,
	})
	engine := tasks.NewFeedEngine(channel, store, r.logger)

	watchCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	updates := make(chan tasks.FeedUpdate, 50)
	if err := engine.Start(watchCtx, session.Email(), updates); err != nil {
		return err
	}
	defer engine.Stop()

	r.writePlain("Watching notifications for %s (ctrl+c to stop)\n", session.Email())

	asJSON := cmd.Bool("json")
	for {
		select {
		case <-watchCtx.Done():
			return nil
		case update := <-updates:
			if update.Phase == tasks.LiveNotification && asJSON {
				if err := r.writeJSON(update.Notification, false); err != nil {
					return err
				}
				continue
			}
			r.writePlain("[%s] %s (%d unread)\n", update.Phase, update.Message, update.Unread)
		}
	}
}

// NotificationsRead marks every notification read.
func (r *Runner) NotificationsRead(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	cache := repositories.NewNotificationCacheRepository(db)
	store := feed.NewStore(r.api, cache, r.logger)

	if err := store.Refresh(ctx, session.Email()); err != nil {
		return err
	}
	unread := store.UnreadCount()
	if err := store.MarkAllRead(ctx, session.Email()); err != nil {
		return err
	}

	return r.writePlain("✓ Marked %d notifications read\n", unread)
}

func (r *Runner) printNotifications(cmd *cli.Command, store *feed.Store) error {
	notifications := store.Notifications()

	switch {
	case cmd.Bool("json"):
		output, err := formatter.NotificationsToJSON(notifications)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", output)
	case cmd.Bool("csv"):
		output, err := formatter.NotificationsToCSV(notifications)
		if err != nil {
			return err
		}
		return r.writePlain("%s", output)
	default:
		output, err := formatter.NotificationsToTable(notifications, store.UnreadCount())
		if err != nil {
			return err
		}
		return r.writePlain("%s", output)
	}
}
