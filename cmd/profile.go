package main

import (
	"context"
	"fmt"

	"github.com/nmoreras/soundpost/internal/formatter"
	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints a public profile. With no email argument it shows the
// authenticated user's own profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")

	if email == "" {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		session, err := r.requireSession(ctx, db)
		if err != nil {
			return err
		}
		email = session.Email()
	}

	profile, err := r.api.UserProfile(ctx, email)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	output, err := formatter.ProfileToText(profile)
	if err != nil {
		return err
	}
	return r.writePlain("%s", output)
}

// ProfileUpdate pushes profile edits and merges the server's answer back
// into the session.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	avatar := cmd.String("avatar")
	bio := cmd.String("bio")

	if username == "" && avatar == "" && bio == "" {
		return fmt.Errorf("%w: nothing to update, pass --username, --avatar, or --bio", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	profile := &models.Profile{
		Email:     session.Email(),
		Username:  username,
		AvatarURL: avatar,
		Bio:       bio,
	}

	updated, err := r.api.UpdateProfile(ctx, profile)
	if err != nil {
		return err
	}

	if updated != nil {
		if err := session.UpdateUser(updated); err != nil {
			return fmt.Errorf("profile updated on server, failed to update session: %w", err)
		}
	}

	return r.writePlain("✓ Profile updated\n")
}
