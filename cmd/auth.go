package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.bootSession(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "email", email)

	result, err := r.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := store.Login(&result.User, result.Token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return r.writePlain("✓ Logged in as %s (%s)\n", result.User.Username, result.User.Email)
}

// AuthRegister creates an account; the backend logs the new user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	username := cmd.String("username")
	password := cmd.String("password")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.bootSession(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Info("registering account", "email", email, "username", username)

	result, err := r.api.Register(ctx, email, username, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if result.Token == "" {
		// Some deployments require email confirmation before login.
		return r.writePlain("✓ Account created. Log in with 'soundpost auth login'.\n")
	}

	if err := store.Login(&result.User, result.Token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return r.writePlain("✓ Registered and logged in as %s (%s)\n", result.User.Username, result.User.Email)
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.bootSession(ctx, db)
	if err != nil {
		return err
	}

	if err := store.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthResetRequest asks the backend to email a password reset link.
func (r *Runner) AuthResetRequest(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	if err := r.api.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}
	return r.writePlain("✓ Reset link sent to %s (check your inbox)\n", email)
}

// AuthResetComplete finishes a password reset with the emailed token.
func (r *Runner) AuthResetComplete(ctx context.Context, cmd *cli.Command) error {
	if err := r.api.ResetPassword(ctx, cmd.String("token"), cmd.String("password")); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	return r.writePlain("✓ Password updated. Log in with 'soundpost auth login'.\n")
}

// AuthStatus reports whether the stored token still verifies.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.bootSession(ctx, db)
	if err != nil {
		return err
	}

	state := store.Snapshot()
	if !state.IsAuthenticated {
		return r.writePlain("✗ Not authenticated\n")
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("User: %s\n", state.User.Username)
	r.writePlain("Email: %s\n", state.User.Email)
	return nil
}

// AuthWhoami prints the verified user record as JSON.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	return r.writeJSON(store.Snapshot().User, true)
}
