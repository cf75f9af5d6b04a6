// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "reset-request",
				Usage: "Request a password reset link by email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
				},
				Action: r.AuthResetRequest,
			},
			{
				Name:  "reset",
				Usage: "Complete a password reset with the emailed token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Usage:    "Reset token from the email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "New password",
						Required: true,
					},
				},
				Action: r.AuthResetComplete,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (verifies the stored token)",
				Action: r.AuthStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Print the authenticated user as JSON",
				Action: r.AuthWhoami,
			},
		},
	}
}

// notificationsCommand handles the notification feed
func notificationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notifs", "n"},
		Usage:   "Notification feed operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Fetch and print the notification feed",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Print the local cache without hitting the server",
					},
				},
				Action: r.NotificationsList,
			},
			{
				Name:  "watch",
				Usage: "Stream live notifications until interrupted",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print each notification as a JSON line",
					},
				},
				Action: r.NotificationsWatch,
			},
			{
				Name:   "read",
				Usage:  "Mark all notifications read",
				Action: r.NotificationsRead,
			},
		},
	}
}

// postsCommand handles the public audio feed and post interactions
func postsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "posts",
		Usage: "Audio feed operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the public audio feed",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PostsList,
			},
			{
				Name:  "create",
				Usage: "Publish a new audio post",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Post description",
					},
					&cli.StringFlag{
						Name:  "audio-url",
						Usage: "URL of the uploaded audio file",
					},
				},
				Action: r.PostsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete one of your posts",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "post-id"},
				},
				Action: r.PostsDelete,
			},
			{
				Name:  "like",
				Usage: "Toggle your like on a post",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "post-id"},
				},
				Action: r.PostsLike,
			},
			{
				Name:  "comments",
				Usage: "List the comments on a post",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "post-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PostsComments,
			},
			{
				Name:  "comment",
				Usage: "Add a comment to a post",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "post-id"},
					&cli.StringArg{Name: "text"},
				},
				Action: r.PostsComment,
			},
		},
	}
}

// profileCommand handles user profiles
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "User profile operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show a profile (defaults to your own)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update your profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "username",
						Usage: "New display name",
					},
					&cli.StringFlag{
						Name:  "avatar",
						Usage: "New avatar URL",
					},
					&cli.StringFlag{
						Name:  "bio",
						Usage: "New bio",
					},
				},
				Action: r.ProfileUpdate,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the live notification feed.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for the live notification feed",
		Action:  r.TUI,
	}
}
