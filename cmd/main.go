package main

import (
	"context"
	"errors"
	"os"

	"github.com/nmoreras/soundpost/internal/api"
	"github.com/nmoreras/soundpost/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := api.NewClient(config.API.BaseURL, nil, config.API.Timeout())

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    client,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "soundpost",
		Usage:    "Session & live notifications for the soundpost audio feed",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
