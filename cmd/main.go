package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfigOrDefault(defaultConfigPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", defaultConfigPath, "error", err)
		config = shared.DefaultConfig()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "phonecat",
		Usage:    "Import and browse a phone catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrPhoneNotFound) {
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
