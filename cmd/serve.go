package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/phonecat/internal/server"
	"github.com/desertthunder/phonecat/internal/services"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/desertthunder/phonecat/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API and the HTML catalog until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService(cmd)
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: --port %d out of range", shared.ErrInvalidFlag, cfg.Port)
	}

	handler, err := r.newRouter(catalog, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, handler, shared.WithLogger(r.logger, "component", "server"))
	r.writePlain("Serving catalog on http://%s\n", srv.Addr())
	return srv.Run(ctx)
}

func (r *Runner) newRouter(catalog services.Catalog, cfg shared.ServerConfig) (*server.BasicRouter, error) {
	logger := shared.WithLogger(r.logger, "component", "http")

	pages, err := web.NewHandler(catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(logger), server.Logging(logger))
	if cfg.RateLimit > 0 {
		router.Use(server.RateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	router.Handler(server.NewAPIHandler(catalog, logger))
	router.Handler(pages)
	return router, nil
}
