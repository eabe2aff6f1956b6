package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/desertthunder/vidx/internal/server"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Sandbox serves an in-memory copy of the video API until interrupted.
func (r *Runner) Sandbox(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}
	prefix := cmd.String("prefix")

	sb := server.NewSeededSandbox()
	seed := " (seeded users alice and bob, password \"password\")"
	if cmd.Bool("empty") {
		sb = server.NewSandbox()
		seed = ""
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := shared.WithLogger(r.logger, "component", "sandbox")
	r.writePlain("Sandbox API at http://%s%s%s\n", addr, prefix, seed)

	return server.ListenAndServe(ctx, addr, sb.Handler(prefix, logger), logger)
}
