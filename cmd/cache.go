package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/urfave/cli/v3"
)

// CacheList lists cached videos, optionally filtered by owner and title.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCache(); err != nil {
		return err
	}

	criteria := map[string]any{
		"owner_username": cmd.String("user"),
		"query":          cmd.String("query"),
		"limit":          cmd.Int("limit"),
	}

	cached, err := r.videos.List(criteria)
	if err != nil {
		return err
	}

	videos := make([]models.Video, 0, len(cached))
	for _, c := range cached {
		videos = append(videos, c.Video())
	}

	return r.writeResult(cmd, videos, func() error {
		r.writePlainHeader(fmt.Sprintf("Cached videos (%d)", len(videos)))
		return r.writePlain("%s", formatter.VideoTable(videos))
	})
}

// CacheClear removes every cached video.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCache(); err != nil {
		return err
	}

	n, err := r.videos.Clear()
	if err != nil {
		return err
	}

	r.logger.Info("cache cleared", "removed", n)
	return r.writePlain("✓ Removed %d cached video(s)\n", n)
}
