package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

func videoQuery(page, limit int, query, userID string) services.VideoQuery {
	return services.VideoQuery{Page: page, Limit: limit, Query: query, UserID: userID}
}

// VideosList lists videos matching the query and owner filters.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	q := videoQuery(cmd.Int("page"), cmd.Int("limit"), cmd.String("query"), "")
	q.SortBy = cmd.String("sort-by")
	q.SortType = cmd.String("sort-type")

	if username := cmd.String("user"); username != "" {
		ch, err := r.client.Auth.Channel(ctx, username).Unwrap()
		if err != nil {
			return err
		}
		q.UserID = ch.ID
	}

	r.logger.Info("listing videos", "page", q.Page, "limit", q.Limit, "query", q.Query)

	page, err := r.client.Videos.List(ctx, q).Unwrap()
	if err != nil {
		return err
	}
	r.remember(page.Docs...)

	return r.writePage(cmd, page)
}

// VideosExplore lists the explore feed.
func (r *Runner) VideosExplore(ctx context.Context, cmd *cli.Command) error {
	page, err := r.client.Videos.Explore(ctx, cmd.Int("page"), cmd.Int("limit")).Unwrap()
	if err != nil {
		return err
	}
	r.remember(page.Docs...)

	return r.writePage(cmd, page)
}

func (r *Runner) writePage(cmd *cli.Command, page models.Page[models.Video]) error {
	return r.writeResult(cmd, page, func() error {
		r.writePlain("%s", formatter.VideoTable(page.Docs))
		footer := fmt.Sprintf("Page %d of %d · %d videos", page.Page, max(page.TotalPages, 1), page.TotalDocs)
		if next := page.Next(); next > 0 {
			footer += fmt.Sprintf(" · next: --page %d", next)
		}
		return r.writePlainln("%s", footer)
	})
}

// VideosGet shows a single video.
func (r *Runner) VideosGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	v, err := r.client.Videos.Get(ctx, id).Unwrap()
	if err != nil {
		return err
	}
	r.remember(v)

	if cmd.Bool("open") {
		if v.VideoFile == "" {
			r.logger.Warn("video has no file URL", "id", v.ID)
		} else if err := shared.OpenBrowser(v.VideoFile); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return r.writeResult(cmd, v, func() error {
		r.writePlainHeader(v.Title)
		r.writePlain("By: %s (@%s)\n", v.Owner.FullName, v.Owner.Username)
		r.writePlain("%s · %s · %s\n", formatter.Views(v.Views), formatter.Age(v.CreatedAt), formatter.Duration(v))
		r.writePlain("Likes: %d", v.LikesCount)
		if v.IsLiked {
			r.writePlain(" (liked)")
		}
		r.writePlain("\nVisibility: %s\n", shared.VisibilityString(v.IsPublished))
		if desc := strings.TrimSpace(v.Description); desc != "" {
			r.writePlainln("%s", desc)
		}
		return nil
	})
}

// VideosLiked lists the videos the signed-in user liked.
func (r *Runner) VideosLiked(ctx context.Context, cmd *cli.Command) error {
	videos, err := r.client.Likes.LikedVideos(ctx).Unwrap()
	if err != nil {
		return err
	}
	r.remember(videos...)

	return r.writeVideos(cmd, "Liked videos", videos)
}

// VideosHistory lists the signed-in user's watch history.
func (r *Runner) VideosHistory(ctx context.Context, cmd *cli.Command) error {
	videos, err := r.client.Auth.History(ctx).Unwrap()
	if err != nil {
		return err
	}
	r.remember(videos...)

	return r.writeVideos(cmd, "Watch history", videos)
}

func (r *Runner) writeVideos(cmd *cli.Command, title string, videos []models.Video) error {
	return r.writeResult(cmd, videos, func() error {
		r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(videos)))
		return r.writePlain("%s", formatter.VideoTable(videos))
	})
}
