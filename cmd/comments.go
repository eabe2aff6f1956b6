package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CommentsList lists a page of comments on a video.
func (r *Runner) CommentsList(ctx context.Context, cmd *cli.Command) error {
	videoID := cmd.StringArg("video-id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	page, err := r.client.Comments.List(ctx, videoID, cmd.Int("page"), cmd.Int("limit")).Unwrap()
	if err != nil {
		return err
	}

	return r.writeResult(cmd, page, func() error {
		r.writePlainHeader(fmt.Sprintf("Comments (%d)", page.TotalDocs))
		r.writePlain("%s", formatter.CommentTable(page.Docs))
		if next := page.Next(); next > 0 {
			return r.writePlainln("More comments: --page %d", next)
		}
		return nil
	})
}

// CommentsAdd posts a comment on a video.
func (r *Runner) CommentsAdd(ctx context.Context, cmd *cli.Command) error {
	videoID := cmd.StringArg("video-id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	c, err := r.client.Comments.Add(ctx, videoID, cmd.String("message")).Unwrap()
	if err != nil {
		return err
	}

	r.logger.Info("comment added", "id", c.ID, "video", videoID)
	return r.writeResult(cmd, c, func() error {
		return r.writePlain("✓ Comment added (id: %s)\n", c.ID)
	})
}

// CommentsEdit replaces the text of a comment.
func (r *Runner) CommentsEdit(ctx context.Context, cmd *cli.Command) error {
	commentID := cmd.StringArg("comment-id")
	if commentID == "" {
		return fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}

	c, err := r.client.Comments.Update(ctx, commentID, cmd.String("message")).Unwrap()
	if err != nil {
		return err
	}

	r.logger.Info("comment updated", "id", c.ID)
	return r.writeResult(cmd, c, func() error {
		return r.writePlain("✓ Comment updated\n")
	})
}

// CommentsDelete removes a comment.
func (r *Runner) CommentsDelete(ctx context.Context, cmd *cli.Command) error {
	commentID := cmd.StringArg("comment-id")
	if commentID == "" {
		return fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}

	if err := r.client.Comments.Delete(ctx, commentID).Err(); err != nil {
		return err
	}

	r.logger.Info("comment deleted", "id", commentID)
	return r.writePlain("✓ Comment deleted\n")
}
