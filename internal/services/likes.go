package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// LikeService wraps the likes endpoints. Every call requires a session.
type LikeService struct {
	api *APIService
}

func NewLikeService(api *APIService) *LikeService {
	return &LikeService{api: api}
}

// ToggleVideo calls POST /likes/toggle/v/{videoId}.
func (s *LikeService) ToggleVideo(ctx context.Context, videoID string) Result[models.LikeStatus] {
	return s.toggle(ctx, "/likes/toggle/v/", videoID)
}

// ToggleComment calls POST /likes/toggle/c/{commentId}.
func (s *LikeService) ToggleComment(ctx context.Context, commentID string) Result[models.LikeStatus] {
	return s.toggle(ctx, "/likes/toggle/c/", commentID)
}

func (s *LikeService) toggle(ctx context.Context, prefix, id string) Result[models.LikeStatus] {
	if s.api.tokens.Token() == "" {
		return failed[models.LikeStatus](localFailure(shared.ErrNotAuthenticated))
	}
	if strings.TrimSpace(id) == "" {
		return failed[models.LikeStatus](localFailure(fmt.Errorf("%w: id", shared.ErrMissingArgument)))
	}
	return Decode[models.LikeStatus](s.api.Post(ctx, prefix+url.PathEscape(id), nil))
}

// LikedVideos calls GET /likes/videos.
func (s *LikeService) LikedVideos(ctx context.Context) Result[[]models.Video] {
	if s.api.tokens.Token() == "" {
		return failed[[]models.Video](localFailure(shared.ErrNotAuthenticated))
	}
	return Decode[[]models.Video](s.api.Get(ctx, "/likes/videos", nil))
}
