package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// CommentService wraps the comments endpoints.
type CommentService struct {
	api *APIService
}

func NewCommentService(api *APIService) *CommentService {
	return &CommentService{api: api}
}

type commentBody struct {
	Content string `json:"content"`
}

// List calls GET /comments/{videoId}.
func (s *CommentService) List(ctx context.Context, videoID string, page, limit int) Result[models.Page[models.Comment]] {
	if strings.TrimSpace(videoID) == "" {
		return failed[models.Page[models.Comment]](localFailure(fmt.Errorf("%w: video id", shared.ErrMissingArgument)))
	}

	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return Decode[models.Page[models.Comment]](s.api.Get(ctx, "/comments/"+url.PathEscape(videoID), q))
}

// Add calls POST /comments/{videoId}. Blank content is rejected without a request.
func (s *CommentService) Add(ctx context.Context, videoID, content string) Result[models.Comment] {
	if strings.TrimSpace(videoID) == "" {
		return failed[models.Comment](localFailure(fmt.Errorf("%w: video id", shared.ErrMissingArgument)))
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return failed[models.Comment](localFailure(fmt.Errorf("%w: comment content is required", shared.ErrInvalidInput)))
	}
	return Decode[models.Comment](s.api.Post(ctx, "/comments/"+url.PathEscape(videoID), commentBody{Content: content}))
}

// Update calls PATCH /comments/c/{commentId}.
func (s *CommentService) Update(ctx context.Context, commentID, content string) Result[models.Comment] {
	if strings.TrimSpace(commentID) == "" {
		return failed[models.Comment](localFailure(fmt.Errorf("%w: comment id", shared.ErrMissingArgument)))
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return failed[models.Comment](localFailure(fmt.Errorf("%w: comment content is required", shared.ErrInvalidInput)))
	}
	res := Decode[models.Comment](s.api.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   "/comments/c/" + url.PathEscape(commentID),
		Body:   commentBody{Content: content},
	}))
	return notFound(res, shared.ErrCommentNotFound, commentID)
}

// Delete calls DELETE /comments/c/{commentId}.
func (s *CommentService) Delete(ctx context.Context, commentID string) Envelope {
	if strings.TrimSpace(commentID) == "" {
		return localFailure(fmt.Errorf("%w: comment id", shared.ErrMissingArgument))
	}
	env := s.api.Do(ctx, Request{Method: http.MethodDelete, Path: "/comments/c/" + url.PathEscape(commentID)})
	return env.notFound(shared.ErrCommentNotFound, commentID)
}
