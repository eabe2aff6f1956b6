package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// VideoQuery filters GET /videos. Zero values are omitted from the query string.
type VideoQuery struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string // e.g. createdAt, views, duration
	SortType string // asc or desc
	UserID   string
}

// Values encodes the query for the request URL.
func (q VideoQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortType != "" {
		v.Set("sortType", q.SortType)
	}
	if q.UserID != "" {
		v.Set("userId", q.UserID)
	}
	return v
}

// VideoService wraps the videos endpoints.
type VideoService struct {
	api *APIService
}

func NewVideoService(api *APIService) *VideoService {
	return &VideoService{api: api}
}

// List calls GET /videos.
func (s *VideoService) List(ctx context.Context, q VideoQuery) Result[models.Page[models.Video]] {
	return Decode[models.Page[models.Video]](s.api.Get(ctx, "/videos", q.Values()))
}

// Explore calls GET /videos/explore, the public feed.
func (s *VideoService) Explore(ctx context.Context, page, limit int) Result[models.Page[models.Video]] {
	q := VideoQuery{Page: page, Limit: limit}
	return Decode[models.Page[models.Video]](s.api.Get(ctx, "/videos/explore", q.Values()))
}

// Get calls GET /videos/{id}.
func (s *VideoService) Get(ctx context.Context, id string) Result[models.Video] {
	id = strings.TrimSpace(id)
	if id == "" {
		return failed[models.Video](localFailure(fmt.Errorf("%w: video id", shared.ErrMissingArgument)))
	}
	return notFound(Decode[models.Video](s.api.Get(ctx, "/videos/"+url.PathEscape(id), nil)), shared.ErrVideoNotFound, id)
}

// Suggestions calls GET /videos/suggestions and returns matching titles.
func (s *VideoService) Suggestions(ctx context.Context, query string) Result[[]string] {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result[[]string]{Success: true}
	}
	return Decode[[]string](s.api.Get(ctx, "/videos/suggestions", url.Values{"query": {query}}))
}
