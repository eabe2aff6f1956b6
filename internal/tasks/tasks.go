package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
)

// VideoCacher persists videos seen by a task. Implemented by repositories.VideoCacheAdapter.
type VideoCacher interface {
	CacheVideo(v models.Video) error
}

// TitleSource lists locally known video titles for offline suggestions.
type TitleSource interface {
	CachedTitles() ([]string, error)
}

// EndpointResult records a failed endpoint fetch.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// DumpResult contains everything [Engine.Dump] could fetch.
type DumpResult struct {
	Health   *services.HealthStatus
	User     *models.User
	History  []models.Video
	Liked    []models.Video
	Channels []models.Channel
	Explore  *models.Page[models.Video]
	Errors   []EndpointResult // Failed endpoint fetches
}

// DumpData is the serializable form of a [DumpResult].
type DumpData struct {
	Health   *services.HealthStatus     `json:"health"`
	User     *models.User               `json:"user,omitempty"`
	History  []models.Video             `json:"history,omitempty"`
	Liked    []models.Video             `json:"liked_videos,omitempty"`
	Channels []models.Channel           `json:"subscribed_channels,omitempty"`
	Explore  *models.Page[models.Video] `json:"explore,omitempty"`
	Errors   []map[string]string        `json:"errors,omitempty"`
}

// Data converts r for JSON output.
func (r *DumpResult) Data() DumpData {
	d := DumpData{
		Health:   r.Health,
		User:     r.User,
		History:  r.History,
		Liked:    r.Liked,
		Channels: r.Channels,
		Explore:  r.Explore,
	}
	for _, e := range r.Errors {
		d.Errors = append(d.Errors, map[string]string{"endpoint": e.Endpoint, "error": e.Error.Error()})
	}
	return d
}

type endpointOperation struct {
	path    string
	phase   Phase
	message string
	run     func(ctx context.Context) error
}

// Engine runs multi-request operations against the video API.
type Engine struct {
	client *services.Client
	cache  VideoCacher
}

// NewEngine creates an Engine. cache may be nil, in which case fetched videos are not persisted.
func NewEngine(client *services.Client, cache VideoCacher) *Engine {
	return &Engine{client: client, cache: cache}
}

// sendProgress sends a progress update without blocking; updates are dropped when the channel is full.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// cacheVideos stores videos, ignoring failures so a broken cache never fails a task.
func (e *Engine) cacheVideos(videos ...models.Video) int {
	if e.cache == nil {
		return 0
	}
	cached := 0
	for _, v := range videos {
		if err := e.cache.CacheVideo(v); err == nil {
			cached++
		}
	}
	return cached
}

// Dump fetches the health check, the signed-in user's profile, history, likes and subscriptions, and the
// first page of the explore feed.
//
// A failing endpoint does not stop the dump; it is recorded in [DumpResult.Errors].
// Every video fetched is written to the cache.
func (e *Engine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{Errors: []EndpointResult{}}

	endpoints := []endpointOperation{
		{path: "/healthcheck", phase: FetchHealth, message: "Fetching health status...", run: func(ctx context.Context) error {
			h, err := e.client.API.HealthCheck(ctx).Unwrap()
			if err == nil {
				result.Health = &h
			}
			return err
		}},
		{path: "/users/current-user", phase: FetchUser, message: "Fetching current user...", run: func(ctx context.Context) error {
			u, err := e.client.Auth.CurrentUser(ctx).Unwrap()
			if err == nil {
				result.User = &u
			}
			return err
		}},
		{path: "/users/history", phase: FetchHistory, message: "Fetching watch history...", run: func(ctx context.Context) error {
			videos, err := e.client.Auth.History(ctx).Unwrap()
			result.History = videos
			e.cacheVideos(videos...)
			return err
		}},
		{path: "/likes/videos", phase: FetchLiked, message: "Fetching liked videos...", run: func(ctx context.Context) error {
			videos, err := e.client.Likes.LikedVideos(ctx).Unwrap()
			result.Liked = videos
			e.cacheVideos(videos...)
			return err
		}},
		{path: "/subscriptions/channels", phase: FetchChannels, message: "Fetching subscribed channels...", run: func(ctx context.Context) error {
			channels, err := e.client.Subscriptions.Channels(ctx).Unwrap()
			result.Channels = channels
			return err
		}},
		{path: "/videos/explore", phase: FetchExplore, message: "Fetching explore feed...", run: func(ctx context.Context) error {
			page, err := e.client.Videos.Explore(ctx, 1, 0).Unwrap()
			if err == nil {
				result.Explore = &page
				e.cacheVideos(page.Docs...)
			}
			return err
		}},
	}

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, len(endpoints)))

		if err := endpoint.run(ctx); err != nil {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.path, Error: err})
		}
	}

	return result, nil
}
