package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/time/rate"
)

// Export formats accepted by [BulkExportOpts.Format].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// ExportFormats lists the accepted export formats.
var ExportFormats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

const (
	defaultWorkers  = 5
	maxWorkers      = 10
	defaultRate     = 5.0
	defaultPageSize = 50
)

// BulkExportOpts contains configuration for bulk channel exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: vidx_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Requests per second shared by all workers (default: 5)
	PageSize   int     // Videos requested per page (default: 50)
}

type channelJob struct {
	index   int
	channel models.Channel
}

type channelResult struct {
	index int
	res   models.ChannelExportResult
}

// BulkExport exports the uploads of several channels concurrently.
//
// Channels are resolved by username, then a worker pool pages through each channel's videos and writes them
// in the requested format. All requests share one rate limiter. A failing channel is recorded in the result and
// does not stop the others. A manifest summarizing the run is written to the output directory.
func (e *Engine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	usernames []string,
	opts BulkExportOpts,
) (*models.BulkExportResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}
	if len(usernames) == 0 {
		return nil, fmt.Errorf("%w: at least one channel is required", shared.ErrMissingArgument)
	}

	opts.Format = strings.ToLower(strings.TrimSpace(opts.Format))
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if !slices.Contains(ExportFormats, opts.Format) {
		return nil, fmt.Errorf("%w: unsupported format %q (use one of %s)", shared.ErrInvalidFlag, opts.Format, strings.Join(ExportFormats, ", "))
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("vidx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers)
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRate
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(usernames)
	result := &models.BulkExportResult{
		TotalChannels:   total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]models.ChannelExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan channelJob, total)
	results := make(chan channelResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(prog, resolvingChannelsUpdate(total))

		for i, username := range usernames {
			username = strings.TrimPrefix(strings.TrimSpace(username), "@")
			if err := limiter.Wait(ctx); err != nil {
				results <- channelResult{index: i, res: models.ChannelExportResult{Username: username, Error: err}}
				continue
			}

			ch, err := e.client.Auth.Channel(ctx, username).Unwrap()
			if err != nil {
				results <- channelResult{index: i, res: models.ChannelExportResult{
					Username: username,
					Error:    fmt.Errorf("failed to fetch channel: %w", err),
				}}
				continue
			}

			e.sendProgress(prog, exportingChannelUpdate(i+1, total, ch))
			jobs <- channelJob{index: i, channel: ch}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]channelResult, 0, total)
	for res := range results {
		collected = append(collected, res)

		if res.res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(len(collected), total, res.res))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(len(collected), total, res.res))
		}
	}

	slices.SortFunc(collected, func(a, b channelResult) int { return a.index - b.index })
	for _, c := range collected {
		result.Results = append(result.Results, c.res)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker exports channels from the jobs channel until it is closed.
//
// Jobs left after ctx ends are reported as failed so every channel appears in the result.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan channelJob,
	results chan<- channelResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := models.ChannelExportResult{Username: job.channel.Username, ChannelID: job.channel.ID}
		if err := ctx.Err(); err != nil {
			res.Error = err
		} else {
			res = e.exportChannel(ctx, limiter, job.channel, opts)
		}
		results <- channelResult{index: job.index, res: res}
	}
}

// exportChannel fetches every page of a channel's videos and writes them in the requested format.
func (e *Engine) exportChannel(ctx context.Context, limiter *rate.Limiter, ch models.Channel, opts BulkExportOpts) models.ChannelExportResult {
	result := models.ChannelExportResult{
		Username:  ch.Username,
		ChannelID: ch.ID,
		Files:     []string{},
	}

	videos, err := e.channelVideos(ctx, limiter, ch, opts.PageSize)
	if err != nil {
		result.Error = fmt.Errorf("failed to fetch videos: %w", err)
		return result
	}
	e.cacheVideos(videos...)
	result.VideoCount = len(videos)

	export := &models.ChannelExport{Channel: ch, Videos: videos, ExportedAt: time.Now().UTC()}
	base := filepath.Join(opts.OutputDir, ch.Username)

	switch opts.Format {
	case FormatCSV:
		csvRes, err := formatter.WriteCSVExport(export, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.VideosFile, csvRes.MetadataFile}
	case FormatMarkdown:
		path, err := formatter.WriteMarkdownExport(export, base)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	case FormatText:
		path, err := formatter.WriteTextExport(export, base+"_videos.txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	default:
		path, err := formatter.WriteJSONExport(export, base+".json")
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}

// channelVideos pages through GET /videos?userId=... until the server reports no next page.
func (e *Engine) channelVideos(ctx context.Context, limiter *rate.Limiter, ch models.Channel, pageSize int) ([]models.Video, error) {
	var videos []models.Video
	page := 1
	for page > 0 {
		if err := limiter.Wait(ctx); err != nil {
			return videos, err
		}

		q := services.VideoQuery{Page: page, Limit: pageSize, UserID: ch.ID, SortBy: "createdAt", SortType: "desc"}
		res, err := e.client.Videos.List(ctx, q).Unwrap()
		if err != nil {
			return videos, err
		}
		videos = append(videos, res.Docs...)

		next := res.Next()
		if next <= page {
			break
		}
		page = next
	}
	return videos, nil
}
