package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	db         *sql.DB
	videos     *repositories.VideoCacheRepository
	cache      *repositories.VideoCacheAdapter
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	DB         *sql.DB // optional; enables the session store and the video cache
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a Client one is built from the config, persisting its session in DB when one is given.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if r.client == nil {
		r.client = services.NewClient(r.config.API.BaseURL, r.httpClient, r.tokenStore())
	}
	r.client.API.SetLogger(r.logger)
	if rps := r.config.API.RequestsPerSecond; rps > 0 {
		r.client.API.SetRateLimit(rps)
	}

	if r.db != nil {
		r.videos = repositories.NewVideoCacheRepository(r.db)
		r.cache = repositories.NewVideoCacheAdapter(r.videos)
		r.engine = tasks.NewEngine(r.client, r.cache)
	} else {
		r.engine = tasks.NewEngine(r.client, nil)
	}

	return r
}

// tokenStore persists the session in the database when one is open and falls back to memory otherwise.
func (r *Runner) tokenStore() services.TokenStore {
	if r.db == nil {
		return services.NewMemoryTokenStore()
	}
	store, err := repositories.NewSessionStore(repositories.NewSessionRepository(r.db))
	if err != nil {
		r.logger.Warn("session store unavailable, sign-in will not persist", "error", err)
		return services.NewMemoryTokenStore()
	}
	return store
}

// SetLogger replaces the logger used by the runner and its API client.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.client.API.SetLogger(l)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, channelCommand, videosCommand, commentsCommand, likeCommand,
		subscribeCommand, searchCommand, apiCommand, exportCommand, cacheCommand, tuiCommand, sandboxCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireCache reports an error when the command needs the local database and none is open.
func (r *Runner) requireCache() error {
	if r.videos == nil {
		return fmt.Errorf("%w: database not initialized, run 'vidx setup database'", shared.ErrServiceUnavailable)
	}
	return nil
}

// remember writes fetched videos to the cache when one is open.
func (r *Runner) remember(videos ...models.Video) {
	if r.cache == nil {
		return
	}
	for _, v := range videos {
		if err := r.cache.CacheVideo(v); err != nil {
			r.logger.Debug("failed to cache video", "id", v.ID, "error", err)
		}
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// writeResult writes data as JSON when --json or --pretty is set and falls back to plain otherwise.
func (r *Runner) writeResult(cmd *cli.Command, data any, plain func() error) error {
	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}
	return plain()
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
