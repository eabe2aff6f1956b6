package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// splitPath separates an optional query string from an API path.
func splitPath(raw string) (string, url.Values, error) {
	if raw == "" {
		return "", nil, fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return u.Path, u.Query(), nil
}

// APIGet makes a direct GET request and prints the response envelope.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, query, err := splitPath(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	env := r.client.API.Get(ctx, path, query)
	return r.writeEnvelope(env, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request with a JSON body and prints the response envelope.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, _, err := splitPath(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	var body any
	if data := cmd.String("data"); data != "" {
		if err := shared.ValidateJSON([]byte(data)); err != nil {
			return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
		}
		body = []byte(data)
	}

	r.logger.Info("POST request", "path", path)

	env := r.client.API.Post(ctx, path, body)
	return r.writeEnvelope(env, cmd.Bool("pretty"))
}

// writeEnvelope prints env and returns its error so a failed call exits non-zero.
func (r *Runner) writeEnvelope(env services.Envelope, pretty bool) error {
	if err := r.writeJSON(env, pretty); err != nil {
		return err
	}
	return env.Err()
}

// APIDump fetches and displays the signed-in account's full state.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("dumping API state")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine.Dump(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		r.logger.Warn("endpoint failed", "endpoint", e.Endpoint, "error", e.Error)
	}

	dump := result.Data()

	if save {
		saveFile := "api_dump.json"
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", saveFile)
		}
	}

	return r.writeJSON(dump, pretty)
}
