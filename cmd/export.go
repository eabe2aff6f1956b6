package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the uploads of every channel named on the command line.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	usernames := cmd.Args().Slice()
	if len(usernames) == 0 {
		return fmt.Errorf("%w: at least one channel username", shared.ErrMissingArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		PageSize:   cmd.Int("page-size"),
	}

	r.logger.Info("starting export", "channels", len(usernames), "format", opts.Format)
	r.writePlain("Exporting %d channel(s)...\n\n", len(usernames))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolveChannel:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.ExportChannel:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, usernames, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Channels: %d/%d exported\n", result.SuccessfulExports, result.TotalChannels)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d channel(s):\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - @%s: %v\n", res.Username, res.Error)
			}
		}
	}

	return nil
}
