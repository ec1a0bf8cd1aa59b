package importer

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/birdnet-sql/internal/datastore"
	"github.com/tphakala/birdnet-sql/internal/errors"
	"github.com/tphakala/birdnet-sql/internal/logger"
	"github.com/tphakala/birdnet-sql/internal/runtime"
)

// ErrFilesFailed is returned by the command entry points when the run completed
// but at least one file failed.
var ErrFilesFailed = errors.NewStd("one or more files failed to import")

// FileImport imports the listed result files in the given order.
func FileImport(ctx context.Context, rt *runtime.Context, files []string) error {
	return execute(ctx, rt, files)
}

// DirectoryImport imports every result file found under dir.
func DirectoryImport(ctx context.Context, rt *runtime.Context, dir string) error {
	in := rt.Settings.Input
	files, err := Discover(rt.Fs, dir, in.Pattern, in.Recursive)
	if err != nil {
		return err
	}

	rt.Module("importer").Info("discovered result files",
		logger.String("path", dir),
		logger.String("pattern", in.Pattern),
		logger.Bool("recursive", in.Recursive),
		logger.Int("files", len(files)))

	return execute(ctx, rt, files)
}

// execute opens the configured store, runs the import and reports the outcome.
func execute(ctx context.Context, rt *runtime.Context, files []string) (err error) {
	settings := rt.Settings
	log := rt.Module("importer")

	store, err := datastore.New(settings, rt.Module("datastore"))
	if err != nil {
		return err
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	im := New(settings, store, rt.Fs, WithLogger(log), WithMetrics(metrics))
	stats, runErr := im.Run(ctx, files)

	if werr := WriteSummary(rt.Stdout, stats); werr != nil {
		log.Warn("failed to write run summary", logger.Error(werr))
	}

	if path := settings.Metrics.Textfile; path != "" {
		if merr := metrics.WriteTextfile(path); merr != nil {
			log.Warn("failed to write metrics textfile",
				logger.String("path", path),
				logger.Error(merr))
		}
	}

	if runErr != nil {
		return runErr
	}
	if stats.HasFailures() {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, stats.Failed, len(files))
	}
	return nil
}
