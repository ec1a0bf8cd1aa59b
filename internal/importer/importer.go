// Package importer drives an import run: each result file is resolved, read,
// aggregated and appended to the output table, one file at a time.
package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/datastore"
	"github.com/tphakala/birdnet-sql/internal/detection"
	"github.com/tphakala/birdnet-sql/internal/errors"
	"github.com/tphakala/birdnet-sql/internal/logger"
	"github.com/tphakala/birdnet-sql/internal/recording"
	"github.com/tphakala/birdnet-sql/internal/results"
)

// ErrNoRows is reported for result files without data rows.
var ErrNoRows = errors.NewStd("results file has no detection rows")

// FileResult describes what happened to one input file.
type FileResult struct {
	Path     string
	Status   string // StatusImported, StatusSkipped or StatusFailed
	Rows     int    // raw rows read
	Events   int    // events written
	Duration time.Duration
	Err      error // reason for a skipped or failed file
}

// Stats summarises an import run.
type Stats struct {
	ImportID      string
	Table         string
	Imported      int
	Skipped       int
	Failed        int
	RowsRead      int
	EventsWritten int
	Duration      time.Duration
	Files         []FileResult
}

// HasFailures reports whether any file failed.
func (s *Stats) HasFailures() bool {
	return s.Failed > 0
}

func (s *Stats) add(res FileResult) {
	s.Files = append(s.Files, res)
	switch res.Status {
	case StatusImported:
		s.Imported++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
	s.RowsRead += res.Rows
	s.EventsWritten += res.Events
}

// Importer imports result files into a datastore.
type Importer struct {
	store    datastore.Interface
	reader   *results.Reader
	policy   detection.Policy
	options  recording.Options
	table    string
	recreate bool

	importID string
	log      logger.Logger
	metrics  *Metrics
	now      func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for per-file messages.
func WithLogger(log logger.Logger) Option {
	return func(im *Importer) {
		im.log = log
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(im *Importer) {
		im.metrics = m
	}
}

// WithImportID overrides the generated run identifier.
func WithImportID(id string) Option {
	return func(im *Importer) {
		im.importID = id
	}
}

// New creates an Importer writing to an already opened store and reading result
// files from fs.
func New(settings *conf.Settings, store datastore.Interface, fs afero.Fs, opts ...Option) *Importer {
	cols := settings.Input.Columns
	im := &Importer{
		store: store,
		reader: results.NewReader(fs, results.Columns{
			Start:      cols.Start,
			End:        cols.End,
			Confidence: cols.Confidence,
			Metric:     cols.Metric,
			Label:      cols.Label,
		}),
		policy: detection.Policy{
			ConfidenceGate: settings.Aggregation.ConfidenceGate,
			MetricGate:     settings.Aggregation.MetricGate,
		},
		options: recording.Options{
			LocationIndex: settings.Input.LocationIndex,
			IncludePrefix: settings.Input.Prefix,
		},
		table:    settings.Output.Table,
		recreate: settings.Output.Recreate,
		importID: uuid.NewString(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(im)
	}
	if im.log == nil {
		im.log = logger.Global().Module("importer")
	}
	return im
}

// ImportID returns the identifier stamped on every row written by this importer.
func (im *Importer) ImportID() string {
	return im.importID
}

// Run imports files in order. Skipped and failed files are recorded in the
// returned Stats and processing continues; configuration and database errors
// abort the run and are returned together with the partial Stats.
func (im *Importer) Run(ctx context.Context, files []string) (*Stats, error) {
	start := im.now()
	stats := &Stats{ImportID: im.importID, Table: im.table}
	defer func() {
		stats.Duration = im.now().Sub(start)
		if im.metrics != nil {
			im.metrics.RecordRunEnd(im.now())
		}
	}()

	ctx = logger.WithTraceID(ctx, im.importID)
	log := im.log.WithContext(ctx)
	log.Info("starting import",
		logger.Int("files", len(files)),
		logger.String("table", im.table),
		logger.Bool("recreate", im.recreate))

	if err := im.store.PrepareTable(im.table, im.recreate); err != nil {
		log.Error("failed to prepare output table", logger.String("table", im.table), logger.Error(err))
		return stats, err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("import interrupted", logger.Int("remaining", len(files)-len(stats.Files)))
			return stats, err
		}

		res, err := im.ImportFile(path)
		stats.add(res)
		if im.metrics != nil {
			im.metrics.RecordFile(res.Status, res.Duration)
			im.metrics.RecordRows(res.Rows)
			im.metrics.RecordEvents(res.Events)
		}

		fields := []logger.Field{
			logger.String("file", path),
			logger.Int("rows", res.Rows),
			logger.Int("events", res.Events),
			logger.Duration("duration", res.Duration),
		}
		switch {
		case err == nil:
			log.Info("file imported", fields...)
		case errors.IsFatal(err):
			log.Error("aborting import", append(fields, logger.Error(err))...)
			return stats, err
		case res.Status == StatusSkipped:
			log.Warn("file skipped", append(fields, logger.Error(err))...)
		default:
			log.Error("file failed", append(fields, logger.Error(err))...)
		}
	}

	log.Info("import finished",
		logger.Int("imported", stats.Imported),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed),
		logger.Int("events", stats.EventsWritten))
	return stats, nil
}

// ImportFile imports a single result file. The returned FileResult is always
// populated; err is nil only when the file was imported.
func (im *Importer) ImportFile(path string) (FileResult, error) {
	start := im.now()
	res := FileResult{Path: path}

	fail := func(err error) (FileResult, error) {
		res.Duration = im.now().Sub(start)
		res.Status = StatusFailed
		if errors.IsSkippable(err) {
			res.Status = StatusSkipped
		}
		res.Err = err
		return res, err
	}

	md, err := recording.Resolve(path, im.options)
	if err != nil {
		return fail(err)
	}

	rows, err := im.reader.ReadFile(path, md.FileID)
	if err != nil {
		return fail(err)
	}
	res.Rows = len(rows)
	if len(rows) == 0 {
		return fail(errors.New(ErrNoRows).
			Component("importer").
			Category(errors.CategoryInputSkipped).
			FileContext(path).
			Build())
	}

	events, err := detection.Aggregate(rows, im.policy)
	if err != nil {
		return fail(errors.New(err).
			Component("importer").
			FileContext(path).
			Build())
	}

	if err := im.store.SaveEvents(im.table, Enrich(im.importID, md, events)); err != nil {
		return fail(err)
	}

	res.Events = len(events)
	res.Status = StatusImported
	res.Duration = im.now().Sub(start)

	im.log.Debug("aggregated detections",
		logger.String("file", path),
		logger.String("date", md.Date),
		logger.String("location", md.Location),
		logger.String("timestamp_pattern", md.Pattern),
		logger.Int("rows", len(rows)),
		logger.Int("events", len(events)))
	return res, nil
}
