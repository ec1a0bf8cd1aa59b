// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/errors"
	"github.com/tphakala/birdnet-sql/internal/logger"
)

// DefaultBatchSize is used when the configured batch size is not positive.
const DefaultBatchSize = 500

var errNotOpen = errors.NewStd("database connection is not initialized")

// Interface abstracts the database receiving imported events.
type Interface interface {
	Open() error
	PrepareTable(table string, recreate bool) error
	SaveEvents(table string, records []EventRecord) error
	CountEvents(table string) (int64, error)
	Close() error
}

// DataStore implements the table operations shared by all GORM backed stores.
type DataStore struct {
	DB        *gorm.DB      // GORM database instance
	Logger    logger.Logger // datastore module logger
	BatchSize int           // rows per INSERT statement
}

// New creates the store selected by the output settings. It does not open it.
func New(settings *conf.Settings, log logger.Logger) (Interface, error) {
	if log == nil {
		log = GetLogger()
	}
	base := DataStore{
		Logger:    log,
		BatchSize: settings.Output.BatchSize,
	}

	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{DataStore: base, Settings: settings}, nil
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{DataStore: base, Settings: settings}, nil
	default:
		return nil, errors.Newf("no database output is enabled").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// SaveEvents appends records to table in a single transaction. Nothing is written
// when any batch fails.
func (ds *DataStore) SaveEvents(table string, records []EventRecord) error {
	if ds.DB == nil {
		return dbError(errNotOpen, "save_events", "table", table)
	}
	if len(records) == 0 {
		return nil
	}

	batchSize := ds.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).CreateInBatches(records, batchSize).Error; err != nil {
			return fmt.Errorf("inserting events: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbTimedError(err, "save_events", time.Since(start), "table", table, "records", len(records))
	}

	ds.Logger.Debug("events saved",
		logger.String("table", table),
		logger.Int("records", len(records)),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// CountEvents returns the number of rows in table.
func (ds *DataStore) CountEvents(table string) (int64, error) {
	if ds.DB == nil {
		return 0, dbError(errNotOpen, "count_events", "table", table)
	}

	var count int64
	if err := ds.DB.Table(table).Count(&count).Error; err != nil {
		return 0, dbError(err, "count_events", "table", table)
	}
	return count, nil
}

// closeDB closes the underlying sql.DB of a GORM connection.
func (ds *DataStore) closeDB() error {
	if ds.DB == nil {
		return nil
	}

	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "close")
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close")
	}
	ds.DB = nil
	return nil
}
