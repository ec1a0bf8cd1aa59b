package datastore

import (
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/tphakala/birdnet-sql/internal/logger"
)

// DefaultSlowQueryThreshold is the duration after which a statement is logged as slow.
// Batched inserts of a large results file can legitimately take a few hundred milliseconds.
const DefaultSlowQueryThreshold = 1 * time.Second

// GetLogger returns the datastore module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("datastore")
}

// createGormLogger bridges GORM logging into the datastore module logger.
func createGormLogger(log logger.Logger) gormlogger.Interface {
	if log == nil {
		log = GetLogger()
	}
	return logger.NewGormLoggerAdapter(log, DefaultSlowQueryThreshold)
}
