package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/errors"
	"github.com/tphakala/birdnet-sql/internal/logger"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings

	lock *flock.Flock
}

// ErrDatabaseLocked is returned when another import holds the database lock.
var ErrDatabaseLocked = errors.NewStd("database is in use by another import")

// lockPath returns the advisory lock file guarding dbPath.
func lockPath(dbPath string) string {
	return dbPath + ".lock"
}

// Open takes the database lock and opens the SQLite file, creating its
// directory when needed.
func (store *SQLiteStore) Open() error {
	dbPath := store.Settings.Output.SQLite.Path
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dbError(fmt.Errorf("creating database directory: %w", err), "open", "path", dbPath)
		}
	}

	lock := flock.New(lockPath(dbPath))
	locked, err := lock.TryLock()
	if err != nil {
		return dbError(fmt.Errorf("acquiring database lock: %w", err), "open", "path", dbPath)
	}
	if !locked {
		return dbError(ErrDatabaseLocked, "open", "path", dbPath, "lock", lock.Path())
	}
	store.lock = lock

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: createGormLogger(store.Logger)})
	if err != nil {
		store.unlock()
		return dbError(fmt.Errorf("failed to open SQLite database: %w", err), "open", "path", dbPath)
	}
	store.DB = db

	store.Logger.Debug("opened SQLite database",
		logger.String("path", dbPath),
		logger.String("lock", lock.Path()))
	return nil
}

// Close closes the database and releases the lock.
func (store *SQLiteStore) Close() error {
	err := store.closeDB()
	store.unlock()
	return err
}

func (store *SQLiteStore) unlock() {
	if store.lock == nil {
		return
	}
	if err := store.lock.Unlock(); err != nil {
		store.Logger.Warn("failed to release database lock",
			logger.String("lock", store.lock.Path()),
			logger.Error(err))
	}
	store.lock = nil
}
