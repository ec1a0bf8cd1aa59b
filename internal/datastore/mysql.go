package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/logger"
	"github.com/tphakala/birdnet-sql/internal/secrets"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
}

// dsn builds the MySQL connection string from the output settings. The password
// is taken from the password file when one is configured.
func (store *MySQLStore) dsn() (string, error) {
	cfg := store.Settings.Output.MySQL

	password, err := secrets.Resolve(cfg.PasswordFile, cfg.Password, store.Logger)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, password, cfg.Host, cfg.Port, cfg.Database), nil
}

// Open connects to the MySQL server.
func (store *MySQLStore) Open() error {
	cfg := store.Settings.Output.MySQL

	dsn, err := store.dsn()
	if err != nil {
		return err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: createGormLogger(store.Logger)})
	if err != nil {
		store.Logger.Error("failed to open MySQL database",
			logger.String("host", cfg.Host),
			logger.String("port", cfg.Port),
			logger.String("database", cfg.Database),
			logger.Error(err))
		return dbError(fmt.Errorf("failed to open MySQL database: %w", err), "open",
			"host", cfg.Host, "database", cfg.Database)
	}
	store.DB = db

	store.Logger.Debug("connected to MySQL",
		logger.String("host", cfg.Host),
		logger.String("database", cfg.Database))
	return nil
}

// Close closes the MySQL connection pool.
func (store *MySQLStore) Close() error {
	return store.closeDB()
}
