package datastore

import (
	"github.com/tphakala/birdnet-sql/internal/logger"
)

// PrepareTable makes sure table exists with the event layout. With recreate set an
// existing table is dropped first. An existing table is used as is, its columns
// are not migrated.
func (ds *DataStore) PrepareTable(table string, recreate bool) error {
	if ds.DB == nil {
		return dbError(errNotOpen, "prepare_table", "table", table)
	}

	migrator := ds.DB.Table(table).Migrator()

	if recreate && migrator.HasTable(table) {
		if err := migrator.DropTable(table); err != nil {
			return dbError(err, "drop_table", "table", table)
		}
		ds.Logger.Info("dropped existing table", logger.String("table", table))
	}

	if migrator.HasTable(table) {
		return nil
	}

	if err := migrator.CreateTable(&EventRecord{}); err != nil {
		return dbError(err, "create_table", "table", table)
	}
	ds.Logger.Info("created table", logger.String("table", table))
	return nil
}
