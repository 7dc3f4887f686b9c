package database

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type SQLiteDriver struct {
	sqlDB
}

func (sd *SQLiteDriver) Connect(dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	// A single connection keeps in-memory databases coherent and
	// sidesteps SQLITE_BUSY under write contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return err
	}
	sd.db = db
	return nil
}
