package database

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/noah-isme/studybloom-api/pkg/config"
)

// NewSQLite returns a configured embedded SQLite client.
func NewSQLite(cfg config.StoreConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// The driver serialises writes; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
