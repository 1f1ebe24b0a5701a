package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ConnectDB opens the history store. When databaseURL is set it connects
// to Postgres; otherwise it falls back to a local SQLite file next to the
// binary, which is the normal single-user setup.
func ConnectDB(databaseURL, sqlitePath string) (*sql.DB, error) {
	if databaseURL != "" {
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := InitSchema(db, "postgres"); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Println("[DB] Connected to Postgres")
		return db, nil
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	if err := InitSchema(db, "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("[DB] Using SQLite at %s", sqlitePath)
	return db, nil
}
