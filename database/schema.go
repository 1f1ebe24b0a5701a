package database

import (
	"database/sql"
	"fmt"
)

// All three tables are append-only: rows are inserted once and never
// updated or deleted. Timestamps are unix seconds so the same statements
// run under both drivers.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS post_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  post_id TEXT NOT NULL,
  content TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  linkedin_url TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  engagement_count INTEGER NOT NULL DEFAULT 0,
  source_type TEXT NOT NULL DEFAULT 'unknown'
);

CREATE TABLE IF NOT EXISTS comment_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  post_id TEXT NOT NULL,
  commenter_name TEXT NOT NULL DEFAULT 'Unknown',
  comment_text TEXT NOT NULL,
  reply_sent TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS message_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  recipient_profile TEXT NOT NULL,
  message_text TEXT NOT NULL,
  context TEXT NOT NULL DEFAULT 'post_like',
  sent_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_post_history_created ON post_history(created_at);
CREATE INDEX IF NOT EXISTS idx_comment_history_created ON comment_history(created_at);
CREATE INDEX IF NOT EXISTS idx_message_history_sent ON message_history(sent_at);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS post_history (
  id SERIAL PRIMARY KEY,
  post_id TEXT NOT NULL,
  content TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  linkedin_url TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  engagement_count INTEGER NOT NULL DEFAULT 0,
  source_type TEXT NOT NULL DEFAULT 'unknown'
);

CREATE TABLE IF NOT EXISTS comment_history (
  id SERIAL PRIMARY KEY,
  post_id TEXT NOT NULL,
  commenter_name TEXT NOT NULL DEFAULT 'Unknown',
  comment_text TEXT NOT NULL,
  reply_sent TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS message_history (
  id SERIAL PRIMARY KEY,
  recipient_profile TEXT NOT NULL,
  message_text TEXT NOT NULL,
  context TEXT NOT NULL DEFAULT 'post_like',
  sent_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_post_history_created ON post_history(created_at);
CREATE INDEX IF NOT EXISTS idx_comment_history_created ON comment_history(created_at);
CREATE INDEX IF NOT EXISTS idx_message_history_sent ON message_history(sent_at);
`

// InitSchema creates the history tables for the given driver
// ("sqlite" or "postgres").
func InitSchema(db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case "sqlite":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return fmt.Errorf("unknown driver %q", driver)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
