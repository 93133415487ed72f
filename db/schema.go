package db

import (
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		reasoning TEXT NOT NULL,
		key_factors JSONB NOT NULL DEFAULT '[]',
		risks JSONB NOT NULL DEFAULT '[]',
		timeframe TEXT NOT NULL DEFAULT '',
		sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		article_count INTEGER NOT NULL DEFAULT 0,
		model_used TEXT NOT NULL DEFAULT '',
		run_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_ticker_created ON predictions(ticker, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		ticker_count INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		signal TEXT NOT NULL,
		confidence REAL NOT NULL,
		reasoning TEXT NOT NULL,
		key_factors TEXT NOT NULL DEFAULT '[]',
		risks TEXT NOT NULL DEFAULT '[]',
		timeframe TEXT NOT NULL DEFAULT '',
		sentiment_score REAL NOT NULL DEFAULT 0,
		article_count INTEGER NOT NULL DEFAULT 0,
		model_used TEXT NOT NULL DEFAULT '',
		run_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_ticker_created ON predictions(ticker, created_at)`,
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		ticker_count INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL
	)`,
}

// Migrate creates the tables used by the analyzer and the API if they are
// missing. It never alters existing tables.
func Migrate(conn *sql.DB, driver string) error {
	var statements []string
	switch driver {
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
