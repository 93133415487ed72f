package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var DB *sql.DB

// Connect opens the prediction store. Supabase and any other hosted Postgres
// use the postgres driver; sqlite3 is meant for local runs.
func Connect(driver, connStr string) error {
	if connStr == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	var err error
	DB, err = Open(driver, connStr)
	if err != nil {
		return err
	}

	slog.Info("database connected", "driver", driver)
	return nil
}

func Open(driver, connStr string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// one writer; also keeps ":memory:" databases on a single connection
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
