package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lead-intake/config"

	_ "github.com/lib/pq"
)

// Open connects to the reporting database and makes sure the mirror table
// exists. The lead log on disk stays the source of truth; this table is a
// copy for reporting queries.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	conn.SetMaxOpenConns(5)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	// Test the connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := createTables(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return conn, nil
}

const leadTable = `
	CREATE TABLE IF NOT EXISTS leads (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		business TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		service TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		mirrored_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,

		CONSTRAINT leads_email_created_at_key UNIQUE (email, created_at)
	);`

func createTables(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, leadTable); err != nil {
		return fmt.Errorf("error creating leads table: %w", err)
	}
	return nil
}
