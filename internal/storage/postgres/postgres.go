// Package postgres opens the PostgreSQL-backed implementation of storage.Store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mmynk/splitledger/internal/storage/sqldb"
)

// Options controls how New waits for the database to come up.
type Options struct {
	// MaxRetries is how many extra connection attempts are made after the
	// first one fails.
	MaxRetries int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// New connects to databaseURL, retrying while the server is unreachable,
// and runs migrations.
func New(ctx context.Context, databaseURL string, opts Options) (*sqldb.Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := waitForDB(ctx, db, opts); err != nil {
		db.Close()
		return nil, err
	}

	store, err := sqldb.New(ctx, db, sqldb.Dollar)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func waitForDB(ctx context.Context, db *sql.DB, opts Options) error {
	var err error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			if attempt > 0 {
				slog.Info("Connected to database", "attempts", attempt+1)
			}
			return nil
		}

		if attempt == opts.MaxRetries {
			break
		}
		slog.Warn("Database not ready, retrying",
			"attempt", attempt+1,
			"max_retries", opts.MaxRetries,
			"delay", opts.RetryDelay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("database is not reachable: %w", ctx.Err())
		case <-time.After(opts.RetryDelay):
		}
	}
	return fmt.Errorf("database is not reachable after %d attempts: %w", opts.MaxRetries+1, err)
}
