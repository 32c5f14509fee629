// Package sqlite opens the SQLite-backed implementation of storage.Store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/storage/sqldb"
)

// pragmas are applied to every pooled connection; foreign key enforcement
// is per connection in SQLite.
const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// New opens the database at dbPath, creating parent directories, and runs
// migrations automatically.
func New(ctx context.Context, dbPath string) (*sqldb.Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := sqldb.New(ctx, db, sqldb.Question)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
