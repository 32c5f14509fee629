// Package sqldb implements storage.Store on database/sql with a schema that
// runs unchanged on SQLite and PostgreSQL.
//
// Amounts are stored as integer cents so SUM aggregation is exact on every
// engine. Queries are written with '?' placeholders and rebound for drivers
// that number their parameters.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Placeholder is the bind parameter style a driver expects.
type Placeholder int

const (
	// Question binds parameters as ?, ?, ? (SQLite).
	Question Placeholder = iota
	// Dollar binds parameters as $1, $2, $3 (PostgreSQL).
	Dollar
)

// Store implements storage.Store on an open *sql.DB.
type Store struct {
	db          *sql.DB
	placeholder Placeholder
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New wraps db and runs migrations. The Store takes ownership of db.
func New(ctx context.Context, db *sql.DB, placeholder Placeholder) (*Store, error) {
	s := &Store{db: db, placeholder: placeholder}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return errs.StorageErr("failed to ping database", s.db.PingContext(ctx))
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites '?' placeholders into the store's style.
func (s *Store) rebind(query string) string {
	if s.placeholder == Question {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.rebind(query), args...)
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.StorageErr("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errs.StorageErr("failed to commit transaction", err)
	}
	return nil
}

// notFound converts sql.ErrNoRows into a NotFound error for the named
// entity and wraps anything else as a storage failure.
func notFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFoundf("%s not found: %s", entity, id)
	}
	return errs.StorageErr("failed to get "+entity, err)
}

// requireAffected reports NotFound when a write touched no rows.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errs.StorageErr("failed to read affected rows", err)
	}
	if n == 0 {
		return errs.NotFoundf("%s not found: %s", entity, id)
	}
	return nil
}

// paginate appends a LIMIT/OFFSET clause for page.
func paginate(query string, args []any, page models.Page) (string, []any) {
	if page.Limit <= 0 && page.Offset <= 0 {
		return query, args
	}
	limit := page.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	return query + " LIMIT ? OFFSET ?", append(args, limit, offset)
}

// repeatPlaceholder returns "?, ?, ?" for n placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
