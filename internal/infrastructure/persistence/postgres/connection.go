// Package postgres implements the PostgreSQL report archive.
//
// Key components:
//   - DB: pgx pool with a per-statement timeout
//   - Migrator: embedded schema migrations with a tracking table
//   - ReportArchive: report.Sink writing one run per transaction
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alem-hub/university-records/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMigrationFailed indicates a migration failure.
	ErrMigrationFailed = errors.New("postgres: migration failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// SETTINGS
// ══════════════════════════════════════════════════════════════════════════════

// Settings tunes the pool and bounds every statement.
// Zero values keep what the database URL (or pgx) says.
type Settings struct {
	// MaxConns is the maximum pool size.
	MaxConns int32

	// MinConns is the number of connections kept open while idle.
	MinConns int32

	// MaxConnLifetime closes connections older than this.
	MaxConnLifetime time.Duration

	// QueryTimeout bounds a single statement (or batch) sent through DB.
	QueryTimeout time.Duration
}

// DefaultSettings returns settings for a short-lived process.
func DefaultSettings() Settings {
	return Settings{
		MaxConns:        4,
		MaxConnLifetime: 5 * time.Minute,
		QueryTimeout:    10 * time.Second,
	}
}

// ParsePoolConfig parses a database URL and applies the non-zero pool settings.
func ParsePoolConfig(databaseURL string, s Settings) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database URL: %w", err)
	}

	if s.MaxConns > 0 {
		cfg.MaxConns = s.MaxConns
	}
	if s.MinConns > 0 {
		cfg.MinConns = s.MinConns
	}
	if s.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = s.MaxConnLifetime
	}

	return cfg, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DB
// ══════════════════════════════════════════════════════════════════════════════

// DB is the archive's handle on PostgreSQL.
type DB struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// Open creates the pool and verifies the server answers.
func Open(ctx context.Context, databaseURL string, s Settings) (*DB, error) {
	cfg, err := ParsePoolConfig(databaseURL, s)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	db := &DB{pool: pool, queryTimeout: s.QueryTimeout}

	pingCtx, cancel := db.statementContext(ctx)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return db, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.pool.Close()
}

// statementContext derives the context for one statement.
// Without a QueryTimeout the parent context is used as is.
func (db *DB) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// exec runs a statement outside a transaction.
func (db *DB) exec(ctx context.Context, sql string, args ...any) error {
	stmtCtx, cancel := db.statementContext(ctx)
	defer cancel()

	_, err := db.pool.Exec(stmtCtx, sql, args...)
	return err
}

// inTx runs fn in a read-committed transaction, committing when fn returns nil.
// fn receives a Tx whose statements should use stmt for their contexts.
func (db *DB) inTx(ctx context.Context, fn func(tx pgx.Tx, stmt func() (context.Context, context.CancelFunc)) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}

	return pgx.BeginTxFunc(ctx, db.pool, opts, func(tx pgx.Tx) error {
		return fn(tx, func() (context.Context, context.CancelFunc) {
			return db.statementContext(ctx)
		})
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR CLASSIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// isUniqueViolation reports a duplicate key.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// classify marks err for pkg/retry: connection trouble, timeouts and
// rolled-back transactions (serialization, deadlock) are retryable,
// every other server-reported error is permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsTransactionRollback(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code) ||
			pgErr.Code == pgerrcode.AdminShutdown ||
			pgErr.Code == pgerrcode.CannotConnectNow {
			return retry.Retryable(err)
		}
		return retry.Permanent(err)
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Retryable(err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return retry.Retryable(err)
	}

	return retry.Permanent(err)
}
