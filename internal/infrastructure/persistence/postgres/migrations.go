package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE REPORT ARCHIVE
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS report_runs (
    id UUID PRIMARY KEY,
    generated_at TIMESTAMP WITH TIME ZONE NOT NULL,
    course_count INTEGER NOT NULL DEFAULT 0,
    student_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_report_runs_generated_at ON report_runs(generated_at DESC);

CREATE TABLE IF NOT EXISTS report_course_lines (
    run_id UUID NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    course_id VARCHAR(100) NOT NULL,
    name VARCHAR(255) NOT NULL,
    student_count INTEGER NOT NULL,

    PRIMARY KEY (run_id, position)
);

CREATE TABLE IF NOT EXISTS report_student_lines (
    run_id UUID NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    student_id VARCHAR(100) NOT NULL,
    name VARCHAR(255) NOT NULL,
    gpa NUMERIC(4,2) NOT NULL,
    attendance NUMERIC(4,1) NOT NULL,

    PRIMARY KEY (run_id, position),
    CONSTRAINT valid_attendance CHECK (attendance >= 0 AND attendance <= 100)
);

CREATE INDEX IF NOT EXISTS idx_report_student_lines_student ON report_student_lines(student_id);
`

const migration001Down = `
DROP TABLE IF EXISTS report_student_lines;
DROP TABLE IF EXISTS report_course_lines;
DROP TABLE IF EXISTS report_runs;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION SUPPORT
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one embedded schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// GetMigrations returns all embedded migrations ordered by version.
func GetMigrations() []Migration {
	migrations := []Migration{
		{
			Version: 1,
			Name:    "create_report_archive",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations
}

// Migrator applies embedded migrations and records them in a tracking table.
type Migrator struct {
	db         *DB
	migrations []Migration
	tableName  string
}

// NewMigrator creates a migrator over the embedded migrations.
func NewMigrator(db *DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the tracking table if it doesn't exist.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if err := m.db.exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns applied versions with their timestamps.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	stmtCtx, cancel := m.db.statementContext(ctx)
	defer cancel()

	rows, err := m.db.pool.Query(stmtCtx, fmt.Sprintf("SELECT version, applied_at FROM %s", m.tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	type appliedRow struct {
		Version   int
		AppliedAt time.Time
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[appliedRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied migrations: %w", err)
	}

	applied := make(map[int]time.Time, len(list))
	for _, r := range list {
		applied[r.Version] = r.AppliedAt
	}
	return applied, nil
}

// Migrate applies all pending migrations, each in its own transaction,
// and returns how many were applied.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return 0, err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	record := fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName)

	count := 0
	for _, mig := range pendingMigrations(m.migrations, applied) {
		if mig.UpSQL == "" {
			return count, fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		err := m.db.inTx(ctx, func(tx pgx.Tx, stmt func() (context.Context, context.CancelFunc)) error {
			upCtx, cancel := stmt()
			defer cancel()

			if _, err := tx.Exec(upCtx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(upCtx, record, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
		count++
	}

	return count, nil
}

// pendingMigrations returns migrations not present in applied, in order.
func pendingMigrations(all []Migration, applied map[int]time.Time) []Migration {
	var pending []Migration
	for _, mig := range all {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		pending = append(pending, mig)
	}
	return pending
}
