package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/university-records/internal/domain/report"
	"github.com/alem-hub/university-records/internal/domain/shared"
	"github.com/alem-hub/university-records/pkg/retry"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT ARCHIVE
// ══════════════════════════════════════════════════════════════════════════════

const (
	insertRunSQL = `
		INSERT INTO report_runs (id, generated_at, course_count, student_count)
		VALUES ($1, $2, $3, $4)
	`

	insertCourseLineSQL = `
		INSERT INTO report_course_lines (run_id, position, course_id, name, student_count)
		VALUES ($1, $2, $3, $4, $5)
	`

	insertStudentLineSQL = `
		INSERT INTO report_student_lines (run_id, position, student_id, name, gpa, attendance)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
)

// ReportArchive implements report.Sink for PostgreSQL.
type ReportArchive struct {
	db *DB
}

// NewReportArchive creates a new ReportArchive.
func NewReportArchive(db *DB) *ReportArchive {
	return &ReportArchive{db: db}
}

// Save writes one report run with all its lines in a single transaction.
//
// Returned errors are marked for pkg/retry: a nil snapshot or an already
// archived run is permanent, connection trouble is retryable.
func (a *ReportArchive) Save(ctx context.Context, snap *report.Snapshot) error {
	if snap == nil {
		return retry.Permanent(shared.NewDomainError("report", "Archive", shared.ErrInvalidInput, "snapshot is nil"))
	}

	err := a.db.inTx(ctx, func(tx pgx.Tx, stmt func() (context.Context, context.CancelFunc)) error {
		runCtx, cancel := stmt()
		defer cancel()

		if _, err := tx.Exec(runCtx, insertRunSQL,
			snap.RunID, snap.GeneratedAt, len(snap.Courses), len(snap.Students),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		linesCtx, cancelLines := stmt()
		defer cancelLines()

		if err := tx.SendBatch(linesCtx, buildLinesBatch(snap)).Close(); err != nil {
			return fmt.Errorf("insert lines: %w", err)
		}

		return nil
	})

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return retry.Permanent(shared.WrapError("report", "Archive", shared.ErrAlreadyExists,
			"run "+snap.RunID+" already archived", err))
	default:
		return classify(shared.WrapError("report", "Archive", shared.ErrServiceUnavailable,
			"failed to archive run "+snap.RunID, err))
	}
}

// buildLinesBatch queues one insert per report line, preserving print order.
func buildLinesBatch(snap *report.Snapshot) *pgx.Batch {
	batch := &pgx.Batch{}
	for i, c := range snap.Courses {
		batch.Queue(insertCourseLineSQL, snap.RunID, i, c.CourseID, c.Name, c.StudentCount)
	}
	for i, s := range snap.Students {
		batch.Queue(insertStudentLineSQL, snap.RunID, i, s.StudentID, s.Name, s.GPA, s.Attendance)
	}
	return batch
}

var _ report.Sink = (*ReportArchive)(nil)
