package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/university-records/internal/domain/report"
	"github.com/alem-hub/university-records/internal/domain/shared"
	"github.com/alem-hub/university-records/pkg/retry"
)

// openTestDB connects to TEST_DATABASE_URL and migrates it, or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, url, DefaultSettings())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = NewMigrator(db).Migrate(ctx)
	require.NoError(t, err)

	return db
}

func archiveSnapshot() *report.Snapshot {
	return &report.Snapshot{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
		Courses: []report.CourseLine{
			{CourseID: "CS101", Name: "Intro to Programming", StudentCount: 0},
			{CourseID: "CS201", Name: "Data Structures", StudentCount: 0},
		},
		Students: []report.StudentLine{
			{StudentID: "1", Name: "Alice", GPA: 2, Attendance: 75},
			{StudentID: "2", Name: "Bob", GPA: 3, Attendance: 66.7},
		},
	}
}

func TestReportArchive_SaveRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	snap := archiveSnapshot()

	require.NoError(t, NewReportArchive(db).Save(ctx, snap))

	var courseCount, studentCount int
	require.NoError(t, db.pool.QueryRow(ctx,
		`SELECT course_count, student_count FROM report_runs WHERE id = $1`, snap.RunID,
	).Scan(&courseCount, &studentCount))
	assert.Equal(t, 2, courseCount)
	assert.Equal(t, 2, studentCount)

	rows, err := db.pool.Query(ctx, `
		SELECT student_id, name, gpa::float8, attendance::float8
		FROM report_student_lines WHERE run_id = $1 ORDER BY position`, snap.RunID)
	require.NoError(t, err)
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByPos[report.StudentLine])
	require.NoError(t, err)
	assert.Equal(t, snap.Students, lines)

	rows, err = db.pool.Query(ctx, `
		SELECT course_id, name, student_count
		FROM report_course_lines WHERE run_id = $1 ORDER BY position`, snap.RunID)
	require.NoError(t, err)
	courses, err := pgx.CollectRows(rows, pgx.RowToStructByPos[report.CourseLine])
	require.NoError(t, err)
	assert.Equal(t, snap.Courses, courses)
}

func TestReportArchive_SaveTwiceIsPermanent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	archive := NewReportArchive(db)
	snap := archiveSnapshot()

	require.NoError(t, archive.Save(ctx, snap))

	err := archive.Save(ctx, snap)
	require.Error(t, err)
	assert.True(t, retry.IsPermanent(err))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestMigrator_Idempotent(t *testing.T) {
	db := openTestDB(t)

	applied, err := NewMigrator(db).Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}
