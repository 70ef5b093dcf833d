// Package console prints university reports as plain text lines.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alem-hub/university-records/internal/application/query"
	"github.com/alem-hub/university-records/internal/domain/course"
	"github.com/alem-hub/university-records/internal/domain/report"
	"github.com/alem-hub/university-records/internal/domain/student"
	"github.com/alem-hub/university-records/pkg/logger"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// ReportService formats student and course summaries.
// Its only side effect is writing lines to the configured writer.
type ReportService struct {
	out         io.Writer
	performance *query.PerformanceService
	logger      *slog.Logger
	now         func() time.Time
}

// ReportOption configures a ReportService.
type ReportOption func(*ReportService)

// WithWriter sets the output writer (default os.Stdout).
func WithWriter(w io.Writer) ReportOption {
	return func(s *ReportService) {
		if w != nil {
			s.out = w
		}
	}
}

// WithPerformance sets the performance service (default uses DefaultGradeScale).
func WithPerformance(p *query.PerformanceService) ReportOption {
	return func(s *ReportService) {
		if p != nil {
			s.performance = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ReportOption {
	return func(s *ReportService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) ReportOption {
	return func(s *ReportService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReportService creates a ReportService.
func NewReportService(opts ...ReportOption) *ReportService {
	s := &ReportService{
		out:         os.Stdout,
		performance: query.NewPerformanceService(nil),
		logger:      slog.Default(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("report"))
	return s
}

// StudentReport writes one line with the student's name, GPA and attendance.
func (s *ReportService) StudentReport(st *student.Student) {
	p := s.performance.Evaluate(st)
	s.writeStudent(report.StudentLine{
		StudentID:  p.StudentID,
		Name:       p.Name,
		GPA:        p.GPA,
		Attendance: p.Attendance,
	})
}

// CourseReport writes one line with the course ID, name and enrolled count.
func (s *ReportService) CourseReport(c *course.Course) {
	s.writeCourse(report.CourseLine{
		CourseID:     c.ID(),
		Name:         c.Name(),
		StudentCount: c.StudentCount(),
	})
}

// FullReport writes the header, every course line, then every student line,
// in repository iteration order. It returns the snapshot it printed.
func (s *ReportService) FullReport(students student.Repository, courses course.Repository) *report.Snapshot {
	snap := s.BuildSnapshot(students, courses)
	s.Render(snap)
	return snap
}

// BuildSnapshot computes the report content without writing it.
func (s *ReportService) BuildSnapshot(students student.Repository, courses course.Repository) *report.Snapshot {
	snap := &report.Snapshot{
		RunID:       uuid.New().String(),
		GeneratedAt: s.now(),
	}

	for _, c := range courses.All() {
		snap.Courses = append(snap.Courses, report.CourseLine{
			CourseID:     c.ID(),
			Name:         c.Name(),
			StudentCount: c.StudentCount(),
		})
	}

	for _, st := range students.All() {
		p := s.performance.Evaluate(st)
		snap.Students = append(snap.Students, report.StudentLine{
			StudentID:  p.StudentID,
			Name:       p.Name,
			GPA:        p.GPA,
			Attendance: p.Attendance,
		})
	}

	s.logger.Debug("report snapshot built",
		logger.RunID(snap.RunID),
		"courses", len(snap.Courses),
		"students", len(snap.Students),
	)

	return snap
}

// Render writes a snapshot in report format.
func (s *ReportService) Render(snap *report.Snapshot) {
	s.writeLine(report.Header)
	for _, c := range snap.Courses {
		s.writeCourse(c)
	}
	for _, st := range snap.Students {
		s.writeStudent(st)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FORMATTING
// ══════════════════════════════════════════════════════════════════════════════

// FormatStudentLine renders "Student: {name} | GPA={gpa} | Attendance={att}%".
func FormatStudentLine(line report.StudentLine) string {
	return fmt.Sprintf("Student: %s | GPA=%s | Attendance=%s%%",
		line.Name, formatNumber(line.GPA), formatNumber(line.Attendance))
}

// FormatCourseLine renders "Course {course_id} - {name} | Students: {count}".
func FormatCourseLine(line report.CourseLine) string {
	return fmt.Sprintf("Course %s - %s | Students: %d",
		line.CourseID, line.Name, line.StudentCount)
}

func (s *ReportService) writeStudent(line report.StudentLine) {
	s.writeLine(FormatStudentLine(line))
}

func (s *ReportService) writeCourse(line report.CourseLine) {
	s.writeLine(FormatCourseLine(line))
}

func (s *ReportService) writeLine(line string) {
	if _, err := io.WriteString(s.out, line+"\n"); err != nil {
		s.logger.Error("failed to write report line", logger.Err(err))
	}
}

// formatNumber prints the shortest form with at least one decimal digit: 2.0, 66.7.
func formatNumber(v float64) string {
	str := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(str, ".eE") {
		str += ".0"
	}
	return str
}
