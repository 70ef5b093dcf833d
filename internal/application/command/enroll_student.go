// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alem-hub/university-records/internal/domain/course"
	"github.com/alem-hub/university-records/internal/domain/shared"
	"github.com/alem-hub/university-records/internal/domain/student"
	"github.com/alem-hub/university-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Links a student and a course on both sides. Both lookups happen before
// any mutation, so a failed enrollment leaves both repositories untouched.
// IDs are not validated: any string, the empty one included, is looked up as is.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand contains the data to enroll a student into a course.
type EnrollStudentCommand struct {
	StudentID string
	CourseID  string
}

// EnrollStudentResult contains the result of a successful enrollment.
type EnrollStudentResult struct {
	// AlreadyEnrolled is true when the link already existed on the student side.
	AlreadyEnrolled bool

	// CourseSize is the number of students on the course after enrollment.
	CourseSize int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentService cross-references the student and course repositories.
type EnrollmentService struct {
	students student.Repository
	courses  course.Repository
	log      *slog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	students student.Repository,
	courses course.Repository,
	log *slog.Logger,
) *EnrollmentService {
	if log == nil {
		log = slog.Default()
	}
	return &EnrollmentService{
		students: students,
		courses:  courses,
		log:      log.With("handler", "enroll_student"),
	}
}

// EnrollStudent links the student and the course and reports success.
// It returns false without mutating anything when either ID is unknown.
func (h *EnrollmentService) EnrollStudent(studentID, courseID string) bool {
	_, err := h.Handle(context.Background(), EnrollStudentCommand{
		StudentID: studentID,
		CourseID:  courseID,
	})
	return err == nil
}

// Handle executes the enroll student command.
// Returns shared.ErrStudentNotFound or shared.ErrCourseNotFound for unknown IDs.
func (h *EnrollmentService) Handle(ctx context.Context, cmd EnrollStudentCommand) (*EnrollStudentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, ok := h.students.Get(cmd.StudentID)
	if !ok {
		h.log.Warn("enrollment rejected: unknown student",
			logger.StudentID(cmd.StudentID),
			logger.CourseID(cmd.CourseID),
		)
		return nil, shared.ErrStudentNotFound
	}

	c, ok := h.courses.Get(cmd.CourseID)
	if !ok {
		h.log.Warn("enrollment rejected: unknown course",
			logger.StudentID(cmd.StudentID),
			logger.CourseID(cmd.CourseID),
		)
		return nil, shared.ErrCourseNotFound
	}

	result := &EnrollStudentResult{
		AlreadyEnrolled: s.IsEnrolledIn(cmd.CourseID),
	}

	s.Enroll(cmd.CourseID)
	c.Enroll(cmd.StudentID)
	result.CourseSize = c.StudentCount()

	h.log.Debug("student enrolled",
		logger.StudentID(cmd.StudentID),
		logger.CourseID(cmd.CourseID),
		"course_size", result.CourseSize,
	)

	return result, nil
}

// IsEnrollmentNotFound reports whether err means an unknown student or course.
func IsEnrollmentNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
