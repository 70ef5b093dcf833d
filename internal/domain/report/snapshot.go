// Package report содержит снимок сводного отчёта и порт для его потребителей.
package report

import (
	"context"
	"time"
)

// Header - первая строка сводного отчёта.
const Header = "UNIVERSITY REPORT"

// CourseLine - строка отчёта по курсу.
type CourseLine struct {
	CourseID     string `json:"course_id"`
	Name         string `json:"name"`
	StudentCount int    `json:"student_count"`
}

// StudentLine - строка отчёта по студенту с вычисленной успеваемостью.
type StudentLine struct {
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	GPA        float64 `json:"gpa"`
	Attendance float64 `json:"attendance"`
}

// Snapshot - вычисленное содержимое одного запуска сводного отчёта.
// Порядок строк совпадает с порядком обхода репозиториев.
type Snapshot struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Courses     []CourseLine  `json:"courses"`
	Students    []StudentLine `json:"students"`
}

// FindStudent возвращает строку студента по ID.
func (s *Snapshot) FindStudent(studentID string) (StudentLine, bool) {
	for _, line := range s.Students {
		if line.StudentID == studentID {
			return line, true
		}
	}
	return StudentLine{}, false
}

// Sink - потребитель готовых снимков (архив, кеш).
// Реализации находятся в infrastructure/persistence.
type Sink interface {
	// Save сохраняет снимок.
	Save(ctx context.Context, snapshot *Snapshot) error
}
