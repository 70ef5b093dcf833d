// Package memory implements in-process repositories for university records.
// Stores are not safe for concurrent use; the record-keeper is single-threaded.
package memory

import (
	"github.com/alem-hub/university-records/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository over a map.
// All returns students in first-insertion order; an overwrite keeps the position.
type StudentRepository struct {
	students map[string]*student.Student
	order    []string
}

// NewStudentRepository creates an empty StudentRepository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		students: make(map[string]*student.Student),
	}
}

// Add inserts the student or replaces the one stored under the same ID.
func (r *StudentRepository) Add(s *student.Student) {
	if s == nil {
		return
	}
	id := s.ID()
	if _, exists := r.students[id]; !exists {
		r.order = append(r.order, id)
	}
	r.students[id] = s
}

// Get returns the student by ID.
func (r *StudentRepository) Get(id string) (*student.Student, bool) {
	s, ok := r.students[id]
	return s, ok
}

// All returns a snapshot slice of stored students.
func (r *StudentRepository) All() []*student.Student {
	result := make([]*student.Student, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.students[id])
	}
	return result
}

// Len returns the number of stored students.
func (r *StudentRepository) Len() int {
	return len(r.students)
}

var _ student.Repository = (*StudentRepository)(nil)
