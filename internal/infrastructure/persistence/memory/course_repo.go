package memory

import (
	"github.com/alem-hub/university-records/internal/domain/course"
)

// CourseRepository implements course.Repository over a map.
type CourseRepository struct {
	courses map[string]*course.Course
	order   []string
}

// NewCourseRepository creates an empty CourseRepository.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{
		courses: make(map[string]*course.Course),
	}
}

// Add inserts the course or replaces the one stored under the same ID.
func (r *CourseRepository) Add(c *course.Course) {
	if c == nil {
		return
	}
	id := c.ID()
	if _, exists := r.courses[id]; !exists {
		r.order = append(r.order, id)
	}
	r.courses[id] = c
}

// Get returns the course by ID.
func (r *CourseRepository) Get(id string) (*course.Course, bool) {
	c, ok := r.courses[id]
	return c, ok
}

// All returns a snapshot slice of stored courses.
func (r *CourseRepository) All() []*course.Course {
	result := make([]*course.Course, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.courses[id])
	}
	return result
}

// Len returns the number of stored courses.
func (r *CourseRepository) Len() int {
	return len(r.courses)
}

var _ course.Repository = (*CourseRepository)(nil)
