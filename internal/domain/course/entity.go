// Package course содержит доменную модель учебного курса.
package course

import (
	"fmt"
	"sort"
)

// Course - учебный курс с множеством зачисленных студентов.
// TeacherID - просто идентификатор, реестра преподавателей нет.
type Course struct {
	id        string
	name      string
	teacherID string

	students map[string]struct{}
}

// NewCourse создаёт курс без студентов.
func NewCourse(id, name, teacherID string) *Course {
	return &Course{
		id:        id,
		name:      name,
		teacherID: teacherID,
		students:  make(map[string]struct{}),
	}
}

// ID возвращает идентификатор курса.
func (c *Course) ID() string { return c.id }

// Name возвращает название курса.
func (c *Course) Name() string { return c.name }

// TeacherID возвращает идентификатор преподавателя.
func (c *Course) TeacherID() string { return c.teacherID }

// Enroll добавляет студента на курс. Повторный вызов ничего не меняет.
func (c *Course) Enroll(studentID string) {
	c.students[studentID] = struct{}{}
}

// HasStudent проверяет, зачислен ли студент.
func (c *Course) HasStudent(studentID string) bool {
	_, ok := c.students[studentID]
	return ok
}

// StudentCount возвращает количество зачисленных студентов.
func (c *Course) StudentCount() int {
	return len(c.students)
}

// Students возвращает отсортированную копию идентификаторов студентов.
func (c *Course) Students() []string {
	ids := make([]string, 0, len(c.students))
	for id := range c.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// String возвращает строковое представление курса для логирования.
func (c *Course) String() string {
	return fmt.Sprintf("Course{ID: %s, Name: %s, Teacher: %s, Students: %d}",
		c.id, c.name, c.teacherID, len(c.students))
}
