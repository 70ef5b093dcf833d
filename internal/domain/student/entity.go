package student

import (
	"fmt"
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Grade представляет буквенную оценку за курс.
// Допустимые значения не проверяются: неизвестная буква даёт 0 баллов при подсчёте GPA.
type Grade string

// String возвращает строковое представление оценки.
func (g Grade) String() string {
	return string(g)
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSON
// ══════════════════════════════════════════════════════════════════════════════

// Person содержит личные данные человека.
// ID, имя и email задаются при создании и больше не меняются.
type Person struct {
	id    string
	name  string
	email string
	phone string
}

// NewPerson создаёт Person. Телефон необязателен и задаётся через SetPhone.
func NewPerson(id, name, email string) Person {
	return Person{
		id:    id,
		name:  name,
		email: email,
	}
}

// ID возвращает идентификатор человека.
func (p *Person) ID() string { return p.id }

// Name возвращает имя.
func (p *Person) Name() string { return p.name }

// Email возвращает адрес электронной почты.
func (p *Person) Email() string { return p.email }

// Phone возвращает телефон (пустая строка, если не задан).
func (p *Person) Phone() string { return p.phone }

// SetPhone обновляет телефон.
func (p *Person) SetPhone(phone string) { p.phone = phone }

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - студент: личные данные плюс зачисления, оценки и посещаемость.
type Student struct {
	Person

	// courses - множество идентификаторов курсов, на которые зачислен студент.
	courses map[string]struct{}

	// grades - одна оценка на курс, последняя запись побеждает.
	grades map[string]Grade

	// attendance - отметки присутствия по ключу (курс или занятие).
	attendance map[string][]bool
}

// NewStudent создаёт студента без курсов, оценок и посещаемости.
func NewStudent(id, name, email string) *Student {
	return &Student{
		Person:     NewPerson(id, name, email),
		courses:    make(map[string]struct{}),
		grades:     make(map[string]Grade),
		attendance: make(map[string][]bool),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Enroll добавляет курс в множество курсов студента. Повторный вызов ничего не меняет.
func (s *Student) Enroll(courseID string) {
	s.courses[courseID] = struct{}{}
}

// IsEnrolledIn проверяет, зачислен ли студент на курс.
func (s *Student) IsEnrolledIn(courseID string) bool {
	_, ok := s.courses[courseID]
	return ok
}

// RecordGrade записывает оценку за курс, перезаписывая предыдущую.
func (s *Student) RecordGrade(courseID string, grade Grade) {
	s.grades[courseID] = grade
}

// RecordAttendance записывает отметки присутствия по ключу, перезаписывая предыдущие.
func (s *Student) RecordAttendance(key string, records []bool) {
	s.attendance[key] = append([]bool(nil), records...)
}

// Courses возвращает отсортированную копию идентификаторов курсов.
func (s *Student) Courses() []string {
	ids := make([]string, 0, len(s.courses))
	for id := range s.courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Grades возвращает копию оценок.
func (s *Student) Grades() map[string]Grade {
	out := make(map[string]Grade, len(s.grades))
	for k, v := range s.grades {
		out[k] = v
	}
	return out
}

// Attendance возвращает глубокую копию посещаемости.
func (s *Student) Attendance() map[string][]bool {
	out := make(map[string][]bool, len(s.attendance))
	for k, v := range s.attendance {
		out[k] = append([]bool(nil), v...)
	}
	return out
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, Name: %s, Courses: %d, Grades: %d}",
		s.ID(), s.Name(), len(s.courses), len(s.grades),
	)
}
