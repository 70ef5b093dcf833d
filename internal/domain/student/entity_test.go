package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStudent(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")

	assert.Equal(t, "1", s.ID())
	assert.Equal(t, "Alice", s.Name())
	assert.Equal(t, "alice@uni.com", s.Email())
	assert.Empty(t, s.Phone())
	assert.Empty(t, s.Courses())
	assert.Empty(t, s.Grades())
	assert.Empty(t, s.Attendance())
}

func TestPerson_SetPhone(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")
	s.SetPhone("+7 700 000 00 00")

	assert.Equal(t, "+7 700 000 00 00", s.Phone())
}

func TestStudent_EnrollIsIdempotent(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")

	s.Enroll("CS201")
	s.Enroll("CS101")
	s.Enroll("CS101")

	assert.Equal(t, []string{"CS101", "CS201"}, s.Courses())
	assert.True(t, s.IsEnrolledIn("CS101"))
	assert.False(t, s.IsEnrolledIn("MA101"))
}

func TestStudent_RecordGradeOverwrites(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")

	s.RecordGrade("101", "C")
	s.RecordGrade("101", "A")

	assert.Equal(t, map[string]Grade{"101": "A"}, s.Grades())
}

func TestStudent_RecordGradeDoesNotRequireEnrollment(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")

	s.RecordGrade("999", "B")

	assert.False(t, s.IsEnrolledIn("999"))
	assert.Equal(t, Grade("B"), s.Grades()["999"])
}

func TestStudent_RecordAttendanceCopiesInput(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")

	records := []bool{true, false, true}
	s.RecordAttendance("102", records)
	records[0] = false

	assert.Equal(t, []bool{true, false, true}, s.Attendance()["102"])
}

func TestStudent_RecordAttendanceOverwrites(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")

	s.RecordAttendance("102", []bool{true})
	s.RecordAttendance("102", []bool{false, false})

	assert.Equal(t, map[string][]bool{"102": {false, false}}, s.Attendance())
}

func TestStudent_ReadersReturnCopies(t *testing.T) {
	s := NewStudent("1", "Alice", "alice@uni.com")
	s.Enroll("CS101")
	s.RecordGrade("101", "C")
	s.RecordAttendance("105", []bool{true, true})

	courses := s.Courses()
	courses[0] = "hacked"

	grades := s.Grades()
	grades["101"] = "A"
	grades["202"] = "B"

	attendance := s.Attendance()
	attendance["105"][0] = false
	delete(attendance, "105")

	assert.Equal(t, []string{"CS101"}, s.Courses())
	assert.Equal(t, map[string]Grade{"101": "C"}, s.Grades())
	assert.Equal(t, map[string][]bool{"105": {true, true}}, s.Attendance())
}

func TestStudent_String(t *testing.T) {
	s := NewStudent("2", "Bob", "bob@uni.com")
	s.RecordGrade("101", "B")

	assert.Equal(t, "Student{ID: 2, Name: Bob, Courses: 0, Grades: 1}", s.String())
}
