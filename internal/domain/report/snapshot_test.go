package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_FindStudent(t *testing.T) {
	snap := &Snapshot{
		Students: []StudentLine{
			{StudentID: "1", Name: "Alice", GPA: 2, Attendance: 75},
			{StudentID: "2", Name: "Bob", GPA: 3, Attendance: 66.7},
		},
	}

	line, ok := snap.FindStudent("2")
	assert.True(t, ok)
	assert.Equal(t, "Bob", line.Name)
	assert.Equal(t, 66.7, line.Attendance)

	_, ok = snap.FindStudent("3")
	assert.False(t, ok)
}

func TestSnapshot_FindStudentEmpty(t *testing.T) {
	var snap Snapshot

	line, ok := snap.FindStudent("1")
	assert.False(t, ok)
	assert.Equal(t, StudentLine{}, line)
}
