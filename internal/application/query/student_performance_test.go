package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alem-hub/university-records/internal/domain/student"
)

func TestCalculateGPA(t *testing.T) {
	svc := NewPerformanceService(DefaultGradeScale())

	tests := []struct {
		name   string
		grades map[string]student.Grade
		want   float64
	}{
		{name: "no grades", grades: map[string]student.Grade{}, want: 0},
		{name: "nil grades", grades: nil, want: 0},
		{name: "single C", grades: map[string]student.Grade{"101": "C"}, want: 2.0},
		{name: "A and B", grades: map[string]student.Grade{"101": "A", "102": "B"}, want: 3.5},
		{name: "unknown grade counts as zero", grades: map[string]student.Grade{"101": "Z"}, want: 0},
		{name: "unknown grade lowers mean", grades: map[string]student.Grade{"101": "A", "102": "Z"}, want: 2.0},
		{name: "rounds to two places", grades: map[string]student.Grade{"1": "A", "2": "B", "3": "B"}, want: 3.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CalculateGPA(tt.grades))
		})
	}
}

func TestCalculateGPA_CustomScale(t *testing.T) {
	svc := NewPerformanceService(GradeScale{"P": 5, "F": 1})

	assert.Equal(t, 3.0, svc.CalculateGPA(map[string]student.Grade{"a": "P", "b": "F"}))
	assert.Equal(t, 0.0, svc.CalculateGPA(map[string]student.Grade{"a": "A"}))
}

func TestNewPerformanceService_CopiesScale(t *testing.T) {
	scale := GradeScale{"A": 4}
	svc := NewPerformanceService(scale)
	scale["A"] = 100

	assert.Equal(t, 4.0, svc.CalculateGPA(map[string]student.Grade{"101": "A"}))
}

func TestNewPerformanceService_NilScale(t *testing.T) {
	svc := NewPerformanceService(nil)

	assert.Equal(t, 3.0, svc.CalculateGPA(map[string]student.Grade{"101": "B"}))
}

func TestCalculateAttendance(t *testing.T) {
	svc := NewPerformanceService(nil)

	tests := []struct {
		name       string
		attendance map[string][]bool
		want       float64
	}{
		{name: "no records", attendance: map[string][]bool{}, want: 0},
		{name: "all sequences empty", attendance: map[string][]bool{"k1": {}, "k2": nil}, want: 0},
		{name: "three of four", attendance: map[string][]bool{"105": {true, true, false, true}}, want: 75.0},
		{name: "two of three", attendance: map[string][]bool{"102": {true, false, true}}, want: 66.7},
		{name: "empty key skipped", attendance: map[string][]bool{"k1": {true}, "k2": {}}, want: 100.0},
		{name: "mean of keys", attendance: map[string][]bool{"k1": {true, false}, "k2": {true}}, want: 75.0},
		{name: "never present", attendance: map[string][]bool{"k1": {false, false}}, want: 0},
		{
			name: "exact tie rounds away from zero",
			attendance: map[string][]bool{
				"k1": {true, false, false, false, false, false, false, false},
				"k2": {false},
			},
			want: 6.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CalculateAttendance(tt.attendance))
		})
	}
}

func TestEvaluate(t *testing.T) {
	svc := NewPerformanceService(DefaultGradeScale())

	bob := student.NewStudent("2", "Bob", "bob@uni.com")
	bob.RecordGrade("101", "B")
	bob.RecordAttendance("102", []bool{true, false, true})

	assert.Equal(t, Performance{
		StudentID:  "2",
		Name:       "Bob",
		GPA:        3.0,
		Attendance: 66.7,
	}, svc.Evaluate(bob))
}

func TestGradeScale_Points(t *testing.T) {
	scale := DefaultGradeScale()

	assert.Equal(t, 4.0, scale.Points("A"))
	assert.Equal(t, 0.0, scale.Points("E"))
	assert.Equal(t, 0.0, scale.Points("a"))
}
