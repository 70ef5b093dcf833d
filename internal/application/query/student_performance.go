// Package query contains read operations (CQRS - Queries).
package query

import (
	"math"

	"github.com/alem-hub/university-records/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE SCALE
// ══════════════════════════════════════════════════════════════════════════════

// GradeScale maps a letter grade to its point value.
type GradeScale map[student.Grade]float64

// DefaultGradeScale returns the A-E scale.
func DefaultGradeScale() GradeScale {
	return GradeScale{
		"A": 4,
		"B": 3,
		"C": 2,
		"D": 1,
		"E": 0,
	}
}

// Points returns the value of a grade. Unknown grades are worth 0.
func (g GradeScale) Points(grade student.Grade) float64 {
	return g[grade]
}

// ══════════════════════════════════════════════════════════════════════════════
// PERFORMANCE SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// Performance is the computed standing of one student.
type Performance struct {
	StudentID  string
	Name       string
	GPA        float64
	Attendance float64
}

// PerformanceService computes GPA and attendance. It holds no mutable state.
type PerformanceService struct {
	scale GradeScale
}

// NewPerformanceService creates a service over a copy of scale.
// A nil scale falls back to DefaultGradeScale.
func NewPerformanceService(scale GradeScale) *PerformanceService {
	if scale == nil {
		scale = DefaultGradeScale()
	}
	owned := make(GradeScale, len(scale))
	for k, v := range scale {
		owned[k] = v
	}
	return &PerformanceService{scale: owned}
}

// CalculateGPA returns the mean grade point rounded to 2 decimals, or 0 for no grades.
func (s *PerformanceService) CalculateGPA(grades map[string]student.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}

	var points float64
	for _, g := range grades {
		points += s.scale.Points(g)
	}

	return roundTo(points/float64(len(grades)), 2)
}

// CalculateAttendance returns the mean per-key presence percentage rounded to 1 decimal.
// Keys with empty records are left out of the mean. No usable records yields 0.
func (s *PerformanceService) CalculateAttendance(attendance map[string][]bool) float64 {
	var (
		sum  float64
		keys int
	)

	for _, records := range attendance {
		if len(records) == 0 {
			continue
		}
		present := 0
		for _, r := range records {
			if r {
				present++
			}
		}
		sum += float64(present) / float64(len(records)) * 100
		keys++
	}

	if keys == 0 {
		return 0
	}

	return roundTo(sum/float64(keys), 1)
}

// Evaluate computes the full performance of a student.
func (s *PerformanceService) Evaluate(st *student.Student) Performance {
	return Performance{
		StudentID:  st.ID(),
		Name:       st.Name(),
		GPA:        s.CalculateGPA(st.Grades()),
		Attendance: s.CalculateAttendance(st.Attendance()),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
