package student

import (
	"time"

	"github.com/brightpath/academia/core"
)

// Exam types recorded against a paper.
const (
	ExamTypeMock  = "mock"
	ExamTypeFinal = "final"
)

type GradeEntry struct {
	Score    float64   `json:"score" validate:"gte=0,lte=100"`
	Date     time.Time `json:"date"`
	ExamType string    `json:"exam_type" validate:"required,oneof=mock final"`
}

// Student is an enrolled (or archived) student record.
// Paper codes in Grades and Attendance are always a subset of EnrolledPapers;
// writes outside the enrolment are rejected at the service boundary.
type Student struct {
	ID             string                  `json:"id"`
	StudentID      string                  `json:"student_id"` // e.g. S12345; also a login identifier
	Name           string                  `json:"name"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone"`
	Program        string                  `json:"program"`
	EnrolledPapers []string                `json:"enrolled_papers"`
	Grades         map[string][]GradeEntry `json:"grades"`
	Attendance     map[string]float64      `json:"attendance"` // percentage per paper

	// fee terms; payment history lives in the billing collection
	TotalFee float64   `json:"total_fee"`
	Discount float64   `json:"discount"`
	DueDate  time.Time `json:"due_date"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (s *Student) IsEnrolledIn(paper string) bool {
	for _, p := range s.EnrolledPapers {
		if p == paper {
			return true
		}
	}
	return false
}

// OverallAttendance is the mean of per-paper attendance percentages.
// ok is false when no attendance has been recorded ("N/A").
func (s *Student) OverallAttendance() (float64, bool) {
	if len(s.Attendance) == 0 {
		return 0, false
	}
	var sum float64
	for _, pct := range s.Attendance {
		sum += pct
	}
	return sum / float64(len(s.Attendance)), true
}

// OverallScore is the mean of every grade entry across all papers.
// ok is false when no grades have been recorded ("N/A").
func (s *Student) OverallScore() (float64, bool) {
	var sum float64
	var n int
	for _, entries := range s.Grades {
		for _, e := range entries {
			sum += e.Score
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// NewStudent contains information needed to register a Student.
type NewStudent struct {
	StudentID      string    `json:"student_id" validate:"required,min=4,alphanum_"`
	Name           string    `json:"name" validate:"required"`
	Email          string    `json:"email" validate:"omitempty,email"`
	Phone          string    `json:"phone"`
	Program        string    `json:"program" validate:"required"`
	EnrolledPapers []string  `json:"enrolled_papers" validate:"omitempty,dive,papercode"`
	TotalFee       float64   `json:"total_fee" validate:"gte=0"`
	Discount       float64   `json:"discount" validate:"gte=0,ltefield=TotalFee"`
	DueDate        time.Time `json:"due_date"`
}

func (ns *NewStudent) Validate() error {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what profile and fee fields may be modified.
type UpdateStudent struct {
	Name     string     `json:"name"`
	Email    string     `json:"email" validate:"omitempty,email"`
	Phone    string     `json:"phone"`
	Program  string     `json:"program"`
	TotalFee *float64   `json:"total_fee" validate:"omitempty,gte=0"`
	Discount *float64   `json:"discount" validate:"omitempty,gte=0"`
	DueDate  *time.Time `json:"due_date"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return core.Validate.Struct(us)
}
