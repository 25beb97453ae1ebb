package course

import (
	"time"

	"github.com/brightpath/academia/core"
)

// Course is an examinable paper within a program.
// The code (FR, SBR, AFM2...) is the identifier every other collection
// references; there is no substring matching anywhere.
type Course struct {
	Code            string    `json:"code"`
	Title           string    `json:"title"`
	Program         string    `json:"program"`
	AssignedFaculty []string  `json:"assigned_faculty,omitempty"` // user IDs
	CreatedAt       time.Time `json:"created_at"`                 // UTC
	UpdatedAt       time.Time `json:"updated_at"`                 // UTC
}

type NewCourse struct {
	Code    string `json:"code" validate:"required,papercode"`
	Title   string `json:"title" validate:"required"`
	Program string `json:"program" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code)
	nc.Title = core.CleanString(nc.Title)
	nc.Program = core.CleanString(nc.Program)
	return core.Validate.Struct(nc)
}

// CalendarEvent is a scheduled academy event visible to an audience.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Audience  string    `json:"audience"` // all | students | faculty
	PaperCode string    `json:"paper_code,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewCalendarEvent struct {
	Title     string    `json:"title" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Audience  string    `json:"audience" validate:"required,oneof=all students faculty"`
	PaperCode string    `json:"paper_code" validate:"omitempty,papercode"`
}

func (ne *NewCalendarEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	return core.Validate.Struct(ne)
}
