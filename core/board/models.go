package board

import (
	"time"

	"github.com/brightpath/academia/core"
)

// Audiences for announcements and calendar-style postings.
const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceFaculty  = "faculty"
)

// Announcement is an audience-scoped notice. Append-only.
type Announcement struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Audience string    `json:"audience"`
	PostedBy string    `json:"posted_by"`
	PostedAt time.Time `json:"posted_at"` // UTC
}

type NewAnnouncement struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=all students faculty"`
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	return core.Validate.Struct(na)
}

// Notification is a per-user notice. Append-only.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// ChatMessage is a paper-scoped message. Append-only, local to the
// portal; there is no real-time transport.
type ChatMessage struct {
	ID        string    `json:"id"`
	PaperCode string    `json:"paper_code"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"` // UTC
}

type NewChatMessage struct {
	PaperCode string `json:"paper_code" validate:"required,papercode"`
	Body      string `json:"body" validate:"required"`
}

func (nm *NewChatMessage) Validate() error {
	nm.Body = core.CleanString(nm.Body)
	return core.Validate.Struct(nm)
}

// TeacherQuestion is a student question addressed to the faculty of a
// paper, with an optional answer.
type TeacherQuestion struct {
	ID         string    `json:"id"`
	PaperCode  string    `json:"paper_code"`
	StudentID  string    `json:"student_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer,omitempty"`
	AnsweredBy string    `json:"answered_by,omitempty"`
	AskedAt    time.Time `json:"asked_at"` // UTC
	AnsweredAt time.Time `json:"answered_at,omitempty"`
}

type NewTeacherQuestion struct {
	PaperCode string `json:"paper_code" validate:"required,papercode"`
	Question  string `json:"question" validate:"required"`
}

func (nq *NewTeacherQuestion) Validate() error {
	nq.Question = core.CleanString(nq.Question)
	return core.Validate.Struct(nq)
}
