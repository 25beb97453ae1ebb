package exam

import (
	"time"

	"github.com/brightpath/academia/core"
)

// Submission statuses. Completed is terminal.
const (
	SubmissionNotStarted = "not_started"
	SubmissionInProgress = "in_progress"
	SubmissionCompleted  = "completed"
)

// Finish reasons. Exactly one is recorded per submission.
const (
	FinishTimeout   = "timeout"
	FinishManual    = "manual"
	FinishViolation = "integrity_violation"
	FinishLocked    = "locked"
)

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// MockTest is a timed practice exam for a paper. IsLocked is the admin
// kill-switch: locked tests cannot be started, and live sessions observing
// the flag force-submit.
type MockTest struct {
	ID              string     `json:"id"`
	PaperCode       string     `json:"paper_code"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	Questions       []Question `json:"questions"`
	IsLocked        bool       `json:"is_locked"`
	ScheduledFor    time.Time  `json:"scheduled_for,omitempty"`
	CreatedAt       time.Time  `json:"created_at"` // UTC
	UpdatedAt       time.Time  `json:"updated_at"` // UTC
}

func (t *MockTest) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

type NewMockTest struct {
	PaperCode       string     `json:"paper_code" validate:"required,papercode"`
	Title           string     `json:"title" validate:"required"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,gt=0"`
	Questions       []Question `json:"questions" validate:"required,min=1"`
	ScheduledFor    time.Time  `json:"scheduled_for"`
}

func (nt *NewMockTest) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	return core.Validate.Struct(nt)
}

// Submission is a student's attempt at a MockTest.
// At most one in_progress submission exists per (student, test) pair.
type Submission struct {
	ID           string            `json:"id"`
	TestID       string            `json:"test_id"`
	StudentID    string            `json:"student_id"`
	Status       string            `json:"status"`
	Answers      map[string]string `json:"answers"` // question ID -> chosen answer
	StartedAt    time.Time         `json:"started_at,omitempty"`
	LastSavedAt  time.Time         `json:"last_saved_at,omitempty"`
	CompletedAt  time.Time         `json:"completed_at,omitempty"`
	FinishReason string            `json:"finish_reason,omitempty"`
}
