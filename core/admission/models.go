package admission

import (
	"time"

	"github.com/brightpath/academia/core"
)

// Application statuses. Pending is the only non-terminal state.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Application is a prospective student's admission request.
// Lifecycle: pending -> approved|rejected via a single admin decision.
type Application struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Program    string    `json:"program"`
	Papers     []string  `json:"papers,omitempty"`
	Message    string    `json:"message,omitempty"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by,omitempty"`
	DecidedAt  time.Time `json:"decided_at,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
}

type NewApplication struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required,email"`
	Phone   string   `json:"phone"`
	Program string   `json:"program" validate:"required"`
	Papers  []string `json:"papers" validate:"omitempty,dive,papercode"`
	Message string   `json:"message"`
}

func (na *NewApplication) Validate() error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Program = core.CleanString(na.Program)
	return core.Validate.Struct(na)
}
