package billing

import (
	"time"

	"github.com/brightpath/academia/core"
)

// Payment statuses.
const (
	StatusPaid                = "paid"
	StatusPendingVerification = "pending_verification"
	StatusRejected            = "rejected"
)

// Fee statuses, in priority order of classification.
const (
	FeeNotSet              = "fee_not_set"
	FeePendingVerification = "pending_verification"
	FeeOverdue             = "overdue"
	FeeOutstanding         = "outstanding"
	FeePaid                = "paid"
)

// Payment is one entry of a student's payment history. Entries are
// append-only; the only mutation is the admin verification transition
// pending_verification -> paid|rejected, which stamps the verifier.
type Payment struct {
	InvoiceID       string    `json:"invoice_id"`
	StudentID       string    `json:"student_id"`
	Date            time.Time `json:"date"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"`
	Method          string    `json:"method"`
	Remarks         string    `json:"remarks,omitempty"`
	ScreenshotRef   string    `json:"screenshot_ref,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	VerifiedBy      string    `json:"verified_by,omitempty"`
	VerifiedAt      time.Time `json:"verified_at,omitempty"`
}

// NewPayment is a student-submitted payment pending admin verification.
type NewPayment struct {
	StudentID     string    `json:"student_id" validate:"required"`
	Date          time.Time `json:"date"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	Method        string    `json:"method" validate:"required"`
	Remarks       string    `json:"remarks"`
	ScreenshotRef string    `json:"screenshot_ref"`
}

func (np *NewPayment) Validate() error {
	np.StudentID = core.CleanString(np.StudentID)
	np.Method = core.CleanString(np.Method)
	return core.Validate.Struct(np)
}

// FeeSummary is the derived view of a student's fee position.
// It is recomputed on every read; nothing here is stored.
type FeeSummary struct {
	TotalFee           float64 `json:"total_fee"`
	Discount           float64 `json:"discount"`
	PaidAmount         float64 `json:"paid_amount"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	Status             string  `json:"status"`
	Overdue            bool    `json:"overdue"`
}
