package billing

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/student"
)

var (
	// errors
	ErrNotFound     = errors.New("payment not found")
	ErrNotPending   = errors.New("payment is not pending verification")
	ErrNoReason     = errors.New("a rejection reason is required")
	ErrInvalidVerdict = errors.New("verdict must be paid or rejected")
)

const verificationTemplate = "billing/verification"

func init() {
	core.RegisterEmailTemplate(verificationTemplate, `Hi {{.Data.Name}},

Your payment {{.Data.InvoiceID}} of {{printf "%.2f" .Data.Amount}} has been {{.Data.Verdict}}.
{{if .Data.Reason}}
Reason: {{.Data.Reason}}
{{end}}
You can review your fee statement on the student portal:
{{.FrontendBaseURL}}/student/fees

- The {{.AppName}} accounts office
`)
}

type (
	Repository interface {
		AppendPayment(p Payment) (Payment, error)
		QueryPaymentsByStudent(studentID string) ([]Payment, error)
		QueryAllPayments() ([]Payment, error)
		GetPaymentByInvoiceID(invoiceID string) (Payment, error)
		UpdatePayment(p Payment) (Payment, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Record appends a student payment in pending_verification state.
func (svc *Service) Record(np NewPayment) (Payment, error) {
	date := np.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	p := Payment{
		InvoiceID:     uuid.NewString(),
		StudentID:     np.StudentID,
		Date:          date,
		Amount:        np.Amount,
		Status:        StatusPendingVerification,
		Method:        np.Method,
		Remarks:       np.Remarks,
		ScreenshotRef: np.ScreenshotRef,
	}
	return svc.repo.AppendPayment(p)
}

func (svc *Service) QueryByStudent(studentID string) ([]Payment, error) {
	return svc.repo.QueryPaymentsByStudent(studentID)
}

func (svc *Service) QueryAll() ([]Payment, error) {
	return svc.repo.QueryAllPayments()
}

func (svc *Service) GetByInvoiceID(invoiceID string) (Payment, error) {
	return svc.repo.GetPaymentByInvoiceID(invoiceID)
}

// Verify resolves a pending payment to paid or rejected, stamping the verifier.
// A rejection requires a reason. The student is notified by email.
func (svc *Service) Verify(invoiceID, verdict, reason, verifier string, stu student.Student) (Payment, error) {
	p, err := svc.repo.GetPaymentByInvoiceID(invoiceID)
	if err != nil {
		return Payment{}, err
	}
	if p.Status != StatusPendingVerification {
		return Payment{}, core.NewValidationError(ErrNotPending)
	}
	switch verdict {
	case StatusPaid:
	case StatusRejected:
		if core.CleanString(reason) == "" {
			return Payment{}, core.NewValidationError(ErrNoReason,
				core.FieldError{Field: "rejection_reason", Error: ErrNoReason.Error()})
		}
		p.RejectionReason = core.CleanString(reason)
	default:
		return Payment{}, core.NewValidationError(ErrInvalidVerdict,
			core.FieldError{Field: "verdict", Error: ErrInvalidVerdict.Error()})
	}
	p.Status = verdict
	p.VerifiedBy = verifier
	p.VerifiedAt = time.Now().UTC()

	p, err = svc.repo.UpdatePayment(p)
	if err != nil {
		return Payment{}, err
	}

	if stu.Email != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: stu.Name, Address: stu.Email}},
			Subject:      "Payment " + verdict,
			TemplateName: verificationTemplate,
			TemplateData: struct {
				Name      string
				InvoiceID string
				Amount    float64
				Verdict   string
				Reason    string
			}{stu.Name, p.InvoiceID, p.Amount, verdict, p.RejectionReason},
		})
	}
	return p, nil
}

// Summarize derives the student's fee position from their fee terms and
// payment history. Pure; recomputed on every read.
func (svc *Service) Summarize(stu student.Student, now time.Time) (FeeSummary, error) {
	payments, err := svc.repo.QueryPaymentsByStudent(stu.StudentID)
	if err != nil {
		return FeeSummary{}, err
	}
	return Summarize(stu, payments, now), nil
}

// OutstandingBalance is (totalFee - discount) minus the sum of paid amounts.
// May go negative on overpayment.
func OutstandingBalance(stu student.Student, payments []Payment) float64 {
	balance := stu.TotalFee - stu.Discount
	for _, p := range payments {
		if p.Status == StatusPaid {
			balance -= p.Amount
		}
	}
	return balance
}

// IsOverdue reports whether an outstanding balance is past its due date.
func IsOverdue(stu student.Student, payments []Payment, now time.Time) bool {
	return OutstandingBalance(stu, payments) > 0 && !stu.DueDate.IsZero() && now.After(stu.DueDate)
}

// Summarize classifies the fee position. Priority order:
// fee_not_set > pending_verification > overdue/outstanding > paid.
func Summarize(stu student.Student, payments []Payment, now time.Time) FeeSummary {
	sum := FeeSummary{
		TotalFee: stu.TotalFee,
		Discount: stu.Discount,
	}
	var pending bool
	for _, p := range payments {
		switch p.Status {
		case StatusPaid:
			sum.PaidAmount += p.Amount
		case StatusPendingVerification:
			pending = true
		}
	}
	sum.OutstandingBalance = stu.TotalFee - stu.Discount - sum.PaidAmount
	sum.Overdue = IsOverdue(stu, payments, now)

	switch {
	case stu.TotalFee == 0:
		sum.Status = FeeNotSet
	case pending:
		sum.Status = FeePendingVerification
	case sum.OutstandingBalance > 0 && sum.Overdue:
		sum.Status = FeeOverdue
	case sum.OutstandingBalance > 0:
		sum.Status = FeeOutstanding
	default:
		sum.Status = FeePaid
	}
	return sum
}
