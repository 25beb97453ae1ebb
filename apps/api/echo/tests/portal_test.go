package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
)

func portalSetup(t *testing.T) (*testEnv, student.Student, string, string) {
	env := setup(t)

	env.createCourse(t, "FR", "Financial Reporting")
	env.createCourse(t, "SBR", "Strategic Business Reporting")
	stu := env.createStudent(t, student.NewStudent{
		StudentID:      "S12345",
		Name:           "Asha Demo",
		Email:          "asha@test.cd",
		Program:        "ACCA",
		EnrolledPapers: []string{"FR", "SBR"},
		TotalFee:       150000,
		Discount:       10000,
		DueDate:        time.Now().UTC().AddDate(0, 1, 0),
	})
	stuUsr := env.createUser(t, "Asha Demo", "", "asha@test.cd", "S12345", "password123", []string{user.RoleStudent})
	admUsr := env.createUser(t, "Admin", "admin", "admin@test.cd", "", "adminpwd", []string{user.RoleAdmin})
	return env, stu, getToken(t, stuUsr), getToken(t, admUsr)
}

func TestPortalProfile(t *testing.T) {
	env, stu, stuToken, _ := portalSetup(t)

	if _, err := env.stuSvc.RecordGrade(stu.ID, "FR", student.GradeEntry{Score: 60, ExamType: student.ExamTypeMock}); err != nil {
		t.Fatalf("RecordGrade() failed: %v", err)
	}
	if _, err := env.stuSvc.RecordGrade(stu.ID, "SBR", student.GradeEntry{Score: 80, ExamType: student.ExamTypeMock}); err != nil {
		t.Fatalf("RecordGrade() failed: %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/portal/profile", stuToken)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		StudentID         string              `json:"student_id"`
		OverallScore      *float64            `json:"overall_score"`
		OverallAttendance *float64            `json:"overall_attendance"`
		Fees              *billing.FeeSummary `json:"fees"`
	}
	decodeBody(t, rec, &resp)
	if resp.StudentID != "S12345" {
		t.Errorf("student_id = %s", resp.StudentID)
	}
	if resp.OverallScore == nil || *resp.OverallScore != 70 {
		t.Errorf("overall_score = %v, want 70", resp.OverallScore)
	}
	// no attendance recorded: N/A, not zero
	if resp.OverallAttendance != nil {
		t.Errorf("overall_attendance = %v, want null", *resp.OverallAttendance)
	}
	if resp.Fees == nil || resp.Fees.Status != billing.FeeOutstanding {
		t.Errorf("fees = %+v, want status %s", resp.Fees, billing.FeeOutstanding)
	}
}

func TestPortalRequiresStudentRole(t *testing.T) {
	env, _, _, admToken := portalSetup(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/portal/profile", admToken)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestPaymentFlow(t *testing.T) {
	env, _, stuToken, admToken := portalSetup(t)

	// student files a payment claim
	req, rec := newAuthRequest(http.MethodPost, "/v1/payments", stuToken,
		marshallObj(t, map[string]interface{}{"amount": 70000, "method": "bank_transfer"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var p billing.Payment
	decodeBody(t, rec, &p)
	if p.Status != billing.StatusPendingVerification {
		t.Fatalf("record: status = %s", p.Status)
	}
	if p.StudentID != "S12345" {
		t.Fatalf("record: student_id = %s, want claims value", p.StudentID)
	}

	// pending payments do not reduce the balance
	req, rec = newAuthRequest(http.MethodGet, "/v1/portal/fees", stuToken)
	env.server.ServeHTTP(rec, req)
	var fees struct {
		Summary billing.FeeSummary `json:"summary"`
	}
	decodeBody(t, rec, &fees)
	if fees.Summary.Status != billing.FeePendingVerification {
		t.Errorf("fees: status = %s, want %s", fees.Summary.Status, billing.FeePendingVerification)
	}
	if fees.Summary.OutstandingBalance != 140000 {
		t.Errorf("fees: outstanding = %v, want 140000", fees.Summary.OutstandingBalance)
	}

	// rejection without a reason is refused
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/"+p.InvoiceID+"/verify", admToken,
		marshallObj(t, map[string]string{"verdict": "rejected"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("verify: code = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	// admin approves
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/"+p.InvoiceID+"/verify", admToken,
		marshallObj(t, map[string]string{"verdict": "paid"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &p)
	if p.Status != billing.StatusPaid || p.VerifiedBy == "" {
		t.Errorf("verify: %+v", p)
	}

	// verification is not repeatable
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/"+p.InvoiceID+"/verify", admToken,
		marshallObj(t, map[string]string{"verdict": "paid"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("re-verify: code = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// the balance now reflects the instalment
	req, rec = newAuthRequest(http.MethodGet, "/v1/portal/fees", stuToken)
	env.server.ServeHTTP(rec, req)
	decodeBody(t, rec, &fees)
	if fees.Summary.OutstandingBalance != 70000 {
		t.Errorf("fees: outstanding = %v, want 70000", fees.Summary.OutstandingBalance)
	}
	if fees.Summary.Status != billing.FeeOutstanding {
		t.Errorf("fees: status = %s, want %s", fees.Summary.Status, billing.FeeOutstanding)
	}
}
