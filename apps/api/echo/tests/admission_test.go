package tests

import (
	"net/http"
	"testing"

	"github.com/brightpath/academia/core/admission"
	"github.com/brightpath/academia/core/user"
)

func TestAdmissionFlow(t *testing.T) {
	env := setup(t)
	env.createCourse(t, "FR", "Financial Reporting")
	admUsr := env.createUser(t, "Admin", "admin", "admin@test.cd", "", "adminpwd", []string{user.RoleAdmin})
	admToken := getToken(t, admUsr)

	// the public admission form needs no token
	req, rec := newRequest(http.MethodPost, "/v1/applications", marshallObj(t, map[string]interface{}{
		"name":    "Jean Applicant",
		"email":   "jean@test.cd",
		"program": "ACCA",
		"papers":  []string{"FR"},
	}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var app admission.Application
	decodeBody(t, rec, &app)
	if app.Status != admission.StatusPending {
		t.Fatalf("submit: status = %s", app.Status)
	}

	// reviewing is admin-only
	req, rec = newRequest(http.MethodGet, "/v1/applications")
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("query: code = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/applications/"+app.ID+"/decide", admToken,
		marshallObj(t, map[string]string{"verdict": "approved"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("decide: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &app)
	if app.Status != admission.StatusApproved || app.DecidedBy == "" {
		t.Fatalf("decide: %+v", app)
	}

	// approval registers the student and provisions their account
	students, err := env.stuSvc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(students) != 1 || students[0].Email != "jean@test.cd" || !students[0].IsEnrolledIn("FR") {
		t.Fatalf("students = %+v", students)
	}
	usr, err := env.usrSvc.GetByLogin(students[0].StudentID)
	if err != nil {
		t.Fatalf("GetByLogin() failed: %v", err)
	}
	if !usr.IsStudent() {
		t.Errorf("provisioned user roles = %v", usr.Roles)
	}

	// decisions are terminal
	req, rec = newAuthRequest(http.MethodPost, "/v1/applications/"+app.ID+"/decide", admToken,
		marshallObj(t, map[string]string{"verdict": "rejected"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("re-decide: code = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}
