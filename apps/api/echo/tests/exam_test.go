package tests

import (
	"net/http"
	"testing"

	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
)

func examSetup(t *testing.T) (*testEnv, exam.MockTest, string) {
	env := setup(t)

	env.createCourse(t, "FR", "Financial Reporting")
	env.createStudent(t, student.NewStudent{
		StudentID:      "S12345",
		Name:           "Asha Demo",
		Program:        "ACCA",
		EnrolledPapers: []string{"FR"},
	})
	stuUsr := env.createUser(t, "Asha Demo", "", "asha@test.cd", "S12345", "password123", []string{user.RoleStudent})

	mt, err := env.exmSvc.CreateTest(exam.NewMockTest{
		PaperCode:       "FR",
		Title:           "FR Mock 1",
		DurationMinutes: 30,
		Questions:       []exam.Question{{Prompt: "?"}, {Prompt: "??"}},
	})
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}
	return env, mt, getToken(t, stuUsr)
}

func TestExamFlow(t *testing.T) {
	env, mt, token := examSetup(t)
	base := "/v1/tests/" + mt.ID

	// start the attempt
	req, rec := newAuthRequest(http.MethodPost, base+"/start", token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var sub exam.Submission
	decodeBody(t, rec, &sub)
	if sub.Status != exam.SubmissionInProgress {
		t.Fatalf("start: status = %s", sub.Status)
	}

	// open the proctored session
	req, rec = newAuthRequest(http.MethodPost, base+"/session", token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var sess struct {
		State           string `json:"state"`
		TimeLeftSeconds int    `json:"time_left_seconds"`
	}
	decodeBody(t, rec, &sess)
	if sess.State != "in_progress" {
		t.Fatalf("session: state = %s", sess.State)
	}
	if sess.TimeLeftSeconds <= 0 || sess.TimeLeftSeconds > 30*60 {
		t.Errorf("session: time_left_seconds = %d", sess.TimeLeftSeconds)
	}

	// answer a question
	qID := mt.Questions[0].ID
	req, rec = newAuthRequest(http.MethodPut, base+"/session/answers", token,
		marshallObj(t, map[string]string{"question_id": qID, "answer": "a"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer: code = %d (body: %s)", rec.Code, rec.Body.String())
	}

	// submit
	req, rec = newAuthRequest(http.MethodPost, base+"/session/signals", token,
		marshallObj(t, map[string]string{"signal": "submit"}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var final struct {
		State      string          `json:"state"`
		Submission exam.Submission `json:"submission"`
	}
	decodeBody(t, rec, &final)
	if final.State != "completed" {
		t.Errorf("submit: state = %s, want completed", final.State)
	}
	if final.Submission.FinishReason != exam.FinishManual {
		t.Errorf("submit: reason = %s, want %s", final.Submission.FinishReason, exam.FinishManual)
	}
	if final.Submission.Answers[qID] != "a" {
		t.Errorf("submit: answers = %v", final.Submission.Answers)
	}

	// the stored record agrees
	stored, err := env.exmSvc.GetSubmission(sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission() failed: %v", err)
	}
	if stored.Status != exam.SubmissionCompleted {
		t.Errorf("stored status = %s, want %s", stored.Status, exam.SubmissionCompleted)
	}
}

func TestExamStartRequiresEnrollment(t *testing.T) {
	env, _, _ := examSetup(t)

	env.createCourse(t, "SBR", "Strategic Business Reporting")
	other, err := env.exmSvc.CreateTest(exam.NewMockTest{
		PaperCode:       "SBR",
		Title:           "SBR Mock 1",
		DurationMinutes: 30,
		Questions:       []exam.Question{{Prompt: "?"}},
	})
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}

	stuUsr, err := env.usrSvc.GetByLogin("S12345")
	if err != nil {
		t.Fatalf("GetByLogin() failed: %v", err)
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/tests/"+other.ID+"/start", getToken(t, stuUsr))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %d, want %d (body: %s)", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestExamStartRejectsLockedTest(t *testing.T) {
	env, mt, token := examSetup(t)

	if _, err := env.exmSvc.SetLocked(mt.ID, true); err != nil {
		t.Fatalf("SetLocked() failed: %v", err)
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/tests/"+mt.ID+"/start", token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}
