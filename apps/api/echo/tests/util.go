package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/brightpath/academia/apps/api/echo"
	"github.com/brightpath/academia/core/admission"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/board"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
	emailsvc "github.com/brightpath/academia/services/email"
	logsvc "github.com/brightpath/academia/services/logger"
	inmemkv "github.com/brightpath/academia/storage/kv/inmem"
	"github.com/brightpath/academia/storage/kvrepos"
)

type testEnv struct {
	server echoapi.Server

	usrSvc  *user.Service
	stuSvc  *student.Service
	crsSvc  *course.Service
	billSvc *billing.Service
	admSvc  *admission.Service
	brdSvc  *board.Service
	exmSvc  *exam.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	store := inmemkv.Open()
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	mailSvc := emailsvc.NewDummyService()

	usrSvc := user.NewService(kvrepos.NewUserRepository(store, logger, nil), mailSvc, logger)
	crsSvc := course.NewService(kvrepos.NewCourseRepository(store, logger, nil))
	stuSvc := student.NewService(kvrepos.NewStudentRepository(store, logger, nil), crsSvc)
	billSvc := billing.NewService(kvrepos.NewPaymentRepository(store, logger, nil), mailSvc)
	admSvc := admission.NewService(kvrepos.NewApplicationRepository(store, logger), stuSvc, usrSvc, mailSvc)
	brdSvc := board.NewService(kvrepos.NewBoardRepository(store, logger))
	exmSvc := exam.NewService(kvrepos.NewExamRepository(store, logger, nil), logger)

	shutdown := make(chan os.Signal, 1)
	server := echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Logger:         logger,

			UserSvc:      usrSvc,
			StudentSvc:   stuSvc,
			CourseSvc:    crsSvc,
			BillingSvc:   billSvc,
			AdmissionSvc: admSvc,
			BoardSvc:     brdSvc,
			ExamSvc:      exmSvc,
		},
		shutdown,
	)

	return &testEnv{
		server:  server,
		usrSvc:  usrSvc,
		stuSvc:  stuSvc,
		crsSvc:  crsSvc,
		billSvc: billSvc,
		admSvc:  admSvc,
		brdSvc:  brdSvc,
		exmSvc:  exmSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, name, uname, email, studentID, pwd string, roles []string) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(user.NewUser{
		Name:      name,
		Username:  uname,
		Email:     email,
		StudentID: studentID,
		Password:  pwd,
		Roles:     roles,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createStudent(t *testing.T, ns student.NewStudent) student.Student {
	t.Helper()
	stu, err := env.stuSvc.Create(ns)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return stu
}

func (env *testEnv) createCourse(t *testing.T, code, title string) course.Course {
	t.Helper()
	c, err := env.crsSvc.Create(course.NewCourse{Code: code, Title: title, Program: "ACCA"})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return c
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v (body: %s)", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}
