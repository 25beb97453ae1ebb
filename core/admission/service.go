package admission

import (
	"fmt"
	"math/rand"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("application not found")
	ErrDecided  = errors.New("application has already been decided")
	ErrInvalidVerdict = errors.New("verdict must be approved or rejected")
)

const decisionTemplate = "admission/decision"

func init() {
	core.RegisterEmailTemplate(decisionTemplate, `Hi {{.Data.Name}},

Your application to the {{.Data.Program}} program has been {{.Data.Verdict}}.
{{if .Data.StudentID}}
Your student ID is {{.Data.StudentID}} and your temporary password is:

    {{.Data.TempPassword}}

Log in at {{.FrontendBaseURL}}/login and change it right away.
{{end}}
- The {{.AppName}} admissions office
`)
}

type (
	Repository interface {
		CreateApplication(app Application) (Application, error)
		QueryAllApplications() ([]Application, error)
		GetApplicationByID(id string) (Application, error)
		UpdateApplication(app Application) (Application, error)
	}

	Service struct {
		repo    Repository
		stuSvc  *student.Service
		usrSvc  *user.Service
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, stuSvc *student.Service, usrSvc *user.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, stuSvc: stuSvc, usrSvc: usrSvc, mailSvc: mailSvc}
}

// Submit files a new application in pending state.
func (svc *Service) Submit(na NewApplication) (Application, error) {
	return svc.repo.CreateApplication(Application{
		ID:          uuid.NewString(),
		Name:        na.Name,
		Email:       na.Email,
		Phone:       na.Phone,
		Program:     na.Program,
		Papers:      na.Papers,
		Message:     na.Message,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryAll() ([]Application, error) {
	return svc.repo.QueryAllApplications()
}

func (svc *Service) GetByID(id string) (Application, error) {
	return svc.repo.GetApplicationByID(id)
}

// Decide resolves a pending application. Approval registers the applicant as
// a student and provisions their portal account; either way the applicant is
// notified by email. Decided applications are terminal.
func (svc *Service) Decide(id, verdict, adminID string) (Application, error) {
	app, err := svc.repo.GetApplicationByID(id)
	if err != nil {
		return Application{}, err
	}
	if app.Status != StatusPending {
		return Application{}, core.NewValidationError(ErrDecided)
	}
	if verdict != StatusApproved && verdict != StatusRejected {
		return Application{}, core.NewValidationError(ErrInvalidVerdict,
			core.FieldError{Field: "verdict", Error: ErrInvalidVerdict.Error()})
	}

	var studentID, tempPwd string
	if verdict == StatusApproved {
		studentID, tempPwd, err = svc.enroll(app)
		if err != nil {
			return Application{}, errors.Wrap(err, "enrolling approved applicant")
		}
	}

	app.Status = verdict
	app.DecidedBy = adminID
	app.DecidedAt = time.Now().UTC()
	app, err = svc.repo.UpdateApplication(app)
	if err != nil {
		return Application{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: app.Name, Address: app.Email}},
		Subject:      "Application " + verdict,
		TemplateName: decisionTemplate,
		TemplateData: struct {
			Name         string
			Program      string
			Verdict      string
			StudentID    string
			TempPassword string
		}{app.Name, app.Program, verdict, studentID, tempPwd},
	})
	return app, nil
}

func (svc *Service) enroll(app Application) (studentID, tempPwd string, err error) {
	studentID, err = svc.nextStudentID()
	if err != nil {
		return "", "", err
	}
	_, err = svc.stuSvc.Create(student.NewStudent{
		StudentID:      studentID,
		Name:           app.Name,
		Email:          app.Email,
		Phone:          app.Phone,
		Program:        app.Program,
		EnrolledPapers: app.Papers,
	})
	if err != nil {
		return "", "", err
	}

	tempPwd = uuid.NewString()[:13]
	_, err = svc.usrSvc.Create(user.NewUser{
		Name:            app.Name,
		Email:           app.Email,
		StudentID:       studentID,
		Password:        tempPwd,
		PasswordConfirm: tempPwd,
		Roles:           []string{user.RoleStudent},
	})
	if err != nil {
		return "", "", err
	}
	return studentID, tempPwd, nil
}

// nextStudentID picks an unused S##### identifier.
func (svc *Service) nextStudentID() (string, error) {
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("S%05d", rand.Intn(100000))
		if _, err := svc.stuSvc.GetByStudentID(id); err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return id, nil
			}
			return "", err
		}
	}
	return "", errors.New("could not allocate a student ID")
}
