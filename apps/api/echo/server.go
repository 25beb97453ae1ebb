package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/admission"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/board"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger

		UserSvc      *user.Service
		StudentSvc   *student.Service
		CourseSvc    *course.Service
		BillingSvc   *billing.Service
		AdmissionSvc *admission.Service
		BoardSvc     *board.Service
		ExamSvc      *exam.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan<- os.Signal
	}
)

var _ Server = (*server)(nil)

// NewServer sets up the application server. shutdown receives a SIGTERM
// whenever an unrecoverable error asks for a graceful stop.
func NewServer(opts *Options, shutdown chan<- os.Signal) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc, s.opts.BillingSvc)
	registerCourseAPI(v1, jwt, s.opts.CourseSvc)
	registerAdmissionAPI(v1, jwt, s.opts.AdmissionSvc)
	registerBillingAPI(v1, jwt, s.opts.BillingSvc, s.opts.StudentSvc)
	registerBoardAPI(v1, jwt, s.opts.BoardSvc, s.opts.StudentSvc)
	registerExamAPI(v1, jwt, s.opts.ExamSvc, s.opts.StudentSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the BrightPath Academy API!")
}
