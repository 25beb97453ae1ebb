package echoapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
)

type examApi struct {
	svc    *exam.Service
	stuSvc *student.Service

	mu       sync.Mutex
	sessions map[string]*exam.Session // student ID + "/" + test ID
}

func registerExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *exam.Service, stuSvc *student.Service) {
	api := &examApi{
		svc:      svc,
		stuSvc:   stuSvc,
		sessions: make(map[string]*exam.Session),
	}

	tg := g.Group("/tests", jwt)
	tg.POST("", api.createTest, teacherMiddleware())
	tg.GET("", api.queryTests)
	tg.GET("/:id", api.retrieveTest)
	tg.POST("/:id/lock", api.lockTest, adminMiddleware())

	// proctored session endpoints
	sg := tg.Group("/:id", studentMiddleware())
	sg.POST("/start", api.start)
	sg.POST("/session", api.openSession)
	sg.GET("/session", api.sessionStatus)
	sg.PUT("/session/answers", api.saveAnswer)
	sg.POST("/session/signals", api.signal)

	mg := g.Group("/submissions", jwt)
	mg.GET("", api.querySubmissions)
	mg.GET("/:id", api.retrieveSubmission)
}

// Handlers

func (api *examApi) createTest(ctx echo.Context) error {
	var data exam.NewMockTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMockTest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.CreateTest(data)
	if err != nil {
		return errors.Wrap(err, "creating test")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *examApi) queryTests(ctx echo.Context) error {
	var tests []exam.MockTest
	var err error
	if paper := core.CleanString(ctx.QueryParam("paper")); paper != "" {
		tests, err = api.svc.QueryTestsByPaper(paper)
	} else {
		tests, err = api.svc.QueryTests()
	}
	if err != nil {
		return errors.Wrap(err, "querying tests")
	}
	if tests == nil {
		tests = []exam.MockTest{}
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *examApi) retrieveTest(ctx echo.Context) error {
	t, err := api.svc.GetTest(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding test by ID")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *examApi) lockTest(ctx echo.Context) error {
	var data LockRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LockRequest")
	}

	t, err := api.svc.SetLocked(ctx.Param("id"), data.Locked)
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "locking test")
	}
	return ctx.JSON(http.StatusOK, t)
}

// start begins (or resumes) the caller's attempt and parks it for the
// session open that follows.
func (api *examApi) start(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.checkEnrollment(ctx, claims); err != nil {
		return err
	}

	sub, err := api.svc.Start(claims.StudentID, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

// openSession binds a live proctored session to the attempt and starts its
// clock loop. Reopening (a reload) reuses the running session.
func (api *examApi) openSession(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	testID := ctx.Param("id")
	key := claims.StudentID + "/" + testID

	api.mu.Lock()
	sess, ok := api.sessions[key]
	api.mu.Unlock()
	if ok && sess.State() == exam.StateInProgress {
		return ctx.JSON(http.StatusOK, api.newSessionResponse(sess))
	}

	sess, err = api.svc.OpenSession(claims.StudentID, testID)
	if err != nil {
		if errors.Cause(err) == exam.ErrSessionNotFound {
			return echo.NewHTTPError(http.StatusNotFound, exam.ErrSessionNotFound.Error())
		}
		return errors.Wrap(err, "opening session")
	}

	api.mu.Lock()
	api.sessions[key] = sess
	api.mu.Unlock()

	go sess.Run(context.Background())
	go func() {
		<-sess.Done()
		api.mu.Lock()
		if api.sessions[key] == sess {
			delete(api.sessions, key)
		}
		api.mu.Unlock()
	}()

	return ctx.JSON(http.StatusOK, api.newSessionResponse(sess))
}

func (api *examApi) sessionStatus(ctx echo.Context) error {
	sess, err := api.liveSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.newSessionResponse(sess))
}

func (api *examApi) saveAnswer(ctx echo.Context) error {
	var data AnswerSaveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerSaveRequest")
	}
	if data.QuestionID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "question_id", Error: "required"})
	}

	sess, err := api.liveSession(ctx)
	if err != nil {
		return err
	}
	sess.SetAnswer(data.QuestionID, data.Answer)
	return ctx.JSON(http.StatusOK, api.newSessionResponse(sess))
}

// signal feeds a client event into the session. A submit waits briefly for
// the finish latch so the response already reflects the final state.
func (api *examApi) signal(ctx echo.Context) error {
	var data SignalRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignalRequest")
	}

	sess, err := api.liveSession(ctx)
	if err != nil {
		return err
	}

	var sig exam.Signal
	switch data.Signal {
	case "submit":
		sig = exam.SignalManualSubmit
	case "hidden":
		sig = exam.SignalVisibilityHidden
	case "blur":
		sig = exam.SignalFocusLost
	default:
		return core.NewValidationError(nil,
			core.FieldError{Field: "signal", Error: "must be one of submit, hidden, blur"})
	}
	sess.Send(sig)

	select {
	case <-sess.Done():
	case <-time.After(3 * time.Second):
	}
	return ctx.JSON(http.StatusOK, api.newSessionResponse(sess))
}

func (api *examApi) querySubmissions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var studentID string
	if claims.IsAdmin || claims.IsTeacher {
		studentID = core.CleanString(ctx.QueryParam("student_id"))
	}
	if studentID == "" {
		studentID = claims.StudentID
	}
	if studentID == "" {
		return ctx.JSON(http.StatusOK, []exam.Submission{})
	}

	subs, err := api.svc.QuerySubmissionsByStudent(studentID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []exam.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *examApi) retrieveSubmission(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.svc.GetSubmission(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding submission by ID")
	}
	if !(claims.IsAdmin || claims.IsTeacher || sub.StudentID == claims.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *examApi) liveSession(ctx echo.Context) (*exam.Session, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}
	key := claims.StudentID + "/" + ctx.Param("id")

	api.mu.Lock()
	sess, ok := api.sessions[key]
	api.mu.Unlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, exam.ErrSessionNotFound.Error())
	}
	return sess, nil
}

func (api *examApi) checkEnrollment(ctx echo.Context, claims Claims) error {
	t, err := api.svc.GetTest(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding test by ID")
	}
	stu, err := api.stuSvc.GetByStudentID(claims.StudentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpForbidden
		}
		return errors.Wrap(err, "finding student by student ID")
	}
	if !stu.IsEnrolledIn(t.PaperCode) {
		return errHttpForbidden
	}
	return nil
}

func (api *examApi) newSessionResponse(sess *exam.Session) SessionResponse {
	sub := sess.Submission()
	resp := SessionResponse{
		Submission:      sub,
		TimeLeftSeconds: int(sess.TimeLeft(time.Now().UTC()).Seconds()),
		Reason:          sess.Reason(),
	}
	switch sess.State() {
	case exam.StateCompleted:
		resp.State = "completed"
		resp.TimeLeftSeconds = 0
	default:
		resp.State = "in_progress"
	}
	return resp
}

type (
	LockRequest struct {
		Locked bool `json:"locked"`
	}

	AnswerSaveRequest struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
	}

	SignalRequest struct {
		Signal string `json:"signal"` // submit | hidden | blur
	}

	SessionResponse struct {
		Submission      exam.Submission `json:"submission"`
		State           string          `json:"state"`
		TimeLeftSeconds int             `json:"time_left_seconds"`
		Reason          string          `json:"reason,omitempty"`
	}
)
