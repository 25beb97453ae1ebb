package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/board"
	"github.com/brightpath/academia/core/student"
)

type boardApi struct {
	svc    *board.Service
	stuSvc *student.Service
}

func registerBoardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *board.Service, stuSvc *student.Service) {
	api := boardApi{svc: svc, stuSvc: stuSvc}

	ng := g.Group("/announcements", jwt)
	ng.GET("", api.queryAnnouncements)
	ng.POST("", api.announce, adminMiddleware())

	g.GET("/notifications", api.queryNotifications, jwt)

	cg := g.Group("/chat", jwt)
	cg.GET("", api.queryChatMessages)
	cg.POST("", api.postChatMessage)

	qg := g.Group("/questions", jwt)
	qg.GET("", api.queryQuestions, teacherMiddleware())
	qg.POST("", api.askQuestion, studentMiddleware())
	qg.POST("/:id/answer", api.answerQuestion, teacherMiddleware())
}

// Handlers

func (api *boardApi) announce(ctx echo.Context) error {
	var data board.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.svc.Announce(data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "posting announcement")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *boardApi) queryAnnouncements(ctx echo.Context) error {
	items, err := api.svc.Announcements(claimsAudience(ctx))
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if items == nil {
		items = []board.Announcement{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *boardApi) queryNotifications(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	items, err := api.svc.Notifications(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if items == nil {
		items = []board.Notification{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *boardApi) postChatMessage(ctx echo.Context) error {
	var data board.NewChatMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChatMessage")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.checkPaperAccess(claims, data.PaperCode); err != nil {
		return err
	}

	author := claims.Username
	if author == "" {
		author = claims.Email
	}
	m, err := api.svc.PostChatMessage(data, claims.Subject, author)
	if err != nil {
		return errors.Wrap(err, "posting chat message")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *boardApi) queryChatMessages(ctx echo.Context) error {
	paper := core.CleanString(ctx.QueryParam("paper"))
	if paper == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "paper", Error: "required"})
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.checkPaperAccess(claims, paper); err != nil {
		return err
	}

	items, err := api.svc.ChatMessages(paper)
	if err != nil {
		return errors.Wrap(err, "querying chat messages")
	}
	if items == nil {
		items = []board.ChatMessage{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *boardApi) askQuestion(ctx echo.Context) error {
	var data board.NewTeacherQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacherQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.checkPaperAccess(claims, data.PaperCode); err != nil {
		return err
	}

	q, err := api.svc.AskQuestion(data, claims.StudentID)
	if err != nil {
		return errors.Wrap(err, "asking question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *boardApi) queryQuestions(ctx echo.Context) error {
	paper := core.CleanString(ctx.QueryParam("paper"))
	if paper == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "paper", Error: "required"})
	}
	items, err := api.svc.QuestionsByPaper(paper)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	if items == nil {
		items = []board.TeacherQuestion{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *boardApi) answerQuestion(ctx echo.Context) error {
	var data AnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	q, err := api.svc.AnswerQuestion(ctx.Param("id"), data.Answer, claims.Subject)
	if err != nil {
		if errors.Cause(err) == board.ErrQuestionNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

// checkPaperAccess restricts students to papers they are enrolled in.
// Faculty and admins see every paper.
func (api *boardApi) checkPaperAccess(claims Claims, paper string) error {
	if !claims.IsStudent || claims.IsTeacher || claims.IsAdmin {
		return nil
	}
	stu, err := api.stuSvc.GetByStudentID(claims.StudentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpForbidden
		}
		return errors.Wrap(err, "finding student by student ID")
	}
	if !stu.IsEnrolledIn(paper) {
		return errHttpForbidden
	}
	return nil
}

type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

func (ar *AnswerRequest) Validate() error {
	ar.Answer = core.CleanString(ar.Answer)
	return core.Validate.Struct(ar)
}
