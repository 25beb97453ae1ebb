package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/student"
)

type studentApi struct {
	svc     *student.Service
	billSvc *billing.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service, billSvc *billing.Service) {
	api := studentApi{svc: svc, billSvc: billSvc}

	// staff endpoints
	sg := g.Group("/students", jwt)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("", api.query, teacherMiddleware())
	sg.GET("/archived", api.queryArchived, adminMiddleware())
	sg.GET("/:id", api.retrieve, teacherMiddleware())
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.POST("/:id/archive", api.archive, adminMiddleware())
	sg.POST("/:id/papers", api.enroll, adminMiddleware())
	sg.POST("/:id/grades", api.recordGrade, teacherMiddleware())
	sg.POST("/:id/attendance", api.recordAttendance, teacherMiddleware())

	// student portal
	pg := g.Group("/portal", jwt, studentMiddleware())
	pg.GET("/profile", api.profile)
	pg.GET("/fees", api.fees)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) queryArchived(ctx echo.Context) error {
	students, err := api.svc.QueryArchived()
	if err != nil {
		return errors.Wrap(err, "querying archived students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	stu, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, api.newDetailResponse(stu))
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) archive(ctx echo.Context) error {
	if err := api.svc.Archive(ctx.Param("id")); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "archiving student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) enroll(ctx echo.Context) error {
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, err := api.svc.Enroll(ctx.Param("id"), data.Paper)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) recordGrade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}

	stu, err := api.svc.RecordGrade(ctx.Param("id"), data.Paper, data.Entry)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) recordAttendance(ctx echo.Context) error {
	var data AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}

	stu, err := api.svc.RecordAttendance(ctx.Param("id"), data.Paper, data.Percentage)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, stu)
}

// profile serves the student portal dashboard: the record plus every
// derived figure, recomputed on each request.
func (api *studentApi) profile(ctx echo.Context) error {
	stu, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}

	resp := api.newDetailResponse(stu)
	fees, err := api.billSvc.Summarize(stu, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "summarizing fees")
	}
	resp.Fees = &fees
	return ctx.JSON(http.StatusOK, resp)
}

func (api *studentApi) fees(ctx echo.Context) error {
	stu, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}

	summary, err := api.billSvc.Summarize(stu, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "summarizing fees")
	}
	payments, err := api.billSvc.QueryByStudent(stu.StudentID)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []billing.Payment{}
	}
	return ctx.JSON(http.StatusOK, FeesResponse{Summary: summary, Payments: payments})
}

func (api *studentApi) contextStudent(ctx echo.Context) (student.Student, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting context claims")
	}
	stu, err := api.svc.GetByStudentID(claims.StudentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHttpNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by student ID")
	}
	return stu, nil
}

func (api *studentApi) newDetailResponse(stu student.Student) StudentDetailResponse {
	resp := StudentDetailResponse{Student: stu}
	if avg, ok := stu.OverallScore(); ok {
		resp.OverallScore = &avg
	}
	if avg, ok := stu.OverallAttendance(); ok {
		resp.OverallAttendance = &avg
	}
	return resp
}

type (
	EnrollRequest struct {
		Paper string `json:"paper" validate:"required,papercode"`
	}

	GradeRequest struct {
		Paper string             `json:"paper" validate:"required,papercode"`
		Entry student.GradeEntry `json:"entry"`
	}

	AttendanceRequest struct {
		Paper      string  `json:"paper" validate:"required,papercode"`
		Percentage float64 `json:"percentage"`
	}

	// StudentDetailResponse carries the derived figures alongside the
	// record; nil means "N/A" (nothing recorded yet).
	StudentDetailResponse struct {
		student.Student
		OverallScore      *float64            `json:"overall_score"`
		OverallAttendance *float64            `json:"overall_attendance"`
		Fees              *billing.FeeSummary `json:"fees,omitempty"`
	}

	FeesResponse struct {
		Summary  billing.FeeSummary `json:"summary"`
		Payments []billing.Payment  `json:"payments"`
	}
)

func (er *EnrollRequest) Validate() error {
	er.Paper = core.CleanString(er.Paper)
	return core.Validate.Struct(er)
}
