package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("/:code", api.retrieve)
	cg.POST("/:code/faculty", api.assignFaculty, adminMiddleware())

	eg := g.Group("/calendar", jwt)
	eg.GET("", api.queryEvents)
	eg.POST("", api.addEvent, adminMiddleware())
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByCode(ctx.Param("code"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by code")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) assignFaculty(ctx echo.Context) error {
	var data AssignFacultyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignFacultyRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.AssignFaculty(ctx.Param("code"), data.FacultyID)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning faculty")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) addEvent(ctx echo.Context) error {
	var data course.NewCalendarEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCalendarEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	e, err := api.svc.AddCalendarEvent(data)
	if err != nil {
		return errors.Wrap(err, "adding calendar event")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *courseApi) queryEvents(ctx echo.Context) error {
	events, err := api.svc.CalendarEvents(claimsAudience(ctx))
	if err != nil {
		return errors.Wrap(err, "querying calendar events")
	}
	if events == nil {
		events = []course.CalendarEvent{}
	}
	return ctx.JSON(http.StatusOK, events)
}

type AssignFacultyRequest struct {
	FacultyID string `json:"faculty_id" validate:"required"`
}

func (ar *AssignFacultyRequest) Validate() error {
	ar.FacultyID = core.CleanString(ar.FacultyID)
	return core.Validate.Struct(ar)
}
