package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/admission"
)

type admissionApi struct {
	svc *admission.Service
}

func registerAdmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *admission.Service) {
	api := admissionApi{svc: svc}

	ag := g.Group("/applications")

	// un-authed: the public site's admission form posts here
	ag.POST("", api.submit)

	// admin endpoints
	mg := ag.Group("", jwt, adminMiddleware())
	mg.GET("", api.query)
	mg.GET("/:id", api.retrieve)
	mg.POST("/:id/decide", api.decide)
}

// Handlers

func (api *admissionApi) submit(ctx echo.Context) error {
	var data admission.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	app, err := api.svc.Submit(data)
	if err != nil {
		return errors.Wrap(err, "submitting application")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *admissionApi) query(ctx echo.Context) error {
	apps, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []admission.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *admissionApi) retrieve(ctx echo.Context) error {
	app, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == admission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding application by ID")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) decide(ctx echo.Context) error {
	var data DecideRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DecideRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	app, err := api.svc.Decide(ctx.Param("id"), data.Verdict, claims.Subject)
	if err != nil {
		if errors.Cause(err) == admission.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

type DecideRequest struct {
	Verdict string `json:"verdict" validate:"required,oneof=approved rejected"`
}

func (dr *DecideRequest) Validate() error {
	dr.Verdict = core.CleanString(dr.Verdict, true /* lower */)
	return core.Validate.Struct(dr)
}
