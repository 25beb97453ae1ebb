package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/student"
)

type billingApi struct {
	svc    *billing.Service
	stuSvc *student.Service
}

func registerBillingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *billing.Service, stuSvc *student.Service) {
	api := billingApi{svc: svc, stuSvc: stuSvc}

	pg := g.Group("/payments", jwt)
	pg.POST("", api.record, studentMiddleware())
	pg.GET("", api.query, adminMiddleware())
	pg.GET("/student/:studentID", api.queryByStudent, teacherMiddleware())
	pg.POST("/:invoiceID/verify", api.verify, adminMiddleware())
}

// Handlers

// record files a payment claim against the caller's own account; the
// student ID always comes from the claims, never the request body.
func (api *billingApi) record(ctx echo.Context) error {
	var data billing.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.StudentID = claims.StudentID
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.Record(data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *billingApi) query(ctx echo.Context) error {
	payments, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []billing.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *billingApi) queryByStudent(ctx echo.Context) error {
	payments, err := api.svc.QueryByStudent(ctx.Param("studentID"))
	if err != nil {
		return errors.Wrap(err, "querying payments by student")
	}
	if payments == nil {
		payments = []billing.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *billingApi) verify(ctx echo.Context) error {
	var data VerifyPaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyPaymentRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	p, err := api.svc.GetByInvoiceID(ctx.Param("invoiceID"))
	if err != nil {
		if errors.Cause(err) == billing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding payment by invoice ID")
	}

	stu, err := api.stuSvc.GetByStudentID(p.StudentID)
	if err != nil && errors.Cause(err) != student.ErrNotFound {
		return errors.Wrap(err, "finding student by student ID")
	}

	p, err = api.svc.Verify(p.InvoiceID, data.Verdict, data.RejectionReason, claims.Subject, stu)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

type VerifyPaymentRequest struct {
	Verdict         string `json:"verdict" validate:"required,oneof=paid rejected"`
	RejectionReason string `json:"rejection_reason"`
}

func (vr *VerifyPaymentRequest) Validate() error {
	vr.Verdict = core.CleanString(vr.Verdict, true /* lower */)
	return core.Validate.Struct(vr)
}
