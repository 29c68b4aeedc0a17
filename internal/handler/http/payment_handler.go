package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/handler/http/dto"
	"github.com/nepcourses/nepcourses-api/internal/usecase"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// esewaFormFields are the hidden inputs eSewa's v2 epay endpoint expects.
var esewaFormFields = []string{
	"amount",
	"tax_amount",
	"total_amount",
	"transaction_uuid",
	"product_code",
	"product_service_charge",
	"product_delivery_charge",
	"success_url",
	"failure_url",
	"signed_field_names",
	"signature",
}

var esewaFormTemplate = template.Must(template.New("esewaForm").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to eSewa...</title></head>
<body onload="document.forms[0].submit()">
<p>Redirecting to eSewa...</p>
<form action="{{.Action}}" method="POST">
{{range $name, $value := .Fields}}<input type="hidden" name="{{$name}}" value="{{$value}}">
{{end}}<noscript><button type="submit">Continue to eSewa</button></noscript>
</form>
</body>
</html>`))

type PaymentHandler struct {
	paymentUsecase usecasecontract.IPaymentUseCase
	esewaGateway   contract.IEsewaGateway
	clientURL      string
}

func NewPaymentHandler(paymentUsecase usecasecontract.IPaymentUseCase, esewaGateway contract.IEsewaGateway, clientURL string) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		esewaGateway:   esewaGateway,
		clientURL:      clientURL,
	}
}

// InitiatePayment handles starting a course purchase
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.InitiatePaymentRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	result, err := h.paymentUsecase.InitiateCoursePayment(c.Request.Context(), userID, req.CourseID, req.PaymentGateway, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAmountBelowMinimum), errors.Is(err, usecase.ErrUnsupportedGateway):
			ErrorHandler(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, contract.ErrCourseNotFound):
			ErrorHandler(c, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrGatewayNotConfigured):
			ErrorHandler(c, http.StatusInternalServerError, err.Error())
		default:
			ErrorHandler(c, http.StatusBadGateway, "Failed to initiate payment")
		}
		return
	}

	SuccessHandler(c, http.StatusOK, dto.InitiatePaymentResponse{
		EnrollmentType: result.EnrollmentType,
		PaymentURL:     result.PaymentURL,
	})
}

// RenderEsewaForm serves the signed auto-submit form that posts the browser
// to eSewa's payment page.
func (h *PaymentHandler) RenderEsewaForm(c *gin.Context) {
	fields := make(map[string]string, len(esewaFormFields))
	for _, name := range esewaFormFields {
		if v := c.Query(name); v != "" {
			fields[name] = v
		}
	}
	if fields["signature"] == "" || fields["transaction_uuid"] == "" {
		c.String(http.StatusBadRequest, "missing payment fields")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := esewaFormTemplate.Execute(c.Writer, gin.H{
		"Action": h.esewaGateway.FormURL(),
		"Fields": fields,
	}); err != nil {
		c.String(http.StatusInternalServerError, "failed to render payment form")
	}
}

// callbackParam reads a gateway callback value from the query string or, on
// POST deliveries, from the form-encoded body.
func callbackParam(c *gin.Context, name string) string {
	return c.Request.FormValue(name)
}

// HandleEsewaSuccess processes the callback eSewa sends after a payment
// attempt, then bounces the browser to the frontend result page. eSewa
// delivers it as a GET redirect or a form-encoded POST.
func (h *PaymentHandler) HandleEsewaSuccess(c *gin.Context) {
	params := usecasecontract.EsewaCallbackParams{
		CourseID:        callbackParam(c, "courseId"),
		UserID:          callbackParam(c, "userId"),
		TransactionUUID: callbackParam(c, "transaction_uuid"),
		TotalAmount:     callbackParam(c, "total_amount"),
	}
	outcome := h.paymentUsecase.HandleEsewaCallback(c.Request.Context(), callbackParam(c, "data"), params)
	h.redirectForOutcome(c, outcome)
}

// HandleEsewaFailure processes eSewa's failure callback
func (h *PaymentHandler) HandleEsewaFailure(c *gin.Context) {
	courseID := callbackParam(c, "courseId")
	c.Redirect(http.StatusFound, h.failureURL(courseID))
}

// HandleKhaltiReturn processes the browser return from Khalti's payment page
func (h *PaymentHandler) HandleKhaltiReturn(c *gin.Context) {
	outcome := h.paymentUsecase.HandleKhaltiReturn(c.Request.Context(), c.Query("pidx"), c.Query("courseId"), c.Query("userId"))
	h.redirectForOutcome(c, outcome)
}

func (h *PaymentHandler) redirectForOutcome(c *gin.Context, outcome usecasecontract.CallbackOutcome) {
	if !outcome.Succeeded {
		c.Redirect(http.StatusFound, h.failureURL(outcome.CourseID))
		return
	}
	target := fmt.Sprintf("%s/payment-success?courseId=%s", h.clientURL, url.QueryEscape(outcome.CourseID))
	if outcome.Warning != "" {
		target += "&warning=" + url.QueryEscape(outcome.Warning)
	}
	c.Redirect(http.StatusFound, target)
}

func (h *PaymentHandler) failureURL(courseID string) string {
	return fmt.Sprintf("%s/payment-failure?courseId=%s", h.clientURL, url.QueryEscape(courseID))
}
