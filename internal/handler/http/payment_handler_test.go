package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	handler "github.com/nepcourses/nepcourses-api/internal/handler/http"
	dto "github.com/nepcourses/nepcourses-api/internal/handler/http/dto"
	mocks "github.com/nepcourses/nepcourses-api/internal/handler/http/mocks"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientURL = "http://localhost:5173"

func setupPaymentRouter(mockUsecase *mocks.MockPaymentUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	esewaGateway := gateway.NewEsewaGateway("EPAYTEST", "test-secret", false)
	h := handler.NewPaymentHandler(mockUsecase, esewaGateway, clientURL)

	r := gin.Default()
	r.POST("/payments/initiate", func(c *gin.Context) {
		c.Set("userID", "user-1")
		h.InitiatePayment(c)
	})
	r.GET("/payments/esewa-form", h.RenderEsewaForm)
	r.GET("/payments/esewa/success", h.HandleEsewaSuccess)
	r.GET("/payments/esewa/failure", h.HandleEsewaFailure)
	r.GET("/payments/khalti/return", h.HandleKhaltiReturn)
	return r
}

func TestInitiatePayment(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	payload := dto.InitiatePaymentRequest{
		CourseID:       "course-1",
		PaymentGateway: "khalti",
		Amount:         1300,
	}
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments/initiate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://pay.example.com/checkout")
	assert.Equal(t, "course-1", mockUsecase.LastCourseID)
	assert.Equal(t, 1300.0, mockUsecase.LastAmount)
}

func TestInitiatePayment_FreeCourse(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	payload := dto.InitiatePaymentRequest{
		CourseID:       "course-1",
		PaymentGateway: "esewa",
		Amount:         0,
	}
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments/initiate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enrollment_type":"free"`)
}

func TestInitiatePayment_UnknownGateway(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	payload := dto.InitiatePaymentRequest{
		CourseID:       "course-1",
		PaymentGateway: "stripe",
		Amount:         100,
	}
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments/initiate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// rejected by the paymentgateway binding validator before the usecase runs
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockUsecase.LastCourseID)
}

func TestInitiatePayment_CourseNotFound(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	mockUsecase.InitiateErr = contract.ErrCourseNotFound
	r := setupPaymentRouter(mockUsecase)

	payload := dto.InitiatePaymentRequest{
		CourseID:       "missing-course",
		PaymentGateway: "khalti",
		Amount:         1300,
	}
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments/initiate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenderEsewaForm(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	q := url.Values{}
	q.Set("total_amount", "100")
	q.Set("transaction_uuid", "tx-1")
	q.Set("product_code", "EPAYTEST")
	q.Set("signed_field_names", "total_amount,transaction_uuid,product_code")
	q.Set("signature", "abc123")
	q.Set("success_url", "http://localhost:8080/api/v1/payments/esewa/success")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/esewa-form?"+q.Encode(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "https://rc-epay.esewa.com.np/api/epay/main/v2/form")
	assert.Contains(t, w.Body.String(), `name="signature" value="abc123"`)
	assert.Contains(t, w.Body.String(), `name="transaction_uuid" value="tx-1"`)
}

func TestRenderEsewaForm_MissingSignature(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/esewa-form?total_amount=100", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEsewaSuccess_RedirectsToSuccessPage(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/esewa/success?courseId=course-1&data=ZXlK", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, clientURL+"/payment-success?courseId=course-1", w.Header().Get("Location"))
	assert.Equal(t, "ZXlK", mockUsecase.LastData)
}

func TestHandleEsewaSuccess_WarningPropagates(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	mockUsecase.CallbackWarning = "enrollment-failed"
	r := setupPaymentRouter(mockUsecase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/esewa/success?courseId=course-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, clientURL+"/payment-success?courseId=course-1&warning=enrollment-failed", w.Header().Get("Location"))
}

func TestHandleEsewaSuccess_FailureRedirect(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	mockUsecase.CallbackSucceeds = false
	r := setupPaymentRouter(mockUsecase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/esewa/success?courseId=course-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, clientURL+"/payment-failure?courseId=course-1", w.Header().Get("Location"))
}

func TestHandleEsewaFailure(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/esewa/failure?courseId=course-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, clientURL+"/payment-failure?courseId=course-1", w.Header().Get("Location"))
}

func TestHandleKhaltiReturn(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	r := setupPaymentRouter(mockUsecase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/payments/khalti/return?pidx=abc&courseId=course-1&userId=user-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, clientURL+"/payment-success?courseId=course-1", w.Header().Get("Location"))
	assert.Equal(t, "abc", mockUsecase.LastPidx)
}
