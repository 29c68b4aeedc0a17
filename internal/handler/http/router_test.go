package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	handler "github.com/nepcourses/nepcourses-api/internal/handler/http"
	mocks "github.com/nepcourses/nepcourses-api/internal/handler/http/mocks"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/gateway"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal stubs so the full router can be assembled in tests.

type stubCourseUsecase struct{}

var _ usecasecontract.ICourseUseCase = stubCourseUsecase{}

func (stubCourseUsecase) CreateCourse(ctx context.Context, creatorID string, input usecasecontract.CourseInput) (*entity.Course, error) {
	return &entity.Course{}, nil
}
func (stubCourseUsecase) UpdateCourse(ctx context.Context, userID, courseID string, updates map[string]interface{}) (*entity.Course, error) {
	return &entity.Course{}, nil
}
func (stubCourseUsecase) DeleteCourse(ctx context.Context, userID, courseID string) error { return nil }
func (stubCourseUsecase) SetPublished(ctx context.Context, userID, courseID string, published bool) error {
	return nil
}
func (stubCourseUsecase) ListPublished(ctx context.Context, filter contract.CourseFilter) ([]entity.Course, int64, error) {
	return nil, 0, nil
}
func (stubCourseUsecase) GetCourseDetail(ctx context.Context, courseID string) (*usecasecontract.CourseDetail, error) {
	return &usecasecontract.CourseDetail{}, nil
}
func (stubCourseUsecase) ListByCreator(ctx context.Context, creatorID string) ([]entity.Course, error) {
	return nil, nil
}
func (stubCourseUsecase) AddLecture(ctx context.Context, userID, courseID string, input usecasecontract.LectureInput) (*entity.Lecture, error) {
	return &entity.Lecture{}, nil
}
func (stubCourseUsecase) UpdateLecture(ctx context.Context, userID, lectureID string, updates map[string]interface{}) (*entity.Lecture, error) {
	return &entity.Lecture{}, nil
}
func (stubCourseUsecase) DeleteLecture(ctx context.Context, userID, lectureID string) error {
	return nil
}

type stubEnrollmentUsecase struct{}

var _ usecasecontract.IEnrollmentUseCase = stubEnrollmentUsecase{}

func (stubEnrollmentUsecase) EnrollFreeCourse(ctx context.Context, userID, courseID string) (*usecasecontract.EnrollResult, error) {
	return &usecasecontract.EnrollResult{}, nil
}
func (stubEnrollmentUsecase) GetEnrolledCourses(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	return nil, nil
}
func (stubEnrollmentUsecase) CheckEnrollment(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	return nil, contract.ErrEnrollmentNotFound
}
func (stubEnrollmentUsecase) UpdateProgress(ctx context.Context, userID, courseID string, lectureID *string, progress *float64) (*entity.Enrollment, error) {
	return &entity.Enrollment{}, nil
}

type stubReviewUsecase struct{}

var _ usecasecontract.IReviewUseCase = stubReviewUsecase{}

func (stubReviewUsecase) CreateReview(ctx context.Context, userID, courseID string, rating int, comment string) (*entity.Review, error) {
	return &entity.Review{}, nil
}
func (stubReviewUsecase) UpdateReview(ctx context.Context, userID, reviewID string, rating int, comment string) (*entity.Review, error) {
	return &entity.Review{}, nil
}
func (stubReviewUsecase) DeleteReview(ctx context.Context, userID string, role entity.UserRole, reviewID string) error {
	return nil
}
func (stubReviewUsecase) GetCourseReviews(ctx context.Context, courseID string) (*usecasecontract.CourseReviews, error) {
	return &usecasecontract.CourseReviews{}, nil
}

type stubDashboardUsecase struct{}

var _ usecasecontract.IDashboardUseCase = stubDashboardUsecase{}

func (stubDashboardUsecase) GetEducatorDashboard(ctx context.Context, educatorID string) (*usecasecontract.EducatorDashboard, error) {
	return &usecasecontract.EducatorDashboard{}, nil
}

type stubConfig struct{}

var _ usecasecontract.IConfigProvider = stubConfig{}

func (stubConfig) GetServerURL() string                 { return "http://localhost:8080" }
func (stubConfig) GetClientURL() string                 { return clientURL }
func (stubConfig) GetGoogleClientID() string            { return "google-client-id" }
func (stubConfig) GetGoogleClientSecret() string        { return "google-client-secret" }
func (stubConfig) IsProduction() bool                   { return false }
func (stubConfig) GetAccessTokenExpiry() time.Duration  { return 15 * time.Minute }
func (stubConfig) GetRefreshTokenExpiry() time.Duration { return 168 * time.Hour }

func setupFullRouter(paymentUsecase *mocks.MockPaymentUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := handler.NewRouter(
		mocks.NewMockUserUsecase(),
		stubCourseUsecase{},
		stubEnrollmentUsecase{},
		paymentUsecase,
		stubReviewUsecase{},
		stubDashboardUsecase{},
		gateway.NewEsewaGateway("EPAYTEST", "test-secret", false),
		stubConfig{},
	)
	engine := gin.New()
	r.SetupRoutes(engine)
	return engine
}

func TestRoutes_EsewaCallbacksAcceptGetAndPost(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	engine := setupFullRouter(mockUsecase)

	for _, method := range []string{"GET", "POST"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, "/api/v1/payments/esewa/success?courseId=course-1&data=ZXlK", nil)
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusFound, w.Code, "%s esewa success", method)
		assert.Equal(t, clientURL+"/payment-success?courseId=course-1", w.Header().Get("Location"))
	}

	for _, method := range []string{"GET", "POST"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, "/api/v1/payments/esewa/failure?courseId=course-1", nil)
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusFound, w.Code, "%s esewa failure", method)
		assert.Equal(t, clientURL+"/payment-failure?courseId=course-1", w.Header().Get("Location"))
	}
}

func TestRoutes_EsewaSuccessReadsFormEncodedBody(t *testing.T) {
	mockUsecase := mocks.NewMockPaymentUsecase()
	engine := setupFullRouter(mockUsecase)

	form := url.Values{}
	form.Set("courseId", "course-1")
	form.Set("userId", "user-1")
	form.Set("data", "ZXlKMGNtRnU")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payments/esewa/success", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, clientURL+"/payment-success?courseId=course-1", w.Header().Get("Location"))
	assert.Equal(t, "ZXlKMGNtRnU", mockUsecase.LastData)
}
