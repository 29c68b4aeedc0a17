package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// Hand-written fakes shared by the usecase tests. Each fake keeps its state
// in memory and exposes ShouldFail switches in the style of the handler
// mocks.

type fakeLogger struct{}

func (fakeLogger) Debugf(format string, args ...interface{}) {}
func (fakeLogger) Infof(format string, args ...interface{})  {}
func (fakeLogger) Warnf(format string, args ...interface{})  {}
func (fakeLogger) Errorf(format string, args ...interface{}) {}
func (fakeLogger) Fatalf(format string, args ...interface{}) {}

type fakeConfig struct{}

func (fakeConfig) GetServerURL() string                 { return "http://localhost:8080" }
func (fakeConfig) GetClientURL() string                 { return "http://localhost:5173" }
func (fakeConfig) GetGoogleClientID() string            { return "google-client-id" }
func (fakeConfig) GetGoogleClientSecret() string        { return "google-client-secret" }
func (fakeConfig) IsProduction() bool                   { return false }
func (fakeConfig) GetAccessTokenExpiry() time.Duration  { return 15 * time.Minute }
func (fakeConfig) GetRefreshTokenExpiry() time.Duration { return 168 * time.Hour }

type fakeUUIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *fakeUUIDGen) NewUUID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("uuid-%d", g.n)
}

type fakeCourseRepo struct {
	Courses         map[string]*entity.Course
	IncrementCalls  int
	IncrementFailed bool
}

var _ contract.ICourseRepository = (*fakeCourseRepo)(nil)

func newFakeCourseRepo(courses ...*entity.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{Courses: make(map[string]*entity.Course)}
	for _, c := range courses {
		repo.Courses[c.ID] = c
	}
	return repo
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, course *entity.Course) error {
	r.Courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) GetCourseByID(ctx context.Context, id string) (*entity.Course, error) {
	course, ok := r.Courses[id]
	if !ok {
		return nil, contract.ErrCourseNotFound
	}
	return course, nil
}

func (r *fakeCourseRepo) UpdateCourse(ctx context.Context, id string, updates map[string]interface{}) error {
	c, ok := r.Courses[id]
	if !ok {
		return contract.ErrCourseNotFound
	}
	// applies whatever it is given; field filtering is the usecase's job
	if v, ok := updates["title"].(string); ok {
		c.Title = v
	}
	if v, ok := updates["price"].(float64); ok {
		c.Price = v
	}
	if v, ok := updates["is_published"].(bool); ok {
		c.IsPublished = v
	}
	if v, ok := updates["creator_id"].(string); ok {
		c.CreatorID = v
	}
	if v, ok := updates["enrollment_count"].(int64); ok {
		c.EnrollmentCount = v
	}
	return nil
}

func (r *fakeCourseRepo) DeleteCourse(ctx context.Context, id string) error {
	delete(r.Courses, id)
	return nil
}

func (r *fakeCourseRepo) ListPublished(ctx context.Context, filter contract.CourseFilter) ([]entity.Course, int64, error) {
	var out []entity.Course
	for _, c := range r.Courses {
		if c.IsPublished {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) ListByCreator(ctx context.Context, creatorID string) ([]entity.Course, error) {
	var out []entity.Course
	for _, c := range r.Courses {
		if c.CreatorID == creatorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) IncrementEnrollmentCount(ctx context.Context, id string, delta int64) error {
	if r.IncrementFailed {
		return errors.New("increment failed")
	}
	r.IncrementCalls++
	if c, ok := r.Courses[id]; ok {
		c.EnrollmentCount += delta
	}
	return nil
}

type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	Enrollments map[string]*entity.Enrollment // keyed by userID+"|"+courseID
	ShouldFail  bool
}

var _ contract.IEnrollmentRepository = (*fakeEnrollmentRepo)(nil)

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{Enrollments: make(map[string]*entity.Enrollment)}
}

func enrollmentKey(userID, courseID string) string { return userID + "|" + courseID }

func (r *fakeEnrollmentRepo) UpsertEnrollment(ctx context.Context, enrollment *entity.Enrollment) (bool, *entity.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShouldFail {
		return false, nil, errors.New("enrollment write failed")
	}
	key := enrollmentKey(enrollment.UserID, enrollment.CourseID)
	if existing, ok := r.Enrollments[key]; ok {
		return false, existing, nil
	}
	now := time.Now()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	r.Enrollments[key] = enrollment
	return true, enrollment, nil
}

func (r *fakeEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.Enrollments[enrollmentKey(userID, courseID)]; ok {
		return e, nil
	}
	return nil, contract.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) ListActiveByUser(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Enrollment
	for _, e := range r.Enrollments {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) UpdateEnrollment(ctx context.Context, id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Enrollments {
		if e.ID != id {
			continue
		}
		if v, ok := updates["progress"]; ok {
			e.Progress = v.(float64)
		}
		if v, ok := updates["status"]; ok {
			e.Status = v.(entity.EnrollmentStatus)
		}
		if v, ok := updates["completed_at"]; ok {
			t := v.(time.Time)
			e.CompletedAt = &t
		}
		return nil
	}
	return contract.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) AddCompletedLecture(ctx context.Context, id, lectureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Enrollments {
		if e.ID != id {
			continue
		}
		for _, existing := range e.CompletedLectures {
			if existing == lectureID {
				return nil
			}
		}
		e.CompletedLectures = append(e.CompletedLectures, lectureID)
		return nil
	}
	return contract.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) CountByCourseIDs(ctx context.Context, courseIDs []string) ([]contract.CourseEnrollmentCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, e := range r.Enrollments {
		counts[e.CourseID]++
	}
	var out []contract.CourseEnrollmentCount
	for _, id := range courseIDs {
		if n, ok := counts[id]; ok {
			out = append(out, contract.CourseEnrollmentCount{CourseID: id, Count: n})
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakePaymentRepo struct {
	Payments   []*entity.Payment
	ShouldFail bool
	Revenue    float64
}

var _ contract.IPaymentRepository = (*fakePaymentRepo)(nil)

func (r *fakePaymentRepo) CreatePayment(ctx context.Context, payment *entity.Payment) error {
	if r.ShouldFail {
		return errors.New("payment write failed")
	}
	r.Payments = append(r.Payments, payment)
	return nil
}

func (r *fakePaymentRepo) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	for _, p := range r.Payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, contract.ErrPaymentNotFound
}

func (r *fakePaymentRepo) UpdatePaymentStatus(ctx context.Context, id string, status entity.PaymentStatus) error {
	for _, p := range r.Payments {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return contract.ErrPaymentNotFound
}

func (r *fakePaymentRepo) TotalRevenueByCourseIDs(ctx context.Context, courseIDs []string) (float64, error) {
	return r.Revenue, nil
}

type fakeUserRepo struct {
	Users map[string]*entity.User
}

var _ contract.IUserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{Users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.Users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *entity.User) error {
	r.Users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := r.Users[id]; ok {
		return u, nil
	}
	return nil, contract.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, contract.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	r.Users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id string) error {
	delete(r.Users, id)
	return nil
}

type fakeEsewaGateway struct {
	Status      string
	StatusErr   error
	StatusCalls int
	LastTxnUUID string
}

var _ contract.IEsewaGateway = (*fakeEsewaGateway)(nil)

func (g *fakeEsewaGateway) CreatePaymentData(req contract.EsewaPaymentRequest) map[string]string {
	return map[string]string{
		"amount":             fmt.Sprintf("%g", req.Amount),
		"total_amount":       fmt.Sprintf("%g", req.Amount),
		"transaction_uuid":   req.TransactionUUID,
		"product_code":       "EPAYTEST",
		"success_url":        req.SuccessURL,
		"failure_url":        req.FailureURL,
		"signed_field_names": "total_amount,transaction_uuid,product_code",
		"signature":          "fake-signature",
	}
}

func (g *fakeEsewaGateway) VerifySignature(fields map[string]string) bool {
	return fields["signature"] == "fake-signature"
}

func (g *fakeEsewaGateway) CheckPaymentStatus(ctx context.Context, transactionUUID, totalAmount string) (*contract.EsewaStatus, error) {
	g.StatusCalls++
	g.LastTxnUUID = transactionUUID
	if g.StatusErr != nil {
		return nil, g.StatusErr
	}
	return &contract.EsewaStatus{
		TransactionUUID: transactionUUID,
		TotalAmount:     100,
		Status:          g.Status,
	}, nil
}

func (g *fakeEsewaGateway) DecodeResponse(base64Data string) (map[string]string, error) {
	return nil, errors.New("not used in tests")
}

func (g *fakeEsewaGateway) FormURL() string {
	return "https://rc-epay.esewa.com.np/api/epay/main/v2/form"
}

type fakeKhaltiGateway struct {
	Statuses      []string // returned in order by LookupPayment, last repeats
	LookupCalls   int
	InitiateErr   error
	LastAmount    int64
	LastReturnURL string
}

var _ contract.IKhaltiGateway = (*fakeKhaltiGateway)(nil)

func (g *fakeKhaltiGateway) InitiatePayment(ctx context.Context, req contract.KhaltiInitiateRequest) (string, string, error) {
	g.LastAmount = req.AmountPaisa
	g.LastReturnURL = req.ReturnURL
	if g.InitiateErr != nil {
		return "", "", g.InitiateErr
	}
	return "https://test-pay.khalti.com/?pidx=test-pidx", "test-pidx", nil
}

func (g *fakeKhaltiGateway) LookupPayment(ctx context.Context, pidx string) (*contract.KhaltiLookup, error) {
	idx := g.LookupCalls
	g.LookupCalls++
	if idx >= len(g.Statuses) {
		idx = len(g.Statuses) - 1
	}
	return &contract.KhaltiLookup{
		Pidx:        pidx,
		Status:      g.Statuses[idx],
		TotalAmount: 130000,
	}, nil
}

type fakeLectureRepo struct {
	Lectures map[string]*entity.Lecture
}

var _ contract.ILectureRepository = (*fakeLectureRepo)(nil)

func newFakeLectureRepo() *fakeLectureRepo {
	return &fakeLectureRepo{Lectures: make(map[string]*entity.Lecture)}
}

func (r *fakeLectureRepo) CreateLecture(ctx context.Context, lecture *entity.Lecture) error {
	r.Lectures[lecture.ID] = lecture
	return nil
}

func (r *fakeLectureRepo) GetLectureByID(ctx context.Context, id string) (*entity.Lecture, error) {
	if l, ok := r.Lectures[id]; ok {
		return l, nil
	}
	return nil, contract.ErrLectureNotFound
}

func (r *fakeLectureRepo) UpdateLecture(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, ok := r.Lectures[id]; !ok {
		return contract.ErrLectureNotFound
	}
	return nil
}

func (r *fakeLectureRepo) DeleteLecture(ctx context.Context, id string) error {
	delete(r.Lectures, id)
	return nil
}

func (r *fakeLectureRepo) ListByCourse(ctx context.Context, courseID string) ([]entity.Lecture, error) {
	var out []entity.Lecture
	for _, l := range r.Lectures {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLectureRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	for id, l := range r.Lectures {
		if l.CourseID == courseID {
			delete(r.Lectures, id)
		}
	}
	return nil
}

type fakeReviewRepo struct {
	Reviews map[string]*entity.Review
	Avg     float64
}

var _ contract.IReviewRepository = (*fakeReviewRepo)(nil)

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{Reviews: make(map[string]*entity.Review)}
}

func (r *fakeReviewRepo) CreateReview(ctx context.Context, review *entity.Review) error {
	r.Reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) GetReviewByID(ctx context.Context, id string) (*entity.Review, error) {
	if rev, ok := r.Reviews[id]; ok {
		return rev, nil
	}
	return nil, contract.ErrReviewNotFound
}

func (r *fakeReviewRepo) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Review, error) {
	for _, rev := range r.Reviews {
		if rev.UserID == userID && rev.CourseID == courseID {
			return rev, nil
		}
	}
	return nil, contract.ErrReviewNotFound
}

func (r *fakeReviewRepo) UpdateReview(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, ok := r.Reviews[id]; !ok {
		return contract.ErrReviewNotFound
	}
	return nil
}

func (r *fakeReviewRepo) DeleteReview(ctx context.Context, id string) error {
	delete(r.Reviews, id)
	return nil
}

func (r *fakeReviewRepo) ListByCourse(ctx context.Context, courseID string) ([]entity.Review, error) {
	var out []entity.Review
	for _, rev := range r.Reviews {
		if rev.CourseID == courseID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) AverageRatingByCourse(ctx context.Context, courseID string) (float64, int64, error) {
	var sum, n int
	for _, rev := range r.Reviews {
		if rev.CourseID == courseID {
			sum += rev.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), int64(n), nil
}

type fakeValidator struct{}

var _ usecasecontract.IValidator = fakeValidator{}

func (fakeValidator) ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return errors.New("invalid email")
	}
	return nil
}

func (fakeValidator) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("weak password")
	}
	return nil
}

func (fakeValidator) ValidateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if len(strings.TrimSpace(comment)) < 10 {
		return errors.New("comment must be at least 10 characters long")
	}
	return nil
}

type fakeEmailService struct {
	Sent []string
}

var _ contract.IEmailService = (*fakeEmailService)(nil)

func (s *fakeEmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	s.Sent = append(s.Sent, to)
	return nil
}

// compile-time check that the fakes satisfy the interfaces used below
var _ usecasecontract.IAppLogger = fakeLogger{}
var _ usecasecontract.IConfigProvider = fakeConfig{}
