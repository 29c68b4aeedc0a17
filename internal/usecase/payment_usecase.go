package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/metrics"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// khaltiMinimumPaisa is Khalti's floor of NPR 10, expressed in paisa.
const khaltiMinimumPaisa = 1000

var (
	// ErrUnsupportedGateway is returned for a gateway discriminator that is
	// neither esewa nor khalti.
	ErrUnsupportedGateway = errors.New("unsupported paymentGateway")
	// ErrAmountBelowMinimum is returned before any network call when the
	// amount is under Khalti's NPR 10 floor.
	ErrAmountBelowMinimum = errors.New("khalti payments require a minimum amount of NPR 10")
	// ErrGatewayNotConfigured is returned when the gateway secret key is
	// missing from the environment.
	ErrGatewayNotConfigured = errors.New("payment gateway secret key is not configured")
)

// PaymentConfig carries the gateway callback URLs resolved at startup.
type PaymentConfig struct {
	EsewaSuccessURL string
	EsewaFailureURL string
	KhaltiReturnURL string
	KhaltiSecretSet bool
}

// PaymentUsecase orchestrates payment initiation and the gateway callbacks
// that grant enrollments.
type PaymentUsecase struct {
	courseRepo     contract.ICourseRepository
	enrollmentRepo contract.IEnrollmentRepository
	paymentRepo    contract.IPaymentRepository
	userRepo       contract.IUserRepository
	esewa          contract.IEsewaGateway
	khalti         contract.IKhaltiGateway
	uuidGenerator  contract.IUUIDGenerator
	logger         usecasecontract.IAppLogger
	config         usecasecontract.IConfigProvider
	paymentConfig  PaymentConfig
	mailService    contract.IEmailService

	// poll settings are fields so tests can shrink the delay
	pollInterval time.Duration
	maxPolls     int
}

func NewPaymentUsecase(
	courseRepo contract.ICourseRepository,
	enrollmentRepo contract.IEnrollmentRepository,
	paymentRepo contract.IPaymentRepository,
	userRepo contract.IUserRepository,
	esewa contract.IEsewaGateway,
	khalti contract.IKhaltiGateway,
	uuidGenerator contract.IUUIDGenerator,
	logger usecasecontract.IAppLogger,
	cfg usecasecontract.IConfigProvider,
	paymentCfg PaymentConfig,
	mailService contract.IEmailService,
) *PaymentUsecase {
	return &PaymentUsecase{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		esewa:          esewa,
		khalti:         khalti,
		uuidGenerator:  uuidGenerator,
		logger:         logger,
		config:         cfg,
		paymentConfig:  paymentCfg,
		mailService:    mailService,
		pollInterval:   2 * time.Second,
		maxPolls:       6,
	}
}

var _ usecasecontract.IPaymentUseCase = (*PaymentUsecase)(nil)

// SetPollSettings overrides the Khalti polling budget, used by tests.
func (uc *PaymentUsecase) SetPollSettings(interval time.Duration, maxPolls int) {
	uc.pollInterval = interval
	uc.maxPolls = maxPolls
}

// InitiateCoursePayment validates the request and branches by gateway. An
// amount of exactly 0 answers with enrollmentType "free" and contacts no
// gateway; the free-enrollment record itself is created by the enrollment
// endpoint.
func (uc *PaymentUsecase) InitiateCoursePayment(ctx context.Context, userID, courseID, gateway string, amount float64) (*usecasecontract.InitiatePaymentResult, error) {
	if amount < 0 {
		return nil, errors.New("amount cannot be negative")
	}
	course, err := uc.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if amount == 0 {
		return &usecasecontract.InitiatePaymentResult{EnrollmentType: "free"}, nil
	}

	switch gateway {
	case string(entity.PaymentGatewayEsewa):
		return uc.initiateEsewa(userID, course, amount)
	case string(entity.PaymentGatewayKhalti):
		return uc.initiateKhalti(ctx, userID, course, amount)
	default:
		return nil, ErrUnsupportedGateway
	}
}

func (uc *PaymentUsecase) initiateEsewa(userID string, course *entity.Course, amount float64) (*usecasecontract.InitiatePaymentResult, error) {
	transactionUUID := fmt.Sprintf("%s-%s-%d", course.ID, userID, time.Now().UnixMilli())

	fields := uc.esewa.CreatePaymentData(contract.EsewaPaymentRequest{
		Amount:          amount,
		TransactionUUID: transactionUUID,
		SuccessURL:      uc.paymentConfig.EsewaSuccessURL,
		FailureURL:      uc.paymentConfig.EsewaFailureURL,
	})

	// The browser is sent to our own form-render page first, which
	// auto-submits a POST to eSewa with these fields.
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("courseId", course.ID)
	values.Set("userId", userID)

	metrics.PaymentsInitiated.WithLabelValues("esewa").Inc()
	return &usecasecontract.InitiatePaymentResult{
		PaymentURL: uc.config.GetServerURL() + "/api/v1/payments/esewa-form?" + values.Encode(),
	}, nil
}

func (uc *PaymentUsecase) initiateKhalti(ctx context.Context, userID string, course *entity.Course, amount float64) (*usecasecontract.InitiatePaymentResult, error) {
	if !uc.paymentConfig.KhaltiSecretSet {
		return nil, ErrGatewayNotConfigured
	}
	amountPaisa := int64(math.Round(amount * 100))
	if amountPaisa < khaltiMinimumPaisa {
		return nil, ErrAmountBelowMinimum
	}

	returnURL := fmt.Sprintf("%s?courseId=%s&userId=%s",
		uc.paymentConfig.KhaltiReturnURL, url.QueryEscape(course.ID), url.QueryEscape(userID))

	paymentURL, _, err := uc.khalti.InitiatePayment(ctx, contract.KhaltiInitiateRequest{
		ReturnURL:         returnURL,
		WebsiteURL:        uc.config.GetClientURL(),
		AmountPaisa:       amountPaisa,
		PurchaseOrderID:   fmt.Sprintf("%s-%s-%d", course.ID, userID, time.Now().UnixMilli()),
		PurchaseOrderName: course.Title,
	})
	if err != nil {
		uc.logger.Errorf("khalti initiation failed: %v", err)
		return nil, fmt.Errorf("khalti initiation failed: %w", err)
	}

	metrics.PaymentsInitiated.WithLabelValues("khalti").Inc()
	return &usecasecontract.InitiatePaymentResult{PaymentURL: paymentURL}, nil
}

// HandleEsewaCallback processes an eSewa redirect. The payload is decoded
// from base64 when present, with bare query parameters as the fallback, and
// the payment is always re-verified with a status lookup before any
// enrollment is granted.
func (uc *PaymentUsecase) HandleEsewaCallback(ctx context.Context, data string, params usecasecontract.EsewaCallbackParams) usecasecontract.CallbackOutcome {
	courseID := params.CourseID
	userID := params.UserID
	transactionUUID := params.TransactionUUID
	totalAmount := params.TotalAmount

	if data != "" {
		fields, err := uc.esewa.DecodeResponse(data)
		if err != nil {
			uc.logger.Errorf("failed to decode esewa callback payload: %v", err)
			return uc.failedCallback("esewa", courseID)
		}
		if _, hasSignature := fields["signature"]; hasSignature && !uc.esewa.VerifySignature(fields) {
			uc.logger.Warnf("esewa callback signature mismatch for transaction %s", fields["transaction_uuid"])
			return uc.failedCallback("esewa", courseID)
		}
		if v := fields["transaction_uuid"]; v != "" {
			transactionUUID = v
		}
		if v := fields["total_amount"]; v != "" {
			totalAmount = v
		}
	}

	if transactionUUID == "" || totalAmount == "" {
		uc.logger.Warnf("esewa callback missing transaction_uuid or total_amount")
		return uc.failedCallback("esewa", courseID)
	}
	// eSewa formats some amounts with thousands separators
	totalAmount = strings.ReplaceAll(totalAmount, ",", "")

	if courseID == "" || userID == "" {
		parsedCourse, parsedUser, ok := parseTransactionUUID(transactionUUID)
		if !ok {
			uc.logger.Warnf("esewa callback cannot resolve course/user from %s", transactionUUID)
			return uc.failedCallback("esewa", courseID)
		}
		courseID, userID = parsedCourse, parsedUser
	}

	status, err := uc.esewa.CheckPaymentStatus(ctx, transactionUUID, totalAmount)
	if err != nil {
		uc.logger.Errorf("esewa status check failed for %s: %v", transactionUUID, err)
		return uc.failedCallback("esewa", courseID)
	}
	if status.Status != "COMPLETE" {
		uc.logger.Infof("esewa transaction %s not complete: %s", transactionUUID, status.Status)
		return uc.failedCallback("esewa", courseID)
	}

	warning := uc.grantPaidEnrollment(ctx, userID, courseID, entity.PaymentGatewayEsewa, transactionUUID, status.TotalAmount)
	metrics.PaymentCallbacks.WithLabelValues("esewa", "success").Inc()
	return usecasecontract.CallbackOutcome{Succeeded: true, Warning: warning, CourseID: courseID}
}

// HandleKhaltiReturn polls Khalti's lookup endpoint until the transaction
// reaches a terminal state or the retry budget runs out. Polling only delays
// this request; other requests are unaffected.
func (uc *PaymentUsecase) HandleKhaltiReturn(ctx context.Context, pidx, courseID, userID string) usecasecontract.CallbackOutcome {
	if pidx == "" || courseID == "" || userID == "" {
		uc.logger.Warnf("khalti return missing pidx, courseId or userId")
		return uc.failedCallback("khalti", courseID)
	}

	for attempt := 0; attempt < uc.maxPolls; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				uc.logger.Warnf("khalti polling canceled for %s: %v", pidx, ctx.Err())
				return uc.failedCallback("khalti", courseID)
			case <-time.After(uc.pollInterval):
			}
		}

		lookup, err := uc.khalti.LookupPayment(ctx, pidx)
		if err != nil {
			uc.logger.Errorf("khalti lookup failed for %s: %v", pidx, err)
			continue
		}

		switch lookup.Status {
		case "Completed":
			amountNPR := float64(lookup.TotalAmount) / 100
			warning := uc.grantPaidEnrollment(ctx, userID, courseID, entity.PaymentGatewayKhalti, pidx, amountNPR)
			metrics.PaymentCallbacks.WithLabelValues("khalti", "success").Inc()
			return usecasecontract.CallbackOutcome{Succeeded: true, Warning: warning, CourseID: courseID}
		case "Refunded":
			uc.logger.Infof("khalti transaction %s refunded", pidx)
			uc.markPaymentRefunded(ctx, pidx)
			return uc.failedCallback("khalti", courseID)
		case "User canceled", "Expired":
			uc.logger.Infof("khalti transaction %s terminal failure: %s", pidx, lookup.Status)
			return uc.failedCallback("khalti", courseID)
		default:
			// still pending, keep polling
		}
	}

	uc.logger.Warnf("khalti transaction %s still pending after %d polls", pidx, uc.maxPolls)
	return uc.failedCallback("khalti", courseID)
}

// markPaymentRefunded flips an earlier completed payment record to refunded.
// A redelivered return for a transaction we never recorded is a no-op.
func (uc *PaymentUsecase) markPaymentRefunded(ctx context.Context, transactionID string) {
	payment, err := uc.paymentRepo.GetPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		return
	}
	if err := uc.paymentRepo.UpdatePaymentStatus(ctx, payment.ID, entity.PaymentStatusRefunded); err != nil {
		uc.logger.Warnf("failed to mark payment %s refunded: %v", payment.ID, err)
	}
}

// grantPaidEnrollment records the payment and enrolls the user. The payment
// is already confirmed by the gateway at this point, so a database failure
// here is reported as a warning on an otherwise successful outcome rather
// than an error; the money is not rolled back.
func (uc *PaymentUsecase) grantPaidEnrollment(ctx context.Context, userID, courseID string, gateway entity.PaymentGateway, transactionID string, amount float64) string {
	// gateways may redeliver a callback; reuse the record if one exists
	payment, err := uc.paymentRepo.GetPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		now := time.Now()
		payment = &entity.Payment{
			ID:            uc.uuidGenerator.NewUUID(),
			UserID:        userID,
			CourseID:      courseID,
			Gateway:       gateway,
			TransactionID: transactionID,
			Amount:        amount,
			Currency:      "NPR",
			Status:        entity.PaymentStatusCompleted,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.paymentRepo.CreatePayment(ctx, payment); err != nil {
			uc.logger.Errorf("payment confirmed but payment record failed for %s: %v", transactionID, err)
			return "enrollment-failed"
		}
	}

	enrollment := &entity.Enrollment{
		ID:             uc.uuidGenerator.NewUUID(),
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentType: entity.EnrollmentTypePaid,
		PaymentID:      &payment.ID,
		Status:         entity.EnrollmentStatusActive,
		Progress:       0,
	}
	created, _, err := uc.enrollmentRepo.UpsertEnrollment(ctx, enrollment)
	if err != nil {
		uc.logger.Errorf("payment confirmed but enrollment write failed for %s: %v", transactionID, err)
		return "enrollment-failed"
	}
	if !created {
		// gateway retried the callback; the first delivery already enrolled
		return ""
	}

	if err := uc.courseRepo.IncrementEnrollmentCount(ctx, courseID, 1); err != nil {
		uc.logger.Warnf("failed to bump enrollment count for course %s: %v", courseID, err)
	}
	metrics.EnrollmentsCreated.WithLabelValues(string(entity.EnrollmentTypePaid)).Inc()
	uc.sendEnrollmentEmail(ctx, userID, courseID)
	return ""
}

// sendEnrollmentEmail sends a best-effort confirmation; failures are logged
// and never affect the payment outcome.
func (uc *PaymentUsecase) sendEnrollmentEmail(ctx context.Context, userID, courseID string) {
	if uc.mailService == nil {
		return
	}
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return
	}
	course, err := uc.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return
	}
	subject := "Enrollment confirmed: " + course.Title
	body := fmt.Sprintf("Hi %s,\n\nYour payment was received and you are now enrolled in %q. Happy learning!\n", user.Name, course.Title)
	if err := uc.mailService.SendEmail(ctx, user.Email, subject, body); err != nil {
		uc.logger.Warnf("failed to send enrollment email to %s: %v", user.Email, err)
	}
}

func (uc *PaymentUsecase) failedCallback(gateway, courseID string) usecasecontract.CallbackOutcome {
	metrics.PaymentCallbacks.WithLabelValues(gateway, "failure").Inc()
	return usecasecontract.CallbackOutcome{Succeeded: false, CourseID: courseID}
}

// parseTransactionUUID splits "<courseID>-<userID>-<epochMillis>" where both
// IDs are canonical UUIDs (five dash-separated groups each).
func parseTransactionUUID(transactionUUID string) (courseID, userID string, ok bool) {
	parts := strings.Split(transactionUUID, "-")
	if len(parts) != 11 {
		return "", "", false
	}
	return strings.Join(parts[0:5], "-"), strings.Join(parts[5:10], "-"), true
}
