package usecasecontract

import (
	"context"
)

// InitiatePaymentResult is the answer to a payment initiation request.
// For amount 0 EnrollmentType is "free" and no gateway was contacted;
// otherwise PaymentURL points the browser at the gateway.
type InitiatePaymentResult struct {
	EnrollmentType string `json:"enrollment_type,omitempty"`
	PaymentURL     string `json:"payment_url,omitempty"`
}

// EsewaCallbackParams are the bare query parameters an eSewa callback may
// carry when no base64 data payload is present.
type EsewaCallbackParams struct {
	CourseID        string
	UserID          string
	TransactionUUID string
	TotalAmount     string
}

// CallbackOutcome is the typed result of a gateway callback: success,
// partial success (payment confirmed but enrollment record failed, carried
// as a warning), or failure. The handler turns it into a browser redirect.
type CallbackOutcome struct {
	Succeeded bool
	Warning   string
	CourseID  string
}

type IPaymentUseCase interface {
	InitiateCoursePayment(ctx context.Context, userID, courseID, gateway string, amount float64) (*InitiatePaymentResult, error)
	// HandleEsewaCallback authenticates and re-verifies an eSewa redirect,
	// then grants the enrollment idempotently.
	HandleEsewaCallback(ctx context.Context, data string, params EsewaCallbackParams) CallbackOutcome
	// HandleKhaltiReturn polls the lookup endpoint until a terminal state or
	// the retry budget runs out.
	HandleKhaltiReturn(ctx context.Context, pidx, courseID, userID string) CallbackOutcome
}
