package mocks

import (
	"context"
	"errors"

	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// MockPaymentUsecase is a mock implementation of the IPaymentUseCase interface
type MockPaymentUsecase struct {
	// Control mock behavior
	ShouldFailInitiate bool
	InitiateErr        error
	CallbackSucceeds   bool
	CallbackWarning    string

	// Return values
	MockPaymentURL string

	// Captured arguments
	LastCourseID string
	LastGateway  string
	LastAmount   float64
	LastData     string
	LastPidx     string
}

var _ usecasecontract.IPaymentUseCase = (*MockPaymentUsecase)(nil)

func NewMockPaymentUsecase() *MockPaymentUsecase {
	return &MockPaymentUsecase{
		CallbackSucceeds: true,
		MockPaymentURL:   "https://pay.example.com/checkout",
	}
}

func (m *MockPaymentUsecase) InitiateCoursePayment(ctx context.Context, userID, courseID, gateway string, amount float64) (*usecasecontract.InitiatePaymentResult, error) {
	m.LastCourseID = courseID
	m.LastGateway = gateway
	m.LastAmount = amount
	if m.InitiateErr != nil {
		return nil, m.InitiateErr
	}
	if m.ShouldFailInitiate {
		return nil, errors.New("payment initiation failed")
	}
	if amount == 0 {
		return &usecasecontract.InitiatePaymentResult{EnrollmentType: "free"}, nil
	}
	return &usecasecontract.InitiatePaymentResult{PaymentURL: m.MockPaymentURL}, nil
}

func (m *MockPaymentUsecase) HandleEsewaCallback(ctx context.Context, data string, params usecasecontract.EsewaCallbackParams) usecasecontract.CallbackOutcome {
	m.LastData = data
	m.LastCourseID = params.CourseID
	return usecasecontract.CallbackOutcome{
		Succeeded: m.CallbackSucceeds,
		Warning:   m.CallbackWarning,
		CourseID:  params.CourseID,
	}
}

func (m *MockPaymentUsecase) HandleKhaltiReturn(ctx context.Context, pidx, courseID, userID string) usecasecontract.CallbackOutcome {
	m.LastPidx = pidx
	m.LastCourseID = courseID
	return usecasecontract.CallbackOutcome{
		Succeeded: m.CallbackSucceeds,
		Warning:   m.CallbackWarning,
		CourseID:  courseID,
	}
}
