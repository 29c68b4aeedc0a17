package contract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

type IPaymentRepository interface {
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status entity.PaymentStatus) error
	// TotalRevenueByCourseIDs sums completed payment amounts across courses.
	TotalRevenueByCourseIDs(ctx context.Context, courseIDs []string) (float64, error)
}
