package entity

import (
	"time"
)

// PaymentGateway names a supported payment provider.
type PaymentGateway string

const (
	PaymentGatewayEsewa  PaymentGateway = "esewa"
	PaymentGatewayKhalti PaymentGateway = "khalti"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records a gateway transaction for a course purchase. Enrollments
// created by a paid flow reference the payment by ID instead of duplicating
// amount and transaction fields on the enrollment itself.
type Payment struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	UserID        string         `bson:"user_id" json:"user_id"`
	CourseID      string         `bson:"course_id" json:"course_id"`
	Gateway       PaymentGateway `bson:"gateway" json:"gateway"`
	TransactionID string         `bson:"transaction_id" json:"transaction_id"`
	Amount        float64        `bson:"amount" json:"amount"`
	Currency      string         `bson:"currency" json:"currency"`
	Status        PaymentStatus  `bson:"status" json:"status"`
	CreatedAt     time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updated_at"`
}
