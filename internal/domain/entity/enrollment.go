package entity

import (
	"time"
)

// EnrollmentType distinguishes free enrollments from ones backed by a payment.
type EnrollmentType string

const (
	EnrollmentTypeFree EnrollmentType = "free"
	EnrollmentTypePaid EnrollmentType = "paid"
)

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// Enrollment links a user to a course they have access to and tracks their
// progress through it. At most one enrollment may exist per (user, course)
// pair; the enrollments collection carries a unique compound index on
// (user_id, course_id) and all creation paths go through an upsert.
type Enrollment struct {
	ID                string           `bson:"_id,omitempty" json:"id"`
	UserID            string           `bson:"user_id" json:"user_id"`
	CourseID          string           `bson:"course_id" json:"course_id"`
	EnrollmentType    EnrollmentType   `bson:"enrollment_type" json:"enrollment_type"`
	PaymentID         *string          `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	Status            EnrollmentStatus `bson:"status" json:"status"`
	Progress          float64          `bson:"progress" json:"progress"`
	CompletedLectures []string         `bson:"completed_lectures" json:"completed_lectures"`
	CompletedAt       *time.Time       `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	ExpiresAt         *time.Time       `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt         time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `bson:"updated_at" json:"updated_at"`
}
