package usecasecontract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// EnrollResult reports the outcome of a free-enrollment request. A repeated
// call for the same (user, course) pair is not an error; it short-circuits
// with AlreadyEnrolled set.
type EnrollResult struct {
	Enrollment      *entity.Enrollment `json:"enrollment"`
	AlreadyEnrolled bool               `json:"already_enrolled"`
}

type IEnrollmentUseCase interface {
	EnrollFreeCourse(ctx context.Context, userID, courseID string) (*EnrollResult, error)
	GetEnrolledCourses(ctx context.Context, userID string) ([]entity.Enrollment, error)
	CheckEnrollment(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	// UpdateProgress appends a completed lecture and/or sets the progress
	// percentage. Progress is clamped to [0,100]; reaching 100 transitions
	// the enrollment to completed and stamps completedAt exactly once.
	UpdateProgress(ctx context.Context, userID, courseID string, lectureID *string, progress *float64) (*entity.Enrollment, error)
}
