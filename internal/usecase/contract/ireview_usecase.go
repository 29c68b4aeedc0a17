package usecasecontract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// CourseReviews bundles a course's reviews with its rating summary.
type CourseReviews struct {
	Reviews       []entity.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
}

type IReviewUseCase interface {
	CreateReview(ctx context.Context, userID, courseID string, rating int, comment string) (*entity.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID string, rating int, comment string) (*entity.Review, error)
	DeleteReview(ctx context.Context, userID string, role entity.UserRole, reviewID string) error
	GetCourseReviews(ctx context.Context, courseID string) (*CourseReviews, error)
}
