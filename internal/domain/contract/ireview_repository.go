package contract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

type IReviewRepository interface {
	CreateReview(ctx context.Context, review *entity.Review) error
	GetReviewByID(ctx context.Context, id string) (*entity.Review, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Review, error)
	UpdateReview(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteReview(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]entity.Review, error)
	// AverageRatingByCourse returns the mean rating and review count.
	AverageRatingByCourse(ctx context.Context, courseID string) (float64, int64, error)
}
