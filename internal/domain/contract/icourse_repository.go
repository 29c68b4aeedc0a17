package contract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// CourseFilter narrows published-course listings.
type CourseFilter struct {
	Search   string
	Category string
	Level    string
	Page     int
	Limit    int
}

type ICourseRepository interface {
	CreateCourse(ctx context.Context, course *entity.Course) error
	GetCourseByID(ctx context.Context, id string) (*entity.Course, error)
	// UpdateCourse applies the given field updates to a course.
	UpdateCourse(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteCourse(ctx context.Context, id string) error
	// ListPublished returns published courses matching the filter plus the
	// total match count for pagination.
	ListPublished(ctx context.Context, filter CourseFilter) ([]entity.Course, int64, error)
	// ListByCreator returns every course owned by an educator, published or not.
	ListByCreator(ctx context.Context, creatorID string) ([]entity.Course, error)
	// IncrementEnrollmentCount bumps the denormalized enrollment counter.
	IncrementEnrollmentCount(ctx context.Context, id string, delta int64) error
}
