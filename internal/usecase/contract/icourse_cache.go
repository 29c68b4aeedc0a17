package usecasecontract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// CachedCoursesPage is the cached payload for catalog list endpoints.
type CachedCoursesPage struct {
	Courses []entity.Course `json:"courses"`
	Total   int64           `json:"total"`
}

// ICourseCache defines caching operations for the published-course catalog.
type ICourseCache interface {
	// Detail (by id)
	GetCourseByID(ctx context.Context, id string) (*entity.Course, bool, error)
	SetCourseByID(ctx context.Context, id string, course *entity.Course) error
	InvalidateCourseByID(ctx context.Context, id string) error

	// List pages (key built by usecase)
	GetCoursesPage(ctx context.Context, key string) (*CachedCoursesPage, bool, error)
	SetCoursesPage(ctx context.Context, key string, page *CachedCoursesPage) error
	InvalidateCourseLists(ctx context.Context) error
}
