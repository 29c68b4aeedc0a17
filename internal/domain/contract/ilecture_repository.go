package contract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

type ILectureRepository interface {
	CreateLecture(ctx context.Context, lecture *entity.Lecture) error
	GetLectureByID(ctx context.Context, id string) (*entity.Lecture, error)
	UpdateLecture(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteLecture(ctx context.Context, id string) error
	// ListByCourse returns a course's lectures ordered by position.
	ListByCourse(ctx context.Context, courseID string) ([]entity.Lecture, error)
	// DeleteByCourse removes all lectures of a course (used on course deletion).
	DeleteByCourse(ctx context.Context, courseID string) error
}
