package usecasecontract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// CourseDetail bundles a course with its lectures and rating summary.
type CourseDetail struct {
	Course        entity.Course    `json:"course"`
	Lectures      []entity.Lecture `json:"lectures"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
}

// CourseInput carries the mutable course fields.
type CourseInput struct {
	Title        string
	SubTitle     *string
	Description  *string
	Category     string
	Level        entity.CourseLevel
	Price        float64
	ThumbnailURL *string
}

// LectureInput carries the mutable lecture fields.
type LectureInput struct {
	Title         string
	Description   *string
	VideoURL      *string
	Duration      float64
	Position      int
	IsPreviewFree bool
}

type ICourseUseCase interface {
	CreateCourse(ctx context.Context, creatorID string, input CourseInput) (*entity.Course, error)
	UpdateCourse(ctx context.Context, userID, courseID string, updates map[string]interface{}) (*entity.Course, error)
	DeleteCourse(ctx context.Context, userID, courseID string) error
	SetPublished(ctx context.Context, userID, courseID string, published bool) error
	ListPublished(ctx context.Context, filter contract.CourseFilter) ([]entity.Course, int64, error)
	GetCourseDetail(ctx context.Context, courseID string) (*CourseDetail, error)
	ListByCreator(ctx context.Context, creatorID string) ([]entity.Course, error)

	AddLecture(ctx context.Context, userID, courseID string, input LectureInput) (*entity.Lecture, error)
	UpdateLecture(ctx context.Context, userID, lectureID string, updates map[string]interface{}) (*entity.Lecture, error)
	DeleteLecture(ctx context.Context, userID, lectureID string) error
}
