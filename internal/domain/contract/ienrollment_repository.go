package contract

import (
	"context"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// CourseEnrollmentCount pairs a course with its enrollment total.
type CourseEnrollmentCount struct {
	CourseID string `bson:"_id"`
	Count    int64  `bson:"count"`
}

type IEnrollmentRepository interface {
	// UpsertEnrollment atomically creates the enrollment if no document exists
	// for its (user, course) pair. It reports whether a new document was
	// inserted; when one already existed the stored enrollment is returned
	// unchanged. Backed by a unique compound index, so a concurrent duplicate
	// write cannot slip through.
	UpsertEnrollment(ctx context.Context, enrollment *entity.Enrollment) (created bool, existing *entity.Enrollment, err error)
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	// ListActiveByUser returns the requesting user's active and completed
	// enrollments.
	ListActiveByUser(ctx context.Context, userID string) ([]entity.Enrollment, error)
	// UpdateEnrollment applies the given field updates to an enrollment.
	UpdateEnrollment(ctx context.Context, id string, updates map[string]interface{}) error
	// AddCompletedLecture appends a lecture to the completed set, deduplicated
	// at the database level.
	AddCompletedLecture(ctx context.Context, id, lectureID string) error
	// CountByCourseIDs aggregates enrollment totals per course.
	CountByCourseIDs(ctx context.Context, courseIDs []string) ([]CourseEnrollmentCount, error)
	// EnsureIndexes creates the unique (user_id, course_id) index.
	EnsureIndexes(ctx context.Context) error
}
