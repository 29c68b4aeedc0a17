package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/metrics"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// ErrPaidCourse is returned when the free-enrollment path is used for a
// course that costs money.
var ErrPaidCourse = errors.New("paid courses must go through payment")

// ErrNotEnrolled is returned when the user has no enrollment for the course.
var ErrNotEnrolled = errors.New("not enrolled in this course")

// EnrollmentUsecase implements the IEnrollmentUseCase interface.
type EnrollmentUsecase struct {
	enrollmentRepo contract.IEnrollmentRepository
	courseRepo     contract.ICourseRepository
	uuidGenerator  contract.IUUIDGenerator
	logger         usecasecontract.IAppLogger
}

func NewEnrollmentUsecase(
	enrollmentRepo contract.IEnrollmentRepository,
	courseRepo contract.ICourseRepository,
	uuidGenerator contract.IUUIDGenerator,
	logger usecasecontract.IAppLogger,
) *EnrollmentUsecase {
	return &EnrollmentUsecase{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		uuidGenerator:  uuidGenerator,
		logger:         logger,
	}
}

var _ usecasecontract.IEnrollmentUseCase = (*EnrollmentUsecase)(nil)

// EnrollFreeCourse enrolls the user in a free course. Repeated calls
// short-circuit with AlreadyEnrolled; the upsert makes a concurrent
// duplicate impossible.
func (uc *EnrollmentUsecase) EnrollFreeCourse(ctx context.Context, userID, courseID string) (*usecasecontract.EnrollResult, error) {
	course, err := uc.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsFree() {
		return nil, ErrPaidCourse
	}

	enrollment := &entity.Enrollment{
		ID:             uc.uuidGenerator.NewUUID(),
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentType: entity.EnrollmentTypeFree,
		Status:         entity.EnrollmentStatusActive,
		Progress:       0,
	}
	created, stored, err := uc.enrollmentRepo.UpsertEnrollment(ctx, enrollment)
	if err != nil {
		uc.logger.Errorf("failed to enroll user %s in course %s: %v", userID, courseID, err)
		return nil, errors.New(errInternalServer)
	}
	if created {
		if err := uc.courseRepo.IncrementEnrollmentCount(ctx, courseID, 1); err != nil {
			uc.logger.Warnf("failed to bump enrollment count for course %s: %v", courseID, err)
		}
		metrics.EnrollmentsCreated.WithLabelValues(string(entity.EnrollmentTypeFree)).Inc()
	}
	return &usecasecontract.EnrollResult{
		Enrollment:      stored,
		AlreadyEnrolled: !created,
	}, nil
}

// GetEnrolledCourses returns the requesting user's enrollments.
func (uc *EnrollmentUsecase) GetEnrolledCourses(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	enrollments, err := uc.enrollmentRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorf("failed to list enrollments for user %s: %v", userID, err)
		return nil, errors.New(errInternalServer)
	}
	return enrollments, nil
}

// CheckEnrollment reports whether the user is enrolled in the course.
func (uc *EnrollmentUsecase) CheckEnrollment(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	enrollment, err := uc.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, ErrNotEnrolled
	}
	return enrollment, nil
}

// UpdateProgress records a completed lecture and/or a new progress
// percentage. Progress is clamped to [0,100]. Reaching 100 transitions the
// enrollment to completed and stamps completedAt; later calls with 100 do
// not overwrite the stamp.
func (uc *EnrollmentUsecase) UpdateProgress(ctx context.Context, userID, courseID string, lectureID *string, progress *float64) (*entity.Enrollment, error) {
	enrollment, err := uc.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, ErrNotEnrolled
	}

	if lectureID != nil && *lectureID != "" {
		if err := uc.enrollmentRepo.AddCompletedLecture(ctx, enrollment.ID, *lectureID); err != nil {
			uc.logger.Errorf("failed to record completed lecture: %v", err)
			return nil, errors.New(errInternalServer)
		}
	}

	if progress != nil {
		value := clampProgress(*progress)
		updates := map[string]interface{}{"progress": value}
		if value >= 100 && enrollment.CompletedAt == nil {
			now := time.Now()
			updates["status"] = entity.EnrollmentStatusCompleted
			updates["completed_at"] = now
		}
		if err := uc.enrollmentRepo.UpdateEnrollment(ctx, enrollment.ID, updates); err != nil {
			uc.logger.Errorf("failed to update progress: %v", err)
			return nil, errors.New(errInternalServer)
		}
	}

	return uc.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
}

func clampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
