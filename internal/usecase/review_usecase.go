package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

var (
	// ErrNotEnrolledForReview is returned when a user reviews a course they
	// never enrolled in.
	ErrNotEnrolledForReview = errors.New("only enrolled students can review a course")
	// ErrReviewExists is returned when a user already reviewed the course.
	ErrReviewExists = errors.New("you have already reviewed this course")
	// ErrNotReviewAuthor is returned when a user touches someone else's review.
	ErrNotReviewAuthor = errors.New("you are not the author of this review")
)

// ReviewUsecase handles course reviews and their rating aggregates.
type ReviewUsecase struct {
	reviewRepo     contract.IReviewRepository
	enrollmentRepo contract.IEnrollmentRepository
	courseRepo     contract.ICourseRepository
	uuidGenerator  contract.IUUIDGenerator
	validator      usecasecontract.IValidator
	logger         usecasecontract.IAppLogger
}

func NewReviewUsecase(
	reviewRepo contract.IReviewRepository,
	enrollmentRepo contract.IEnrollmentRepository,
	courseRepo contract.ICourseRepository,
	uuidGenerator contract.IUUIDGenerator,
	validator usecasecontract.IValidator,
	logger usecasecontract.IAppLogger,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:     reviewRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		uuidGenerator:  uuidGenerator,
		validator:      validator,
		logger:         logger,
	}
}

var _ usecasecontract.IReviewUseCase = (*ReviewUsecase)(nil)

// CreateReview adds a review for a course the user is enrolled in. One
// review per user per course.
func (uc *ReviewUsecase) CreateReview(ctx context.Context, userID, courseID string, rating int, comment string) (*entity.Review, error) {
	if err := uc.validator.ValidateReview(rating, comment); err != nil {
		return nil, err
	}
	if _, err := uc.courseRepo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	if _, err := uc.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID); err != nil {
		return nil, ErrNotEnrolledForReview
	}
	if existing, err := uc.reviewRepo.GetByUserAndCourse(ctx, userID, courseID); err == nil && existing != nil {
		return nil, ErrReviewExists
	}

	now := time.Now()
	review := &entity.Review{
		ID:         uc.uuidGenerator.NewUUID(),
		UserID:     userID,
		CourseID:   courseID,
		Rating:     rating,
		Comment:    comment,
		ReviewedAt: now,
		UpdatedAt:  now,
	}
	if err := uc.reviewRepo.CreateReview(ctx, review); err != nil {
		uc.logger.Errorf("failed to create review: %v", err)
		return nil, errors.New(errInternalServer)
	}
	return review, nil
}

// UpdateReview edits the caller's own review.
func (uc *ReviewUsecase) UpdateReview(ctx context.Context, userID, reviewID string, rating int, comment string) (*entity.Review, error) {
	if err := uc.validator.ValidateReview(rating, comment); err != nil {
		return nil, err
	}
	review, err := uc.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotReviewAuthor
	}

	updates := map[string]interface{}{
		"rating":     rating,
		"comment":    comment,
		"updated_at": time.Now(),
	}
	if err := uc.reviewRepo.UpdateReview(ctx, reviewID, updates); err != nil {
		uc.logger.Errorf("failed to update review %s: %v", reviewID, err)
		return nil, errors.New(errInternalServer)
	}
	review.Rating = rating
	review.Comment = comment
	return review, nil
}

// DeleteReview removes a review. Authors delete their own; admins delete any.
func (uc *ReviewUsecase) DeleteReview(ctx context.Context, userID string, role entity.UserRole, reviewID string) error {
	review, err := uc.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && role != entity.UserRoleAdmin {
		return ErrNotReviewAuthor
	}
	return uc.reviewRepo.DeleteReview(ctx, reviewID)
}

// GetCourseReviews lists a course's reviews together with the rating summary.
func (uc *ReviewUsecase) GetCourseReviews(ctx context.Context, courseID string) (*usecasecontract.CourseReviews, error) {
	if _, err := uc.courseRepo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	reviews, err := uc.reviewRepo.ListByCourse(ctx, courseID)
	if err != nil {
		uc.logger.Errorf("failed to list reviews for course %s: %v", courseID, err)
		return nil, errors.New(errInternalServer)
	}
	avg, count, err := uc.reviewRepo.AverageRatingByCourse(ctx, courseID)
	if err != nil {
		uc.logger.Errorf("failed to aggregate rating for course %s: %v", courseID, err)
		return nil, errors.New(errInternalServer)
	}
	return &usecasecontract.CourseReviews{
		Reviews:       reviews,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}
