package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// ErrNotCourseCreator is returned when a user tries to mutate a course they
// do not own.
var ErrNotCourseCreator = errors.New("only the course creator may do this")

// CourseUsecase implements the ICourseUseCase interface.
type CourseUsecase struct {
	courseRepo    contract.ICourseRepository
	lectureRepo   contract.ILectureRepository
	reviewRepo    contract.IReviewRepository
	uuidGenerator contract.IUUIDGenerator
	logger        usecasecontract.IAppLogger
	cache         usecasecontract.ICourseCache
}

func NewCourseUsecase(
	courseRepo contract.ICourseRepository,
	lectureRepo contract.ILectureRepository,
	reviewRepo contract.IReviewRepository,
	uuidGenerator contract.IUUIDGenerator,
	logger usecasecontract.IAppLogger,
) *CourseUsecase {
	return &CourseUsecase{
		courseRepo:    courseRepo,
		lectureRepo:   lectureRepo,
		reviewRepo:    reviewRepo,
		uuidGenerator: uuidGenerator,
		logger:        logger,
	}
}

var _ usecasecontract.ICourseUseCase = (*CourseUsecase)(nil)

// SetCourseCache attaches an optional redis-backed catalog cache.
func (uc *CourseUsecase) SetCourseCache(cache usecasecontract.ICourseCache) {
	uc.cache = cache
}

func (uc *CourseUsecase) CreateCourse(ctx context.Context, creatorID string, input usecasecontract.CourseInput) (*entity.Course, error) {
	if input.Title == "" || input.Category == "" {
		return nil, errors.New("title and category are required")
	}
	if input.Price < 0 {
		return nil, errors.New("price cannot be negative")
	}
	level := input.Level
	if level == "" {
		level = entity.CourseLevelBeginner
	}

	now := time.Now()
	course := &entity.Course{
		ID:           uc.uuidGenerator.NewUUID(),
		Title:        input.Title,
		SubTitle:     input.SubTitle,
		Description:  input.Description,
		Category:     input.Category,
		Level:        level,
		Price:        input.Price,
		ThumbnailURL: input.ThumbnailURL,
		CreatorID:    creatorID,
		IsPublished:  false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.courseRepo.CreateCourse(ctx, course); err != nil {
		uc.logger.Errorf("failed to create course: %v", err)
		return nil, errors.New(errInternalServer)
	}
	return course, nil
}

func (uc *CourseUsecase) UpdateCourse(ctx context.Context, userID, courseID string, updates map[string]interface{}) (*entity.Course, error) {
	course, err := uc.requireCreator(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{
		"title": true, "sub_title": true, "description": true, "category": true,
		"level": true, "price": true, "thumbnail_url": true,
	}
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return course, nil
	}
	if price, ok := filtered["price"].(float64); ok && price < 0 {
		return nil, errors.New("price cannot be negative")
	}

	if err := uc.courseRepo.UpdateCourse(ctx, courseID, filtered); err != nil {
		uc.logger.Errorf("failed to update course %s: %v", courseID, err)
		return nil, errors.New(errInternalServer)
	}
	uc.invalidateCache(ctx, courseID)
	return uc.courseRepo.GetCourseByID(ctx, courseID)
}

// DeleteCourse removes a course and its lectures. Only the creator may
// delete.
func (uc *CourseUsecase) DeleteCourse(ctx context.Context, userID, courseID string) error {
	if _, err := uc.requireCreator(ctx, userID, courseID); err != nil {
		return err
	}
	if err := uc.lectureRepo.DeleteByCourse(ctx, courseID); err != nil {
		uc.logger.Errorf("failed to delete lectures of course %s: %v", courseID, err)
		return errors.New(errInternalServer)
	}
	if err := uc.courseRepo.DeleteCourse(ctx, courseID); err != nil {
		uc.logger.Errorf("failed to delete course %s: %v", courseID, err)
		return errors.New(errInternalServer)
	}
	uc.invalidateCache(ctx, courseID)
	return nil
}

func (uc *CourseUsecase) SetPublished(ctx context.Context, userID, courseID string, published bool) error {
	if _, err := uc.requireCreator(ctx, userID, courseID); err != nil {
		return err
	}
	if err := uc.courseRepo.UpdateCourse(ctx, courseID, map[string]interface{}{"is_published": published}); err != nil {
		uc.logger.Errorf("failed to set published on course %s: %v", courseID, err)
		return errors.New(errInternalServer)
	}
	uc.invalidateCache(ctx, courseID)
	return nil
}

// ListPublished returns a catalog page, served from cache when available.
func (uc *CourseUsecase) ListPublished(ctx context.Context, filter contract.CourseFilter) ([]entity.Course, int64, error) {
	key := fmt.Sprintf("courses:list:q=%s:c=%s:l=%s:p=%d:n=%d",
		filter.Search, filter.Category, filter.Level, filter.Page, filter.Limit)

	if uc.cache != nil {
		if page, ok, err := uc.cache.GetCoursesPage(ctx, key); err == nil && ok {
			return page.Courses, page.Total, nil
		}
	}

	courses, total, err := uc.courseRepo.ListPublished(ctx, filter)
	if err != nil {
		uc.logger.Errorf("failed to list published courses: %v", err)
		return nil, 0, errors.New(errInternalServer)
	}

	if uc.cache != nil {
		if err := uc.cache.SetCoursesPage(ctx, key, &usecasecontract.CachedCoursesPage{Courses: courses, Total: total}); err != nil {
			uc.logger.Warnf("failed to cache course page: %v", err)
		}
	}
	return courses, total, nil
}

func (uc *CourseUsecase) GetCourseDetail(ctx context.Context, courseID string) (*usecasecontract.CourseDetail, error) {
	var course *entity.Course
	if uc.cache != nil {
		if cached, ok, err := uc.cache.GetCourseByID(ctx, courseID); err == nil && ok {
			course = cached
		}
	}
	if course == nil {
		fetched, err := uc.courseRepo.GetCourseByID(ctx, courseID)
		if err != nil {
			return nil, err
		}
		course = fetched
		if uc.cache != nil {
			if err := uc.cache.SetCourseByID(ctx, courseID, course); err != nil {
				uc.logger.Warnf("failed to cache course %s: %v", courseID, err)
			}
		}
	}

	lectures, err := uc.lectureRepo.ListByCourse(ctx, courseID)
	if err != nil {
		uc.logger.Errorf("failed to list lectures for course %s: %v", courseID, err)
		return nil, errors.New(errInternalServer)
	}
	average, count, err := uc.reviewRepo.AverageRatingByCourse(ctx, courseID)
	if err != nil {
		uc.logger.Warnf("failed to aggregate ratings for course %s: %v", courseID, err)
	}

	return &usecasecontract.CourseDetail{
		Course:        *course,
		Lectures:      lectures,
		AverageRating: average,
		ReviewCount:   count,
	}, nil
}

func (uc *CourseUsecase) ListByCreator(ctx context.Context, creatorID string) ([]entity.Course, error) {
	courses, err := uc.courseRepo.ListByCreator(ctx, creatorID)
	if err != nil {
		uc.logger.Errorf("failed to list creator courses: %v", err)
		return nil, errors.New(errInternalServer)
	}
	return courses, nil
}

func (uc *CourseUsecase) AddLecture(ctx context.Context, userID, courseID string, input usecasecontract.LectureInput) (*entity.Lecture, error) {
	if _, err := uc.requireCreator(ctx, userID, courseID); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, errors.New("lecture title is required")
	}

	now := time.Now()
	lecture := &entity.Lecture{
		ID:            uc.uuidGenerator.NewUUID(),
		CourseID:      courseID,
		Title:         input.Title,
		Description:   input.Description,
		VideoURL:      input.VideoURL,
		Duration:      input.Duration,
		Position:      input.Position,
		IsPreviewFree: input.IsPreviewFree,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.lectureRepo.CreateLecture(ctx, lecture); err != nil {
		uc.logger.Errorf("failed to create lecture: %v", err)
		return nil, errors.New(errInternalServer)
	}
	return lecture, nil
}

func (uc *CourseUsecase) UpdateLecture(ctx context.Context, userID, lectureID string, updates map[string]interface{}) (*entity.Lecture, error) {
	lecture, err := uc.lectureRepo.GetLectureByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.requireCreator(ctx, userID, lecture.CourseID); err != nil {
		return nil, err
	}

	allowed := map[string]bool{
		"title": true, "description": true, "video_url": true,
		"duration": true, "position": true, "is_preview_free": true,
	}
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return lecture, nil
	}

	if err := uc.lectureRepo.UpdateLecture(ctx, lectureID, filtered); err != nil {
		uc.logger.Errorf("failed to update lecture %s: %v", lectureID, err)
		return nil, errors.New(errInternalServer)
	}
	return uc.lectureRepo.GetLectureByID(ctx, lectureID)
}

func (uc *CourseUsecase) DeleteLecture(ctx context.Context, userID, lectureID string) error {
	lecture, err := uc.lectureRepo.GetLectureByID(ctx, lectureID)
	if err != nil {
		return err
	}
	if _, err := uc.requireCreator(ctx, userID, lecture.CourseID); err != nil {
		return err
	}
	if err := uc.lectureRepo.DeleteLecture(ctx, lectureID); err != nil {
		uc.logger.Errorf("failed to delete lecture %s: %v", lectureID, err)
		return errors.New(errInternalServer)
	}
	return nil
}

// requireCreator loads the course and checks ownership.
func (uc *CourseUsecase) requireCreator(ctx context.Context, userID, courseID string) (*entity.Course, error) {
	course, err := uc.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatorID != userID {
		return nil, ErrNotCourseCreator
	}
	return course, nil
}

func (uc *CourseUsecase) invalidateCache(ctx context.Context, courseID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateCourseByID(ctx, courseID); err != nil {
		uc.logger.Warnf("failed to invalidate course cache: %v", err)
	}
	if err := uc.cache.InvalidateCourseLists(ctx); err != nil {
		uc.logger.Warnf("failed to invalidate course list cache: %v", err)
	}
}
