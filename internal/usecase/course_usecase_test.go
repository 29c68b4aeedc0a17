package usecase

import (
	"context"
	"testing"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const educatorID = "educator-1"

func newCourseTestUsecase() (*CourseUsecase, *fakeCourseRepo, *fakeLectureRepo) {
	courseRepo := newFakeCourseRepo()
	lectureRepo := newFakeLectureRepo()
	uc := NewCourseUsecase(courseRepo, lectureRepo, newFakeReviewRepo(), &fakeUUIDGen{}, fakeLogger{})
	return uc, courseRepo, lectureRepo
}

func TestCreateCourse(t *testing.T) {
	uc, courseRepo, _ := newCourseTestUsecase()

	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title:    "Go from Zero",
		Category: "programming",
		Price:    1500,
	})
	require.NoError(t, err)
	assert.Equal(t, educatorID, course.CreatorID)
	// courses start as drafts and default to beginner level
	assert.False(t, course.IsPublished)
	assert.Equal(t, entity.CourseLevelBeginner, course.Level)
	assert.Len(t, courseRepo.Courses, 1)
}

func TestCreateCourse_Invalid(t *testing.T) {
	uc, _, _ := newCourseTestUsecase()

	_, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{Category: "programming"})
	assert.Error(t, err)

	_, err = uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming", Price: -1,
	})
	assert.Error(t, err)
}

func TestUpdateCourse_OnlyCreator(t *testing.T) {
	uc, _, _ := newCourseTestUsecase()
	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming",
	})
	require.NoError(t, err)

	_, err = uc.UpdateCourse(context.Background(), "someone-else", course.ID, map[string]interface{}{"title": "Hijacked"})
	assert.ErrorIs(t, err, ErrNotCourseCreator)

	_, err = uc.UpdateCourse(context.Background(), educatorID, course.ID, map[string]interface{}{"title": "Go from Zero, 2nd ed."})
	require.NoError(t, err)
}

func TestUpdateCourse_IgnoresProtectedFields(t *testing.T) {
	uc, _, _ := newCourseTestUsecase()
	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming",
	})
	require.NoError(t, err)

	// creator_id and enrollment_count are not updatable through this path
	updated, err := uc.UpdateCourse(context.Background(), educatorID, course.ID, map[string]interface{}{
		"creator_id":       "someone-else",
		"enrollment_count": int64(9999),
	})
	require.NoError(t, err)
	assert.Equal(t, educatorID, updated.CreatorID)
	assert.Equal(t, int64(0), updated.EnrollmentCount)
}

func TestDeleteCourse_RemovesLectures(t *testing.T) {
	uc, courseRepo, lectureRepo := newCourseTestUsecase()
	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming",
	})
	require.NoError(t, err)

	_, err = uc.AddLecture(context.Background(), educatorID, course.ID, usecasecontract.LectureInput{Title: "Hello World"})
	require.NoError(t, err)
	require.Len(t, lectureRepo.Lectures, 1)

	require.NoError(t, uc.DeleteCourse(context.Background(), educatorID, course.ID))
	assert.Empty(t, courseRepo.Courses)
	assert.Empty(t, lectureRepo.Lectures)
}

func TestAddLecture_OnlyCreator(t *testing.T) {
	uc, _, _ := newCourseTestUsecase()
	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming",
	})
	require.NoError(t, err)

	_, err = uc.AddLecture(context.Background(), "someone-else", course.ID, usecasecontract.LectureInput{Title: "Hello World"})
	assert.ErrorIs(t, err, ErrNotCourseCreator)
}

func TestGetCourseDetail(t *testing.T) {
	uc, _, _ := newCourseTestUsecase()
	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming",
	})
	require.NoError(t, err)
	_, err = uc.AddLecture(context.Background(), educatorID, course.ID, usecasecontract.LectureInput{Title: "Hello World", Position: 1})
	require.NoError(t, err)

	detail, err := uc.GetCourseDetail(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, detail.Course.ID)
	assert.Len(t, detail.Lectures, 1)
	assert.Equal(t, 0.0, detail.AverageRating)
}

func TestSetPublished(t *testing.T) {
	uc, courseRepo, _ := newCourseTestUsecase()
	course, err := uc.CreateCourse(context.Background(), educatorID, usecasecontract.CourseInput{
		Title: "Go from Zero", Category: "programming",
	})
	require.NoError(t, err)

	err = uc.SetPublished(context.Background(), "someone-else", course.ID, true)
	assert.ErrorIs(t, err, ErrNotCourseCreator)

	require.NoError(t, uc.SetPublished(context.Background(), educatorID, course.ID, true))
	_ = courseRepo
}
