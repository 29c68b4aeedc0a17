package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	"github.com/nepcourses/nepcourses-api/internal/handler/http/dto"
	"github.com/nepcourses/nepcourses-api/internal/usecase"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

type CourseHandler struct {
	courseUsecase usecasecontract.ICourseUseCase
}

func NewCourseHandler(courseUsecase usecasecontract.ICourseUseCase) *CourseHandler {
	return &CourseHandler{
		courseUsecase: courseUsecase,
	}
}

// ListCourses handles the public catalog listing with search and filters
func (h *CourseHandler) ListCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}

	filter := contract.CourseFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Page:     page,
		Limit:    limit,
	}

	courses, total, err := h.courseUsecase.ListPublished(c.Request.Context(), filter)
	if err != nil {
		ErrorHandler(c, http.StatusInternalServerError, "Failed to fetch courses")
		return
	}

	SuccessHandler(c, http.StatusOK, dto.CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// GetCourseDetail handles retrieving a course with its lectures and rating
func (h *CourseHandler) GetCourseDetail(c *gin.Context) {
	courseID := c.Param("courseID")
	detail, err := h.courseUsecase.GetCourseDetail(c.Request.Context(), courseID)
	if err != nil {
		ErrorHandler(c, http.StatusNotFound, "Course not found")
		return
	}
	SuccessHandler(c, http.StatusOK, detail)
}

// CreateCourse handles course creation by an educator
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	course, err := h.courseUsecase.CreateCourse(c.Request.Context(), userID, usecasecontract.CourseInput{
		Title:        req.Title,
		SubTitle:     req.SubTitle,
		Description:  req.Description,
		Category:     req.Category,
		Level:        entity.CourseLevel(req.Level),
		Price:        req.Price,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		ErrorHandler(c, http.StatusBadRequest, err.Error())
		return
	}
	SuccessHandler(c, http.StatusCreated, course)
}

// UpdateCourse handles editing a course
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	course, err := h.courseUsecase.UpdateCourse(c.Request.Context(), userID, c.Param("courseID"), updateCourseRequestToMap(req))
	if err != nil {
		writeCourseError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, course)
}

// DeleteCourse handles removing a course and its lectures
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.courseUsecase.DeleteCourse(c.Request.Context(), userID, c.Param("courseID")); err != nil {
		writeCourseError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Course deleted successfully")
}

// SetPublished handles publishing or unpublishing a course
func (h *CourseHandler) SetPublished(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SetPublishedRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	if err := h.courseUsecase.SetPublished(c.Request.Context(), userID, c.Param("courseID"), *req.IsPublished); err != nil {
		writeCourseError(c, err)
		return
	}
	if *req.IsPublished {
		MessageHandler(c, http.StatusOK, "Course published")
		return
	}
	MessageHandler(c, http.StatusOK, "Course unpublished")
}

// ListMyCourses handles listing the educator's own courses, drafts included
func (h *CourseHandler) ListMyCourses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	courses, err := h.courseUsecase.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		ErrorHandler(c, http.StatusInternalServerError, "Failed to fetch courses")
		return
	}
	SuccessHandler(c, http.StatusOK, courses)
}

// AddLecture handles adding a lecture to a course
func (h *CourseHandler) AddLecture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLectureRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	lecture, err := h.courseUsecase.AddLecture(c.Request.Context(), userID, c.Param("courseID"), usecasecontract.LectureInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoURL:      req.VideoURL,
		Duration:      req.Duration,
		Position:      req.Position,
		IsPreviewFree: req.IsPreviewFree,
	})
	if err != nil {
		writeCourseError(c, err)
		return
	}
	SuccessHandler(c, http.StatusCreated, lecture)
}

// UpdateLecture handles editing a lecture
func (h *CourseHandler) UpdateLecture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLectureRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	lecture, err := h.courseUsecase.UpdateLecture(c.Request.Context(), userID, c.Param("lectureID"), updateLectureRequestToMap(req))
	if err != nil {
		writeCourseError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, lecture)
}

// DeleteLecture handles removing a lecture
func (h *CourseHandler) DeleteLecture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.courseUsecase.DeleteLecture(c.Request.Context(), userID, c.Param("lectureID")); err != nil {
		writeCourseError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Lecture deleted successfully")
}

func writeCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotCourseCreator):
		ErrorHandler(c, http.StatusForbidden, err.Error())
	case errors.Is(err, contract.ErrCourseNotFound), errors.Is(err, contract.ErrLectureNotFound):
		ErrorHandler(c, http.StatusNotFound, err.Error())
	default:
		ErrorHandler(c, http.StatusBadRequest, err.Error())
	}
}

func updateCourseRequestToMap(req dto.UpdateCourseRequest) map[string]interface{} {
	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.SubTitle != nil {
		updates["sub_title"] = *req.SubTitle
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}

	return updates
}

func updateLectureRequestToMap(req dto.UpdateLectureRequest) map[string]interface{} {
	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.VideoURL != nil {
		updates["video_url"] = *req.VideoURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.IsPreviewFree != nil {
		updates["is_preview_free"] = *req.IsPreviewFree
	}

	return updates
}
