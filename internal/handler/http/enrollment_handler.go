package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/handler/http/dto"
	"github.com/nepcourses/nepcourses-api/internal/usecase"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

type EnrollmentHandler struct {
	enrollmentUsecase usecasecontract.IEnrollmentUseCase
}

func NewEnrollmentHandler(enrollmentUsecase usecasecontract.IEnrollmentUseCase) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentUsecase: enrollmentUsecase,
	}
}

// EnrollFreeCourse handles direct enrollment into a free course. Repeating
// the request for the same course is not an error.
func (h *EnrollmentHandler) EnrollFreeCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentUsecase.EnrollFreeCourse(c.Request.Context(), userID, c.Param("courseID"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaidCourse):
			ErrorHandler(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, contract.ErrCourseNotFound):
			ErrorHandler(c, http.StatusNotFound, err.Error())
		default:
			ErrorHandler(c, http.StatusInternalServerError, "Failed to enroll")
		}
		return
	}

	if result.AlreadyEnrolled {
		SuccessHandler(c, http.StatusOK, result)
		return
	}
	SuccessHandler(c, http.StatusCreated, result)
}

// GetEnrolledCourses handles listing the current user's enrollments
func (h *EnrollmentHandler) GetEnrolledCourses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentUsecase.GetEnrolledCourses(c.Request.Context(), userID)
	if err != nil {
		ErrorHandler(c, http.StatusInternalServerError, "Failed to fetch enrolled courses")
		return
	}
	SuccessHandler(c, http.StatusOK, enrollments)
}

// CheckEnrollment handles checking whether the current user is enrolled in a course
func (h *EnrollmentHandler) CheckEnrollment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentUsecase.CheckEnrollment(c.Request.Context(), userID, c.Param("courseID"))
	if err != nil {
		SuccessHandler(c, http.StatusOK, gin.H{"enrolled": false})
		return
	}
	SuccessHandler(c, http.StatusOK, gin.H{"enrolled": true, "enrollment": enrollment})
}

// UpdateProgress handles marking lectures complete and moving the progress bar
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	if req.LectureID == nil && req.Progress == nil {
		ErrorHandler(c, http.StatusBadRequest, "lecture_id or progress required")
		return
	}

	enrollment, err := h.enrollmentUsecase.UpdateProgress(c.Request.Context(), userID, c.Param("courseID"), req.LectureID, req.Progress)
	if err != nil {
		if errors.Is(err, usecase.ErrNotEnrolled) {
			ErrorHandler(c, http.StatusForbidden, err.Error())
			return
		}
		ErrorHandler(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}
	SuccessHandler(c, http.StatusOK, enrollment)
}
