package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	"github.com/nepcourses/nepcourses-api/internal/handler/http/dto"
	"github.com/nepcourses/nepcourses-api/internal/usecase"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

type ReviewHandler struct {
	reviewUsecase usecasecontract.IReviewUseCase
}

func NewReviewHandler(reviewUsecase usecasecontract.IReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
	}
}

// CreateReview handles posting a review on an enrolled course
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	review, err := h.reviewUsecase.CreateReview(c.Request.Context(), userID, c.Param("courseID"), req.Rating, req.Comment)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	SuccessHandler(c, http.StatusCreated, review)
}

// UpdateReview handles editing the caller's own review
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	review, err := h.reviewUsecase.UpdateReview(c.Request.Context(), userID, c.Param("reviewID"), req.Rating, req.Comment)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, review)
}

// DeleteReview handles removing a review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, _ := c.Get("userRole")
	userRole, _ := role.(entity.UserRole)

	if err := h.reviewUsecase.DeleteReview(c.Request.Context(), userID, userRole, c.Param("reviewID")); err != nil {
		writeReviewError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Review deleted successfully")
}

// GetCourseReviews handles listing a course's reviews with its rating summary
func (h *ReviewHandler) GetCourseReviews(c *gin.Context) {
	reviews, err := h.reviewUsecase.GetCourseReviews(c.Request.Context(), c.Param("courseID"))
	if err != nil {
		if errors.Is(err, contract.ErrCourseNotFound) {
			ErrorHandler(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorHandler(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	SuccessHandler(c, http.StatusOK, reviews)
}

func writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotEnrolledForReview), errors.Is(err, usecase.ErrNotReviewAuthor):
		ErrorHandler(c, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrReviewExists):
		ErrorHandler(c, http.StatusConflict, err.Error())
	case errors.Is(err, contract.ErrCourseNotFound), errors.Is(err, contract.ErrReviewNotFound):
		ErrorHandler(c, http.StatusNotFound, err.Error())
	default:
		ErrorHandler(c, http.StatusBadRequest, err.Error())
	}
}
