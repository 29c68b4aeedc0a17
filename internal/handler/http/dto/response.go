package dto

import (
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
)

// UserResponse is the DTO for a user.
type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	PhotoURL    *string `json:"photo_url"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// LoginResponse is the DTO for a successful login.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// converts an entity.User to a UserResponse DTO.
func ToUserResponse(user entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        string(user.Role),
		PhotoURL:    user.PhotoURL,
		Description: user.Description,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

// CourseListResponse is a paginated page of published courses.
type CourseListResponse struct {
	Courses []entity.Course `json:"courses"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// MessageResponse is a generic response for success/error messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
