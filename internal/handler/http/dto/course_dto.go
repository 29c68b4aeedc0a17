package dto

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title        string  `json:"title" binding:"required"`
	SubTitle     *string `json:"sub_title"`
	Description  *string `json:"description"`
	Category     string  `json:"category" binding:"required"`
	Level        string  `json:"level" binding:"required,courselevel"`
	Price        float64 `json:"price" binding:"gte=0"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// UpdateCourseRequest carries optional course fields; nil means unchanged.
type UpdateCourseRequest struct {
	Title        *string  `json:"title"`
	SubTitle     *string  `json:"sub_title"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Level        *string  `json:"level"`
	Price        *float64 `json:"price"`
	ThumbnailURL *string  `json:"thumbnail_url"`
}

// SetPublishedRequest toggles course visibility.
type SetPublishedRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

// CreateLectureRequest is the payload for adding a lecture to a course.
type CreateLectureRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	VideoURL      *string `json:"video_url"`
	Duration      float64 `json:"duration" binding:"gte=0"`
	Position      int     `json:"position" binding:"gte=0"`
	IsPreviewFree bool    `json:"is_preview_free"`
}

// UpdateLectureRequest carries optional lecture fields; nil means unchanged.
type UpdateLectureRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	VideoURL      *string  `json:"video_url"`
	Duration      *float64 `json:"duration"`
	Position      *int     `json:"position"`
	IsPreviewFree *bool    `json:"is_preview_free"`
}

// CreateReviewRequest is the payload for posting or editing a review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// UpdateProgressRequest marks a lecture as completed and/or sets the
// progress percentage.
type UpdateProgressRequest struct {
	LectureID *string  `json:"lecture_id"`
	Progress  *float64 `json:"progress"`
}
