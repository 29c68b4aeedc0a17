package contract

import "errors"

// Sentinel errors returned by repository implementations when no document
// matches the query. Callers match them with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenNotFound      = errors.New("token not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrReviewNotFound     = errors.New("review not found")
)
