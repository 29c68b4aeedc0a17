package usecasecontract

import (
	"context"
)

// CourseStats is one row of the educator dashboard.
type CourseStats struct {
	CourseID        string  `json:"course_id"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	IsPublished     bool    `json:"is_published"`
	EnrollmentCount int64   `json:"enrollment_count"`
}

// EducatorDashboard aggregates an educator's courses, enrollments and
// revenue.
type EducatorDashboard struct {
	TotalCourses     int           `json:"total_courses"`
	TotalEnrollments int64         `json:"total_enrollments"`
	TotalRevenue     float64       `json:"total_revenue"`
	Courses          []CourseStats `json:"courses"`
}

type IDashboardUseCase interface {
	GetEducatorDashboard(ctx context.Context, educatorID string) (*EducatorDashboard, error)
}
