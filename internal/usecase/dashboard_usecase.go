package usecase

import (
	"context"
	"errors"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// DashboardUsecase assembles the educator dashboard from live aggregations
// rather than the denormalized counters, so the numbers stay honest even if
// a counter drifts.
type DashboardUsecase struct {
	courseRepo     contract.ICourseRepository
	enrollmentRepo contract.IEnrollmentRepository
	paymentRepo    contract.IPaymentRepository
	logger         usecasecontract.IAppLogger
}

func NewDashboardUsecase(
	courseRepo contract.ICourseRepository,
	enrollmentRepo contract.IEnrollmentRepository,
	paymentRepo contract.IPaymentRepository,
	logger usecasecontract.IAppLogger,
) *DashboardUsecase {
	return &DashboardUsecase{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		logger:         logger,
	}
}

var _ usecasecontract.IDashboardUseCase = (*DashboardUsecase)(nil)

// GetEducatorDashboard returns per-course enrollment counts and the
// educator's total revenue from completed payments.
func (uc *DashboardUsecase) GetEducatorDashboard(ctx context.Context, educatorID string) (*usecasecontract.EducatorDashboard, error) {
	courses, err := uc.courseRepo.ListByCreator(ctx, educatorID)
	if err != nil {
		uc.logger.Errorf("failed to list courses for educator %s: %v", educatorID, err)
		return nil, errors.New(errInternalServer)
	}

	dashboard := &usecasecontract.EducatorDashboard{
		TotalCourses: len(courses),
		Courses:      make([]usecasecontract.CourseStats, 0, len(courses)),
	}
	if len(courses) == 0 {
		return dashboard, nil
	}

	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	counts, err := uc.enrollmentRepo.CountByCourseIDs(ctx, courseIDs)
	if err != nil {
		uc.logger.Errorf("failed to count enrollments for educator %s: %v", educatorID, err)
		return nil, errors.New(errInternalServer)
	}
	countByCourse := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByCourse[c.CourseID] = c.Count
	}

	revenue, err := uc.paymentRepo.TotalRevenueByCourseIDs(ctx, courseIDs)
	if err != nil {
		uc.logger.Errorf("failed to sum revenue for educator %s: %v", educatorID, err)
		return nil, errors.New(errInternalServer)
	}
	dashboard.TotalRevenue = revenue

	for _, c := range courses {
		count := countByCourse[c.ID]
		dashboard.TotalEnrollments += count
		dashboard.Courses = append(dashboard.Courses, usecasecontract.CourseStats{
			CourseID:        c.ID,
			Title:           c.Title,
			Price:           c.Price,
			IsPublished:     c.IsPublished,
			EnrollmentCount: count,
		})
	}
	return dashboard, nil
}
