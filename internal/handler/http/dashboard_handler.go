package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

type DashboardHandler struct {
	dashboardUsecase usecasecontract.IDashboardUseCase
}

func NewDashboardHandler(dashboardUsecase usecasecontract.IDashboardUseCase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

// GetEducatorDashboard handles the educator's aggregate view of courses,
// enrollments and revenue
func (h *DashboardHandler) GetEducatorDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardUsecase.GetEducatorDashboard(c.Request.Context(), userID)
	if err != nil {
		ErrorHandler(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	SuccessHandler(c, http.StatusOK, dashboard)
}
