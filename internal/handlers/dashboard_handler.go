package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/dashboard"
)

type DashboardHandler struct {
	dashboard *dashboard.Service
}

func NewDashboardHandler(d *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: d}
}

// Summary answers GET /me/dashboard?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.dashboard.Summary(c.Request.Context(), middleware.SalonID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
