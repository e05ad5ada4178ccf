package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/service"
)

type DashboardHandler struct {
	*responder
	dashboard *service.DashboardService
	now       func() time.Time
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(r *responder, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{responder: r, dashboard: dashboard, now: time.Now}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

// GetDashboard returns the daily summary and weekly trend for ?date=. A
// stale view is still a 200; the client shows its error banner.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, token := caller(c)
	view, err := h.dashboard.Load(c.Request.Context(), userID, token, dateParam(c, h.now))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
