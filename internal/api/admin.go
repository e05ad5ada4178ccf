package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/service"
)

type AdminHandler struct {
	*responder
	admin *service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(r *responder, admin *service.AdminService) *AdminHandler {
	return &AdminHandler{responder: r, admin: admin}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/admin/stats", h.Stats)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	_, token := caller(c)
	stats, err := h.admin.Stats(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
