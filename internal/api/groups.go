package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/service"
	"github.com/pageza/proteinpal/internal/types"
	"github.com/pageza/proteinpal/internal/view"
)

type GroupHandler struct {
	*responder
	groups *service.GroupService
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(r *responder, groups *service.GroupService) *GroupHandler {
	return &GroupHandler{responder: r, groups: groups}
}

func (h *GroupHandler) RegisterRoutes(router *gin.RouterGroup) {
	groups := router.Group("/groups")
	{
		groups.GET("", h.ListGroups)
		groups.POST("", h.CreateGroup)
		groups.POST("/join", h.JoinGroup)
		groups.GET("/:id/leaderboard", h.Leaderboard)
	}
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	_, token := caller(c)
	groups, err := h.groups.List(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req types.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}
	_, token := caller(c)
	group, err := h.groups.Create(c.Request.Context(), token, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req types.GroupJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invite_code is required")
		return
	}
	_, token := caller(c)
	group, err := h.groups.Join(c.Request.Context(), token, req.InviteCode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Leaderboard(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	period, err := view.ParseLeaderboardPeriod(c.Query("period"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	_, token := caller(c)
	lb, err := h.groups.Leaderboard(c.Request.Context(), token, id, period, c.Query("today"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}
