package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/service"
	"github.com/pageza/proteinpal/internal/types"
)

// CalculateRequest is the calculator form plus whether to store the result.
type CalculateRequest struct {
	service.CalculatorInput
	Apply bool `json:"apply"`
}

// CalculateFormRequest is CalculateRequest posted as form values.
type CalculateFormRequest struct {
	service.CalculatorForm
	Apply bool `form:"apply"`
}

type GoalsHandler struct {
	*responder
	goals *service.GoalsService
}

// NewGoalsHandler creates a GoalsHandler.
func NewGoalsHandler(r *responder, goals *service.GoalsService) *GoalsHandler {
	return &GoalsHandler{responder: r, goals: goals}
}

func (h *GoalsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/calculator/macros", h.Calculate)
	router.PUT("/goals", h.SetGoals)
}

// Calculate accepts the calculator as JSON or as url-encoded form values.
func (h *GoalsHandler) Calculate(c *gin.Context) {
	var (
		in    service.ProfileSource
		apply bool
	)
	if c.ContentType() == binding.MIMEPOSTForm {
		var req CalculateFormRequest
		if err := c.ShouldBindWith(&req, binding.Form); err != nil {
			badRequest(c, "Invalid form values")
			return
		}
		in, apply = req.CalculatorForm, req.Apply
	} else {
		var req CalculateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		in, apply = req.CalculatorInput, req.Apply
	}

	if !apply {
		res, err := h.goals.Calculate(in)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	_, token := caller(c)
	res, err := h.goals.CalculateAndApply(c.Request.Context(), token, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.refreshUser(c, res.User)
	c.JSON(http.StatusOK, res)
}

func (h *GoalsHandler) SetGoals(c *gin.Context) {
	var req types.GoalUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	_, token := caller(c)
	user, err := h.goals.SetGoals(c.Request.Context(), token, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.refreshUser(c, user)
	c.JSON(http.StatusOK, user)
}

func (h *GoalsHandler) refreshUser(c *gin.Context, user *types.User) {
	if state, ok := middleware.SessionFrom(c); ok && user != nil {
		h.sessions.UpdateUser(state.ID, user)
	}
}
