package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/service"
	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/view"
)

type FoodHandler struct {
	*responder
	food      *service.FoodService
	mealPlans *service.MealPlanService
	detection *middleware.RateLimiter
	now       func() time.Time
}

// NewFoodHandler creates a FoodHandler. detection may be nil, in which
// case photo analysis is not rate limited.
func NewFoodHandler(r *responder, food *service.FoodService, mealPlans *service.MealPlanService, detection *middleware.RateLimiter) *FoodHandler {
	return &FoodHandler{responder: r, food: food, mealPlans: mealPlans, detection: detection, now: time.Now}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	food := router.Group("/food")
	{
		food.GET("/common", h.CommonFoods)
		food.GET("/log-view", h.LogView)
		food.POST("/log", h.LogFood)
		food.GET("/entries/:id/edit", h.EditForm)
		food.PUT("/entries/:id", h.UpdateEntry)
		food.DELETE("/entries/:id", h.DeleteEntry)

		if h.detection != nil {
			food.POST("/detect", h.detection.RateLimitMiddleware(), h.Detect)
		} else {
			food.POST("/detect", h.Detect)
		}

		food.GET("/meal-plan", h.MealPlanStatus)
		food.POST("/meal-plan", h.GenerateMealPlan)
		food.DELETE("/meal-plan", h.ClearMealPlan)
	}
}

func (h *FoodHandler) CommonFoods(c *gin.Context) {
	_, token := caller(c)
	foods, err := h.food.CommonFoods(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) LogView(c *gin.Context) {
	tab, err := view.ParseLogFoodTab(c.Query("tab"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	_, token := caller(c)
	v, err := h.food.LogView(c.Request.Context(), token, tab, c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *FoodHandler) LogFood(c *gin.Context) {
	var req service.LogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	_, token := caller(c)
	entry, err := h.food.Log(c.Request.Context(), token, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *FoodHandler) EditForm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	_, token := caller(c)
	form, err := h.food.EditForm(c.Request.Context(), token, id, dateParam(c, h.now))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// UpdateEntry saves the edit dialog for an entry currently logged on
// ?date=. The body carries per-serving values; omitted fields are kept.
func (h *FoodHandler) UpdateEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var changes service.EntryChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	_, token := caller(c)
	entry, err := h.food.Update(c.Request.Context(), token, id, dateParam(c, h.now), changes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FoodHandler) DeleteEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	_, token := caller(c)
	if err := h.food.Delete(c.Request.Context(), token, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Detect analyzes a photo posted as the multipart field "image".
func (h *FoodHandler) Detect(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "image is required")
		return
	}

	userID, token := caller(c)
	res, err := h.food.Detect(c.Request.Context(), token, h.food.UploadDevice(file, userID))
	if err != nil {
		if res == nil || tracker.IsUnauthorized(err) {
			h.fail(c, err)
			return
		}
		c.Error(err)
		c.JSON(http.StatusBadGateway, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FoodHandler) MealPlanStatus(c *gin.Context) {
	userID, _ := caller(c)
	c.JSON(http.StatusOK, h.mealPlans.Status(userID))
}

func (h *FoodHandler) GenerateMealPlan(c *gin.Context) {
	userID, token := caller(c)
	snap, err := h.mealPlans.Fetch(c.Request.Context(), userID, token, dateParam(c, h.now))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *FoodHandler) ClearMealPlan(c *gin.Context) {
	userID, _ := caller(c)
	h.mealPlans.Clear(userID)
	c.Status(http.StatusNoContent)
}
