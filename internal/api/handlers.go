package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/proteinpal/internal/capture"
	"github.com/pageza/proteinpal/internal/database"
	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/service"
)

// Dependencies are what the routes are built from. Redis, Blobs and
// Detection are optional.
type Dependencies struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Sessions       SessionService
	Tracker        service.TrackerAPI
	Blobs          capture.BlobStore
	MaxUploadBytes int64
	Detection      *middleware.RateLimiter
	SecureCookies  bool
}

// HealthHandler reports whether the session store and Redis answer.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK
	if h.db != nil {
		checks["database"] = "ok"
		if err := database.HealthCheck(ctx, h.db); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// Redis only backs rate limiting.
			checks["redis"] = err.Error()
		}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	health := &HealthHandler{db: deps.DB, redis: deps.Redis}
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)

	dashboard := service.NewDashboardService(deps.Tracker)
	mealPlans := service.NewMealPlanService(deps.Tracker)

	r := &responder{
		sessions: deps.Sessions,
		onLogout: func(userID int64) {
			dashboard.Forget(userID)
			mealPlans.Clear(userID)
		},
		secureCookies: deps.SecureCookies,
	}

	authHandler := NewAuthHandler(r, deps.Tracker)
	goalsHandler := NewGoalsHandler(r, service.NewGoalsService(deps.Tracker))
	dashboardHandler := NewDashboardHandler(r, dashboard)
	foodHandler := NewFoodHandler(r, service.NewFoodService(deps.Tracker, deps.Blobs, deps.MaxUploadBytes), mealPlans, deps.Detection)
	groupHandler := NewGroupHandler(r, service.NewGroupService(deps.Tracker))
	adminHandler := NewAdminHandler(r, service.NewAdminService(deps.Tracker))

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Sessions))
	goalsHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)
	foodHandler.RegisterRoutes(protected)
	groupHandler.RegisterRoutes(protected)
	adminHandler.RegisterRoutes(protected)

	if deps.Detection != nil {
		RegisterRateLimitRoutes(protected, deps.Detection)
	}
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, detection *middleware.RateLimiter) {
	router.GET("/rate-limits/food-detection", func(c *gin.Context) {
		userID, _ := caller(c)
		remaining, resetTime, err := detection.GetRemainingRequests(c.Request.Context(), fmt.Sprintf("%v", userID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"limit":      detection.Limit(),
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     detection.Window().String(),
		})
	})
}
