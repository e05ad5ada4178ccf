package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/nutrition"
)

// caller returns the authenticated user and tracker token. AuthMiddleware
// guarantees both on protected routes.
func caller(c *gin.Context) (int64, string) {
	return c.GetInt64(middleware.ContextUserID), c.GetString(middleware.ContextToken)
}

// dateParam reads ?date=, defaulting to today.
func dateParam(c *gin.Context, now func() time.Time) string {
	if d := c.Query("date"); d != "" {
		return d
	}
	return now().Format(nutrition.DateLayout)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
