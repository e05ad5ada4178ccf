package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/capture"
	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/service"
	"github.com/pageza/proteinpal/internal/tracker"
)

// responder writes error responses. A token the tracker no longer accepts
// ends the session, the same as an explicit logout.
type responder struct {
	sessions      SessionService
	onLogout      func(userID int64)
	secureCookies bool
}

func (r *responder) fail(c *gin.Context, err error) {
	status, body := r.classify(err)
	if status == http.StatusUnauthorized {
		r.endSession(c)
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.Error(err)
	c.JSON(status, body)
}

func (r *responder) classify(err error) (int, gin.H) {
	var profileErr *nutrition.ProfileError
	var apiErr *tracker.APIError

	switch {
	case errors.As(err, &profileErr):
		return http.StatusUnprocessableEntity, gin.H{"error": "incomplete profile", "field": profileErr.Field, "message": profileErr.Message}
	case errors.Is(err, nutrition.ErrInvalidServing),
		errors.Is(err, nutrition.ErrEmptyFoodName),
		errors.Is(err, nutrition.ErrNegativeMacro),
		errors.Is(err, nutrition.ErrUnknownMeal),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, capture.ErrEmptyPhoto),
		errors.Is(err, capture.ErrNoStream):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, capture.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()}
	case errors.Is(err, capture.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, gin.H{"error": err.Error()}
	case errors.Is(err, service.ErrEntryNotFound), tracker.IsNotFound(err):
		return http.StatusNotFound, gin.H{"error": "not found"}
	case tracker.IsUnauthorized(err):
		return http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"}
	case tracker.IsForbidden(err):
		return http.StatusForbidden, gin.H{"error": "forbidden"}
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		return apiErr.StatusCode, gin.H{"error": apiErr.Detail}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, gin.H{"error": "tracker timed out"}
	case errors.Is(err, service.ErrDashboardUnavailable), errors.As(err, &apiErr):
		return http.StatusBadGateway, gin.H{"error": "tracker unavailable"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}
}

func (r *responder) endSession(c *gin.Context) {
	state, ok := middleware.SessionFrom(c)
	if !ok {
		return
	}
	if err := r.sessions.Logout(c.Request.Context(), state.ID); err != nil {
		log.Printf("[API] failed to end session %s: %v", state.ID, err)
	}
	if r.onLogout != nil {
		r.onLogout(state.User.ID)
	}
	r.clearSessionCookie(c)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
