package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/proteinpal/internal/middleware"
	"github.com/pageza/proteinpal/internal/session"
	"github.com/pageza/proteinpal/internal/types"
)

// SessionService is the session lifecycle as the handlers use it.
// *session.Manager implements it.
type SessionService interface {
	middleware.SessionResolver
	Login(ctx context.Context, token string) (*session.State, error)
	Logout(ctx context.Context, id uuid.UUID) error
	UpdateUser(id uuid.UUID, user *types.User)
}

// LoginURLSource returns the identity provider redirect.
type LoginURLSource interface {
	LoginURL(ctx context.Context) (string, error)
}

type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}

type SessionResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *types.User `json:"user"`
}

type AuthHandler struct {
	*responder
	urls LoginURLSource
}

// NewAuthHandler creates an AuthHandler. urls serves the identity
// provider redirect.
func NewAuthHandler(r *responder, urls LoginURLSource) *AuthHandler {
	return &AuthHandler{responder: r, urls: urls}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/login-url", h.LoginURL)
		auth.POST("/session", h.Login)
		auth.GET("/me", middleware.AuthMiddleware(h.sessions), h.Me)
		auth.DELETE("/session", middleware.AuthMiddleware(h.sessions), h.Logout)
	}
}

func (h *AuthHandler) LoginURL(c *gin.Context) {
	url, err := h.urls.LoginURL(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.LoginURL{URL: url})
}

// Login exchanges a tracker token, as delivered by the OAuth callback, for
// a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "token is required")
		return
	}

	state, err := h.sessions.Login(c.Request.Context(), req.Token)
	switch {
	case errors.Is(err, session.ErrMalformedToken):
		badRequest(c, err.Error())
		return
	case errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrRejected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, state)
	c.JSON(http.StatusCreated, SessionResponse{SessionID: state.ID, ExpiresAt: state.ExpiresAt, User: state.User})
}

func (h *AuthHandler) Me(c *gin.Context) {
	state, _ := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, state.User)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.endSession(c)
	c.Status(http.StatusNoContent)
}

func (r *responder) setSessionCookie(c *gin.Context, state *session.State) {
	maxAge := int(time.Until(state.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, state.ID.String(), maxAge, "/", "", r.secureCookies, true)
}

func (r *responder) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", r.secureCookies, true)
}
