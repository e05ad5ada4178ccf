package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/proteinpal/internal/session"
)

// SessionCookie carries the session ID in browsers.
const SessionCookie = "proteinpal_session"

// Context keys set by AuthMiddleware.
const (
	ContextUserID  = "user_id"
	ContextSession = "session"
	ContextToken   = "token"
)

// SessionResolver looks up an authenticated session by ID.
type SessionResolver interface {
	Restore(ctx context.Context, id uuid.UUID) (*session.State, error)
}

// AuthMiddleware resolves the session from the cookie or a Bearer header
// holding the session ID. The tracker token never leaves the server.
func AuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := sessionID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			c.Abort()
			return
		}

		state, err := sessions.Restore(c.Request.Context(), id)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "session expired, please log in again"
			if !isSessionGone(err) {
				status = http.StatusBadGateway
				msg = "failed to verify session"
			}
			c.JSON(status, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(ContextUserID, state.User.ID)
		c.Set(ContextSession, state)
		c.Set(ContextToken, state.Token)
		c.Next()
	}
}

func sessionID(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("missing session")
}

func isSessionGone(err error) bool {
	return errors.Is(err, session.ErrNotFound) ||
		errors.Is(err, session.ErrExpired) ||
		errors.Is(err, session.ErrRejected)
}

// SessionFrom returns the session set by AuthMiddleware.
func SessionFrom(c *gin.Context) (*session.State, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	state, ok := v.(*session.State)
	return state, ok
}
