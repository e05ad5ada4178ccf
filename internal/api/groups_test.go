package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/types"
)

func TestGroupEndpoints(t *testing.T) {
	s := setupTestServer(t)
	token := s.login(t)
	s.tracker.On("Groups", mock.Anything, token).Return([]types.Group{{ID: 1, Name: "Lifters"}}, nil)
	s.tracker.On("CreateGroup", mock.Anything, token, "Runners").Return(&types.Group{ID: 2, Name: "Runners", InviteCode: "R2"}, nil)
	s.tracker.On("JoinGroup", mock.Anything, token, "R2").Return(&types.Group{ID: 2, Name: "Runners"}, nil)
	s.tracker.On("Leaderboard", mock.Anything, token, int64(2), "weekly", "2024-03-12").Return([]types.LeaderboardEntry{
		{UserID: testUserID, DisplayName: "Sam", TotalProtein: 840, Rank: 1},
	}, nil)

	w := s.do(t, http.MethodGet, "/api/v1/groups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["groups"], 1)

	w = s.do(t, http.MethodPost, "/api/v1/groups", gin.H{"name": " Runners "})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/groups/join", gin.H{"invite_code": "R2"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/groups/2/leaderboard?period=weekly&today=2024-03-12", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["entries"], 1)

	w = s.do(t, http.MethodGet, "/api/v1/groups/2/leaderboard?period=monthly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinGroupUpstreamErrors(t *testing.T) {
	s := setupTestServer(t)
	token := s.login(t)
	s.tracker.On("JoinGroup", mock.Anything, token, "BAD").Return(nil, &tracker.APIError{StatusCode: 404, Detail: "Invalid invite code"})
	s.tracker.On("JoinGroup", mock.Anything, token, "DUP").Return(nil, &tracker.APIError{StatusCode: 400, Detail: "Already a member"})

	w := s.do(t, http.MethodPost, "/api/v1/groups/join", gin.H{"invite_code": "BAD"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/groups/join", gin.H{"invite_code": "DUP"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already a member", decode(t, w)["error"])
}

func TestAdminStatsForbidden(t *testing.T) {
	s := setupTestServer(t)
	token := s.login(t)
	s.tracker.On("AdminStats", mock.Anything, token).Return(nil, &tracker.APIError{StatusCode: 403, Detail: "Admin access required"})

	w := s.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
