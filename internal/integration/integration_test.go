package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/proteinpal/internal/api"
	"github.com/pageza/proteinpal/internal/router"
	"github.com/pageza/proteinpal/internal/session"
	"github.com/pageza/proteinpal/internal/testhelpers"
	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/types"
)

const (
	userID = int64(42)
	day    = "2024-03-12"
)

// fakeTracker is an in-memory stand-in for the remote tracker API with a
// single user and a single day of entries.
type fakeTracker struct {
	mu      sync.Mutex
	token   string
	revoked bool
	nextID  int64
	entries []types.FoodEntry
}

func (f *fakeTracker) authorized(c *gin.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked || c.GetHeader("Authorization") != "Bearer "+f.token {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return false
	}
	return true
}

func (f *fakeTracker) revoke() {
	f.mu.Lock()
	f.revoked = true
	f.mu.Unlock()
}

func (f *fakeTracker) user() types.User {
	return types.User{ID: userID, Email: "ada@example.com", DisplayName: "Ada", ProteinGoal: 150, CalorieGoal: 2200, CarbGoal: 250}
}

func (f *fakeTracker) handler() http.Handler {
	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		if f.authorized(c) {
			c.JSON(http.StatusOK, f.user())
		}
	})
	r.POST("/food/log", func(c *gin.Context) {
		if !f.authorized(c) {
			return
		}
		var req types.FoodLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		f.mu.Lock()
		f.nextID++
		entry := types.FoodEntry{
			ID:         f.nextID,
			FoodName:   req.FoodName,
			ProteinG:   req.ProteinG * req.ServingQty,
			Calories:   req.Calories * req.ServingQty,
			CarbsG:     req.CarbsG * req.ServingQty,
			MealType:   req.MealType,
			ServingQty: req.ServingQty,
			LoggedAt:   types.Timestamp{Time: time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)},
		}
		f.entries = append(f.entries, entry)
		f.mu.Unlock()
		c.JSON(http.StatusOK, entry)
	})
	r.GET("/dashboard/daily", func(c *gin.Context) {
		if !f.authorized(c) {
			return
		}
		c.JSON(http.StatusOK, f.daily(c.Query("date")))
	})
	r.GET("/dashboard/weekly", func(c *gin.Context) {
		if !f.authorized(c) {
			return
		}
		d := f.daily(c.Query("today"))
		u := f.user()
		c.JSON(http.StatusOK, gin.H{
			"days": []gin.H{{
				"date":           d.Date,
				"total_protein":  d.TotalProtein,
				"total_calories": d.TotalCalories,
				"total_carbs":    d.TotalCarbs,
			}},
			"protein_goal": u.ProteinGoal,
			"calorie_goal": u.CalorieGoal,
			"carb_goal":    u.CarbGoal,
		})
	})
	return r
}

func (f *fakeTracker) daily(date string) types.DailySummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.user()
	out := types.DailySummary{
		Date:        date,
		ProteinGoal: u.ProteinGoal,
		CalorieGoal: u.CalorieGoal,
		CarbGoal:    u.CarbGoal,
		Entries:     []types.FoodEntry{},
	}
	if date != day {
		return out
	}
	for _, e := range f.entries {
		out.TotalProtein += e.ProteinG
		out.TotalCalories += e.Calories
		out.TotalCarbs += e.CarbsG
		out.Entries = append(out.Entries, e)
	}
	return out
}

type harness struct {
	tracker *fakeTracker
	router  *gin.Engine
	session string
}

func setup(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
	}).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)

	fake := &fakeTracker{token: token}
	upstream := httptest.NewServer(fake.handler())
	t.Cleanup(upstream.Close)

	client := tracker.New(upstream.URL)
	db := testhelpers.SetupSQLiteDB(t)
	sessions := session.NewManager(session.NewGormStore(db), client, 24*time.Hour)

	h := &harness{
		tracker: fake,
		router: router.SetupRouter("http://localhost:5173", api.Dependencies{
			DB:       db,
			Sessions: sessions,
			Tracker:  client,
		}),
	}

	w := h.do(t, http.MethodPost, "/api/v1/auth/session", gin.H{"token": token})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp api.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	h.session = resp.SessionID.String()
	return h
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if h.session != "" {
		req.Header.Set("Authorization", "Bearer "+h.session)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

type dashboardBody struct {
	Daily struct {
		TotalProtein float64 `json:"total_protein"`
		Progress     struct {
			ProteinPct int `json:"protein_pct"`
			CaloriePct int `json:"calorie_pct"`
		} `json:"progress"`
		Meals []struct {
			MealType string `json:"meal_type"`
			Label    string `json:"label"`
		} `json:"meals"`
	} `json:"daily"`
	Weekly struct {
		Days []struct {
			Date       string  `json:"date"`
			ProteinPct float64 `json:"protein_pct"`
			Current    bool    `json:"current"`
		} `json:"days"`
	} `json:"weekly"`
	Stale bool `json:"stale"`
}

func (h *harness) dashboard(t *testing.T) dashboardBody {
	t.Helper()
	w := h.do(t, http.MethodGet, "/api/v1/dashboard?date="+day, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out dashboardBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoggedFoodReachesDashboard(t *testing.T) {
	h := setup(t)

	before := h.dashboard(t)
	assert.Zero(t, before.Daily.TotalProtein)
	assert.Empty(t, before.Daily.Meals)
	require.Len(t, before.Weekly.Days, 7)
	assert.True(t, before.Weekly.Days[6].Current)
	assert.Equal(t, day, before.Weekly.Days[6].Date)

	w := h.do(t, http.MethodPost, "/api/v1/food/log", gin.H{
		"food_name":   "Greek yogurt",
		"protein_g":   20,
		"calories":    130,
		"carbs_g":     9,
		"meal_type":   "breakfast",
		"serving_qty": 1.5,
		"date":        day,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	after := h.dashboard(t)
	assert.Equal(t, 30.0, after.Daily.TotalProtein)
	assert.Equal(t, 20, after.Daily.Progress.ProteinPct)
	assert.Equal(t, 9, after.Daily.Progress.CaloriePct)
	require.Len(t, after.Daily.Meals, 1)
	assert.Equal(t, "breakfast", after.Daily.Meals[0].MealType)
	assert.Equal(t, "Breakfast", after.Daily.Meals[0].Label)
	assert.InDelta(t, 20.0, after.Weekly.Days[6].ProteinPct, 1e-9)
	assert.Zero(t, after.Weekly.Days[0].ProteinPct)
	assert.False(t, after.Stale)
}

func TestRevokedTokenEndsSession(t *testing.T) {
	h := setup(t)
	h.dashboard(t)

	h.tracker.revoke()

	w := h.do(t, http.MethodGet, "/api/v1/dashboard?date="+day, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	w = h.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownSessionIsRejected(t *testing.T) {
	h := setup(t)
	h.session = "00000000-0000-0000-0000-000000000000"

	w := h.do(t, http.MethodGet, "/api/v1/dashboard?date="+day, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
