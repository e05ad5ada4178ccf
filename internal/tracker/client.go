package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pageza/proteinpal/internal/types"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote tracker API. Every call except LoginURL needs
// the user's bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(cl *Client) {
		if rps <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginURL returns the identity provider URL to redirect the user to.
func (c *Client) LoginURL(ctx context.Context) (string, error) {
	var out types.LoginURL
	if err := c.do(ctx, http.MethodGet, "/auth/google/login", "", nil, nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGoals changes the persisted goals.
func (c *Client) UpdateGoals(ctx context.Context, token string, goals types.GoalUpdate) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodPut, "/auth/me/goals", token, nil, goals, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile stores biometrics and goals together.
func (c *Client) UpdateProfile(ctx context.Context, token string, profile types.ProfileUpdate) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodPut, "/auth/me/profile", token, nil, profile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CommonFoods(ctx context.Context, token string) ([]types.CommonFood, error) {
	var out []types.CommonFood
	if err := c.do(ctx, http.MethodGet, "/food/common", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectFood submits a photo for recognition as multipart field "image".
func (c *Client) DetectFood(ctx context.Context, token, filename string, image io.Reader) (*types.DetectionResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var out types.DetectionResult
	if err := c.send(ctx, http.MethodPost, "/food/detect", token, nil, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LogFood(ctx context.Context, token string, req types.FoodLogRequest) (*types.FoodEntry, error) {
	var out types.FoodEntry
	if err := c.do(ctx, http.MethodPost, "/food/log", token, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Entries lists the entries logged on date (YYYY-MM-DD).
func (c *Client) Entries(ctx context.Context, token, date string) ([]types.FoodEntry, error) {
	var out []types.FoodEntry
	q := url.Values{"date": {date}}
	if err := c.do(ctx, http.MethodGet, "/food/entries", token, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateEntry(ctx context.Context, token string, id int64, req types.FoodLogRequest) (*types.FoodEntry, error) {
	var out types.FoodEntry
	if err := c.do(ctx, http.MethodPut, entryPath(id), token, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEntry(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, entryPath(id), token, nil, nil, nil)
}

func (c *Client) MealPlan(ctx context.Context, token, date string) (*types.MealPlanResponse, error) {
	var out types.MealPlanResponse
	q := url.Values{"date": {date}}
	if err := c.do(ctx, http.MethodGet, "/food/meal-plan", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DailySummary(ctx context.Context, token, date string) (*types.DailySummary, error) {
	var out types.DailySummary
	q := url.Values{"date": {date}}
	if err := c.do(ctx, http.MethodGet, "/dashboard/daily", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Weekly returns the seven days ending at today.
func (c *Client) Weekly(ctx context.Context, token, today string) (*types.WeeklyResponse, error) {
	var out types.WeeklyResponse
	q := url.Values{"today": {today}}
	if err := c.do(ctx, http.MethodGet, "/dashboard/weekly", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Groups(ctx context.Context, token string) ([]types.Group, error) {
	var out []types.Group
	if err := c.do(ctx, http.MethodGet, "/groups", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGroup(ctx context.Context, token, name string) (*types.Group, error) {
	var out types.Group
	if err := c.do(ctx, http.MethodPost, "/groups/create", token, nil, types.GroupCreateRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinGroup(ctx context.Context, token, inviteCode string) (*types.Group, error) {
	var out types.Group
	if err := c.do(ctx, http.MethodPost, "/groups/join", token, nil, types.GroupJoinRequest{InviteCode: inviteCode}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns the ranked members of a group for period ending today.
func (c *Client) Leaderboard(ctx context.Context, token string, groupID int64, period, today string) ([]types.LeaderboardEntry, error) {
	var out []types.LeaderboardEntry
	q := url.Values{"period": {period}, "today": {today}}
	path := "/groups/" + strconv.FormatInt(groupID, 10) + "/leaderboard"
	if err := c.do(ctx, http.MethodGet, path, token, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminStats(ctx context.Context, token string) (*types.AdminStats, error) {
	var out types.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func entryPath(id int64) string {
	return "/food/entries/" + strconv.FormatInt(id, 10)
}

// do sends an optional JSON body and decodes a JSON answer into out.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, token, query, body, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tracker %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read tracker response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(data)}
		log.Printf("[TrackerClient] %s %s failed with status %d", method, path, resp.StatusCode)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return nil
}
