// Package view holds the finite states the browser shell renders from.
package view

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// LogFoodTab is the active tab of the log-food page.
type LogFoodTab string

const (
	TabQuick  LogFoodTab = "quick"
	TabCamera LogFoodTab = "camera"
	TabManual LogFoodTab = "manual"
)

// ParseLogFoodTab defaults to the quick-pick grid.
func ParseLogFoodTab(raw string) (LogFoodTab, error) {
	switch tab := LogFoodTab(strings.ToLower(strings.TrimSpace(raw))); tab {
	case "":
		return TabQuick, nil
	case TabQuick, TabCamera, TabManual:
		return tab, nil
	default:
		return "", fmt.Errorf("unknown tab %q", raw)
	}
}

// LeaderboardPeriod selects the leaderboard window.
type LeaderboardPeriod string

const (
	PeriodDaily  LeaderboardPeriod = "daily"
	PeriodWeekly LeaderboardPeriod = "weekly"
)

// ParseLeaderboardPeriod defaults to daily.
func ParseLeaderboardPeriod(raw string) (LeaderboardPeriod, error) {
	switch p := LeaderboardPeriod(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodWeekly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", raw)
	}
}

// FlowState is the state of a request/response flow such as meal planning
// or food detection. Retries are manual.
type FlowState string

const (
	FlowIdle    FlowState = "idle"
	FlowLoading FlowState = "loading"
	FlowSuccess FlowState = "success"
	FlowError   FlowState = "error"
)

// Flow tracks one flow. The zero value is idle.
type Flow[T any] struct {
	mu        sync.Mutex
	state     FlowState
	result    T
	err       string
	updatedAt time.Time
}

// Snapshot is a point-in-time copy of a Flow.
type Snapshot[T any] struct {
	State     FlowState `json:"state"`
	Result    *T        `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Start enters loading. The previous result stays visible until replaced.
func (f *Flow[T]) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowLoading
	f.err = ""
	f.updatedAt = time.Now()
}

func (f *Flow[T]) Succeed(result T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowSuccess
	f.result = result
	f.err = ""
	f.updatedAt = time.Now()
}

func (f *Flow[T]) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowError
	f.err = err.Error()
	f.updatedAt = time.Now()
}

// Reset returns to idle and drops any result.
func (f *Flow[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	f.state = FlowIdle
	f.result = zero
	f.err = ""
	f.updatedAt = time.Now()
}

func (f *Flow[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot[T]{State: f.state, Error: f.err, UpdatedAt: f.updatedAt}
	if s.State == "" {
		s.State = FlowIdle
	}
	if f.state == FlowSuccess {
		result := f.result
		s.Result = &result
	}
	return s
}
