package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/proteinpal/internal/nutrition"
)

// User is the authenticated tracker user, including persisted goals and the
// optional biometric profile.
type User struct {
	ID            int64    `json:"id"`
	Email         string   `json:"email"`
	DisplayName   string   `json:"display_name"`
	AvatarURL     *string  `json:"avatar_url"`
	ProteinGoal   float64  `json:"protein_goal"`
	CalorieGoal   float64  `json:"calorie_goal"`
	CarbGoal      float64  `json:"carb_goal"`
	Age           *int     `json:"age,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	Sex           *string  `json:"sex,omitempty"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
	GoalType      *string  `json:"goal_type,omitempty"`
}

// Goals returns the user's persisted goals as aggregation denominators.
func (u *User) Goals() nutrition.Goals {
	return nutrition.Goals{
		ProteinGoal: u.ProteinGoal,
		CalorieGoal: u.CalorieGoal,
		CarbGoal:    u.CarbGoal,
	}
}

// CommonFood is one tile of the quick-pick grid.
type CommonFood struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ProteinG  float64 `json:"protein_g"`
	Calories  float64 `json:"calories"`
	CarbsG    float64 `json:"carbs_g"`
	Category  string  `json:"category"`
	Icon      string  `json:"icon"`
	SortOrder int     `json:"sort_order"`
}

// Timestamp accepts the tracker's ISO-8601 timestamps, which may or may not
// carry a zone offset. Zoneless values are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// FoodEntry is a logged food as the tracker returns it. Macro values are
// totals.
type FoodEntry struct {
	ID         int64     `json:"id"`
	FoodName   string    `json:"food_name"`
	ProteinG   float64   `json:"protein_g"`
	Calories   float64   `json:"calories"`
	CarbsG     float64   `json:"carbs_g"`
	FdcID      *string   `json:"fdc_id"`
	MealType   string    `json:"meal_type"`
	ServingQty float64   `json:"serving_qty"`
	LoggedAt   Timestamp `json:"logged_at"`
}

// Entry converts the wire form into the engine's entry.
func (e FoodEntry) Entry() nutrition.FoodLogEntry {
	return nutrition.FoodLogEntry{
		ID:         e.ID,
		FoodName:   e.FoodName,
		ProteinG:   e.ProteinG,
		Calories:   e.Calories,
		CarbsG:     e.CarbsG,
		FdcID:      e.FdcID,
		MealType:   nutrition.MealType(strings.ToLower(e.MealType)),
		ServingQty: e.ServingQty,
		LoggedAt:   e.LoggedAt.Time,
	}
}

// Entries converts a slice of wire entries.
func Entries(in []FoodEntry) []nutrition.FoodLogEntry {
	out := make([]nutrition.FoodLogEntry, len(in))
	for i, e := range in {
		out[i] = e.Entry()
	}
	return out
}

// FoodLogRequest creates or replaces an entry. Macro values are per serving;
// the tracker multiplies them by ServingQty before storing.
type FoodLogRequest struct {
	FoodName   string  `json:"food_name" binding:"required"`
	ProteinG   float64 `json:"protein_g"`
	Calories   float64 `json:"calories"`
	CarbsG     float64 `json:"carbs_g"`
	FdcID      *string `json:"fdc_id,omitempty"`
	MealType   string  `json:"meal_type"`
	ServingQty float64 `json:"serving_qty"`
	LoggedAt   string  `json:"logged_at,omitempty"`
}

// LogRequestFromForm builds the request body for a form. LoggedAt is left
// for the caller, which knows the tracker's timestamp convention.
func LogRequestFromForm(f nutrition.EditForm) FoodLogRequest {
	return FoodLogRequest{
		FoodName:   strings.TrimSpace(f.FoodName),
		ProteinG:   f.ProteinG,
		Calories:   f.Calories,
		CarbsG:     f.CarbsG,
		MealType:   string(f.MealType),
		ServingQty: f.ServingQty,
	}
}

// DetectedFood is one item recognized in a photo.
type DetectedFood struct {
	Name       string  `json:"name"`
	ProteinG   float64 `json:"protein_g"`
	Calories   float64 `json:"calories"`
	CarbsG     float64 `json:"carbs_g"`
	Confidence float64 `json:"confidence"`
}

// DetectionResult is the tracker's answer to a detection request.
type DetectionResult struct {
	Foods         []DetectedFood `json:"foods"`
	TotalProtein  float64        `json:"total_protein"`
	TotalCalories float64        `json:"total_calories"`
	TotalCarbs    float64        `json:"total_carbs"`
	ImageURL      string         `json:"image_url,omitempty"`
}

// DailySummary is the tracker's daily dashboard payload.
type DailySummary struct {
	Date          string      `json:"date"`
	TotalProtein  float64     `json:"total_protein"`
	TotalCalories float64     `json:"total_calories"`
	TotalCarbs    float64     `json:"total_carbs"`
	ProteinGoal   float64     `json:"protein_goal"`
	CalorieGoal   float64     `json:"calorie_goal"`
	CarbGoal      float64     `json:"carb_goal"`
	Entries       []FoodEntry `json:"entries"`
}

// Goals returns the goals the tracker reported alongside the summary.
func (d *DailySummary) Goals() nutrition.Goals {
	return nutrition.Goals{
		ProteinGoal: d.ProteinGoal,
		CalorieGoal: d.CalorieGoal,
		CarbGoal:    d.CarbGoal,
	}
}

// WeeklyResponse is the tracker's seven-day aggregate.
type WeeklyResponse struct {
	Days        []nutrition.DayTotals `json:"days"`
	ProteinGoal float64               `json:"protein_goal"`
	CalorieGoal float64               `json:"calorie_goal"`
	CarbGoal    float64               `json:"carb_goal"`
}

func (w *WeeklyResponse) Goals() nutrition.Goals {
	return nutrition.Goals{
		ProteinGoal: w.ProteinGoal,
		CalorieGoal: w.CalorieGoal,
		CarbGoal:    w.CarbGoal,
	}
}

// GoalUpdate changes persisted goals. Nil fields are left as they are.
type GoalUpdate struct {
	ProteinGoal *float64 `json:"protein_goal,omitempty"`
	CalorieGoal *float64 `json:"calorie_goal,omitempty"`
	CarbGoal    *float64 `json:"carb_goal,omitempty"`
}

// ProfileUpdate stores the biometric profile together with derived goals.
type ProfileUpdate struct {
	Age           *int     `json:"age,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	Sex           *string  `json:"sex,omitempty"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
	GoalType      *string  `json:"goal_type,omitempty"`
	ProteinGoal   *float64 `json:"protein_goal,omitempty"`
	CalorieGoal   *float64 `json:"calorie_goal,omitempty"`
	CarbGoal      *float64 `json:"carb_goal,omitempty"`
}

// ProfileUpdateFrom pairs a profile with the targets calculated from it.
func ProfileUpdateFrom(p nutrition.BiometricProfile, t nutrition.MacroTargets) ProfileUpdate {
	age := p.Age
	weight, height := p.WeightKg, p.HeightCm
	sex, activity, goal := string(p.Sex), string(p.ActivityLevel), string(p.GoalType)
	goals := nutrition.GoalsFromTargets(t)
	protein, calories, carbs := goals.ProteinGoal, goals.CalorieGoal, goals.CarbGoal
	return ProfileUpdate{
		Age:           &age,
		WeightKg:      &weight,
		HeightCm:      &height,
		Sex:           &sex,
		ActivityLevel: &activity,
		GoalType:      &goal,
		ProteinGoal:   &protein,
		CalorieGoal:   &calories,
		CarbGoal:      &carbs,
	}
}

// Group is a protein-tracking group the user belongs to.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	InviteCode  string `json:"invite_code"`
	MemberCount int    `json:"member_count"`
	CreatedBy   int64  `json:"created_by"`
}

type GroupCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type GroupJoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// LeaderboardEntry is one ranked member. Ranking is done by the tracker.
type LeaderboardEntry struct {
	UserID       int64   `json:"user_id"`
	DisplayName  string  `json:"display_name"`
	AvatarURL    *string `json:"avatar_url"`
	TotalProtein float64 `json:"total_protein"`
	Rank         int     `json:"rank"`
}

// MealPlanItem is one suggested food.
type MealPlanItem struct {
	Food     string  `json:"food"`
	Quantity string  `json:"quantity"`
	ProteinG float64 `json:"protein_g"`
	Calories float64 `json:"calories"`
	CarbsG   float64 `json:"carbs_g"`
}

// MealPlanMeal is one meal of a suggested plan.
type MealPlanMeal struct {
	MealType     string         `json:"meal_type"`
	AlreadyEaten bool           `json:"already_eaten"`
	Items        []MealPlanItem `json:"items"`
	MealProtein  float64        `json:"meal_protein"`
	MealCalories float64        `json:"meal_calories"`
	MealCarbs    float64        `json:"meal_carbs"`
	MealTip      string         `json:"meal_tip,omitempty"`
}

// MealPlanDaySummary is the projected day total reported with a plan.
type MealPlanDaySummary struct {
	TotalProtein  float64 `json:"total_protein"`
	TotalCalories float64 `json:"total_calories"`
	TotalCarbs    float64 `json:"total_carbs"`
}

// MealPlanResponse is the tracker's meal plan suggestion for a date.
type MealPlanResponse struct {
	MealPlan   []MealPlanMeal     `json:"meal_plan"`
	DaySummary MealPlanDaySummary `json:"day_summary"`
}

// AdminStats are platform-wide counters.
type AdminStats struct {
	TotalUsers                 int     `json:"total_users"`
	NewUsersLast24h            int     `json:"new_users_last_24h"`
	NewUsersLast7Days          int     `json:"new_users_last_7_days"`
	TotalFoodEntries           int     `json:"total_food_entries"`
	TotalGroups                int     `json:"total_groups"`
	ActiveUsersLast7Days       int     `json:"active_users_last_7_days"`
	TotalProteinLoggedAllTime  float64 `json:"total_protein_logged_all_time"`
	TotalCaloriesLoggedAllTime float64 `json:"total_calories_logged_all_time"`
}

// LoginURL is the identity provider redirect returned by the tracker.
type LoginURL struct {
	URL string `json:"url"`
}
