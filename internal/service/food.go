package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"sort"
	"strconv"
	"time"

	"github.com/pageza/proteinpal/internal/capture"
	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/types"
	"github.com/pageza/proteinpal/internal/view"
)

// localTimestamp is the zoneless layout the tracker stores logged_at in.
const localTimestamp = "2006-01-02T15:04:05"

// LogInput is a new entry as submitted from any log-food tab. Macro values
// are per serving.
type LogInput struct {
	FoodName   string  `json:"food_name"`
	ProteinG   float64 `json:"protein_g"`
	Calories   float64 `json:"calories"`
	CarbsG     float64 `json:"carbs_g"`
	FdcID      *string `json:"fdc_id,omitempty"`
	MealType   string  `json:"meal_type"`
	ServingQty float64 `json:"serving_qty"`
	Date       string  `json:"date"`
}

// LogFoodView is the initial state of the log-food page.
type LogFoodView struct {
	Tab             view.LogFoodTab      `json:"tab"`
	Date            string               `json:"date"`
	DefaultMealType nutrition.MealType   `json:"default_meal_type"`
	MealTypes       []nutrition.MealType `json:"meal_types"`
	CommonFoods     []types.CommonFood   `json:"common_foods,omitempty"`
	MaxUploadBytes  int64                `json:"max_upload_bytes,omitempty"`
}

// FoodService logs, edits and deletes entries and runs food detection.
type FoodService struct {
	api       TrackerAPI
	blobs     capture.BlobStore
	maxUpload int64
	now       func() time.Time
}

// NewFoodService creates a FoodService. blobs may be nil when captured
// photos should not be kept.
func NewFoodService(api TrackerAPI, blobs capture.BlobStore, maxUpload int64) *FoodService {
	if maxUpload <= 0 {
		maxUpload = capture.DefaultMaxBytes
	}
	return &FoodService{api: api, blobs: blobs, maxUpload: maxUpload, now: time.Now}
}

// LogView prepares the log-food page for tab on date.
func (s *FoodService) LogView(ctx context.Context, token string, tab view.LogFoodTab, date string) (*LogFoodView, error) {
	if date == "" {
		date = s.now().Format(nutrition.DateLayout)
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	v := &LogFoodView{
		Tab:             tab,
		Date:            date,
		DefaultMealType: nutrition.DefaultMealType(s.now().Hour()),
		MealTypes:       nutrition.MealOrder,
	}
	switch tab {
	case view.TabQuick:
		foods, err := s.CommonFoods(ctx, token)
		if err != nil {
			return nil, err
		}
		v.CommonFoods = foods
	case view.TabCamera:
		v.MaxUploadBytes = s.maxUpload
	}
	return v, nil
}

// CommonFoods returns the quick-pick grid in display order.
func (s *FoodService) CommonFoods(ctx context.Context, token string) ([]types.CommonFood, error) {
	foods, err := s.api.CommonFoods(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load common foods: %w", err)
	}
	sort.SliceStable(foods, func(i, j int) bool { return foods[i].SortOrder < foods[j].SortOrder })
	return foods, nil
}

// Log creates an entry. It is placed on in.Date at the current time of day,
// or now when no date is given. An empty meal type is stored as snack.
func (s *FoodService) Log(ctx context.Context, token string, in LogInput) (*nutrition.FoodLogEntry, error) {
	meal, err := nutrition.ParseMealType(in.MealType)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if in.ServingQty == 0 {
		in.ServingQty = 1
	}
	form := nutrition.EditForm{
		FoodName:   in.FoodName,
		ProteinG:   in.ProteinG,
		Calories:   in.Calories,
		CarbsG:     in.CarbsG,
		ServingQty: in.ServingQty,
		MealType:   meal,
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	loggedAt := now
	if in.Date != "" {
		day, err := parseDate(in.Date)
		if err != nil {
			return nil, err
		}
		loggedAt = nutrition.LoggedAtFor(day, now)
	}

	req := types.LogRequestFromForm(form)
	req.FdcID = in.FdcID
	req.LoggedAt = loggedAt.Format(localTimestamp)

	entry, err := s.api.LogFood(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("failed to log food: %w", err)
	}
	out := entry.Entry()
	return &out, nil
}

// EditForm opens entry id, logged on date, for editing with per-serving
// values.
func (s *FoodService) EditForm(ctx context.Context, token string, id int64, date string) (*nutrition.EditForm, error) {
	stored, err := s.findEntry(ctx, token, id, date)
	if err != nil {
		return nil, err
	}
	form, err := nutrition.FormFromEntry(stored)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// EntryChanges is a submitted edit with per-serving values. Nil fields keep
// what is stored.
type EntryChanges struct {
	FoodName   *string          `json:"food_name"`
	ProteinG   *float64         `json:"protein_g"`
	Calories   *float64         `json:"calories"`
	CarbsG     *float64         `json:"carbs_g"`
	ServingQty *float64         `json:"serving_qty"`
	MealType   *string          `json:"meal_type"`
	LoggedAt   *types.Timestamp `json:"logged_at"`
}

func (c EntryChanges) applyTo(f *nutrition.EditForm) error {
	if c.FoodName != nil {
		f.FoodName = *c.FoodName
	}
	if c.ProteinG != nil {
		f.ProteinG = *c.ProteinG
	}
	if c.Calories != nil {
		f.Calories = *c.Calories
	}
	if c.CarbsG != nil {
		f.CarbsG = *c.CarbsG
	}
	if c.ServingQty != nil {
		f.ServingQty = *c.ServingQty
	}
	if c.MealType != nil {
		meal, err := nutrition.ParseMealType(*c.MealType)
		if err != nil {
			return invalid("%v", err)
		}
		f.MealType = meal
	}
	if c.LoggedAt != nil && !c.LoggedAt.IsZero() {
		f.LoggedAt = c.LoggedAt.Time
	}
	return nil
}

// Update saves an edit of entry id, currently logged on date. The stored
// entry is loaded first so that fields the edit leaves out, logged_at
// included, keep their values. The tracker receives per-serving values and
// stores per_serving * serving_qty.
func (s *FoodService) Update(ctx context.Context, token string, id int64, date string, changes EntryChanges) (*nutrition.FoodLogEntry, error) {
	stored, err := s.findEntry(ctx, token, id, date)
	if err != nil {
		return nil, err
	}
	form, err := nutrition.FormFromEntry(stored)
	if err != nil {
		return nil, err
	}
	if err := changes.applyTo(&form); err != nil {
		return nil, err
	}
	edited, err := form.Apply(stored)
	if err != nil {
		return nil, err
	}

	req := types.LogRequestFromForm(form)
	req.FdcID = edited.FdcID
	req.LoggedAt = edited.LoggedAt.Format(localTimestamp)

	entry, err := s.api.UpdateEntry(ctx, token, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry %d: %w", id, err)
	}
	out := entry.Entry()
	return &out, nil
}

// Delete removes entry id.
func (s *FoodService) Delete(ctx context.Context, token string, id int64) error {
	if err := s.api.DeleteEntry(ctx, token, id); err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}
	return nil
}

func (s *FoodService) findEntry(ctx context.Context, token string, id int64, date string) (nutrition.FoodLogEntry, error) {
	if _, err := parseDate(date); err != nil {
		return nutrition.FoodLogEntry{}, err
	}
	entries, err := s.api.Entries(ctx, token, date)
	if err != nil {
		return nutrition.FoodLogEntry{}, fmt.Errorf("failed to load entries: %w", err)
	}
	for _, e := range entries {
		if e.ID == id {
			return e.Entry(), nil
		}
	}
	return nutrition.FoodLogEntry{}, ErrEntryNotFound
}

// DetectionView is the result of the camera tab.
type DetectionView struct {
	State view.FlowState       `json:"state"`
	Foods []types.DetectedFood `json:"foods"`
	Total nutrition.DayTotals  `json:"total"`
	Image string               `json:"image_url,omitempty"`
	Error string               `json:"error,omitempty"`
}

// Detect captures the photo from device, optionally keeps it, and asks the
// tracker what food it shows.
func (s *FoodService) Detect(ctx context.Context, token string, device capture.Device) (*DetectionView, error) {
	photo, url, err := capture.Capture(ctx, device)
	if err != nil {
		return nil, err
	}

	res, err := s.api.DetectFood(ctx, token, photo.Filename, bytes.NewReader(photo.Data))
	if err != nil {
		log.Printf("[FoodService] detection failed: %v", err)
		return &DetectionView{State: view.FlowError, Image: url, Error: "failed to analyze image, try again"}, err
	}

	return &DetectionView{
		State: view.FlowSuccess,
		Foods: res.Foods,
		Total: nutrition.DayTotals{
			TotalProtein:  res.TotalProtein,
			TotalCalories: res.TotalCalories,
			TotalCarbs:    res.TotalCarbs,
		},
		Image: url,
	}, nil
}

// UploadDevice wraps a photo posted by userID as a capture device.
func (s *FoodService) UploadDevice(file *multipart.FileHeader, userID int64) capture.Device {
	return capture.NewUploadDevice(file, strconv.FormatInt(userID, 10), s.blobs, s.maxUpload)
}
