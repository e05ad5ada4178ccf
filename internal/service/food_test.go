package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/proteinpal/internal/capture"
	"github.com/pageza/proteinpal/internal/mocks"
	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/types"
	"github.com/pageza/proteinpal/internal/view"
)

func newFood(api *mocks.MockTracker) *FoodService {
	s := NewFoodService(api, nil, 0)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestLogViewQuickTab(t *testing.T) {
	api := new(mocks.MockTracker)
	api.On("CommonFoods", mock.Anything, "tok").Return([]types.CommonFood{
		{ID: 2, Name: "Tuna", SortOrder: 2},
		{ID: 1, Name: "Chicken", SortOrder: 1},
	}, nil)

	v, err := newFood(api).LogView(context.Background(), "tok", view.TabQuick, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", v.Date)
	assert.Equal(t, nutrition.Breakfast, v.DefaultMealType)
	require.Len(t, v.CommonFoods, 2)
	assert.Equal(t, "Chicken", v.CommonFoods[0].Name)
	assert.Zero(t, v.MaxUploadBytes)
}

func TestLogViewCameraTab(t *testing.T) {
	api := new(mocks.MockTracker)
	v, err := newFood(api).LogView(context.Background(), "tok", view.TabCamera, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(capture.DefaultMaxBytes), v.MaxUploadBytes)
	assert.Empty(t, v.CommonFoods)
	api.AssertNotCalled(t, "CommonFoods", mock.Anything, mock.Anything)
}

func TestLogDefaultsAndBackdating(t *testing.T) {
	api := new(mocks.MockTracker)
	want := types.FoodLogRequest{
		FoodName:   "Greek yogurt",
		ProteinG:   17,
		Calories:   100,
		MealType:   "snack",
		ServingQty: 1,
		LoggedAt:   "2024-03-10T08:30:00",
	}
	api.On("LogFood", mock.Anything, "tok", want).Return(&types.FoodEntry{
		ID: 9, FoodName: "Greek yogurt", ProteinG: 17, Calories: 100, MealType: "snack", ServingQty: 1,
	}, nil)

	entry, err := newFood(api).Log(context.Background(), "tok", LogInput{
		FoodName: "  Greek yogurt ",
		ProteinG: 17,
		Calories: 100,
		Date:     "2024-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), entry.ID)
	assert.Equal(t, nutrition.Snack, entry.MealType)
	api.AssertExpectations(t)
}

func TestLogRejectsBadInput(t *testing.T) {
	api := new(mocks.MockTracker)
	svc := newFood(api)

	_, err := svc.Log(context.Background(), "tok", LogInput{FoodName: "x", ServingQty: 0.05})
	assert.ErrorIs(t, err, nutrition.ErrInvalidServing)

	_, err = svc.Log(context.Background(), "tok", LogInput{FoodName: " ", ServingQty: 1})
	assert.ErrorIs(t, err, nutrition.ErrEmptyFoodName)

	_, err = svc.Log(context.Background(), "tok", LogInput{FoodName: "x", MealType: "brunch"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Log(context.Background(), "tok", LogInput{FoodName: "x", ProteinG: -1})
	assert.ErrorIs(t, err, nutrition.ErrNegativeMacro)

	api.AssertNotCalled(t, "LogFood", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditFormDividesByServing(t *testing.T) {
	api := new(mocks.MockTracker)
	at := types.Timestamp{Time: time.Date(2024, 3, 10, 7, 15, 0, 0, time.UTC)}
	api.On("Entries", mock.Anything, "tok", "2024-03-10").Return([]types.FoodEntry{
		{ID: 4, FoodName: "Eggs", ProteinG: 18, Calories: 210, CarbsG: 1.5, MealType: "breakfast", ServingQty: 3, LoggedAt: at},
	}, nil)

	form, err := newFood(api).EditForm(context.Background(), "tok", 4, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 6.0, form.ProteinG)
	assert.Equal(t, 70.0, form.Calories)
	assert.Equal(t, 0.5, form.CarbsG)
	assert.Equal(t, at.Time, form.LoggedAt)

	_, err = newFood(api).EditForm(context.Background(), "tok", 5, "2024-03-10")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func storedEggs(api *mocks.MockTracker) {
	api.On("Entries", mock.Anything, "tok", "2024-03-10").Return([]types.FoodEntry{{
		ID:         4,
		FoodName:   "Eggs",
		ProteinG:   18,
		Calories:   210,
		CarbsG:     1.5,
		MealType:   "breakfast",
		ServingQty: 3,
		LoggedAt:   types.Timestamp{Time: time.Date(2024, 3, 10, 7, 15, 0, 0, time.UTC)},
	}}, nil)
}

func f64(v float64) *float64 { return &v }

func TestUpdateWithoutLoggedAtKeepsStoredTime(t *testing.T) {
	api := new(mocks.MockTracker)
	storedEggs(api)
	name := "Eggs"
	meal := "breakfast"

	var sent types.FoodLogRequest
	api.On("UpdateEntry", mock.Anything, "tok", int64(4), mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).(types.FoodLogRequest) }).
		Return(&types.FoodEntry{ID: 4, FoodName: "Eggs", ProteinG: 12, Calories: 140, CarbsG: 1, MealType: "breakfast", ServingQty: 2}, nil)

	entry, err := newFood(api).Update(context.Background(), "tok", 4, "2024-03-10", EntryChanges{
		FoodName:   &name,
		ProteinG:   f64(6),
		Calories:   f64(70),
		ServingQty: f64(2),
		MealType:   &meal,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.0, entry.ProteinG)

	assert.Equal(t, "2024-03-10T07:15:00", sent.LoggedAt)
	assert.Equal(t, 6.0, sent.ProteinG)
	assert.Equal(t, 0.5, sent.CarbsG)
	assert.Equal(t, 2.0, sent.ServingQty)
	api.AssertExpectations(t)
}

func TestUpdateChangesLoggedAt(t *testing.T) {
	api := new(mocks.MockTracker)
	storedEggs(api)
	at := types.Timestamp{Time: time.Date(2024, 3, 9, 19, 0, 0, 0, time.UTC)}

	api.On("UpdateEntry", mock.Anything, "tok", int64(4), mock.MatchedBy(func(r types.FoodLogRequest) bool {
		return r.LoggedAt == "2024-03-09T19:00:00" && r.ServingQty == 3 && r.ProteinG == 6 && r.MealType == "breakfast"
	})).Return(&types.FoodEntry{ID: 4, FoodName: "Eggs", ProteinG: 18, MealType: "breakfast", ServingQty: 3, LoggedAt: at}, nil)

	_, err := newFood(api).Update(context.Background(), "tok", 4, "2024-03-10", EntryChanges{LoggedAt: &at})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestUpdateRejectsBadEdit(t *testing.T) {
	api := new(mocks.MockTracker)
	storedEggs(api)
	blank := "  "
	brunch := "brunch"

	_, err := newFood(api).Update(context.Background(), "tok", 4, "2024-03-10", EntryChanges{ServingQty: f64(0.05)})
	assert.ErrorIs(t, err, nutrition.ErrInvalidServing)

	_, err = newFood(api).Update(context.Background(), "tok", 4, "2024-03-10", EntryChanges{FoodName: &blank})
	assert.ErrorIs(t, err, nutrition.ErrEmptyFoodName)

	_, err = newFood(api).Update(context.Background(), "tok", 4, "2024-03-10", EntryChanges{MealType: &brunch})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = newFood(api).Update(context.Background(), "tok", 9, "2024-03-10", EntryChanges{ProteinG: f64(1)})
	assert.ErrorIs(t, err, ErrEntryNotFound)

	api.AssertNotCalled(t, "UpdateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteWrapsError(t *testing.T) {
	api := new(mocks.MockTracker)
	api.On("DeleteEntry", mock.Anything, "tok", int64(3)).Return(errors.New("gone"))

	err := newFood(api).Delete(context.Background(), "tok", 3)
	assert.ErrorContains(t, err, "failed to delete entry 3")
}

type fakeDevice struct {
	photo *capture.Photo
	url   string
}

type fakeStream struct{}

func (fakeStream) Read([]byte) (int, error) { return 0, errors.New("unused") }
func (fakeStream) Close() error             { return nil }
func (fakeStream) Name() string             { return "meal.jpg" }

func (d *fakeDevice) RequestStream(context.Context) (capture.Stream, error) {
	return fakeStream{}, nil
}

func (d *fakeDevice) CapturePhoto(context.Context, capture.Stream) (*capture.Photo, error) {
	return d.photo, nil
}

func (d *fakeDevice) UploadBlob(context.Context, *capture.Photo) (string, error) {
	return d.url, nil
}

func TestDetect(t *testing.T) {
	api := new(mocks.MockTracker)
	device := &fakeDevice{
		photo: &capture.Photo{Data: []byte("jpeg"), ContentType: "image/jpeg", Filename: "meal.jpg"},
		url:   "https://bucket/meal.jpg",
	}
	api.On("DetectFood", mock.Anything, "tok", "meal.jpg", mock.Anything).Return(&types.DetectionResult{
		Foods:        []types.DetectedFood{{Name: "Steak", ProteinG: 50}},
		TotalProtein: 50,
	}, nil)

	res, err := newFood(api).Detect(context.Background(), "tok", device)
	require.NoError(t, err)
	assert.Equal(t, view.FlowSuccess, res.State)
	assert.Equal(t, 50.0, res.Total.TotalProtein)
	assert.Equal(t, "https://bucket/meal.jpg", res.Image)
}

func TestDetectFailure(t *testing.T) {
	api := new(mocks.MockTracker)
	device := &fakeDevice{photo: &capture.Photo{Data: []byte("jpeg"), Filename: "meal.jpg"}}
	api.On("DetectFood", mock.Anything, "tok", "meal.jpg", mock.Anything).Return(nil, errors.New("model offline"))

	res, err := newFood(api).Detect(context.Background(), "tok", device)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, view.FlowError, res.State)
	assert.NotEmpty(t, res.Error)
}
