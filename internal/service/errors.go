package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/pageza/proteinpal/internal/nutrition"
)

var (
	ErrInvalidDate          = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrInvalidInput         = errors.New("invalid input")
	ErrEntryNotFound        = errors.New("food entry not found")
	ErrDashboardUnavailable = errors.New("dashboard data unavailable")
)

// parseDate validates a YYYY-MM-DD date.
func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(nutrition.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
