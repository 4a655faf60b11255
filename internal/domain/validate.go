package domain

import (
	"fmt"
	"math"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// MaxLimit caps monthly limits so a group's volume, summed over every edge of
// a run, stays inside int64.
const MaxLimit = 1e15

// ValidateLimit rejects limits that are not finite, not positive or above
// MaxLimit.
func ValidateLimit(limit float64) error {
	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return fmt.Errorf("%w: limit must be a finite number", models.ErrInvalidInput)
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %v", models.ErrInvalidInput, limit)
	}
	if limit > MaxLimit {
		return fmt.Errorf("%w: limit must not exceed %.0f, got %v", models.ErrInvalidInput, MaxLimit, limit)
	}
	return nil
}

func ValidateCycleDays(days int) error {
	if days < MinCycleDays {
		return fmt.Errorf("%w: cycleDays must be at least %d, got %d", models.ErrInvalidInput, MinCycleDays, days)
	}
	return nil
}
