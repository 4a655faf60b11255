package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

func TestValidateLimit(t *testing.T) {
	for _, ok := range []float64{0.01, 1_000_000, MaxLimit} {
		assert.NoError(t, ValidateLimit(ok), "limit %v", ok)
	}
	for _, bad := range []float64{0, -500, math.NaN(), math.Inf(1), math.Inf(-1), MaxLimit * 1.0001, 1e20} {
		assert.ErrorIs(t, ValidateLimit(bad), models.ErrInvalidInput, "limit %v", bad)
	}
}

func TestValidateCycleDays(t *testing.T) {
	assert.NoError(t, ValidateCycleDays(1))
	assert.NoError(t, ValidateCycleDays(30))
	assert.ErrorIs(t, ValidateCycleDays(0), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidateCycleDays(-7), models.ErrInvalidInput)
}
