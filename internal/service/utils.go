package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// executionTimeLayouts are accepted for scheduledExecutionTime. The second one
// is what HTML datetime-local inputs submit.
var executionTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrNotFound, fmt.Sprintf(format, args...))
}

// shortID returns prefix-XXXX with n upper-case hex characters.
func shortID(prefix string, n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:n])
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidf("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseExecutionTime parses a scheduled execution time. Values without a zone
// are read in loc.
func ParseExecutionTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range executionTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidf("scheduledExecutionTime %q is not a valid timestamp", s)
}

// DefaultConfig is used until a configuration has been saved.
func DefaultConfig(now time.Time) models.SimulationConfig {
	return models.SimulationConfig{
		AccountCount:       domain.DefaultAccountCount,
		GroupSize:          domain.DefaultGroupSize,
		CycleDays:          domain.DefaultCycleDays,
		GlobalMaxLimit:     domain.DefaultGlobalLimit,
		StartDate:          now.Format(domain.DateLayout),
		SelectedAccountIDs: []string{},
	}
}

// normalizeConfig validates cfg and clamps the group size.
func normalizeConfig(cfg models.SimulationConfig) (models.SimulationConfig, error) {
	if cfg.AccountCount < 0 {
		return cfg, invalidf("accountCount must not be negative")
	}
	if err := domain.ValidateCycleDays(cfg.CycleDays); err != nil {
		return cfg, err
	}
	if err := domain.ValidateLimit(cfg.GlobalMaxLimit); err != nil {
		return cfg, fmt.Errorf("globalMaxLimit: %w", err)
	}
	if _, err := ParseDate(cfg.StartDate); err != nil {
		return cfg, err
	}
	if cfg.ScheduledExecutionTime != "" {
		if _, err := ParseExecutionTime(cfg.ScheduledExecutionTime, time.UTC); err != nil {
			return cfg, err
		}
	} else if cfg.AutoExecutionEnabled {
		return cfg, invalidf("scheduledExecutionTime is required when auto execution is enabled")
	}
	cfg.GroupSize = max(cfg.GroupSize, domain.MinGroupSize)
	if cfg.SelectedAccountIDs == nil {
		cfg.SelectedAccountIDs = []string{}
	}
	return cfg, nil
}
