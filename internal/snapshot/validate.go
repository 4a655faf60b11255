package snapshot

import (
	"fmt"
	"time"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// Validate applies the same boundary rules the API enforces. Zero config
// values mean "use the default" and are accepted.
func (s *Snapshot) Validate() error {
	accountIDs := make(map[string]struct{}, len(s.Accounts))
	for i, acc := range s.Accounts {
		if acc.ID == "" {
			return fmt.Errorf("accounts[%d]: %w: id is required", i, models.ErrInvalidInput)
		}
		if _, dup := accountIDs[acc.ID]; dup {
			return fmt.Errorf("accounts[%d]: %w: duplicate id %s", i, models.ErrInvalidInput, acc.ID)
		}
		accountIDs[acc.ID] = struct{}{}
		if err := domain.ValidateLimit(acc.MaxMonthlyLimit); err != nil {
			return fmt.Errorf("accounts[%d] %s maxMonthlyLimit: %w", i, acc.ID, err)
		}
	}

	groupIDs := make(map[string]struct{}, len(s.Groups))
	for i, g := range s.Groups {
		if g.ID == "" {
			return fmt.Errorf("groups[%d]: %w: id is required", i, models.ErrInvalidInput)
		}
		if _, dup := groupIDs[g.ID]; dup {
			return fmt.Errorf("groups[%d]: %w: duplicate id %s", i, models.ErrInvalidInput, g.ID)
		}
		groupIDs[g.ID] = struct{}{}
		if err := domain.ValidateCycleDays(g.CycleDays); err != nil {
			return fmt.Errorf("groups[%d] %s: %w", i, g.ID, err)
		}
	}

	if s.Config == nil {
		return nil
	}
	cfg := s.Config
	if cfg.CycleDays != 0 {
		if err := domain.ValidateCycleDays(cfg.CycleDays); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if cfg.GroupSize < 0 {
		return fmt.Errorf("config: %w: groupSize must not be negative, got %d", models.ErrInvalidInput, cfg.GroupSize)
	}
	if cfg.StartDate != "" {
		if _, err := time.Parse(domain.DateLayout, cfg.StartDate); err != nil {
			return fmt.Errorf("config: %w: startDate %q must be YYYY-MM-DD", models.ErrInvalidInput, cfg.StartDate)
		}
	}
	for _, id := range cfg.SelectedAccountIDs {
		if _, ok := accountIDs[id]; !ok {
			return fmt.Errorf("config: %w: selected account %s does not exist", models.ErrInvalidInput, id)
		}
	}
	return nil
}
