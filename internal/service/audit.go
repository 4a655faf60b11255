package service

import (
	"context"
	"strings"

	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

// AuditService checks the stored schedule for conservation.
type AuditService struct {
	store EntityStore
}

func NewAuditService(store EntityStore) *AuditService {
	return &AuditService{store: store}
}

// Audit evaluates scope ("all" or an account id) over month ("all" or
// YYYY-MM). The "all" scope covers the active accounts only.
func (s *AuditService) Audit(ctx context.Context, scope, month string) (*models.AuditResult, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, invalidf("scope is required")
	}
	if month == "" {
		month = domain.ScopeAll
	}
	if month != domain.ScopeAll && !validMonth(month) {
		return nil, invalidf("month %q must be YYYY-MM or all", month)
	}

	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := circulation.Audit(state.Transfers, auditAccounts(state, scope), scope, month)
	if result == nil {
		return nil, notFoundf("account %s", scope)
	}
	return result, nil
}

func auditAccounts(state *repository.State, scope string) []models.Account {
	if scope != domain.ScopeAll {
		return state.Accounts
	}
	var selected []string
	if state.Config != nil {
		selected = state.Config.SelectedAccountIDs
	}
	return circulation.Active(state.Accounts, selected)
}

func validMonth(month string) bool {
	_, err := ParseDate(month + "-01")
	return err == nil && len(month) == len(domain.MonthLayout)
}
