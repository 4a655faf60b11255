package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/observability"
)

// ReconciliationService verifies that the stored schedule conserves every
// active account's balance.
type ReconciliationService struct {
	store EntityStore
}

// NewReconciliationService creates a reconciliation service.
func NewReconciliationService(store EntityStore) *ReconciliationService {
	return &ReconciliationService{store: store}
}

// Run audits all active accounts over the whole period and returns the
// unbalanced ones.
func (s *ReconciliationService) Run(ctx context.Context) ([]models.AccountFlow, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	result := circulation.Audit(state.Transfers, auditAccounts(state, domain.ScopeAll), domain.ScopeAll, domain.ScopeAll)
	imbalanced := circulation.Imbalanced(result)
	if len(imbalanced) == 0 {
		zap.L().Info("schedule balanced", zap.Int("transfers", len(state.Transfers)))
		return nil, nil
	}

	for _, flow := range imbalanced {
		observability.IncrementImbalance(flow.ID)
		zap.L().Error("circulation imbalance detected",
			zap.String("account_id", flow.ID),
			zap.Int64("inflow", flow.Inflow),
			zap.Int64("outflow", flow.Outflow),
			zap.Int64("diff", flow.Diff),
		)
	}
	return imbalanced, nil
}
