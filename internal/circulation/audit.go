package circulation

import (
	"slices"
	"strings"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// Audit aggregates inflow and outflow for scope ("all" or an account id) over
// month ("all" or "YYYY-MM"). accounts is the active account set; for the
// "all" scope each of them gets a breakdown row and the system total is
// balanced by construction. It returns nil when scope names no account in
// accounts.
func Audit(transfers []models.Transfer, accounts []models.Account, scope, month string) *models.AuditResult {
	if scope == "" {
		return nil
	}
	included := FilterMonth(transfers, month)

	if scope == domain.ScopeAll {
		var total int64
		for _, tx := range included {
			total += tx.Amount
		}
		breakdowns := make([]models.AccountFlow, 0, len(accounts))
		for _, acc := range accounts {
			breakdowns = append(breakdowns, flowFor(included, acc))
		}
		return &models.AuditResult{
			AccountFlow: models.AccountFlow{
				ID:       domain.SystemScopeID,
				Name:     "All participants (system total)",
				Outflow:  total,
				Inflow:   total,
				Balanced: true,
			},
			Month:         month,
			IsTotalAudit:  month == domain.ScopeAll,
			IsGlobalAudit: true,
			Breakdowns:    breakdowns,
		}
	}

	idx := slices.IndexFunc(accounts, func(a models.Account) bool { return a.ID == scope })
	if idx < 0 {
		return nil
	}
	return &models.AuditResult{
		AccountFlow:  flowFor(included, accounts[idx]),
		Month:        month,
		IsTotalAudit: month == domain.ScopeAll,
		Breakdowns:   []models.AccountFlow{},
	}
}

// Imbalanced returns the breakdown rows that failed the conservation check.
func Imbalanced(result *models.AuditResult) []models.AccountFlow {
	if result == nil {
		return nil
	}
	var out []models.AccountFlow
	for _, row := range result.Breakdowns {
		if !row.Balanced {
			out = append(out, row)
		}
	}
	if !result.IsGlobalAudit && !result.Balanced {
		out = append(out, result.AccountFlow)
	}
	return out
}

// FilterMonth keeps the transfers dated in month; "all" or "" keeps everything.
func FilterMonth(transfers []models.Transfer, month string) []models.Transfer {
	if month == "" || month == domain.ScopeAll {
		return transfers
	}
	out := make([]models.Transfer, 0, len(transfers))
	for _, tx := range transfers {
		if strings.HasPrefix(tx.Date, month+"-") {
			out = append(out, tx)
		}
	}
	return out
}

// AvailableMonths lists "all" followed by every month with a transfer.
func AvailableMonths(transfers []models.Transfer) []string {
	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, tx := range transfers {
		if len(tx.Date) < len(domain.MonthLayout) {
			continue
		}
		m := tx.Date[:len(domain.MonthLayout)]
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	slices.Sort(months)
	return append([]string{domain.ScopeAll}, months...)
}

// DailyVolumes sums transfer amounts per date in ascending date order.
func DailyVolumes(transfers []models.Transfer) []models.DailyVolume {
	sums := make(map[string]int64)
	for _, tx := range transfers {
		sums[tx.Date] += tx.Amount
	}
	out := make([]models.DailyVolume, 0, len(sums))
	for date, amount := range sums {
		out = append(out, models.DailyVolume{Date: date, Amount: amount})
	}
	slices.SortFunc(out, func(a, b models.DailyVolume) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}

func flowFor(transfers []models.Transfer, acc models.Account) models.AccountFlow {
	flow := models.AccountFlow{ID: acc.ID, Name: acc.CompanyName}
	for _, tx := range transfers {
		if tx.FromAccountID == acc.ID {
			flow.Outflow += tx.Amount
		}
		if tx.ToAccountID == acc.ID {
			flow.Inflow += tx.Amount
		}
	}
	flow.Diff = flow.Inflow - flow.Outflow
	flow.Balanced = flow.Diff == 0
	return flow
}
