package models

import "time"

// Account is a participant in circulation groups.
type Account struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CompanyName     string  `json:"companyName"`
	MaxMonthlyLimit float64 `json:"maxMonthlyLimit"`
	CurrentBalance  float64 `json:"currentBalance"`
	GroupID         string  `json:"groupId,omitempty"`
	IsManual        bool    `json:"isManual,omitempty"`
}

// GroupOrigin tells manual groups apart from the ones synthesized per run.
type GroupOrigin string

const (
	OriginManual    GroupOrigin = "manual"
	OriginAutomatic GroupOrigin = "automatic"
)

// Group is a closed transfer loop over AccountIDs, walked in slice order.
type Group struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	AccountIDs []string    `json:"accountIds"`
	CycleDays  int         `json:"cycleDays"`
	Origin     GroupOrigin `json:"origin"`
}

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

type Transfer struct {
	ID            string         `json:"id"`
	FromAccountID string         `json:"fromAccountId"`
	ToAccountID   string         `json:"toAccountId"`
	Amount        int64          `json:"amount"`
	Date          string         `json:"date"` // YYYY-MM-DD
	Status        TransferStatus `json:"status"`
}

type SimulationConfig struct {
	AccountCount           int      `json:"accountCount"`
	GroupSize              int      `json:"groupSize"`
	CycleDays              int      `json:"cycleDays"`
	GlobalMaxLimit         float64  `json:"globalMaxLimit"`
	StartDate              string   `json:"startDate"`
	SelectedAccountIDs     []string `json:"selectedAccountIds"`
	AutoExecutionEnabled   bool     `json:"autoExecutionEnabled"`
	ScheduledExecutionTime string   `json:"scheduledExecutionTime"`
}

// HistoryEntry summarizes one scheduling run.
type HistoryEntry struct {
	ID                string           `json:"id"`
	Timestamp         time.Time        `json:"timestamp"`
	Config            SimulationConfig `json:"config"`
	InvolvedCompanies []string         `json:"involvedCompanies"`
	TotalVolume       int64            `json:"totalVolume"`
	TransferCount     int              `json:"transferCount"`
	GroupCount        int              `json:"groupCount"`
}

// AccountFlow is the inflow/outflow triple for one account.
type AccountFlow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Outflow  int64  `json:"outflow"`
	Inflow   int64  `json:"inflow"`
	Diff     int64  `json:"diff"`
	Balanced bool   `json:"balanced"`
}

// AuditResult is the conservation check for a scope and month.
type AuditResult struct {
	AccountFlow
	Month         string        `json:"month"`
	IsTotalAudit  bool          `json:"isTotalAudit"`
	IsGlobalAudit bool          `json:"isGlobalAudit"`
	Breakdowns    []AccountFlow `json:"breakdowns"`
}

// DailyVolume is the summed transfer amount scheduled on one date.
type DailyVolume struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}
