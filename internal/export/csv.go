// Package export renders schedules for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// BOM lets spreadsheet tools detect UTF-8 company names.
const BOM = "\uFEFF"

// Header is the first CSV row.
var Header = []string{"date", "from_account", "to_account", "amount", "status", "group"}

// AutoGroupLabel labels transfers whose source account has no manual group.
const AutoGroupLabel = "Auto pool"

// Labels resolves account and group display names.
type Labels struct {
	accounts map[string]models.Account
	groups   map[string]string
}

func NewLabels(accounts []models.Account, groups []models.Group) *Labels {
	l := &Labels{
		accounts: make(map[string]models.Account, len(accounts)),
		groups:   make(map[string]string, len(groups)),
	}
	for _, acc := range accounts {
		l.accounts[acc.ID] = acc
	}
	for _, g := range groups {
		l.groups[g.ID] = g.Name
	}
	return l
}

// Account returns the company name, or the id for unknown accounts.
func (l *Labels) Account(id string) string {
	if acc, ok := l.accounts[id]; ok && acc.CompanyName != "" {
		return acc.CompanyName
	}
	return id
}

// Group returns the manual group name of an account.
func (l *Labels) Group(accountID string) string {
	acc, ok := l.accounts[accountID]
	if !ok {
		return "N/A"
	}
	if name, ok := l.groups[acc.GroupID]; ok {
		return name
	}
	return AutoGroupLabel
}

// WriteTransfers writes a BOM, the header and one row per transfer.
func WriteTransfers(w io.Writer, transfers []models.Transfer, labels *Labels) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range transfers {
		row := []string{
			tx.Date,
			labels.Account(tx.FromAccountID),
			labels.Account(tx.ToAccountID),
			strconv.FormatInt(tx.Amount, 10),
			string(tx.Status),
			labels.Group(tx.FromAccountID),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
