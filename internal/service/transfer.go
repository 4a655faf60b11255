package service

import (
	"cmp"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/export"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

// Transfer sort fields.
const (
	SortDate        = "date"
	SortAmount      = "amount"
	SortStatus      = "status"
	SortFromAccount = "fromAccount"
	SortToAccount   = "toAccount"
)

// TransferQuery filters and orders the stored schedule. Empty fields and
// "all" match everything.
type TransferQuery struct {
	Search        string
	Status        string
	GroupID       string
	FromAccountID string
	ToAccountID   string
	MinAmount     *int64
	MaxAmount     *int64
	SortField     string
	SortOrder     string
}

func (q TransferQuery) validate() error {
	if !anyValue(q.Status) && !models.TransferStatus(q.Status).Valid() {
		return invalidf("unknown status %q", q.Status)
	}
	switch q.SortField {
	case "", SortDate, SortAmount, SortStatus, SortFromAccount, SortToAccount:
	default:
		return invalidf("unknown sort field %q", q.SortField)
	}
	switch q.SortOrder {
	case "", "asc", "desc":
	default:
		return invalidf("sort order must be asc or desc")
	}
	if q.MinAmount != nil && q.MaxAmount != nil && *q.MinAmount > *q.MaxAmount {
		return invalidf("minAmount must not exceed maxAmount")
	}
	return nil
}

func anyValue(v string) bool {
	return v == "" || v == domain.ScopeAll
}

type TransferService struct {
	store EntityStore
}

func NewTransferService(store EntityStore) *TransferService {
	return &TransferService{store: store}
}

func (s *TransferService) List(ctx context.Context, q TransferQuery) ([]models.Transfer, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query(state, q), nil
}

// UpdateDate moves one transfer to another day. The rest of the schedule is
// left untouched.
func (s *TransferService) UpdateDate(ctx context.Context, id, date string) (*models.Transfer, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	var updated models.Transfer
	err := s.store.RunInTx(ctx, func(state *repository.State) error {
		idx := slices.IndexFunc(state.Transfers, func(tx models.Transfer) bool { return tx.ID == id })
		if idx < 0 {
			return notFoundf("transfer %s", id)
		}
		state.Transfers[idx].Date = date
		updated = state.Transfers[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ExportCSV writes the transfers matching q as CSV.
func (s *TransferService) ExportCSV(ctx context.Context, w io.Writer, q TransferQuery) error {
	if err := q.validate(); err != nil {
		return err
	}
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	return export.WriteTransfers(w, query(state, q), export.NewLabels(state.Accounts, state.Groups))
}

func (s *TransferService) DailyVolumes(ctx context.Context) ([]models.DailyVolume, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return circulation.DailyVolumes(state.Transfers), nil
}

// Months lists the audit month options for the stored schedule.
func (s *TransferService) Months(ctx context.Context) ([]string, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return circulation.AvailableMonths(state.Transfers), nil
}

func query(state *repository.State, q TransferQuery) []models.Transfer {
	labels := export.NewLabels(state.Accounts, state.Groups)
	groupOf := make(map[string]string, len(state.Accounts))
	for _, acc := range state.Accounts {
		groupOf[acc.ID] = acc.GroupID
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Transfer, 0, len(state.Transfers))
	for _, tx := range state.Transfers {
		if search != "" &&
			!strings.Contains(strings.ToLower(labels.Account(tx.FromAccountID)), search) &&
			!strings.Contains(strings.ToLower(labels.Account(tx.ToAccountID)), search) &&
			!strings.Contains(tx.Date, search) {
			continue
		}
		if !anyValue(q.Status) && string(tx.Status) != q.Status {
			continue
		}
		if !anyValue(q.GroupID) {
			group := groupOf[tx.FromAccountID]
			if q.GroupID == domain.UnassignedFilter {
				if group != "" {
					continue
				}
			} else if group != q.GroupID {
				continue
			}
		}
		if !anyValue(q.FromAccountID) && tx.FromAccountID != q.FromAccountID {
			continue
		}
		if !anyValue(q.ToAccountID) && tx.ToAccountID != q.ToAccountID {
			continue
		}
		if q.MinAmount != nil && tx.Amount < *q.MinAmount {
			continue
		}
		if q.MaxAmount != nil && tx.Amount > *q.MaxAmount {
			continue
		}
		out = append(out, tx)
	}

	compare := func(a, b models.Transfer) int {
		switch q.SortField {
		case SortAmount:
			return cmp.Compare(a.Amount, b.Amount)
		case SortStatus:
			return cmp.Compare(a.Status, b.Status)
		case SortFromAccount:
			return cmp.Compare(labels.Account(a.FromAccountID), labels.Account(b.FromAccountID))
		case SortToAccount:
			return cmp.Compare(labels.Account(a.ToAccountID), labels.Account(b.ToAccountID))
		default:
			return cmp.Compare(a.Date, b.Date)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Transfer) int {
		if q.SortOrder == "desc" {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}
