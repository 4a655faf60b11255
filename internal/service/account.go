package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

// AccountFilter narrows account listings. GroupID accepts a group id or
// domain.UnassignedFilter.
type AccountFilter struct {
	Search  string
	GroupID string
}

type CreateAccountInput struct {
	Name            string  `json:"name"`
	CompanyName     string  `json:"companyName"`
	MaxMonthlyLimit float64 `json:"maxMonthlyLimit"`
	GroupID         string  `json:"groupId"`
}

// UpdateAccountInput is a partial update; nil fields are left untouched and an
// empty GroupID detaches the account from its manual group.
type UpdateAccountInput struct {
	Name            *string  `json:"name"`
	CompanyName     *string  `json:"companyName"`
	MaxMonthlyLimit *float64 `json:"maxMonthlyLimit"`
	GroupID         *string  `json:"groupId"`
}

type AccountService struct {
	store EntityStore
}

func NewAccountService(store EntityStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) List(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]models.Account, 0, len(state.Accounts))
	for _, acc := range state.Accounts {
		if search != "" &&
			!strings.Contains(strings.ToLower(acc.Name), search) &&
			!strings.Contains(strings.ToLower(acc.CompanyName), search) &&
			!strings.Contains(strings.ToLower(acc.ID), search) {
			continue
		}
		switch filter.GroupID {
		case "":
		case domain.UnassignedFilter:
			if acc.GroupID != "" {
				continue
			}
		default:
			if acc.GroupID != filter.GroupID {
				continue
			}
		}
		out = append(out, acc)
	}
	return out, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexAccount(state.Accounts, id)
	if idx < 0 {
		return nil, notFoundf("account %s", id)
	}
	acc := state.Accounts[idx]
	return &acc, nil
}

// Create registers a manual account. It joins the current selection so the
// next run includes it.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" {
		return nil, invalidf("companyName is required")
	}
	if err := domain.ValidateLimit(in.MaxMonthlyLimit); err != nil {
		return nil, fmt.Errorf("maxMonthlyLimit: %w", err)
	}
	if in.Name = strings.TrimSpace(in.Name); in.Name == "" {
		in.Name = in.CompanyName
	}

	var created models.Account
	err := s.store.RunInTx(ctx, func(state *repository.State) error {
		if in.GroupID != "" && indexGroup(state.Groups, in.GroupID) < 0 {
			return invalidf("group %s does not exist", in.GroupID)
		}
		created = models.Account{
			ID:              shortID("ACC", 8),
			Name:            in.Name,
			CompanyName:     in.CompanyName,
			MaxMonthlyLimit: in.MaxMonthlyLimit,
			CurrentBalance:  domain.SeedAccountBalance,
			GroupID:         in.GroupID,
			IsManual:        true,
		}
		state.Accounts = append(state.Accounts, created)
		if state.Config != nil && len(state.Config.SelectedAccountIDs) > 0 {
			state.Config.SelectedAccountIDs = append(state.Config.SelectedAccountIDs, created.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *AccountService) Update(ctx context.Context, id string, in UpdateAccountInput) (*models.Account, error) {
	if in.MaxMonthlyLimit != nil {
		if err := domain.ValidateLimit(*in.MaxMonthlyLimit); err != nil {
			return nil, fmt.Errorf("maxMonthlyLimit: %w", err)
		}
	}
	if in.CompanyName != nil && strings.TrimSpace(*in.CompanyName) == "" {
		return nil, invalidf("companyName must not be empty")
	}

	var updated models.Account
	err := s.store.RunInTx(ctx, func(state *repository.State) error {
		idx := indexAccount(state.Accounts, id)
		if idx < 0 {
			return notFoundf("account %s", id)
		}
		acc := &state.Accounts[idx]
		if in.Name != nil {
			acc.Name = strings.TrimSpace(*in.Name)
		}
		if in.CompanyName != nil {
			acc.CompanyName = strings.TrimSpace(*in.CompanyName)
		}
		if in.MaxMonthlyLimit != nil {
			acc.MaxMonthlyLimit = *in.MaxMonthlyLimit
		}
		if in.GroupID != nil {
			if *in.GroupID != "" && indexGroup(state.Groups, *in.GroupID) < 0 {
				return invalidf("group %s does not exist", *in.GroupID)
			}
			acc.GroupID = *in.GroupID
		}
		updated = *acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the account and drops it from the selection. Scheduled
// transfers that reference it are left as they are until the next run.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.store.RunInTx(ctx, func(state *repository.State) error {
		idx := indexAccount(state.Accounts, id)
		if idx < 0 {
			return notFoundf("account %s", id)
		}
		state.Accounts = slices.Delete(state.Accounts, idx, idx+1)
		if state.Config != nil {
			state.Config.SelectedAccountIDs = slices.DeleteFunc(state.Config.SelectedAccountIDs, func(sel string) bool {
				return sel == id
			})
		}
		return nil
	})
}

func indexAccount(accounts []models.Account, id string) int {
	return slices.IndexFunc(accounts, func(a models.Account) bool { return a.ID == id })
}
