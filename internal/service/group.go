package service

import (
	"context"
	"slices"
	"strings"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

type CreateGroupInput struct {
	Name      string `json:"name"`
	CycleDays int    `json:"cycleDays"`
}

type UpdateGroupInput struct {
	Name      *string `json:"name"`
	CycleDays *int    `json:"cycleDays"`
}

// GroupService manages manual groups. Membership lives on the accounts; the
// member lists returned here are derived from them.
type GroupService struct {
	store EntityStore
}

func NewGroupService(store EntityStore) *GroupService {
	return &GroupService{store: store}
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Group, 0, len(state.Groups))
	for _, g := range state.Groups {
		out = append(out, withMembers(g, state.Accounts))
	}
	return out, nil
}

func (s *GroupService) Create(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalidf("name is required")
	}
	if in.CycleDays == 0 {
		in.CycleDays = domain.DefaultCycleDays
	}
	if err := domain.ValidateCycleDays(in.CycleDays); err != nil {
		return nil, err
	}

	group := models.Group{
		ID:         shortID("GRP", 5),
		Name:       in.Name,
		AccountIDs: []string{},
		CycleDays:  in.CycleDays,
		Origin:     models.OriginManual,
	}
	err := s.store.RunInTx(ctx, func(state *repository.State) error {
		state.Groups = append(state.Groups, group)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *GroupService) Update(ctx context.Context, id string, in UpdateGroupInput) (*models.Group, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, invalidf("name must not be empty")
	}
	if in.CycleDays != nil {
		if err := domain.ValidateCycleDays(*in.CycleDays); err != nil {
			return nil, err
		}
	}

	var updated models.Group
	err := s.store.RunInTx(ctx, func(state *repository.State) error {
		idx := indexGroup(state.Groups, id)
		if idx < 0 {
			return notFoundf("group %s", id)
		}
		g := &state.Groups[idx]
		if in.Name != nil {
			g.Name = strings.TrimSpace(*in.Name)
		}
		if in.CycleDays != nil {
			g.CycleDays = *in.CycleDays
		}
		updated = withMembers(*g, state.Accounts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the group and detaches its members, which fall back to the
// automatic pool on the next run.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	return s.store.RunInTx(ctx, func(state *repository.State) error {
		idx := indexGroup(state.Groups, id)
		if idx < 0 {
			return notFoundf("group %s", id)
		}
		state.Groups = slices.Delete(state.Groups, idx, idx+1)
		for i := range state.Accounts {
			if state.Accounts[i].GroupID == id {
				state.Accounts[i].GroupID = ""
			}
		}
		return nil
	})
}

func withMembers(g models.Group, accounts []models.Account) models.Group {
	g.AccountIDs = make([]string, 0)
	for _, acc := range accounts {
		if acc.GroupID == g.ID {
			g.AccountIDs = append(g.AccountIDs, acc.ID)
		}
	}
	return g
}

func indexGroup(groups []models.Group, id string) int {
	return slices.IndexFunc(groups, func(g models.Group) bool { return g.ID == id })
}
