package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

func TestAccountService_CreateValidates(t *testing.T) {
	svc := NewAccountService(newTestStore(t))
	ctx := context.Background()

	cases := map[string]CreateAccountInput{
		"empty company":   {CompanyName: "  ", MaxMonthlyLimit: 100},
		"zero limit":      {CompanyName: "Acme", MaxMonthlyLimit: 0},
		"negative limit":  {CompanyName: "Acme", MaxMonthlyLimit: -5},
		"nan limit":       {CompanyName: "Acme", MaxMonthlyLimit: math.NaN()},
		"inf limit":       {CompanyName: "Acme", MaxMonthlyLimit: math.Inf(1)},
		"oversized limit": {CompanyName: "Acme", MaxMonthlyLimit: 1e20},
		"unknown group":   {CompanyName: "Acme", MaxMonthlyLimit: 100, GroupID: "GRP-NOPE"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, in)
			require.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestAccountService_CreateJoinsSelection(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Accounts = []models.Account{{ID: "ACC-1000", CompanyName: "A", MaxMonthlyLimit: 10}}
		state.Config = &models.SimulationConfig{SelectedAccountIDs: []string{"ACC-1000"}}
	})
	svc := NewAccountService(store)

	acc, err := svc.Create(context.Background(), CreateAccountInput{CompanyName: " Acme ", MaxMonthlyLimit: 250000})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(acc.ID, "ACC-"))
	assert.Len(t, acc.ID, len("ACC-")+8)
	assert.Equal(t, "Acme", acc.CompanyName)
	assert.Equal(t, "Acme", acc.Name)
	assert.True(t, acc.IsManual)
	assert.Equal(t, float64(domain.SeedAccountBalance), acc.CurrentBalance)

	state := snapshot(t, store)
	require.Len(t, state.Accounts, 2)
	assert.Equal(t, []string{"ACC-1000", acc.ID}, state.Config.SelectedAccountIDs)
}

func TestAccountService_CreateWithEmptySelectionKeepsAllSelected(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Config = &models.SimulationConfig{SelectedAccountIDs: []string{}}
	})

	_, err := NewAccountService(store).Create(context.Background(), CreateAccountInput{CompanyName: "Acme", MaxMonthlyLimit: 1})
	require.NoError(t, err)
	assert.Empty(t, snapshot(t, store).Config.SelectedAccountIDs)
}

func TestAccountService_List(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Groups = []models.Group{{ID: "GRP-1", Name: "Ops", Origin: models.OriginManual}}
		state.Accounts = []models.Account{
			{ID: "ACC-1", Name: "Account 1", CompanyName: "Northwind", GroupID: "GRP-1"},
			{ID: "ACC-2", Name: "Account 2", CompanyName: "Contoso"},
			{ID: "ACC-3", Name: "Account 3", CompanyName: "Northgate"},
		}
	})
	svc := NewAccountService(store)
	ctx := context.Background()

	ids := func(accounts []models.Account) []string {
		out := make([]string, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, a.ID)
		}
		return out
	}

	all, err := svc.List(ctx, AccountFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACC-1", "ACC-2", "ACC-3"}, ids(all))

	north, err := svc.List(ctx, AccountFilter{Search: "NORTH"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACC-1", "ACC-3"}, ids(north))

	byID, err := svc.List(ctx, AccountFilter{Search: "acc-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACC-2"}, ids(byID))

	grouped, err := svc.List(ctx, AccountFilter{GroupID: "GRP-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACC-1"}, ids(grouped))

	unassigned, err := svc.List(ctx, AccountFilter{GroupID: domain.UnassignedFilter, Search: "north"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACC-3"}, ids(unassigned))
}

func TestAccountService_Update(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Groups = []models.Group{{ID: "GRP-1", Name: "Ops", Origin: models.OriginManual}}
		state.Accounts = []models.Account{{ID: "ACC-1", Name: "One", CompanyName: "Acme", MaxMonthlyLimit: 100}}
	})
	svc := NewAccountService(store)
	ctx := context.Background()

	acc, err := svc.Update(ctx, "ACC-1", UpdateAccountInput{MaxMonthlyLimit: ptr(200.5), GroupID: ptr("GRP-1")})
	require.NoError(t, err)
	assert.Equal(t, 200.5, acc.MaxMonthlyLimit)
	assert.Equal(t, "GRP-1", acc.GroupID)
	assert.Equal(t, "Acme", acc.CompanyName)

	acc, err = svc.Update(ctx, "ACC-1", UpdateAccountInput{GroupID: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, acc.GroupID)

	_, err = svc.Update(ctx, "ACC-1", UpdateAccountInput{MaxMonthlyLimit: ptr(math.Inf(-1))})
	require.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Update(ctx, "ACC-1", UpdateAccountInput{GroupID: ptr("GRP-404")})
	require.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Update(ctx, "ACC-404", UpdateAccountInput{Name: ptr("x")})
	require.ErrorIs(t, err, models.ErrNotFound)

	got, err := svc.Get(ctx, "ACC-1")
	require.NoError(t, err)
	assert.Equal(t, 200.5, got.MaxMonthlyLimit)
}

func TestAccountService_DeleteDropsSelection(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Accounts = []models.Account{{ID: "ACC-1"}, {ID: "ACC-2"}}
		state.Config = &models.SimulationConfig{SelectedAccountIDs: []string{"ACC-1", "ACC-2"}}
	})
	svc := NewAccountService(store)

	require.NoError(t, svc.Delete(context.Background(), "ACC-1"))
	require.ErrorIs(t, svc.Delete(context.Background(), "ACC-1"), models.ErrNotFound)

	state := snapshot(t, store)
	require.Len(t, state.Accounts, 1)
	assert.Equal(t, "ACC-2", state.Accounts[0].ID)
	assert.Equal(t, []string{"ACC-2"}, state.Config.SelectedAccountIDs)
}
