package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

func TestGroupService_Create(t *testing.T) {
	svc := NewGroupService(newTestStore(t))
	ctx := context.Background()

	g, err := svc.Create(ctx, CreateGroupInput{Name: "Treasury"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(g.ID, "GRP-"))
	assert.Equal(t, domain.DefaultCycleDays, g.CycleDays)
	assert.Equal(t, models.OriginManual, g.Origin)
	assert.Empty(t, g.AccountIDs)

	_, err = svc.Create(ctx, CreateGroupInput{Name: ""})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Create(ctx, CreateGroupInput{Name: "Bad", CycleDays: -3})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGroupService_ListDerivesMembers(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Groups = []models.Group{
			{ID: "GRP-1", Name: "One", AccountIDs: []string{"stale"}, CycleDays: 7, Origin: models.OriginManual},
			{ID: "GRP-2", Name: "Two", CycleDays: 7, Origin: models.OriginManual},
		}
		state.Accounts = []models.Account{{ID: "A", GroupID: "GRP-1"}, {ID: "B"}, {ID: "C", GroupID: "GRP-1"}}
	})

	groups, err := NewGroupService(store).List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"A", "C"}, groups[0].AccountIDs)
	assert.Empty(t, groups[1].AccountIDs)
}

func TestGroupService_Update(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Groups = []models.Group{{ID: "GRP-1", Name: "One", CycleDays: 7, Origin: models.OriginManual}}
	})
	svc := NewGroupService(store)
	ctx := context.Background()

	g, err := svc.Update(ctx, "GRP-1", UpdateGroupInput{CycleDays: ptr(14)})
	require.NoError(t, err)
	assert.Equal(t, 14, g.CycleDays)
	assert.Equal(t, "One", g.Name)

	_, err = svc.Update(ctx, "GRP-1", UpdateGroupInput{CycleDays: ptr(0)})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Update(ctx, "GRP-1", UpdateGroupInput{Name: ptr(" ")})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Update(ctx, "GRP-9", UpdateGroupInput{Name: ptr("x")})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestGroupService_DeleteClearsMembers(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Groups = []models.Group{{ID: "GRP-1", Name: "One", CycleDays: 7, Origin: models.OriginManual}}
		state.Accounts = []models.Account{{ID: "A", GroupID: "GRP-1"}, {ID: "B", GroupID: "GRP-1"}, {ID: "C", GroupID: "GRP-X"}}
	})
	svc := NewGroupService(store)

	require.NoError(t, svc.Delete(context.Background(), "GRP-1"))
	require.ErrorIs(t, svc.Delete(context.Background(), "GRP-1"), models.ErrNotFound)

	state := snapshot(t, store)
	assert.Empty(t, state.Groups)
	assert.Empty(t, state.Accounts[0].GroupID)
	assert.Empty(t, state.Accounts[1].GroupID)
	assert.Equal(t, "GRP-X", state.Accounts[2].GroupID)
}
