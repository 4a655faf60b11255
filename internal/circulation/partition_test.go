package circulation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

func makeAccounts(n int) []models.Account {
	accounts := make([]models.Account, n)
	for i := range n {
		accounts[i] = models.Account{
			ID:              fmt.Sprintf("ACC-%d", 1000+i),
			CompanyName:     fmt.Sprintf("Entity %d", i),
			MaxMonthlyLimit: 1_000_000,
		}
	}
	return accounts
}

func groupSizes(groups []models.Group) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g.AccountIDs)
	}
	return sizes
}

func TestPartition_TrailingSingletonMergesIntoPreviousGroup(t *testing.T) {
	groups := Partition(makeAccounts(11), nil, 5, 30)

	require.Len(t, groups, 2)
	assert.Equal(t, []int{5, 6}, groupSizes(groups))
	assert.Equal(t, "ACC-1010", groups[1].AccountIDs[5])
	for _, g := range groups {
		assert.Equal(t, models.OriginAutomatic, g.Origin)
		assert.Equal(t, 30, g.CycleDays)
	}
	assert.NotEqual(t, groups[0].ID, groups[1].ID)
}

func TestPartition_GlobalModeForLargeGroupSize(t *testing.T) {
	groups := Partition(makeAccounts(10), nil, 60, 14)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].AccountIDs, 10)
	assert.Equal(t, 14, groups[0].CycleDays)
	assert.Equal(t, models.OriginAutomatic, groups[0].Origin)
}

func TestPartition_GlobalModeWhenGroupSizeCoversPool(t *testing.T) {
	groups := Partition(makeAccounts(4), nil, 4, 10)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].AccountIDs, 4)
}

func TestPartition_GroupSizeAtThresholdIsGlobal(t *testing.T) {
	groups := Partition(makeAccounts(120), nil, 51, 10)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].AccountIDs, 120)
}

func TestPartition_SingleUnassignedAccountIsExcluded(t *testing.T) {
	groups := Partition(makeAccounts(1), nil, 5, 10)
	assert.Empty(t, groups)

	groups = Partition(nil, nil, 5, 10)
	assert.Empty(t, groups)
}

func TestPartition_ClampsGroupSize(t *testing.T) {
	groups := Partition(makeAccounts(5), nil, 0, 0)

	// size 2 over 5 accounts: [2,2,1] -> [2,3]
	assert.Equal(t, []int{2, 3}, groupSizes(groups))
	for _, g := range groups {
		assert.Equal(t, 1, g.CycleDays)
	}
}

func TestPartition_ExactMultipleLeavesNoRemainder(t *testing.T) {
	groups := Partition(makeAccounts(9), nil, 3, 10)
	assert.Equal(t, []int{3, 3, 3}, groupSizes(groups))
}

func TestPartition_TrailingPairStaysSeparate(t *testing.T) {
	groups := Partition(makeAccounts(12), nil, 5, 10)
	assert.Equal(t, []int{5, 5, 2}, groupSizes(groups))
}

func TestPartition_ManualGroupsRecomputeMembership(t *testing.T) {
	accounts := makeAccounts(8)
	accounts[1].GroupID = "GRP-A"
	accounts[4].GroupID = "GRP-A"
	accounts[6].GroupID = "GRP-B"
	accounts[7].GroupID = "GRP-GONE" // stale reference counts as unassigned

	manual := []models.Group{
		{ID: "GRP-A", Name: "Alpha", AccountIDs: []string{"stale"}, CycleDays: 7},
		{ID: "GRP-B", Name: "Beta", CycleDays: 9},
		{ID: "GRP-C", Name: "Empty", CycleDays: 3},
	}

	groups := NewPartitioner(sequentialIDs("auto")).Partition(accounts, manual, 10, 30)

	require.Len(t, groups, 4)
	assert.Equal(t, []string{"ACC-1001", "ACC-1004"}, groups[0].AccountIDs)
	assert.Equal(t, models.OriginManual, groups[0].Origin)
	assert.Equal(t, 7, groups[0].CycleDays)
	assert.Equal(t, []string{"ACC-1006"}, groups[1].AccountIDs)
	assert.Empty(t, groups[2].AccountIDs)

	auto := groups[3]
	assert.Equal(t, models.OriginAutomatic, auto.Origin)
	assert.Equal(t, []string{"ACC-1000", "ACC-1002", "ACC-1003", "ACC-1005", "ACC-1007"}, auto.AccountIDs)

	assert.Equal(t, []string{"stale"}, manual[0].AccountIDs, "input groups must not be mutated")

	schedulable := Schedulable(groups)
	require.Len(t, schedulable, 2)
	assert.Equal(t, "GRP-A", schedulable[0].ID)
	assert.Equal(t, auto.ID, schedulable[1].ID)
}

func TestPartition_FreshIDsAcrossRuns(t *testing.T) {
	accounts := makeAccounts(6)
	first := Partition(accounts, nil, 3, 10)
	second := Partition(accounts, nil, 3, 10)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestActive(t *testing.T) {
	accounts := makeAccounts(4)

	all := Active(accounts, nil)
	require.Len(t, all, 4)
	all[0].Name = "changed"
	assert.Empty(t, accounts[0].Name)

	picked := Active(accounts, []string{"ACC-1003", "ACC-1001", "ACC-9999"})
	require.Len(t, picked, 2)
	assert.Equal(t, "ACC-1001", picked[0].ID)
	assert.Equal(t, "ACC-1003", picked[1].ID)
}
