package circulation

import (
	"fmt"
	"slices"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// Partitioner turns the active account pool into the final group list for one
// scheduling run.
type Partitioner struct {
	newID IDFunc
}

// NewPartitioner creates a partitioner. A nil newID allocates "auto-<uuid>" ids.
func NewPartitioner(newID IDFunc) *Partitioner {
	if newID == nil {
		newID = PrefixedUUID("auto")
	}
	return &Partitioner{newID: newID}
}

// Partition combines manual groups, with membership recomputed from the
// accounts' group references, with automatic groups built from the accounts no
// manual group claims. Manual groups are returned even when they end up with
// fewer than two members; see Schedulable.
func (p *Partitioner) Partition(accounts []models.Account, manualGroups []models.Group, groupSize, cycleDays int) []models.Group {
	groupSize = max(groupSize, domain.MinGroupSize)
	cycleDays = max(cycleDays, domain.MinCycleDays)

	manualIDs := make(map[string]struct{}, len(manualGroups))
	for _, g := range manualGroups {
		manualIDs[g.ID] = struct{}{}
	}

	result := make([]models.Group, 0, len(manualGroups)+1)
	for _, g := range manualGroups {
		members := make([]string, 0)
		for _, acc := range accounts {
			if acc.GroupID == g.ID {
				members = append(members, acc.ID)
			}
		}
		g.AccountIDs = members
		g.Origin = models.OriginManual
		result = append(result, g)
	}

	unassigned := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		if _, ok := manualIDs[acc.GroupID]; !ok {
			unassigned = append(unassigned, acc.ID)
		}
	}

	if groupSize >= domain.GlobalModeGroupSize || groupSize >= len(unassigned) {
		if len(unassigned) >= domain.MinGroupSize {
			result = append(result, models.Group{
				ID:         p.newID(),
				Name:       "Auto global pool",
				AccountIDs: unassigned,
				CycleDays:  cycleDays,
				Origin:     models.OriginAutomatic,
			})
		}
		return result
	}

	lastAuto := -1
	for start := 0; start < len(unassigned); start += groupSize {
		batch := unassigned[start:min(start+groupSize, len(unassigned))]
		if len(batch) == 1 {
			if lastAuto >= 0 {
				result[lastAuto].AccountIDs = append(result[lastAuto].AccountIDs, batch[0])
			}
			continue
		}
		result = append(result, models.Group{
			ID:         p.newID(),
			Name:       fmt.Sprintf("Auto chain %d", len(result)-len(manualGroups)+1),
			AccountIDs: append([]string(nil), batch...),
			CycleDays:  cycleDays,
			Origin:     models.OriginAutomatic,
		})
		lastAuto = len(result) - 1
	}
	return result
}

// Schedulable drops groups that cannot form a cycle.
func Schedulable(groups []models.Group) []models.Group {
	out := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if len(g.AccountIDs) >= domain.MinGroupSize {
			out = append(out, g)
		}
	}
	return out
}

// Partition runs a partitioner with uuid-based automatic group ids.
func Partition(accounts []models.Account, manualGroups []models.Group, groupSize, cycleDays int) []models.Group {
	return NewPartitioner(nil).Partition(accounts, manualGroups, groupSize, cycleDays)
}

// Active resolves a run's account pool: the selected accounts in input order,
// or every account when nothing is selected.
func Active(accounts []models.Account, selected []string) []models.Account {
	if len(selected) == 0 {
		return slices.Clone(accounts)
	}
	want := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	out := make([]models.Account, 0, len(selected))
	for _, acc := range accounts {
		if _, ok := want[acc.ID]; ok {
			out = append(out, acc)
		}
	}
	return out
}
