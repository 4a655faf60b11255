package circulation

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// Generator builds the transfer schedule for a set of groups.
type Generator struct {
	rnd   Rand
	newID IDFunc
}

// NewGenerator creates a generator drawing from rnd. A nil newID allocates
// "tx-<uuid>" ids.
func NewGenerator(rnd Rand, newID IDFunc) *Generator {
	if newID == nil {
		newID = PrefixedUUID("tx")
	}
	return &Generator{rnd: rnd, newID: newID}
}

// Generate returns every group's sub-transfers sorted by date. Groups with
// fewer than two resolvable members or a volume too small to simulate
// contribute nothing. The smallest member limit is capped at
// domain.MaxLimit before the volume is drawn.
func (g *Generator) Generate(groups []models.Group, accounts []models.Account, startDate time.Time) []models.Transfer {
	byID := make(map[string]models.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}

	var transfers []models.Transfer
	for _, group := range groups {
		transfers = g.appendGroup(transfers, group, byID, startDate)
	}

	slices.SortStableFunc(transfers, func(a, b models.Transfer) int {
		return strings.Compare(a.Date, b.Date)
	})
	return transfers
}

// CirculationVolume draws the per-edge volume for a group whose smallest limit
// is minLimit.
func (g *Generator) CirculationVolume(minLimit float64) int64 {
	ratio := domain.VolumeRatioMin + g.rnd.Float64()*domain.VolumeRatioSpan
	return domain.FloorScaled(minLimit, ratio)
}

func (g *Generator) appendGroup(out []models.Transfer, group models.Group, byID map[string]models.Account, start time.Time) []models.Transfer {
	members := make([]models.Account, 0, len(group.AccountIDs))
	for _, id := range group.AccountIDs {
		if acc, ok := byID[id]; ok {
			members = append(members, acc)
		}
	}
	if len(members) < domain.MinGroupSize {
		return out
	}

	minLimit := math.Inf(1)
	for _, acc := range members {
		minLimit = math.Min(minLimit, acc.MaxMonthlyLimit)
	}
	// Limits above MaxLimit schedule as MaxLimit.
	minLimit = math.Min(minLimit, domain.MaxLimit)
	volume := g.CirculationVolume(minLimit)
	if volume <= domain.MinCirculationVolume {
		return out
	}

	cycleDays := max(group.CycleDays, domain.MinCycleDays)
	n := len(members)
	for i := range n {
		from, to := members[i], members[(i+1)%n]
		if from.ID == to.ID {
			continue
		}
		for _, amount := range SplitVolume(volume, g.splitCount(volume), g.rnd) {
			if amount <= 0 {
				continue
			}
			offset := g.rnd.IntN(cycleDays)
			out = append(out, models.Transfer{
				ID:            g.newID(),
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				Amount:        amount,
				Date:          start.AddDate(0, 0, offset).Format(domain.DateLayout),
				Status:        models.TransferPending,
			})
		}
	}
	return out
}

func (g *Generator) splitCount(volume int64) int {
	if volume <= domain.SmallVolumeThreshold {
		return domain.SmallVolumeSplits
	}
	return domain.MinLargeVolumeSplits + g.rnd.IntN(domain.MaxLargeVolumeSplits-domain.MinLargeVolumeSplits+1)
}

// SplitVolume cuts volume into k amounts. Non-final cuts are drawn from
// [minCut, minCut+max(1, maxCut-minCut)); the final cut takes whatever
// remains. Every non-final cut is at least 1, so only the final cut can be
// non-positive, and only when volume < k; SplitVolume(1, 3) is [1 1 -1].
// Callers drop it without rebalancing, so the kept amounts can exceed volume
// but never fall short of it. Generate only splits volumes above
// MinCirculationVolume, which always leave a positive final cut.
func SplitVolume(volume int64, k int, rnd Rand) []int64 {
	amounts := make([]int64, 0, k)
	remaining := volume
	for j := range k {
		if j == k-1 {
			amounts = append(amounts, remaining)
			break
		}
		avg := float64(remaining) / float64(k-j)
		maxCut := int64(math.Floor(float64(remaining) * 0.5))
		minCut := max(1, int64(math.Floor(avg*0.5)))
		span := max(1, maxCut-minCut)
		amount := int64(math.Floor(float64(minCut) + rnd.Float64()*float64(span)))
		remaining -= amount
		amounts = append(amounts, amount)
	}
	return amounts
}

// Generate runs a generator over rnd with uuid-based transfer ids.
func Generate(groups []models.Group, accounts []models.Account, startDate time.Time, rnd Rand) []models.Transfer {
	return NewGenerator(rnd, nil).Generate(groups, accounts, startDate)
}
