package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Accounts: []models.Account{
			{ID: "A", MaxMonthlyLimit: 1000, GroupID: "G1"},
			{ID: "B", MaxMonthlyLimit: 2000, GroupID: "G1"},
		},
		Groups: []models.Group{{ID: "G1", CycleDays: 30}},
		Config: &models.SimulationConfig{GroupSize: 3, CycleDays: 10, StartDate: "2024-03-01", SelectedAccountIDs: []string{"A"}},
	}
}

func TestValidate_Accepts(t *testing.T) {
	assert.NoError(t, validSnapshot().Validate())

	noConfig := validSnapshot()
	noConfig.Config = nil
	assert.NoError(t, noConfig.Validate())

	defaults := validSnapshot()
	defaults.Config = &models.SimulationConfig{}
	assert.NoError(t, defaults.Validate())
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(s *Snapshot){
		"negative limit":       func(s *Snapshot) { s.Accounts[0].MaxMonthlyLimit = -500 },
		"oversized limit":      func(s *Snapshot) { s.Accounts[1].MaxMonthlyLimit = 1e20 },
		"missing account id":   func(s *Snapshot) { s.Accounts[0].ID = "" },
		"duplicate account id": func(s *Snapshot) { s.Accounts[1].ID = "A" },
		"negative cycle days":  func(s *Snapshot) { s.Groups[0].CycleDays = -7 },
		"missing group id":     func(s *Snapshot) { s.Groups[0].ID = "" },
		"config cycle days":    func(s *Snapshot) { s.Config.CycleDays = -1 },
		"config group size":    func(s *Snapshot) { s.Config.GroupSize = -2 },
		"config start date":    func(s *Snapshot) { s.Config.StartDate = "03/01/2024" },
		"unknown selection":    func(s *Snapshot) { s.Config.SelectedAccountIDs = []string{"Z"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			snap := validSnapshot()
			mutate(snap)
			assert.ErrorIs(t, snap.Validate(), models.ErrInvalidInput)
		})
	}
}
