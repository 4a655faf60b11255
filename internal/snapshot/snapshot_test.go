package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	snap := Snapshot{
		Accounts: []models.Account{{ID: "ACC-1", CompanyName: "North", MaxMonthlyLimit: 5000}},
		Groups:   []models.Group{{ID: "GRP-1", Name: "Ring", CycleDays: 30, Origin: models.OriginManual}},
		Config:   &models.SimulationConfig{GroupSize: 3, CycleDays: 10, StartDate: "2024-03-01"},
	}
	require.NoError(t, Save(path, snap))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Accounts, loaded.Accounts)
	require.NotNil(t, loaded.Config)
	assert.Equal(t, "2024-03-01", loaded.Config.StartDate)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSave_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Save(path, Plan{TotalVolume: 42}))

	transfers, err := LoadTransfers(path)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "decoding snapshot")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, Save(invalid, Snapshot{Accounts: []models.Account{{ID: "A", MaxMonthlyLimit: -1}}}))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestLoadTransfers_AcceptsArrayAndPlan(t *testing.T) {
	dir := t.TempDir()
	transfers := []models.Transfer{
		{ID: "t1", FromAccountID: "A", ToAccountID: "B", Amount: 10, Date: "2024-03-01", Status: models.TransferPending},
	}

	arrayPath := filepath.Join(dir, "transfers.json")
	require.NoError(t, Save(arrayPath, transfers))
	got, err := LoadTransfers(arrayPath)
	require.NoError(t, err)
	assert.Equal(t, transfers, got)

	planPath := filepath.Join(dir, "plan.json")
	require.NoError(t, Save(planPath, Plan{Transfers: transfers, TotalVolume: 10}))
	got, err = LoadTransfers(planPath)
	require.NoError(t, err)
	assert.Equal(t, transfers, got)
}
