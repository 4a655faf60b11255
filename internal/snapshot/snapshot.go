// Package snapshot reads and writes the JSON files used by the offline CLI.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// Snapshot is the account pool and manual groups a plan is built from.
type Snapshot struct {
	Accounts []models.Account         `json:"accounts"`
	Groups   []models.Group           `json:"groups"`
	Config   *models.SimulationConfig `json:"config,omitempty"`
}

// Plan is the result of scheduling a snapshot.
type Plan struct {
	Groups      []models.Group    `json:"groups"`
	Transfers   []models.Transfer `json:"transfers"`
	TotalVolume int64             `json:"totalVolume"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// LoadTransfers reads either a plain transfer array or a Plan file.
func LoadTransfers(path string) ([]models.Transfer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transfers: %w", err)
	}
	data = bytes.TrimSpace(data)

	if bytes.HasPrefix(data, []byte("[")) {
		var transfers []models.Transfer
		if err := json.Unmarshal(data, &transfers); err != nil {
			return nil, fmt.Errorf("decoding transfers %s: %w", path, err)
		}
		return transfers, nil
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", path, err)
	}
	return plan.Transfers, nil
}

// Save writes v as indented JSON. The file is written next to path first and
// renamed into place, so readers never see a partial file.
func Save(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
