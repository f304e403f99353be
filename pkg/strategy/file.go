package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SaveFile writes a snapshot to a YAML file, for exporting a tuned
// strategy pair or seeding one environment from another.
func SaveFile(path string, snap Snapshot) error {
	raw, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode strategy yaml: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write strategy file %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a snapshot from a YAML file produced by SaveFile.
func LoadFile(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read strategy file %s: %w", path, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode strategy file %s: %w", path, err)
	}
	return snap, nil
}
