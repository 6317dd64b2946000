package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty manifest for the given source document.
func New(source, profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      source,
		Profile:     profileName,
	}
}

// ComputeStats recalculates the output totals from the image list. Counts
// that only the pipeline knows (objects, alpha layers, source bytes) are
// left alone.
func (m *Manifest) ComputeStats() {
	m.Stats.Extracted = len(m.Images)
	m.Stats.Failed = len(m.Failures)
	m.Stats.TotalOutputBytes = 0
	for _, img := range m.Images {
		m.Stats.TotalOutputBytes += img.Size
	}
}

// WriteJSON serializes the manifest to path.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
