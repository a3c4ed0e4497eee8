package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/glimmer/field"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned by LoadSnapshot for an unsupported format version.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Snapshot holds the field state for replay.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Frame uint64 `json:"frame"`
	Label string `json:"label,omitempty"` // Why it was taken, e.g. "exit" or "manual"

	Field field.State `json:"field"`
}

// NewSnapshot captures f at the given frame.
func NewSnapshot(f *field.Field, frame uint64, seed int64, label string) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: seed,
		Frame:   frame,
		Label:   label,
		Field:   f.State(),
	}
}

// FileName is the name SaveSnapshot uses: snapshot_<frame>[_<label>].json.
func (s *Snapshot) FileName() string {
	if s.Label == "" {
		return fmt.Sprintf("snapshot_%d.json", s.Frame)
	}
	return fmt.Sprintf("snapshot_%d_%s.json", s.Frame, strings.Join(strings.Fields(s.Label), "_"))
}

// SaveSnapshot writes s into dir as indented JSON and returns its path.
func SaveSnapshot(s *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	path := filepath.Join(dir, s.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	defer f.Close()

	var s Snapshot
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", filepath.Base(path), err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d: %w", s.Version, ErrSnapshotVersion)
	}
	return &s, nil
}
