package telemetry

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/glimmer/field"
)

func testField(n int) *field.Field {
	cfg := field.DefaultConfig()
	cfg.Count = n
	return field.New(1280, 720, cfg, rand.New(rand.NewSource(42)))
}

func TestSnapshotSaveLoad(t *testing.T) {
	// Create a temporary directory
	tmpDir := t.TempDir()

	f := testField(6)
	f.SetMaxDistance(320)
	snapshot := NewSnapshot(f, 1000, 42, "manual test")

	// Save the snapshot
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000_manual_test.json" {
		t.Errorf("snapshot name = %s, want snapshot_1000_manual_test.json", filepath.Base(path))
	}

	// Verify file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	// Load the snapshot
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	// Verify fields
	if loaded.Version != SnapshotVersion {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, SnapshotVersion)
	}
	if loaded.RNGSeed != 42 {
		t.Errorf("RNGSeed mismatch: got %d, want 42", loaded.RNGSeed)
	}
	if loaded.Frame != 1000 {
		t.Errorf("Frame mismatch: got %d, want 1000", loaded.Frame)
	}
	if loaded.Field.MaxDistance != 320 {
		t.Errorf("MaxDistance mismatch: got %v, want 320", loaded.Field.MaxDistance)
	}
	if len(loaded.Field.Particles) != 6 {
		t.Fatalf("Particles count mismatch: got %d, want 6", len(loaded.Field.Particles))
	}

	// Restore into a fresh field and compare
	g := testField(6)
	if err := g.Restore(loaded.Field); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	for i := 0; i < 6; i++ {
		if g.Particle(i) != f.Particle(i) {
			t.Errorf("particle %d = %+v, want %+v", i, g.Particle(i), f.Particle(i))
		}
	}
}

func TestSnapshotNameWithoutLabel(t *testing.T) {
	path, err := SaveSnapshot(NewSnapshot(testField(1), 7, 1, ""), t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_7.json" {
		t.Errorf("snapshot name = %s, want snapshot_7.json", filepath.Base(path))
	}
}

func TestSnapshotJSONFormat(t *testing.T) {
	snapshot := NewSnapshot(testField(2), 500, 123, "")

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Verify it's valid JSON and contains expected fields
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal to map failed: %v", err)
	}

	expectedFields := []string{"version", "rng_seed", "frame", "field"}
	for _, name := range expectedFields {
		if _, ok := raw[name]; !ok {
			t.Errorf("Missing field in JSON: %s", name)
		}
	}
	if _, ok := raw["label"]; ok {
		t.Error("empty label should be omitted")
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("LoadSnapshot error = %v, want ErrSnapshotVersion", err)
	}
}

func TestLoadSnapshotNotFound(t *testing.T) {
	_, err := LoadSnapshot("/nonexistent/path/snapshot.json")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
