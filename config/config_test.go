package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Field.ParticleCount != 6 {
		t.Errorf("particle_count = %d, want 6", cfg.Field.ParticleCount)
	}
	if cfg.Field.Radius != 2.5 {
		t.Errorf("radius = %v, want 2.5", cfg.Field.Radius)
	}
	if cfg.Field.MaxDistance != 400 {
		t.Errorf("max_distance = %v, want 400", cfg.Field.MaxDistance)
	}
	if cfg.Field.InitialOpacity != 0.5 {
		t.Errorf("initial_opacity = %v, want 0.5", cfg.Field.InitialOpacity)
	}
	if len(cfg.Style.Gradient) != 3 {
		t.Fatalf("gradient stops = %d, want 3", len(cfg.Style.Gradient))
	}
	if cfg.Style.Gradient[1].Color != "black" {
		t.Errorf("middle stop = %q, want black", cfg.Style.Gradient[1].Color)
	}
	if cfg.Gallery.RefreshDelay != 3*time.Second {
		t.Errorf("refresh_delay = %v, want 3s", cfg.Gallery.RefreshDelay)
	}
	if cfg.Derived.FrameInterval != time.Second/60 {
		t.Errorf("frame interval = %v, want 1/60s", cfg.Derived.FrameInterval)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("field:\n  particle_count: 12\nscreen:\n  target_fps: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Field.ParticleCount != 12 {
		t.Errorf("particle_count = %d, want 12", cfg.Field.ParticleCount)
	}
	if cfg.Field.MaxDistance != 400 {
		t.Errorf("max_distance = %v, want default 400", cfg.Field.MaxDistance)
	}
	if cfg.Derived.FrameInterval != time.Second/30 {
		t.Errorf("frame interval = %v, want 1/30s", cfg.Derived.FrameInterval)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero fps", "screen:\n  target_fps: 0\n"},
		{"negative count", "field:\n  particle_count: -1\n"},
		{"zero threshold", "field:\n  max_distance: 0\n"},
		{"opacity above one", "field:\n  initial_opacity: 1.5\n"},
		{"offset out of range", "style:\n  gradient:\n    - offset: 2\n      color: black\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Field.ParticleCount = 9

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Field.ParticleCount != 9 {
		t.Errorf("particle_count = %d, want 9", loaded.Field.ParticleCount)
	}
	if loaded.Gallery.Timeout != cfg.Gallery.Timeout {
		t.Errorf("timeout = %v, want %v", loaded.Gallery.Timeout, cfg.Gallery.Timeout)
	}
}
