package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefault verifies the embedded defaults parse and carry sane values.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.World.Width != 800 || cfg.World.Height != 600 {
		t.Errorf("world = %dx%d, want 800x600", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.InitialPenguins != 10 || cfg.World.InitialSeals != 5 || cfg.World.InitialFish != 50 {
		t.Errorf("initial populations = %d/%d/%d, want 10/5/50",
			cfg.World.InitialPenguins, cfg.World.InitialSeals, cfg.World.InitialFish)
	}
	if cfg.Penguin.MaxEnergy != 150 || cfg.Seal.MaxEnergy != 200 || cfg.Fish.MaxEnergy != 50 {
		t.Errorf("max energy = %v/%v/%v, want 150/200/50",
			cfg.Penguin.MaxEnergy, cfg.Seal.MaxEnergy, cfg.Fish.MaxEnergy)
	}
	if cfg.Energy.Metabolism != 0.5 {
		t.Errorf("metabolism = %v, want 0.5", cfg.Energy.Metabolism)
	}
	if cfg.Behavior.HuntingThreshold >= cfg.Behavior.SocialThreshold {
		t.Error("hunting threshold must be below social threshold")
	}
	if cfg.Floes.MinCount < 1 || cfg.Floes.MaxCount < cfg.Floes.MinCount {
		t.Errorf("floe count range %d..%d invalid", cfg.Floes.MinCount, cfg.Floes.MaxCount)
	}
}

// TestLoadOverride verifies a YAML file overrides only the keys it names.
func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("world:\n  width: 1200\n  initial_fish: 99\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 1200 {
		t.Errorf("width = %d, want 1200", cfg.World.Width)
	}
	if cfg.World.InitialFish != 99 {
		t.Errorf("initial_fish = %d, want 99", cfg.World.InitialFish)
	}
	// Untouched keys keep their defaults.
	if cfg.World.Height != 600 {
		t.Errorf("height = %d, want default 600", cfg.World.Height)
	}
	if cfg.Penguin.MaxAge != 800 {
		t.Errorf("penguin max_age = %d, want default 800", cfg.Penguin.MaxAge)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.World.Width != 800 {
		t.Errorf("width = %d, want 800", cfg.World.Width)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
