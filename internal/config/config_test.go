package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/slate/internal/action"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	ensureActionIDs(cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.TriggerKeys.Contains("super") {
		t.Fatal("default trigger should be super")
	}
	if len(cfg.Actions) == 0 {
		t.Fatal("default config has no actions")
	}
}

func TestLoadFromMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom missing file: %v", err)
	}
	if len(cfg.Actions) != len(action.BuiltinActions()) {
		t.Fatalf("missing file should yield the builtin action set, got %d actions", len(cfg.Actions))
	}
	for i := range cfg.Actions {
		if cfg.Actions[i].ID == "" {
			t.Fatalf("action %d missing id after load", i)
		}
	}
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
trigger_keys: [ctrl, alt]
inner_gap: 8
radial:
  enabled: false
  dead_zone: 40
stash:
  reveal_px: 30
  overlap_tolerance: 100
  leave_tolerance: 15
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.TriggerKeys.Equals(action.NewKeySet("ctrl", "alt")) {
		t.Fatalf("trigger_keys = %v, want ctrl+alt", cfg.TriggerKeys)
	}
	if cfg.InnerGap != 8 {
		t.Fatalf("inner_gap = %d, want 8", cfg.InnerGap)
	}
	if cfg.Radial.Enabled {
		t.Fatal("radial should be disabled")
	}
	if cfg.Stash.RevealPx != 30 {
		t.Fatalf("reveal_px = %d, want 30", cfg.Stash.RevealPx)
	}
	// Untouched sections keep their defaults.
	if !cfg.Animation.Enabled {
		t.Fatal("animation default lost during merge")
	}
}

func TestLoadFromRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("invalid log_level should fail validation")
	}
}

func TestValidateRejectsDuplicateKeybinds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions = []action.Action{
		{ID: "a", Direction: action.LeftHalf, Keybind: action.NewKeySet("left")},
		{ID: "b", Direction: action.RightHalf, Keybind: action.NewKeySet("left")},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("duplicate keybinds should fail validation")
	}
}

func TestValidateRejectsEmptyTrigger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerKeys = action.NewKeySet()
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty trigger_keys should fail validation")
	}
}

func TestValidateRejectsNegativeStashTolerances(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stash.RevealPx = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero reveal_px should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Stash.OverlapTolerance = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative overlap_tolerance should fail validation")
	}
}

func TestIsExcluded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludedApps = []string{"krita", "Gimp"}
	if !cfg.IsExcluded("krita") {
		t.Fatal("listed app should be excluded")
	}
	if cfg.IsExcluded("firefox") {
		t.Fatal("unlisted app should not be excluded")
	}
}
