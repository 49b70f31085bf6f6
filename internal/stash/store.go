package stash

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/platform"
)

// State is the per-window stash lifecycle position.
type State string

const (
	StateHidden   State = "hidden"
	StateRevealed State = "revealed"
)

// Entry is one stashed window and everything needed to reveal, hide and
// eventually restore it.
type Entry struct {
	Window   platform.WindowID `json:"window"`
	Action   action.Action     `json:"action"`
	Edge     action.StashEdge  `json:"edge"`
	ScreenID int               `json:"screen_id"`
	Desktop  int               `json:"desktop"`
	PreStash geometry.Rect     `json:"pre_stash"`
	Revealed geometry.Rect     `json:"revealed"`
	Hidden   geometry.Rect     `json:"hidden"`
	State    State             `json:"state"`
}

// Snapshot is the persisted stash state plus the usage counter that
// survives relaunches.
type Snapshot struct {
	Entries    []Entry `json:"entries"`
	UsageCount int     `json:"usage_count"`
}

// Store persists stash state as JSON under the XDG state directory.
type Store struct {
	path string
}

// NewStore resolves the state file location.
func NewStore() (*Store, error) {
	path, err := xdg.StateFile(filepath.Join("slate", "stash.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stash state path: %w", err)
	}
	return &Store{path: path}, nil
}

// NewStoreAt creates a store with an explicit path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot; a missing file yields an empty one.
func (s *Store) Load() (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return snap, fmt.Errorf("failed to read stash state: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse stash state: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot atomically.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stash state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write stash state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace stash state: %w", err)
	}
	return nil
}
