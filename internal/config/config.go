package config

import (
	"fmt"

	"github.com/1broseidon/slate/internal/action"
)

// Margins represents outer screen padding in pixels.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// MiddleClick configures the pointer trigger.
type MiddleClick struct {
	Enabled bool `yaml:"enabled"`
	// DelayMS delays session open after button-down; 0 opens
	// immediately. Button-up before the delay fires cancels the open.
	DelayMS int `yaml:"delay_ms"`
}

// Animation configures frame animation on apply.
type Animation struct {
	Enabled    bool `yaml:"enabled"`
	DurationMS int  `yaml:"duration_ms"`
	// DisableOnLowPower forces immediate placement when the host
	// reports a low-power state.
	DisableOnLowPower bool `yaml:"disable_on_low_power"`
}

// CycleBehavior configures ordered-cycle advancement.
type CycleBehavior struct {
	// ReverseOnShift advances cycles backward while shift is held.
	ReverseOnShift bool `yaml:"reverse_on_shift"`
	// RestartOnReentry resets a cycle to its first member whenever the
	// currently displayed action is not one of its members.
	RestartOnReentry bool `yaml:"restart_on_reentry"`
}

// Radial configures cursor-direction selection during a session.
type Radial struct {
	Enabled bool `yaml:"enabled"`
	// DeadZone is the pixel radius around the session start point in
	// which no direction is selected.
	DeadZone int `yaml:"dead_zone"`
}

// StashSettings configures the edge-stash subsystem.
type StashSettings struct {
	// RevealPx is how much of a hidden window stays visible at the edge.
	RevealPx int `yaml:"reveal_px"`
	// OverlapTolerance is the minimum vertical clearance between two
	// stashes on the same edge before the older one is evicted.
	OverlapTolerance int `yaml:"overlap_tolerance"`
	// LeaveTolerance expands the revealed rect before the pointer is
	// considered to have left it.
	LeaveTolerance int `yaml:"leave_tolerance"`
	// FocusOnReveal activates a window when it is revealed.
	FocusOnReveal bool `yaml:"focus_on_reveal"`
	// FocusNextOnHide hands focus to the next visible window on the
	// same screen when a revealed window hides.
	FocusNextOnHide bool `yaml:"focus_next_on_hide"`
}

// Config holds the application configuration.
type Config struct {
	// TriggerKeys is the held modifier set that must be present for
	// keybinds to be interpreted as slate actions.
	TriggerKeys action.KeySet `yaml:"trigger_keys"`
	// DeferKeys double as standalone system keys; during a session they
	// are only interpreted as keybinds once the pointer has moved.
	DeferKeys     action.KeySet `yaml:"defer_keys"`
	MiddleClick   MiddleClick   `yaml:"middle_click"`
	ScreenPadding Margins       `yaml:"screen_padding"`
	InnerGap      int           `yaml:"inner_gap"`
	Animation     Animation     `yaml:"animation"`
	Cycle         CycleBehavior `yaml:"cycle"`
	Radial        Radial        `yaml:"radial"`
	Stash         StashSettings `yaml:"stash"`
	ExcludedApps  []string      `yaml:"excluded_apps"`
	// IgnoreFullscreen skips sessions whose target window is native
	// fullscreen.
	IgnoreFullscreen bool `yaml:"ignore_fullscreen"`
	// HideUntilDirection defers geometry application until a direction
	// has been chosen in the open session.
	HideUntilDirection bool            `yaml:"hide_until_direction"`
	Actions            []action.Action `yaml:"actions"`
	LogLevel           string          `yaml:"log_level"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		TriggerKeys: action.NewKeySet("super"),
		DeferKeys:   action.NewKeySet(),
		MiddleClick: MiddleClick{Enabled: true, DelayMS: 0},
		ScreenPadding: Margins{
			Top:    0,
			Bottom: 0,
			Left:   0,
			Right:  0,
		},
		InnerGap: 0,
		Animation: Animation{
			Enabled:           true,
			DurationMS:        150,
			DisableOnLowPower: true,
		},
		Cycle: CycleBehavior{
			ReverseOnShift:   true,
			RestartOnReentry: true,
		},
		Radial: Radial{
			Enabled:  true,
			DeadZone: 20,
		},
		Stash: StashSettings{
			RevealPx:         25,
			OverlapTolerance: 100,
			LeaveTolerance:   15,
			FocusOnReveal:    false,
			FocusNextOnHide:  false,
		},
		ExcludedApps:       nil,
		IgnoreFullscreen:   true,
		HideUntilDirection: false,
		Actions:            action.BuiltinActions(),
		LogLevel:           "info",
	}
}

// ValidationError reports a config problem with its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if len(c.TriggerKeys) == 0 {
		return &ValidationError{Path: "trigger_keys", Err: fmt.Errorf("at least one trigger key is required")}
	}
	if c.MiddleClick.DelayMS < 0 {
		return &ValidationError{Path: "middle_click.delay_ms", Err: fmt.Errorf("delay_ms must be >= 0")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	if c.InnerGap < 0 {
		return &ValidationError{Path: "inner_gap", Err: fmt.Errorf("inner_gap must be >= 0")}
	}
	if c.Animation.DurationMS < 0 {
		return &ValidationError{Path: "animation.duration_ms", Err: fmt.Errorf("duration_ms must be >= 0")}
	}
	if c.Radial.DeadZone < 0 {
		return &ValidationError{Path: "radial.dead_zone", Err: fmt.Errorf("dead_zone must be >= 0")}
	}
	if c.Stash.RevealPx <= 0 {
		return &ValidationError{Path: "stash.reveal_px", Err: fmt.Errorf("reveal_px must be > 0")}
	}
	if c.Stash.OverlapTolerance < 0 {
		return &ValidationError{Path: "stash.overlap_tolerance", Err: fmt.Errorf("overlap_tolerance must be >= 0")}
	}
	if c.Stash.LeaveTolerance < 0 {
		return &ValidationError{Path: "stash.leave_tolerance", Err: fmt.Errorf("leave_tolerance must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	seen := make(map[string]string)
	for i := range c.Actions {
		a := &c.Actions[i]
		if err := a.Validate(); err != nil {
			return &ValidationError{Path: fmt.Sprintf("actions[%d]", i), Err: err}
		}
		if len(a.Keybind) > 0 {
			key := a.Keybind.Canonical()
			if prev, dup := seen[key]; dup {
				return &ValidationError{
					Path: fmt.Sprintf("actions[%d]", i),
					Err:  fmt.Errorf("keybind %q already bound to %q", key, prev),
				}
			}
			seen[key] = a.DisplayName()
		}
	}

	return nil
}

// IsExcluded reports whether the given app id is on the exclusion list.
func (c *Config) IsExcluded(appID string) bool {
	for _, excluded := range c.ExcludedApps {
		if excluded == appID {
			return true
		}
	}
	return false
}
