package action

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
)

// Direction tags what a window action does. Fixed layouts carry a
// closed-form fraction of the screen bounds; relative ops work on the
// window's prior frame; meta ops have no frame of their own.
type Direction string

const (
	NoAction Direction = "none"

	// Fixed layouts.
	Maximize              Direction = "maximize"
	Center                Direction = "center"
	OSCenter              Direction = "os-center"
	LeftHalf              Direction = "left-half"
	RightHalf             Direction = "right-half"
	TopHalf               Direction = "top-half"
	BottomHalf            Direction = "bottom-half"
	TopLeftQuarter        Direction = "top-left-quarter"
	TopRightQuarter       Direction = "top-right-quarter"
	BottomLeftQuarter     Direction = "bottom-left-quarter"
	BottomRightQuarter    Direction = "bottom-right-quarter"
	LeftThird             Direction = "left-third"
	HorizontalCenterThird Direction = "center-third"
	RightThird            Direction = "right-third"
	LeftTwoThirds         Direction = "left-two-thirds"
	RightTwoThirds        Direction = "right-two-thirds"
	TopThird              Direction = "top-third"
	VerticalCenterThird   Direction = "middle-third"
	BottomThird           Direction = "bottom-third"
	TopTwoThirds          Direction = "top-two-thirds"
	BottomTwoThirds       Direction = "bottom-two-thirds"
	LeftFourth            Direction = "left-fourth"
	CenterLeftFourth      Direction = "center-left-fourth"
	CenterRightFourth     Direction = "center-right-fourth"
	RightFourth           Direction = "right-fourth"

	// Size ops (relative to the prior frame).
	Larger       Direction = "larger"
	Smaller      Direction = "smaller"
	GrowWidth    Direction = "grow-width"
	ShrinkWidth  Direction = "shrink-width"
	GrowHeight   Direction = "grow-height"
	ShrinkHeight Direction = "shrink-height"

	// Move ops (relative to the prior frame).
	MoveUp    Direction = "move-up"
	MoveDown  Direction = "move-down"
	MoveLeft  Direction = "move-left"
	MoveRight Direction = "move-right"

	// Screen-switch ops.
	NextScreen     Direction = "next-screen"
	PreviousScreen Direction = "previous-screen"
	LeftScreen     Direction = "left-screen"
	RightScreen    Direction = "right-screen"
	TopScreen      Direction = "top-screen"
	BottomScreen   Direction = "bottom-screen"

	// Stash ops.
	Stash   Direction = "stash"
	Unstash Direction = "unstash"

	// Meta ops.
	Undo           Direction = "undo"
	InitialFrame   Direction = "initial-frame"
	Hide           Direction = "hide"
	Minimize       Direction = "minimize"
	MinimizeOthers Direction = "minimize-others"
	Fullscreen     Direction = "fullscreen"
	Custom         Direction = "custom"
	Cycle          Direction = "cycle"
)

// Unit is the measurement unit for custom width/height values.
type Unit string

const (
	UnitPercentage Unit = "percentage"
	UnitPixels     Unit = "pixels"
)

// Anchor is a 9-point compass anchor plus the OS-style center variant.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTop         Anchor = "top"
	AnchorTopRight    Anchor = "top-right"
	AnchorLeft        Anchor = "left"
	AnchorCenter      Anchor = "center"
	AnchorRight       Anchor = "right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottom      Anchor = "bottom"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorOSCenter    Anchor = "os-center"
)

// SizeMode selects how a custom action sizes the window.
type SizeMode string

const (
	SizeModeCustom       SizeMode = "custom"
	SizeModePreserveSize SizeMode = "preserve"
	SizeModeInitialSize  SizeMode = "initial"
)

// PositionMode selects how a custom action positions the window.
type PositionMode string

const (
	PositionModeGeneric     PositionMode = "generic"
	PositionModeCoordinates PositionMode = "coordinates"
)

// CustomFields is the payload for custom and stash actions. Pointer
// fields are optional; the resolver substitutes defaults for nil.
type CustomFields struct {
	Unit         Unit         `yaml:"unit,omitempty"`
	Anchor       Anchor       `yaml:"anchor,omitempty"`
	SizeMode     SizeMode     `yaml:"size_mode,omitempty"`
	Width        *float64     `yaml:"width,omitempty"`
	Height       *float64     `yaml:"height,omitempty"`
	PositionMode PositionMode `yaml:"position_mode,omitempty"`
	XPoint       *float64     `yaml:"x,omitempty"`
	YPoint       *float64     `yaml:"y,omitempty"`
}

// Action is a user-configured or built-in window manipulation.
//
// Direction is the variant tag: Custom holds payload only when
// Direction is custom or stash, and Cycle is non-nil iff Direction is
// cycle. Validate enforces both invariants.
type Action struct {
	ID        string        `yaml:"id,omitempty"`
	Name      string        `yaml:"name,omitempty"`
	Direction Direction     `yaml:"direction"`
	Keybind   KeySet        `yaml:"keybind,omitempty"`
	Custom    *CustomFields `yaml:"custom,omitempty"`
	Cycle     []Action      `yaml:"cycle,omitempty"`
}

// New returns an action with a fresh stable id.
func New(dir Direction) Action {
	return Action{ID: uuid.NewString(), Direction: dir}
}

// EnsureIDs assigns fresh ids to the action and its cycle members where
// missing, so storage keys stay stable across config rewrites.
func (a *Action) EnsureIDs() {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	for i := range a.Cycle {
		a.Cycle[i].EnsureIDs()
	}
}

// Validate checks the variant invariants.
func (a *Action) Validate() error {
	if a.Direction == "" {
		return fmt.Errorf("action %q: direction is required", a.Name)
	}
	if (a.Direction == Cycle) != (len(a.Cycle) > 0) {
		if a.Direction == Cycle {
			return fmt.Errorf("action %q: cycle direction requires cycle members", a.Name)
		}
		return fmt.Errorf("action %q: cycle members are only valid on cycle actions", a.Name)
	}
	if a.Custom != nil && a.Direction != Custom && a.Direction != Stash {
		return fmt.Errorf("action %q: custom fields are only valid on custom or stash actions", a.Name)
	}
	if a.Custom != nil {
		if err := a.Custom.validate(); err != nil {
			return fmt.Errorf("action %q: %w", a.Name, err)
		}
	}
	for i := range a.Cycle {
		if a.Cycle[i].Direction == Cycle {
			return fmt.Errorf("action %q: nested cycles are not supported", a.Name)
		}
		if err := a.Cycle[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CustomFields) validate() error {
	switch c.Unit {
	case "", UnitPercentage, UnitPixels:
	default:
		return fmt.Errorf("invalid unit %q", c.Unit)
	}
	switch c.Anchor {
	case "", AnchorTopLeft, AnchorTop, AnchorTopRight, AnchorLeft, AnchorCenter,
		AnchorRight, AnchorBottomLeft, AnchorBottom, AnchorBottomRight, AnchorOSCenter:
	default:
		return fmt.Errorf("invalid anchor %q", c.Anchor)
	}
	switch c.SizeMode {
	case "", SizeModeCustom, SizeModePreserveSize, SizeModeInitialSize:
	default:
		return fmt.Errorf("invalid size_mode %q", c.SizeMode)
	}
	switch c.PositionMode {
	case "", PositionModeGeneric, PositionModeCoordinates:
	default:
		return fmt.Errorf("invalid position_mode %q", c.PositionMode)
	}
	return nil
}

// signatureView is the identity-stripped shape hashed by Signature.
type signatureView struct {
	Direction Direction
	Custom    *CustomFields
	Cycle     []signatureView
}

func (a *Action) signatureView() signatureView {
	v := signatureView{Direction: a.Direction, Custom: a.Custom}
	for i := range a.Cycle {
		v.Cycle = append(v.Cycle, a.Cycle[i].signatureView())
	}
	return v
}

// Signature hashes the action with id, keybind and name stripped. Two
// actions with equal signatures are the same manipulation; cycle
// equality recurses through the members.
func (a *Action) Signature() uint64 {
	h, err := hashstructure.Hash(a.signatureView(), hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain struct tree cannot fail at runtime; keep a
		// deterministic fallback anyway.
		return 0
	}
	return h
}

// SameManipulation reports whether both actions are equal after
// stripping id, keybind and name.
func (a *Action) SameManipulation(other *Action) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Signature() == other.Signature()
}

// StashEdge derives the horizontal stash edge from the action's anchor.
// Right-leaning anchors stash right; everything else stashes left.
func (a *Action) StashEdge() StashEdge {
	if a.Custom != nil {
		switch a.Custom.Anchor {
		case AnchorTopRight, AnchorRight, AnchorBottomRight:
			return StashEdgeRight
		}
	}
	return StashEdgeLeft
}

// StashEdge is a horizontal screen edge a window can be stashed at.
type StashEdge string

const (
	StashEdgeLeft  StashEdge = "left"
	StashEdgeRight StashEdge = "right"
)

// IsNoFrame reports whether the action has no target frame of its own.
func (a *Action) IsNoFrame() bool {
	switch a.Direction {
	case NoAction, Cycle, Minimize, Hide, MinimizeOthers, Fullscreen:
		return true
	}
	return false
}

// IsRelative reports whether the action operates on the prior frame
// rather than on the screen bounds. Relative actions re-fire on key
// repeat; one-shot layouts do not.
func (a *Action) IsRelative() bool {
	return a.IsSizeAdjust() || a.IsMove()
}

// IsSizeAdjust reports whether the action grows or shrinks the frame.
func (a *Action) IsSizeAdjust() bool {
	switch a.Direction {
	case Larger, Smaller, GrowWidth, ShrinkWidth, GrowHeight, ShrinkHeight:
		return true
	}
	return false
}

// IsMove reports whether the action translates the frame.
func (a *Action) IsMove() bool {
	switch a.Direction {
	case MoveUp, MoveDown, MoveLeft, MoveRight:
		return true
	}
	return false
}

// IsScreenSwitch reports whether the action changes the target screen.
func (a *Action) IsScreenSwitch() bool {
	switch a.Direction {
	case NextScreen, PreviousScreen, LeftScreen, RightScreen, TopScreen, BottomScreen:
		return true
	}
	return false
}

// IsResize reports whether the action manipulates window geometry at
// all (used by the stash subsystem to classify incoming actions).
func (a *Action) IsResize() bool {
	if a.IsNoFrame() {
		return false
	}
	switch a.Direction {
	case Stash, Unstash, Undo:
		return false
	}
	return true
}

// DisplayName returns the user-facing name, falling back to the
// direction tag.
func (a *Action) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return string(a.Direction)
}
