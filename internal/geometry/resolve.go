package geometry

import (
	"math"

	"github.com/1broseidon/slate/internal/action"
)

// Padding is the configured outer padding model. Bounds handed to the
// resolver are expected to be inset by it already; the resolver only
// consults it for the minimum-size clamp.
type Padding struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

const (
	// minSizeMargin keeps relative shrink chains from collapsing a
	// window to invisibility.
	minSizeMargin = 100.0

	// snapTolerance is the drift window within which a relative result
	// snaps back to a previously recorded rect.
	snapTolerance = 2.0

	// stepFraction sizes one grow/shrink/move increment relative to the
	// bounds dimension.
	stepFraction = 0.05

	// edgeEpsilon decides whether a rect edge touches a bounds edge for
	// inner-padding purposes.
	edgeEpsilon = 1.0
)

// Options carries the per-call context the resolver needs. Everything
// here is explicit state threaded by the caller; the resolver holds no
// globals.
type Options struct {
	Padding  Padding
	InnerGap float64
	// NonResizable marks windows whose size must not change; only
	// their position is adjusted.
	NonResizable bool
	// Proportional, when set and valid, replaces fixed-fraction
	// resolution on a screen switch so relative sizing survives
	// differently-sized displays.
	Proportional *Proportional
	// UndoRect and InitialRect are supplied by the caller from window
	// history; nil falls back to the prior frame.
	UndoRect    *Rect
	InitialRect *Rect
	// SnapCandidates are previously recorded result rects for the
	// window; relative results within snapTolerance of one snap to it
	// instead of drifting numerically.
	SnapCandidates []Rect
}

// Resolve turns an action plus screen bounds and the window's prior
// frame into a target rectangle. Pure: same inputs, same output.
func Resolve(a *action.Action, bounds, prior Rect, opts Options) Rect {
	if a == nil || a.IsNoFrame() {
		return zeroRectCentered(bounds)
	}

	var target Rect
	paddable := true

	switch {
	case a.Direction == action.Undo:
		target = valueOr(opts.UndoRect, prior)
		paddable = false

	case a.Direction == action.InitialFrame:
		target = valueOr(opts.InitialRect, prior)
		paddable = false

	case a.IsScreenSwitch():
		target = resolveScreenSwitch(bounds, prior, opts)

	case a.Direction == action.Center:
		target = prior.CenteredIn(bounds)
		paddable = false

	case a.Direction == action.OSCenter:
		target = osCenter(prior, bounds)
		paddable = false

	case a.IsSizeAdjust():
		target = resolveSizeAdjust(a.Direction, bounds, prior, opts)
		paddable = false

	case a.IsMove():
		target = resolveMove(a.Direction, bounds, prior)
		paddable = false

	case a.Direction == action.Custom || a.Direction == action.Stash:
		target = resolveCustom(a.Custom, bounds, prior, opts)

	default:
		frac, ok := FractionFor(a.Direction)
		if !ok {
			return zeroRectCentered(bounds)
		}
		target = frac.Multiply(bounds)
	}

	if target.Width < 0 || target.Height < 0 {
		return zeroRectCentered(bounds)
	}

	if paddable && opts.InnerGap > 0 {
		target = innerPad(target, bounds, opts.InnerGap)
	}

	if opts.NonResizable {
		target = Rect{Width: prior.Width, Height: prior.Height}.CenteredIn(
			Rect{X: target.X, Y: target.Y, Width: target.Width, Height: target.Height})
		target = target.PushedInside(bounds)
	}

	return target
}

func valueOr(r *Rect, fallback Rect) Rect {
	if r != nil {
		return *r
	}
	return fallback
}

func resolveScreenSwitch(bounds, prior Rect, opts Options) Rect {
	if opts.Proportional != nil && opts.Proportional.Valid() {
		return opts.Proportional.Apply(bounds)
	}
	return prior.CenteredIn(bounds)
}

// osCenter mimics native window-centering: geometric centering plus a
// vertical offset of (0.5*(h/screenH) - 0.5) * screenH/2, which biases
// short windows toward the upper half of the screen.
func osCenter(prior, bounds Rect) Rect {
	centered := prior.CenteredIn(bounds)
	if bounds.Height <= 0 {
		return centered
	}
	offset := (0.5*(prior.Height/bounds.Height) - 0.5) * bounds.Height / 2
	centered.Y += offset
	return centered
}

func resolveSizeAdjust(dir action.Direction, bounds, prior Rect, opts Options) Rect {
	stepW := bounds.Width * stepFraction
	stepH := bounds.Height * stepFraction

	out := prior
	switch dir {
	case action.Larger:
		out = grow(out, stepW, stepH)
	case action.Smaller:
		out = grow(out, -stepW, -stepH)
	case action.GrowWidth:
		out = grow(out, stepW, 0)
	case action.ShrinkWidth:
		out = grow(out, -stepW, 0)
	case action.GrowHeight:
		out = grow(out, 0, stepH)
	case action.ShrinkHeight:
		out = grow(out, 0, -stepH)
	}

	minW := opts.Padding.Left + opts.Padding.Right + minSizeMargin
	minH := opts.Padding.Top + opts.Padding.Bottom + minSizeMargin
	if out.Width < minW {
		out.X -= (minW - out.Width) / 2
		out.Width = minW
	}
	if out.Height < minH {
		out.Y -= (minH - out.Height) / 2
		out.Height = minH
	}

	for _, cand := range opts.SnapCandidates {
		if math.Abs(out.Width-cand.Width) <= snapTolerance &&
			math.Abs(out.Height-cand.Height) <= snapTolerance {
			return cand
		}
	}
	return out
}

// grow expands (or contracts, for negative deltas) the rect about its
// center.
func grow(r Rect, dw, dh float64) Rect {
	return Rect{
		X:      r.X - dw/2,
		Y:      r.Y - dh/2,
		Width:  r.Width + dw,
		Height: r.Height + dh,
	}
}

func resolveMove(dir action.Direction, bounds, prior Rect) Rect {
	stepW := bounds.Width * stepFraction
	stepH := bounds.Height * stepFraction

	out := prior
	switch dir {
	case action.MoveUp:
		out.Y -= stepH
	case action.MoveDown:
		out.Y += stepH
	case action.MoveLeft:
		out.X -= stepW
	case action.MoveRight:
		out.X += stepW
	}
	return out
}

// resolveCustom composes size and position independently. Missing
// optional fields take documented defaults: percentage unit, custom
// size mode with full-bounds dimensions, generic positioning at the
// center anchor.
func resolveCustom(c *action.CustomFields, bounds, prior Rect, opts Options) Rect {
	if c == nil {
		c = &action.CustomFields{}
	}

	width, height := customSize(c, bounds, prior, opts)
	out := Rect{Width: width, Height: height}

	mode := c.PositionMode
	if mode == "" {
		mode = action.PositionModeGeneric
	}

	if mode == action.PositionModeCoordinates {
		x, y := bounds.X, bounds.Y
		if c.XPoint != nil {
			x = bounds.X + *c.XPoint
		}
		if c.YPoint != nil {
			y = bounds.Y + *c.YPoint
		}
		out.X = x
		out.Y = y
		return out
	}

	anchor := c.Anchor
	if anchor == "" {
		anchor = action.AnchorCenter
	}
	return anchored(out, bounds, anchor)
}

func customSize(c *action.CustomFields, bounds, prior Rect, opts Options) (float64, float64) {
	switch c.SizeMode {
	case action.SizeModePreserveSize:
		return prior.Width, prior.Height
	case action.SizeModeInitialSize:
		initial := valueOr(opts.InitialRect, prior)
		return initial.Width, initial.Height
	}

	unit := c.Unit
	if unit == "" {
		unit = action.UnitPercentage
	}

	width, height := bounds.Width, bounds.Height
	if c.Width != nil {
		if unit == action.UnitPercentage {
			width = bounds.Width * *c.Width / 100
		} else {
			width = *c.Width
		}
	}
	if c.Height != nil {
		if unit == action.UnitPercentage {
			height = bounds.Height * *c.Height / 100
		} else {
			height = *c.Height
		}
	}
	return width, height
}

func anchored(r Rect, bounds Rect, anchor action.Anchor) Rect {
	out := r

	// Horizontal placement.
	switch anchor {
	case action.AnchorTopLeft, action.AnchorLeft, action.AnchorBottomLeft:
		out.X = bounds.X
	case action.AnchorTopRight, action.AnchorRight, action.AnchorBottomRight:
		out.X = bounds.MaxX() - r.Width
	default:
		out.X = bounds.X + (bounds.Width-r.Width)/2
	}

	// Vertical placement.
	switch anchor {
	case action.AnchorTopLeft, action.AnchorTop, action.AnchorTopRight:
		out.Y = bounds.Y
	case action.AnchorBottomLeft, action.AnchorBottom, action.AnchorBottomRight:
		out.Y = bounds.MaxY() - r.Height
	default:
		out.Y = bounds.Y + (bounds.Height-r.Height)/2
	}

	if anchor == action.AnchorOSCenter {
		return osCenter(Rect{Width: r.Width, Height: r.Height}, bounds)
	}
	return out
}

// innerPad intersects the target with bounds and pads inward on every
// side that is not already touching the outer bounds edge, so windows
// against the screen edge keep their flush side.
func innerPad(target, bounds Rect, gap float64) Rect {
	out := target.Intersection(bounds)
	if out.IsEmpty() {
		out = target
	}

	half := gap / 2
	if math.Abs(out.X-bounds.X) > edgeEpsilon {
		out.X += half
		out.Width -= half
	}
	if math.Abs(out.MaxX()-bounds.MaxX()) > edgeEpsilon {
		out.Width -= half
	}
	if math.Abs(out.Y-bounds.Y) > edgeEpsilon {
		out.Y += half
		out.Height -= half
	}
	if math.Abs(out.MaxY()-bounds.MaxY()) > edgeEpsilon {
		out.Height -= half
	}

	if out.Width < 0 || out.Height < 0 {
		return zeroRectCentered(bounds)
	}
	return out
}
