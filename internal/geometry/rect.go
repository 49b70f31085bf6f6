package geometry

import (
	"math"

	"github.com/1broseidon/slate/internal/platform"
)

// Rect is a floating-point rectangle. The resolver works in float64 so
// fractional layouts and tolerance checks do not accumulate integer
// rounding; conversion to pixel rects happens at the platform boundary.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FromPlatform converts a pixel rect into a resolver rect.
func FromPlatform(r platform.Rect) Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// ToPlatform rounds the rect to whole pixels.
func (r Rect) ToPlatform() platform.Rect {
	return platform.Rect{
		X:      int(math.Round(r.X)),
		Y:      int(math.Round(r.Y)),
		Width:  int(math.Round(r.Width)),
		Height: int(math.Round(r.Height)),
	}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// MidX returns the horizontal center.
func (r Rect) MidX() float64 { return r.X + r.Width/2 }

// MidY returns the vertical center.
func (r Rect) MidY() float64 { return r.Y + r.Height/2 }

// IsEmpty reports a degenerate rect.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// ContainsRect reports whether other lies fully inside r, within tol.
func (r Rect) ContainsRect(other Rect, tol float64) bool {
	return other.X >= r.X-tol && other.Y >= r.Y-tol &&
		other.MaxX() <= r.MaxX()+tol && other.MaxY() <= r.MaxY()+tol
}

// Expanded grows the rect outward by d on every side.
func (r Rect) Expanded(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Intersection returns the overlap of both rects, or a zero rect when
// they are disjoint.
func (r Rect) Intersection(other Rect) Rect {
	x1 := math.Max(r.X, other.X)
	y1 := math.Max(r.Y, other.Y)
	x2 := math.Min(r.MaxX(), other.MaxX())
	y2 := math.Min(r.MaxY(), other.MaxY())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// VerticalOverlap returns the length of the shared vertical range.
func (r Rect) VerticalOverlap(other Rect) float64 {
	top := math.Max(r.Y, other.Y)
	bottom := math.Min(r.MaxY(), other.MaxY())
	if bottom <= top {
		return 0
	}
	return bottom - top
}

// CenteredIn returns a rect with this rect's size centered in bounds.
func (r Rect) CenteredIn(bounds Rect) Rect {
	return Rect{
		X:      bounds.X + (bounds.Width-r.Width)/2,
		Y:      bounds.Y + (bounds.Height-r.Height)/2,
		Width:  r.Width,
		Height: r.Height,
	}
}

// PushedInside translates the rect (size untouched) so it lies inside
// bounds. Rects larger than bounds are pinned to the top-left edge.
func (r Rect) PushedInside(bounds Rect) Rect {
	out := r
	if out.MaxX() > bounds.MaxX() {
		out.X = bounds.MaxX() - out.Width
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.MaxY() > bounds.MaxY() {
		out.Y = bounds.MaxY() - out.Height
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	return out
}

// ApproxEquals reports coordinate-wise equality within tol.
func (r Rect) ApproxEquals(other Rect, tol float64) bool {
	return math.Abs(r.X-other.X) <= tol &&
		math.Abs(r.Y-other.Y) <= tol &&
		math.Abs(r.Width-other.Width) <= tol &&
		math.Abs(r.Height-other.Height) <= tol
}

// zeroRectCentered is the sentinel for "do nothing visually": a
// zero-size rect at the bounds center.
func zeroRectCentered(bounds Rect) Rect {
	return Rect{X: bounds.MidX(), Y: bounds.MidY()}
}

// Proportional expresses a frame as 0..1 fractions of a screen, used to
// preserve relative window size across differently-sized displays.
type Proportional struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Capture converts frame into fractions of bounds.
func Capture(frame, bounds Rect) Proportional {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Proportional{}
	}
	return Proportional{
		X:      (frame.X - bounds.X) / bounds.Width,
		Y:      (frame.Y - bounds.Y) / bounds.Height,
		Width:  frame.Width / bounds.Width,
		Height: frame.Height / bounds.Height,
	}
}

// Valid reports whether all fractions fall within [-0.1, 1.1]; captured
// values outside that tolerance are discarded by the resolver.
func (p Proportional) Valid() bool {
	for _, v := range []float64{p.X, p.Y, p.Width, p.Height} {
		if v < -0.1 || v > 1.1 {
			return false
		}
	}
	return p.Width > 0 && p.Height > 0
}

// Apply scales the fractions back onto bounds.
func (p Proportional) Apply(bounds Rect) Rect {
	return Rect{
		X:      bounds.X + p.X*bounds.Width,
		Y:      bounds.Y + p.Y*bounds.Height,
		Width:  p.Width * bounds.Width,
		Height: p.Height * bounds.Height,
	}
}
