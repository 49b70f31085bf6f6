package geometry

import (
	"math"
	"testing"

	"github.com/1broseidon/slate/internal/action"
)

var testBounds = Rect{X: 0, Y: 0, Width: 1000, Height: 800}

func TestResolve_FixedFractionsContainedInBounds(t *testing.T) {
	prior := Rect{X: 100, Y: 100, Width: 300, Height: 200}

	for dir, frac := range fractionTable {
		a := action.Action{Direction: dir}
		got := Resolve(&a, testBounds, prior, Options{})

		if !testBounds.ContainsRect(got, 0.001) {
			t.Fatalf("%s: rect %+v escapes bounds", dir, got)
		}
		wantW := frac.W * testBounds.Width
		wantH := frac.H * testBounds.Height
		if math.Abs(got.Width-wantW) > 0.001 || math.Abs(got.Height-wantH) > 0.001 {
			t.Fatalf("%s: got %gx%g, want %gx%g", dir, got.Width, got.Height, wantW, wantH)
		}
	}
}

func TestResolve_TopHalfScenario(t *testing.T) {
	a := action.Action{Direction: action.TopHalf}
	got := Resolve(&a, testBounds, Rect{}, Options{})

	want := Rect{X: 0, Y: 0, Width: 1000, Height: 400}
	if !got.ApproxEquals(want, 0.001) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	prior := Rect{X: 40, Y: 60, Width: 500, Height: 500}
	a := action.Action{Direction: action.RightHalf}

	once := Resolve(&a, testBounds, prior, Options{})
	twice := Resolve(&a, testBounds, once, Options{})
	if !once.ApproxEquals(twice, 0.001) {
		t.Fatalf("not idempotent: %+v then %+v", once, twice)
	}
}

func TestResolve_GrowShrinkConverges(t *testing.T) {
	original := Rect{X: 200, Y: 150, Width: 400, Height: 300}
	larger := action.Action{Direction: action.Larger}
	smaller := action.Action{Direction: action.Smaller}

	frame := original
	recorded := []Rect{original}
	for i := 0; i < 5; i++ {
		frame = Resolve(&larger, testBounds, frame, Options{SnapCandidates: recorded})
		recorded = append(recorded, frame)
	}
	for i := 0; i < 5; i++ {
		frame = Resolve(&smaller, testBounds, frame, Options{SnapCandidates: recorded})
		recorded = append(recorded, frame)
	}

	if !frame.ApproxEquals(original, snapTolerance) {
		t.Fatalf("did not converge: got %+v, want %+v", frame, original)
	}
}

func TestResolve_ShrinkClampsToMinimumSize(t *testing.T) {
	frame := Rect{X: 450, Y: 350, Width: 120, Height: 120}
	smaller := action.Action{Direction: action.Smaller}
	opts := Options{Padding: Padding{Left: 10, Right: 10, Top: 10, Bottom: 10}}

	for i := 0; i < 20; i++ {
		frame = Resolve(&smaller, testBounds, frame, opts)
	}

	if frame.Width < 120 || frame.Height < 120 {
		t.Fatalf("shrunk below clamp: %+v", frame)
	}
}

func TestResolve_CustomPercentageCentered(t *testing.T) {
	w, h := 80.0, 80.0
	a := action.Action{
		Direction: action.Custom,
		Custom: &action.CustomFields{
			Unit:   action.UnitPercentage,
			Anchor: action.AnchorCenter,
			Width:  &w,
			Height: &h,
		},
	}

	got := Resolve(&a, testBounds, Rect{}, Options{})
	want := Rect{X: 100, Y: 80, Width: 800, Height: 640}
	if !got.ApproxEquals(want, 0.001) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolve_CustomPixelAnchors(t *testing.T) {
	w, h := 200.0, 100.0
	cases := []struct {
		anchor action.Anchor
		want   Rect
	}{
		{action.AnchorTopLeft, Rect{X: 0, Y: 0, Width: 200, Height: 100}},
		{action.AnchorBottomRight, Rect{X: 800, Y: 700, Width: 200, Height: 100}},
		{action.AnchorTop, Rect{X: 400, Y: 0, Width: 200, Height: 100}},
		{action.AnchorLeft, Rect{X: 0, Y: 350, Width: 200, Height: 100}},
	}

	for _, tc := range cases {
		a := action.Action{
			Direction: action.Custom,
			Custom: &action.CustomFields{
				Unit:   action.UnitPixels,
				Anchor: tc.anchor,
				Width:  &w,
				Height: &h,
			},
		}
		got := Resolve(&a, testBounds, Rect{}, Options{})
		if !got.ApproxEquals(tc.want, 0.001) {
			t.Fatalf("%s: got %+v, want %+v", tc.anchor, got, tc.want)
		}
	}
}

func TestResolve_CustomCoordinates(t *testing.T) {
	w, h, x, y := 300.0, 200.0, 50.0, 70.0
	a := action.Action{
		Direction: action.Custom,
		Custom: &action.CustomFields{
			Unit:         action.UnitPixels,
			Width:        &w,
			Height:       &h,
			PositionMode: action.PositionModeCoordinates,
			XPoint:       &x,
			YPoint:       &y,
		},
	}

	got := Resolve(&a, testBounds, Rect{}, Options{})
	want := Rect{X: 50, Y: 70, Width: 300, Height: 200}
	if !got.ApproxEquals(want, 0.001) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolve_OSCenterOffsetsShortWindowsUpward(t *testing.T) {
	prior := Rect{X: 0, Y: 0, Width: 400, Height: 200}
	a := action.Action{Direction: action.OSCenter}

	got := Resolve(&a, testBounds, prior, Options{})
	plain := prior.CenteredIn(testBounds)
	if got.Y >= plain.Y {
		t.Fatalf("expected upward bias: os-center y=%g, plain y=%g", got.Y, plain.Y)
	}
	// Offset formula: (0.5*(200/800) - 0.5) * 800/2 = -150.
	if math.Abs(got.Y-(plain.Y-150)) > 0.001 {
		t.Fatalf("unexpected offset: got y=%g", got.Y)
	}
}

func TestResolve_NoFrameActionsReturnSentinel(t *testing.T) {
	for _, dir := range []action.Direction{action.NoAction, action.Cycle, action.Minimize, action.Hide} {
		a := action.Action{Direction: dir}
		if dir == action.Cycle {
			a.Cycle = []action.Action{{Direction: action.LeftHalf}}
		}
		got := Resolve(&a, testBounds, Rect{X: 1, Y: 2, Width: 3, Height: 4}, Options{})
		if got.Width != 0 || got.Height != 0 {
			t.Fatalf("%s: expected zero-size sentinel, got %+v", dir, got)
		}
		if got.X != testBounds.MidX() || got.Y != testBounds.MidY() {
			t.Fatalf("%s: sentinel not centered: %+v", dir, got)
		}
	}
}

func TestResolve_UndoFallsBackToPrior(t *testing.T) {
	prior := Rect{X: 10, Y: 20, Width: 300, Height: 400}
	a := action.Action{Direction: action.Undo}

	got := Resolve(&a, testBounds, prior, Options{})
	if !got.ApproxEquals(prior, 0.001) {
		t.Fatalf("got %+v, want prior %+v", got, prior)
	}

	undo := Rect{X: 5, Y: 5, Width: 100, Height: 100}
	got = Resolve(&a, testBounds, prior, Options{UndoRect: &undo})
	if !got.ApproxEquals(undo, 0.001) {
		t.Fatalf("got %+v, want undo %+v", got, undo)
	}
}

func TestResolve_NonResizableRepositionsOnly(t *testing.T) {
	prior := Rect{X: 700, Y: 600, Width: 600, Height: 500}
	a := action.Action{Direction: action.BottomRightQuarter}

	got := Resolve(&a, testBounds, prior, Options{NonResizable: true})
	if got.Width != prior.Width || got.Height != prior.Height {
		t.Fatalf("size changed for non-resizable window: %+v", got)
	}
	if !testBounds.ContainsRect(got, 0.001) {
		t.Fatalf("rect escapes bounds: %+v", got)
	}
}

func TestResolve_ProportionalScreenSwitch(t *testing.T) {
	small := Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	big := Rect{X: 1000, Y: 0, Width: 2000, Height: 1600}
	prior := Rect{X: 250, Y: 200, Width: 500, Height: 400}

	prop := Capture(prior, small)
	a := action.Action{Direction: action.NextScreen}

	got := Resolve(&a, big, prior, Options{Proportional: &prop})
	want := Rect{X: 1500, Y: 400, Width: 1000, Height: 800}
	if !got.ApproxEquals(want, 0.001) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolve_InvalidProportionalDiscarded(t *testing.T) {
	prop := Proportional{X: 2.5, Y: 0, Width: 0.5, Height: 0.5}
	if prop.Valid() {
		t.Fatal("expected out-of-tolerance proportional to be invalid")
	}

	a := action.Action{Direction: action.NextScreen}
	prior := Rect{X: 0, Y: 0, Width: 500, Height: 400}
	got := Resolve(&a, testBounds, prior, Options{Proportional: &prop})
	want := prior.CenteredIn(testBounds)
	if !got.ApproxEquals(want, 0.001) {
		t.Fatalf("got %+v, want centered fallback %+v", got, want)
	}
}

func TestResolve_InnerPaddingSkipsBoundsEdges(t *testing.T) {
	a := action.Action{Direction: action.LeftHalf}
	got := Resolve(&a, testBounds, Rect{}, Options{InnerGap: 20})

	// Left, top and bottom touch the bounds; only the right side pads.
	if got.X != 0 || got.Y != 0 || got.Height != 800 {
		t.Fatalf("edge sides should stay flush: %+v", got)
	}
	if got.Width != 490 {
		t.Fatalf("expected inner gap on right side: width=%g", got.Width)
	}
}

func TestResolve_NegativeSizeClampsToSentinel(t *testing.T) {
	w, h := -50.0, -50.0
	a := action.Action{
		Direction: action.Custom,
		Custom:    &action.CustomFields{Unit: action.UnitPixels, Width: &w, Height: &h},
	}
	got := Resolve(&a, testBounds, Rect{}, Options{})
	if got.Width != 0 || got.Height != 0 {
		t.Fatalf("expected sentinel for negative size, got %+v", got)
	}
}

func TestMoveStepsAreSymmetric(t *testing.T) {
	prior := Rect{X: 400, Y: 300, Width: 200, Height: 200}
	left := action.Action{Direction: action.MoveLeft}
	right := action.Action{Direction: action.MoveRight}

	moved := Resolve(&left, testBounds, prior, Options{})
	back := Resolve(&right, testBounds, moved, Options{})
	if !back.ApproxEquals(prior, 0.001) {
		t.Fatalf("move left then right drifted: %+v vs %+v", back, prior)
	}
}
