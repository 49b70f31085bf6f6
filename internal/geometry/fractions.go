package geometry

import "github.com/1broseidon/slate/internal/action"

// FracRect describes a fixed layout as 0..1 fractions of the bounds.
type FracRect struct {
	X float64
	Y float64
	W float64
	H float64
}

const third = 1.0 / 3.0

var fractionTable = map[action.Direction]FracRect{
	action.Maximize:   {0, 0, 1, 1},
	action.LeftHalf:   {0, 0, 0.5, 1},
	action.RightHalf:  {0.5, 0, 0.5, 1},
	action.TopHalf:    {0, 0, 1, 0.5},
	action.BottomHalf: {0, 0.5, 1, 0.5},

	action.TopLeftQuarter:     {0, 0, 0.5, 0.5},
	action.TopRightQuarter:    {0.5, 0, 0.5, 0.5},
	action.BottomLeftQuarter:  {0, 0.5, 0.5, 0.5},
	action.BottomRightQuarter: {0.5, 0.5, 0.5, 0.5},

	action.LeftThird:             {0, 0, third, 1},
	action.HorizontalCenterThird: {third, 0, third, 1},
	action.RightThird:            {2 * third, 0, third, 1},
	action.LeftTwoThirds:         {0, 0, 2 * third, 1},
	action.RightTwoThirds:        {third, 0, 2 * third, 1},

	action.TopThird:            {0, 0, 1, third},
	action.VerticalCenterThird: {0, third, 1, third},
	action.BottomThird:         {0, 2 * third, 1, third},
	action.TopTwoThirds:        {0, 0, 1, 2 * third},
	action.BottomTwoThirds:     {0, third, 1, 2 * third},

	action.LeftFourth:        {0, 0, 0.25, 1},
	action.CenterLeftFourth:  {0.25, 0, 0.25, 1},
	action.CenterRightFourth: {0.5, 0, 0.25, 1},
	action.RightFourth:       {0.75, 0, 0.25, 1},
}

// FractionFor returns the fixed fraction for a direction, if it is a
// fixed layout.
func FractionFor(dir action.Direction) (FracRect, bool) {
	f, ok := fractionTable[dir]
	return f, ok
}

// Multiply scales the fraction against bounds.
func (f FracRect) Multiply(bounds Rect) Rect {
	return Rect{
		X:      bounds.X + f.X*bounds.Width,
		Y:      bounds.Y + f.Y*bounds.Height,
		Width:  f.W * bounds.Width,
		Height: f.H * bounds.Height,
	}
}
