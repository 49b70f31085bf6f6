package session

import (
	"sort"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/platform"
)

// Displays whose vertical spans overlap by at least this much are
// considered the same row for ordering and left/right adjacency.
const rowOverlap = 10

// orderedDisplays returns displays in reading order: rows top to
// bottom, left to right within a row.
func orderedDisplays(displays []platform.Display) []platform.Display {
	out := make([]platform.Display, len(displays))
	copy(out, displays)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if sameRow(a, b) {
			return a.Bounds.X < b.Bounds.X
		}
		return a.Bounds.Y < b.Bounds.Y
	})
	return out
}

func sameRow(a, b platform.Display) bool {
	top := max(a.Bounds.Y, b.Bounds.Y)
	bottom := min(a.Bounds.Y+a.Bounds.Height, b.Bounds.Y+b.Bounds.Height)
	return bottom-top >= rowOverlap
}

// adjacentDisplay resolves a screen-switch direction to its target
// display. Wrap-around is always enabled; a single display maps to
// itself.
func adjacentDisplay(dir action.Direction, displays []platform.Display, cur platform.Display) (platform.Display, bool) {
	if len(displays) == 0 {
		return platform.Display{}, false
	}
	if len(displays) == 1 {
		return displays[0], true
	}

	switch dir {
	case action.NextScreen:
		return stepDisplay(displays, cur, 1), true
	case action.PreviousScreen:
		return stepDisplay(displays, cur, -1), true
	case action.LeftScreen:
		return directional(displays, cur, func(d platform.Display) bool {
			return sameRow(d, cur) && d.Bounds.X < cur.Bounds.X
		}, func(d platform.Display) bool {
			return sameRow(d, cur)
		}), true
	case action.RightScreen:
		return directional(displays, cur, func(d platform.Display) bool {
			return sameRow(d, cur) && d.Bounds.X > cur.Bounds.X
		}, func(d platform.Display) bool {
			return sameRow(d, cur)
		}), true
	case action.TopScreen:
		return directional(displays, cur, func(d platform.Display) bool {
			return sameColumn(d, cur) && d.Bounds.Y < cur.Bounds.Y
		}, func(d platform.Display) bool {
			return sameColumn(d, cur)
		}), true
	case action.BottomScreen:
		return directional(displays, cur, func(d platform.Display) bool {
			return sameColumn(d, cur) && d.Bounds.Y > cur.Bounds.Y
		}, func(d platform.Display) bool {
			return sameColumn(d, cur)
		}), true
	}
	return platform.Display{}, false
}

func sameColumn(a, b platform.Display) bool {
	left := max(a.Bounds.X, b.Bounds.X)
	right := min(a.Bounds.X+a.Bounds.Width, b.Bounds.X+b.Bounds.Width)
	return right-left >= rowOverlap
}

func stepDisplay(displays []platform.Display, cur platform.Display, step int) platform.Display {
	ordered := orderedDisplays(displays)
	idx := 0
	for i, d := range ordered {
		if d.ID == cur.ID {
			idx = i
			break
		}
	}
	n := len(ordered)
	return ordered[((idx+step)%n+n)%n]
}

// directional picks the nearest display matching the candidate
// predicate; when none matches it wraps to the farthest display in the
// pool, which sits at the opposite end of the axis.
func directional(displays []platform.Display, cur platform.Display, candidate, wrapPool func(platform.Display) bool) platform.Display {
	ordered := orderedDisplays(displays)

	var best *platform.Display
	for i := range ordered {
		d := ordered[i]
		if d.ID == cur.ID || !candidate(d) {
			continue
		}
		if best == nil || axisDistance(cur, d) < axisDistance(cur, *best) {
			best = &ordered[i]
		}
	}
	if best != nil {
		return *best
	}

	var far *platform.Display
	for i := range ordered {
		d := ordered[i]
		if d.ID == cur.ID || !wrapPool(d) {
			continue
		}
		if far == nil || axisDistance(cur, d) > axisDistance(cur, *far) {
			far = &ordered[i]
		}
	}
	if far != nil {
		return *far
	}
	return cur
}

func axisDistance(cur, d platform.Display) int {
	dx := d.Bounds.X - cur.Bounds.X
	dy := d.Bounds.Y - cur.Bounds.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
