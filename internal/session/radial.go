package session

import (
	"math"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/platform"
)

// radialSectors maps the eight 45°-wide compass sectors to layouts,
// starting at east and walking counterclockwise.
var radialSectors = [8]action.Direction{
	action.RightHalf,
	action.TopRightQuarter,
	action.TopHalf,
	action.TopLeftQuarter,
	action.LeftHalf,
	action.BottomLeftQuarter,
	action.BottomHalf,
	action.BottomRightQuarter,
}

// radialDirection converts the pointer's displacement from the session
// start point into a layout direction. Displacements inside the dead
// zone select nothing.
func radialDirection(start, cur platform.Point, deadZone float64) action.Direction {
	dx := float64(cur.X - start.X)
	dy := float64(cur.Y - start.Y)
	if math.Hypot(dx, dy) < deadZone {
		return action.NoAction
	}

	// Screen Y grows downward, so flip it to get math angles.
	angle := math.Atan2(-dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	sector := int(math.Floor((angle+22.5)/45)) % 8
	return radialSectors[sector]
}
