// Package history tracks per-window frame records so undo, initial
// frame restore and size snapping can consult what a window looked like
// before each applied action.
package history

import (
	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/platform"
)

// Record is one history entry: the frame a window had immediately
// before the named action mutated it.
type Record struct {
	Action action.Action
	Frame  geometry.Rect
}

// Store keeps frame records per window. It is only touched from the
// dispatch loop and therefore unlocked.
type Store struct {
	records map[platform.WindowID][]Record
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{records: make(map[platform.WindowID][]Record)}
}

// Add records the pre-mutation frame for an action about to be applied.
// A frame identical to the previous record for the same manipulation is
// skipped so repeated idempotent actions don't inflate the stack.
func (s *Store) Add(id platform.WindowID, a action.Action, frame geometry.Rect) {
	stack := s.records[id]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if last.Frame.ApproxEquals(frame, 0.5) && last.Action.SameManipulation(&a) {
			return
		}
	}
	s.records[id] = append(stack, Record{Action: a, Frame: frame})
}

// Last returns the most recent record for the window.
func (s *Store) Last(id platform.WindowID) (Record, bool) {
	stack := s.records[id]
	if len(stack) == 0 {
		return Record{}, false
	}
	return stack[len(stack)-1], true
}

// PopLast removes and returns the most recent record. Undo restores the
// popped frame, so consecutive undos walk back through history.
func (s *Store) PopLast(id platform.WindowID) (Record, bool) {
	stack := s.records[id]
	if len(stack) == 0 {
		return Record{}, false
	}
	rec := stack[len(stack)-1]
	s.records[id] = stack[:len(stack)-1]
	return rec, true
}

// CurrentAction returns the action currently in effect on the window,
// i.e. the action of the most recent record.
func (s *Store) CurrentAction(id platform.WindowID) (action.Action, bool) {
	rec, ok := s.Last(id)
	return rec.Action, ok
}

// InitialFrame returns the frame from the window's oldest record: what
// it looked like before this tool ever touched it.
func (s *Store) InitialFrame(id platform.WindowID) (geometry.Rect, bool) {
	stack := s.records[id]
	if len(stack) == 0 {
		return geometry.Rect{}, false
	}
	return stack[0].Frame, true
}

// Frames returns every recorded frame for the window, oldest first.
// Size adjustments snap to these to make grow/shrink reversible.
func (s *Store) Frames(id platform.WindowID) []geometry.Rect {
	stack := s.records[id]
	if len(stack) == 0 {
		return nil
	}
	frames := make([]geometry.Rect, len(stack))
	for i, rec := range stack {
		frames[i] = rec.Frame
	}
	return frames
}

// Erase drops all records for the window. Used when a window goes away
// or is restored to its initial frame.
func (s *Store) Erase(id platform.WindowID) {
	delete(s.records, id)
}
