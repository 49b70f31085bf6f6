package engine

import (
	"math"
	"sync"
	"time"

	"github.com/1broseidon/slate/internal/platform"
)

const frameInterval = 16 * time.Millisecond

// animator moves frames over time. Starting a new animation for a
// window cancels the one in flight; xgb serializes requests internally
// so the stepping goroutine never races the dispatch loop's own calls.
type animator struct {
	backend platform.Backend

	mu      sync.Mutex
	cancels map[platform.WindowID]chan struct{}
}

func newAnimator(backend platform.Backend) *animator {
	return &animator{
		backend: backend,
		cancels: make(map[platform.WindowID]chan struct{}),
	}
}

func (an *animator) animate(id platform.WindowID, from, to platform.Rect, durationMS int) {
	an.mu.Lock()
	if prev, ok := an.cancels[id]; ok {
		close(prev)
	}
	cancel := make(chan struct{})
	an.cancels[id] = cancel
	an.mu.Unlock()

	duration := time.Duration(durationMS) * time.Millisecond
	if duration <= 0 {
		an.backend.MoveResize(id, to)
		an.finish(id, cancel)
		return
	}

	go func() {
		defer an.finish(id, cancel)

		steps := int(duration / frameInterval)
		if steps < 1 {
			steps = 1
		}
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for i := 1; i <= steps; i++ {
			select {
			case <-cancel:
				return
			case <-ticker.C:
			}
			t := easeOutCubic(float64(i) / float64(steps))
			an.backend.MoveResize(id, lerpRect(from, to, t))
		}
		an.backend.MoveResize(id, to)
	}()
}

// cancelAll stops every in-flight animation; used at shutdown.
func (an *animator) cancelAll() {
	an.mu.Lock()
	defer an.mu.Unlock()
	for id, c := range an.cancels {
		close(c)
		delete(an.cancels, id)
	}
}

func (an *animator) finish(id platform.WindowID, cancel chan struct{}) {
	an.mu.Lock()
	if an.cancels[id] == cancel {
		delete(an.cancels, id)
	}
	an.mu.Unlock()
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func lerpRect(from, to platform.Rect, t float64) platform.Rect {
	return platform.Rect{
		X:      from.X + int(math.Round(float64(to.X-from.X)*t)),
		Y:      from.Y + int(math.Round(float64(to.Y-from.Y)*t)),
		Width:  from.Width + int(math.Round(float64(to.Width-from.Width)*t)),
		Height: from.Height + int(math.Round(float64(to.Height-from.Height)*t)),
	}
}
