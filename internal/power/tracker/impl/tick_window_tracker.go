package impl

import (
	"sync"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
)

// TickWindowTracker keeps two usage windows: the one accumulating during the
// current tick and the frozen one from the tick before. Allocation reads only
// the frozen window, so a building marked at any point of tick N is reported
// as used for the whole of tick N+1.
type TickWindowTracker struct {
	lastRotatedTick int64
	hasRotated      bool
	rotations       int64

	// Mutex-guarded windows for { current tick, previous tick }.
	windows struct {
		sync.Mutex
		current  entity.Set
		previous entity.Set
	}
}

func (t *TickWindowTracker) MarkUsed(e entity.Entity) {
	if entity.IsNil(e) {
		return
	}
	t.windows.Lock()
	t.windows.current.Add(e)
	t.windows.Unlock()
}

func (t *TickWindowTracker) RotateTick(tick int64) bool {
	t.windows.Lock()
	defer t.windows.Unlock()

	// Several call sites may try to rotate within the same tick.
	if t.hasRotated && tick == t.lastRotatedTick {
		return false
	}
	t.hasRotated = true
	t.lastRotatedTick = tick
	t.rotations++

	t.windows.previous = t.windows.current
	t.windows.current = make(entity.Set, len(t.windows.previous))
	return true
}

func (t *TickWindowTracker) InUseThisTick(e entity.Entity) bool {
	t.windows.Lock()
	defer t.windows.Unlock()
	return t.windows.current.Contains(e)
}

func (t *TickWindowTracker) UsedLastTick(e entity.Entity) bool {
	t.windows.Lock()
	defer t.windows.Unlock()
	return t.windows.previous.Contains(e)
}

func (t *TickWindowTracker) LastTickUsage() entity.Set {
	t.windows.Lock()
	defer t.windows.Unlock()
	return t.windows.previous.Clone()
}

func (t *TickWindowTracker) Stats() tracker.Stats {
	t.windows.Lock()
	defer t.windows.Unlock()
	return tracker.Stats{
		LastRotatedTick: t.lastRotatedTick,
		Rotations:       t.rotations,
		InUseThisTick:   t.windows.current.Len(),
		UsedLastTick:    t.windows.previous.Len(),
	}
}
