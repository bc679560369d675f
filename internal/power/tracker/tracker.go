package tracker

import "github.com/Shopify/gorepower/internal/entity"

// Marker receives usage signals. Evaluators and direct-use hooks only ever
// see this side of the tracker.
type Marker interface {
	MarkUsed(e entity.Entity)
}

type Tracker interface {
	Marker

	// RotateTick moves this tick's usage into the last-tick window and starts
	// an empty one. It returns false, doing nothing, for a tick already rotated.
	RotateTick(tick int64) bool

	InUseThisTick(e entity.Entity) bool
	UsedLastTick(e entity.Entity) bool

	// LastTickUsage returns a copy of the frozen last-tick window.
	LastTickUsage() entity.Set

	Stats() Stats
}

type Stats struct {
	LastRotatedTick int64
	Rotations       int64
	InUseThisTick   int
	UsedLastTick    int
}
