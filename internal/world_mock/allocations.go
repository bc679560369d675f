package world_mock

import (
	"github.com/Shopify/gorepower/internal/entity"
)

// SetAllocation records the power output level applied to a building.
// Writes to dead handles are dropped, as a real power grid would.
func (w *World) SetAllocation(e entity.Entity, level float64) {
	if !entity.Alive(e) {
		return
	}
	w.allocations[e.ID()] = level
	w.allocationWrites++
}

// Allocation returns the last level written for e.
func (w *World) Allocation(e entity.Entity) (float64, bool) {
	if entity.IsNil(e) {
		return 0, false
	}
	level, ok := w.allocations[e.ID()]
	return level, ok
}

func (w *World) AllocationWrites() int64 {
	return w.allocationWrites
}

// TotalAllocation sums the levels currently applied across live buildings.
func (w *World) TotalAllocation() float64 {
	total := 0.0
	for _, level := range w.allocations {
		total += level
	}
	return total
}
