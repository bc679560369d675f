package impl

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/allocator"
)

// FanoutAllocator forwards every write to each of its targets in order.
type FanoutAllocator struct {
	targets []allocator.Allocator
}

func (fa *FanoutAllocator) SetAllocation(e entity.Entity, level float64) {
	for _, t := range fa.targets {
		t.SetAllocation(e, level)
	}
}

// Flush flushes every buffering target and returns the first error.
func (fa *FanoutAllocator) Flush() error {
	var firstErr error
	for _, t := range fa.targets {
		if err := allocator.FlushIfBuffered(t); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
