package allocator

import (
	"github.com/Shopify/gorepower/internal/entity"
)

// Allocator applies a power output level to an entity. Writes to dead
// handles must be tolerated.
type Allocator interface {
	SetAllocation(e entity.Entity, level float64)
}

// Flusher is implemented by allocators that buffer writes and publish them
// once per tick.
type Flusher interface {
	Flush() error
}

// FlushIfBuffered flushes a when it buffers writes.
func FlushIfBuffered(a Allocator) error {
	if f, ok := a.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
