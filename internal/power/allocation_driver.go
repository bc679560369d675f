package power

import (
	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/allocator"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/power/tracker"
)

type ApplyStats struct {
	Managed int
	Active  int
	Idle    int
	// Managed entities skipped because their handle was dead.
	Dead int
	// Managed entities whose class is no longer registered.
	Unknown         int
	TotalAllocation float64
}

// AllocationDriver writes each managed entity's allocation once per tick:
// the active level when the entity was used last tick, the idle level otherwise.
type AllocationDriver struct {
	Registry  *registry.Registry
	Usage     tracker.Tracker
	Allocator allocator.Allocator

	// Dead entities already logged, pruned to the current population.
	reportedDead map[entity.ID]bool
}

func MakeAllocationDriver(reg *registry.Registry, usage tracker.Tracker, alloc allocator.Allocator) *AllocationDriver {
	return &AllocationDriver{
		Registry:     reg,
		Usage:        usage,
		Allocator:    alloc,
		reportedDead: make(map[entity.ID]bool),
	}
}

// LevelFor returns the level e receives given last tick's usage, and false
// for entities of an unregistered class.
func (d *AllocationDriver) LevelFor(e entity.Entity) (float64, bool) {
	if entity.IsNil(e) {
		return 0, false
	}
	class, ok := d.Registry.Class(e.ClassID())
	if !ok {
		return 0, false
	}
	return class.Level(d.Usage.UsedLastTick(e)), true
}

// Apply writes the allocation of every entity in population and flushes
// buffering allocators. Flush failures are logged, never returned: the next
// tick rewrites every level.
func (d *AllocationDriver) Apply(population entity.Set) ApplyStats {
	stats := ApplyStats{Managed: population.Len()}
	lastTick := d.Usage.LastTickUsage()

	for id := range d.reportedDead {
		if _, ok := population[id]; !ok {
			delete(d.reportedDead, id)
		}
	}

	for id, e := range population {
		if !entity.Alive(e) {
			stats.Dead++
			if !d.reportedDead[id] {
				d.reportedDead[id] = true
				log.Warn().Str("entity", string(id)).Msg("managed entity is gone, skipping allocation until next rescan")
			}
			continue
		}
		class, ok := d.Registry.Class(e.ClassID())
		if !ok {
			stats.Unknown++
			continue
		}
		used := lastTick.Contains(e)
		level := class.Level(used)
		if used {
			stats.Active++
		} else {
			stats.Idle++
		}
		stats.TotalAllocation += level
		d.Allocator.SetAllocation(e, level)
	}

	if err := allocator.FlushIfBuffered(d.Allocator); err != nil {
		log.Warn().Err(err).Msg("failed flushing allocations")
	}
	return stats
}
