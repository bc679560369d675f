package world

import "github.com/Shopify/gorepower/internal/entity"

// ClassDescriptor is the host's resolved description of an entity class.
type ClassDescriptor struct {
	Name  string
	Label string
}

type ClassResolver interface {
	// ResolveClass looks up a class by name; ok is false for names the host
	// does not know (for example a class from a content pack that is not loaded).
	ResolveClass(name string) (desc ClassDescriptor, ok bool)
}

// Queries are the read-only per-entity lookups the usage evaluators rely on.
// Any of them may return an empty/false answer for entities lacking the trait.
type Queries interface {
	IsReservedByAnyActor(e entity.Entity) bool
	Occupants(e entity.Entity) []entity.Entity
	LinkedFacilities(e entity.Entity) []entity.Entity
	IsOpen(e entity.Entity) bool
	IsTransientlyBlocked(e entity.Entity) bool
	FootprintCells(e entity.Entity) []entity.Cell
	ContentsAt(region entity.RegionID, cell entity.Cell) []entity.Item
	// ScheduleAllowed reports whether the entity's schedule permits operation
	// now; hasSchedule is false when the entity carries no schedule at all.
	ScheduleAllowed(e entity.Entity) (allowed bool, hasSchedule bool)
}

// World is the host simulation the power tracker observes.
type World interface {
	ClassResolver
	Queries

	CurrentTick() int64
	// Regions lists every active world region.
	Regions() []entity.RegionID
	EnumerateLiveInstancesOfClass(class ClassDescriptor, region entity.RegionID) []entity.Entity
	// ObservedPopulationCount is the number of player-owned buildings in the
	// primary observed region. Only changes of the value are meaningful.
	ObservedPopulationCount() int
}
