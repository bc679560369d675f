package entity

import "reflect"

// ID identifies a live entity. Handles with equal IDs are the same entity.
type ID string

// RegionID identifies an active world region (a map).
type RegionID string

// Entity is a non-owning handle to a resource consumer that lives in the host
// world. The world may despawn it between ticks, so every holder must check
// liveness before reading through it.
type Entity interface {
	ID() ID
	ClassID() string
	// Region returns the region currently holding the entity; ok is false once
	// the entity has left the world.
	Region() (region RegionID, ok bool)
}

// IsNil reports whether e is a nil interface or wraps a nil pointer.
func IsNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Alive reports whether e is a usable handle: non-nil and still placed in a region.
func Alive(e Entity) bool {
	if IsNil(e) {
		return false
	}
	_, ok := e.Region()
	return ok
}

// Item is anything found on a cell of the world grid.
type Item struct {
	ID            ID
	Kind          string
	GrowthCapable bool
}
