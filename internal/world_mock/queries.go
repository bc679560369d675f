package world_mock

import (
	"github.com/Shopify/gorepower/internal/entity"
)

func asBuilding(e entity.Entity) (*Building, bool) {
	b, ok := e.(*Building)
	if !ok || b == nil {
		return nil, false
	}
	return b, true
}

func (w *World) IsReservedByAnyActor(e entity.Entity) bool {
	b, ok := asBuilding(e)
	if !ok {
		return false
	}
	for _, a := range b.reservedBy {
		if entity.Alive(a) {
			return true
		}
	}
	return false
}

func (w *World) Occupants(e entity.Entity) []entity.Entity {
	b, ok := asBuilding(e)
	if !ok {
		return nil
	}
	out := make([]entity.Entity, 0, len(b.occupants))
	for _, a := range b.occupants {
		if entity.Alive(a) {
			out = append(out, a)
		}
	}
	return out
}

func (w *World) LinkedFacilities(e entity.Entity) []entity.Entity {
	b, ok := asBuilding(e)
	if !ok {
		return nil
	}
	out := make([]entity.Entity, 0, len(b.facilities))
	for _, f := range b.facilities {
		out = append(out, f)
	}
	return out
}

func (w *World) IsOpen(e entity.Entity) bool {
	b, ok := asBuilding(e)
	return ok && b.open
}

func (w *World) IsTransientlyBlocked(e entity.Entity) bool {
	b, ok := asBuilding(e)
	return ok && b.blocked
}

func (w *World) FootprintCells(e entity.Entity) []entity.Cell {
	b, ok := asBuilding(e)
	if !ok {
		return nil
	}
	return b.footprint.Cells()
}

func (w *World) ContentsAt(region entity.RegionID, cell entity.Cell) []entity.Item {
	r, ok := w.regions[region]
	if !ok {
		return nil
	}
	return r.items[cell]
}

func (w *World) ScheduleAllowed(e entity.Entity) (bool, bool) {
	b, ok := asBuilding(e)
	if !ok || b.schedule == nil {
		return false, false
	}
	return b.schedule.allowed, true
}
