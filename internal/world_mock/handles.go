package world_mock

import (
	"github.com/Shopify/gorepower/internal/entity"
)

const ActorClassID = "Colonist"

// Building is a placed, player-owned structure. It is the only kind of entity
// the power tracker manages.
type Building struct {
	id        entity.ID
	class     string
	region    *Region
	footprint entity.Rect
	despawned bool

	occupants  entity.Set
	reservedBy entity.Set
	facilities []*Building

	open     bool
	blocked  bool
	schedule *schedule
}

type schedule struct {
	allowed bool
}

func (b *Building) ID() entity.ID {
	return b.id
}

func (b *Building) ClassID() string {
	return b.class
}

func (b *Building) Region() (entity.RegionID, bool) {
	if b.despawned || !b.region.active {
		return "", false
	}
	return b.region.id, true
}

func (b *Building) Footprint() entity.Rect {
	return b.footprint
}

// Actor is a colonist able to reserve, occupy and operate buildings.
type Actor struct {
	id        entity.ID
	Name      string
	region    *Region
	despawned bool
}

func (a *Actor) ID() entity.ID {
	return a.id
}

func (a *Actor) ClassID() string {
	return ActorClassID
}

func (a *Actor) Region() (entity.RegionID, bool) {
	if a.despawned || !a.region.active {
		return "", false
	}
	return a.region.id, true
}

// Region is one map of the world.
type Region struct {
	id        entity.RegionID
	active    bool
	buildings map[entity.ID]*Building
	items     map[entity.Cell][]entity.Item
}

func (r *Region) ID() entity.RegionID {
	return r.id
}

func (r *Region) BuildingCount() int {
	return len(r.buildings)
}
