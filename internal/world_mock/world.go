package world_mock

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/world"
)

// World is an in-memory host simulation. It is not safe for concurrent use:
// like the tracker it serves, it is driven from a single tick goroutine.
type World struct {
	tick int64

	// First region added; its building count feeds ObservedPopulationCount.
	homeRegion  entity.RegionID
	regionOrder []entity.RegionID
	regions     map[entity.RegionID]*Region

	classes map[string]world.ClassDescriptor

	allocations      map[entity.ID]float64
	allocationWrites int64
}

var _ world.World = (*World)(nil)

func MakeWorld(classNames ...string) *World {
	w := &World{
		regions:     make(map[entity.RegionID]*Region),
		classes:     make(map[string]world.ClassDescriptor),
		allocations: make(map[entity.ID]float64),
	}
	for _, name := range classNames {
		w.DefineClass(name)
	}
	return w
}

// DefineClass makes a class name resolvable.
func (w *World) DefineClass(name string) {
	w.classes[name] = world.ClassDescriptor{Name: name, Label: name}
}

func (w *World) ResolveClass(name string) (world.ClassDescriptor, bool) {
	desc, ok := w.classes[name]
	return desc, ok
}

func (w *World) CurrentTick() int64 {
	return w.tick
}

func (w *World) AdvanceTick() int64 {
	w.tick++
	return w.tick
}

func (w *World) AddRegion(id entity.RegionID) *Region {
	if r, ok := w.regions[id]; ok {
		return r
	}
	r := &Region{
		id:        id,
		active:    true,
		buildings: make(map[entity.ID]*Building),
		items:     make(map[entity.Cell][]entity.Item),
	}
	w.regions[id] = r
	w.regionOrder = append(w.regionOrder, id)
	if w.homeRegion == "" {
		w.homeRegion = id
	}
	return r
}

// RemoveRegion abandons a region. Handles into it become stale.
func (w *World) RemoveRegion(id entity.RegionID) {
	r, ok := w.regions[id]
	if !ok {
		return
	}
	r.active = false
	delete(w.regions, id)
	for i, rid := range w.regionOrder {
		if rid == id {
			w.regionOrder = append(w.regionOrder[:i], w.regionOrder[i+1:]...)
			break
		}
	}
	if w.homeRegion == id {
		w.homeRegion = ""
		if len(w.regionOrder) > 0 {
			w.homeRegion = w.regionOrder[0]
		}
	}
}

func (w *World) Regions() []entity.RegionID {
	out := make([]entity.RegionID, len(w.regionOrder))
	copy(out, w.regionOrder)
	return out
}

func (w *World) Region(id entity.RegionID) (*Region, bool) {
	r, ok := w.regions[id]
	return r, ok
}

func (w *World) ObservedPopulationCount() int {
	r, ok := w.regions[w.homeRegion]
	if !ok {
		return 0
	}
	return r.BuildingCount()
}

func (w *World) EnumerateLiveInstancesOfClass(class world.ClassDescriptor, region entity.RegionID) []entity.Entity {
	r, ok := w.regions[region]
	if !ok {
		return nil
	}
	out := make([]entity.Entity, 0)
	for _, b := range r.buildings {
		if b.class == class.Name {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Spawn places a new building of a known class with the given footprint.
func (w *World) Spawn(class string, region entity.RegionID, origin entity.Cell, width, depth int) (*Building, error) {
	if _, ok := w.classes[class]; !ok {
		return nil, errors.Errorf("cannot spawn unknown class %q", class)
	}
	r, ok := w.regions[region]
	if !ok {
		return nil, errors.Errorf("cannot spawn %q into missing region %q", class, region)
	}
	b := &Building{
		id:         entity.ID(uuid.NewString()),
		class:      class,
		region:     r,
		footprint:  entity.RectAt(origin, width, depth),
		occupants:  entity.NewSet(),
		reservedBy: entity.NewSet(),
	}
	r.buildings[b.id] = b
	return b, nil
}

// MustSpawn is Spawn for fixtures where failure is a programming error.
func (w *World) MustSpawn(class string, region entity.RegionID, origin entity.Cell, width, depth int) *Building {
	b, err := w.Spawn(class, region, origin, width, depth)
	if err != nil {
		panic(err)
	}
	return b
}

// Despawn removes a building from the world. The handle stays valid as an
// identity but reports itself dead from then on.
func (w *World) Despawn(b *Building) {
	if b == nil || b.despawned {
		return
	}
	b.despawned = true
	delete(b.region.buildings, b.id)
	delete(w.allocations, b.id)
}

func (w *World) SpawnActor(name string, region entity.RegionID) (*Actor, error) {
	r, ok := w.regions[region]
	if !ok {
		return nil, errors.Errorf("cannot spawn actor %q into missing region %q", name, region)
	}
	return &Actor{id: entity.ID(uuid.NewString()), Name: name, region: r}, nil
}

func (w *World) DespawnActor(a *Actor) {
	if a != nil {
		a.despawned = true
	}
}

// Link attaches facility to b, so that b's use can power it.
func (w *World) Link(b *Building, facility *Building) {
	for _, f := range b.facilities {
		if f == facility {
			return
		}
	}
	b.facilities = append(b.facilities, facility)
}

func (w *World) Occupy(b *Building, a *Actor) {
	b.occupants.Add(a)
}

func (w *World) Vacate(b *Building, a *Actor) {
	b.occupants.Remove(a)
}

func (w *World) Reserve(b *Building, a *Actor) {
	b.reservedBy.Add(a)
}

func (w *World) Release(b *Building, a *Actor) {
	b.reservedBy.Remove(a)
}

func (w *World) SetDoor(b *Building, open, blocked bool) {
	b.open = open
	b.blocked = blocked
}

// AttachSchedule gives b a schedule component with its current permission.
func (w *World) AttachSchedule(b *Building, allowed bool) {
	b.schedule = &schedule{allowed: allowed}
}

func (w *World) SetScheduleAllowed(b *Building, allowed bool) {
	if b.schedule == nil {
		return
	}
	b.schedule.allowed = allowed
}

func (w *World) PlaceItem(region entity.RegionID, cell entity.Cell, item entity.Item) error {
	r, ok := w.regions[region]
	if !ok {
		return errors.Errorf("cannot place %q into missing region %q", item.Kind, region)
	}
	if item.ID == "" {
		item.ID = entity.ID(uuid.NewString())
	}
	r.items[cell] = append(r.items[cell], item)
	return nil
}

func (w *World) ClearCell(region entity.RegionID, cell entity.Cell) {
	if r, ok := w.regions[region]; ok {
		delete(r.items, cell)
	}
}

// BuildingsOf lists live buildings of any of classes in region, sorted by ID.
func (w *World) BuildingsOf(region entity.RegionID, classes ...string) []*Building {
	r, ok := w.regions[region]
	if !ok {
		return nil
	}
	wanted := make(map[string]bool, len(classes))
	for _, c := range classes {
		wanted[c] = true
	}
	out := make([]*Building, 0)
	for _, b := range r.buildings {
		if wanted[b.class] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
