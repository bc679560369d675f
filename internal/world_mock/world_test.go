package world_mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shopify/gorepower/internal/entity"
)

func TestSpawnRequiresKnownClassAndRegion(t *testing.T) {
	w := MakeWorld("ElectricSmithy")
	w.AddRegion("home")

	_, err := w.Spawn("Spaceship", "home", entity.Cell{}, 1, 1)
	assert.Error(t, err)
	_, err = w.Spawn("ElectricSmithy", "moon", entity.Cell{}, 1, 1)
	assert.Error(t, err)

	b, err := w.Spawn("ElectricSmithy", "home", entity.Cell{}, 3, 1)
	require.NoError(t, err)
	assert.True(t, entity.Alive(b))
	assert.Len(t, w.FootprintCells(b), 3)
}

func TestObservedPopulationCountFollowsHomeRegion(t *testing.T) {
	w := MakeWorld("ElectricSmithy")
	assert.Equal(t, 0, w.ObservedPopulationCount())

	w.AddRegion("home")
	w.AddRegion("outpost")
	b := w.MustSpawn("ElectricSmithy", "home", entity.Cell{}, 1, 1)
	w.MustSpawn("ElectricSmithy", "outpost", entity.Cell{}, 1, 1)
	assert.Equal(t, 1, w.ObservedPopulationCount())

	w.Despawn(b)
	assert.Equal(t, 0, w.ObservedPopulationCount())
	assert.False(t, entity.Alive(b))

	w.RemoveRegion("home")
	assert.Equal(t, []entity.RegionID{"outpost"}, w.Regions())
	assert.Equal(t, 1, w.ObservedPopulationCount(), "the next region becomes home")
}

func TestEnumerateLiveInstancesOfClass(t *testing.T) {
	w := MakeWorld("ElectricSmithy", "Autodoor")
	w.AddRegion("home")
	a := w.MustSpawn("ElectricSmithy", "home", entity.Cell{}, 1, 1)
	b := w.MustSpawn("ElectricSmithy", "home", entity.Cell{X: 2}, 1, 1)
	w.MustSpawn("Autodoor", "home", entity.Cell{X: 4}, 1, 1)
	desc, ok := w.ResolveClass("ElectricSmithy")
	require.True(t, ok)

	found := w.EnumerateLiveInstancesOfClass(desc, "home")
	assert.ElementsMatch(t, []entity.Entity{a, b}, found)
	assert.Empty(t, w.EnumerateLiveInstancesOfClass(desc, "moon"))

	_, ok = w.ResolveClass("Spaceship")
	assert.False(t, ok)
}

func TestDeadActorsDoNotReserveOrOccupy(t *testing.T) {
	w := MakeWorld("HospitalBed")
	w.AddRegion("home")
	bed := w.MustSpawn("HospitalBed", "home", entity.Cell{}, 1, 2)
	patient, err := w.SpawnActor("Tynan", "home")
	require.NoError(t, err)

	w.Occupy(bed, patient)
	w.Reserve(bed, patient)
	assert.Len(t, w.Occupants(bed), 1)
	assert.True(t, w.IsReservedByAnyActor(bed))

	w.DespawnActor(patient)
	assert.Empty(t, w.Occupants(bed))
	assert.False(t, w.IsReservedByAnyActor(bed))
}

func TestSchedules(t *testing.T) {
	w := MakeWorld("SunLamp")
	w.AddRegion("home")
	lamp := w.MustSpawn("SunLamp", "home", entity.Cell{}, 1, 1)

	_, hasSchedule := w.ScheduleAllowed(lamp)
	assert.False(t, hasSchedule)
	w.SetScheduleAllowed(lamp, true)
	_, hasSchedule = w.ScheduleAllowed(lamp)
	assert.False(t, hasSchedule, "permission needs a schedule first")

	w.AttachSchedule(lamp, false)
	w.SetScheduleAllowed(lamp, true)
	allowed, hasSchedule := w.ScheduleAllowed(lamp)
	assert.True(t, hasSchedule)
	assert.True(t, allowed)
}

func TestItems(t *testing.T) {
	w := MakeWorld()
	w.AddRegion("home")
	cell := entity.Cell{X: 3, Z: 4}

	require.NoError(t, w.PlaceItem("home", cell, entity.Item{Kind: "Plant_Rice", GrowthCapable: true}))
	items := w.ContentsAt("home", cell)
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)

	w.ClearCell("home", cell)
	assert.Empty(t, w.ContentsAt("home", cell))
	assert.Error(t, w.PlaceItem("moon", cell, entity.Item{Kind: "Plant_Rice"}))
}

func TestAllocations(t *testing.T) {
	w := MakeWorld("ElectricSmithy")
	w.AddRegion("home")
	a := w.MustSpawn("ElectricSmithy", "home", entity.Cell{}, 1, 1)
	b := w.MustSpawn("ElectricSmithy", "home", entity.Cell{X: 2}, 1, 1)

	w.SetAllocation(a, -10)
	w.SetAllocation(b, -1000)
	w.SetAllocation(a, -1000)
	assert.Equal(t, int64(3), w.AllocationWrites())
	assert.Equal(t, -2000.0, w.TotalAllocation())

	w.Despawn(b)
	w.SetAllocation(b, -10)
	assert.Equal(t, int64(3), w.AllocationWrites())
	assert.Equal(t, -1000.0, w.TotalAllocation())
	_, ok := w.Allocation(b)
	assert.False(t, ok)
}
