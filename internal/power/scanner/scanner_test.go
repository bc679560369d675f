package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/world_mock"
)

const home = entity.RegionID("home")

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.Register("ElectricSmithy", -10, -1000))
	require.NoError(t, r.Register("DeepDrill", -10, -500))
	r.Bind("DeepDrill", registry.ExternalReservable)
	r.Bind("HospitalBed", registry.Occupancy)
	return r
}

func newWorld() *world_mock.World {
	w := world_mock.MakeWorld("ElectricSmithy", "DeepDrill", "HospitalBed", "Sculpture")
	w.AddRegion(home)
	return w
}

func TestScanBuildsManagedAndCategoryPopulations(t *testing.T) {
	w := newWorld()
	w.AddRegion("outpost")
	smithy := w.MustSpawn("ElectricSmithy", home, entity.Cell{X: 0}, 3, 1)
	drill := w.MustSpawn("DeepDrill", "outpost", entity.Cell{X: 0}, 1, 1)
	bed := w.MustSpawn("HospitalBed", home, entity.Cell{X: 5}, 1, 2)
	sculpture := w.MustSpawn("Sculpture", home, entity.Cell{X: 8}, 1, 1)

	s := MakeScanner(newRegistry(t), w, DefaultRescanBudget)
	s.Scan()

	assert.Equal(t, entity.NewSet(smithy, drill), s.Population())
	assert.Equal(t, entity.NewSet(drill), s.Category(registry.ExternalReservable))
	assert.Equal(t, entity.NewSet(bed), s.Category(registry.Occupancy))
	assert.False(t, s.Population().Contains(bed), "watched classes are not managed")
	assert.False(t, s.Population().Contains(sculpture))
	assert.Equal(t, 0, s.Category(registry.Door).Len())
	assert.Equal(t, int64(1), s.Scans())
}

func TestRescanReplacesRatherThanMerges(t *testing.T) {
	w := newWorld()
	kept := w.MustSpawn("ElectricSmithy", home, entity.Cell{X: 0}, 3, 1)
	removed := w.MustSpawn("DeepDrill", home, entity.Cell{X: 5}, 1, 1)

	s := MakeScanner(newRegistry(t), w, DefaultRescanBudget)
	s.Scan()
	before := s.Population()
	require.Equal(t, 2, before.Len())

	w.Despawn(removed)
	s.Scan()

	assert.Equal(t, entity.NewSet(kept), s.Population())
	assert.Equal(t, 0, s.Category(registry.ExternalReservable).Len())
	assert.Equal(t, 2, before.Len(), "a previously returned population is not mutated")
}

func TestScanDropsRemovedRegions(t *testing.T) {
	w := newWorld()
	w.AddRegion("outpost")
	w.MustSpawn("ElectricSmithy", "outpost", entity.Cell{}, 3, 1)

	s := MakeScanner(newRegistry(t), w, DefaultRescanBudget)
	s.Scan()
	require.Equal(t, 1, s.Population().Len())

	w.RemoveRegion("outpost")
	s.Scan()
	assert.Equal(t, 0, s.Population().Len())
}

func TestUnresolvedClassesAreSkippedAndCached(t *testing.T) {
	reg := newRegistry(t)
	require.NoError(t, reg.Register("ModdedLoom", -5, -300))
	w := newWorld()
	smithy := w.MustSpawn("ElectricSmithy", home, entity.Cell{}, 3, 1)

	s := MakeScanner(reg, w, DefaultRescanBudget)
	s.Scan()
	assert.Equal(t, entity.NewSet(smithy), s.Population())

	// The host learns the class later; the cached failure keeps it excluded.
	w.DefineClass("ModdedLoom")
	w.MustSpawn("ModdedLoom", home, entity.Cell{X: 5}, 1, 1)
	s.Scan()
	assert.Equal(t, entity.NewSet(smithy), s.Population())
}

func TestFirstMaybeScanAlwaysScans(t *testing.T) {
	w := newWorld()
	s := MakeScanner(newRegistry(t), w, 10)

	assert.Equal(t, Periodic, s.MaybeScan())
	assert.Equal(t, 10, s.RemainingTicks())
}

func TestPeriodicRescan(t *testing.T) {
	w := newWorld()
	s := MakeScanner(newRegistry(t), w, 3)

	triggers := make([]Trigger, 0, 7)
	for i := 0; i < 7; i++ {
		triggers = append(triggers, s.MaybeScan())
	}
	assert.Equal(t, []Trigger{Periodic, NoRescan, NoRescan, Periodic, NoRescan, NoRescan, Periodic}, triggers)
	assert.Equal(t, int64(3), s.Scans())
}

func TestPopulationChangeForcesRescanAndResetsCountdown(t *testing.T) {
	w := newWorld()
	s := MakeScanner(newRegistry(t), w, DefaultRescanBudget)
	require.NotEqual(t, NoRescan, s.MaybeScan())

	for i := 0; i < 10; i++ {
		require.Equal(t, NoRescan, s.MaybeScan())
	}
	require.Equal(t, DefaultRescanBudget-10, s.RemainingTicks())

	smithy := w.MustSpawn("ElectricSmithy", home, entity.Cell{}, 3, 1)
	assert.Equal(t, PopulationChanged, s.MaybeScan())
	assert.Equal(t, PopulationChanged, s.LastTrigger())
	assert.Equal(t, DefaultRescanBudget, s.RemainingTicks())
	assert.True(t, s.Population().Contains(smithy))

	assert.Equal(t, NoRescan, s.MaybeScan())
}

func TestPopulationCountOnlyWatchesHomeRegion(t *testing.T) {
	w := newWorld()
	w.AddRegion("outpost")
	s := MakeScanner(newRegistry(t), w, DefaultRescanBudget)
	s.MaybeScan()

	w.MustSpawn("ElectricSmithy", "outpost", entity.Cell{}, 3, 1)
	assert.Equal(t, NoRescan, s.MaybeScan())
}

func TestTriggerString(t *testing.T) {
	assert.Equal(t, "population_changed", PopulationChanged.String())
	assert.Equal(t, "periodic", Periodic.String())
	assert.Equal(t, "none", NoRescan.String())
}
