package simulator

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shopify/gorepower/internal/class_config"
	"github.com/Shopify/gorepower/internal/colonist"
	colonistfactory "github.com/Shopify/gorepower/internal/colonist/impl"
	"github.com/Shopify/gorepower/internal/power"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/power/scanner"
	trackerimpl "github.com/Shopify/gorepower/internal/power/tracker/impl"
)

func newDriver(t *testing.T, layout []Blueprint, withColonists bool) *SimulationDriver {
	t.Helper()
	colony := MakeColony(layout)
	require.NoError(t, colony.Build(layout))

	configs, err := class_config.LoadDefault()
	require.NoError(t, err)
	reg, err := registry.Build(configs, colony.World)
	require.NoError(t, err)
	pd := power.MakePowerDriver(colony.World, reg, trackerimpl.MakeTickWindowTracker(), colony.World, scanner.DefaultRescanBudget, nil)
	rng := rand.New(rand.NewSource(7))

	var colonists []colonist.Colonist
	if withColonists {
		dist, err := colonist.LoadDefaultDistribution()
		require.NoError(t, err)
		params := colonistfactory.WorldParams{World: colony.World, Marker: pd, Rand: rng}
		for i, n := range colonist.Counts(dist, 20) {
			for j := 0; j < n; j++ {
				c, err := colonistfactory.MakeColonistFromConfig(dist[i], params, dist[i].HumanizedLabel)
				require.NoError(t, err)
				colonists = append(colonists, c)
			}
		}
	}

	return &SimulationDriver{
		Colony:      colony,
		PowerDriver: pd,
		Colonists:   colonists,
		UsageRepo:   MakeSimpleUsageRepo(),
		Rand:        rng,
		NumTicks:    600,
		DayLength:   100,
	}
}

func TestRunAggregatesUsage(t *testing.T) {
	d := newDriver(t, DefaultLayout, true)

	snapshot, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(600), snapshot.Ticks)
	assert.Equal(t, int64(600), snapshot.Tick)
	assert.Equal(t, int64(1), snapshot.Rescans["population_changed"])
	assert.Equal(t, int64(0), snapshot.Rescans["periodic"])
	assert.Less(t, snapshot.Energy, 0.0)

	smithy, ok := snapshot.Classes["ElectricSmithy"]
	require.True(t, ok)
	// Two smithies, managed from the first tick on.
	assert.Equal(t, int64(2*600), smithy.ManagedTicks)
	assert.LessOrEqual(t, smithy.ActiveTicks, smithy.ManagedTicks)

	_, ok = snapshot.Classes["Sculpture"]
	assert.False(t, ok, "unmanaged classes are never allocated")
	_, ok = snapshot.Classes["HospitalBed"]
	assert.False(t, ok, "watched classes are never allocated")

	lamps := snapshot.Classes["SunLamp"]
	assert.Greater(t, lamps.ActiveTicks, int64(0), "sun lamps run during the day")
	assert.Less(t, lamps.ActiveTicks, lamps.ManagedTicks, "and rest at night")

	for _, c := range d.Colonists {
		assert.Equal(t, colonist.Gone, c.Activity())
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	d := newDriver(t, DefaultLayout, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snapshot, err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), snapshot.Ticks)
}

func TestConstructionTriggersRescans(t *testing.T) {
	layout := []Blueprint{{Class: "ElectricSmithy", Region: HomeRegion, Width: 3, Depth: 1, Count: 2}}
	d := newDriver(t, layout, false)
	d.NumTicks = 2
	d.ConstructionInterval = 1

	snapshot, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), snapshot.Rescans["population_changed"])
}

func TestSchedulesFollowDayCycle(t *testing.T) {
	d := newDriver(t, DefaultLayout, false)
	lamps := d.Colony.Scheduled()
	require.Len(t, lamps, 2)

	d.updateSchedules(50)
	allowed, hasSchedule := d.Colony.World.ScheduleAllowed(lamps[0])
	assert.True(t, hasSchedule)
	assert.True(t, allowed)

	d.updateSchedules(90)
	allowed, _ = d.Colony.World.ScheduleAllowed(lamps[0])
	assert.False(t, allowed)
}

func TestColonyLinksFacilities(t *testing.T) {
	colony := MakeColony(DefaultLayout)
	require.NoError(t, colony.Build(DefaultLayout))

	for _, bed := range colony.World.BuildingsOf(HomeRegion, "HospitalBed") {
		assert.Len(t, colony.World.LinkedFacilities(bed), 2)
	}

	monitor, err := colony.Construct("VitalsMonitor")
	require.NoError(t, err)
	for _, bed := range colony.World.BuildingsOf(HomeRegion, "HospitalBed") {
		assert.Contains(t, colony.World.LinkedFacilities(bed), monitor)
	}

	_, err = colony.Construct("Spaceship")
	assert.Error(t, err)
}

func TestUsageRepoSnapshotIsACopy(t *testing.T) {
	repo := MakeSimpleUsageRepo()
	repo.RecordEntity("ElectricSmithy", true, -1000)
	snapshot := repo.Snapshot()
	repo.RecordEntity("ElectricSmithy", false, -10)

	assert.Equal(t, int64(1), snapshot.Classes["ElectricSmithy"].ManagedTicks)
	assert.Equal(t, 0.5, repo.Snapshot().Classes["ElectricSmithy"].ActiveShare())
}
