package impl

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shopify/gorepower/internal/colonist"
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/world_mock"
)

const home = entity.RegionID("home")

type recordingMarker struct {
	marked []entity.Entity
}

func (m *recordingMarker) MarkUsed(e entity.Entity) {
	m.marked = append(m.marked, e)
}

func newParams() (WorldParams, *recordingMarker) {
	w := world_mock.MakeWorld("ElectricSmithy", "HiTechResearchBench", "HospitalBed", "Autodoor", "HydroponicsBasin")
	w.AddRegion(home)
	marker := &recordingMarker{}
	return WorldParams{World: w, Marker: marker, Rand: rand.New(rand.NewSource(1))}, marker
}

// Single-tick jobs and rests make every transition deterministic.
func config(colonistType string, targets ...string) colonist.ColonistConfig {
	return colonist.ColonistConfig{
		ColonistType:   colonistType,
		HumanizedLabel: colonistType,
		Region:         string(home),
		TargetClasses:  targets,
		MaxJobTicks:    1,
		MaxRestTicks:   1,
	}
}

func TestCrafterReportsDirectUse(t *testing.T) {
	params, marker := newParams()
	smithy := params.World.MustSpawn("ElectricSmithy", home, entity.Cell{}, 3, 1)
	c, err := MakeColonistFromConfig(config("crafter", "ElectricSmithy"), params, "Engie")
	require.NoError(t, err)
	assert.Equal(t, colonist.Idle, c.Activity())

	c.Act(1)
	assert.Equal(t, colonist.Working, c.Activity())
	assert.Equal(t, entity.Entity(smithy), c.Target())
	assert.Empty(t, marker.marked)

	c.Act(2)
	assert.Equal(t, []entity.Entity{smithy}, marker.marked)
	assert.Equal(t, colonist.Idle, c.Activity())
	assert.Nil(t, c.Target())
}

func TestCrafterRestsWithoutTargets(t *testing.T) {
	params, _ := newParams()
	c, err := MakeColonistFromConfig(config("crafter", "ElectricSmithy"), params, "Engie")
	require.NoError(t, err)

	c.Act(1)
	assert.Equal(t, colonist.Idle, c.Activity())
}

func TestResearcherHoldsReservationForTheJob(t *testing.T) {
	params, marker := newParams()
	bench := params.World.MustSpawn("HiTechResearchBench", home, entity.Cell{}, 3, 2)
	c, err := MakeColonistFromConfig(config("researcher", "HiTechResearchBench"), params, "Kira")
	require.NoError(t, err)

	c.Act(1)
	assert.True(t, params.World.IsReservedByAnyActor(bench))
	c.Act(2)
	assert.False(t, params.World.IsReservedByAnyActor(bench))
	assert.Empty(t, marker.marked)
}

func TestResearcherSkipsReservedBench(t *testing.T) {
	params, _ := newParams()
	bench := params.World.MustSpawn("HiTechResearchBench", home, entity.Cell{}, 3, 2)
	other, err := params.World.SpawnActor("Other", home)
	require.NoError(t, err)
	params.World.Reserve(bench, other)
	c, err := MakeColonistFromConfig(config("researcher", "HiTechResearchBench"), params, "Kira")
	require.NoError(t, err)

	c.Act(1)
	assert.Equal(t, colonist.Idle, c.Activity())
}

func TestPatientOccupiesBed(t *testing.T) {
	params, _ := newParams()
	bed := params.World.MustSpawn("HospitalBed", home, entity.Cell{}, 1, 2)
	c, err := MakeColonistFromConfig(config("patient", "HospitalBed"), params, "Tynan")
	require.NoError(t, err)

	c.Act(1)
	assert.Len(t, params.World.Occupants(bed), 1)
	c.Act(2)
	assert.Empty(t, params.World.Occupants(bed))
}

func TestWalkerOpensAndClosesDoor(t *testing.T) {
	params, _ := newParams()
	door := params.World.MustSpawn("Autodoor", home, entity.Cell{}, 1, 1)
	cfg := config("walker", "Autodoor")
	cfg.CustomFloatProperties = map[string]float64{"block_probability": 0}
	c, err := MakeColonistFromConfig(cfg, params, "Hauler")
	require.NoError(t, err)

	c.Act(1)
	assert.True(t, params.World.IsOpen(door))
	assert.False(t, params.World.IsTransientlyBlocked(door))
	c.Act(2)
	assert.False(t, params.World.IsOpen(door))
}

func TestGardenerSowsAndHarvests(t *testing.T) {
	params, _ := newParams()
	basin := params.World.MustSpawn("HydroponicsBasin", home, entity.Cell{X: 2, Z: 2}, 4, 1)
	cfg := config("gardener", "HydroponicsBasin")
	cfg.CustomFloatProperties = map[string]float64{"harvest_probability": 1}
	c, err := MakeColonistFromConfig(cfg, params, "Grower")
	require.NoError(t, err)

	c.Act(1)
	items := params.World.ContentsAt(home, entity.Cell{X: 2, Z: 2})
	require.Len(t, items, 1)
	assert.True(t, items[0].GrowthCapable)

	c.Act(2)
	for _, cell := range basin.Footprint().Cells() {
		assert.Empty(t, params.World.ContentsAt(home, cell))
	}
}

func TestJobIsAbandonedWhenTargetDisappears(t *testing.T) {
	params, marker := newParams()
	smithy := params.World.MustSpawn("ElectricSmithy", home, entity.Cell{}, 3, 1)
	c, err := MakeColonistFromConfig(config("crafter", "ElectricSmithy"), params, "Engie")
	require.NoError(t, err)
	c.Act(1)
	require.Equal(t, colonist.Working, c.Activity())

	params.World.Despawn(smithy)
	c.Act(2)

	assert.Equal(t, colonist.Idle, c.Activity())
	assert.Empty(t, marker.marked)
}

func TestLeaveEndsJobAndDespawnsActor(t *testing.T) {
	params, _ := newParams()
	bench := params.World.MustSpawn("HiTechResearchBench", home, entity.Cell{}, 3, 2)
	c, err := MakeColonistFromConfig(config("researcher", "HiTechResearchBench"), params, "Kira")
	require.NoError(t, err)
	c.Act(1)
	require.True(t, params.World.IsReservedByAnyActor(bench))

	c.Leave()
	assert.Equal(t, colonist.Gone, c.Activity())
	assert.False(t, params.World.IsReservedByAnyActor(bench))

	c.Act(2)
	assert.Equal(t, colonist.Gone, c.Activity())
}

func TestUnknownColonistType(t *testing.T) {
	params, _ := newParams()
	_, err := MakeColonistFromConfig(config("astronaut", "ElectricSmithy"), params, "Nobody")
	assert.Error(t, err)
}

func TestColonistInMissingRegion(t *testing.T) {
	params, _ := newParams()
	cfg := config("crafter", "ElectricSmithy")
	cfg.Region = "moon"
	_, err := MakeColonistFromConfig(cfg, params, "Nobody")
	assert.Error(t, err)
}
