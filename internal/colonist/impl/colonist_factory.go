package impl

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/Shopify/gorepower/internal/colonist"
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world_mock"
)

const (
	defaultMaxJobTicks        = 100
	defaultMaxRestTicks       = 100
	defaultBlockProbability   = 0.1
	defaultHarvestProbability = 0.5
)

type WorldParams struct {
	World  *world_mock.World
	Marker tracker.Marker
	Rand   *rand.Rand
}

func MakeColonistFromConfig(
	config colonist.ColonistConfig,
	params WorldParams,
	name string,
) (colonist.Colonist, error) {
	baseColonist, err := MakeBaseColonist(config, params, name)
	if err != nil {
		return nil, err
	}
	var c interface {
		colonist.Colonist
		job
	}
	switch config.ColonistType {
	case "crafter", "viewer":
		return baseColonist, nil
	case "researcher", "miner":
		c = &ReservingColonist{BaseColonist: baseColonist}
	case "patient":
		c = &OccupyingColonist{BaseColonist: baseColonist}
	case "walker":
		c = &WalkingColonist{
			BaseColonist:     baseColonist,
			BlockProbability: probability(config, "block_probability", defaultBlockProbability),
		}
	case "gardener":
		c = &GardeningColonist{
			BaseColonist:       baseColonist,
			HarvestProbability: probability(config, "harvest_probability", defaultHarvestProbability),
		}
	default:
		params.World.DespawnActor(baseColonist.Actor)
		return nil, errors.Errorf(
			"colonist type %q must be one of: {crafter, viewer, researcher, miner, patient, walker, gardener}",
			config.ColonistType,
		)
	}
	baseColonist.job = c
	return c, nil
}

func MakeBaseColonist(
	config colonist.ColonistConfig,
	params WorldParams,
	name string,
) (*BaseColonist, error) {
	region := entity.RegionID(config.Region)
	actor, err := params.World.SpawnActor(name, region)
	if err != nil {
		return nil, errors.Wrapf(err, "spawning %s", config.HumanizedLabel)
	}
	maxJobTicks := config.MaxJobTicks
	if maxJobTicks <= 0 {
		maxJobTicks = defaultMaxJobTicks
	}
	maxRestTicks := config.MaxRestTicks
	if maxRestTicks <= 0 {
		maxRestTicks = defaultMaxRestTicks
	}
	bc := &BaseColonist{
		World:         params.World,
		Marker:        params.Marker,
		Rand:          params.Rand,
		Actor:         actor,
		label:         config.HumanizedLabel,
		Region:        region,
		TargetClasses: config.TargetClasses,
		MaxJobTicks:   maxJobTicks,
		MaxRestTicks:  maxRestTicks,
		activity:      colonist.Idle,
	}
	bc.job = bc
	// Stagger the first job so colonists do not start in lockstep.
	bc.remaining = 1 + bc.Rand.Intn(maxRestTicks)
	return bc, nil
}

func probability(config colonist.ColonistConfig, key string, fallback float64) float64 {
	p, found := config.CustomFloatProperties[key]
	if !found || p < 0 || p > 1 {
		return fallback
	}
	return p
}
