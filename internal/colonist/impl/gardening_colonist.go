package impl

import (
	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/world_mock"
)

const plantKind = "Plant_Rice"

// GardeningColonist sows a plant on a free cell of its target and, when the
// job ends, harvests the whole basin with HarvestProbability.
type GardeningColonist struct {
	*BaseColonist
	HarvestProbability float64
}

func (gc *GardeningColonist) begin(b *world_mock.Building) bool {
	region, ok := b.Region()
	if !ok {
		return false
	}
	for _, cell := range b.Footprint().Cells() {
		if len(gc.World.ContentsAt(region, cell)) > 0 {
			continue
		}
		item := entity.Item{Kind: plantKind, GrowthCapable: true}
		if err := gc.World.PlaceItem(region, cell, item); err != nil {
			log.Debug().Err(err).Msg("failed sowing plant")
			return false
		}
		return true
	}
	return false
}

func (gc *GardeningColonist) perform(b *world_mock.Building) {}

func (gc *GardeningColonist) end(b *world_mock.Building) {
	if gc.Rand.Float64() >= gc.HarvestProbability {
		return
	}
	region, ok := b.Region()
	if !ok {
		return
	}
	for _, cell := range b.Footprint().Cells() {
		gc.World.ClearCell(region, cell)
	}
}
