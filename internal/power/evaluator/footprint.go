package evaluator

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// EvalFootprints marks entities with at least one growth-capable item on any
// cell they cover.
func EvalFootprints(population entity.Set, queries world.Queries, marker tracker.Marker) {
	forEachLive(population, func(e entity.Entity) {
		region, ok := e.Region()
		if !ok {
			return
		}
		for _, cell := range queries.FootprintCells(e) {
			if hasGrowthCapable(queries.ContentsAt(region, cell)) {
				marker.MarkUsed(e)
				return
			}
		}
	})
}

func hasGrowthCapable(items []entity.Item) bool {
	for _, item := range items {
		if item.GrowthCapable {
			return true
		}
	}
	return false
}
