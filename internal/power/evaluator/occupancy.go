package evaluator

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// EvalOccupancy marks occupied entities together with their linked facilities,
// e.g. a hospital bed with a patient powers its vitals monitors.
func EvalOccupancy(population entity.Set, queries world.Queries, marker tracker.Marker) {
	forEachLive(population, func(e entity.Entity) {
		if len(queries.Occupants(e)) == 0 {
			return
		}
		markWithFacilities(e, queries, marker)
	})
}
