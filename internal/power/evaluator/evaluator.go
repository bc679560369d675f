package evaluator

import (
	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// Evaluator inspects one category population against live world state and
// reports every entity it finds in use. It only ever adds to the marker.
type Evaluator func(population entity.Set, queries world.Queries, marker tracker.Marker)

var evaluators = map[registry.Category]Evaluator{
	registry.Occupancy:          EvalOccupancy,
	registry.Reservation:        EvalReservation,
	registry.ExternalReservable: EvalExternalReservable,
	registry.Door:               EvalDoors,
	registry.Footprint:          EvalFootprints,
	registry.Scheduled:          EvalScheduled,
}

// For returns the evaluator bound to a category.
func For(cat registry.Category) (Evaluator, bool) {
	e, ok := evaluators[cat]
	return e, ok
}

// Evaluate runs the category's evaluator over its population. It returns
// false for a category with no evaluator.
func Evaluate(cat registry.Category, population entity.Set, queries world.Queries, marker tracker.Marker) bool {
	eval, ok := For(cat)
	if !ok {
		return false
	}
	eval(population, queries, marker)
	return true
}

// EvaluateAll runs every evaluator over the population returned by populationOf.
// Evaluators commute, so the order is irrelevant.
func EvaluateAll(populationOf func(registry.Category) entity.Set, queries world.Queries, marker tracker.Marker) {
	for _, cat := range registry.AllCategories() {
		population := populationOf(cat)
		if population.Len() == 0 {
			continue
		}
		Evaluate(cat, population, queries, marker)
	}
}

// forEachLive calls fn for every live member of population. A panic raised by
// a world query while inspecting an entity is treated like a stale handle:
// that entity is skipped and evaluation continues.
func forEachLive(population entity.Set, fn func(e entity.Entity)) {
	for _, e := range population {
		if !entity.Alive(e) {
			continue
		}
		inspect(e, fn)
	}
}

func inspect(e entity.Entity, fn func(e entity.Entity)) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("entity", string(e.ID())).Interface("panic", r).Msg("skipping entity after failed world query")
		}
	}()
	fn(e)
}

// markWithFacilities marks e and every facility linked to it.
func markWithFacilities(e entity.Entity, queries world.Queries, marker tracker.Marker) {
	marker.MarkUsed(e)
	for _, facility := range queries.LinkedFacilities(e) {
		if entity.IsNil(facility) {
			continue
		}
		marker.MarkUsed(facility)
	}
}
