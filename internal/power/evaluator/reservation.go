package evaluator

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// EvalReservation treats a reservation as use, since some benches expose no
// better signal, and fans out to linked facilities.
func EvalReservation(population entity.Set, queries world.Queries, marker tracker.Marker) {
	forEachLive(population, func(e entity.Entity) {
		if !queries.IsReservedByAnyActor(e) {
			return
		}
		markWithFacilities(e, queries, marker)
	})
}

// EvalExternalReservable marks reserved entities without any fan-out.
func EvalExternalReservable(population entity.Set, queries world.Queries, marker tracker.Marker) {
	forEachLive(population, func(e entity.Entity) {
		if queries.IsReservedByAnyActor(e) {
			marker.MarkUsed(e)
		}
	})
}
