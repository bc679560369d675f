package evaluator

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// EvalDoors marks doors that let something pass: open and not held open by an
// obstruction.
func EvalDoors(population entity.Set, queries world.Queries, marker tracker.Marker) {
	forEachLive(population, func(e entity.Entity) {
		if queries.IsOpen(e) && !queries.IsTransientlyBlocked(e) {
			marker.MarkUsed(e)
		}
	})
}
