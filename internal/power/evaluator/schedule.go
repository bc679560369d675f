package evaluator

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// EvalScheduled marks entities whose schedule allows operation right now.
// Entities without a schedule are skipped.
func EvalScheduled(population entity.Set, queries world.Queries, marker tracker.Marker) {
	forEachLive(population, func(e entity.Entity) {
		if allowed, hasSchedule := queries.ScheduleAllowed(e); hasSchedule && allowed {
			marker.MarkUsed(e)
		}
	})
}
