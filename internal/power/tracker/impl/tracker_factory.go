package impl

import (
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
)

// Returns an empty TickWindowTracker; the first RotateTick always rotates.
func MakeTickWindowTracker() tracker.Tracker {
	t := &TickWindowTracker{}
	t.windows.current = entity.NewSet()
	t.windows.previous = entity.NewSet()
	return t
}
