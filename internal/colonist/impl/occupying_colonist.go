package impl

import (
	"github.com/Shopify/gorepower/internal/world_mock"
)

// OccupyingColonist lies in its target, e.g. a patient in a hospital bed.
type OccupyingColonist struct {
	*BaseColonist
}

func (oc *OccupyingColonist) begin(b *world_mock.Building) bool {
	if len(oc.World.Occupants(b)) > 0 {
		return false
	}
	oc.World.Occupy(b, oc.Actor)
	return true
}

func (oc *OccupyingColonist) perform(b *world_mock.Building) {}

func (oc *OccupyingColonist) end(b *world_mock.Building) {
	oc.World.Vacate(b, oc.Actor)
}
