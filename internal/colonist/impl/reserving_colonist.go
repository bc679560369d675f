package impl

import (
	"github.com/Shopify/gorepower/internal/world_mock"
)

// ReservingColonist holds a reservation on its target for the whole job and
// never reports direct use, e.g. a researcher at a bench or a miner at a drill.
type ReservingColonist struct {
	*BaseColonist
}

func (rc *ReservingColonist) begin(b *world_mock.Building) bool {
	if rc.World.IsReservedByAnyActor(b) {
		return false
	}
	rc.World.Reserve(b, rc.Actor)
	return true
}

func (rc *ReservingColonist) perform(b *world_mock.Building) {}

func (rc *ReservingColonist) end(b *world_mock.Building) {
	rc.World.Release(b, rc.Actor)
}
