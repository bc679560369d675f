package impl

import (
	"github.com/Shopify/gorepower/internal/world_mock"
)

// WalkingColonist passes through doors. Sometimes it drops what it carries in
// the doorway, holding the door open while nothing walks through.
type WalkingColonist struct {
	*BaseColonist
	BlockProbability float64
}

func (wc *WalkingColonist) begin(b *world_mock.Building) bool {
	blocked := wc.Rand.Float64() < wc.BlockProbability
	wc.World.SetDoor(b, true, blocked)
	return true
}

func (wc *WalkingColonist) perform(b *world_mock.Building) {}

func (wc *WalkingColonist) end(b *world_mock.Building) {
	wc.World.SetDoor(b, false, false)
}
