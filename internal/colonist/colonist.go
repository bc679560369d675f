package colonist

import (
	"github.com/Shopify/gorepower/internal/entity"
)

type Colonist interface {
	ID() entity.ID
	Label() string

	Activity() Activity
	// Target returns the building the colonist is working at, nil when idle.
	Target() entity.Entity

	// Act advances the colonist by one tick.
	Act(tick int64)
	// Leave ends any job in progress and removes the colonist from the world.
	Leave()
}
