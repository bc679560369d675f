package registry

import (
	"strings"

	"github.com/pkg/errors"
)

// Category selects the usage evaluator an entity class is watched by.
type Category int

const (
	// Occupied entities power themselves and every linked facility.
	Occupancy Category = iota
	// Reserved entities power themselves and every linked facility.
	Reservation
	// Reserved entities power only themselves.
	ExternalReservable
	// Open, unblocked doors.
	Door
	// Entities with growing items on their footprint.
	Footprint
	// Entities whose schedule currently allows operation.
	Scheduled
)

var categoryNames = [...]string{"occupancy", "reservation", "reservable", "door", "footprint", "scheduled"}

var ErrUnknownCategory = errors.New("unknown category")

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCategory, "%q", name)
}

// AllCategories lists every category in declaration order.
func AllCategories() []Category {
	cats := make([]Category, len(categoryNames))
	for i := range categoryNames {
		cats[i] = Category(i)
	}
	return cats
}
