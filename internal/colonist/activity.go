package colonist

// Colonist activity state machine.
//
// idle    = resting between jobs
// working = holding a job at a target building
// gone    = left the world, never acts again
//
// idle ---> working (target found) ---> idle
//   |          |
//   ---------------> gone
//
type Activity int

const (
	Idle Activity = iota
	Working
	Gone
)

func (a Activity) String() string {
	return [...]string{"idle", "working", "gone"}[a]
}
