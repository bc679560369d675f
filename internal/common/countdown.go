package common

// Countdown fires once every Budget ticks, and can be forced to fire on the
// next tick. A fresh Countdown fires on its first tick.
type Countdown struct {
	Budget    int
	remaining int
}

func MakeCountdown(budget int) *Countdown {
	if budget < 1 {
		budget = 1
	}
	return &Countdown{Budget: budget}
}

// Tick advances the countdown and reports whether it fired. Firing resets
// the countdown to its full budget.
func (c *Countdown) Tick() bool {
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = c.Budget
	return true
}

// Expire makes the next Tick fire regardless of the remaining budget.
func (c *Countdown) Expire() {
	c.remaining = 0
}

func (c *Countdown) Remaining() int {
	return c.remaining
}
