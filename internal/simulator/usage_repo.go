package simulator

import (
	"sync"

	"github.com/Shopify/gorepower/internal/power"
	"github.com/Shopify/gorepower/internal/power/scanner"
)

type ClassUsage struct {
	ManagedTicks int64   `json:"managed_ticks"`
	ActiveTicks  int64   `json:"active_ticks"`
	Energy       float64 `json:"energy"`
}

// ActiveShare is the fraction of managed ticks spent at the active level.
func (u ClassUsage) ActiveShare() float64 {
	if u.ManagedTicks == 0 {
		return 0
	}
	return float64(u.ActiveTicks) / float64(u.ManagedTicks)
}

type Snapshot struct {
	Tick        int64                 `json:"tick"`
	Ticks       int64                 `json:"ticks"`
	Rescans     map[string]int64      `json:"rescans"`
	DeadSkipped int64                 `json:"dead_skipped"`
	Energy      float64               `json:"energy"`
	Classes     map[string]ClassUsage `json:"classes"`
}

// UsageRepo aggregates allocation results. The simulation writes to it while
// the status endpoint reads from another goroutine.
type UsageRepo interface {
	RecordTick(report power.TickReport)
	RecordEntity(classID string, active bool, level float64)
	Snapshot() Snapshot
}

type SimpleUsageRepo struct {
	sync.Mutex
	snapshot Snapshot
}

func MakeSimpleUsageRepo() *SimpleUsageRepo {
	return &SimpleUsageRepo{snapshot: Snapshot{
		Rescans: make(map[string]int64),
		Classes: make(map[string]ClassUsage),
	}}
}

func (r *SimpleUsageRepo) RecordTick(report power.TickReport) {
	if !report.Rotated {
		return
	}
	r.Lock()
	defer r.Unlock()
	r.snapshot.Tick = report.Tick
	r.snapshot.Ticks++
	r.snapshot.DeadSkipped += int64(report.Apply.Dead)
	r.snapshot.Energy += report.Apply.TotalAllocation
	if report.Rescan != scanner.NoRescan {
		r.snapshot.Rescans[report.Rescan.String()]++
	}
}

func (r *SimpleUsageRepo) RecordEntity(classID string, active bool, level float64) {
	r.Lock()
	u := r.snapshot.Classes[classID]
	u.ManagedTicks++
	if active {
		u.ActiveTicks++
	}
	u.Energy += level
	r.snapshot.Classes[classID] = u
	r.Unlock()
}

// Snapshot returns a copy safe to read while recording continues.
func (r *SimpleUsageRepo) Snapshot() Snapshot {
	r.Lock()
	defer r.Unlock()
	out := r.snapshot
	out.Rescans = make(map[string]int64, len(r.snapshot.Rescans))
	for k, v := range r.snapshot.Rescans {
		out.Rescans[k] = v
	}
	out.Classes = make(map[string]ClassUsage, len(r.snapshot.Classes))
	for k, v := range r.snapshot.Classes {
		out.Classes[k] = v
	}
	return out
}
