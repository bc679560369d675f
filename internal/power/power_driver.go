package power

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/metrics"
	"github.com/Shopify/gorepower/internal/power/allocator"
	"github.com/Shopify/gorepower/internal/power/evaluator"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/power/scanner"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world"
)

// TickObserver receives per-tick counts, e.g. a Prometheus collector.
type TickObserver interface {
	SetTickCounts(tick int64, managed, active, inUse int, totalAllocation float64)
	IncRescan(trigger string)
	AddDeadSkipped(n int)
}

type TickReport struct {
	Tick int64
	// False when the tick had already been processed; nothing else ran.
	Rotated bool
	Rescan  scanner.Trigger
	Usage   tracker.Stats
	Apply   ApplyStats
}

// PowerDriver runs one control step per host tick.
type PowerDriver struct {
	World      world.World
	Registry   *registry.Registry
	Tracker    tracker.Tracker
	Scanner    *scanner.Scanner
	Allocation *AllocationDriver
	Observer   TickObserver
}

func MakePowerDriver(
	w world.World,
	reg *registry.Registry,
	usage tracker.Tracker,
	alloc allocator.Allocator,
	rescanBudget int,
	observer TickObserver,
) *PowerDriver {
	return &PowerDriver{
		World:      w,
		Registry:   reg,
		Tracker:    usage,
		Scanner:    scanner.MakeScanner(reg, w, rescanBudget),
		Allocation: MakeAllocationDriver(reg, usage, alloc),
		Observer:   observer,
	}
}

// MarkUsed reports direct use of e during the current tick.
func (d *PowerDriver) MarkUsed(e entity.Entity) {
	d.Tracker.MarkUsed(e)
}

func (d *PowerDriver) LevelFor(e entity.Entity) (float64, bool) {
	return d.Allocation.LevelFor(e)
}

// Tick rotates usage windows, runs every evaluator, rescans when due and
// applies allocations. Calling it again within the same host tick is a noop.
func (d *PowerDriver) Tick() TickReport {
	defer metrics.BenchmarkMethod(time.Now(), "power_driver.tick", nil)
	report := TickReport{Tick: d.World.CurrentTick()}
	if !d.Tracker.RotateTick(report.Tick) {
		return report
	}
	report.Rotated = true

	evaluator.EvaluateAll(d.Scanner.Category, d.World, d.Tracker)

	report.Rescan = d.Scanner.MaybeScan()
	if report.Rescan != scanner.NoRescan {
		log.Debug().
			Int64("tick", report.Tick).
			Str("trigger", report.Rescan.String()).
			Msg("discovery rescan")
	}

	report.Apply = d.Allocation.Apply(d.Scanner.Population())
	report.Usage = d.Tracker.Stats()
	d.emit(report)
	return report
}

func (d *PowerDriver) emit(r TickReport) {
	metrics.Gauge("managed_entities", float64(r.Apply.Managed), nil)
	metrics.Gauge("active_entities", float64(r.Apply.Active), nil)
	metrics.Gauge("in_use_this_tick", float64(r.Usage.InUseThisTick), nil)
	metrics.Gauge("total_allocation", r.Apply.TotalAllocation, nil)
	if r.Apply.Dead > 0 {
		metrics.Count("dead_entities_skipped", int64(r.Apply.Dead), nil)
	}
	if r.Rescan != scanner.NoRescan {
		metrics.Incr("rescans", []string{"trigger:" + r.Rescan.String()})
	}

	if d.Observer == nil {
		return
	}
	d.Observer.SetTickCounts(r.Tick, r.Apply.Managed, r.Apply.Active, r.Usage.InUseThisTick, r.Apply.TotalAllocation)
	d.Observer.AddDeadSkipped(r.Apply.Dead)
	if r.Rescan != scanner.NoRescan {
		d.Observer.IncRescan(r.Rescan.String())
	}
}
