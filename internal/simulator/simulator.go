package simulator

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Shopify/gorepower/internal/colonist"
	"github.com/Shopify/gorepower/internal/metrics"
	"github.com/Shopify/gorepower/internal/power"
	"github.com/Shopify/gorepower/internal/world_mock"
)

type SimulationDriver struct {
	Colony      *Colony
	PowerDriver *power.PowerDriver
	Colonists   []colonist.Colonist
	UsageRepo   UsageRepo
	Rand        *rand.Rand

	// Paces ticks; nil runs as fast as possible.
	Limiter *rate.Limiter

	NumTicks int64
	// Ticks per day; schedules allow operation during the middle half of a day.
	DayLength int64
	// Ticks between construction or demolition of a random building; 0 disables.
	ConstructionInterval int64
	// Ticks between progress logs; 0 disables.
	ProgressInterval int64
}

func (d *SimulationDriver) world() *world_mock.World {
	return d.Colony.World
}

// Run drives NumTicks ticks. Each tick the power driver runs first, then
// colonists act, so their activity is applied from the next tick on.
func (d *SimulationDriver) Run(ctx context.Context) (Snapshot, error) {
	for i := int64(0); i < d.NumTicks; i++ {
		if err := d.wait(ctx); err != nil {
			return d.UsageRepo.Snapshot(), err
		}
		tick := d.world().AdvanceTick()
		d.updateSchedules(tick)

		report := d.PowerDriver.Tick()
		d.record(report)

		for _, c := range d.Colonists {
			c.Act(tick)
		}
		d.maybeConstruct(tick)

		if d.ProgressInterval > 0 && tick%d.ProgressInterval == 0 {
			log.Info().
				Int64("tick", tick).
				Int("managed", report.Apply.Managed).
				Int("active", report.Apply.Active).
				Float64("allocation", report.Apply.TotalAllocation).
				Msg("simulation progress")
		}
	}
	for _, c := range d.Colonists {
		c.Leave()
	}
	return d.UsageRepo.Snapshot(), nil
}

func (d *SimulationDriver) wait(ctx context.Context) error {
	if d.Limiter == nil {
		return ctx.Err()
	}
	return d.Limiter.Wait(ctx)
}

func (d *SimulationDriver) updateSchedules(tick int64) {
	if d.DayLength <= 0 {
		return
	}
	hour := tick % d.DayLength
	daytime := hour >= d.DayLength/4 && hour < 3*d.DayLength/4
	for _, b := range d.Colony.Scheduled() {
		d.world().SetScheduleAllowed(b, daytime)
	}
}

func (d *SimulationDriver) record(report power.TickReport) {
	d.UsageRepo.RecordTick(report)
	if !report.Rotated {
		return
	}
	for _, e := range d.PowerDriver.Scanner.Population() {
		level, ok := d.PowerDriver.LevelFor(e)
		if !ok {
			continue
		}
		d.UsageRepo.RecordEntity(e.ClassID(), d.PowerDriver.Tracker.UsedLastTick(e), level)
	}
}

// maybeConstruct builds or demolishes one home building, changing the
// observed building count.
func (d *SimulationDriver) maybeConstruct(tick int64) {
	if d.ConstructionInterval <= 0 || tick%d.ConstructionInterval != 0 {
		return
	}
	classes := d.Colony.Blueprints()
	class := classes[d.Rand.Intn(len(classes))]
	if d.Rand.Intn(2) == 0 {
		b, err := d.Colony.Construct(class)
		if err != nil {
			log.Warn().Err(err).Str("class", class).Msg("construction failed")
			return
		}
		metrics.Incr("colony.constructed", []string{"class:" + class})
		log.Debug().Int64("tick", tick).Str("class", class).Str("entity", string(b.ID())).Msg("constructed building")
		return
	}
	candidates := d.world().BuildingsOf(HomeRegion, class)
	if len(candidates) == 0 {
		return
	}
	b := candidates[d.Rand.Intn(len(candidates))]
	d.world().Despawn(b)
	metrics.Incr("colony.demolished", []string{"class:" + class})
	log.Debug().Int64("tick", tick).Str("class", class).Str("entity", string(b.ID())).Msg("demolished building")
}
