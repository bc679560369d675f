package impl

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/colonist"
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/tracker"
	"github.com/Shopify/gorepower/internal/world_mock"
)

// job is what a colonist does at its target. begin returns false when the
// target cannot be worked right now.
type job interface {
	begin(b *world_mock.Building) bool
	perform(b *world_mock.Building)
	end(b *world_mock.Building)
}

// BaseColonist works at a building by using it directly: every working tick
// is reported to the power tracker, like a crafting bill being worked on.
type BaseColonist struct {
	World  *world_mock.World
	Marker tracker.Marker
	Rand   *rand.Rand
	Actor  *world_mock.Actor
	label  string

	Region        entity.RegionID
	TargetClasses []string
	MaxJobTicks   int
	MaxRestTicks  int

	job       job
	activity  colonist.Activity
	target    *world_mock.Building
	remaining int
	jobs      int
}

func (bc *BaseColonist) ID() entity.ID {
	return bc.Actor.ID()
}

func (bc *BaseColonist) Label() string {
	return bc.label
}

func (bc *BaseColonist) Activity() colonist.Activity {
	return bc.activity
}

func (bc *BaseColonist) Target() entity.Entity {
	if bc.target == nil {
		return nil
	}
	return bc.target
}

// Jobs returns the number of jobs started.
func (bc *BaseColonist) Jobs() int {
	return bc.jobs
}

func (bc *BaseColonist) Act(tick int64) {
	switch bc.activity {
	case colonist.Idle:
		bc.remaining--
		if bc.remaining > 0 {
			return
		}
		bc.startJob(tick)
	case colonist.Working:
		if !entity.Alive(bc.target) {
			log.Debug().Str("colonist", bc.label).Int64("tick", tick).Msg("job target is gone, abandoning job")
			bc.finishJob()
			return
		}
		bc.job.perform(bc.target)
		bc.remaining--
		if bc.remaining <= 0 {
			bc.finishJob()
		}
	case colonist.Gone:
	}
}

func (bc *BaseColonist) Leave() {
	if bc.activity == colonist.Working {
		bc.job.end(bc.target)
		bc.target = nil
	}
	bc.World.DespawnActor(bc.Actor)
	bc.activity = colonist.Gone
}

func (bc *BaseColonist) startJob(tick int64) {
	candidates := bc.World.BuildingsOf(bc.Region, bc.TargetClasses...)
	if len(candidates) == 0 {
		bc.rest()
		return
	}
	target := candidates[bc.Rand.Intn(len(candidates))]
	if !bc.job.begin(target) {
		bc.rest()
		return
	}
	bc.target = target
	bc.activity = colonist.Working
	bc.remaining = 1 + bc.Rand.Intn(bc.MaxJobTicks)
	bc.jobs++
	log.Debug().
		Str("colonist", bc.label).
		Str("class", target.ClassID()).
		Int64("tick", tick).
		Int("ticks", bc.remaining).
		Msg("started job")
}

func (bc *BaseColonist) finishJob() {
	bc.job.end(bc.target)
	bc.target = nil
	bc.rest()
}

func (bc *BaseColonist) rest() {
	bc.activity = colonist.Idle
	bc.remaining = 1 + bc.Rand.Intn(bc.MaxRestTicks)
}

func (bc *BaseColonist) begin(b *world_mock.Building) bool {
	return true
}

func (bc *BaseColonist) perform(b *world_mock.Building) {
	bc.Marker.MarkUsed(b)
}

func (bc *BaseColonist) end(b *world_mock.Building) {}
