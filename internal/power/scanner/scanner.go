package scanner

import (
	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/common"
	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/world"
)

// Ticks between periodic rescans.
const DefaultRescanBudget = 2000

// Trigger names why a rescan ran.
type Trigger int

const (
	NoRescan Trigger = iota
	PopulationChanged
	Periodic
)

func (t Trigger) String() string {
	return [...]string{"none", "population_changed", "periodic"}[t]
}

type resolution struct {
	desc world.ClassDescriptor
	ok   bool
}

// Scanner rebuilds the managed population and the per-category populations
// from the live world. It is the only place those sets are replaced.
type Scanner struct {
	registry *registry.Registry
	world    world.World

	countdown *common.Countdown

	// Last observed population count; a change forces a rescan.
	lastObservedCount int

	// Lazily resolved class descriptors, failures included.
	descriptors map[string]resolution

	population  entity.Set
	categories  map[registry.Category]entity.Set
	scans       int64
	lastTrigger Trigger
}

func MakeScanner(reg *registry.Registry, w world.World, rescanBudget int) *Scanner {
	return &Scanner{
		registry:    reg,
		world:       w,
		countdown:   common.MakeCountdown(rescanBudget),
		descriptors: make(map[string]resolution),
		population:  entity.NewSet(),
		categories:  make(map[registry.Category]entity.Set),
	}
}

// MaybeScan rescans when the observed population count changed since the last
// call, or when the periodic countdown runs out. A fresh scanner always scans
// on its first call.
func (s *Scanner) MaybeScan() Trigger {
	trigger := Periodic
	if count := s.world.ObservedPopulationCount(); count != s.lastObservedCount {
		s.lastObservedCount = count
		s.countdown.Expire()
		trigger = PopulationChanged
	}
	if !s.countdown.Tick() {
		return NoRescan
	}
	s.Scan()
	s.lastTrigger = trigger
	return trigger
}

// Scan replaces every population with the entities currently discoverable.
func (s *Scanner) Scan() {
	population := entity.NewSet()
	categories := make(map[registry.Category]entity.Set)
	regions := s.world.Regions()

	for _, classID := range s.registry.ScanClassIDs() {
		desc, ok := s.resolve(classID)
		if !ok {
			continue
		}
		managed := s.registry.Managed(classID)
		cats := s.registry.CategoriesOf(classID)
		for _, region := range regions {
			for _, e := range s.world.EnumerateLiveInstancesOfClass(desc, region) {
				if !entity.Alive(e) {
					continue
				}
				if managed {
					population.Add(e)
				}
				for _, cat := range cats {
					if categories[cat] == nil {
						categories[cat] = entity.NewSet()
					}
					categories[cat].Add(e)
				}
			}
		}
	}

	s.population = population
	s.categories = categories
	s.scans++
	log.Debug().
		Int64("tick", s.world.CurrentTick()).
		Int("managed", population.Len()).
		Int("regions", len(regions)).
		Msg("rescanned world")
}

func (s *Scanner) resolve(classID string) (world.ClassDescriptor, bool) {
	if r, ok := s.descriptors[classID]; ok {
		return r.desc, r.ok
	}
	desc, ok := s.world.ResolveClass(classID)
	if !ok {
		log.Warn().Str("class", classID).Msg("class could not be resolved, skipping it in scans")
	}
	s.descriptors[classID] = resolution{desc: desc, ok: ok}
	return desc, ok
}

// Population returns the managed population. Callers must not mutate it.
func (s *Scanner) Population() entity.Set {
	return s.population
}

// Category returns a category population, empty when nothing was found.
// Callers must not mutate it.
func (s *Scanner) Category(cat registry.Category) entity.Set {
	if set, ok := s.categories[cat]; ok {
		return set
	}
	return entity.Set{}
}

func (s *Scanner) RemainingTicks() int {
	return s.countdown.Remaining()
}

func (s *Scanner) Scans() int64 {
	return s.scans
}

func (s *Scanner) LastTrigger() Trigger {
	return s.lastTrigger
}
