package registry

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Shopify/gorepower/internal/class_config"
	"github.com/Shopify/gorepower/internal/world"
)

var ErrDuplicateClass = errors.New("entity class already registered")

// EntityClass is a managed class with its two allocation levels.
type EntityClass struct {
	ID          string
	IdleLevel   float64
	ActiveLevel float64
}

// Level returns the allocation for an entity of this class.
func (c EntityClass) Level(usedLastTick bool) float64 {
	if usedLastTick {
		return c.ActiveLevel
	}
	return c.IdleLevel
}

// Registry maps class identifiers to their levels and evaluator categories.
// It is filled once during configuration and only read afterwards, so it
// carries no lock.
type Registry struct {
	classes map[string]EntityClass

	// Category bindings, in registration order.
	bindings   map[Category][]string
	categories map[string][]Category

	// Every class the scanner must enumerate, managed or watched, in registration order.
	scanOrder []string
}

func New() *Registry {
	return &Registry{
		classes:    make(map[string]EntityClass),
		bindings:   make(map[Category][]string),
		categories: make(map[string][]Category),
	}
}

// Register adds a managed class. Registering the same id twice is a
// configuration error and returns ErrDuplicateClass.
func (r *Registry) Register(id string, idle, active float64) error {
	if _, ok := r.classes[id]; ok {
		return errors.Wrapf(ErrDuplicateClass, "%q", id)
	}
	r.classes[id] = EntityClass{ID: id, IdleLevel: idle, ActiveLevel: active}
	r.track(id)
	return nil
}

// Bind adds id to the populations of the given categories. The class does not
// need to be managed; watched classes are evaluated without receiving writes.
func (r *Registry) Bind(id string, cats ...Category) {
	r.track(id)
	for _, cat := range cats {
		if r.hasCategory(id, cat) {
			continue
		}
		r.categories[id] = append(r.categories[id], cat)
		r.bindings[cat] = append(r.bindings[cat], id)
	}
}

func (r *Registry) track(id string) {
	for _, known := range r.scanOrder {
		if known == id {
			return
		}
	}
	r.scanOrder = append(r.scanOrder, id)
}

func (r *Registry) hasCategory(id string, cat Category) bool {
	for _, c := range r.categories[id] {
		if c == cat {
			return true
		}
	}
	return false
}

func (r *Registry) Class(id string) (EntityClass, bool) {
	c, ok := r.classes[id]
	return c, ok
}

func (r *Registry) Managed(id string) bool {
	_, ok := r.classes[id]
	return ok
}

func (r *Registry) ManagedCount() int {
	return len(r.classes)
}

// CategoriesOf returns the categories a class is bound to.
func (r *Registry) CategoriesOf(id string) []Category {
	return append([]Category(nil), r.categories[id]...)
}

// ClassesIn returns the classes bound to a category.
func (r *Registry) ClassesIn(cat Category) []string {
	return append([]string(nil), r.bindings[cat]...)
}

// ScanClassIDs returns every class the discovery scan must enumerate.
func (r *Registry) ScanClassIDs() []string {
	return append([]string(nil), r.scanOrder...)
}

// Build registers every configured class. When resolver is non-nil, classes
// the host cannot resolve are logged and left out of both allocation and
// scanning; duplicates and unknown categories abort the build.
func Build(configs []class_config.ClassConfig, resolver world.ClassResolver) (*Registry, error) {
	r := New()
	loaded := 0
	seen := make(map[string]bool, len(configs))
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, errors.Wrapf(ErrDuplicateClass, "%q", c.ID)
		}
		seen[c.ID] = true
		cats := make([]Category, 0, len(c.Categories))
		for _, name := range c.Categories {
			cat, err := ParseCategory(name)
			if err != nil {
				return nil, errors.Wrapf(err, "class %q", c.ID)
			}
			cats = append(cats, cat)
		}
		if resolver != nil {
			if _, ok := resolver.ResolveClass(c.ID); !ok {
				log.Warn().Str("class", c.ID).Msg("no class to load, skipping")
				continue
			}
		}
		if c.Managed() {
			if err := r.Register(c.ID, *c.Idle, *c.Active); err != nil {
				return nil, err
			}
		}
		r.Bind(c.ID, cats...)
		loaded++
		log.Debug().Str("class", c.ID).Bool("managed", c.Managed()).Msg("registered class")
	}
	log.Info().Int("loaded", loaded).Int("configured", len(configs)).Msg("registered class definitions")
	return r, nil
}
