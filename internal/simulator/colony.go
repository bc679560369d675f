package simulator

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/world_mock"
)

const (
	HomeRegion    = entity.RegionID("home")
	OutpostRegion = entity.RegionID("outpost")
)

// Blueprint describes a kind of building placed in the colony.
type Blueprint struct {
	Class  string
	Region entity.RegionID
	Width  int
	Depth  int
	Count  int
	// Buildings of this class are powered by a day/night schedule.
	Scheduled bool
	// Facility class linked to every building of this class in the same region.
	LinkTo string
}

var DefaultLayout = []Blueprint{
	{Class: "ElectricTailoringBench", Region: HomeRegion, Width: 3, Depth: 1, Count: 1},
	{Class: "ElectricSmithy", Region: HomeRegion, Width: 3, Depth: 1, Count: 2},
	{Class: "TableMachining", Region: HomeRegion, Width: 3, Depth: 1, Count: 1},
	{Class: "ElectricStove", Region: HomeRegion, Width: 3, Depth: 1, Count: 2},
	{Class: "ElectricSmelter", Region: HomeRegion, Width: 3, Depth: 2, Count: 1},
	{Class: "BiofuelRefinery", Region: HomeRegion, Width: 3, Depth: 3, Count: 1},
	{Class: "FabricationBench", Region: HomeRegion, Width: 5, Depth: 2, Count: 1},
	{Class: "ElectricCrematorium", Region: HomeRegion, Width: 3, Depth: 2, Count: 1},
	{Class: "MultiAnalyzer", Region: HomeRegion, Width: 2, Depth: 2, Count: 1},
	{Class: "HiTechResearchBench", Region: HomeRegion, Width: 3, Depth: 2, Count: 2, LinkTo: "MultiAnalyzer"},
	{Class: "VitalsMonitor", Region: HomeRegion, Width: 1, Depth: 1, Count: 2},
	{Class: "HospitalBed", Region: HomeRegion, Width: 1, Depth: 2, Count: 4, LinkTo: "VitalsMonitor"},
	{Class: "Autodoor", Region: HomeRegion, Width: 1, Depth: 1, Count: 4},
	{Class: "TubeTelevision", Region: HomeRegion, Width: 2, Depth: 1, Count: 1},
	{Class: "FlatscreenTelevision", Region: HomeRegion, Width: 3, Depth: 1, Count: 1},
	{Class: "MegascreenTelevision", Region: HomeRegion, Width: 4, Depth: 1, Count: 1},
	{Class: "HydroponicsBasin", Region: HomeRegion, Width: 1, Depth: 4, Count: 3},
	{Class: "SunLamp", Region: HomeRegion, Width: 1, Depth: 1, Count: 2, Scheduled: true},
	{Class: "DeepDrill", Region: OutpostRegion, Width: 1, Depth: 1, Count: 3},
	{Class: "Sculpture", Region: HomeRegion, Width: 1, Depth: 1, Count: 2},
}

// Colony places buildings from blueprints on a simple row layout, one row per region.
type Colony struct {
	World *world_mock.World

	blueprints map[string]Blueprint
	cursor     map[entity.RegionID]int
	scheduled  []*world_mock.Building
}

// MakeColony creates a world knowing every blueprint class, with one region
// per blueprint region. The first region seen becomes the home region.
func MakeColony(layout []Blueprint) *Colony {
	w := world_mock.MakeWorld()
	c := &Colony{
		World:      w,
		blueprints: make(map[string]Blueprint, len(layout)),
		cursor:     make(map[entity.RegionID]int),
	}
	for _, bp := range layout {
		w.DefineClass(bp.Class)
		w.AddRegion(bp.Region)
		c.blueprints[bp.Class] = bp
	}
	return c
}

// Build places Count buildings of every blueprint, then links facilities.
func (c *Colony) Build(layout []Blueprint) error {
	for _, bp := range layout {
		for i := 0; i < bp.Count; i++ {
			if _, err := c.place(bp); err != nil {
				return err
			}
		}
	}
	for _, bp := range layout {
		if bp.LinkTo != "" {
			c.link(bp)
		}
	}
	return nil
}

// Construct places one more building of class, linked like the others.
func (c *Colony) Construct(class string) (*world_mock.Building, error) {
	bp, ok := c.blueprints[class]
	if !ok {
		return nil, errors.Errorf("no blueprint for %q", class)
	}
	b, err := c.place(bp)
	if err != nil {
		return nil, err
	}
	if bp.LinkTo != "" {
		for _, facility := range c.World.BuildingsOf(bp.Region, bp.LinkTo) {
			c.World.Link(b, facility)
		}
	}
	for _, other := range c.blueprints {
		if other.LinkTo == class && other.Region == bp.Region {
			for _, owner := range c.World.BuildingsOf(other.Region, other.Class) {
				c.World.Link(owner, b)
			}
		}
	}
	return b, nil
}

// Blueprints lists the known classes, sorted.
func (c *Colony) Blueprints() []string {
	out := make([]string, 0, len(c.blueprints))
	for class := range c.blueprints {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Scheduled returns the buildings running on a schedule, despawned ones included.
func (c *Colony) Scheduled() []*world_mock.Building {
	return c.scheduled
}

func (c *Colony) place(bp Blueprint) (*world_mock.Building, error) {
	x := c.cursor[bp.Region]
	b, err := c.World.Spawn(bp.Class, bp.Region, entity.Cell{X: x}, bp.Width, bp.Depth)
	if err != nil {
		return nil, errors.Wrap(err, "placing building")
	}
	c.cursor[bp.Region] = x + bp.Width + 1
	if bp.Scheduled {
		c.World.AttachSchedule(b, false)
		c.scheduled = append(c.scheduled, b)
	}
	return b, nil
}

func (c *Colony) link(bp Blueprint) {
	facilities := c.World.BuildingsOf(bp.Region, bp.LinkTo)
	for _, b := range c.World.BuildingsOf(bp.Region, bp.Class) {
		for _, facility := range facilities {
			c.World.Link(b, facility)
		}
	}
}
