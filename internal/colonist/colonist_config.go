package colonist

import (
	_ "embed"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default_colonists.yaml
var defaultColonists []byte

type ColonistConfig struct {
	RepresentationPercent float64            `yaml:"representation_percent"`
	ColonistType          string             `yaml:"colonist_type"`
	HumanizedLabel        string             `yaml:"humanized_label"`
	Region                string             `yaml:"region"`
	TargetClasses         []string           `yaml:"target_classes"`
	MaxJobTicks           int                `yaml:"max_job_ticks"`
	MaxRestTicks          int                `yaml:"max_rest_ticks"`
	CustomFloatProperties map[string]float64 `yaml:"custom_float_properties"`
}

type distributionFile struct {
	Colonists []ColonistConfig `yaml:"colonists"`
}

// LoadDefaultDistribution returns the built-in colonist distribution.
func LoadDefaultDistribution() ([]ColonistConfig, error) {
	return ParseDistribution(defaultColonists)
}

func LoadDistribution(path string) ([]ColonistConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading colonist distribution %s", path)
	}
	configs, err := ParseDistribution(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "colonist distribution %s", path)
	}
	return configs, nil
}

// ParseDistribution decodes a distribution whose representation percents
// must sum to 1.0.
func ParseDistribution(raw []byte) ([]ColonistConfig, error) {
	var f distributionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "parsing colonist distribution")
	}
	total := 0.0
	for _, c := range f.Colonists {
		if c.ColonistType == "" {
			return nil, errors.Errorf("colonist %q has no colonist_type", c.HumanizedLabel)
		}
		if len(c.TargetClasses) == 0 {
			return nil, errors.Errorf("colonist %q has no target_classes", c.HumanizedLabel)
		}
		if c.RepresentationPercent < 0 {
			return nil, errors.Errorf("colonist %q has a negative representation_percent", c.HumanizedLabel)
		}
		total += c.RepresentationPercent
	}
	if math.Abs(total-1.0) > 1e-6 {
		return nil, errors.Errorf("representation_percent values must sum to 1.0, got %.3f", total)
	}
	return f.Colonists, nil
}

// Counts splits numColonists across configs by representation percent,
// giving the rounding remainder to the first configs.
func Counts(configs []ColonistConfig, numColonists int) []int {
	counts := make([]int, len(configs))
	assigned := 0
	weighted := false
	for i, c := range configs {
		counts[i] = int(math.Floor(c.RepresentationPercent * float64(numColonists)))
		assigned += counts[i]
		weighted = weighted || c.RepresentationPercent > 0
	}
	for i := 0; weighted && assigned < numColonists; i = (i + 1) % len(configs) {
		if configs[i].RepresentationPercent > 0 {
			counts[i]++
			assigned++
		}
	}
	return counts
}
