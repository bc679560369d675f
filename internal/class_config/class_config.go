package class_config

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Largest class file accepted.
const MaxClassFileSize = 1024 * 1024

var ErrInvalidLevels = errors.New("idle and active levels must be set together")

//go:embed default_classes.yaml
var defaultClassesYAML []byte

// ClassConfig is one registration tuple. A class with both levels is managed
// (receives allocation writes); a class without levels is only watched by the
// evaluators of its categories.
type ClassConfig struct {
	ID         string   `yaml:"id"`
	Idle       *float64 `yaml:"idle,omitempty"`
	Active     *float64 `yaml:"active,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
}

type classFile struct {
	Classes []ClassConfig `yaml:"classes"`
}

func (c ClassConfig) Managed() bool {
	return c.Idle != nil && c.Active != nil
}

func (c ClassConfig) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("class id must not be empty")
	}
	if (c.Idle == nil) != (c.Active == nil) {
		return errors.Wrapf(ErrInvalidLevels, "class %q", c.ID)
	}
	if !c.Managed() && len(c.Categories) == 0 {
		return errors.Errorf("class %q has no levels and no categories", c.ID)
	}
	return nil
}

// LoadDefault returns the built-in class table.
func LoadDefault() ([]ClassConfig, error) {
	configs, err := Parse(defaultClassesYAML)
	if err != nil {
		return nil, errors.Wrap(err, "failed parsing built-in class table")
	}
	return configs, nil
}

func LoadFile(path string) ([]ClassConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening class file at path '%s'", path)
	}
	if info.Size() > MaxClassFileSize {
		return nil, errors.Errorf("class file '%s' exceeds %d bytes", path, MaxClassFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading class file at path '%s'", path)
	}
	configs, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed parsing class file at path '%s'", path)
	}
	return configs, nil
}

func Parse(data []byte) ([]ClassConfig, error) {
	var file classFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "invalid class yaml")
	}
	for i, c := range file.Classes {
		if err := c.Validate(); err != nil {
			return nil, errors.Wrapf(err, "class entry %d", i)
		}
	}
	return file.Classes, nil
}
