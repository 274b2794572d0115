package views

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ViewOverride replaces presentation fields of one view. Relative image
// paths are resolved against the public URL.
type ViewOverride struct {
	Image       string `yaml:"image,omitempty"`
	AspectRatio string `yaml:"aspect_ratio,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Input       string `yaml:"input,omitempty"`
}

// Overrides is the YAML document loaded from VIEWS_FILE.
type Overrides struct {
	Views map[Name]ViewOverride `yaml:"views"`
}

// LoadOverrides reads view overrides from a YAML file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading views file: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides parses view overrides and rejects unknown view names.
func ParseOverrides(data []byte) (*Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing views file: %w", err)
	}

	known := make(map[Name]bool, len(Names))
	for _, n := range Names {
		known[n] = true
	}
	for name := range o.Views {
		if !known[name] {
			return nil, fmt.Errorf("views file: unknown view %q", name)
		}
	}
	return &o, nil
}
