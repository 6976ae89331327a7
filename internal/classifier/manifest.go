package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a deployed image model.
type Manifest struct {
	Name             string   `yaml:"name"`
	Endpoint         string   `yaml:"endpoint"`
	InputSize        int      `yaml:"input_size"`
	Classes          []string `yaml:"classes"`
	OutputsAreLogits bool     `yaml:"outputs_are_logits"`
}

// DefaultManifest returns the manifest of the bundled peach model with no endpoint.
func DefaultManifest() Manifest {
	return Manifest{
		Name:      "durazno-cnn",
		InputSize: DefaultInputSize,
		Classes:   append([]string(nil), DefaultRawClasses...),
	}
}

// LoadManifest reads a YAML manifest. Missing fields take the defaults.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	m := DefaultManifest()
	m.Classes = nil
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Classes) == 0 {
		m.Classes = append([]string(nil), DefaultRawClasses...)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks that the manifest can drive a model.
func (m Manifest) Validate() error {
	if m.InputSize <= 0 {
		return fmt.Errorf("input_size must be positive, got %d", m.InputSize)
	}
	if len(m.Classes) == 0 {
		return fmt.Errorf("no classes listed")
	}
	seen := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if seen[c] {
			return fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = true
	}
	return nil
}
