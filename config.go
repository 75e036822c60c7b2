package di

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration holds the behavioral switches of a Container. It is copied
// when a container is created, so later changes to the caller's value have
// no effect on existing containers.
type Configuration struct {
	// EnablePropertyInjection fills exported, currently nil fields of
	// constructed instances by resolving their declared type.
	EnablePropertyInjection bool `yaml:"enable_property_injection" json:"enable_property_injection"`
}

// Clone returns a copy of the configuration.
func (c Configuration) Clone() Configuration {
	return c
}

// ParseConfiguration decodes a YAML document into a Configuration.
// Unknown options are rejected. An empty document yields the defaults.
func ParseConfiguration(data []byte) (Configuration, error) {
	var cfg Configuration

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Configuration{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return cfg, nil
}

// LoadConfiguration reads a YAML configuration file.
func LoadConfiguration(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("read configuration %s: %w", path, err)
	}

	return ParseConfiguration(data)
}
