package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyBackend = "backend"
	keyLogging = "logging"
	keyServer  = "server"
)

// ShallowMergeYAML loads a YAML file and merges its top-level sections onto target.
// Fields set in an overlay section replace the target's fields; absent sections,
// absent fields and unknown keys are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// unmarshalSection decodes node over a copy of the section named key and assigns it
// back only when decoding succeeds.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyBackend:
		v := target.Backend
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Backend = v
	case keyLogging:
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyServer:
		v := target.Server
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	}
	return nil
}
