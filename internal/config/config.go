// Package config loads comparison configurations from YAML files.
//
// Unknown fields are rejected so that a misspelt option fails loudly
// instead of silently falling back to a default. Missing fields keep the
// values of compare.DefaultConfig.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/golden/internal/compare"
	"github.com/roach88/golden/internal/flatten"
)

// Load reads and validates the configuration file at path.
func Load(path string) (compare.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compare.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return compare.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration.
// An empty document yields compare.DefaultConfig.
func Parse(data []byte) (compare.Config, error) {
	cfg := compare.DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return compare.Config{}, compare.NewConfigError("", "failed to parse YAML", err)
	}

	if err := Validate(cfg); err != nil {
		return compare.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every path parses and that the comparer accepts cfg.
// Every failure is a compare configuration error.
func Validate(cfg compare.Config) error {
	if s := cfg.Structured; s != nil {
		for i, p := range s.Ignores {
			if _, err := flatten.ParsePath(p); err != nil {
				return compare.NewConfigError(p, fmt.Sprintf("ignores[%d]", i), err)
			}
		}
		for i, r := range s.Replacements {
			if _, err := flatten.ParsePath(r.Path); err != nil {
				return compare.NewConfigError(r.Path, fmt.Sprintf("replacements[%d]", i), err)
			}
		}
		for i, r := range s.Roundings {
			if _, err := flatten.ParsePath(r.Path); err != nil {
				return compare.NewConfigError(r.Path, fmt.Sprintf("roundings[%d]", i), err)
			}
		}
	}

	if _, err := compare.New(cfg); err != nil {
		return err
	}
	return nil
}
