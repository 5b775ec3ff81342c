package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/golden/internal/compare"
	"github.com/roach88/golden/internal/config"
	"github.com/roach88/golden/internal/decode"
)

// Suite is a named list of golden comparisons sharing one configuration.
type Suite struct {
	// Name uniquely identifies this suite.
	Name string `yaml:"name"`

	// Description explains what this suite covers.
	Description string `yaml:"description,omitempty"`

	// Config is the path to a comparison config file. Empty means defaults.
	Config string `yaml:"config,omitempty"`

	// Decoder names the decoder for structured comparison (see decode.ByName).
	Decoder string `yaml:"decoder,omitempty"`

	// NormalizeUnicode applies NFC normalization in the decoder.
	NormalizeUnicode bool `yaml:"normalize_unicode,omitempty"`

	// Cases are compared in order.
	Cases []Case `yaml:"cases"`
}

// Case pairs an actual output file with its golden file.
type Case struct {
	Name   string `yaml:"name"`
	Actual string `yaml:"actual"`
	Golden string `yaml:"golden"`
}

// LoadSuite reads and parses a suite YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Relative paths are resolved against the suite file's directory.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}

	base := filepath.Dir(path)
	suite.Config = resolve(base, suite.Config)
	for i := range suite.Cases {
		suite.Cases[i].Actual = resolve(base, suite.Cases[i].Actual)
		suite.Cases[i].Golden = resolve(base, suite.Cases[i].Golden)
	}

	return &suite, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if _, err := decode.ByName(s.Decoder, false); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
		if c.Actual == "" {
			return fmt.Errorf("cases[%d]: actual is required", i)
		}
		if c.Golden == "" {
			return fmt.Errorf("cases[%d]: golden is required", i)
		}
	}
	return nil
}

// RunSuite compares every case of s. Case failures are recorded in the
// result; the error is reserved for problems that stop the whole suite,
// such as an unreadable config file.
func RunSuite(s *Suite, opts ...Option) (*SuiteResult, error) {
	cfg := compare.DefaultConfig()
	if s.Config != "" {
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	dec, err := decode.ByName(s.Decoder, s.NormalizeUnicode)
	if err != nil {
		return nil, err
	}

	// Suite settings come first so callers can override them.
	h, err := New(append([]Option{WithConfig(cfg), WithDecoder(dec)}, opts...)...)
	if err != nil {
		return nil, err
	}

	result := NewSuiteResult(s.Name)
	for _, c := range s.Cases {
		result.Add(h.runCase(c))
	}
	return result, nil
}

func (h *Harness) runCase(c Case) CaseResult {
	actual, err := os.ReadFile(c.Actual)
	if err != nil {
		return CaseResult{Name: c.Name, Error: fmt.Sprintf("failed to read actual file: %v", err)}
	}

	verdict, err := h.Check(c.Golden, string(actual))
	if err != nil {
		return CaseResult{Name: c.Name, Error: err.Error()}
	}
	return CaseResult{
		Name:    c.Name,
		Pass:    verdict.Equal,
		Updated: h.Updating(),
		Verdict: &verdict,
	}
}
