package compare

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/golden/internal/textdiff"
	"github.com/roach88/golden/internal/value"
)

// DefaultPrecision is the rounding precision used when neither a rounding
// rule nor the structured configuration specifies one.
const DefaultPrecision = 6

// NoDifferences is the verdict message for equal inputs.
const NoDifferences = "No differences found."

// Config selects how actual output is compared with a golden file.
type Config struct {
	// String configures regex normalization and diff rendering.
	// It always applies.
	String StringConfig `yaml:"string"`

	// Structured, when set, switches the verdict to a path-by-path
	// comparison of the decoded documents.
	Structured *StructuredConfig `yaml:"structured,omitempty"`
}

// StringConfig configures textual comparison.
type StringConfig struct {
	// RegexReplacements are applied in order to the actual text only.
	RegexReplacements []RegexRule `yaml:"regex_replacements,omitempty"`

	// DiffStyle selects how a mismatch is rendered.
	DiffStyle textdiff.Style `yaml:"diff_style"`
}

// RegexRule replaces every match of Pattern in the actual text.
// Pattern uses RE2 syntax; Replacement may reference groups as $1 or ${name}.
type RegexRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// StructuredConfig configures path-by-path comparison of decoded documents.
type StructuredConfig struct {
	// Ignores lists paths excluded from the comparison. An entry also
	// excludes every path beneath it ("a" ignores "a.b" and "a[0]").
	Ignores []string `yaml:"ignores,omitempty"`

	// Replacements force both sides to hold a literal value at a path.
	// Applied in order; later rules on the same path win.
	Replacements []Replacement `yaml:"replacements,omitempty"`

	// Roundings round numbers at a path on both sides before comparing.
	Roundings []Rounding `yaml:"roundings,omitempty"`

	// Precision is the fallback for roundings without their own precision.
	// Nil means DefaultPrecision.
	Precision *int `yaml:"precision,omitempty"`

	// AllowAdditionalKeys skips paths present only in actual.
	AllowAdditionalKeys bool `yaml:"allow_additional_keys"`

	// AllowMissingKeys skips paths present only in expected.
	AllowMissingKeys bool `yaml:"allow_missing_keys"`
}

// EffectivePrecision returns the configured fallback precision.
func (c StructuredConfig) EffectivePrecision() int {
	if c.Precision != nil {
		return *c.Precision
	}
	return DefaultPrecision
}

// precisionFor resolves the precision a rounding rule rounds to.
func (c StructuredConfig) precisionFor(r Rounding) int {
	if r.Precision != nil {
		return *r.Precision
	}
	return c.EffectivePrecision()
}

// Replacement forces Value at Path in both documents.
//
// The path is created when it does not exist, so a replacement can mask a
// key that is missing on one side.
type Replacement struct {
	Path  string
	Value value.Value
}

// UnmarshalYAML decodes {path: ..., value: ...}. The value must be a scalar;
// an explicit null is allowed and becomes value.Null.
func (r *Replacement) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: replacement must be a mapping", node.Line)
	}

	var hasPath, hasValue bool
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "path":
			if err := val.Decode(&r.Path); err != nil {
				return fmt.Errorf("line %d: replacement path: %w", val.Line, err)
			}
			hasPath = true
		case "value":
			var raw any
			if err := val.Decode(&raw); err != nil {
				return fmt.Errorf("line %d: replacement value: %w", val.Line, err)
			}
			v, err := value.FromAny(raw)
			if err != nil {
				return fmt.Errorf("line %d: replacement value must be a scalar: %w", val.Line, err)
			}
			r.Value = v
			hasValue = true
		default:
			return fmt.Errorf("line %d: field %s not found in replacement", key.Line, key.Value)
		}
	}

	if !hasPath {
		return fmt.Errorf("line %d: replacement path is required", node.Line)
	}
	if !hasValue {
		return fmt.Errorf("line %d: replacement value is required (use null for a null value)", node.Line)
	}
	return nil
}

// Rounding rounds the number at Path to Precision decimal digits.
// Nil Precision falls back to StructuredConfig.Precision.
type Rounding struct {
	Path      string `yaml:"path"`
	Precision *int   `yaml:"precision,omitempty"`
}

// DefaultConfig returns a plain string comparison with a full diff.
func DefaultConfig() Config {
	return Config{
		String: StringConfig{DiffStyle: textdiff.StyleFull},
	}
}

// DiscrepancyKind categorizes a located disagreement.
type DiscrepancyKind string

const (
	// MissingInActual: the path exists only in expected.
	MissingInActual DiscrepancyKind = "missing_in_actual"

	// UnexpectedInActual: the path exists only in actual.
	UnexpectedInActual DiscrepancyKind = "unexpected_in_actual"

	// ValueMismatch: both sides hold the path with different values.
	ValueMismatch DiscrepancyKind = "value_mismatch"
)

// Discrepancy is one located disagreement between actual and expected.
// Expected is nil for UnexpectedInActual, Actual is nil for MissingInActual.
type Discrepancy struct {
	Kind     DiscrepancyKind `json:"kind"`
	Path     string          `json:"path"`
	Expected value.Value     `json:"expected,omitempty"`
	Actual   value.Value     `json:"actual,omitempty"`
}

// String renders the discrepancy as a single sentence.
func (d Discrepancy) String() string {
	switch d.Kind {
	case MissingInActual:
		return fmt.Sprintf("Expected '%s' but got nothing.", d.Path)
	case UnexpectedInActual:
		return fmt.Sprintf("Expected nothing but got '%s'.", d.Path)
	default:
		return fmt.Sprintf("Expected '%s' to be '%s' but got '%s'.", d.Path, d.Expected, d.Actual)
	}
}

// Verdict is the outcome of a comparison.
type Verdict struct {
	// Equal is true when actual matches expected under the configuration.
	Equal bool `json:"equal"`

	// Message is NoDifferences, a rendered diff, or one line per discrepancy.
	Message string `json:"message"`

	// Discrepancies is sorted by path. Always empty for string comparisons.
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
}

func equalVerdict() Verdict {
	return Verdict{Equal: true, Message: NoDifferences}
}

// renderDiscrepancies joins one sentence per discrepancy.
func renderDiscrepancies(ds []Discrepancy) string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
