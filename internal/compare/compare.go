package compare

import (
	"fmt"
	"regexp"

	"github.com/roach88/golden/internal/textdiff"
)

// Decoder turns a golden or actual text into a structured document built
// from map[string]any, []any, and scalars. The engine never picks a
// decoder itself; see package decode for ready-made ones.
type Decoder interface {
	Decode(text string) (any, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(text string) (any, error)

// Decode calls f(text).
func (f DecoderFunc) Decode(text string) (any, error) {
	return f(text)
}

// Comparer applies one validated configuration to any number of
// actual/expected pairs. It is immutable and safe for concurrent use.
type Comparer struct {
	cfg   Config
	rules []compiledRule
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// New validates cfg and compiles its regex rules.
// A malformed pattern fails here, before any comparison runs.
func New(cfg Config) (*Comparer, error) {
	rules, err := compileRules(cfg.String.RegexReplacements)
	if err != nil {
		return nil, err
	}

	switch cfg.String.DiffStyle {
	case textdiff.StyleFull, textdiff.StyleUnified:
	default:
		return nil, NewConfigError("", fmt.Sprintf("unknown diff style %v", cfg.String.DiffStyle), nil)
	}

	if cfg.Structured != nil {
		if err := cfg.Structured.validateReplacements(); err != nil {
			return nil, err
		}
	}

	return &Comparer{cfg: cfg, rules: rules}, nil
}

func compileRules(rules []RegexRule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, NewConfigError("", fmt.Sprintf("regex_replacements[%d]: invalid pattern %q", i, r.Pattern), err)
		}
		compiled = append(compiled, compiledRule{re: re, replacement: r.Replacement})
	}
	return compiled, nil
}

// Config returns the configuration the comparer was built from.
func (c *Comparer) Config() Config {
	return c.cfg
}

// Normalize applies the regex rules, in order, to an actual text.
func (c *Comparer) Normalize(actual string) string {
	for _, r := range c.rules {
		actual = r.re.ReplaceAllString(actual, r.replacement)
	}
	return actual
}

// CompareStrings normalizes actual and compares it with expected for exact
// equality, rendering a diff on mismatch.
func (c *Comparer) CompareStrings(actual, expected string) Verdict {
	return c.stringVerdict(c.Normalize(actual), expected)
}

func (c *Comparer) stringVerdict(normalized, expected string) Verdict {
	if normalized == expected {
		return equalVerdict()
	}
	return Verdict{
		Equal:   false,
		Message: textdiff.Format(normalized, expected, c.cfg.String.DiffStyle),
	}
}

// Compare is the top-level comparison of an actual text with a golden text.
//
// The regex rules always run on actual. Without a structured configuration
// the string verdict is final. With one, the normalized actual and the
// expected text are decoded by dec and the structured verdict replaces the
// string verdict entirely.
//
// Decode failures return an Error with ErrCodeDecode, never a failing verdict.
func (c *Comparer) Compare(actual, expected string, dec Decoder) (Verdict, error) {
	normalized := c.Normalize(actual)
	if c.cfg.Structured == nil {
		return c.stringVerdict(normalized, expected), nil
	}

	if dec == nil {
		return Verdict{}, NewConfigError("", "structured comparison requires a decoder", nil)
	}

	actualDoc, err := dec.Decode(normalized)
	if err != nil {
		return Verdict{}, NewDecodeError(SideActual, err)
	}
	expectedDoc, err := dec.Decode(expected)
	if err != nil {
		return Verdict{}, NewDecodeError(SideExpected, err)
	}

	return CompareStructured(actualDoc, expectedDoc, *c.cfg.Structured)
}

// Compare builds a Comparer for cfg and runs a single comparison.
func Compare(actual, expected string, cfg Config, dec Decoder) (Verdict, error) {
	c, err := New(cfg)
	if err != nil {
		return Verdict{}, err
	}
	return c.Compare(actual, expected, dec)
}

// CompareStrings compares two texts after applying rules to actual.
// The only error is a malformed regex pattern.
func CompareStrings(actual, expected string, rules []RegexRule, style textdiff.Style) (Verdict, error) {
	c, err := New(Config{String: StringConfig{RegexReplacements: rules, DiffStyle: style}})
	if err != nil {
		return Verdict{}, err
	}
	return c.CompareStrings(actual, expected), nil
}
