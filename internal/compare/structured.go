package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/golden/internal/flatten"
	"github.com/roach88/golden/internal/value"
)

// CompareStructured compares two decoded documents path by path.
//
// Steps, in order:
//  1. flatten both documents
//  2. apply replacements to both sides, creating paths that are absent
//  3. round numbers at rounding paths on every side that holds them
//  4. drop ignored paths from the union of both key sets
//  5. classify each remaining path, in sorted order
//
// A rounding rule that lands on a non-number aborts the comparison with a
// configuration error instead of producing a verdict, as does a
// replacement without a value.
func CompareStructured(actual, expected any, cfg StructuredConfig) (Verdict, error) {
	if err := cfg.validateReplacements(); err != nil {
		return Verdict{}, err
	}

	actualFlat, err := flatten.Flatten(actual)
	if err != nil {
		return Verdict{}, NewDecodeError(SideActual, err)
	}
	expectedFlat, err := flatten.Flatten(expected)
	if err != nil {
		return Verdict{}, NewDecodeError(SideExpected, err)
	}

	for _, r := range cfg.Replacements {
		actualFlat[r.Path] = r.Value
		expectedFlat[r.Path] = r.Value
	}

	for _, r := range cfg.Roundings {
		precision := cfg.precisionFor(r)
		if err := roundAt(actualFlat, r.Path, precision, SideActual); err != nil {
			return Verdict{}, err
		}
		if err := roundAt(expectedFlat, r.Path, precision, SideExpected); err != nil {
			return Verdict{}, err
		}
	}

	discrepancies := diffFlat(actualFlat, expectedFlat, cfg)
	if len(discrepancies) == 0 {
		return equalVerdict(), nil
	}
	return Verdict{
		Equal:         false,
		Message:       renderDiscrepancies(discrepancies),
		Discrepancies: discrepancies,
	}, nil
}

func (c StructuredConfig) validateReplacements() error {
	for i, r := range c.Replacements {
		if r.Value == nil {
			return NewConfigError(r.Path, fmt.Sprintf("replacements[%d]: value is required for path '%s'", i, r.Path), nil)
		}
	}
	return nil
}

// roundAt rounds m[path] in place. A side that does not hold the path is
// left to the missing/additional key policy.
func roundAt(m flatten.Map, path string, precision int, side string) error {
	v, ok := m[path]
	if !ok {
		return nil
	}
	rounded, ok := value.RoundNumeric(v, precision)
	if !ok {
		return NewConfigError(path, fmt.Sprintf("Expected number at rounding path '%s' but got %s (%s: %s)", path, v.Kind(), side, v), nil)
	}
	m[path] = rounded
	return nil
}

// diffFlat lists the discrepancies between two flattened documents, sorted by path.
func diffFlat(actual, expected flatten.Map, cfg StructuredConfig) []Discrepancy {
	union := make(map[string]struct{}, len(actual)+len(expected))
	for p := range actual {
		union[p] = struct{}{}
	}
	for p := range expected {
		union[p] = struct{}{}
	}

	paths := make([]string, 0, len(union))
	for p := range union {
		if !isIgnored(p, cfg.Ignores) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var out []Discrepancy
	for _, p := range paths {
		act, inActual := actual[p]
		exp, inExpected := expected[p]

		switch {
		case !inActual:
			if !cfg.AllowMissingKeys {
				out = append(out, Discrepancy{Kind: MissingInActual, Path: p, Expected: exp})
			}
		case !inExpected:
			if !cfg.AllowAdditionalKeys {
				out = append(out, Discrepancy{Kind: UnexpectedInActual, Path: p, Actual: act})
			}
		case !value.Equal(act, exp):
			out = append(out, Discrepancy{Kind: ValueMismatch, Path: p, Expected: exp, Actual: act})
		}
	}
	return out
}

// isIgnored reports whether path equals an ignore entry or lies beneath one.
func isIgnored(path string, ignores []string) bool {
	for _, ig := range ignores {
		if path == ig {
			return true
		}
		if strings.HasPrefix(path, ig) && len(path) > len(ig) {
			next := path[len(ig)]
			if next == '[' || (next == '.' && ig != "") {
				return true
			}
		}
	}
	return false
}
