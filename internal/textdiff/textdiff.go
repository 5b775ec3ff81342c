// Package textdiff renders human-readable differences between two texts.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// Style selects how a difference is rendered.
type Style int

const (
	// StyleFull renders both texts in full with removed and inserted spans
	// highlighted. Suited to short outputs.
	StyleFull Style = iota
	// StyleUnified renders only the differing hunks with +/- markers.
	// Suited to large outputs.
	StyleUnified
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// unifiedContext is the number of unchanged lines around each hunk.
const unifiedContext = 3

// String returns the configuration name of the style.
func (s Style) String() string {
	switch s {
	case StyleFull:
		return "full"
	case StyleUnified:
		return "unified"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses a style name. Matching is case-insensitive.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "full":
		return StyleFull, nil
	case "unified":
		return StyleUnified, nil
	default:
		return 0, fmt.Errorf("unknown diff style %q: must be one of [full unified]", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	switch s {
	case StyleFull, StyleUnified:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("unknown diff style %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Style) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return fmt.Errorf("line %d: diff style must be a string: %w", node.Line, err)
	}
	if err := s.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// Format renders the difference between actual and expected.
// Identical inputs render as the empty string in every style.
func Format(actual, expected string, style Style) string {
	if actual == expected {
		return ""
	}
	if style == StyleUnified {
		return Unified(actual, expected)
	}
	return Full(actual, expected)
}

// Full renders expected with the edits that turn it into actual: spans only
// in expected are red, spans only in actual are green.
func Full(actual, expected string) string {
	if actual == expected {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			buf.WriteString(ansiRed)
			buf.WriteString(d.Text)
			buf.WriteString(ansiReset)
		case diffmatchpatch.DiffInsert:
			buf.WriteString(ansiGreen)
			buf.WriteString(d.Text)
			buf.WriteString(ansiReset)
		default:
			buf.WriteString(d.Text)
		}
	}
	return buf.String()
}

// Unified renders a unified diff from expected to actual.
func Unified(actual, expected string) string {
	if actual == expected {
		return ""
	}

	ret, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  unifiedContext,
		Eol:      "\n",
	})
	if err != nil {
		// GetUnifiedDiffString only fails when writing to its internal
		// bytes.Buffer fails, which cannot happen.
		panic(err)
	}
	return ret
}
