// Package canonical serializes decoded documents as canonical JSON.
//
// The output follows RFC 8785 (JSON Canonicalization Scheme):
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No insignificant whitespace
//  3. No HTML escaping; U+2028 and U+2029 are written literally
//  4. Numbers in their shortest round-trip form, ECMAScript style
//
// Integers beyond ±2^53 are the one departure: they are written with all
// their digits instead of being rounded through a float64.
//
// Strings and keys are additionally NFC-normalized, so canonically
// equivalent documents serialize to identical bytes. Golden files written
// this way diff cleanly under plain string comparison.
package canonical

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/golden/internal/value"
)

// Marshal produces canonical JSON for a tree of map[string]any, []any and
// scalars, as returned by the decoders in package decode.
func Marshal(doc any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		return encodeObject(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	}

	leaf, err := value.FromAny(v)
	if err != nil {
		return err
	}
	switch l := leaf.(type) {
	case value.Null:
		buf.WriteString("null")
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(l)))
	case value.String:
		writeString(buf, string(l))
	case value.Number:
		s, err := formatNumber(float64(l))
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case value.Int:
		buf.WriteString(string(l))
	}
	return nil
}

func encodeObject(buf *bytes.Buffer, obj map[string]any) error {
	// NFC first: two raw keys may collapse into one.
	normalized := make(map[string]any, len(obj))
	for k, v := range obj {
		nk := norm.NFC.String(k)
		if _, dup := normalized[nk]; dup {
			return fmt.Errorf("duplicate key %q after normalization", nk)
		}
		normalized[nk] = v
	}

	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		if err := encode(buf, normalized[k]); err != nil {
			return fmt.Errorf("[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// compareUTF16 orders strings by UTF-16 code units.
// Go's string comparison uses UTF-8, which orders supplementary-plane
// characters after U+E000..U+FFFF instead of before.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// writeString writes s as a JSON string literal. Only the quote, the
// backslash and control characters are escaped.
func writeString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// formatNumber renders f the way ECMAScript's Number.prototype.toString
// does: plain decimals between 1e-6 and 1e21, exponent form outside.
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("number %v has no JSON representation", f)
	}
	if f == 0 {
		return "0", nil // also -0
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		// Go writes "1e-07"; ECMAScript writes "1e-7".
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0"), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
