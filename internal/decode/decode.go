// Package decode provides the document decoders used by structured
// comparison.
//
// Every decoder returns a tree of map[string]any, []any and scalars, the
// shape package flatten accepts. With NormalizeUnicode set, string leaves
// and object keys are normalized to NFC so that canonically equivalent text
// compares equal.
package decode

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/golden/internal/compare"
	"github.com/roach88/golden/internal/value"
)

// Decoder names accepted by ByName.
const (
	NameNone = "none"
	NameJSON = "json"
	NameYAML = "yaml"
	NameCUE  = "cue"
)

// Names lists the decoder names in the order they appear in help output.
var Names = []string{NameNone, NameJSON, NameYAML, NameCUE}

// ByName returns the decoder registered under name.
// "none" and "" return a nil decoder, which limits comparison to strings.
func ByName(name string, nfc bool) (compare.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameNone:
		return nil, nil
	case NameJSON:
		return JSON{NormalizeUnicode: nfc}, nil
	case NameYAML:
		return YAML{NormalizeUnicode: nfc}, nil
	case NameCUE:
		return CUE{NormalizeUnicode: nfc}, nil
	default:
		return nil, compare.NewConfigError("", fmt.Sprintf("unknown decoder %q (want one of %s)", name, strings.Join(Names, ", ")), nil)
	}
}

// normalize rewrites a decoded tree into the shape flatten accepts.
// Maps with non-string keys get their keys stringified, timestamps become
// RFC 3339 strings, and strings are NFC-normalized when nfc is set.
// Number literals become float64 unless they are integers a float64
// cannot hold exactly, which stay json.Number.
func normalize(v any, nfc bool) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			if err := put(out, k, elem, nfc); err != nil {
				return nil, err
			}
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			if err := put(out, fmt.Sprint(k), elem, nfc); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			n, err := normalize(elem, nfc)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case string:
		if nfc {
			return norm.NFC.String(val), nil
		}
		return val, nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case json.Number:
		leaf, err := value.FromAny(val)
		if err != nil {
			return nil, err
		}
		return value.Interface(leaf), nil
	default:
		return v, nil
	}
}

func put(out map[string]any, key string, elem any, nfc bool) error {
	if nfc {
		key = norm.NFC.String(key)
	}
	if _, dup := out[key]; dup {
		return fmt.Errorf("duplicate key %q after normalization", key)
	}
	n, err := normalize(elem, nfc)
	if err != nil {
		return fmt.Errorf("[%q]: %w", key, err)
	}
	out[key] = n
	return nil
}
