package decode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// JSON decodes a single JSON document. Numbers decode as float64, except
// integers beyond ±2^53, which stay exact as json.Number.
type JSON struct {
	NormalizeUnicode bool
}

// Decode implements compare.Decoder.
func (d JSON) Decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("json: unexpected data after top-level value")
	}
	return normalize(v, d.NormalizeUnicode)
}
