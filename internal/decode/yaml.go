package decode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML decodes a single YAML document. An empty text decodes to null.
// A stream with more than one document is rejected.
type YAML struct {
	NormalizeUnicode bool
}

// Decode implements compare.Decoder.
func (d YAML) Decode(text string) (any, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var v any
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		return nil, errors.New("yaml: expected a single document")
	}

	return normalize(v, d.NormalizeUnicode)
}
