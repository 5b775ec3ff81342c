package decode

import (
	"fmt"

	"cuelang.org/go/cue/cuecontext"
)

// CUE evaluates a CUE source text and decodes its concrete value.
// Definitions and hidden fields are dropped; an incomplete value is an error.
type CUE struct {
	NormalizeUnicode bool
}

// Decode implements compare.Decoder.
func (d CUE) Decode(text string) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(text)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("cue: %w", err)
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("cue: %w", err)
	}
	return JSON(d).Decode(string(data))
}
