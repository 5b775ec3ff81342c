// Package compare decides whether the output of a program run matches a
// golden file.
//
// # Comparison Modes
//
// Every comparison starts by applying the configured regex rules to the
// actual text (the golden text is never rewritten). What happens next
// depends on the configuration:
//
//   - String mode: the normalized actual text must equal the golden text
//     exactly. A mismatch carries a rendered diff (see package textdiff).
//   - Structured mode: both texts are decoded by a caller-supplied Decoder,
//     flattened to path → leaf maps, and compared path by path under the
//     ignore, replacement, rounding and key policies.
//
// # Configuration
//
//	string:
//	  diff_style: unified
//	  regex_replacements:
//	    - pattern: 'id=\d+'
//	      replacement: 'id={N}'
//	structured:
//	  ignores: [ts]
//	  replacements:
//	    - path: meta.host
//	      value: "<host>"
//	  roundings:
//	    - path: v
//	      precision: 4
//	  allow_missing_keys: false
//
// # Outcomes
//
// A comparison ends in one of three ways:
//   - an equal Verdict
//   - a non-equal Verdict listing every Discrepancy, sorted by path
//   - an *Error: ErrCodeConfiguration for a malformed regex, a rounding rule
//     on a non-number, or a missing decoder; ErrCodeDecode when a document
//     cannot be decoded
//
// A mismatch is never an error, and an undecodable document is never
// reported as a mismatch.
//
// # Usage
//
//	c, err := compare.New(cfg)
//	if err != nil {
//	    return err
//	}
//	verdict, err := c.Compare(actual, golden, decode.JSON{})
//	if err != nil {
//	    return err
//	}
//	if !verdict.Equal {
//	    fmt.Println(verdict.Message)
//	}
//
// The package keeps no state between calls and never logs; a Comparer can
// be shared across goroutines.
package compare
