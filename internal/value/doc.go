// Package value provides the closed set of leaf types compared by the golden
// engine.
//
// Every leaf of a flattened document, and every literal used by a replacement
// rule, is one of Null, String, Number, or Bool. Keeping the set closed keeps
// equality and rounding well-defined:
//   - Equality is kind-sensitive, there is no truthiness or string coercion
//   - All numbers are float64, so 1 and 1.0 are the same value
//   - Only Number can be rounded
package value
