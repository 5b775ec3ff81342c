package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Value is a sealed interface over the JSON leaf types.
// Only Null, String, Number, Int, and Bool implement it.
type Value interface {
	scalar() // Sealed - only these types implement it

	// Kind names the leaf type ("null", "string", "number", "boolean").
	Kind() Kind

	// String renders the value the way discrepancy messages print it.
	String() string
}

// Kind identifies the type of a Value.
type Kind string

const (
	KindNull   Kind = "null"
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "boolean"
)

// Null represents a JSON null leaf.
type Null struct{}

func (Null) scalar()        {}
func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string leaf.
type String string

func (String) scalar()          {}
func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }

// Number represents a numeric leaf. Integers within ±2^53 share this
// representation with floats so that 1 and 1.0 compare equal.
type Number float64

func (Number) scalar()    {}
func (Number) Kind() Kind { return KindNumber }

// String formats integral values without an exponent or fraction and
// everything else in the shortest form that round-trips.
func (n Number) String() string {
	f := float64(n)
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// maxExactInt is the largest magnitude below which every integer has an
// exact float64 representation.
const maxExactInt = 1 << 53

// Int represents an integer leaf too large in magnitude to be held
// exactly by a Number. The payload is canonical base-10: an optional
// leading '-' followed by digits without leading zeros.
type Int string

func (Int) scalar()          {}
func (Int) Kind() Kind       { return KindNumber }
func (i Int) String() string { return string(i) }

// MarshalJSON writes the digits as a JSON number.
func (i Int) MarshalJSON() ([]byte, error) {
	return []byte(i), nil
}

func (i Int) bigInt() *big.Int {
	b, ok := new(big.Int).SetString(string(i), 10)
	if !ok {
		return new(big.Int)
	}
	return b
}

// fromBig returns the exact leaf for b: a Number when b fits in ±2^53,
// an Int otherwise.
func fromBig(b *big.Int) Value {
	if b.IsInt64() {
		if n := b.Int64(); n >= -maxExactInt && n <= maxExactInt {
			return Number(float64(n))
		}
	}
	return Int(b.String())
}

func fromInt64(n int64) Value {
	if n >= -maxExactInt && n <= maxExactInt {
		return Number(float64(n))
	}
	return Int(strconv.FormatInt(n, 10))
}

func fromUint64(n uint64) Value {
	if n <= maxExactInt {
		return Number(float64(n))
	}
	return Int(strconv.FormatUint(n, 10))
}

// fromLiteral converts a JSON number literal. Integer literals are kept
// exact; anything with a fraction or exponent becomes a float64.
func fromLiteral(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return fromBig(b), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Number(f), nil
}

// numberEqualsInt compares a float64 leaf with an exact integer.
func numberEqualsInt(n Number, i Int) bool {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	whole, _ := new(big.Float).SetFloat64(f).Int(nil)
	return whole.Cmp(i.bigInt()) == 0
}

// Bool represents a boolean leaf.
type Bool bool

func (Bool) scalar()          {}
func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Equal reports whether a and b hold the same kind and payload.
// There is no cross-kind coercion: Number(1) never equals Bool(true) or String("1").
// Number and Int are both numbers and compare by exact numeric value.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		switch bv := b.(type) {
		case Number:
			return av == bv
		case Int:
			return numberEqualsInt(av, bv)
		}
		return false
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Number:
			return numberEqualsInt(bv, av)
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return false
	}
}

// FromAny converts a decoded Go scalar into a Value.
// Containers (maps, slices) and non-JSON types are rejected. Integers
// keep their exact value: those beyond ±2^53 become an Int.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return fromInt64(int64(val)), nil
	case int8:
		return Number(val), nil
	case int16:
		return Number(val), nil
	case int32:
		return Number(val), nil
	case int64:
		return fromInt64(val), nil
	case uint:
		return fromUint64(uint64(val)), nil
	case uint8:
		return Number(val), nil
	case uint16:
		return Number(val), nil
	case uint32:
		return Number(val), nil
	case uint64:
		return fromUint64(val), nil
	case *big.Int:
		if val == nil {
			return Null{}, nil
		}
		return fromBig(val), nil
	case json.Number:
		return fromLiteral(string(val))
	default:
		return nil, fmt.Errorf("unsupported leaf type: %T", v)
	}
}

// Round rounds n to precision decimal digits.
// Positive precision uses correctly-rounded decimal formatting, so
// Round(3.14159, 4) is exactly the float64 nearest 3.1416.
// Negative precision rounds to tens, hundreds, and so on (half to even).
func Round(n Number, precision int) Number {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return n
	}
	if precision < 0 {
		scale := math.Pow(10, float64(-precision))
		return Number(math.RoundToEven(f/scale) * scale)
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', precision, 64), 64)
	if err != nil {
		// FormatFloat output always parses
		return n
	}
	return Number(rounded)
}

// RoundNumeric rounds a Number or Int leaf to precision decimal digits.
// It reports false, leaving v untouched, when v is not numeric.
// An Int has no fractional digits, so only negative precision changes it.
func RoundNumeric(v Value, precision int) (Value, bool) {
	switch n := v.(type) {
	case Number:
		return Round(n, precision), true
	case Int:
		return roundInt(n, precision), true
	default:
		return v, false
	}
}

// roundInt rounds i to a multiple of 10^-precision, half to even.
func roundInt(i Int, precision int) Value {
	if precision >= 0 {
		return i
	}
	x := i.bigInt()
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-precision)), nil)
	q, r := new(big.Int).QuoRem(x, scale, new(big.Int))

	twice := new(big.Int).Lsh(new(big.Int).Abs(r), 1)
	if c := twice.Cmp(scale); c > 0 || (c == 0 && q.Bit(0) == 1) {
		if x.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return fromBig(q.Mul(q, scale))
}

// Interface converts v back to the plain Go scalar a JSON decoder would
// produce: nil, string, float64, json.Number (for an Int), or bool.
func Interface(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Number:
		return float64(val)
	case Int:
		return json.Number(val)
	case Bool:
		return bool(val)
	default:
		return nil
	}
}
