package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// kind ranks scalar values so that mixed-type columns still sort in a total order:
// nil < bool < number < string < anything else.
type kind int

const (
	kindNil kind = iota
	kindBool
	kindNumber
	kindString
	kindOther
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindNil
	case bool:
		return kindBool
	case string:
		return kindString
	}
	if _, ok := numberOf(v); ok {
		return kindNumber
	}
	return kindOther
}

// numberOf returns v as float64 when v is one of Go's numeric types.
// Strings are not coerced here; see ToNumber.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	}
	return 0, false
}

// Compare orders two scalar values, returning -1, 0, or 1.
//
// Values of the same kind use their natural order (numbers numerically,
// strings lexicographically, false before true). NaN sorts before every other
// number. Values of different kinds order by kind rank. Compare performs no
// null handling beyond this: nil equals nil and sorts first.
func Compare(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmpInt(int(ka), int(kb))
	}

	switch ka {
	case kindNil:
		return 0
	case kindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case kindNumber:
		af, _ := numberOf(a)
		bf, _ := numberOf(b)
		return cmpFloat(af, bf)
	case kindString:
		return strings.Compare(a.(string), b.(string))
	default:
		return strings.Compare(Stringify(a), Stringify(b))
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Stringify renders a value the way it is searched and exported.
// Integral numbers print without a fraction; nil prints as "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	if f, ok := numberOf(v); ok {
		return formatFloat(f)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToNumber coerces a value to a number. Anything that does not parse as a
// number, including nil and blank strings, becomes NaN.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	if f, ok := numberOf(v); ok {
		return f
	}
	return math.NaN()
}

// Matches evaluates one filter predicate against a cell value.
//
// String operators compare lower-cased string forms. Numeric operators coerce
// both operands with ToNumber, so any NaN operand fails the predicate. Equals
// is strict: operands must be the same kind and equal without coercion, with
// all Go numeric types treated as one kind. Unknown operators match.
func Matches(value any, op Operator, filterValue any) bool {
	switch op {
	case OpContains:
		return strings.Contains(lower(value), lower(filterValue))
	case OpStartsWith:
		return strings.HasPrefix(lower(value), lower(filterValue))
	case OpEndsWith:
		return strings.HasSuffix(lower(value), lower(filterValue))
	case OpEquals:
		return strictEqual(value, filterValue)
	case OpGreater:
		return ToNumber(value) > ToNumber(filterValue)
	case OpLess:
		return ToNumber(value) < ToNumber(filterValue)
	case OpGreaterEq:
		return ToNumber(value) >= ToNumber(filterValue)
	case OpLessEq:
		return ToNumber(value) <= ToNumber(filterValue)
	default:
		return true
	}
}

func lower(v any) string {
	return strings.ToLower(Stringify(v))
}

func strictEqual(a, b any) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case kindNil:
		return true
	case kindNumber:
		af, _ := numberOf(a)
		bf, _ := numberOf(b)
		return af == bf
	case kindBool:
		return a.(bool) == b.(bool)
	case kindString:
		return a.(string) == b.(string)
	default:
		return Stringify(a) == Stringify(b)
	}
}
