package pathquery

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// EqualFunc compares a child produced by the walk with the reverse-mode target.
type EqualFunc func(a, b any) bool

type kind uint8

const (
	kindNull kind = iota
	kindBool
	kindNumber
	kindString
	kindObject
	kindArray
	kindOther
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case string:
		return kindString
	case map[string]any:
		return kindObject
	case []any:
		return kindArray
	}
	if _, ok := toNumber(v); ok {
		return kindNumber
	}
	return kindOther
}

// StrictEqual requires both values to have the same JSON kind. Numbers compare by value
// whatever their Go representation, and mappings and sequences compare element by element.
func StrictEqual(a, b any) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case kindNull:
		return true
	case kindBool:
		return a.(bool) == b.(bool)
	case kindString:
		return a.(string) == b.(string)
	case kindNumber:
		return numbersEqual(a, b)
	case kindObject:
		ma, mb := a.(map[string]any), b.(map[string]any)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !StrictEqual(va, vb) {
				return false
			}
		}
		return true
	case kindArray:
		sa, sb := a.([]any), b.([]any)
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !StrictEqual(sa[i], sb[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// LooseEqual extends StrictEqual with coercion between scalars: numeric strings equal
// the number they spell and booleans equal 1 and 0. null only equals null, and a
// mapping or sequence never equals a scalar.
func LooseEqual(a, b any) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka == kb {
		return StrictEqual(a, b)
	}
	if ka == kindNull || kb == kindNull {
		return false
	}

	if ka == kindBool {
		return LooseEqual(boolNumber(a.(bool)), b)
	}
	if kb == kindBool {
		return LooseEqual(a, boolNumber(b.(bool)))
	}

	switch {
	case ka == kindNumber && kb == kindString:
		x, _ := toNumber(a)
		y, ok := stringNumber(b.(string))
		return ok && x == y
	case ka == kindString && kb == kindNumber:
		x, ok := stringNumber(a.(string))
		y, _ := toNumber(b)
		return ok && x == y
	}

	return false
}

// numbersEqual compares json.Number and integer values exactly, so distinct integers
// beyond float64 precision stay distinct. Floats fall back to float64 comparison.
func numbersEqual(a, b any) bool {
	if x, ok := exactNumber(a); ok {
		if y, ok := exactNumber(b); ok {
			return x.Cmp(y) == 0
		}
	}

	x, _ := toNumber(a)
	y, _ := toNumber(b)
	return x == y
}

func exactNumber(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(x.String())
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int8:
		return new(big.Rat).SetInt64(int64(x)), true
	case int16:
		return new(big.Rat).SetInt64(int64(x)), true
	case int32:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case uint:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Rat).SetUint64(x), true
	}
	return nil, false
}

func boolNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func stringNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
