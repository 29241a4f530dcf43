package models

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a field value read from a transaction record.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindBool
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindUnsupported:
		return "unsupported"
	default:
		return "missing"
	}
}

// Value is a classified field value. The zero Value is missing.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func String(s string) Value     { return Value{kind: KindString, str: s} }
func Number(f float64) Value    { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Unsupported() Value        { return Value{kind: KindUnsupported} }
func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// ValueOf classifies a decoded JSON or YAML value. null, objects and arrays
// are unsupported.
func ValueOf(raw any) Value {
	switch x := raw.(type) {
	case Value:
		return x
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case bool:
		return Bool(x)
	default:
		return Unsupported()
	}
}

// GroupKey returns the key a value is bucketed under. Only strings and
// numbers can key a group.
func (v Value) GroupKey() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return FormatNumber(v.num), true
	default:
		return "", false
	}
}

// Text returns the string form used by substring filters. Empty strings,
// zero, NaN, false and absent values report false.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, v.str != ""
	case KindNumber:
		return FormatNumber(v.num), v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return strconv.FormatBool(v.b), v.b
	default:
		return "", false
	}
}

// Float coerces the value to a number. Strings are parsed by their leading
// numeric prefix, so "12.5 USD" yields 12.5 and "$5" fails.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		return ParseLeadingFloat(v.str)
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// FormatNumber renders f in its shortest round-trip decimal form, switching
// to exponent notation outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)

// ParseLeadingFloat parses the longest numeric prefix of s after leading
// whitespace. Infinity is accepted; callers decide whether to keep it.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff")
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}
	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out-of-range exponents still parse to ±Inf or 0 with a range error.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}
