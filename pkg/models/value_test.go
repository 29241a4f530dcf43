package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100"},
		{1.5, "1.5"},
		{-2.25, "-2.25"},
		{math.Copysign(0, -1), "0"},
		{a + b, "0.30000000000000004"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{123456789012345680000, "123456789012345680000"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{"12.5abc", 12.5, true},
		{"  -3", -3, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3x", 1000, true},
		{"1e", 1, true},
		{"+7", 7, true},
		{"$5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"1,234", 1, true},
	}
	for _, tt := range tests {
		got, ok := ParseLeadingFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseLeadingFloat(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "ParseLeadingFloat(%q)", tt.in)
	}

	inf, ok := ParseLeadingFloat("Infinity and beyond")
	assert.True(t, ok)
	assert.True(t, math.IsInf(inf, 1))
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, KindString, ValueOf("x").Kind())
	assert.Equal(t, KindNumber, ValueOf(json.Number("4.5")).Kind())
	assert.Equal(t, KindNumber, ValueOf(3).Kind())
	assert.Equal(t, KindBool, ValueOf(true).Kind())
	assert.Equal(t, KindUnsupported, ValueOf(nil).Kind())
	assert.Equal(t, KindUnsupported, ValueOf(map[string]any{}).Kind())
	assert.Equal(t, KindUnsupported, ValueOf([]any{1}).Kind())
	assert.True(t, Value{}.IsMissing())
}

func TestGroupKeyAndText(t *testing.T) {
	key, ok := Number(2023).GroupKey()
	assert.True(t, ok)
	assert.Equal(t, "2023", key)

	_, ok = Bool(true).GroupKey()
	assert.False(t, ok)

	falsy := []Value{String(""), Number(0), Number(math.NaN()), Bool(false), Unsupported(), {}}
	for _, v := range falsy {
		_, ok := v.Text()
		assert.False(t, ok, "%s value should be falsy", v.Kind())
	}

	text, ok := Bool(true).Text()
	assert.True(t, ok)
	assert.Equal(t, "true", text)
}
