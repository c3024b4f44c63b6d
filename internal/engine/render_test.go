package engine

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"null", nil, "NULL"},
		{"empty string", "", "(empty)"},
		{"empty bytes", []byte{}, "(empty)"},
		{"string", "abc", "abc"},
		{"bytes", []byte("xyz"), "xyz"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int64", int64(-42), "-42"},
		{"int32", int32(7), "7"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float", 3.5, "3.5"},
		{"float whole", float64(2), "2"},
		{"float32", float32(0.1), "0.1"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "Infinity"},
		{"big int", big.NewInt(12345), "12345"},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05"},
		{"time fraction", time.Date(2024, 1, 2, 3, 4, 5, 120000000, time.UTC), "2024-01-02T03:04:05.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.value))
		})
	}
}

func TestTypeOfName(t *testing.T) {
	tests := map[string]ColumnType{
		"INTEGER":      TypeInteger,
		"bigint":       TypeInteger,
		"DOUBLE":       TypeReal,
		"DECIMAL(9,2)": TypeReal,
		"VARCHAR":      TypeText,
		"TEXT":         TypeText,
		"BOOLEAN":      TypeBool,
		"TIMESTAMP":    TypeDateTime,
		"":             TypeAny,
		"GEOMETRY":     TypeAny,
	}
	for name, expected := range tests {
		assert.Equal(t, expected, TypeOfName(name), "TypeOfName(%q)", name)
	}
}

func TestOutput_TypeString(t *testing.T) {
	out := &Output{Types: []ColumnType{TypeInteger, TypeText, TypeReal}}
	assert.Equal(t, "ITR", out.TypeString())
}
