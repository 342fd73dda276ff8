package groovy

import (
	"math/big"
	"testing"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigInt(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		text string
		want any
	}{
		{"0", int32(0)},
		{"42", int32(42)},
		{"-2147483648", int32(-2147483648)},
		{"2147483648", int64(2147483648)},
		{"9223372036854775807", int64(9223372036854775807)},
		{"9223372036854775808", bigInt("9223372036854775808")},
		{"1_000_000", int32(1000000)},
		{"0x1F", int32(31)},
		{"0XfF", int32(255)},
		{"0b101", int32(5)},
		{"017", int32(15)},
		{"10i", int32(10)},
		{"10L", int64(10)},
		{"10g", bigInt("10")},
		{"0xFFl", int64(255)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseInteger(tt.text)
			require.NoError(t, err)
			if want, ok := tt.want.(*big.Int); ok {
				require.IsType(t, want, got)
				assert.Zero(t, want.Cmp(got.(*big.Int)), "got %v", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntegerErrors(t *testing.T) {
	for _, text := range []string{"3000000000i", "99999999999999999999L", "09", "0b2"} {
		_, err := parseInteger(text)
		assert.Error(t, err, text)
	}
}

func TestParseIntegerFloatSuffix(t *testing.T) {
	got, err := parseInteger("1f")
	require.NoError(t, err)
	assert.Equal(t, float32(1), got)

	got, err = parseInteger("2D")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		text  string
		want  string
		scale int
	}{
		{"1.5", "1.5", 1},
		{"1.50", "1.50", 2},
		{"1_000.25", "1000.25", 2},
		{"1.5e3", "1500", -2},
		{"2.5E-2", "0.025", 3},
		{"1.5g", "1.5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseDecimal(tt.text)
			require.NoError(t, err)
			d, ok := got.(ast.Decimal)
			require.True(t, ok, "got %T", got)
			assert.Equal(t, tt.scale, d.Scale)
			assert.Equal(t, tt.want, d.String())
		})
	}

	f, err := parseDecimal("1.25f")
	require.NoError(t, err)
	assert.Equal(t, float32(1.25), f)

	g, err := parseDecimal("1.25d")
	require.NoError(t, err)
	assert.Equal(t, 1.25, g)

	_, err = parseDecimal("1.2.3")
	assert.Error(t, err)
}
