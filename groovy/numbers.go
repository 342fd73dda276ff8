package groovy

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
)

// parseInteger types an integer literal. Without a suffix the value is the
// smallest of int32, int64 and *big.Int that holds it. text may carry a
// leading minus folded in from a unary operator.
func parseInteger(text string) (any, error) {
	neg := strings.HasPrefix(text, "-")
	digits := strings.ReplaceAll(strings.TrimPrefix(text, "-"), "_", "")

	suffix := byte(0)
	if n := len(digits); n > 0 {
		switch c := digits[n-1] | 0x20; c {
		case 'i', 'l', 'g':
			suffix = c
			digits = digits[:n-1]
		case 'f', 'd':
			if !isHexLiteral(digits) {
				return parseDecimal(text)
			}
		}
	}

	radix := 10
	switch {
	case isHexLiteral(digits):
		radix, digits = 16, digits[2:]
	case len(digits) > 2 && (digits[1] == 'b' || digits[1] == 'B') && digits[0] == '0':
		radix, digits = 2, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		radix, digits = 8, digits[1:]
	}

	v, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", text)
	}
	if neg {
		v.Neg(v)
	}

	switch suffix {
	case 'i':
		if !fitsInt32(v) {
			return nil, fmt.Errorf("integer literal %s is out of range for int", text)
		}
		return int32(v.Int64()), nil
	case 'l':
		if !v.IsInt64() {
			return nil, fmt.Errorf("integer literal %s is out of range for long", text)
		}
		return v.Int64(), nil
	case 'g':
		return v, nil
	}
	switch {
	case fitsInt32(v):
		return int32(v.Int64()), nil
	case v.IsInt64():
		return v.Int64(), nil
	}
	return v, nil
}

func isHexLiteral(s string) bool {
	return len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func fitsInt32(v *big.Int) bool {
	return v.IsInt64() && v.Int64() >= math.MinInt32 && v.Int64() <= math.MaxInt32
}

// parseDecimal types a floating point literal: float32 for an f suffix,
// float64 for d, and an arbitrary precision ast.Decimal otherwise.
func parseDecimal(text string) (any, error) {
	s := strings.ReplaceAll(text, "_", "")
	suffix := byte(0)
	if n := len(s); n > 0 {
		switch c := s[n-1] | 0x20; c {
		case 'f', 'd', 'g':
			suffix = c
			s = s[:n-1]
		}
	}

	switch suffix {
	case 'f':
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q", text)
		}
		return float32(f), nil
	case 'd':
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double literal %q", text)
		}
		return f, nil
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid decimal literal %q", text)
	}
	return ast.Decimal{Rat: r, Scale: decimalScale(s)}, nil
}

// decimalScale returns the number of digits after the decimal point as
// written, adjusted by the exponent.
func decimalScale(s string) int {
	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		exp, _ = strconv.Atoi(strings.TrimPrefix(s[i+1:], "+"))
	}
	scale := 0
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		scale = len(mantissa) - i - 1
	}
	return scale - exp
}
