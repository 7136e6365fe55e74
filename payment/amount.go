package payment

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

// maxWireAmount is the largest integer a JSON consumer can represent exactly
// (2^53 - 1). Amounts are stored as int64 and asserted against this bound at
// the serialization boundary.
const maxWireAmount = int64(1)<<53 - 1

var numericString = regexp.MustCompile(`^\d+(\.\d+)?$`)

// NormalizeAmount converts a heterogeneous numeric representation into a
// canonical whole currency value. Fractional, negative and non-finite inputs
// fail with ErrInvalidAmount; no silent truncation happens here.
func NormalizeAmount(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		if x < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrInvalidAmount, x)
		}
		return int64(x), nil
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrInvalidAmount, x)
		}
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: non-finite value", ErrInvalidAmount)
		}
		if x < 0 {
			return 0, fmt.Errorf("%w: negative value %v", ErrInvalidAmount, x)
		}
		if x != math.Trunc(x) || x > float64(maxWireAmount) {
			return 0, fmt.Errorf("%w: %v is not a whole currency amount", ErrInvalidAmount, x)
		}
		return int64(x), nil
	case decimal.Decimal:
		return normalizeDecimal(x)
	case json.Number:
		return normalizeString(x.String())
	case string:
		return normalizeString(x)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

// TruncateAmount behaves like NormalizeAmount but truncates fractional input
// toward zero instead of rejecting it. Only admin-entered plan amounts go
// through this path, where the source schema guarantees integral currency.
func TruncateAmount(v any) (int64, error) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: non-finite value", ErrInvalidAmount)
		}
		if x < 0 {
			return 0, fmt.Errorf("%w: negative value %v", ErrInvalidAmount, x)
		}
		return NormalizeAmount(math.Trunc(x))
	case decimal.Decimal:
		return normalizeDecimal(x.Truncate(0))
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil || !numericString.MatchString(x) {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, x)
		}
		return normalizeDecimal(d.Truncate(0))
	default:
		return NormalizeAmount(v)
	}
}

// SafeWireAmount asserts n can cross a JSON boundary without precision loss.
func SafeWireAmount(n int64) (int64, error) {
	if n < 0 || n > maxWireAmount {
		return 0, fmt.Errorf("%w: %d outside the wire-safe integer range", ErrInvalidAmount, n)
	}
	return n, nil
}

func normalizeDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative value %s", ErrInvalidAmount, d)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not a whole currency amount", ErrInvalidAmount, d)
	}
	bi := d.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("%w: %s overflows int64", ErrInvalidAmount, d)
	}
	return bi.Int64(), nil
}

func normalizeString(s string) (int64, error) {
	if !numericString.MatchString(s) {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, s)
	}
	return normalizeDecimal(d)
}
