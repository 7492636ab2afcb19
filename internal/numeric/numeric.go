// Package numeric normalizes the heterogeneous numeric encodings coming back
// from chain reads (big integers, decimal strings, JSON numbers) into a single
// canonical *big.Int, plus the display-unit conversions built on top of it.
package numeric

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// WeiPerUnit is the scale between the smallest currency unit and the display
// unit (18 decimals, matching the contract's native token).
var WeiPerUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ParseBigInt converts a numeric-like value into a big integer. Absent values
// (nil, empty string) normalize to zero. Unparseable input returns an error so
// each call site can decide whether zero-on-failure is acceptable.
func ParseBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case nil:
		return new(big.Int), nil
	case *big.Int:
		if x == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case string:
		return parseBigIntString(x)
	case []byte:
		return parseBigIntString(string(x))
	case json.Number:
		return parseBigIntString(x.String())
	case int:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("numeric: cannot convert %v to big integer", x)
		}
		bi, _ := new(big.Float).SetFloat64(x).Int(nil)
		return bi, nil
	case fmt.Stringer:
		return parseBigIntString(x.String())
	default:
		return nil, fmt.Errorf("numeric: unsupported type %T", v)
	}
}

func parseBigIntString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	base := 10
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		base = 16
		body = body[2:]
	}
	bi, ok := new(big.Int).SetString(body, base)
	if !ok {
		return nil, fmt.Errorf("numeric: cannot parse %q as big integer", s)
	}
	if neg {
		bi.Neg(bi)
	}
	return bi, nil
}

// ToBigInt is the zero-coercing variant of ParseBigInt: it never fails, and
// any unparseable input resolves to zero.
func ToBigInt(v any) *big.Int {
	bi, err := ParseBigInt(v)
	if err != nil {
		return new(big.Int)
	}
	return bi
}

// ToInt64 produces a plain (possibly lossy) integer from the same input
// family, for display-only contexts such as counts and timestamps.
func ToInt64(v any) int64 {
	bi, err := ParseBigInt(v)
	if err != nil || !bi.IsInt64() {
		return 0
	}
	return bi.Int64()
}

// FromWei converts a smallest-unit amount into display units as a float.
// Precision loss beyond float64 is acceptable here; exact rendering should use
// FormatWei.
func FromWei(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), new(big.Float).SetInt(WeiPerUnit)).Float64()
	return f
}

// FormatWei renders a smallest-unit amount as an exact decimal string in
// display units, trimming trailing zeros ("1500000000000000000" -> "1.5").
func FormatWei(v *big.Int) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	quo, rem := new(big.Int).QuoRem(abs, WeiPerUnit, new(big.Int))
	out := quo.String()
	if rem.Sign() != 0 {
		frac := strings.TrimRight(fmt.Sprintf("%018s", rem.String()), "0")
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ToWei parses a display-unit decimal string ("1.5") into the smallest unit.
func ToWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("numeric: empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 18 {
		return nil, fmt.Errorf("numeric: too many decimals in %q", s)
	}
	frac += strings.Repeat("0", 18-len(frac))
	wi, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("numeric: cannot parse %q as amount", s)
	}
	fi, ok := new(big.Int).SetString(frac, 10)
	if !ok {
		return nil, fmt.Errorf("numeric: cannot parse %q as amount", s)
	}
	out := new(big.Int).Add(new(big.Int).Mul(wi, WeiPerUnit), fi)
	if neg {
		out.Neg(out)
	}
	return out, nil
}

// ShortAddress elides an account identifier for display ("0x1234...abcd").
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatCount renders large counts compactly (1200 -> "1.2K").
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}
