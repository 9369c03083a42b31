package codec

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/muninndb/muninn/pkg/packing"
)

// pow10 covers every scale an 8-byte decimal can carry.
var pow10 = [19]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
	1000000000, 10000000000, 100000000000, 1000000000000, 10000000000000,
	100000000000000, 1000000000000000, 10000000000000000, 100000000000000000,
	1000000000000000000,
}

// maxDecimalScale is the digit capacity of the widest (16-byte) decimal.
const maxDecimalScale = 38

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// formatFixed renders a fixed-point value held in an int64 as its canonical
// decimal string. The sign comes from the raw value, never from the divided
// parts, so -5 at scale 2 renders as "-0.05".
func formatFixed(v int64, scale int) string {
	if scale <= 0 {
		return strconv.FormatInt(v, 10)
	}
	a := uint64(v)
	if v < 0 {
		a = ^a + 1
	}
	p := pow10[scale]
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%0*d", sign, a/p, scale, a%p)
}

// formatBig renders an arbitrary-precision fixed-point value as its
// canonical decimal string.
func formatBig(v *big.Int, scale int) string {
	if scale <= 0 {
		return v.String()
	}
	a := new(big.Int).Abs(v)
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	y := new(big.Int)
	x, _ := a.QuoRem(a, p, y)
	frac := y.String()
	if len(frac) < scale {
		frac = strings.Repeat("0", scale-len(frac)) + frac
	}
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
	}
	return sign + x.String() + "." + frac
}

// int128FromBytes reconstructs a signed 128-bit value from its wire
// encoding: unsigned low word first, then the signed high word. The sign
// comes from the combined value, so it is correct even when the magnitude
// spans both words.
func int128FromBytes(b []byte) *big.Int {
	low := packing.Uint64(b[:8])
	high := packing.Int64(b[8:])
	v := big.NewInt(high)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(low))
}

// putInt128 writes the two's-complement encoding of v into the 16-byte
// slice b. Values outside the 128-bit range wrap, which is exactly the
// truncation the lenient encode mode wants; strict mode range-checks
// before calling.
func putInt128(b []byte, v *big.Int) {
	u := new(big.Int).Mod(v, two128)
	raw := u.Bytes()
	for i := range b {
		b[i] = 0
	}
	for i := 0; i < len(raw) && i < len(b); i++ {
		b[i] = raw[len(raw)-1-i]
	}
}

// checkScale rejects descriptor scales the physical width cannot carry,
// before any bytes move.
func checkScale(width, scale int) error {
	limit := maxDecimalScale
	if width != 16 {
		limit = len(pow10) - 1
	}
	if scale < 0 || scale > limit {
		return fmt.Errorf("%w: scale %d on a %d-byte decimal", ErrInvalidScale, scale, width)
	}
	return nil
}

// intBounds returns the representable range for a 1, 2, 4 or 8-byte signed
// integer field.
func intBounds(width int) (int64, int64, error) {
	switch width {
	case 1:
		return math.MinInt8, math.MaxInt8, nil
	case 2:
		return math.MinInt16, math.MaxInt16, nil
	case 4:
		return math.MinInt32, math.MaxInt32, nil
	case 8:
		return math.MinInt64, math.MaxInt64, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d-byte integer", ErrInvalidWidth, width)
	}
}

// decimalUnscaled parses decimal text of the form [-]digits[.digits] and
// returns the unscaled integer: the integer part joined with the
// fractional part right-padded with zeros to exactly scale digits. More
// than one decimal point or any non-digit character is malformed; more
// fractional digits than the scale can hold do not fit the column.
func decimalUnscaled(s string, scale int) (*big.Int, error) {
	text := s
	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}
	if strings.Count(text, ".") > 1 {
		return nil, fmt.Errorf("%w: %q has more than one decimal point", ErrMalformedDecimal, s)
	}
	intPart, frac, _ := strings.Cut(text, ".")
	if intPart == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q has no digits", ErrMalformedDecimal, s)
	}
	if !digitsOnly(intPart) || !digitsOnly(frac) {
		return nil, fmt.Errorf("%w: %q contains non-digit characters", ErrMalformedDecimal, s)
	}
	if len(frac) > scale {
		return nil, fmt.Errorf("%w: %q has %d fractional digits, scale is %d",
			ErrValueRange, s, len(frac), scale)
	}
	digits := intPart + frac + strings.Repeat("0", scale-len(frac))
	if digits == "" {
		digits = "0"
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
