package codec

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muninndb/muninn/pkg/packing"
)

// maxVarCharLen is the largest payload a 2-byte length prefix can frame.
const maxVarCharLen = math.MaxUint16

// Encoder writes native values into the wire layout. The zero value is
// the strict encoder: integer, decimal and CHAR values that do not fit
// their column's physical width are rejected with ErrValueRange before
// any bytes are written. Lenient restores the legacy loader's silent
// truncation for callers that need bit-for-bit parity with it.
//
// Encoders hold no per-row state; one Encoder may serve concurrent rows
// as long as each row owns its Writer.
type Encoder struct {
	Lenient bool
}

// EncodeInt writes a width-byte little-endian two's-complement integer.
// The value must have a native integer type; floats are rejected even
// when they hold an integral value.
func (e *Encoder) EncodeInt(w *Writer, width int, v interface{}) error {
	n, overflow, ok := nativeInt(v)
	if !ok {
		return fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
	}
	lo, hi, err := intBounds(width)
	if err != nil {
		return err
	}
	if !e.Lenient && (overflow || n < lo || n > hi) {
		return fmt.Errorf("%w: %v does not fit a %d-byte integer", ErrValueRange, v, width)
	}
	b, err := w.next(width)
	if err != nil {
		return err
	}
	switch width {
	case 1:
		packing.PutInt8(b, int8(n))
	case 2:
		packing.PutInt16(b, int16(n))
	case 4:
		packing.PutInt32(b, int32(n))
	default:
		packing.PutInt64(b, n)
	}
	return nil
}

// EncodeFloat writes an 8-byte IEEE-754 double. The value must have a
// native float type.
func (e *Encoder) EncodeFloat(w *Writer, v interface{}) error {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return fmt.Errorf("%w: %T is not a float", ErrTypeMismatch, v)
	}
	b, err := w.next(packing.Float64Size)
	if err != nil {
		return err
	}
	packing.PutFloat64(b, f)
	return nil
}

// EncodeChar writes text into a fixed-width field, right-padded with
// ASCII spaces. The field advances by exactly length bytes regardless of
// the input length. Over-long input is rejected unless the encoder is
// lenient, in which case it is truncated like the legacy loader does.
func (e *Encoder) EncodeChar(w *Writer, length int, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %T is not text", ErrTypeMismatch, v)
	}
	if len(s) > length {
		if !e.Lenient {
			return fmt.Errorf("%w: %d bytes of text in a %d-byte field", ErrValueRange, len(s), length)
		}
		s = s[:length]
	}
	b, err := w.next(length)
	if err != nil {
		return err
	}
	n := copy(b, s)
	for i := n; i < length; i++ {
		b[i] = 0x20
	}
	return nil
}

// EncodeVarChar writes a 2-byte length prefix followed by the text bytes.
// Text longer than the prefix can frame never fits, in either mode.
func (e *Encoder) EncodeVarChar(w *Writer, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %T is not text", ErrTypeMismatch, v)
	}
	if len(s) > maxVarCharLen {
		return fmt.Errorf("%w: %d bytes of text in a varchar field", ErrValueRange, len(s))
	}
	b, err := w.next(packing.Uint16Size + len(s))
	if err != nil {
		return err
	}
	packing.PutUint16(b, uint16(len(s)))
	copy(b[packing.Uint16Size:], s)
	return nil
}

// EncodeDate writes a calendar date as the 4-byte day code. Text input
// must be in YYYY-MM-DD form; a time.Time is accepted directly.
func (e *Encoder) EncodeDate(w *Writer, v interface{}) error {
	var code int
	switch x := v.(type) {
	case time.Time:
		code = x.Year()*10000 + int(x.Month())*100 + x.Day()
	case string:
		digits := stripHyphens(x)
		if len(digits) != 8 || !digitsOnly(digits) {
			return fmt.Errorf("%w: %q", ErrMalformedDate, x)
		}
		for i := 0; i < len(digits); i++ {
			code = code*10 + int(digits[i]-'0')
		}
	default:
		return fmt.Errorf("%w: %T is not a date", ErrTypeMismatch, v)
	}
	b, err := w.next(packing.Int32Size)
	if err != nil {
		return err
	}
	packing.PutInt32(b, int32(code-dateOffset))
	return nil
}

// EncodeDecimal writes fixed-point decimal text into a field of the given
// byte width and scale. The text's fractional part is right-padded with
// zeros to exactly scale digits, the joined digit string becomes the
// unscaled integer, and that integer is narrowed to the field width.
func (e *Encoder) EncodeDecimal(w *Writer, width, scale int, v interface{}) error {
	if err := checkScale(width, scale); err != nil {
		return err
	}
	var text string
	switch x := v.(type) {
	case string:
		text = x
	case decimal.Decimal:
		text = x.StringFixed(int32(scale))
	default:
		return fmt.Errorf("%w: %T is not decimal text", ErrTypeMismatch, v)
	}
	unscaled, err := decimalUnscaled(text, scale)
	if err != nil {
		return err
	}
	switch width {
	case 1, 2, 4, 8:
		lo, hi, _ := intBounds(width)
		if !e.Lenient && (unscaled.Cmp(big.NewInt(lo)) < 0 || unscaled.Cmp(big.NewInt(hi)) > 0) {
			return fmt.Errorf("%w: %s does not fit a %d-byte decimal", ErrValueRange, text, width)
		}
		b, err := w.next(width)
		if err != nil {
			return err
		}
		n := new(big.Int).Mod(unscaled, new(big.Int).Lsh(big.NewInt(1), 64)).Uint64()
		switch width {
		case 1:
			packing.PutInt8(b, int8(n))
		case 2:
			packing.PutInt16(b, int16(n))
		case 4:
			packing.PutInt32(b, int32(n))
		default:
			packing.PutInt64(b, int64(n))
		}
		return nil
	case 16:
		if !e.Lenient && (unscaled.Cmp(minInt128) < 0 || unscaled.Cmp(maxInt128) > 0) {
			return fmt.Errorf("%w: %s does not fit a 16-byte decimal", ErrValueRange, text)
		}
		b, err := w.next(packing.Int128Size)
		if err != nil {
			return err
		}
		putInt128(b, unscaled)
		return nil
	default:
		return fmt.Errorf("%w: %d-byte decimal", ErrInvalidWidth, width)
	}
}

// EncodeTime writes a time value into a fixed-width text field.
func (e *Encoder) EncodeTime(w *Writer, length int, v interface{}) error {
	return e.encodeTemporal(w, length, timeLayout, v)
}

// EncodeTimestamp writes a timestamp value into a fixed-width text field.
func (e *Encoder) EncodeTimestamp(w *Writer, length int, v interface{}) error {
	return e.encodeTemporal(w, length, timestampLayout, v)
}

func (e *Encoder) encodeTemporal(w *Writer, length int, layout string, v interface{}) error {
	if t, ok := v.(time.Time); ok {
		return e.EncodeChar(w, length, t.Format(layout))
	}
	return e.EncodeChar(w, length, v)
}

// nativeInt extracts an int64 from any native integer type. overflow is
// set when an unsigned value exceeds the int64 range; the returned value
// is then the wrapped two's-complement equivalent the lenient mode wants.
func nativeInt(v interface{}) (n int64, overflow, ok bool) {
	switch x := v.(type) {
	case int:
		return int64(x), false, true
	case int8:
		return int64(x), false, true
	case int16:
		return int64(x), false, true
	case int32:
		return int64(x), false, true
	case int64:
		return x, false, true
	case uint:
		return int64(x), uint64(x) > math.MaxInt64, true
	case uint8:
		return int64(x), false, true
	case uint16:
		return int64(x), false, true
	case uint32:
		return int64(x), false, true
	case uint64:
		return int64(x), x > math.MaxInt64, true
	default:
		return 0, false, false
	}
}

func stripHyphens(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
