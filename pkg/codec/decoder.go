package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muninndb/muninn/pkg/packing"
)

const (
	// dateOffset turns the wire's raw day code into a YYYYMMDD integer.
	dateOffset = 19000000

	timeLayout      = "15:04:05"
	timestampLayout = "2006-01-02 15:04:05"
)

// DecodeInt reads a width-byte little-endian two's-complement integer.
// Width must be 1, 2, 4 or 8.
func DecodeInt(r *Reader, width int) (int64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("%w: %d-byte integer", ErrInvalidWidth, width)
	}
	b, err := r.next(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(packing.Int8(b)), nil
	case 2:
		return int64(packing.Int16(b)), nil
	case 4:
		return int64(packing.Int32(b)), nil
	default:
		return packing.Int64(b), nil
	}
}

// DecodeIntString reads an integer field and renders it as decimal text.
func DecodeIntString(r *Reader, width int) (string, error) {
	v, err := DecodeInt(r, width)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

// DecodeFloat reads an 8-byte IEEE-754 double.
func DecodeFloat(r *Reader) (float64, error) {
	b, err := r.next(packing.Float64Size)
	if err != nil {
		return 0, err
	}
	return packing.Float64(b), nil
}

// DecodeFloatString reads a float field and renders it as text.
func DecodeFloatString(r *Reader) (string, error) {
	v, err := DecodeFloat(r)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

// DecodeDecimalString reads a fixed-point decimal of the given byte width
// and renders its canonical string: sign, integer part, point, fractional
// part zero-padded to scale digits. Width selects the physical encoding
// and must be 1, 2, 4, 8 or 16.
func DecodeDecimalString(r *Reader, width, scale int) (string, error) {
	if err := checkScale(width, scale); err != nil {
		return "", err
	}
	switch width {
	case 1, 2, 4, 8:
		v, err := DecodeInt(r, width)
		if err != nil {
			return "", err
		}
		return formatFixed(v, scale), nil
	case 16:
		b, err := r.next(packing.Int128Size)
		if err != nil {
			return "", err
		}
		return formatBig(int128FromBytes(b), scale), nil
	default:
		return "", fmt.Errorf("%w: %d-byte decimal", ErrInvalidWidth, width)
	}
}

// DecodeDecimalFloat reads a decimal field as a float64. High-precision
// values lose digits; callers that cannot accept that use
// DecodeDecimalString or DecodeDecimalValue.
func DecodeDecimalFloat(r *Reader, width, scale int) (float64, error) {
	s, err := DecodeDecimalString(r, width, scale)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q as float: %v", ErrConversion, s, err)
	}
	return v, nil
}

// DecodeDecimalValue reads a decimal field as an arbitrary-precision
// decimal value.
func DecodeDecimalValue(r *Reader, width, scale int) (decimal.Decimal, error) {
	s, err := DecodeDecimalString(r, width, scale)
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q as decimal: %v", ErrConversion, s, err)
	}
	return v, nil
}

// DecodeDate reads a 4-byte day code as a calendar date.
func DecodeDate(r *Reader) (time.Time, error) {
	y, m, d, err := decodeDateParts(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
}

// DecodeDateString reads a 4-byte day code as a YYYY-MM-DD string, always
// exactly ten characters.
func DecodeDateString(r *Reader) (string, error) {
	y, m, d, err := decodeDateParts(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

func decodeDateParts(r *Reader) (year, month, day int, err error) {
	b, err := r.next(packing.Int32Size)
	if err != nil {
		return 0, 0, 0, err
	}
	code := int(packing.Int32(b)) + dateOffset
	return code / 10000, (code % 10000) / 100, code % 100, nil
}

// DecodeChar reads exactly length bytes of fixed-width text. Trailing
// blank padding is part of the value and is never trimmed.
func DecodeChar(r *Reader, length int) (string, error) {
	b, err := r.next(length)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeVarChar reads a 2-byte length prefix followed by that many bytes
// of text. Total consumption is 2 plus the prefix value.
func DecodeVarChar(r *Reader) (string, error) {
	b, err := r.next(packing.Uint16Size)
	if err != nil {
		return "", err
	}
	return DecodeChar(r, int(packing.Uint16(b)))
}

// DecodeTime reads a fixed-width time field. Conforming HH:MM:SS content
// becomes a time value (sub-second precision is always zero); anything
// else is returned as the raw field text. The fallback is a valid
// degraded result, not an error.
func DecodeTime(r *Reader, length int) (interface{}, error) {
	return decodeTemporal(r, length, timeLayout)
}

// DecodeTimestamp reads a fixed-width timestamp field with the same
// parse-or-raw-text behavior as DecodeTime.
func DecodeTimestamp(r *Reader, length int) (interface{}, error) {
	return decodeTemporal(r, length, timestampLayout)
}

func decodeTemporal(r *Reader, length int, layout string) (interface{}, error) {
	s, err := DecodeChar(r, length)
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(layout, strings.TrimRight(s, " ")); perr == nil {
		return t, nil
	}
	return s, nil
}
