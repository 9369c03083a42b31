package codec

import (
	"fmt"

	"github.com/muninndb/muninn/pkg/packing"
	"github.com/muninndb/muninn/pkg/schema"
)

// DecodeValue decodes one column at the cursor and returns its
// driver-facing representation: int64 for the integer families, float64
// for floats, canonical strings for decimals and dates, text for the
// character families and a time value (or raw text fallback) for time
// and timestamp columns.
func DecodeValue(col schema.Column, r *Reader) (interface{}, error) {
	switch col.Type {
	case schema.ByteInt, schema.SmallInt, schema.Integer, schema.BigInt:
		return DecodeInt(r, schema.FixedWidth(col.Type))
	case schema.Float:
		return DecodeFloat(r)
	case schema.Decimal:
		return DecodeDecimalString(r, col.Length, col.Scale)
	case schema.Date:
		return DecodeDateString(r)
	case schema.Char:
		return DecodeChar(r, col.Length)
	case schema.VarChar:
		return DecodeVarChar(r)
	case schema.Time:
		return DecodeTime(r, col.Length)
	case schema.Timestamp:
		return DecodeTimestamp(r, col.Length)
	default:
		return nil, fmt.Errorf("codec: unknown column type %q", col.Type)
	}
}

// DecodeRow decodes one complete row buffer against the schema. The row
// must be consumed exactly: leftover bytes mean the schema and the data
// disagree and every later row would be misaligned.
func DecodeRow(s *schema.Schema, buf []byte) ([]interface{}, error) {
	r := NewReader(buf)
	values := make([]interface{}, len(s.Columns))
	for i, col := range s.Columns {
		v, err := DecodeValue(col, r)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		values[i] = v
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d of %d bytes", ErrTrailingBytes, r.Remaining(), len(buf))
	}
	return values, nil
}

// EncodeValue encodes one native value for the column at the cursor.
func (e *Encoder) EncodeValue(w *Writer, col schema.Column, v interface{}) error {
	switch col.Type {
	case schema.ByteInt, schema.SmallInt, schema.Integer, schema.BigInt:
		return e.EncodeInt(w, schema.FixedWidth(col.Type), v)
	case schema.Float:
		return e.EncodeFloat(w, v)
	case schema.Decimal:
		return e.EncodeDecimal(w, col.Length, col.Scale, v)
	case schema.Date:
		return e.EncodeDate(w, v)
	case schema.Char:
		return e.EncodeChar(w, col.Length, v)
	case schema.VarChar:
		return e.EncodeVarChar(w, v)
	case schema.Time:
		return e.EncodeTime(w, col.Length, v)
	case schema.Timestamp:
		return e.EncodeTimestamp(w, col.Length, v)
	default:
		return fmt.Errorf("codec: unknown column type %q", col.Type)
	}
}

// EncodeRow encodes one row of native values against the schema and
// returns the row buffer.
func (e *Encoder) EncodeRow(s *schema.Schema, values []interface{}) ([]byte, error) {
	if len(values) != len(s.Columns) {
		return nil, fmt.Errorf("codec: row has %d values, schema %q has %d columns",
			len(values), s.Table, len(s.Columns))
	}
	size := 0
	for i, col := range s.Columns {
		size += encodedWidth(col, values[i])
	}
	w := NewWriter(make([]byte, size))
	for i, col := range s.Columns {
		if err := e.EncodeValue(w, col, values[i]); err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
	}
	return w.Bytes(), nil
}

// encodedWidth returns the byte count col will occupy when holding v.
// Only varchar widths depend on the value.
func encodedWidth(col schema.Column, v interface{}) int {
	switch col.Type {
	case schema.ByteInt, schema.SmallInt, schema.Integer, schema.BigInt:
		return schema.FixedWidth(col.Type)
	case schema.Float:
		return packing.Float64Size
	case schema.Decimal:
		return col.Length
	case schema.Date:
		return packing.Int32Size
	case schema.Char, schema.Time, schema.Timestamp:
		return col.Length
	case schema.VarChar:
		if s, ok := v.(string); ok {
			return packing.Uint16Size + len(s)
		}
		return packing.Uint16Size
	default:
		return 0
	}
}
