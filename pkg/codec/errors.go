package codec

import "errors"

var (
	// ErrShortBuffer means fewer bytes remain in the row buffer than the
	// column descriptor requires. Structural; fatal for the row.
	ErrShortBuffer = errors.New("codec: row buffer too short")

	// ErrShortWrite means the output buffer cannot hold the column's
	// encoding. Structural; fatal for the row.
	ErrShortWrite = errors.New("codec: output buffer too small")

	// ErrTrailingBytes means bytes remained after the last column of a
	// row was decoded, so the schema and the data disagree.
	ErrTrailingBytes = errors.New("codec: trailing bytes after last column")

	// ErrInvalidWidth means a descriptor carries a byte width outside the
	// closed set the type family supports.
	ErrInvalidWidth = errors.New("codec: invalid field width")

	// ErrInvalidScale means a descriptor carries a decimal scale outside
	// the range its physical width can represent.
	ErrInvalidScale = errors.New("codec: invalid decimal scale")

	// ErrTypeMismatch means the encoder was handed a value whose native
	// type does not match the column's type family. Nothing is written.
	ErrTypeMismatch = errors.New("codec: value type does not match column type")

	// ErrMalformedDecimal means decimal text given to the encoder had a
	// second decimal point or non-digit characters.
	ErrMalformedDecimal = errors.New("codec: malformed decimal text")

	// ErrMalformedDate means date text given to the encoder was not in
	// YYYY-MM-DD form.
	ErrMalformedDate = errors.New("codec: malformed date text")

	// ErrValueRange means a value does not fit the column's physical
	// width. Only reported by strict (non-lenient) encoders.
	ErrValueRange = errors.New("codec: value out of range for column width")

	// ErrConversion means a derived representation (float or decimal
	// object) could not be produced from an otherwise valid column.
	// Scoped to the single value, not the row.
	ErrConversion = errors.New("codec: value conversion failed")
)
