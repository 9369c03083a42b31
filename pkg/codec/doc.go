// Package codec implements the binary row codec for the legacy warehouse
// bulk wire format: it decodes fixed-width, type-tagged columnar row data
// into native Go values and encodes native values back into the same byte
// layout for bulk loads.
//
// # Row Format
//
// A row buffer is the concatenation of each column's encoding in schema
// order, with no per-row delimiters. Column boundaries are derived purely
// from the schema's column descriptors and, for VARCHAR, from an inline
// length prefix. All multi-byte values are little-endian.
//
//	byteint/smallint/integer/bigint   1/2/4/8-byte two's-complement
//	float                             8-byte IEEE-754 double
//	decimal                           1/2/4/8/16-byte two's-complement,
//	                                  implied point `scale` digits from the right
//	date                              4-byte signed day code (value + 19000000
//	                                  reads as YYYYMMDD)
//	char / time / timestamp           fixed width, blank padded
//	varchar                           2-byte length prefix + payload
//
// # Cursors
//
// Decoding reads through a Reader and encoding writes through a Writer;
// both advance strictly forward. After a full row the cursor must have
// consumed exactly the row's encoded width: a short buffer or trailing
// bytes means the schema and the data disagree, which is fatal for that
// row since every later column would be misaligned.
//
// # Error Handling
//
// Errors split into three kinds, distinguishable with errors.Is:
//
//   - structural (ErrShortBuffer, ErrTrailingBytes, ErrMalformedDecimal,
//     ErrMalformedDate): fatal to the current row
//   - type mismatch (ErrTypeMismatch, ErrValueRange): rejected before any
//     bytes are written
//   - conversion (ErrConversion): scoped to a single derived value
//
// Time and timestamp fields that fail to parse are not errors: the raw
// field text is returned unmodified, preserving the legacy behavior for
// non-conforming content.
//
// # Thread Safety
//
// The codec is stateless. Every operation is a pure function of the
// descriptor, the cursor position and the buffer contents, so independent
// rows may be decoded or encoded concurrently as long as each goroutine
// owns its cursor and buffer.
package codec
