// Package packing implements the fixed-width primitive (de)serialization the
// row codec is built on. All values are little-endian, matching the wire
// format. Callers are responsible for slicing buffers to the exact width;
// bounds checking belongs to the cursor layer above.
package packing

import (
	"encoding/binary"
	"math"
)

// Widths of the fixed-width primitive encodings in bytes.
const (
	Int8Size    = 1
	Int16Size   = 2
	Int32Size   = 4
	Int64Size   = 8
	Int128Size  = 16
	Float64Size = 8
	Uint16Size  = 2
)

func Int8(b []byte) int8 {
	return int8(b[0])
}

func PutInt8(b []byte, v int8) {
	b[0] = byte(v)
}

func Int16(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

func PutInt16(b []byte, v int16) {
	binary.LittleEndian.PutUint16(b, uint16(v))
}

func Int32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func PutInt32(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

func Int64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func PutInt64(b []byte, v int64) {
	binary.LittleEndian.PutUint64(b, uint64(v))
}

func Uint16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

func PutUint16(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

func Uint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func PutUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// Float64 decodes an IEEE-754 double.
func Float64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func PutFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}
