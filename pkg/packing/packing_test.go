package packing

import (
	"bytes"
	"math"
	"testing"
)

func TestInt16RoundTrip(t *testing.T) {
	for _, v := range []int16{0, 1, -1, 255, -256, math.MaxInt16, math.MinInt16} {
		buf := make([]byte, Int16Size)
		PutInt16(buf, v)
		if got := Int16(buf); got != v {
			t.Errorf("Int16 round trip: got %d, want %d", got, v)
		}
	}
}

func TestInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1150101, math.MaxInt32, math.MinInt32} {
		buf := make([]byte, Int32Size)
		PutInt32(buf, v)
		if got := Int32(buf); got != v {
			t.Errorf("Int32 round trip: got %d, want %d", got, v)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, -1, math.MaxInt64, math.MinInt64} {
		buf := make([]byte, Int64Size)
		PutInt64(buf, v)
		if got := Int64(buf); got != v {
			t.Errorf("Int64 round trip: got %d, want %d", got, v)
		}
	}
}

func TestLittleEndianLayout(t *testing.T) {
	buf := make([]byte, Int32Size)
	PutInt32(buf, 0x01020304)
	if !bytes.Equal(buf, []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Errorf("unexpected byte order: %v", buf)
	}

	// Two's complement of -1 is all ones at every width.
	PutInt32(buf, -1)
	if !bytes.Equal(buf, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("unexpected two's-complement layout: %v", buf)
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1.5, -273.15, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		buf := make([]byte, Float64Size)
		PutFloat64(buf, v)
		if got := Float64(buf); got != v {
			t.Errorf("Float64 round trip: got %v, want %v", got, v)
		}
	}
}

func TestUint16RoundTrip(t *testing.T) {
	for _, v := range []uint16{0, 15, 17, math.MaxUint16} {
		buf := make([]byte, Uint16Size)
		PutUint16(buf, v)
		if got := Uint16(buf); got != v {
			t.Errorf("Uint16 round trip: got %d, want %d", got, v)
		}
	}
}
