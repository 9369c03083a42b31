package codec

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestDecodeInt(t *testing.T) {
	testCases := []struct {
		name  string
		width int
		data  []byte
		want  int64
	}{
		{"byteint positive", 1, []byte{0x7F}, 127},
		{"byteint negative", 1, []byte{0x80}, -128},
		{"smallint", 2, []byte{0x39, 0x30}, 12345},
		{"smallint negative", 2, []byte{0xC7, 0xCF}, -12345},
		{"integer", 4, []byte{0x15, 0x8C, 0x11, 0x00}, 1150101},
		{"bigint", 8, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(tc.data)
			got, err := DecodeInt(r, tc.width)
			if err != nil {
				t.Fatalf("DecodeInt failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
			if r.Offset() != tc.width {
				t.Errorf("consumed %d bytes, want %d", r.Offset(), tc.width)
			}
		})
	}
}

func TestDecodeIntErrors(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := DecodeInt(r, 4); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
	if r.Offset() != 0 {
		t.Errorf("failed decode advanced the cursor to %d", r.Offset())
	}
	if _, err := DecodeInt(r, 3); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("expected ErrInvalidWidth, got %v", err)
	}
}

func TestDecodeDecimalString(t *testing.T) {
	testCases := []struct {
		name  string
		width int
		scale int
		data  []byte
		want  string
	}{
		{"scaled negative", 4, 2, []byte{0xC7, 0xCF, 0xFF, 0xFF}, "-123.45"},
		{"scaled positive", 4, 2, []byte{0x39, 0x30, 0x00, 0x00}, "123.45"},
		{"fraction only negative", 4, 2, []byte{0xFB, 0xFF, 0xFF, 0xFF}, "-0.05"},
		{"scale zero", 4, 0, []byte{0xC7, 0xCF, 0xFF, 0xFF}, "-12345"},
		{"one byte", 1, 1, []byte{0xF6}, "-1.0"},
		{"two byte", 2, 3, []byte{0x39, 0x30}, "12.345"},
		{"eight byte", 8, 4, []byte{0x15, 0xCD, 0x5B, 0x07, 0x00, 0x00, 0x00, 0x00}, "12345.6789"},
		{"zero pad fraction", 4, 4, []byte{0x07, 0x00, 0x00, 0x00}, "0.0007"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(tc.data)
			got, err := DecodeDecimalString(r, tc.width, tc.scale)
			if err != nil {
				t.Fatalf("DecodeDecimalString failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	r := NewReader(make([]byte, 16))
	if _, err := DecodeDecimalString(r, 5, 0); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("expected ErrInvalidWidth for width 5, got %v", err)
	}
}

func TestDecodeDecimalScaleOutOfRange(t *testing.T) {
	testCases := []struct {
		name  string
		width int
		scale int
	}{
		{"negative scale", 4, -1},
		{"eight byte over capacity", 8, 19},
		{"sixteen byte over capacity", 16, 39},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(make([]byte, 16))
			if _, err := DecodeDecimalString(r, tc.width, tc.scale); !errors.Is(err, ErrInvalidScale) {
				t.Errorf("expected ErrInvalidScale, got %v", err)
			}
			if r.Offset() != 0 {
				t.Errorf("rejected descriptor advanced the cursor to %d", r.Offset())
			}
		})
	}
}

func TestDecodeDecimal128(t *testing.T) {
	buf := make([]byte, 16)

	// low word only
	putInt128(buf, big.NewInt(12345))
	r := NewReader(buf)
	got, err := DecodeDecimalString(r, 16, 2)
	if err != nil {
		t.Fatalf("DecodeDecimalString failed: %v", err)
	}
	if got != "123.45" {
		t.Errorf("got %q, want %q", got, "123.45")
	}

	// negative value spanning both words: the sign must come from the
	// combined two's-complement value
	v, _ := new(big.Int).SetString("-36893488147419103232123", 10)
	putInt128(buf, v)
	r = NewReader(buf)
	got, err = DecodeDecimalString(r, 16, 3)
	if err != nil {
		t.Fatalf("DecodeDecimalString failed: %v", err)
	}
	if got != "-36893488147419103232.123" {
		t.Errorf("got %q", got)
	}

	// all ones is -1 regardless of width
	for i := range buf {
		buf[i] = 0xFF
	}
	r = NewReader(buf)
	got, err = DecodeDecimalString(r, 16, 2)
	if err != nil {
		t.Fatalf("DecodeDecimalString failed: %v", err)
	}
	if got != "-0.01" {
		t.Errorf("got %q, want %q", got, "-0.01")
	}
}

func TestDecodeDecimalFloat(t *testing.T) {
	r := NewReader([]byte{0xC7, 0xCF, 0xFF, 0xFF})
	got, err := DecodeDecimalFloat(r, 4, 2)
	if err != nil {
		t.Fatalf("DecodeDecimalFloat failed: %v", err)
	}
	if got != -123.45 {
		t.Errorf("got %v, want -123.45", got)
	}
}

func TestDecodeDecimalValue(t *testing.T) {
	r := NewReader([]byte{0xC7, 0xCF, 0xFF, 0xFF})
	got, err := DecodeDecimalValue(r, 4, 2)
	if err != nil {
		t.Fatalf("DecodeDecimalValue failed: %v", err)
	}
	if got.String() != "-123.45" {
		t.Errorf("got %q, want %q", got.String(), "-123.45")
	}
	if got.Exponent() != -2 {
		t.Errorf("got exponent %d, want -2", got.Exponent())
	}
}

func TestDecodeDateString(t *testing.T) {
	// 20150101 - 19000000 = 1150101
	r := NewReader([]byte{0x15, 0x8C, 0x11, 0x00})
	got, err := DecodeDateString(r)
	if err != nil {
		t.Fatalf("DecodeDateString failed: %v", err)
	}
	if got != "2015-01-01" {
		t.Errorf("got %q, want %q", got, "2015-01-01")
	}
	if len(got) != 10 {
		t.Errorf("date string is %d characters, want 10", len(got))
	}
}

func TestDecodeDate(t *testing.T) {
	r := NewReader([]byte{0x15, 0x8C, 0x11, 0x00})
	got, err := DecodeDate(r)
	if err != nil {
		t.Fatalf("DecodeDate failed: %v", err)
	}
	want := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDecodeChar(t *testing.T) {
	r := NewReader([]byte("wayne     extra"))
	got, err := DecodeChar(r, 10)
	if err != nil {
		t.Fatalf("DecodeChar failed: %v", err)
	}
	// padding is part of the value
	if got != "wayne     " {
		t.Errorf("got %q, want %q", got, "wayne     ")
	}
	if r.Offset() != 10 {
		t.Errorf("consumed %d bytes, want 10", r.Offset())
	}
}

func TestDecodeVarChar(t *testing.T) {
	buf := append([]byte{15, 0}, []byte("batman@wayne.co")...)
	r := NewReader(buf)
	got, err := DecodeVarChar(r)
	if err != nil {
		t.Fatalf("DecodeVarChar failed: %v", err)
	}
	if got != "batman@wayne.co" {
		t.Errorf("got %q, want %q", got, "batman@wayne.co")
	}
	if r.Offset() != 17 {
		t.Errorf("consumed %d bytes, want 17", r.Offset())
	}

	// a prefix pointing past the buffer is structural
	r = NewReader([]byte{0xFF, 0x00, 'a'})
	if _, err := DecodeVarChar(r); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
}

func TestDecodeTime(t *testing.T) {
	t.Run("conforming content", func(t *testing.T) {
		r := NewReader([]byte("12:34:56"))
		got, err := DecodeTime(r, 8)
		if err != nil {
			t.Fatalf("DecodeTime failed: %v", err)
		}
		tv, ok := got.(time.Time)
		if !ok {
			t.Fatalf("got %T, want time.Time", got)
		}
		if tv.Hour() != 12 || tv.Minute() != 34 || tv.Second() != 56 || tv.Nanosecond() != 0 {
			t.Errorf("got %v", tv)
		}
	})

	t.Run("non-conforming content falls back to raw text", func(t *testing.T) {
		r := NewReader([]byte("notatime"))
		got, err := DecodeTime(r, 8)
		if err != nil {
			t.Fatalf("DecodeTime failed: %v", err)
		}
		if got != "notatime" {
			t.Errorf("got %v, want the raw string", got)
		}
	})

	t.Run("blank padded content still parses", func(t *testing.T) {
		r := NewReader([]byte("12:34:56  "))
		got, err := DecodeTime(r, 10)
		if err != nil {
			t.Fatalf("DecodeTime failed: %v", err)
		}
		if _, ok := got.(time.Time); !ok {
			t.Errorf("got %T, want time.Time", got)
		}
	})
}

func TestDecodeTimestamp(t *testing.T) {
	r := NewReader([]byte("2015-06-01 08:30:00"))
	got, err := DecodeTimestamp(r, 19)
	if err != nil {
		t.Fatalf("DecodeTimestamp failed: %v", err)
	}
	tv, ok := got.(time.Time)
	if !ok {
		t.Fatalf("got %T, want time.Time", got)
	}
	want := time.Date(2015, time.June, 1, 8, 30, 0, 0, time.UTC)
	if !tv.Equal(want) {
		t.Errorf("got %v, want %v", tv, want)
	}

	r = NewReader([]byte("not a timestamp    "))
	got, err = DecodeTimestamp(r, 19)
	if err != nil {
		t.Fatalf("DecodeTimestamp failed: %v", err)
	}
	if got != "not a timestamp    " {
		t.Errorf("got %v, want the raw string", got)
	}
}

func TestDecodeFloat(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	var e Encoder
	if err := e.EncodeFloat(w, -273.15); err != nil {
		t.Fatalf("EncodeFloat failed: %v", err)
	}
	r := NewReader(buf)
	got, err := DecodeFloat(r)
	if err != nil {
		t.Fatalf("DecodeFloat failed: %v", err)
	}
	if got != -273.15 {
		t.Errorf("got %v, want -273.15", got)
	}
}
