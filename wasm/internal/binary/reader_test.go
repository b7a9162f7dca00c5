package binary

import (
	"math"
	"testing"

	"github.com/jcalabro/leb128"

	"github.com/wippyai/wasm-tools/errors"
)

func TestReadU32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 255, 256, 624485, 1<<31 - 1, math.MaxUint32}
	for _, v := range values {
		w := NewWriter()
		w.WriteU32(v)

		// Cross-check our encoder against an independent one.
		oracle := leb128.EncodeU64(uint64(v))
		if string(w.Bytes()) != string(oracle) {
			t.Fatalf("encoding of %d: got % x, oracle % x", v, w.Bytes(), oracle)
		}

		r := NewReader(w.Bytes())
		got, err := r.ReadU32()
		if err != nil {
			t.Fatalf("ReadU32(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %d yielded %d", v, got)
		}
		if r.Len() != 0 {
			t.Errorf("round trip of %d left %d bytes", v, r.Len())
		}
	}
}

func TestReadS64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, 64, -64, -65, 624485, -624485,
		math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		w := NewWriter()
		w.WriteS64(v)

		oracle := leb128.EncodeS64(v)
		if string(w.Bytes()) != string(oracle) {
			t.Fatalf("encoding of %d: got % x, oracle % x", v, w.Bytes(), oracle)
		}

		r := NewReader(w.Bytes())
		got, err := r.ReadS64()
		if err != nil {
			t.Fatalf("ReadS64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %d yielded %d", v, got)
		}
	}
}

func TestReadU32MaxLength(t *testing.T) {
	// Exactly five bytes with all unused high bits clear decodes.
	r := NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F})
	v, err := r.ReadU32()
	if err != nil {
		t.Fatalf("max-length u32: %v", err)
	}
	if v != math.MaxUint32 {
		t.Errorf("expected MaxUint32, got %d", v)
	}
}

func TestReadU32Overlong(t *testing.T) {
	cases := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF, 0x10}, // high unused bit set
		{0xFF, 0xFF, 0xFF, 0xFF, 0x80}, // continuation past max length
		{0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
	}
	for _, data := range cases {
		r := NewReader(data)
		_, err := r.ReadU32()
		e, ok := errors.As(err)
		if !ok || e.Kind != errors.KindOverlongLEB {
			t.Errorf("input % x: expected overlong error, got %v", data, err)
		}
		if e != nil && e.Begin != 0 {
			t.Errorf("input % x: error offset %d, expected entry position 0", data, e.Begin)
		}
	}
}

func TestReadS32FinalByteSignBits(t *testing.T) {
	// The unused payload bits of the final byte must match the sign bit.
	valid := map[int32][]byte{
		math.MaxInt32: {0xFF, 0xFF, 0xFF, 0xFF, 0x07},
		-1:            {0xFF, 0xFF, 0xFF, 0xFF, 0x7F},
		math.MinInt32: {0x80, 0x80, 0x80, 0x80, 0x78},
	}
	for want, data := range valid {
		r := NewReader(data)
		got, err := r.ReadS32()
		if err != nil {
			t.Fatalf("input % x: %v", data, err)
		}
		if got != want {
			t.Errorf("input % x: got %d, want %d", data, got, want)
		}
	}

	invalid := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF, 0x4F}, // sign set, unused bits mixed
		{0x80, 0x80, 0x80, 0x80, 0x70}, // sign clear, unused bits set
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, // continuation past max length
	}
	for _, data := range invalid {
		r := NewReader(data)
		_, err := r.ReadS32()
		if e, ok := errors.As(err); !ok || e.Kind != errors.KindOverlongLEB {
			t.Errorf("input % x: expected overlong error, got %v", data, err)
		}
	}
}

func TestReadTruncated(t *testing.T) {
	r := NewReader([]byte{0x00, 0x80})
	if _, err := r.ReadByte(); err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	_, err := r.ReadU32()
	e, ok := errors.As(err)
	if !ok || e.Kind != errors.KindTruncatedInput {
		t.Fatalf("expected truncated error, got %v", err)
	}
	if e.Begin != 1 {
		t.Errorf("error offset %d, expected entry position 1", e.Begin)
	}
}

func TestSubReaderAbsolutePositions(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0x01, 0x02, 0x03})
	if _, err := r.ReadBytes(2); err != nil {
		t.Fatal(err)
	}
	sub, err := r.Sub(3)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Position() != 2 || sub.End() != 5 {
		t.Errorf("sub view spans [%d, %d), expected [2, 5)", sub.Position(), sub.End())
	}
	if _, err := sub.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if sub.Position() != 3 {
		t.Errorf("position after one read: %d, expected 3", sub.Position())
	}
	if r.Len() != 0 {
		t.Errorf("parent has %d unread bytes, expected 0", r.Len())
	}
}

func TestReadBytesZeroCopy(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	r := NewReader(data)
	b, err := r.ReadBytes(4)
	if err != nil {
		t.Fatal(err)
	}
	if &b[0] != &data[0] {
		t.Error("ReadBytes copied the input")
	}
}

func TestReadNameInvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0x02, 0xFF, 0xFE})
	_, err := r.ReadName()
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindInvalidUTF8 {
		t.Fatalf("expected invalid UTF-8 error, got %v", err)
	}
}

func TestReadS33BlockTypeRange(t *testing.T) {
	w := NewWriter()
	w.WriteS33(-64)
	r := NewReader(w.Bytes())
	v, err := r.ReadS33()
	if err != nil {
		t.Fatal(err)
	}
	if v != -64 {
		t.Errorf("got %d, want -64", v)
	}
	if w.Bytes()[0] != 0x40 {
		t.Errorf("void block type must encode as 0x40, got 0x%02x", w.Bytes()[0])
	}
}
