// Package binary implements the byte cursor the decoder reads through.
//
// A Reader is a view over an immutable byte region plus a position. It
// never copies bytes: ReadBytes and Sub return sub-views of the region,
// and positions are absolute offsets into the original input so derived
// readers report diagnostics against the buffer the caller handed in.
package binary

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/wippyai/wasm-tools/errors"
)

// Reader consumes bytes from an immutable input slice.
type Reader struct {
	data []byte
	pos  int
	base uint32 // absolute offset of data[0] in the original input
}

// NewReader creates a Reader over data, with positions reported from
// offset zero.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderAt creates a Reader over a sub-view whose first byte sits at
// the given absolute offset of the original input.
func NewReaderAt(data []byte, base uint32) *Reader {
	return &Reader{data: data, base: base}
}

// Position returns the current absolute byte offset.
func (r *Reader) Position() uint32 {
	return r.base + uint32(r.pos)
}

// End returns the absolute offset one past the last readable byte.
func (r *Reader) End() uint32 {
	return r.base + uint32(len(r.data))
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Reset seeks to the given absolute position within this reader's view.
func (r *Reader) Reset(pos uint32) {
	r.pos = int(pos - r.base)
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.New(errors.KindTruncatedInput, r.Position(), "unexpected end of input")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// PeekByte returns the next byte without advancing, and false at the end
// of the view.
func (r *Reader) PeekByte() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	return r.data[r.pos], true
}

// ReadBytes returns the next n bytes as a sub-view of the input, without
// copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, errors.New(errors.KindTruncatedInput, r.Position(),
			"need %d bytes, have %d", n, r.Len())
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// Sub consumes the next n bytes and returns a Reader over them. The
// sub-reader reports absolute positions into the original input.
func (r *Reader) Sub(n int) (*Reader, error) {
	base := r.Position()
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Reader{data: b, base: base}, nil
}

// ReadRemaining returns all unread bytes as a sub-view.
func (r *Reader) ReadRemaining() []byte {
	b := r.data[r.pos:len(r.data):len(r.data)]
	r.pos = len(r.data)
	return b
}

// Since returns the bytes between the given absolute position and the
// current one, as a sub-view.
func (r *Reader) Since(pos uint32) []byte {
	begin := int(pos - r.base)
	return r.data[begin:r.pos:r.pos]
}

// Maximum encoded lengths: ceil(width/7) bytes.
func maxLEBBytes(width uint) int {
	return int((width + 6) / 7)
}

// readUnsigned decodes an unsigned LEB128 value of the given bit width.
// The final byte's unused high bits must be zero; a continuation bit on
// the last permissible byte is an overlong encoding. On failure the
// reported offset is the position at entry.
func (r *Reader) readUnsigned(width uint) (uint64, error) {
	start := r.Position()
	max := maxLEBBytes(width)
	var result uint64
	var shift uint
	for i := 0; i < max; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, errors.New(errors.KindTruncatedInput, start,
				"unexpected end of input in u%d", width)
		}
		if i == max-1 {
			// Bits of the final byte beyond the declared width must be
			// zero, including the continuation bit.
			used := width - 7*uint(max-1)
			if b>>used != 0 {
				return 0, errors.New(errors.KindOverlongLEB, start,
					"overlong u%d encoding", width)
			}
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return result, nil
}

// readSigned decodes a signed LEB128 value of the given bit width. The
// final byte's unused high bits must all equal the sign bit.
func (r *Reader) readSigned(width uint) (int64, error) {
	start := r.Position()
	max := maxLEBBytes(width)
	var result int64
	var shift uint
	for i := 0; i < max; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, errors.New(errors.KindTruncatedInput, start,
				"unexpected end of input in s%d", width)
		}
		if i == max-1 {
			if b&0x80 != 0 {
				return 0, errors.New(errors.KindOverlongLEB, start,
					"overlong s%d encoding", width)
			}
			// The payload bits above the value's top bit must match its
			// sign bit: all zero or all one within the unused mask.
			used := width - 7*uint(max-1) // includes the sign bit
			unused := byte(0x7f) &^ (1<<used - 1)
			signBit := b & (1 << (used - 1))
			rest := b & unused
			if signBit != 0 {
				if rest != unused {
					return 0, errors.New(errors.KindOverlongLEB, start,
						"overlong s%d encoding", width)
				}
			} else if rest != 0 {
				return 0, errors.New(errors.KindOverlongLEB, start,
					"overlong s%d encoding", width)
			}
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= ^int64(0) << shift
			}
			return result, nil
		}
	}
	return result, nil
}

// ReadU8 reads an unsigned LEB128 encoded 8-bit value.
func (r *Reader) ReadU8() (uint8, error) {
	v, err := r.readUnsigned(8)
	return uint8(v), err
}

// ReadU32 reads an unsigned LEB128 encoded uint32.
func (r *Reader) ReadU32() (uint32, error) {
	v, err := r.readUnsigned(32)
	return uint32(v), err
}

// ReadU64 reads an unsigned LEB128 encoded uint64.
func (r *Reader) ReadU64() (uint64, error) {
	return r.readUnsigned(64)
}

// ReadS32 reads a signed LEB128 encoded int32.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.readSigned(32)
	return int32(v), err
}

// ReadS33 reads a signed LEB128 encoded 33-bit value (block types).
func (r *Reader) ReadS33() (int64, error) {
	return r.readSigned(33)
}

// ReadS64 reads a signed LEB128 encoded int64.
func (r *Reader) ReadS64() (int64, error) {
	return r.readSigned(64)
}

// ReadU32LE reads a fixed-width little-endian uint32.
func (r *Reader) ReadU32LE() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (r *Reader) ReadF32() (float32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadF64 reads a little-endian IEEE-754 float64.
func (r *Reader) ReadF64() (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadV128 reads a 16-byte little-endian vector constant.
func (r *Reader) ReadV128() ([]byte, error) {
	return r.ReadBytes(16)
}

// ReadName reads a u32-length-prefixed UTF-8 string. The returned string
// shares no storage with the input.
func (r *Reader) ReadName() (string, error) {
	start := r.Position()
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.NewRange(errors.KindInvalidUTF8, start, r.Position(),
			"invalid UTF-8 in name")
	}
	return string(b), nil
}
