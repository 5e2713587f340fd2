package wire

import (
	"io"
	"math"
	"strconv"
)

// EncodeLength returns the length prefix for a word of n bytes.
func EncodeLength(n int) []byte {
	return AppendLength(make([]byte, 0, LengthSize(n)), n)
}

// LengthSize returns the number of bytes EncodeLength uses for n.
func LengthSize(n int) int {
	switch {
	case n < maxLen1:
		return 1
	case n < maxLen2:
		return 2
	case n < maxLen3:
		return 3
	case n < maxLen4:
		return 4
	default:
		return 5
	}
}

// AppendLength appends the length prefix for n to dst.
//
//	n < 0x80       0xxxxxxx
//	n < 0x4000     10xxxxxx xxxxxxxx
//	n < 0x200000   110xxxxx xxxxxxxx xxxxxxxx
//	n < 0x10000000 1110xxxx xxxxxxxx xxxxxxxx xxxxxxxx
//	otherwise      11110000 xxxxxxxx xxxxxxxx xxxxxxxx xxxxxxxx
//
// n must be non-negative and fit in 32 bits.
func AppendLength(dst []byte, n int) []byte {
	v := uint32(n)
	switch {
	case n < maxLen1:
		return append(dst, byte(v))
	case n < maxLen2:
		v |= 0x8000
		return append(dst, byte(v>>8), byte(v))
	case n < maxLen3:
		v |= 0xC00000
		return append(dst, byte(v>>16), byte(v>>8), byte(v))
	case n < maxLen4:
		v |= 0xE0000000
		return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		return append(dst, marker5, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

// prefixWidth returns the total prefix width announced by a leading byte, or
// 0 for a reserved control byte.
func prefixWidth(b byte) int {
	switch {
	case b >= controlByte:
		return 0
	case b&0x80 == 0:
		return 1
	case b&0xC0 == marker2:
		return 2
	case b&0xE0 == marker3:
		return 3
	case b&0xF0 == marker4:
		return 4
	case b == marker5:
		return 5
	default:
		return 0
	}
}

// leadingMask keeps the length bits of the leading byte for a given width.
var leadingMask = [...]byte{0, 0x7F, 0x3F, 0x1F, 0x0F, 0x00}

// DecodeLength decodes the length prefix starting at b[pos]. It returns the
// word length and the number of prefix bytes consumed.
func DecodeLength(b []byte, pos int) (length, consumed int, err error) {
	if pos >= len(b) {
		return 0, 0, &DecodeError{Message: "missing length prefix", Offset: pos, Err: io.ErrUnexpectedEOF}
	}

	width := prefixWidth(b[pos])
	if width == 0 {
		return 0, 0, &DecodeError{Message: "reserved length marker", Offset: pos}
	}
	if pos+width > len(b) {
		return 0, 0, &DecodeError{Message: "truncated length prefix", Offset: pos, Err: io.ErrUnexpectedEOF}
	}

	v := uint32(b[pos] & leadingMask[width])
	for _, c := range b[pos+1 : pos+width] {
		v = v<<8 | uint32(c)
	}

	length, ok := toLength(v)
	if !ok {
		return 0, 0, &DecodeError{Message: "length overflows int", Offset: pos}
	}
	return length, width, nil
}

// ReadLength reads one length prefix from r.
func ReadLength(r io.ByteReader) (int, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	width := prefixWidth(first)
	if width == 0 {
		return 0, &DecodeError{Message: "reserved length marker", Offset: -1}
	}

	v := uint32(first & leadingMask[width])
	for i := 1; i < width; i++ {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, &DecodeError{Message: "truncated length prefix", Offset: -1, Err: err}
		}
		v = v<<8 | uint32(c)
	}

	length, ok := toLength(v)
	if !ok {
		return 0, &DecodeError{Message: "length overflows int", Offset: -1}
	}
	return length, nil
}

// toLength converts a prefix value to int. Values above math.MaxInt32 do not
// fit on 32-bit platforms.
func toLength(v uint32) (int, bool) {
	if strconv.IntSize == 32 && v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
