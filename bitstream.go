package feconf

import (
	"fmt"
	"strings"
)

// BitStream is the bit sequence of one register address in declared field
// order, most significant bit first. Each element is the byte '0' or '1'.
type BitStream []byte

// ParseBitStream checks that s holds only binary digits.
func ParseBitStream(s string) (BitStream, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return nil, fmt.Errorf("bitstream %q: %w", s, ErrBadNumber)
		}
	}
	return BitStream(s), nil
}

func (bs BitStream) String() string {
	return string(bs)
}

// Len returns the number of bits.
func (bs BitStream) Len() int {
	return len(bs)
}

// Clone returns a copy that shares no storage with bs.
func (bs BitStream) Clone() BitStream {
	return append(BitStream(nil), bs...)
}

// Word returns the bitstream as an integer. Streams longer than 128 bits keep
// only their last 128 bits.
func (bs BitStream) Word() Word {
	var w Word
	for _, b := range bs {
		w = w.Lsh(1)
		if b == '1' {
			w.Lo |= 1
		}
	}
	return w
}

// Bytes packs the stream into bytes, most significant first. Streams whose
// length is not a multiple of 8 are padded with leading zeros.
func (bs BitStream) Bytes() []byte {
	n := (len(bs) + 7) / 8
	out := make([]byte, n)
	pad := n*8 - len(bs)
	for i, b := range bs {
		if b == '1' {
			pos := pad + i
			out[pos/8] |= 0x80 >> uint(pos%8)
		}
	}
	return out
}

// BitStreamFromWord formats the low width bits of w.
func BitStreamFromWord(w Word, width int) BitStream {
	return BitStream(w.Binary(width))
}

// BitStreamFromBytes unpacks wire bytes into a stream of width bits. The byte
// count must be exactly what Bytes would produce for that width, and padding
// bits must be zero.
func BitStreamFromBytes(data []byte, width int) (BitStream, error) {
	n := (width + 7) / 8
	if len(data) != n {
		return nil, fmt.Errorf("%d bytes for a %d-bit register, want %d: %w", len(data), width, n, ErrSizeMismatch)
	}
	var b strings.Builder
	b.Grow(n * 8)
	for _, v := range data {
		fmt.Fprintf(&b, "%08b", v)
	}
	all := b.String()
	pad := n*8 - width
	if strings.Contains(all[:pad], "1") {
		return nil, fmt.Errorf("%08b does not fit %d bits: %w", data[0], width, ErrRegisterOverflow)
	}
	return BitStream(all[pad:]), nil
}
