package feconf

import (
	"errors"
	"math/bits"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowMask(t *testing.T) {
	tests := []struct {
		width int
		want  Word
	}{
		{0, Word{}},
		{1, Word{Lo: 1}},
		{8, Word{Lo: 0xFF}},
		{63, Word{Lo: 1<<63 - 1}},
		{64, Word{Lo: ^uint64(0)}},
		{65, Word{Hi: 1, Lo: ^uint64(0)}},
		{128, Word{Hi: ^uint64(0), Lo: ^uint64(0)}},
		{200, Word{Hi: ^uint64(0), Lo: ^uint64(0)}},
	}
	for _, test := range tests {
		if got := LowMask(test.width); got != test.want {
			t.Errorf("LowMask(%d)=%v, want %v", test.width, got.Hex(), test.want.Hex())
		}
	}
}

// Counting over 128 bits must agree with counting the two halves separately.
func TestWordHalves(t *testing.T) {
	zeroLow := Word{Hi: 0x50, Lo: 0}
	assert.Equal(t, 64+4, zeroLow.TrailingZeros(), "all-zero low half continues into high half")
	assert.Equal(t, bits.OnesCount64(0x50), zeroLow.OnesCount())

	both := Word{Hi: 0xF0F0, Lo: 0x0100}
	assert.Equal(t, bits.TrailingZeros64(0x0100), both.TrailingZeros(), "non-zero low half decides")
	assert.Equal(t, bits.OnesCount64(0xF0F0)+bits.OnesCount64(0x0100), both.OnesCount())

	assert.Equal(t, 128, Word{}.TrailingZeros())
	assert.Equal(t, 0, Word{}.OnesCount())
	assert.Equal(t, 128, LowMask(128).OnesCount())
	assert.Equal(t, 128, LowMask(128).Not().TrailingZeros())
	assert.Equal(t, 100, LowMask(100).Not().TrailingZeros())
}

func TestWordShifts(t *testing.T) {
	w := Word{Lo: 0x8000000000000001}
	assert.Equal(t, Word{Hi: 1, Lo: 2}, w.Lsh(1))
	assert.Equal(t, Word{Hi: 0x8000000000000001}, w.Lsh(64))
	assert.Equal(t, Word{Hi: 0x10}, w.Lsh(68))
	assert.Equal(t, Word{}, w.Lsh(128))
	assert.Equal(t, w, w.Lsh(64).Rsh(64))
	assert.Equal(t, Word{Lo: 0x4000000000000000}, w.Rsh(1))
	assert.Equal(t, Word{Lo: 1 << 63}, Word{Hi: 1}.Rsh(1))
	assert.Equal(t, Word{}, Word{Hi: 1}.Rsh(65))
	assert.Equal(t, Word{Hi: 1}, Word{Lo: ^uint64(0)}.Add(W64(1)))
}

func TestWordMisc(t *testing.T) {
	assert.True(t, W64(0xF0).Contiguous())
	assert.True(t, Word{Hi: 1, Lo: 1 << 63}.Contiguous(), "run across the halves")
	assert.True(t, LowMask(128).Contiguous())
	assert.False(t, W64(0x90).Contiguous())
	assert.False(t, Word{}.Contiguous())

	assert.True(t, W64(255).FitsIn(8))
	assert.False(t, W64(256).FitsIn(8))
	assert.True(t, Word{Hi: 1}.FitsIn(65))
	assert.False(t, Word{Hi: 1}.FitsIn(64))

	assert.Equal(t, "00100101", W64(37).Binary(8))
	assert.Equal(t, "37", W64(37).String())
	assert.Equal(t, "0x25", W64(37).Hex())
	assert.Equal(t, "0x10000000000000000", Word{Hi: 1}.Hex())
	assert.True(t, Word{Hi: 1}.Bit(64))
	assert.False(t, Word{Hi: 1}.Bit(63))
}

func TestParseWord(t *testing.T) {
	tests := []struct {
		in   string
		want Word
	}{
		{"0", Word{}},
		{"23", W64(23)},
		{"0x1F", W64(31)},
		{"0b1011'0101", W64(0xB5)},
		{"1_000", W64(1000)},
		{"18446744073709551616", Word{Hi: 1}},
		{"340282366920938463463374607431768211455", LowMask(128)},
		{"0xffffffffffffffffffffffffffffffff", LowMask(128)},
		{" 7 ", W64(7)},
		{"0x" + strings.Repeat("0", 31) + "01", W64(1)},
		{"0x" + strings.Repeat("0", 40), Word{}},
		{"0b" + strings.Repeat("0", 130) + "1", W64(1)},
	}
	for _, test := range tests {
		got, err := ParseWord(test.in)
		if err != nil {
			t.Errorf("ParseWord(%q) error: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseWord(%q)=%v, want %v", test.in, got.Hex(), test.want.Hex())
		}
	}
	for _, bad := range []string{"", "abc", "0x", "0b102", "340282366920938463463374607431768211456",
		"0x1ffffffffffffffffffffffffffffffff", "0x1" + strings.Repeat("0", 32), "-1"} {
		if _, err := ParseWord(bad); !errors.Is(err, ErrBadNumber) {
			t.Errorf("ParseWord(%q) error %v, want ErrBadNumber", bad, err)
		}
	}
}

func TestParseBinary(t *testing.T) {
	// 65 digits: the leading one lands in the high half.
	s := "1" + "0000000000000000000000000000000000000000000000000000000000000001"
	w, err := ParseBinary(s)
	assert.NoError(t, err)
	assert.Equal(t, Word{Hi: 1, Lo: 1}, w)
	assert.Equal(t, s, w.Binary(65))

	// Leading zeros do not count towards the 128 digits.
	w, err = ParseBinary(strings.Repeat("0", 129))
	assert.NoError(t, err)
	assert.Equal(t, Word{}, w)
	w, err = ParseBinary("00" + LowMask(128).Binary(128))
	assert.NoError(t, err)
	assert.Equal(t, LowMask(128), w)
	_, err = ParseBinary("1" + strings.Repeat("0", 128))
	assert.ErrorIs(t, err, ErrBadNumber)
	_, err = ParseBinary("")
	assert.ErrorIs(t, err, ErrBadNumber)
}
