package feconf

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxWordWidth is the widest register or value a Word can hold.
const MaxWordWidth = 128

// Word is an unsigned 128-bit integer stored as two 64-bit halves. It carries
// register contents, masks and configuration values for every device kind:
// 8-bit and 32-bit devices simply leave Hi at zero.
type Word struct {
	Hi, Lo uint64
}

// W64 returns the Word holding v.
func W64(v uint64) Word {
	return Word{Lo: v}
}

// LowMask returns a Word with the lowest width bits set.
func LowMask(width int) Word {
	switch {
	case width <= 0:
		return Word{}
	case width < 64:
		return Word{Lo: 1<<uint(width) - 1}
	case width == 64:
		return Word{Lo: ^uint64(0)}
	case width < MaxWordWidth:
		return Word{Hi: 1<<uint(width-64) - 1, Lo: ^uint64(0)}
	default:
		return Word{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
}

// IsZero reports whether all bits are clear.
func (w Word) IsZero() bool {
	return w.Hi == 0 && w.Lo == 0
}

// And returns w & x.
func (w Word) And(x Word) Word {
	return Word{w.Hi & x.Hi, w.Lo & x.Lo}
}

// Or returns w | x.
func (w Word) Or(x Word) Word {
	return Word{w.Hi | x.Hi, w.Lo | x.Lo}
}

// AndNot returns w &^ x.
func (w Word) AndNot(x Word) Word {
	return Word{w.Hi &^ x.Hi, w.Lo &^ x.Lo}
}

// Not returns the 128-bit complement of w.
func (w Word) Not() Word {
	return Word{^w.Hi, ^w.Lo}
}

// Add returns w + x, wrapping at 128 bits.
func (w Word) Add(x Word) Word {
	lo, carry := bits.Add64(w.Lo, x.Lo, 0)
	hi, _ := bits.Add64(w.Hi, x.Hi, carry)
	return Word{hi, lo}
}

// Lsh returns w << n. Shifting by 128 or more yields zero.
func (w Word) Lsh(n int) Word {
	switch {
	case n <= 0:
		return w
	case n >= MaxWordWidth:
		return Word{}
	case n >= 64:
		return Word{Hi: w.Lo << uint(n-64)}
	default:
		return Word{Hi: w.Hi<<uint(n) | w.Lo>>uint(64-n), Lo: w.Lo << uint(n)}
	}
}

// Rsh returns w >> n. Shifting by 128 or more yields zero.
func (w Word) Rsh(n int) Word {
	switch {
	case n <= 0:
		return w
	case n >= MaxWordWidth:
		return Word{}
	case n >= 64:
		return Word{Lo: w.Hi >> uint(n-64)}
	default:
		return Word{Hi: w.Hi >> uint(n), Lo: w.Lo>>uint(n) | w.Hi<<uint(64-n)}
	}
}

// TrailingZeros returns the number of trailing zero bits. The count continues
// into the high half when the low half is entirely zero; TrailingZeros of
// zero is 128.
func (w Word) TrailingZeros() int {
	if w.Lo != 0 {
		return bits.TrailingZeros64(w.Lo)
	}
	return 64 + bits.TrailingZeros64(w.Hi)
}

// OnesCount returns the number of set bits (population count).
func (w Word) OnesCount() int {
	return bits.OnesCount64(w.Hi) + bits.OnesCount64(w.Lo)
}

// BitLen returns the minimum number of bits needed to represent w.
func (w Word) BitLen() int {
	if w.Hi != 0 {
		return 64 + bits.Len64(w.Hi)
	}
	return bits.Len64(w.Lo)
}

// FitsIn reports whether w < 2^width.
func (w Word) FitsIn(width int) bool {
	return w.BitLen() <= width
}

// Contiguous reports whether the set bits of a non-zero w form one run.
func (w Word) Contiguous() bool {
	if w.IsZero() {
		return false
	}
	shifted := w.Rsh(w.TrailingZeros())
	return shifted.And(shifted.Add(W64(1))).IsZero()
}

// Uint64 returns the low 64 bits and whether the value fits in them.
func (w Word) Uint64() (uint64, bool) {
	return w.Lo, w.Hi == 0
}

// Binary formats w as exactly width binary digits, most significant first.
// Higher bits than width are dropped.
func (w Word) Binary(width int) string {
	var b strings.Builder
	b.Grow(width)
	for i := width - 1; i >= 0; i-- {
		if w.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Bit reports whether bit i (0 = least significant) is set.
func (w Word) Bit(i int) bool {
	switch {
	case i < 0 || i >= MaxWordWidth:
		return false
	case i >= 64:
		return w.Hi>>uint(i-64)&1 == 1
	default:
		return w.Lo>>uint(i)&1 == 1
	}
}

// String formats w in decimal when it fits 64 bits and in hex otherwise.
func (w Word) String() string {
	if w.Hi == 0 {
		return strconv.FormatUint(w.Lo, 10)
	}
	return w.Hex()
}

// Hex formats w as a 0x-prefixed hexadecimal number.
func (w Word) Hex() string {
	if w.Hi == 0 {
		return fmt.Sprintf("0x%x", w.Lo)
	}
	return fmt.Sprintf("0x%x%016x", w.Hi, w.Lo)
}

// ParseBinary parses a string of binary digits with at most 128 significant
// digits; leading zeros are not counted. The string is split at the 64-bit
// boundary: the last 64 digits form the low half.
func ParseBinary(s string) (Word, error) {
	if len(s) == 0 {
		return Word{}, fmt.Errorf("empty binary string: %w", ErrBadNumber)
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return Word{}, fmt.Errorf("binary string %q: %w", s, ErrBadNumber)
		}
	}
	if s = strings.TrimLeft(s, "0"); s == "" {
		return Word{}, nil
	}
	if len(s) > MaxWordWidth {
		return Word{}, fmt.Errorf("binary string of %d significant digits: %w", len(s), ErrBadNumber)
	}
	split := len(s) - 64
	if split <= 0 {
		lo, _ := strconv.ParseUint(s, 2, 64)
		return Word{Lo: lo}, nil
	}
	hi, _ := strconv.ParseUint(s[:split], 2, 64)
	lo, _ := strconv.ParseUint(s[split:], 2, 64)
	return Word{Hi: hi, Lo: lo}, nil
}

// ParseWord parses a decimal, 0x-prefixed hexadecimal or 0b-prefixed binary
// number of up to 128 bits. Underscores and apostrophes are accepted as digit
// separators.
func ParseWord(s string) (Word, error) {
	clean := strings.NewReplacer("_", "", "'", "").Replace(strings.TrimSpace(s))
	lower := strings.ToLower(clean)
	switch {
	case strings.HasPrefix(lower, "0b"):
		return ParseBinary(lower[2:])
	case strings.HasPrefix(lower, "0x"):
		return parseHex(lower[2:])
	}
	return parseDecimal(clean)
}

func parseHex(s string) (Word, error) {
	if len(s) == 0 {
		return Word{}, fmt.Errorf("empty hex number: %w", ErrBadNumber)
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" {
		return Word{}, nil
	}
	if len(digits) > 32 {
		return Word{}, fmt.Errorf("hex number %q exceeds 128 bits: %w", s, ErrBadNumber)
	}
	s = digits
	split := len(s) - 16
	if split <= 0 {
		lo, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return Word{}, fmt.Errorf("hex number %q: %w", s, ErrBadNumber)
		}
		return Word{Lo: lo}, nil
	}
	hi, err1 := strconv.ParseUint(s[:split], 16, 64)
	lo, err2 := strconv.ParseUint(s[split:], 16, 64)
	if err1 != nil || err2 != nil {
		return Word{}, fmt.Errorf("hex number %q: %w", s, ErrBadNumber)
	}
	return Word{Hi: hi, Lo: lo}, nil
}

// parseDecimal accumulates digit by digit so values above 2^64 survive.
func parseDecimal(s string) (Word, error) {
	if len(s) == 0 {
		return Word{}, fmt.Errorf("empty number: %w", ErrBadNumber)
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Word{Lo: v}, nil
	}
	var w Word
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Word{}, fmt.Errorf("decimal number %q: %w", s, ErrBadNumber)
		}
		hiLo, lo := bits.Mul64(w.Lo, 10)
		hiHi, hi := bits.Mul64(w.Hi, 10)
		hi, carry := bits.Add64(hi, hiLo, 0)
		if hiHi != 0 || carry != 0 {
			return Word{}, fmt.Errorf("decimal number %q exceeds 128 bits: %w", s, ErrBadNumber)
		}
		lo, carry = bits.Add64(lo, uint64(c-'0'), 0)
		hi, carry = bits.Add64(hi, 0, carry)
		if carry != 0 {
			return Word{}, fmt.Errorf("decimal number %q exceeds 128 bits: %w", s, ErrBadNumber)
		}
		w = Word{Hi: hi, Lo: lo}
	}
	return w, nil
}
