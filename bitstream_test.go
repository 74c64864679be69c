package feconf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitStream(t *testing.T) {
	bs, err := ParseBitStream("100000000")
	assert.NoError(t, err)
	assert.Equal(t, 9, bs.Len())
	assert.Equal(t, W64(256), bs.Word())
	if !bytes.Equal([]byte{0x01, 0x00}, bs.Bytes()) {
		t.Errorf("Bytes()=% x, want 01 00", bs.Bytes())
	}

	back, err := BitStreamFromBytes(bs.Bytes(), 9)
	assert.NoError(t, err)
	assert.Equal(t, bs, back)

	c := bs.Clone()
	c[0] = '0'
	assert.Equal(t, "100000000", bs.String(), "clone shares no storage")

	_, err = ParseBitStream("10201")
	assert.ErrorIs(t, err, ErrBadNumber)
}

func TestBitStreamFromBytes(t *testing.T) {
	bs, err := BitStreamFromBytes([]byte{0xE5}, 8)
	assert.NoError(t, err)
	assert.Equal(t, "11100101", bs.String())

	_, err = BitStreamFromBytes([]byte{0x02, 0x00}, 9)
	assert.ErrorIs(t, err, ErrRegisterOverflow, "padding bit set")
	_, err = BitStreamFromBytes([]byte{0x00}, 9)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	_, err = BitStreamFromBytes([]byte{0x00, 0x00}, 8)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	// A full TDS channel register.
	w := Word{Hi: 0x8000000000000000, Lo: 0x0123456789ABCDEF}
	bs = BitStreamFromWord(w, 128)
	assert.Equal(t, 128, bs.Len())
	assert.Equal(t, w, bs.Word())
	data := bs.Bytes()
	assert.Len(t, data, 16)
	assert.Equal(t, byte(0x80), data[0])
	assert.Equal(t, byte(0xEF), data[15])
}
