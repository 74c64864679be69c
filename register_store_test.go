package feconf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artPsGroupZero() *Tree {
	t := NewTree()
	for _, f := range []struct {
		name string
		v    uint64
	}{
		{"dllLockedV", 0}, {"reserved", 0}, {"dllLockCfg", 1}, {"muxEn2to8", 0},
		{"muzEn1to8", 1}, {"dllCoarseLockDetection", 0}, {"dllResetFromCfg", 1},
	} {
		t.PutUint64("00."+f.name, f.v)
	}
	return t
}

func TestPartialRegisterStore(t *testing.T) {
	s, err := NewPartialRegisterStore("art0", ArtPs, artPsGroupZero())
	require.NoError(t, err)
	assert.Equal(t, "art0", s.Name())
	assert.Equal(t, ArtPs, s.Kind())
	assert.Equal(t, []string{"00"}, s.Addresses())

	bs, err := s.Bitstream("00")
	assert.NoError(t, err)
	assert.Equal(t, "00010101", bs.String())
	data, err := s.Bytes("00")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x15}, data)

	var buf bytes.Buffer
	assert.NoError(t, s.Dump(&buf))
	assert.Equal(t, "00"+strings.Repeat(" ", 11)+"00010101 0x15\n", buf.String())

	assert.NoError(t, s.SetRegisterValue("00", "dllLockCfg", W64(2)))
	v, err := s.RegisterValue("00", "dllLockCfg")
	assert.NoError(t, err)
	assert.Equal(t, W64(2), v)
	assert.Equal(t, "00010101", bs.String(), "earlier copies are not changed")
	bs, _ = s.Bitstream("00")
	assert.Equal(t, "00100101", bs.String())

	assert.ErrorIs(t, s.SetRegisterValue("00", "dllLockedV", W64(1)), ErrReadOnlyField)
	assert.ErrorIs(t, s.SetRegisterValue("00", "dllLockCfg", W64(4)), ErrRegisterOverflow)
	assert.ErrorIs(t, s.SetRegisterValue("01", "dataRateDll", W64(1)), ErrNoSuchAddress)
	assert.ErrorIs(t, s.SetRegisterValue("00", "dataRateDll", W64(1)), ErrNoSuchField)

	_, err = s.ReadRegister("01")
	assert.ErrorIs(t, err, ErrReferenceUnavailable)
	assert.ErrorIs(t, err, ErrNoSuchAddress)

	sub, err := s.SubRegisterTree()
	assert.NoError(t, err)
	want := artPsGroupZero()
	want.PutUint64("00.dllLockCfg", 2)
	assert.True(t, want.Equal(sub), sub.String())
}

// A store can complete a partial write from what it last sent.
func TestRegisterStoreAsReference(t *testing.T) {
	s, err := NewPartialRegisterStore("art0", ArtPs, artPsGroupZero())
	require.NoError(t, err)
	tr, err := NewTranslator(ArtPs, valueTree(map[string]uint64{"00.dllLockCfg": 2}), ValueBased)
	require.NoError(t, err)
	flat, err := tr.FlatWithReference(s)
	require.NoError(t, err)
	got, _ := flat.GetUint64("00")
	assert.Equal(t, uint64(0x25), got)
}

func TestFullRegisterStore(t *testing.T) {
	_, err := NewRegisterStore("art0", ArtPs, artPsGroupZero())
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "art0")

	values := NewTree()
	for _, path := range MustLookupDevice(RocDigital).Map.Paths() {
		values.PutUint64(path, 0)
	}
	values.PutUint64("rocId.roc_id", 37)
	tr, err := NewTranslator(RocDigital, values, ValueBased)
	require.NoError(t, err)
	sub, err := tr.SubRegisterTree()
	require.NoError(t, err)

	s, err := NewRegisterStore("roc", RocDigital, sub)
	require.NoError(t, err)
	assert.Len(t, s.Addresses(), 22, "the read-only status register is not stored")
	before := s.Bitstreams()

	require.NoError(t, s.SetRegisterValue("reg009", "timeout", W64(0xFF)))
	after := s.Bitstreams()
	for a, bs := range before {
		if a == "reg009" {
			assert.Equal(t, "11111111", after[a].String())
			continue
		}
		assert.Equal(t, bs, after[a], a)
	}
	v, _ := s.ReadRegister("reg000")
	assert.Equal(t, W64(37), v)
}

func TestRegisterStoreFromValues(t *testing.T) {
	values := NewTree()
	for _, path := range MustLookupDevice(RocAnalog).Map.Paths() {
		values.PutUint64(path, 0)
	}
	values.PutUint64("ePllVmm0.ePllPhase160MHz_0", 23)

	s, err := NewRegisterStoreFromValues("roc", RocAnalog, values)
	require.NoError(t, err)
	v, err := s.RegisterValue("reg064", "ePllPhase160MHz_0[4]")
	assert.NoError(t, err)
	assert.Equal(t, W64(1), v)
	v, err = s.RegisterValue("reg068", "ePllPhase160MHz_0[3:0]")
	assert.NoError(t, err)
	assert.Equal(t, W64(7), v)

	values.PutUint64("ePllVmm0.nonsense", 1)
	_, err = NewRegisterStoreFromValues("roc", RocAnalog, values)
	assert.ErrorIs(t, err, ErrUnknownValuePath)
	assert.ErrorContains(t, err, "roc")

	partial := NewTree()
	partial.PutUint64("ePllVmm0.ePllPhase160MHz_0", 23)
	_, err = NewRegisterStoreFromValues("roc", RocAnalog, partial)
	assert.ErrorIs(t, err, ErrMissingField, "every register must be complete")
}
