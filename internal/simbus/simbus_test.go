package simbus

import (
	"errors"
	"testing"

	"github.com/nsw-daq/feconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus, err := New("roc", feconf.RocDigital, feconf.Snapshot{"reg000": feconf.W64(0xC0)})
	require.NoError(t, err)

	v, err := bus.ReadRegister("reg000")
	assert.NoError(t, err)
	assert.Equal(t, feconf.W64(0xC0), v)
	v, err = bus.ReadRegister("reg031")
	assert.NoError(t, err)
	assert.Equal(t, feconf.Word{}, v, "registers start at zero")
	_, err = bus.ReadRegister("reg200")
	assert.ErrorIs(t, err, feconf.ErrNoSuchAddress)
	assert.Equal(t, 2, bus.Reads())

	assert.NoError(t, bus.WriteRegister("reg000", feconf.W64(0xE5)))
	assert.ErrorIs(t, bus.WriteRegister("reg000", feconf.W64(0x100)), feconf.ErrRegisterOverflow)
	assert.NoError(t, bus.WriteBytes("reg009", []byte{0x7F}))
	assert.ErrorIs(t, bus.WriteBytes("reg009", []byte{0x7F, 0}), feconf.ErrSizeMismatch)

	writes := bus.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "reg000", writes[0].Address)
	assert.Equal(t, feconf.W64(0x7F), writes[1].Value)
	assert.False(t, writes[1].Time.Before(writes[0].Time))
	assert.Equal(t, feconf.W64(0xE5), bus.Snapshot()["reg000"])
	assert.Equal(t, 2, bus.Inspect())

	assert.NoError(t, bus.Close())
	assert.Error(t, bus.Close())
	_, err = bus.ReadRegister("reg000")
	assert.Error(t, err)
	assert.Error(t, bus.WriteRegister("reg000", feconf.Word{}))
}

func TestNewErrors(t *testing.T) {
	_, err := New("roc", feconf.RocDigital, feconf.Snapshot{"reg000": feconf.W64(0x1FF)})
	assert.ErrorIs(t, err, feconf.ErrRegisterOverflow)
	_, err = New("roc", feconf.RocDigital, feconf.Snapshot{"register0": feconf.Word{}})
	assert.ErrorIs(t, err, feconf.ErrNoSuchAddress)
	_, err = New("x", feconf.DeviceKind(40), nil)
	assert.ErrorIs(t, err, feconf.ErrUnknownDeviceKind)
}

// A failing read aborts a partial write and leaves the bus untouched.
func TestFaultDuringMerge(t *testing.T) {
	bus, err := New("roc", feconf.RocDigital, nil)
	require.NoError(t, err)
	values := feconf.NewTree()
	values.PutUint64("rocId.roc_id", 37)
	tr, err := feconf.NewTranslator(feconf.RocDigital, values, feconf.ValueBased)
	require.NoError(t, err)

	errLink := errors.New("link down")
	bus.Fail("reg000", errLink)
	_, err = tr.FlatWithReference(bus)
	assert.ErrorIs(t, err, errLink)
	assert.Empty(t, bus.Writes())

	bus.Fail("reg000", nil)
	flat, err := tr.FlatWithReference(bus)
	require.NoError(t, err)
	require.NoError(t, bus.WriteTree(flat))
	v, _ := bus.ReadRegister("reg000")
	assert.Equal(t, feconf.W64(37), v)

	// The bus serves the read-back of values too.
	back, err := feconf.ReadValues(feconf.RocDigital, []string{"rocId.roc_id"}, bus)
	require.NoError(t, err)
	got, _ := back.GetUint64("rocId.roc_id")
	assert.Equal(t, uint64(37), got)
}
