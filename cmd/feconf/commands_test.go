package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsw-daq/feconf"
	"github.com/nsw-daq/feconf/internal/treeio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedDocument = `
run: 17
rocPllCoreAnalog:
  ePllVmm0:
    ePllPhase160MHz_0: 23
rocCoreDigital:
  reg000:
    l1_first: 0
    even_parity: 1
    roc_id: 37
notes:
  version: 2
`

func TestConvertDocument(t *testing.T) {
	doc, err := treeio.Parse([]byte(mixedDocument))
	require.NoError(t, err)
	kinds := map[string]feconf.DeviceKind{"rocpllcoreanalog": feconf.RocAnalog, "roccoredigital": feconf.RocDigital}
	n, err := convertDocument(doc, kinds, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"run", "rocPllCoreAnalog", "rocCoreDigital", "notes"}, doc.Sections())

	analog, err := doc.Section("rocPllCoreAnalog")
	require.NoError(t, err)
	assert.Equal(t, []feconf.Leaf{
		{Path: "reg064.ePllPhase160MHz_0[4]", Value: feconf.W64(1)},
		{Path: "reg068.ePllPhase160MHz_0[3:0]", Value: feconf.W64(7)},
	}, analog.Leaves(), "value based became register based")

	digital, err := doc.Section("rocCoreDigital")
	require.NoError(t, err)
	v, _ := digital.GetUint64("rocId.roc_id")
	assert.Equal(t, uint64(37), v, "register based became value based")

	notes, err := doc.Section("notes")
	require.NoError(t, err)
	v, _ = notes.GetUint64("version")
	assert.Equal(t, uint64(2), v, "other sections untouched")

	// Converting twice gives back the input.
	_, err = convertDocument(doc, kinds, false)
	require.NoError(t, err)
	analog, _ = doc.Section("rocPllCoreAnalog")
	v, _ = analog.GetUint64("ePllVmm0.ePllPhase160MHz_0")
	assert.Equal(t, uint64(23), v)
}

func TestConvertSectionError(t *testing.T) {
	tree := feconf.NewTree()
	tree.PutUint64("nonsense", 1)
	_, err := convertSection(feconf.Tds, tree)
	assert.ErrorIs(t, err, feconf.ErrUnknownValuePath)
	assert.ErrorIs(t, err, feconf.ErrNoSuchAddress)

	doc, err := treeio.Parse([]byte("tds:\n  nonsense: 1\n"))
	require.NoError(t, err)
	_, err = convertDocument(doc, map[string]feconf.DeviceKind{"tds": feconf.Tds}, false)
	assert.ErrorContains(t, err, "tds")
}

func TestFlatten(t *testing.T) {
	values := feconf.NewTree()
	values.PutUint64("rocId.roc_id", 37)

	var buf bytes.Buffer
	n, err := flatten(&buf, feconf.RocDigital, values, feconf.Snapshot{"reg000": feconf.W64(0xC0)}, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "reg000 229\n", buf.String())

	buf.Reset()
	_, err = flatten(&buf, feconf.RocDigital, values, feconf.Snapshot{"reg000": feconf.W64(0xC0)}, true, true)
	require.NoError(t, err)
	assert.Equal(t, "reg000 0xe5\n", buf.String())

	_, err = flatten(&buf, feconf.RocDigital, values, nil, false, false)
	assert.ErrorIs(t, err, feconf.ErrReferenceUnavailable)

	buf.Reset()
	_, err = flatten(&buf, feconf.RocDigital, values, nil, true, false)
	require.NoError(t, err)
	assert.Equal(t, "reg000 37\n", buf.String(), "a fresh simulated bus reads zero")

	values.PutUint64("timeoutStatus.vmm0", 1)
	_, err = flatten(&buf, feconf.RocDigital, values, nil, true, false)
	assert.ErrorIs(t, err, feconf.ErrReadOnlyField)
}

func TestReadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(mixedDocument), 0644))

	section, err := readTree(path, "rocCoreDigital")
	require.NoError(t, err)
	assert.Equal(t, 3, section.Len())

	all, err := readTree(path, "")
	require.NoError(t, err)
	snap := snapshotFromTree(all)
	assert.Equal(t, feconf.W64(17), snap["run"])
	assert.Equal(t, feconf.W64(37), snap["rocCoreDigital.reg000.roc_id"])

	_, err = readTree(path, "tds")
	assert.Error(t, err)
}

func TestPrintBitstreams(t *testing.T) {
	registers := feconf.NewTree()
	registers.PutUint64("00.dllLockedV", 1)
	registers.PutUint64("00.reserved", 0)
	registers.PutUint64("00.dllLockCfg", 1)
	registers.PutUint64("00.muxEn2to8", 0)
	registers.PutUint64("00.muzEn1to8", 1)
	registers.PutUint64("00.dllCoarseLockDetection", 0)
	registers.PutUint64("00.dllResetFromCfg", 1)

	var buf bytes.Buffer
	n, err := printBitstreams(&buf, "art", feconf.ArtPs, registers, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "10010101")
	assert.Contains(t, lines[0], "0x95")
	assert.True(t, strings.HasSuffix(lines[1], " 95"), lines[1])

	_, err = printBitstreams(&buf, "art", feconf.ArtPs, registers, false)
	assert.ErrorIs(t, err, feconf.ErrMissingField)
}
