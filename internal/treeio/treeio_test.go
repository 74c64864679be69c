package treeio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsw-daq/feconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
tds:
  timer: 0x1F
  bypass: 0b0101
  Strip_Match_Window: "7"
rocCoreDigital:
  rocId:
    roc_id: 37
    l1_first: true
  reg010.tx_csel: 3
comment:
  text: 1
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"tds", "rocCoreDigital", "comment"}, doc.Sections())

	tds, err := doc.Section("tds")
	require.NoError(t, err)
	assert.Equal(t, []feconf.Leaf{
		{Path: "timer", Value: feconf.W64(31)},
		{Path: "bypass", Value: feconf.W64(5)},
		{Path: "Strip_Match_Window", Value: feconf.W64(7)},
	}, tds.Leaves())

	roc, err := doc.Section("rocCoreDigital")
	require.NoError(t, err)
	v, _ := roc.GetUint64("rocId.l1_first")
	assert.Equal(t, uint64(1), v)
	v, _ = roc.GetUint64("reg010.tx_csel")
	assert.Equal(t, uint64(3), v, "dotted keys are split")

	_, err = doc.Section("art")
	assert.Error(t, err)

	all, err := doc.Tree()
	require.NoError(t, err)
	assert.Equal(t, 7, all.Len())
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"- 1\n- 2\n",
		"tds: 3\n",
		"tds:\n  timer: [1, 2]\n",
		"tds:\n  timer: twelve\n",
		"tds: {timer: 1",
	} {
		doc, err := Parse([]byte(bad))
		if err == nil {
			_, err = doc.Section("tds")
		}
		assert.Error(t, err, bad)
	}

	doc, err := Parse([]byte("tds:\n  timer: twelve\n"))
	require.NoError(t, err)
	_, err = doc.Section("tds")
	assert.ErrorIs(t, err, feconf.ErrBadNumber)
	assert.Contains(t, err.Error(), "line 2")

	for _, tt := range []struct {
		in   string
		want error
		line string
	}{
		{"tds:\n  timer: 1\n  timer.x: 2\n", feconf.ErrPathConflict, "line 3"},
		{"tds:\n  a.b: 1\n  a: 3\n", feconf.ErrPathConflict, "line 3"},
		{"tds:\n  a.b: 1\n  a:\n    b: 2\n", feconf.ErrDuplicateValue, "line 4"},
	} {
		doc, err := Parse([]byte(tt.in))
		require.NoError(t, err)
		_, err = doc.Section("tds")
		assert.ErrorIs(t, err, tt.want, tt.in)
		assert.ErrorContains(t, err, tt.line, tt.in)
	}

	doc, err = Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Sections())
}

func TestRewrite(t *testing.T) {
	doc, err := Parse([]byte(`
devices:
  layer1:
    roc: {a: 1, b: 2}
  layer2:
    roc: {a: 3}
    other: {a: 4}
roc: {a: 5}
`))
	require.NoError(t, err)

	double := func(t *feconf.Tree) (*feconf.Tree, error) {
		out := feconf.NewTree()
		for _, l := range t.Leaves() {
			out.Put("x."+l.Path, l.Value.Add(l.Value))
		}
		return out, nil
	}
	pick := func(key string) Converter {
		if key == "roc" {
			return double
		}
		return nil
	}
	n, err := doc.Rewrite(pick, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := doc.Tree()
	require.NoError(t, err)
	for path, want := range map[string]uint64{
		"devices.layer1.roc.x.a": 2, "devices.layer1.roc.x.b": 4,
		"devices.layer2.roc.x.a": 6, "devices.layer2.other.a": 4, "roc.x.a": 10,
	} {
		got, ok := all.GetUint64(path)
		if !ok || got != want {
			t.Errorf("%s=%d, want %d", path, got, want)
		}
	}
	data, err := doc.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(data), "0xa")
	assert.Less(t, strings.Index(string(data), "layer1"), strings.Index(string(data), "layer2"), "order kept")
}

func TestRewriteError(t *testing.T) {
	doc, err := Parse([]byte("a:\n  roc: {v: 1}\n"))
	require.NoError(t, err)
	fail := func(*feconf.Tree) (*feconf.Tree, error) { return nil, feconf.ErrUnknownValuePath }
	_, err = doc.Rewrite(func(string) Converter { return fail }, false)
	assert.ErrorIs(t, err, feconf.ErrUnknownValuePath)
	assert.Contains(t, err.Error(), "a")
}

func TestWriteAndRead(t *testing.T) {
	doc := NewDocument()
	tr := feconf.NewTree()
	tr.PutUint64("ePllVmm0.ePllPhase160MHz_0", 23)
	tr.PutUint64("ePllVmm0.ePllPhase40MHz_0", 5)
	tr.Put("wide", feconf.Word{Hi: 1})
	doc.SetSection("rocPllCoreAnalog", tr, false)
	doc.SetSection("empty", feconf.NewTree(), false)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, doc.WriteFile(path))
	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rocPllCoreAnalog", "empty"}, back.Sections())
	got, err := back.Section("rocPllCoreAnalog")
	require.NoError(t, err)
	assert.True(t, tr.Equal(got), got.String())
	assert.Equal(t, []string{"ePllPhase160MHz_0", "ePllPhase40MHz_0"}, got.Child("ePllVmm0").Keys())
	empty, err := back.Section("empty")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	// Replacing a section keeps its place.
	tr2 := feconf.NewTree()
	tr2.PutUint64("reg064.ePllPhase160MHz_0[4]", 1)
	back.SetSection("rocPllCoreAnalog", tr2, true)
	assert.Equal(t, []string{"rocPllCoreAnalog", "empty"}, back.Sections())
	got, _ = back.Section("rocPllCoreAnalog")
	v, _ := got.GetUint64("reg064.ePllPhase160MHz_0[4]")
	assert.Equal(t, uint64(1), v)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
