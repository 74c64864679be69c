package feconf

import (
	"fmt"
	"sort"
	"sync"
)

// ConfigType names the representation a Translator is built from.
type ConfigType int

// The two source representations.
const (
	ValueBased ConfigType = iota
	RegisterBased
)

func (c ConfigType) String() string {
	if c == RegisterBased {
		return "register-based"
	}
	return "value-based"
}

// ReferenceLookup supplies the last-known or live value of a register, of the
// register's declared width. It is consulted only when merging a partial
// configuration.
type ReferenceLookup interface {
	ReadRegister(address string) (Word, error)
}

// ReferenceFunc adapts a function to the ReferenceLookup interface.
type ReferenceFunc func(address string) (Word, error)

// ReadRegister calls f(address).
func (f ReferenceFunc) ReadRegister(address string) (Word, error) {
	return f(address)
}

// Snapshot is a prior full readout of a device, by address.
type Snapshot map[string]Word

// ReadRegister returns the snapshot value, or ErrReferenceUnavailable.
func (s Snapshot) ReadRegister(address string) (Word, error) {
	v, ok := s[address]
	if !ok {
		return Word{}, fmt.Errorf("register %s not in snapshot: %w", address, ErrReferenceUnavailable)
	}
	return v, nil
}

// FlatConfig is a flat register configuration that may cover only part of
// some registers: for every address it holds the written bits and the mask
// of bits the configuration supplies.
type FlatConfig struct {
	layout    *Layout
	addresses []string
	written   map[string]Word
	masks     map[string]Word
}

func newFlatConfig(layout *Layout) *FlatConfig {
	return &FlatConfig{layout: layout, written: make(map[string]Word), masks: make(map[string]Word)}
}

func (fc *FlatConfig) add(address string, placed, mask Word) {
	if _, ok := fc.masks[address]; !ok {
		fc.addresses = append(fc.addresses, address)
	}
	fc.written[address] = fc.written[address].Add(placed)
	fc.masks[address] = fc.masks[address].Or(mask)
}

// Kind returns the device kind of the configuration.
func (fc *FlatConfig) Kind() DeviceKind {
	return fc.layout.Kind()
}

// Addresses returns the touched addresses in the order they were first
// written.
func (fc *FlatConfig) Addresses() []string {
	return append([]string(nil), fc.addresses...)
}

// Value returns the written bits of an address.
func (fc *FlatConfig) Value(address string) (Word, bool) {
	v, ok := fc.written[address]
	return v, ok
}

// Mask returns the covered bits of an address.
func (fc *FlatConfig) Mask(address string) (Word, bool) {
	m, ok := fc.masks[address]
	return m, ok
}

// Complete reports whether the configuration supplies every bit of address.
func (fc *FlatConfig) Complete(address string) bool {
	width, err := fc.layout.RegisterWidth(address)
	if err != nil {
		return false
	}
	return fc.masks[address] == LowMask(width)
}

// Tree returns the written values as a flat tree, one leaf per address.
// Uncovered bits read as zero.
func (fc *FlatConfig) Tree() *Tree {
	t := NewTree()
	for _, a := range fc.addresses {
		t.Put(a, fc.written[a])
	}
	return t
}

// checkValue verifies a value fits both the kind's integer width and the bits
// its fragments can carry, and that no value is set twice through an alias.
func checkValue(tmap *TranslationMap, seen map[string]string, path string, v Word) error {
	kind := tmap.layout.Kind()
	p, _ := tmap.Canonical(path)
	if prev, dup := seen[p]; dup {
		return fmt.Errorf("%v values %s and %s both set %s: %w", kind, prev, path, p, ErrDuplicateValue)
	}
	seen[p] = path
	if !v.FitsIn(kind.IntWidth()) {
		return fmt.Errorf("%v value %s = %s exceeds %d bits: %w", kind, path, v, kind.IntWidth(), ErrRegisterOverflow)
	}
	mask, _ := tmap.ValueMask(path)
	if !v.AndNot(mask).IsZero() {
		return fmt.Errorf("%v value %s = %s does not fit mask %s: %w", kind, path, v, mask.Hex(), ErrRegisterOverflow)
	}
	return nil
}

// ValueToSubRegister splits every value into the named register fields its
// fragments target. Each fragment receives its slice of the value shifted
// down to bit 0; the codec places it by field name.
func ValueToSubRegister(tmap *TranslationMap, values *Tree) (*Tree, error) {
	out := NewTree()
	seen := make(map[string]string)
	for _, leaf := range values.Leaves() {
		frags, err := tmap.Fragments(leaf.Path)
		if err != nil {
			return nil, err
		}
		if err := checkValue(tmap, seen, leaf.Path, leaf.Value); err != nil {
			return nil, err
		}
		for _, f := range frags {
			out.Put(f.Target, leaf.Value.And(f.ValueMask).Rsh(f.ValueMask.TrailingZeros()))
		}
	}
	return out, nil
}

// ownerOf finds, through the reverse index, the value path a register field
// leaf contributes to.
func ownerOf(tmap *TranslationMap, target string) (Owner, error) {
	if o, ok := tmap.Owner(target); ok {
		return o, nil
	}
	kind := tmap.layout.Kind()
	f := Fragment{Target: target}
	if _, err := tmap.layout.Field(f.Address(), f.FieldName()); err != nil {
		return Owner{}, err
	}
	return Owner{}, fmt.Errorf("%v register field %s belongs to no value: %w", kind, target, ErrAmbiguousField)
}

// SubRegisterToValue reassembles values from named register fields. The
// pieces of a multi-fragment value are shifted back into place and summed.
func SubRegisterToValue(tmap *TranslationMap, registers *Tree) (*Tree, error) {
	out := NewTree()
	for _, leaf := range registers.Leaves() {
		o, err := ownerOf(tmap, leaf.Path)
		if err != nil {
			return nil, err
		}
		width := o.Fragment.RegisterMask.OnesCount()
		if !leaf.Value.FitsIn(width) {
			return nil, fmt.Errorf("%v register field %s = %s exceeds %d bits: %w",
				tmap.layout.Kind(), leaf.Path, leaf.Value, width, ErrRegisterOverflow)
		}
		sum, _ := out.Get(o.Path)
		out.Put(o.Path, sum.Add(leaf.Value.Lsh(o.Fragment.ValueMask.TrailingZeros())))
	}
	return out, nil
}

// ValueToFlatRegisterWithMask places every value directly into the flat
// register integers and records which bits were supplied. Read-only fields
// cannot be written.
func ValueToFlatRegisterWithMask(tmap *TranslationMap, values *Tree) (*FlatConfig, error) {
	layout := tmap.layout
	fc := newFlatConfig(layout)
	seen := make(map[string]string)
	for _, leaf := range values.Leaves() {
		frags, err := tmap.Fragments(leaf.Path)
		if err != nil {
			return nil, err
		}
		if err := checkValue(tmap, seen, leaf.Path, leaf.Value); err != nil {
			return nil, err
		}
		for _, f := range frags {
			if fld, _ := layout.Field(f.Address(), f.FieldName()); fld.Access == ReadOnly {
				return nil, fmt.Errorf("%v value %s targets %s: %w", layout.Kind(), leaf.Path, f.Target, ErrReadOnlyField)
			}
			placed := leaf.Value.And(f.ValueMask).Rsh(f.ValueMask.TrailingZeros()).Lsh(f.RegisterMask.TrailingZeros())
			fc.add(f.Address(), placed, f.RegisterMask)
		}
	}
	for _, address := range fc.addresses {
		width, _ := layout.RegisterWidth(address)
		mask := fc.masks[address]
		if mask.OnesCount() == width && mask.Not().TrailingZeros() != width {
			return nil, fmt.Errorf("%v register %s covered by mask %s: %w",
				layout.Kind(), address, mask.Hex(), ErrInconsistentCoverage)
		}
	}
	return fc, nil
}

// MergeWithReference completes every partially covered register with the
// uncovered bits of a reference value:
//
//	final = written | (reference &^ mask)
//
// A failing lookup aborts the merge and its error is returned wrapped with
// the address; nothing is defaulted.
func MergeWithReference(fc *FlatConfig, ref ReferenceLookup) (*Tree, error) {
	out := NewTree()
	for _, address := range fc.addresses {
		written := fc.written[address]
		if fc.Complete(address) {
			out.Put(address, written)
			continue
		}
		r, err := ref.ReadRegister(address)
		if err != nil {
			return nil, fmt.Errorf("%v reference for register %s: %w", fc.Kind(), address, err)
		}
		width, _ := fc.layout.RegisterWidth(address)
		if !r.FitsIn(width) {
			return nil, fmt.Errorf("%v reference for register %s = %s exceeds %d bits: %w",
				fc.Kind(), address, r.Hex(), width, ErrRegisterOverflow)
		}
		out.Put(address, written.Or(r.AndNot(fc.masks[address])))
	}
	return out, nil
}

// RegisterToSubRegister splits flat register integers (one leaf per address)
// into their named fields. With a non-empty list of value paths, only fields
// contributing to those values are kept.
func RegisterToSubRegister(kind DeviceKind, flat *Tree, values []string) (*Tree, error) {
	dev, err := LookupDevice(kind)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		p, ok := dev.Map.Canonical(v)
		if !ok {
			return nil, fmt.Errorf("%v: %q: %w", kind, v, ErrUnknownValuePath)
		}
		wanted[p] = true
	}
	out := NewTree()
	for _, leaf := range flat.Leaves() {
		width, err := dev.Layout.RegisterWidth(leaf.Path)
		if err != nil {
			return nil, err
		}
		if !leaf.Value.FitsIn(width) {
			return nil, fmt.Errorf("%v register %s = %s exceeds %d bits: %w", kind, leaf.Path, leaf.Value, width, ErrRegisterOverflow)
		}
		fields, _ := dev.Layout.Fields(leaf.Path)
		for _, f := range fields {
			if f.Access == Reserved {
				continue
			}
			target := leaf.Path + "." + f.Name
			if len(wanted) > 0 {
				if o, ok := dev.Map.Owner(target); !ok || !wanted[o.Path] {
					continue
				}
			}
			mask, _ := dev.Layout.FieldMask(leaf.Path, f.Name)
			out.Put(target, leaf.Value.And(mask).Rsh(mask.TrailingZeros()))
		}
	}
	return out, nil
}

// RegistersForValues returns the sorted union of the addresses the listed
// value paths touch.
func RegistersForValues(tmap *TranslationMap, values []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		addresses, err := tmap.RegistersForValue(v)
		if err != nil {
			return nil, err
		}
		for _, a := range addresses {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadValues reads back the registers holding the listed values and
// reassembles the values.
func ReadValues(kind DeviceKind, values []string, ref ReferenceLookup) (*Tree, error) {
	dev, err := LookupDevice(kind)
	if err != nil {
		return nil, err
	}
	addresses, err := RegistersForValues(dev.Map, values)
	if err != nil {
		return nil, err
	}
	flat := NewTree()
	for _, a := range addresses {
		v, err := ref.ReadRegister(a)
		if err != nil {
			return nil, fmt.Errorf("%v register %s: %w", kind, a, err)
		}
		flat.Put(a, v)
	}
	regs, err := RegisterToSubRegister(kind, flat, values)
	if err != nil {
		return nil, err
	}
	return SubRegisterToValue(dev.Map, regs)
}

// Translator holds one configuration and derives its other representations
// on first request, caching each result (or error) for its lifetime.
type Translator struct {
	dev    *Device
	source ConfigType
	input  *Tree

	valueOnce sync.Once
	values    *Tree
	valueErr  error

	subOnce sync.Once
	sub     *Tree
	subErr  error

	flatOnce sync.Once
	flat     *FlatConfig
	flatErr  error
}

// NewTranslator wraps a value-based or sub-register-based tree of one device
// kind. The tree is copied.
func NewTranslator(kind DeviceKind, tree *Tree, source ConfigType) (*Translator, error) {
	dev, err := LookupDevice(kind)
	if err != nil {
		return nil, err
	}
	return &Translator{dev: dev, source: source, input: tree.Clone()}, nil
}

// Kind returns the translator's device kind.
func (t *Translator) Kind() DeviceKind {
	return t.dev.Kind
}

// Source returns the representation the translator was built from.
func (t *Translator) Source() ConfigType {
	return t.source
}

// ValueTree returns the value representation.
func (t *Translator) ValueTree() (*Tree, error) {
	t.valueOnce.Do(func() {
		if t.source == ValueBased {
			t.values = t.input
			return
		}
		t.values, t.valueErr = SubRegisterToValue(t.dev.Map, t.input)
	})
	return t.values.Clone(), t.valueErr
}

// SubRegisterTree returns the sub-register representation.
func (t *Translator) SubRegisterTree() (*Tree, error) {
	t.subOnce.Do(func() {
		if t.source == RegisterBased {
			t.sub = t.input
			return
		}
		t.sub, t.subErr = ValueToSubRegister(t.dev.Map, t.input)
	})
	return t.sub.Clone(), t.subErr
}

// Flat returns the flat registers with their covered masks.
func (t *Translator) Flat() (*FlatConfig, error) {
	t.flatOnce.Do(func() {
		values, err := t.ValueTree()
		if err != nil {
			t.flatErr = err
			return
		}
		t.flat, t.flatErr = ValueToFlatRegisterWithMask(t.dev.Map, values)
	})
	return t.flat, t.flatErr
}

// FlatWithReference returns one integer per touched address, completing
// partially covered registers from ref.
func (t *Translator) FlatWithReference(ref ReferenceLookup) (*Tree, error) {
	fc, err := t.Flat()
	if err != nil {
		return nil, err
	}
	return MergeWithReference(fc, ref)
}

// FlatWithSnapshot is FlatWithReference against a prior full readout.
func (t *Translator) FlatWithSnapshot(snapshot map[string]Word) (*Tree, error) {
	return t.FlatWithReference(Snapshot(snapshot))
}
