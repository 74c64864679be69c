package feconf

import (
	"fmt"
	"sort"
	"strings"
)

// Fragment connects part of a configuration value to part of a register.
// Target is "<address>.<field>". RegisterMask marks the bits the fragment
// occupies in the flat register value, ValueMask the bits it takes from the
// value; both hold the same number of set bits. A zero mask in a table entry
// means "the whole field" and is filled in when the map is built.
type Fragment struct {
	Target       string
	RegisterMask Word
	ValueMask    Word
}

// Address returns the register address part of the target.
func (f Fragment) Address() string {
	address, _, _ := strings.Cut(f.Target, ".")
	return address
}

// FieldName returns the field part of the target.
func (f Fragment) FieldName() string {
	_, field, _ := strings.Cut(f.Target, ".")
	return field
}

// ValueDef is one table entry: a value path and its fragments. Aliases are
// further names accepted for the same value; results use Path.
type ValueDef struct {
	Path      string
	Fragments []Fragment
	Aliases   []string
}

// Frag builds a fragment from uint64 masks, for tables of byte registers.
func Frag(target string, registerMask, valueMask uint64) Fragment {
	return Fragment{target, W64(registerMask), W64(valueMask)}
}

// Whole builds a fragment covering an entire field with the low bits of the
// value.
func Whole(target string) Fragment {
	return Fragment{Target: target}
}

// Owner identifies the value path a register field belongs to.
type Owner struct {
	Path     string
	Fragment Fragment
}

// TranslationMap maps value paths to the register fragments they are made
// of. It is built once per device kind and read-only afterwards. A reverse
// index from register field to owning value path is built alongside.
type TranslationMap struct {
	layout     *Layout
	paths      []string
	fragments  map[string][]Fragment
	valueMasks map[string]Word
	owners     map[string]Owner
	aliases    map[string]string
}

// NewTranslationMap resolves and validates the value definitions against a
// layout. Every failure is a static-table defect.
func NewTranslationMap(layout *Layout, defs []ValueDef) (*TranslationMap, error) {
	kind := layout.Kind()
	m := &TranslationMap{
		layout:     layout,
		fragments:  make(map[string][]Fragment, len(defs)),
		valueMasks: make(map[string]Word, len(defs)),
		owners:     make(map[string]Owner),
		aliases:    make(map[string]string),
	}
	covered := make(map[string]Word)
	for _, def := range defs {
		if _, dup := m.fragments[def.Path]; dup || m.aliases[def.Path] != "" || def.Path == "" {
			return nil, fmt.Errorf("%v map: bad or duplicate value path %q: %w", kind, def.Path, ErrBadTable)
		}
		if len(def.Fragments) == 0 {
			return nil, fmt.Errorf("%v map: %s has no fragments: %w", kind, def.Path, ErrBadTable)
		}
		var valueMask Word
		frags := make([]Fragment, 0, len(def.Fragments))
		for _, f := range def.Fragments {
			f, err := m.resolve(f)
			if err != nil {
				return nil, fmt.Errorf("%v map: %s: %w", kind, def.Path, err)
			}
			if prev, dup := m.owners[f.Target]; dup {
				return nil, fmt.Errorf("%v map: %s claimed by %s and %s: %w",
					kind, f.Target, prev.Path, def.Path, ErrAmbiguousField)
			}
			address := f.Address()
			if !covered[address].And(f.RegisterMask).IsZero() {
				return nil, fmt.Errorf("%v map: %s (%s) overlaps bits already used in %s: %w",
					kind, f.Target, def.Path, address, ErrOverlappingFragments)
			}
			if !valueMask.And(f.ValueMask).IsZero() {
				return nil, fmt.Errorf("%v map: value bits of %s used twice: %w", kind, def.Path, ErrOverlappingFragments)
			}
			fieldMask, _ := layout.FieldMask(address, f.FieldName())
			if fieldMask != f.RegisterMask {
				return nil, fmt.Errorf("%v map: %s register mask %s does not match layout bits %s: %w",
					kind, f.Target, f.RegisterMask.Hex(), fieldMask.Hex(), ErrBadTable)
			}
			covered[address] = covered[address].Or(f.RegisterMask)
			valueMask = valueMask.Or(f.ValueMask)
			m.owners[f.Target] = Owner{def.Path, f}
			frags = append(frags, f)
		}
		if !valueMask.FitsIn(kind.IntWidth()) {
			return nil, fmt.Errorf("%v map: %s needs more than %d bits: %w", kind, def.Path, kind.IntWidth(), ErrBadTable)
		}
		for _, alias := range def.Aliases {
			if _, dup := m.fragments[alias]; dup || m.aliases[alias] != "" || alias == "" || alias == def.Path {
				return nil, fmt.Errorf("%v map: bad or duplicate alias %q of %s: %w", kind, alias, def.Path, ErrBadTable)
			}
			m.aliases[alias] = def.Path
		}
		m.paths = append(m.paths, def.Path)
		m.fragments[def.Path] = frags
		m.valueMasks[def.Path] = valueMask
	}
	return m, nil
}

// resolve fills in default masks and checks a fragment against the layout.
func (m *TranslationMap) resolve(f Fragment) (Fragment, error) {
	address, field := f.Address(), f.FieldName()
	if field == "" {
		return f, fmt.Errorf("target %q has no field: %w", f.Target, ErrBadTable)
	}
	_, width, err := m.layout.FieldRange(address, field)
	if err != nil {
		return f, fmt.Errorf("target %q: %v: %w", f.Target, err, ErrBadTable)
	}
	if fld, _ := m.layout.Field(address, field); fld.Access == Reserved {
		return f, fmt.Errorf("target %q is a placeholder: %w", f.Target, ErrBadTable)
	}
	if f.RegisterMask.IsZero() {
		f.RegisterMask, _ = m.layout.FieldMask(address, field)
	}
	if f.ValueMask.IsZero() {
		f.ValueMask = LowMask(f.RegisterMask.OnesCount())
	}
	switch {
	case f.RegisterMask.OnesCount() != f.ValueMask.OnesCount():
		return f, fmt.Errorf("target %q: register mask %s and value mask %s differ in size: %w",
			f.Target, f.RegisterMask.Hex(), f.ValueMask.Hex(), ErrBadTable)
	case f.RegisterMask.OnesCount() != width:
		return f, fmt.Errorf("target %q: mask holds %d bits but the field is %d bits wide: %w",
			f.Target, f.RegisterMask.OnesCount(), width, ErrBadTable)
	case !f.RegisterMask.Contiguous() || !f.ValueMask.Contiguous():
		return f, fmt.Errorf("target %q: masks must be contiguous: %w", f.Target, ErrBadTable)
	}
	return f, nil
}

// Layout returns the layout the map was validated against.
func (m *TranslationMap) Layout() *Layout {
	return m.layout
}

// Len returns the number of value paths.
func (m *TranslationMap) Len() int {
	return len(m.paths)
}

// Paths returns every value path in table order.
func (m *TranslationMap) Paths() []string {
	return append([]string(nil), m.paths...)
}

// Canonical returns the table name of a value path or alias.
func (m *TranslationMap) Canonical(path string) (string, bool) {
	if p, ok := m.aliases[path]; ok {
		return p, true
	}
	_, ok := m.fragments[path]
	return path, ok
}

// Has reports whether path is a known value path or alias.
func (m *TranslationMap) Has(path string) bool {
	_, ok := m.Canonical(path)
	return ok
}

// Fragments returns the fragments of a value path or alias.
func (m *TranslationMap) Fragments(path string) ([]Fragment, error) {
	path, _ = m.Canonical(path)
	frags, ok := m.fragments[path]
	if !ok {
		return nil, fmt.Errorf("%v: %q: %w", m.layout.Kind(), path, ErrUnknownValuePath)
	}
	return append([]Fragment(nil), frags...), nil
}

// ValueMask returns the union of the value masks of a path: the bits a value
// may use.
func (m *TranslationMap) ValueMask(path string) (Word, bool) {
	path, _ = m.Canonical(path)
	mask, ok := m.valueMasks[path]
	return mask, ok
}

// Owner looks up, through the reverse index, the value path and fragment a
// register field ("<address>.<field>") belongs to.
func (m *TranslationMap) Owner(target string) (Owner, bool) {
	o, ok := m.owners[target]
	return o, ok
}

// RegistersForValue returns the sorted set of addresses a value path touches.
func (m *TranslationMap) RegistersForValue(path string) ([]string, error) {
	frags, err := m.Fragments(path)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var addresses []string
	for _, f := range frags {
		if a := f.Address(); !seen[a] {
			seen[a] = true
			addresses = append(addresses, a)
		}
	}
	sort.Strings(addresses)
	return addresses, nil
}
