package feconf

import (
	"fmt"
	"strings"
)

// Access describes whether a field takes part in writes.
type Access int

// Field access kinds. Reserved placeholders consume width but are not part of
// the configuration vocabulary; read-only fields are decoded but never
// written.
const (
	ReadWrite Access = iota
	ReadOnly
	Reserved
)

// ReservedName is the field name used for placeholders in the tables.
const ReservedName = "NOT_USED"

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read-only"
	case Reserved:
		return "reserved"
	}
	return "read-write"
}

// Field is one named bit-field of a register.
type Field struct {
	Name   string
	Width  int
	Access Access
}

// RW, RO and NotUsed build table entries.
func RW(name string, width int) Field { return Field{name, width, ReadWrite} }
func RO(name string, width int) Field { return Field{name, width, ReadOnly} }
func NotUsed(width int) Field         { return Field{ReservedName, width, Reserved} }

// RegisterDef is the field list of one register address, most significant
// field first.
type RegisterDef struct {
	Address string
	Fields  []Field
}

// fieldPos locates a field inside a register bitstream.
type fieldPos struct {
	offset int // from the most significant bit
	field  Field
}

type registerLayout struct {
	fields   []Field
	index    map[string]fieldPos
	width    int
	writable bool
}

// Layout is the bit-field layout of one device kind: for every register
// address, the ordered list of named fields and their widths. It is immutable
// once built.
type Layout struct {
	kind      DeviceKind
	addresses []string
	registers map[string]*registerLayout
}

// NewLayout checks the register definitions and precomputes field offsets.
// For device kinds with a fixed register width every address must sum to
// exactly that width; otherwise each address must fit the kind's integer
// width.
func NewLayout(kind DeviceKind, defs []RegisterDef) (*Layout, error) {
	l := &Layout{kind: kind, registers: make(map[string]*registerLayout, len(defs))}
	for _, def := range defs {
		if def.Address == "" || strings.Contains(def.Address, ".") {
			return nil, fmt.Errorf("%v layout: bad address %q: %w", kind, def.Address, ErrBadTable)
		}
		if _, dup := l.registers[def.Address]; dup {
			return nil, fmt.Errorf("%v layout: duplicate address %q: %w", kind, def.Address, ErrBadTable)
		}
		reg := &registerLayout{index: make(map[string]fieldPos, len(def.Fields))}
		for _, f := range def.Fields {
			if f.Width < 1 {
				return nil, fmt.Errorf("%v layout: %s.%s has width %d: %w", kind, def.Address, f.Name, f.Width, ErrBadTable)
			}
			if f.Access != Reserved {
				if _, dup := reg.index[f.Name]; dup || f.Name == "" || strings.Contains(f.Name, ".") {
					return nil, fmt.Errorf("%v layout: bad or duplicate field %s.%q: %w", kind, def.Address, f.Name, ErrBadTable)
				}
				reg.index[f.Name] = fieldPos{offset: reg.width, field: f}
				if f.Access == ReadWrite {
					reg.writable = true
				}
			}
			reg.width += f.Width
		}
		reg.fields = append([]Field(nil), def.Fields...)
		switch fixed := kind.RegisterWidth(); {
		case fixed > 0 && reg.width != fixed:
			return nil, fmt.Errorf("%v layout: %s is %d bits wide, want %d: %w", kind, def.Address, reg.width, fixed, ErrBadTable)
		case reg.width > kind.IntWidth():
			return nil, fmt.Errorf("%v layout: %s is %d bits wide, more than %d: %w", kind, def.Address, reg.width, kind.IntWidth(), ErrBadTable)
		}
		l.registers[def.Address] = reg
		l.addresses = append(l.addresses, def.Address)
	}
	return l, nil
}

// Kind returns the device kind the layout belongs to.
func (l *Layout) Kind() DeviceKind {
	return l.kind
}

// Addresses returns every register address in declared order.
func (l *Layout) Addresses() []string {
	return append([]string(nil), l.addresses...)
}

// HasAddress reports whether address is part of the layout.
func (l *Layout) HasAddress(address string) bool {
	_, ok := l.registers[address]
	return ok
}

func (l *Layout) register(address string) (*registerLayout, error) {
	reg, ok := l.registers[address]
	if !ok {
		return nil, fmt.Errorf("%v register %q: %w", l.kind, address, ErrNoSuchAddress)
	}
	return reg, nil
}

func (l *Layout) position(address, name string) (fieldPos, int, error) {
	reg, err := l.register(address)
	if err != nil {
		return fieldPos{}, 0, err
	}
	pos, ok := reg.index[name]
	if !ok {
		return fieldPos{}, 0, fmt.Errorf("%v register %s field %q: %w", l.kind, address, name, ErrNoSuchField)
	}
	return pos, reg.width, nil
}

// Fields returns the ordered fields of an address, placeholders included.
func (l *Layout) Fields(address string) ([]Field, error) {
	reg, err := l.register(address)
	if err != nil {
		return nil, err
	}
	return append([]Field(nil), reg.fields...), nil
}

// Field returns the named field of an address. Placeholders are not
// addressable by name.
func (l *Layout) Field(address, name string) (Field, error) {
	pos, _, err := l.position(address, name)
	return pos.field, err
}

// RegisterWidth returns the total width in bits of an address.
func (l *Layout) RegisterWidth(address string) (int, error) {
	reg, err := l.register(address)
	if err != nil {
		return 0, err
	}
	return reg.width, nil
}

// FieldRange returns the offset of a field from the most significant bit of
// its register, and its width.
func (l *Layout) FieldRange(address, name string) (offset, width int, err error) {
	pos, _, err := l.position(address, name)
	if err != nil {
		return 0, 0, err
	}
	return pos.offset, pos.field.Width, nil
}

// FieldMask returns the bits a field occupies in the flat register value.
func (l *Layout) FieldMask(address, name string) (Word, error) {
	pos, regWidth, err := l.position(address, name)
	if err != nil {
		return Word{}, err
	}
	shift := regWidth - pos.offset - pos.field.Width
	return LowMask(pos.field.Width).Lsh(shift), nil
}

// Writable reports whether an address has at least one read-write field.
// Registers made only of read-only fields are never written.
func (l *Layout) Writable(address string) bool {
	reg, ok := l.registers[address]
	return ok && reg.writable
}
