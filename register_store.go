package feconf

import (
	"fmt"
	"io"
)

// RegisterStore owns the bitstreams of one device instance. Fields can be
// changed one at a time so that only the affected register has to be sent
// again. A RegisterStore is not safe for concurrent use.
type RegisterStore struct {
	name       string
	codec      *Codec
	addresses  []string
	bitstreams map[string]BitStream
}

// NewRegisterStore builds the bitstream of every writable register from a
// complete sub-register tree.
func NewRegisterStore(name string, kind DeviceKind, registers *Tree) (*RegisterStore, error) {
	return newRegisterStore(name, kind, registers, (*Codec).BuildConfig)
}

// NewRegisterStoreFromValues builds the store from a complete value tree,
// splitting the values into register fields first.
func NewRegisterStoreFromValues(name string, kind DeviceKind, values *Tree) (*RegisterStore, error) {
	dev, err := LookupDevice(kind)
	if err != nil {
		return nil, err
	}
	registers, err := ValueToSubRegister(dev.Map, values)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", name, err)
	}
	return NewRegisterStore(name, kind, registers)
}

// NewPartialRegisterStore builds bitstreams only for the registers present in
// the tree.
func NewPartialRegisterStore(name string, kind DeviceKind, registers *Tree) (*RegisterStore, error) {
	return newRegisterStore(name, kind, registers, (*Codec).BuildPartialConfig)
}

func newRegisterStore(name string, kind DeviceKind, registers *Tree,
	build func(*Codec, *Tree) (map[string]BitStream, error)) (*RegisterStore, error) {
	codec, err := NewCodec(kind)
	if err != nil {
		return nil, err
	}
	bitstreams, err := build(codec, registers)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", name, err)
	}
	s := &RegisterStore{name: name, codec: codec, bitstreams: bitstreams}
	for _, a := range codec.layout.addresses {
		if _, ok := bitstreams[a]; ok {
			s.addresses = append(s.addresses, a)
		}
	}
	return s, nil
}

// Name returns the device name given at construction.
func (s *RegisterStore) Name() string {
	return s.name
}

// Kind returns the device kind.
func (s *RegisterStore) Kind() DeviceKind {
	return s.codec.layout.Kind()
}

// Addresses returns the stored addresses in layout order.
func (s *RegisterStore) Addresses() []string {
	return append([]string(nil), s.addresses...)
}

func (s *RegisterStore) bitstream(address string) (BitStream, error) {
	bs, ok := s.bitstreams[address]
	if !ok {
		return nil, fmt.Errorf("device %s register %q: %w", s.name, address, ErrNoSuchAddress)
	}
	return bs, nil
}

// RegisterValue reads one field of one register.
func (s *RegisterStore) RegisterValue(address, field string) (Word, error) {
	bs, err := s.bitstream(address)
	if err != nil {
		return Word{}, err
	}
	return s.codec.GetField(bs, address, field)
}

// SetRegisterValue changes one field of one register. No other register is
// touched.
func (s *RegisterStore) SetRegisterValue(address, field string, value Word) error {
	bs, err := s.bitstream(address)
	if err != nil {
		return err
	}
	f, err := s.codec.layout.Field(address, field)
	if err != nil {
		return err
	}
	if f.Access == ReadOnly {
		return fmt.Errorf("device %s register %s field %s: %w", s.name, address, field, ErrReadOnlyField)
	}
	return s.codec.SetField(bs, address, field, value)
}

// Bitstream returns a copy of the bitstream of one register.
func (s *RegisterStore) Bitstream(address string) (BitStream, error) {
	bs, err := s.bitstream(address)
	if err != nil {
		return nil, err
	}
	return bs.Clone(), nil
}

// Bitstreams returns a copy of every stored bitstream.
func (s *RegisterStore) Bitstreams() map[string]BitStream {
	out := make(map[string]BitStream, len(s.bitstreams))
	for a, bs := range s.bitstreams {
		out[a] = bs.Clone()
	}
	return out
}

// Bytes returns the wire bytes of one register.
func (s *RegisterStore) Bytes(address string) ([]byte, error) {
	bs, err := s.bitstream(address)
	if err != nil {
		return nil, err
	}
	return bs.Bytes(), nil
}

// ReadRegister returns the stored integer of one register, so that a store
// can serve as the reference of a partial write.
func (s *RegisterStore) ReadRegister(address string) (Word, error) {
	bs, err := s.bitstream(address)
	if err != nil {
		return Word{}, fmt.Errorf("%w: %w", ErrReferenceUnavailable, err)
	}
	return bs.Word(), nil
}

// SubRegisterTree decodes every stored register back into named fields.
func (s *RegisterStore) SubRegisterTree() (*Tree, error) {
	out := NewTree()
	for _, a := range s.addresses {
		t, err := s.codec.Decode(a, s.bitstreams[a])
		if err != nil {
			return nil, err
		}
		for _, l := range t.Leaves() {
			out.Put(l.Path, l.Value)
		}
	}
	return out, nil
}

// Dump writes one line per register: address, bitstream and hex value.
func (s *RegisterStore) Dump(w io.Writer) error {
	for _, a := range s.addresses {
		bs := s.bitstreams[a]
		if _, err := fmt.Fprintf(w, "%-12s %s %s\n", a, bs, bs.Word().Hex()); err != nil {
			return err
		}
	}
	return nil
}
