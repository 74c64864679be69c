package feconf

import (
	"fmt"
)

// Codec converts between the named bit-fields of one register address and
// that address's bitstream. It performs no I/O.
type Codec struct {
	layout *Layout
}

// NewCodec returns the codec of a device kind.
func NewCodec(kind DeviceKind) (*Codec, error) {
	dev, err := LookupDevice(kind)
	if err != nil {
		return nil, err
	}
	return &Codec{layout: dev.Layout}, nil
}

// NewLayoutCodec returns a codec for an arbitrary layout.
func NewLayoutCodec(layout *Layout) *Codec {
	return &Codec{layout: layout}
}

// Layout returns the codec's layout.
func (c *Codec) Layout() *Layout {
	return c.layout
}

// BuildBitstream concatenates the fields of one address in declared order.
// Every read-write field must be present in fieldValues; read-only fields
// default to zero and placeholders are always zero. Names in fieldValues
// that are not fields of the address are rejected.
func (c *Codec) BuildBitstream(address string, fieldValues map[string]Word) (BitStream, error) {
	reg, err := c.layout.register(address)
	if err != nil {
		return nil, err
	}
	for name := range fieldValues {
		if _, ok := reg.index[name]; !ok {
			return nil, fmt.Errorf("%v register %s field %q: %w", c.layout.kind, address, name, ErrNoSuchField)
		}
	}
	bs := make(BitStream, 0, reg.width)
	for _, f := range reg.fields {
		var v Word
		switch f.Access {
		case Reserved:
		case ReadOnly:
			v = fieldValues[f.Name]
		default:
			var ok bool
			if v, ok = fieldValues[f.Name]; !ok {
				return nil, fmt.Errorf("%v register %s field %s: %w", c.layout.kind, address, f.Name, ErrMissingField)
			}
		}
		if !v.FitsIn(f.Width) {
			return nil, fmt.Errorf("%v register %s field %s: %s needs more than %d bits: %w",
				c.layout.kind, address, f.Name, v, f.Width, ErrRegisterOverflow)
		}
		bs = append(bs, v.Binary(f.Width)...)
	}
	return bs, nil
}

// fieldValues collects the leaves directly below one address node.
func (c *Codec) fieldValues(address string, node *Tree) (map[string]Word, error) {
	values := make(map[string]Word)
	for _, key := range node.Keys() {
		child := node.Child(key)
		if !child.IsLeaf() {
			return nil, fmt.Errorf("%v register %s: %q is not a field value: %w", c.layout.kind, address, key, ErrNoSuchField)
		}
		values[key] = child.Value()
	}
	return values, nil
}

// BuildConfig builds the bitstream of every writable address from a
// sub-register tree ("<address>.<field>" leaves). Every writable address
// must be present.
func (c *Codec) BuildConfig(tree *Tree) (map[string]BitStream, error) {
	if err := c.checkAddresses(tree); err != nil {
		return nil, err
	}
	out := make(map[string]BitStream)
	for _, address := range c.layout.addresses {
		if !c.layout.Writable(address) {
			continue
		}
		node := tree.Child(address)
		if node == nil {
			return nil, fmt.Errorf("%v register %s: %w", c.layout.kind, address, ErrMissingField)
		}
		bs, err := c.buildNode(address, node)
		if err != nil {
			return nil, err
		}
		out[address] = bs
	}
	return out, nil
}

// BuildPartialConfig builds bitstreams only for the addresses present in the
// tree.
func (c *Codec) BuildPartialConfig(tree *Tree) (map[string]BitStream, error) {
	if err := c.checkAddresses(tree); err != nil {
		return nil, err
	}
	out := make(map[string]BitStream)
	for _, address := range tree.Keys() {
		bs, err := c.buildNode(address, tree.Child(address))
		if err != nil {
			return nil, err
		}
		out[address] = bs
	}
	return out, nil
}

func (c *Codec) checkAddresses(tree *Tree) error {
	for _, address := range tree.Keys() {
		if !c.layout.HasAddress(address) {
			return fmt.Errorf("%v register %q: %w", c.layout.kind, address, ErrNoSuchAddress)
		}
	}
	return nil
}

func (c *Codec) buildNode(address string, node *Tree) (BitStream, error) {
	values, err := c.fieldValues(address, node)
	if err != nil {
		return nil, err
	}
	return c.BuildBitstream(address, values)
}

func (c *Codec) locate(bs BitStream, address, field string) (fieldPos, error) {
	pos, width, err := c.layout.position(address, field)
	if err != nil {
		return pos, err
	}
	if bs.Len() != width {
		return pos, fmt.Errorf("%v register %s holds %d bits, bitstream has %d: %w",
			c.layout.kind, address, width, bs.Len(), ErrSizeMismatch)
	}
	return pos, nil
}

// GetField reads one field out of an address's bitstream.
func (c *Codec) GetField(bs BitStream, address, field string) (Word, error) {
	pos, err := c.locate(bs, address, field)
	if err != nil {
		return Word{}, err
	}
	return bs[pos.offset : pos.offset+pos.field.Width].Word(), nil
}

// SetField overwrites one field of an address's bitstream in place.
func (c *Codec) SetField(bs BitStream, address, field string, value Word) error {
	pos, err := c.locate(bs, address, field)
	if err != nil {
		return err
	}
	if !value.FitsIn(pos.field.Width) {
		return fmt.Errorf("%v register %s field %s: %s needs more than %d bits: %w",
			c.layout.kind, address, field, value, pos.field.Width, ErrRegisterOverflow)
	}
	copy(bs[pos.offset:], value.Binary(pos.field.Width))
	return nil
}

// Decode splits a bitstream into its named fields, returned as
// "<address>.<field>" leaves. Placeholders are dropped.
func (c *Codec) Decode(address string, bs BitStream) (*Tree, error) {
	reg, err := c.layout.register(address)
	if err != nil {
		return nil, err
	}
	if bs.Len() != reg.width {
		return nil, fmt.Errorf("%v register %s holds %d bits, bitstream has %d: %w",
			c.layout.kind, address, reg.width, bs.Len(), ErrSizeMismatch)
	}
	t := NewTree()
	offset := 0
	for _, f := range reg.fields {
		if f.Access != Reserved {
			t.Put(address+"."+f.Name, bs[offset:offset+f.Width].Word())
		}
		offset += f.Width
	}
	return t, nil
}

// DecodeBytes decodes wire bytes read back from an address.
func (c *Codec) DecodeBytes(address string, data []byte) (*Tree, error) {
	width, err := c.layout.RegisterWidth(address)
	if err != nil {
		return nil, err
	}
	bs, err := BitStreamFromBytes(data, width)
	if err != nil {
		return nil, fmt.Errorf("%v register %s: %w", c.layout.kind, address, err)
	}
	return c.Decode(address, bs)
}
