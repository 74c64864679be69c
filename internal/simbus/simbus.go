// Package simbus provides a simulated register bus for one front-end device,
// a drop-in stand-in for the real transport when no hardware is present. It
// keeps a register image, logs every write, and can be told to fail reads of
// chosen addresses.
package simbus

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/nsw-daq/feconf"
)

// Write records one register write.
type Write struct {
	Address string
	Value   feconf.Word
	Time    time.Time
}

// Bus emulates the registers of one device. It implements
// feconf.ReferenceLookup, so it can supply the live readback for a partial
// write. A Bus is not safe for concurrent use.
type Bus struct {
	name      string
	layout    *feconf.Layout
	registers map[string]feconf.Word
	faults    map[string]error
	writes    []Write
	isOpen    bool
	nreads    int
}

// New returns an open bus for a device of the given kind whose registers
// start out as in initial; addresses missing from initial read as zero.
func New(name string, kind feconf.DeviceKind, initial feconf.Snapshot) (*Bus, error) {
	dev, err := feconf.LookupDevice(kind)
	if err != nil {
		return nil, err
	}
	bus := &Bus{name: name, layout: dev.Layout, registers: make(map[string]feconf.Word),
		faults: make(map[string]error), isOpen: true}
	for _, address := range dev.Layout.Addresses() {
		bus.registers[address] = feconf.Word{}
	}
	for address, v := range initial {
		if err := bus.check(address, v); err != nil {
			return nil, err
		}
		bus.registers[address] = v
	}
	return bus, nil
}

func (bus *Bus) check(address string, v feconf.Word) error {
	width, err := bus.layout.RegisterWidth(address)
	if err != nil {
		return fmt.Errorf("simbus %s: %w", bus.name, err)
	}
	if !v.FitsIn(width) {
		return fmt.Errorf("simbus %s register %s: %s exceeds %d bits: %w",
			bus.name, address, v.Hex(), width, feconf.ErrRegisterOverflow)
	}
	return nil
}

// Close errors if already closed
func (bus *Bus) Close() error {
	if !bus.isOpen {
		return fmt.Errorf("simbus %s: already closed", bus.name)
	}
	bus.isOpen = false
	return nil
}

// ReadRegister returns the current value of one register.
func (bus *Bus) ReadRegister(address string) (feconf.Word, error) {
	if !bus.isOpen {
		return feconf.Word{}, fmt.Errorf("simbus %s: read of %s: not open", bus.name, address)
	}
	if err := bus.faults[address]; err != nil {
		return feconf.Word{}, fmt.Errorf("simbus %s: read of %s: %w", bus.name, address, err)
	}
	v, ok := bus.registers[address]
	if !ok {
		return feconf.Word{}, fmt.Errorf("simbus %s register %q: %w", bus.name, address, feconf.ErrNoSuchAddress)
	}
	bus.nreads++
	return v, nil
}

// WriteRegister stores one register value. Values wider than the register
// are refused.
func (bus *Bus) WriteRegister(address string, v feconf.Word) error {
	if !bus.isOpen {
		return fmt.Errorf("simbus %s: write of %s: not open", bus.name, address)
	}
	if err := bus.check(address, v); err != nil {
		return err
	}
	bus.registers[address] = v
	bus.writes = append(bus.writes, Write{Address: address, Value: v, Time: time.Now()})
	return nil
}

// WriteTree writes every leaf of a flat register tree, in tree order. It
// stops at the first failure.
func (bus *Bus) WriteTree(flat *feconf.Tree) error {
	for _, leaf := range flat.Leaves() {
		if err := bus.WriteRegister(leaf.Path, leaf.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteBytes writes wire bytes to one register.
func (bus *Bus) WriteBytes(address string, data []byte) error {
	width, err := bus.layout.RegisterWidth(address)
	if err != nil {
		return fmt.Errorf("simbus %s: %w", bus.name, err)
	}
	bs, err := feconf.BitStreamFromBytes(data, width)
	if err != nil {
		return fmt.Errorf("simbus %s register %s: %w", bus.name, address, err)
	}
	return bus.WriteRegister(address, bs.Word())
}

// Fail makes every later read of address return err. A nil err clears the
// fault.
func (bus *Bus) Fail(address string, err error) {
	if err == nil {
		delete(bus.faults, address)
		return
	}
	bus.faults[address] = err
}

// Writes returns the writes made so far, oldest first.
func (bus *Bus) Writes() []Write {
	return append([]Write(nil), bus.writes...)
}

// Reads returns the number of successful reads.
func (bus *Bus) Reads() int {
	return bus.nreads
}

// Snapshot returns a copy of the whole register image.
func (bus *Bus) Snapshot() feconf.Snapshot {
	snap := make(feconf.Snapshot, len(bus.registers))
	for a, v := range bus.registers {
		snap[a] = v
	}
	return snap
}

// Inspect prints the bus state and returns the number of writes
func (bus *Bus) Inspect() int {
	spew.Println(bus.name, bus.registers)
	return len(bus.writes)
}
