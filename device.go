package feconf

import (
	"fmt"
	"strings"
	"sync"
)

// DeviceKind identifies a family of front-end chips sharing one register
// layout and one translation map. The kind also carries the integer width
// used for its values and masks.
type DeviceKind int

// The supported device kinds.
const (
	RocAnalog DeviceKind = iota
	RocDigital
	Tds
	ArtCore
	ArtPs
	numDeviceKinds
)

var deviceKindNames = [...]string{
	RocAnalog:  "roc-analog",
	RocDigital: "roc-digital",
	Tds:        "tds",
	ArtCore:    "art-core",
	ArtPs:      "art-ps",
}

func (k DeviceKind) String() string {
	if k < 0 || k >= numDeviceKinds {
		return fmt.Sprintf("DeviceKind(%d)", int(k))
	}
	return deviceKindNames[k]
}

// ParseDeviceKind converts a name such as "roc-analog" (case and the
// separators "-" and "_" are ignored) into a DeviceKind.
func ParseDeviceKind(name string) (DeviceKind, error) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(name))
	for k, n := range deviceKindNames {
		if strings.ReplaceAll(n, "-", "") == norm {
			return DeviceKind(k), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownDeviceKind)
}

// IntWidth is the width of the integers holding values and masks for this
// kind: 32 bits for the byte-register chips, 128 bits for the TDS.
func (k DeviceKind) IntWidth() int {
	if k == Tds {
		return 128
	}
	return 32
}

// RegisterWidth is the fixed width of every register of this kind, or 0 when
// registers differ in width.
func (k DeviceKind) RegisterWidth() int {
	if k == Tds {
		return 0
	}
	return 8
}

// Device bundles the immutable static data of one device kind.
type Device struct {
	Kind   DeviceKind
	Layout *Layout
	Map    *TranslationMap
}

type deviceTables struct {
	registers func() []RegisterDef
	values    func() []ValueDef
}

var tablesByKind = map[DeviceKind]deviceTables{
	RocAnalog:  {rocAnalogRegisters, rocAnalogValues},
	RocDigital: {rocDigitalRegisters, rocDigitalValues},
	Tds:        {tdsRegisters, tdsValues},
	ArtCore:    {artCoreRegisters, artCoreValues},
	ArtPs:      {artPsRegisters, artPsValues},
}

type deviceOnce struct {
	once   sync.Once
	device *Device
	err    error
}

var devices [numDeviceKinds]deviceOnce

// LookupDevice returns the layout and translation map of a device kind. They
// are built and validated on first use and shared for the process lifetime.
func LookupDevice(kind DeviceKind) (*Device, error) {
	if kind < 0 || kind >= numDeviceKinds {
		return nil, fmt.Errorf("%v: %w", kind, ErrUnknownDeviceKind)
	}
	d := &devices[kind]
	d.once.Do(func() {
		d.device, d.err = buildDevice(kind, tablesByKind[kind])
		if d.err != nil {
			ProblemLogger.Printf("static tables for %v are broken: %v", kind, d.err)
		}
	})
	return d.device, d.err
}

// MustLookupDevice is like LookupDevice but panics on broken static tables.
func MustLookupDevice(kind DeviceKind) *Device {
	d, err := LookupDevice(kind)
	if err != nil {
		panic(err)
	}
	return d
}

func buildDevice(kind DeviceKind, tables deviceTables) (*Device, error) {
	layout, err := NewLayout(kind, tables.registers())
	if err != nil {
		return nil, err
	}
	tmap, err := NewTranslationMap(layout, tables.values())
	if err != nil {
		return nil, err
	}
	return &Device{Kind: kind, Layout: layout, Map: tmap}, nil
}
