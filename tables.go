package feconf

import "fmt"

// Helpers for writing the static tables compactly.

func reg(address string, fields ...Field) RegisterDef {
	return RegisterDef{Address: address, Fields: fields}
}

// bitFlags returns n one-bit fields named prefix+"{n-1}" down to prefix+"0",
// most significant first.
func bitFlags(prefix, suffix string, n int, access Access) []Field {
	fields := make([]Field, 0, n)
	for i := n - 1; i >= 0; i-- {
		fields = append(fields, Field{fmt.Sprintf("%s%d%s", prefix, i, suffix), 1, access})
	}
	return fields
}

// whole maps a value path onto one entire field.
func whole(path, address, field string) ValueDef {
	return ValueDef{Path: path, Fragments: []Fragment{Whole(address + "." + field)}}
}

// part is a fragment filling a whole field with the value bits in valueMask.
func part(address, field string, valueMask uint64) Fragment {
	return Fragment{Target: address + "." + field, ValueMask: W64(valueMask)}
}

func value(path string, frags ...Fragment) ValueDef {
	return ValueDef{Path: path, Fragments: frags}
}
