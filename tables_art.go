package feconf

import "fmt"

func artAddress(n int) string {
	return fmt.Sprintf("%02d", n)
}

// artSplit describes one piece of a value spread over several ART core
// registers: the field name suffix (its bit range) and the value bits.
type artSplit struct {
	suffix    string
	width     int
	valueMask uint64
}

func bypassSel(ch int) string {
	return fmt.Sprintf("cfg_artbypass_sel_ch%d", ch)
}

func patternData(phi int) string {
	return fmt.Sprintf("cfg_pattern_data_phi%d", phi)
}

// The pieces of the 5-bit bypass selectors, per channel.
var artBypassSplits = [8][]artSplit{
	{{"[4:0]", 5, 0x1F}},
	{{"[2:0]", 3, 0x07}, {"[4:3]", 2, 0x18}},
	{{"[4:0]", 5, 0x1F}},
	{{"[0]", 1, 0x01}, {"[4:1]", 4, 0x1E}},
	{{"[3:0]", 4, 0x0F}, {"[4]", 1, 0x10}},
	{{"[4:0]", 5, 0x1F}},
	{{"[1:0]", 2, 0x03}, {"[4:2]", 3, 0x1C}},
	{{"[4:0]", 5, 0x1F}},
}

// The pieces of the four 14-bit pattern words sharing seven registers.
var artPatternSplits = [4][]artSplit{
	{{"[7:0]", 8, 0xFF}, {"[13:8]", 6, 0x3F00}},
	{{"[1:0]", 2, 0x0003}, {"[9:2]", 8, 0x03FC}, {"[13:10]", 4, 0x3C00}},
	{{"[3:0]", 4, 0x000F}, {"[11:4]", 8, 0x0FF0}, {"[13:12]", 2, 0x3000}},
	{{"[5:0]", 6, 0x003F}, {"[13:6]", 8, 0x3FC0}},
}

type artPiece struct {
	name  string
	split artSplit
}

func (p artPiece) field() Field {
	return RW(p.name+p.split.suffix, p.split.width)
}

// artPatternRegisters lists, per register, the pieces it holds, most
// significant first.
func artPatternRegisters(firstPhi int) [][]artPiece {
	p := func(phi, i int) artPiece { return artPiece{patternData(firstPhi + phi), artPatternSplits[phi][i]} }
	return [][]artPiece{
		{p(0, 0)},
		{p(1, 0), p(0, 1)},
		{p(1, 1)},
		{p(2, 0), p(1, 2)},
		{p(2, 1)},
		{p(3, 0), p(2, 2)},
		{p(3, 1)},
	}
}

func artBypassRegisters() [][]artPiece {
	p := func(ch, i int) artPiece { return artPiece{bypassSel(ch), artBypassSplits[ch][i]} }
	return [][]artPiece{
		{p(1, 0), p(0, 0)},
		{p(3, 0), p(2, 0), p(1, 1)},
		{p(4, 0), p(3, 1)},
		{p(6, 0), p(5, 0), p(4, 1)},
		{p(7, 0), p(6, 1)},
	}
}

func artPieceRegisters(first int, layout [][]artPiece) []RegisterDef {
	defs := make([]RegisterDef, 0, len(layout))
	for i, pieces := range layout {
		fields := make([]Field, 0, len(pieces))
		for _, p := range pieces {
			fields = append(fields, p.field())
		}
		defs = append(defs, reg(artAddress(first+i), fields...))
	}
	return defs
}

// artPieceValues groups the pieces of each value, in register order.
func artPieceValues(first int, layout [][]artPiece, names []string) []ValueDef {
	frags := make(map[string][]Fragment)
	for i, pieces := range layout {
		for _, p := range pieces {
			f := part(artAddress(first+i), p.name+p.split.suffix, p.split.valueMask)
			frags[p.name] = append(frags[p.name], f)
		}
	}
	defs := make([]ValueDef, 0, len(names))
	for _, name := range names {
		defs = append(defs, value(name, frags[name]...))
	}
	return defs
}

// artByteSplits spreads a 32-bit value over four registers, low byte first.
// Unless ranged, every register names its field "[7:0]".
func artByteSplits(name string, first int, ranged bool) ([]RegisterDef, ValueDef) {
	var defs []RegisterDef
	var frags []Fragment
	for i := 0; i < 4; i++ {
		field := name + "[7:0]"
		if ranged {
			field = fmt.Sprintf("%s[%d:%d]", name, 8*i+7, 8*i)
		}
		defs = append(defs, reg(artAddress(first+i), RW(field, 8)))
		frags = append(frags, part(artAddress(first+i), field, 0xFF<<uint(8*i)))
	}
	return defs, value(name, frags...)
}

func artCoreRegisters() []RegisterDef {
	defs := []RegisterDef{
		reg(artAddress(0), RW("c_disable_arthist", 1), RW("c_bypass_pa", 1), RW("rxterm", 2), RW("txcset", 4)),
		reg(artAddress(1), RW("cfg_dout_time2", 1), RW("cfg_bcr_sel", 1), RW("cfg_bcrout_sel", 1),
			RW("cfg_art_revall", 1), RW("cfg_art_revbank", 4)),
		reg(artAddress(2), RW("cfg_dout_pattern", 1), RW("cfg_dout_artbypass", 1), RW("cfg_dout_hitlist", 1),
			RW("cfg_dout_artflags", 1), RW("cfg_dout_time", 1), RW("cfg_artmask", 3)),
		reg(artAddress(3), RW("cfg_deser_flagmask", 8)),
		reg(artAddress(4), RW("cfg_deser_flagpatt", 8)),
	}
	invert, _ := artByteSplits("cfg_din_invert", 5, true)
	mask, _ := artByteSplits("cfg_din_mask", 9, false)
	defs = append(defs, invert...)
	defs = append(defs, mask...)
	defs = append(defs,
		reg(artAddress(13), RW("cfg_bcid0[7:0]", 8)),
		reg(artAddress(14), RW("cfg_bcid1[3:0]", 4), RW("cfg_bcid0[11:8]", 4)),
		reg(artAddress(15), RW("cfg_bcid1[11:4]", 8)))
	defs = append(defs, artPieceRegisters(16, artBypassRegisters())...)
	// Pattern words 4 to 7 follow the first four; they cannot share
	// registers 21 to 27 with them.
	defs = append(defs, artPieceRegisters(21, artPatternRegisters(0))...)
	return append(defs, artPieceRegisters(28, artPatternRegisters(4))...)
}

func artCoreValues() []ValueDef {
	var defs []ValueDef
	for _, f := range []string{"c_disable_arthist", "c_bypass_pa", "rxterm", "txcset"} {
		defs = append(defs, whole(f, artAddress(0), f))
	}
	for _, f := range []string{"cfg_dout_time2", "cfg_bcr_sel", "cfg_bcrout_sel", "cfg_art_revall", "cfg_art_revbank"} {
		defs = append(defs, whole(f, artAddress(1), f))
	}
	for _, f := range []string{"cfg_dout_pattern", "cfg_dout_artbypass", "cfg_dout_hitlist", "cfg_dout_artflags",
		"cfg_dout_time", "cfg_artmask"} {
		defs = append(defs, whole(f, artAddress(2), f))
	}
	_, invert := artByteSplits("cfg_din_invert", 5, true)
	_, mask := artByteSplits("cfg_din_mask", 9, false)
	defs = append(defs,
		whole("cfg_deser_flagmask", artAddress(3), "cfg_deser_flagmask"),
		whole("cfg_deser_flagpatt", artAddress(4), "cfg_deser_flagpatt"),
		invert, mask,
		value("cfg_bcid0", part(artAddress(13), "cfg_bcid0[7:0]", 0x0FF), part(artAddress(14), "cfg_bcid0[11:8]", 0xF00)),
		value("cfg_bcid1", part(artAddress(14), "cfg_bcid1[3:0]", 0x00F), part(artAddress(15), "cfg_bcid1[11:4]", 0xFF0)))
	var bypass, patternLow, patternHigh []string
	for i := 0; i < 8; i++ {
		bypass = append(bypass, bypassSel(i))
	}
	for i := 0; i < 4; i++ {
		patternLow = append(patternLow, patternData(i))
		patternHigh = append(patternHigh, patternData(4+i))
	}
	defs = append(defs, artPieceValues(16, artBypassRegisters(), bypass)...)
	defs = append(defs, artPieceValues(21, artPatternRegisters(0), patternLow)...)
	return append(defs, artPieceValues(28, artPatternRegisters(4), patternHigh)...)
}

// Phase-shifter registers: four groups of fifteen, then the receiver
// switches of each group.
const (
	artPsGroups       = 4
	artPsGroupSize    = 15
	artPsRxOff        = 62
	artPsRxTermEnable = 66
)

func phaseSelect(ch int, direction string) string {
	return fmt.Sprintf("phaseSelectChannel%d%s", ch, direction)
}

// phaseSelectField names the field holding a channel's phase. Input fields
// are named per channel; every output register reuses the names of the
// channel 0 and 1 fields.
func phaseSelectField(ch int, direction string) string {
	if direction == "output" {
		return phaseSelect(ch%2, direction)
	}
	return phaseSelect(ch, direction)
}

func artPsPhaseFields(direction string, first int) []Field {
	return []Field{
		RW(phaseSelectField(first+1, direction), 4),
		RW(phaseSelectField(first, direction), 4),
	}
}

func artPsRegisters() []RegisterDef {
	var defs []RegisterDef
	for g := 0; g < artPsGroups; g++ {
		b := artPsGroupSize * g
		defs = append(defs,
			reg(artAddress(b), RO("dllLockedV", 1), RW("reserved", 1), RW("dllLockCfg", 2), RW("muxEn2to8", 1),
				RW("muzEn1to8", 1), RW("dllCoarseLockDetection", 1), RW("dllResetFromCfg", 1)),
			reg(artAddress(b+1), RW("dataRateDll", 2), RW("dllConfirmCountSelect", 2), RW("dllChargePumpCurrent", 4)),
			reg(artAddress(b+2), RW("enableGroup", 1), RW("outRegEn", 1), RW("dataRate", 2),
				RW("sampleClockSel", 2), RW("trackMode", 2)),
			reg(artAddress(b+3), RW("enableChannel", 8)),
			reg(artAddress(b+4), RW("resetChannel", 8)),
			reg(artAddress(b+5), RW("trainChannel", 8)))
		for k := 0; k < 4; k++ {
			defs = append(defs, reg(artAddress(b+6+k), artPsPhaseFields("input", 2*k)...))
		}
		for k := 0; k < 4; k++ {
			defs = append(defs, reg(artAddress(b+10+k), artPsPhaseFields("output", 2*k)...))
		}
		defs = append(defs, reg(artAddress(b+14), NotUsed(8)))
	}
	for g := 0; g < artPsGroups; g++ {
		defs = append(defs, reg(artAddress(artPsRxOff+g), RW("rxOff", 8)))
	}
	for g := 0; g < artPsGroups; g++ {
		defs = append(defs, reg(artAddress(artPsRxTermEnable+g), RW("rxTermEnable", 8)))
	}
	return defs
}

var artPsGroupRegisters = [][]string{
	{"dllLockedV", "reserved", "dllLockCfg", "muxEn2to8", "muzEn1to8", "dllCoarseLockDetection", "dllResetFromCfg"},
	{"dataRateDll", "dllConfirmCountSelect", "dllChargePumpCurrent"},
	{"enableGroup", "outRegEn", "dataRate", "sampleClockSel", "trackMode"},
	{"enableChannel"},
	{"resetChannel"},
	{"trainChannel"},
}

func artPsValues() []ValueDef {
	var defs []ValueDef
	for g := 0; g < artPsGroups; g++ {
		b := artPsGroupSize * g
		prefix := fmt.Sprintf("%02d.", g)
		for offset, fields := range artPsGroupRegisters {
			for _, f := range fields {
				def := whole(prefix+f, artAddress(b+offset), f)
				if f == "muzEn1to8" {
					def.Aliases = []string{prefix + "muxEn1to8"}
				}
				defs = append(defs, def)
			}
		}
		for _, direction := range []string{"input", "output"} {
			first := b + 6
			if direction == "output" {
				first = b + 10
			}
			for ch := 0; ch < 8; ch++ {
				defs = append(defs, whole(prefix+phaseSelect(ch, direction), artAddress(first+ch/2), phaseSelectField(ch, direction)))
			}
		}
		defs = append(defs,
			whole(prefix+"rxOff", artAddress(artPsRxOff+g), "rxOff"),
			whole(prefix+"rxTermEnable", artAddress(artPsRxTermEnable+g), "rxTermEnable"))
	}
	return defs
}
