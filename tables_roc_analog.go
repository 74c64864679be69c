package feconf

import "fmt"

func rocAddress(n int) string {
	return fmt.Sprintf("reg%03d", n)
}

// ePLL blocks of the ROC analog part. The TDC block replaces the test-pulse
// registers by BCR clock controls.
var rocEPlls = []struct {
	name string
	base int
	tdc  bool
}{
	{"ePllVmm0", 64, false},
	{"ePllVmm1", 80, false},
	{"ePllTdc", 96, true},
}

// rocPllControl covers the three control registers every ePLL has.
func rocPllControl(base int) []RegisterDef {
	return []RegisterDef{
		reg(rocAddress(base), RW("ePllInstantLock", 1), RW("ePllReset", 1), RW("bypassPLL", 1),
			RW("ePllLockEn", 1), RW("ePllReferenceFrequency", 2), RW("ePllCap", 2)),
		reg(rocAddress(base+1), RW("ePllRes", 4), RW("ePllIcp", 4)),
		reg(rocAddress(base+2), RW("ePllEnablePhase", 8)),
	}
}

func rocPllControlValues(block string, base int) []ValueDef {
	var defs []ValueDef
	for _, name := range []string{"ePllInstantLock", "ePllReset", "bypassPLL", "ePllLockEn", "ePllReferenceFrequency", "ePllCap"} {
		defs = append(defs, whole(block+"."+name, rocAddress(base), name))
	}
	return append(defs,
		whole(block+".ePllRes", rocAddress(base+1), "ePllRes"),
		whole(block+".ePllIcp", rocAddress(base+1), "ePllIcp"),
		whole(block+".ePllEnablePhase", rocAddress(base+2), "ePllEnablePhase"),
	)
}

func phase160(i int) string { return fmt.Sprintf("ePllPhase160MHz_%d", i) }
func phase160Hi(i int) string { return phase160(i) + "[4]" }
func phase160Lo(i int) string { return phase160(i) + "[3:0]" }
func phase40(i int) string { return fmt.Sprintf("ePllPhase40MHz_%d", i) }
func indexed(s string, i int) string { return fmt.Sprintf("%s_%d", s, i) }

func rocAnalogRegisters() []RegisterDef {
	var defs []RegisterDef
	for _, blk := range rocEPlls {
		b := blk.base
		for i := 0; i < 4; i++ {
			defs = append(defs, reg(rocAddress(b+i), RW(phase160Hi(i), 1), RW(phase40(i), 7)))
		}
		defs = append(defs,
			reg(rocAddress(b+4), RW(phase160Lo(1), 4), RW(phase160Lo(0), 4)),
			reg(rocAddress(b+5), RW(phase160Lo(3), 4), RW(phase160Lo(2), 4)))
		defs = append(defs, rocPllControl(b+6)...)
		if blk.tdc {
			defs = append(defs,
				reg(rocAddress(b+9), RW("enable160MHzOnBCR", 4), RW("enable160MHzOn40MHz", 4)),
				reg(rocAddress(b+10), RW("tx_enable_bcr", 4), RW("tx_csel_bcr", 4)))
		} else {
			defs = append(defs,
				reg(rocAddress(b+9), RW("tp_bypass_1", 1), RW("tp_phase_1", 3), RW("tp_bypass_0", 1), RW("tp_phase_0", 3)),
				reg(rocAddress(b+10), RW("tp_bypass_3", 1), RW("tp_phase_3", 3), RW("tp_bypass_2", 1), RW("tp_phase_2", 3)))
		}
		for i := 0; i < 4; i++ {
			defs = append(defs, reg(rocAddress(b+11+i),
				RW(indexed("ctrl_05delay", i), 1), RW(indexed("ctrl_delay", i), 3),
				RW(indexed("ctrl_bypass", i), 1), RW(indexed("ctrl_phase", i), 3)))
		}
		defs = append(defs, reg(rocAddress(b+15), RW("tx_enable", 4), RW("tx_csel", 4)))
	}

	// ePllCore has three phases and a different packing of the low phase bits.
	defs = append(defs, rocPllControl(112)...)
	for i := 0; i < 3; i++ {
		defs = append(defs, reg(rocAddress(115+i), RW(phase160Hi(i), 1), RW(phase40(i), 7)))
	}
	return append(defs,
		reg(rocAddress(118), RW(phase160Lo(0), 4), RW(phase160Lo(1), 4)),
		reg(rocAddress(119), RW("tp_bypass_global", 1), RW("tp_phase_global", 3), RW(phase160Lo(2), 4)),
		reg(rocAddress(120), RW("TDS_BCR_INV", 4), RW("LockOutInv", 1), RW("testOutEn", 1), RW("testOutMux", 2)),
		reg(rocAddress(121), RW("vmmBcrInv", 8)),
		reg(rocAddress(122), RW("vmmEnaInv", 8)),
		reg(rocAddress(123), RW("vmmL0Inv", 8)),
		reg(rocAddress(124), RW("vmmTpInv", 8)),
	)
}

func rocAnalogValues() []ValueDef {
	var defs []ValueDef
	for _, blk := range rocEPlls {
		b, name := blk.base, blk.name
		for i := 0; i < 4; i++ {
			defs = append(defs, whole(name+"."+phase40(i), rocAddress(b+i), phase40(i)))
		}
		for i := 0; i < 4; i++ {
			lowMask := uint64(0x0F)
			if i%2 == 1 {
				lowMask = 0xF0
			}
			defs = append(defs, value(name+"."+phase160(i),
				Frag(rocAddress(b+i)+"."+phase160Hi(i), 0x80, 0x10),
				Frag(rocAddress(b+4+i/2)+"."+phase160Lo(i), lowMask, 0x0F)))
		}
		defs = append(defs, rocPllControlValues(name, b+6)...)
		if blk.tdc {
			for _, f := range []string{"enable160MHzOnBCR", "enable160MHzOn40MHz"} {
				defs = append(defs, whole(name+"."+f, rocAddress(b+9), f))
			}
			for _, f := range []string{"tx_enable_bcr", "tx_csel_bcr"} {
				defs = append(defs, whole(name+"."+f, rocAddress(b+10), f))
			}
		} else {
			for i := 0; i < 4; i++ {
				address := rocAddress(b + 9 + i/2)
				defs = append(defs,
					whole(name+"."+indexed("tp_bypass", i), address, indexed("tp_bypass", i)),
					whole(name+"."+indexed("tp_phase", i), address, indexed("tp_phase", i)))
			}
		}
		for i := 0; i < 4; i++ {
			for _, f := range []string{"ctrl_05delay", "ctrl_delay", "ctrl_bypass", "ctrl_phase"} {
				defs = append(defs, whole(name+"."+indexed(f, i), rocAddress(b+11+i), indexed(f, i)))
			}
		}
		defs = append(defs,
			whole(name+".tx_enable", rocAddress(b+15), "tx_enable"),
			whole(name+".tx_csel", rocAddress(b+15), "tx_csel"))
	}

	defs = append(defs, rocPllControlValues("ePllCore", 112)...)
	coreLow := []Fragment{
		Frag(rocAddress(118)+"."+phase160Lo(0), 0xF0, 0x0F),
		Frag(rocAddress(118)+"."+phase160Lo(1), 0x0F, 0x0F),
		Frag(rocAddress(119)+"."+phase160Lo(2), 0x0F, 0x0F),
	}
	for i := 0; i < 3; i++ {
		defs = append(defs,
			whole("ePllCore."+phase40(i), rocAddress(115+i), phase40(i)),
			value("ePllCore."+phase160(i), Frag(rocAddress(115+i)+"."+phase160Hi(i), 0x80, 0x10), coreLow[i]))
	}
	return append(defs,
		whole("ePllCore.tp_bypass_global", rocAddress(119), "tp_bypass_global"),
		whole("ePllCore.tp_phase_global", rocAddress(119), "tp_phase_global"),
		whole("tdsBcrInvert", rocAddress(120), "TDS_BCR_INV"),
		whole("lockOutInvert", rocAddress(120), "LockOutInv"),
		whole("testOutEnable", rocAddress(120), "testOutEn"),
		whole("testOutMux", rocAddress(120), "testOutMux"),
		whole("vmmBcrInvert", rocAddress(121), "vmmBcrInv"),
		whole("vmmEnaInvert", rocAddress(122), "vmmEnaInv"),
		whole("vmmL0Invert", rocAddress(123), "vmmL0Inv"),
		whole("vmmTpInvert", rocAddress(124), "vmmTpInv"),
	)
}
