package feconf

import "fmt"

func srocFields(suffix string, width int) []Field {
	fields := make([]Field, 0, 4)
	for i := 3; i >= 0; i-- {
		fields = append(fields, RW(fmt.Sprintf("sroc%d%s", i, suffix), width))
	}
	return fields
}

func concat(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func rocDigitalRegisters() []RegisterDef {
	vmms := func() []Field { return bitFlags("vmm", "", 8, ReadWrite) }
	defs := []RegisterDef{
		reg(rocAddress(0), RW("l1_first", 1), RW("even_parity", 1), RW("roc_id", 6)),
		reg(rocAddress(1), srocFields("", 2)...),
	}
	for i := 0; i < 4; i++ {
		defs = append(defs, reg(rocAddress(2+i), vmms()...))
	}
	return append(defs,
		reg(rocAddress(6), concat(srocFields("_eop_enable", 1), srocFields("_nullevt_enable", 1))...),
		reg(rocAddress(7), concat([]Field{RW("bypass", 1), RW("timeoutEnable", 1), RW("TTCStartBits", 2)},
			bitFlags("enableSROC", "", 4, ReadWrite))...),
		reg(rocAddress(8), vmms()...),
		reg(rocAddress(9), RW("timeout", 8)),
		reg(rocAddress(10), RW("tx_csel", 4), RW("bc_offset[11:8]", 4)),
		reg(rocAddress(11), RW("bc_offset[7:0]", 8)),
		reg(rocAddress(12), NotUsed(4), RW("bc_rollover[11:8]", 4)),
		reg(rocAddress(13), RW("bc_rollover[7:0]", 8)),
		reg(rocAddress(14), srocFields("", 2)...),
		reg(rocAddress(19), vmms()...),
		reg(rocAddress(20), concat(bitFlags("tdc_enable_sroc", "", 4, ReadWrite), bitFlags("busy_enable_sroc", "", 4, ReadWrite))...),
		reg(rocAddress(21), NotUsed(5), RW("busy_on_limit[10:8]", 3)),
		reg(rocAddress(22), RW("busy_on_limit[7:0]", 8)),
		reg(rocAddress(23), NotUsed(5), RW("busy_off_limit[10:8]", 3)),
		reg(rocAddress(24), RW("busy_off_limit[7:0]", 8)),
		reg(rocAddress(31), RW("l1_events_no_comma", 8)),
		reg(rocAddress(63), bitFlags("vmm", "", 8, ReadOnly)...),
	)
}

func rocDigitalValues() []ValueDef {
	defs := []ValueDef{
		whole("rocId.l1_first", rocAddress(0), "l1_first"),
		whole("rocId.even_parity", rocAddress(0), "even_parity"),
		whole("rocId.roc_id", rocAddress(0), "roc_id"),
	}
	perSroc := func(path string, address int, field string) {
		for i := 0; i < 4; i++ {
			defs = append(defs, whole(fmt.Sprintf("%s.sRoc%d", path, i), rocAddress(address), fmt.Sprintf(field, i)))
		}
	}
	perVmm := func(path string, address int) {
		for i := 0; i < 8; i++ {
			defs = append(defs, whole(fmt.Sprintf("%s.vmm%d", path, i), rocAddress(address), fmt.Sprintf("vmm%d", i)))
		}
	}
	perSroc("elinkSpeed", 1, "sroc%d")
	for i := 0; i < 4; i++ {
		perVmm(fmt.Sprintf("sRoc%dVmmConnections", i), 2+i)
	}
	perSroc("eopEnable", 6, "sroc%d_eop_enable")
	perSroc("nullEventEnable", 6, "sroc%d_nullevt_enable")
	defs = append(defs,
		whole("bypassMode", rocAddress(7), "bypass"),
		whole("timeoutEnable", rocAddress(7), "timeoutEnable"),
		whole("ttcStartBits", rocAddress(7), "TTCStartBits"))
	perSroc("sRocEnable", 7, "enableSROC%d")
	perVmm("vmmEnable", 8)
	defs = append(defs,
		whole("timeout", rocAddress(9), "timeout"),
		whole("tx_csel", rocAddress(10), "tx_csel"),
		value("bc_offset", part(rocAddress(10), "bc_offset[11:8]", 0xF00), part(rocAddress(11), "bc_offset[7:0]", 0xFF)),
		value("bc_rollover", part(rocAddress(12), "bc_rollover[11:8]", 0xF00), part(rocAddress(13), "bc_rollover[7:0]", 0xFF)))
	perSroc("eportEnable", 14, "sroc%d")
	perVmm("fakeVmmFailure", 19)
	perSroc("tdcEnable", 20, "tdc_enable_sroc%d")
	perSroc("busyEnable", 20, "busy_enable_sroc%d")
	defs = append(defs,
		value("busyOnLimit", part(rocAddress(21), "busy_on_limit[10:8]", 0x700), part(rocAddress(22), "busy_on_limit[7:0]", 0xFF)),
		value("busyOffLimit", part(rocAddress(23), "busy_off_limit[10:8]", 0x700), part(rocAddress(24), "busy_off_limit[7:0]", 0xFF)),
		whole("l1EventsWithoutComma", rocAddress(31), "l1_events_no_comma"))
	perVmm("timeoutStatus", 63)
	return defs
}
