package feconf

import "fmt"

func tdsAddress(n int) string {
	return fmt.Sprintf("register%d", n)
}

func tdsChannel(i int) string {
	return fmt.Sprintf("Chan%03d", i)
}

func tdsLut(i int) string {
	return fmt.Sprintf("trig_lut%x", i)
}

func tdsPad(i int) string {
	return fmt.Sprintf("Pad_Chan%x", i)
}

// tdsSlots lays out n equal slots, the highest numbered first, each made of
// unused padding followed by a field.
func tdsSlots(first, n, pad, width int, name func(int) string) []Field {
	var fields []Field
	for i := first + n - 1; i >= first; i-- {
		fields = append(fields, NotUsed(pad), RW(name(i), width))
	}
	return fields
}

func tdsRegisters() []RegisterDef {
	channels := make([]Field, 0, 128)
	for i := 127; i >= 0; i-- {
		channels = append(channels, RW(tdsChannel(i), 1))
	}
	defs := []RegisterDef{
		reg(tdsAddress(0), RW("BCID_Offset", 12), RW("BCID_Rollover_Value", 12), RW("CKBC_Clock_Phase", 4), RW("Strip_Match_Window", 4)),
		reg(tdsAddress(1), RW("SER_PLL_R", 5), RW("SER_PLL_I", 5), RW("Ck160_0_Phase", 4), RW("Ck160_1_Phase", 2)),
		reg(tdsAddress(2), channels...),
		reg(tdsAddress(3), tdsSlots(0, 8, 1, 15, tdsLut)...),
		reg(tdsAddress(4), tdsSlots(8, 8, 1, 15, tdsLut)...),
	}
	for r := 5; r <= 10; r++ {
		defs = append(defs, reg(tdsAddress(r), tdsSlots((r-5)*16, 16, 3, 5, tdsPad)...))
	}
	return append(defs,
		reg(tdsAddress(11), tdsSlots(96, 8, 3, 5, tdsPad)...),
		reg(tdsAddress(12), RW("timer", 8), RW("bypass", 4), RW("prompt_circuit", 4), NotUsed(3),
			RW("bypass_trigger", 1), RW("bypass_scrambler", 1), RW("test_frame2Router_enable", 1),
			RW("stripTDS_globaltest", 1), RW("PRBS_e", 1), RW("resets", 8)),
	)
}

func tdsValues() []ValueDef {
	var defs []ValueDef
	for _, f := range []string{"Strip_Match_Window", "CKBC_Clock_Phase", "BCID_Rollover_Value", "BCID_Offset"} {
		defs = append(defs, whole(f, tdsAddress(0), f))
	}
	for _, f := range []string{"SER_PLL_R", "SER_PLL_I", "Ck160_0_Phase", "Ck160_1_Phase"} {
		defs = append(defs, whole(f, tdsAddress(1), f))
	}
	defs = append(defs, whole("PRBS_en", tdsAddress(12), "PRBS_e"))
	for _, f := range []string{"resets", "stripTDS_globaltest", "test_frame2Router_enable", "bypass_scrambler",
		"bypass_trigger", "prompt_circuit", "bypass", "timer"} {
		defs = append(defs, whole(f, tdsAddress(12), f))
	}
	for i := 0; i < 128; i++ {
		defs = append(defs, whole(tdsChannel(i)+"_Disable", tdsAddress(2), tdsChannel(i)))
	}
	for i := 0; i < 16; i++ {
		defs = append(defs, whole(tdsLut(i), tdsAddress(3+i/8), tdsLut(i)))
	}
	for i := 0; i < 104; i++ {
		defs = append(defs, whole(tdsPad(i)+"_Delay", tdsAddress(5+i/16), tdsPad(i)))
	}
	return defs
}
