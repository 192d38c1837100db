package mos6502

// opcodeTable is indexed by the raw opcode byte fetched during the sync
// cycle. Most of the 256 slots are populated; the handful of still-unstable
// undocumented opcodes (SHA/SHX/SHY/TAS/LAS/JAM) are wired to behave as
// inert two-cycle NOPs rather than reproducing their notoriously
// silicon-dependent side effects.
var opcodeTable = buildOpcodeTable()

func legRead(mnem string, mode AddrMode, fn func(*CPU, uint8)) opEntry {
	return opEntry{mnem: mnem, mode: mode, kind: kRead, read: fn}
}

func illRead(mnem string, mode AddrMode, fn func(*CPU, uint8)) opEntry {
	e := legRead(mnem, mode, fn)
	e.illegal = true
	return e
}

func legWrite(mnem string, mode AddrMode, fn func(*CPU) uint8) opEntry {
	return opEntry{mnem: mnem, mode: mode, kind: kWrite, write: fn}
}

func illWrite(mnem string, mode AddrMode, fn func(*CPU) uint8) opEntry {
	e := legWrite(mnem, mode, fn)
	e.illegal = true
	return e
}

func legRMW(mnem string, mode AddrMode, fn func(*CPU, uint8) uint8) opEntry {
	return opEntry{mnem: mnem, mode: mode, kind: kRMW, rmw: fn}
}

func illRMW(mnem string, mode AddrMode, fn func(*CPU, uint8) uint8) opEntry {
	e := legRMW(mnem, mode, fn)
	e.illegal = true
	return e
}

func implied(mnem string, fn func(c *CPU)) opEntry {
	return opEntry{mnem: mnem, mode: AmImplied, kind: kImplied, implied: fn}
}

func illImplied(mnem string, fn func(c *CPU)) opEntry {
	e := implied(mnem, fn)
	e.illegal = true
	return e
}

func accumulator(mnem string, fn func(c *CPU)) opEntry {
	return opEntry{mnem: mnem, mode: AmImplied, kind: kImplied, implied: fn}
}

func branch(mnem string, fn func(c *CPU) bool) opEntry {
	return opEntry{mnem: mnem, mode: AmRelative, kind: kBranch, branch: fn}
}

func push(mnem string, fn func(c *CPU) uint8) opEntry {
	return opEntry{mnem: mnem, mode: AmImplied, kind: kPush, write: fn}
}

func pull(mnem string, fn func(c *CPU, v uint8)) opEntry {
	return opEntry{mnem: mnem, mode: AmImplied, kind: kPull, read: fn}
}

func buildOpcodeTable() [256]opEntry {
	var t [256]opEntry

	// --- ADC ---------------------------------------------------------
	t[0x69] = legRead("ADC", AmImmediate, (*CPU).opADC)
	t[0x65] = legRead("ADC", AmZeroPage, (*CPU).opADC)
	t[0x75] = legRead("ADC", AmZeroPageX, (*CPU).opADC)
	t[0x6D] = legRead("ADC", AmAbsolute, (*CPU).opADC)
	t[0x7D] = legRead("ADC", AmAbsoluteX, (*CPU).opADC)
	t[0x79] = legRead("ADC", AmAbsoluteY, (*CPU).opADC)
	t[0x61] = legRead("ADC", AmIndirectX, (*CPU).opADC)
	t[0x71] = legRead("ADC", AmIndirectY, (*CPU).opADC)

	// --- AND ---------------------------------------------------------
	t[0x29] = legRead("AND", AmImmediate, (*CPU).opAND)
	t[0x25] = legRead("AND", AmZeroPage, (*CPU).opAND)
	t[0x35] = legRead("AND", AmZeroPageX, (*CPU).opAND)
	t[0x2D] = legRead("AND", AmAbsolute, (*CPU).opAND)
	t[0x3D] = legRead("AND", AmAbsoluteX, (*CPU).opAND)
	t[0x39] = legRead("AND", AmAbsoluteY, (*CPU).opAND)
	t[0x21] = legRead("AND", AmIndirectX, (*CPU).opAND)
	t[0x31] = legRead("AND", AmIndirectY, (*CPU).opAND)

	// --- ASL ---------------------------------------------------------
	t[0x0A] = accumulator("ASL", (*CPU).opASLAcc)
	t[0x06] = legRMW("ASL", AmZeroPage, (*CPU).opASL)
	t[0x16] = legRMW("ASL", AmZeroPageX, (*CPU).opASL)
	t[0x0E] = legRMW("ASL", AmAbsolute, (*CPU).opASL)
	t[0x1E] = legRMW("ASL", AmAbsoluteX, (*CPU).opASL)

	// --- branches ------------------------------------------------------
	t[0x90] = branch("BCC", (*CPU).brBCC)
	t[0xB0] = branch("BCS", (*CPU).brBCS)
	t[0xF0] = branch("BEQ", (*CPU).brBEQ)
	t[0x30] = branch("BMI", (*CPU).brBMI)
	t[0xD0] = branch("BNE", (*CPU).brBNE)
	t[0x10] = branch("BPL", (*CPU).brBPL)
	t[0x50] = branch("BVC", (*CPU).brBVC)
	t[0x70] = branch("BVS", (*CPU).brBVS)

	// --- BIT -----------------------------------------------------------
	t[0x24] = legRead("BIT", AmZeroPage, (*CPU).opBIT)
	t[0x2C] = legRead("BIT", AmAbsolute, (*CPU).opBIT)

	// --- BRK -------------------------------------------------------
	t[0x00] = opEntry{mnem: "BRK", kind: kBRK}

	// --- flag ops ------------------------------------------------------
	t[0x18] = implied("CLC", (*CPU).opCLC)
	t[0xD8] = implied("CLD", (*CPU).opCLD)
	t[0x58] = implied("CLI", (*CPU).opCLI)
	t[0xB8] = implied("CLV", (*CPU).opCLV)
	t[0x38] = implied("SEC", (*CPU).opSEC)
	t[0xF8] = implied("SED", (*CPU).opSED)
	t[0x78] = implied("SEI", (*CPU).opSEI)

	// --- CMP/CPX/CPY -----------------------------------------------
	t[0xC9] = legRead("CMP", AmImmediate, (*CPU).opCMP)
	t[0xC5] = legRead("CMP", AmZeroPage, (*CPU).opCMP)
	t[0xD5] = legRead("CMP", AmZeroPageX, (*CPU).opCMP)
	t[0xCD] = legRead("CMP", AmAbsolute, (*CPU).opCMP)
	t[0xDD] = legRead("CMP", AmAbsoluteX, (*CPU).opCMP)
	t[0xD9] = legRead("CMP", AmAbsoluteY, (*CPU).opCMP)
	t[0xC1] = legRead("CMP", AmIndirectX, (*CPU).opCMP)
	t[0xD1] = legRead("CMP", AmIndirectY, (*CPU).opCMP)

	t[0xE0] = legRead("CPX", AmImmediate, (*CPU).opCPX)
	t[0xE4] = legRead("CPX", AmZeroPage, (*CPU).opCPX)
	t[0xEC] = legRead("CPX", AmAbsolute, (*CPU).opCPX)

	t[0xC0] = legRead("CPY", AmImmediate, (*CPU).opCPY)
	t[0xC4] = legRead("CPY", AmZeroPage, (*CPU).opCPY)
	t[0xCC] = legRead("CPY", AmAbsolute, (*CPU).opCPY)

	// --- DEC/DEX/DEY ---------------------------------------------------
	t[0xC6] = legRMW("DEC", AmZeroPage, (*CPU).opDEC)
	t[0xD6] = legRMW("DEC", AmZeroPageX, (*CPU).opDEC)
	t[0xCE] = legRMW("DEC", AmAbsolute, (*CPU).opDEC)
	t[0xDE] = legRMW("DEC", AmAbsoluteX, (*CPU).opDEC)
	t[0xCA] = implied("DEX", (*CPU).opDEX)
	t[0x88] = implied("DEY", (*CPU).opDEY)

	// --- EOR -------------------------------------------------------
	t[0x49] = legRead("EOR", AmImmediate, (*CPU).opEOR)
	t[0x45] = legRead("EOR", AmZeroPage, (*CPU).opEOR)
	t[0x55] = legRead("EOR", AmZeroPageX, (*CPU).opEOR)
	t[0x4D] = legRead("EOR", AmAbsolute, (*CPU).opEOR)
	t[0x5D] = legRead("EOR", AmAbsoluteX, (*CPU).opEOR)
	t[0x59] = legRead("EOR", AmAbsoluteY, (*CPU).opEOR)
	t[0x41] = legRead("EOR", AmIndirectX, (*CPU).opEOR)
	t[0x51] = legRead("EOR", AmIndirectY, (*CPU).opEOR)

	// --- INC/INX/INY ---------------------------------------------------
	t[0xE6] = legRMW("INC", AmZeroPage, (*CPU).opINC)
	t[0xF6] = legRMW("INC", AmZeroPageX, (*CPU).opINC)
	t[0xEE] = legRMW("INC", AmAbsolute, (*CPU).opINC)
	t[0xFE] = legRMW("INC", AmAbsoluteX, (*CPU).opINC)
	t[0xE8] = implied("INX", (*CPU).opINX)
	t[0xC8] = implied("INY", (*CPU).opINY)

	// --- jumps/calls ---------------------------------------------------
	t[0x4C] = opEntry{mnem: "JMP", mode: AmAbsolute, kind: kJMP}
	t[0x6C] = opEntry{mnem: "JMP", mode: AmIndirect, kind: kJMPIndirect}
	t[0x20] = opEntry{mnem: "JSR", mode: AmAbsolute, kind: kJSR}

	// --- loads -----------------------------------------------------
	t[0xA9] = legRead("LDA", AmImmediate, (*CPU).opLDA)
	t[0xA5] = legRead("LDA", AmZeroPage, (*CPU).opLDA)
	t[0xB5] = legRead("LDA", AmZeroPageX, (*CPU).opLDA)
	t[0xAD] = legRead("LDA", AmAbsolute, (*CPU).opLDA)
	t[0xBD] = legRead("LDA", AmAbsoluteX, (*CPU).opLDA)
	t[0xB9] = legRead("LDA", AmAbsoluteY, (*CPU).opLDA)
	t[0xA1] = legRead("LDA", AmIndirectX, (*CPU).opLDA)
	t[0xB1] = legRead("LDA", AmIndirectY, (*CPU).opLDA)

	t[0xA2] = legRead("LDX", AmImmediate, (*CPU).opLDX)
	t[0xA6] = legRead("LDX", AmZeroPage, (*CPU).opLDX)
	t[0xB6] = legRead("LDX", AmZeroPageY, (*CPU).opLDX)
	t[0xAE] = legRead("LDX", AmAbsolute, (*CPU).opLDX)
	t[0xBE] = legRead("LDX", AmAbsoluteY, (*CPU).opLDX)

	t[0xA0] = legRead("LDY", AmImmediate, (*CPU).opLDY)
	t[0xA4] = legRead("LDY", AmZeroPage, (*CPU).opLDY)
	t[0xB4] = legRead("LDY", AmZeroPageX, (*CPU).opLDY)
	t[0xAC] = legRead("LDY", AmAbsolute, (*CPU).opLDY)
	t[0xBC] = legRead("LDY", AmAbsoluteX, (*CPU).opLDY)

	// --- LSR -------------------------------------------------------
	t[0x4A] = accumulator("LSR", (*CPU).opLSRAcc)
	t[0x46] = legRMW("LSR", AmZeroPage, (*CPU).opLSR)
	t[0x56] = legRMW("LSR", AmZeroPageX, (*CPU).opLSR)
	t[0x4E] = legRMW("LSR", AmAbsolute, (*CPU).opLSR)
	t[0x5E] = legRMW("LSR", AmAbsoluteX, (*CPU).opLSR)

	// --- NOP -------------------------------------------------------
	t[0xEA] = implied("NOP", opNOP)

	// --- ORA -------------------------------------------------------
	t[0x09] = legRead("ORA", AmImmediate, (*CPU).opORA)
	t[0x05] = legRead("ORA", AmZeroPage, (*CPU).opORA)
	t[0x15] = legRead("ORA", AmZeroPageX, (*CPU).opORA)
	t[0x0D] = legRead("ORA", AmAbsolute, (*CPU).opORA)
	t[0x1D] = legRead("ORA", AmAbsoluteX, (*CPU).opORA)
	t[0x19] = legRead("ORA", AmAbsoluteY, (*CPU).opORA)
	t[0x01] = legRead("ORA", AmIndirectX, (*CPU).opORA)
	t[0x11] = legRead("ORA", AmIndirectY, (*CPU).opORA)

	// --- stack -------------------------------------------------------
	t[0x48] = push("PHA", (*CPU).opPHA)
	t[0x08] = push("PHP", (*CPU).opPHP)
	t[0x68] = pull("PLA", (*CPU).opPLA)
	t[0x28] = pull("PLP", (*CPU).opPLP)

	// --- ROL/ROR -----------------------------------------------------
	t[0x2A] = accumulator("ROL", (*CPU).opROLAcc)
	t[0x26] = legRMW("ROL", AmZeroPage, (*CPU).opROL)
	t[0x36] = legRMW("ROL", AmZeroPageX, (*CPU).opROL)
	t[0x2E] = legRMW("ROL", AmAbsolute, (*CPU).opROL)
	t[0x3E] = legRMW("ROL", AmAbsoluteX, (*CPU).opROL)

	t[0x6A] = accumulator("ROR", (*CPU).opRORAcc)
	t[0x66] = legRMW("ROR", AmZeroPage, (*CPU).opROR)
	t[0x76] = legRMW("ROR", AmZeroPageX, (*CPU).opROR)
	t[0x6E] = legRMW("ROR", AmAbsolute, (*CPU).opROR)
	t[0x7E] = legRMW("ROR", AmAbsoluteX, (*CPU).opROR)

	// --- RTI/RTS -----------------------------------------------------
	t[0x40] = opEntry{mnem: "RTI", kind: kRTI}
	t[0x60] = opEntry{mnem: "RTS", kind: kRTS}

	// --- SBC -------------------------------------------------------
	t[0xE9] = legRead("SBC", AmImmediate, (*CPU).opSBC)
	t[0xE5] = legRead("SBC", AmZeroPage, (*CPU).opSBC)
	t[0xF5] = legRead("SBC", AmZeroPageX, (*CPU).opSBC)
	t[0xED] = legRead("SBC", AmAbsolute, (*CPU).opSBC)
	t[0xFD] = legRead("SBC", AmAbsoluteX, (*CPU).opSBC)
	t[0xF9] = legRead("SBC", AmAbsoluteY, (*CPU).opSBC)
	t[0xE1] = legRead("SBC", AmIndirectX, (*CPU).opSBC)
	t[0xF1] = legRead("SBC", AmIndirectY, (*CPU).opSBC)

	// --- stores ------------------------------------------------------
	t[0x85] = legWrite("STA", AmZeroPage, (*CPU).opSTA)
	t[0x95] = legWrite("STA", AmZeroPageX, (*CPU).opSTA)
	t[0x8D] = legWrite("STA", AmAbsolute, (*CPU).opSTA)
	t[0x9D] = legWrite("STA", AmAbsoluteX, (*CPU).opSTA)
	t[0x99] = legWrite("STA", AmAbsoluteY, (*CPU).opSTA)
	t[0x81] = legWrite("STA", AmIndirectX, (*CPU).opSTA)
	t[0x91] = legWrite("STA", AmIndirectY, (*CPU).opSTA)

	t[0x86] = legWrite("STX", AmZeroPage, (*CPU).opSTX)
	t[0x96] = legWrite("STX", AmZeroPageY, (*CPU).opSTX)
	t[0x8E] = legWrite("STX", AmAbsolute, (*CPU).opSTX)

	t[0x84] = legWrite("STY", AmZeroPage, (*CPU).opSTY)
	t[0x94] = legWrite("STY", AmZeroPageX, (*CPU).opSTY)
	t[0x8C] = legWrite("STY", AmAbsolute, (*CPU).opSTY)

	// --- register transfers ---------------------------------------------
	t[0xAA] = implied("TAX", (*CPU).opTAX)
	t[0xA8] = implied("TAY", (*CPU).opTAY)
	t[0xBA] = implied("TSX", (*CPU).opTSX)
	t[0x8A] = implied("TXA", (*CPU).opTXA)
	t[0x9A] = implied("TXS", (*CPU).opTXS)
	t[0x98] = implied("TYA", (*CPU).opTYA)

	fillIllegal(&t)
	fillUnstable(&t)
	return t
}

// fillIllegal populates the documented, silicon-consistent undocumented
// opcodes: the combination instructions (SLO/RLA/SRE/RRA/DCP/ISB), the
// register-combining loads/stores (LAX/SAX), the immediate-mode combination
// ops (ANC/ALR/ARR/ANE/LXA/SBX), the SBC/0xEB duplicate, and the illegal NOPs
// that merely waste the addressing mode's normal cycle count.
func fillIllegal(t *[256]opEntry) {
	// SLO (ASO)
	t[0x07] = illRMW("SLO", AmZeroPage, (*CPU).opSLO)
	t[0x17] = illRMW("SLO", AmZeroPageX, (*CPU).opSLO)
	t[0x0F] = illRMW("SLO", AmAbsolute, (*CPU).opSLO)
	t[0x1F] = illRMW("SLO", AmAbsoluteX, (*CPU).opSLO)
	t[0x1B] = illRMW("SLO", AmAbsoluteY, (*CPU).opSLO)
	t[0x03] = illRMW("SLO", AmIndirectX, (*CPU).opSLO)
	t[0x13] = illRMW("SLO", AmIndirectY, (*CPU).opSLO)

	// RLA
	t[0x27] = illRMW("RLA", AmZeroPage, (*CPU).opRLA)
	t[0x37] = illRMW("RLA", AmZeroPageX, (*CPU).opRLA)
	t[0x2F] = illRMW("RLA", AmAbsolute, (*CPU).opRLA)
	t[0x3F] = illRMW("RLA", AmAbsoluteX, (*CPU).opRLA)
	t[0x3B] = illRMW("RLA", AmAbsoluteY, (*CPU).opRLA)
	t[0x23] = illRMW("RLA", AmIndirectX, (*CPU).opRLA)
	t[0x33] = illRMW("RLA", AmIndirectY, (*CPU).opRLA)

	// SRE (LSE)
	t[0x47] = illRMW("SRE", AmZeroPage, (*CPU).opSRE)
	t[0x57] = illRMW("SRE", AmZeroPageX, (*CPU).opSRE)
	t[0x4F] = illRMW("SRE", AmAbsolute, (*CPU).opSRE)
	t[0x5F] = illRMW("SRE", AmAbsoluteX, (*CPU).opSRE)
	t[0x5B] = illRMW("SRE", AmAbsoluteY, (*CPU).opSRE)
	t[0x43] = illRMW("SRE", AmIndirectX, (*CPU).opSRE)
	t[0x53] = illRMW("SRE", AmIndirectY, (*CPU).opSRE)

	// RRA
	t[0x67] = illRMW("RRA", AmZeroPage, (*CPU).opRRA)
	t[0x77] = illRMW("RRA", AmZeroPageX, (*CPU).opRRA)
	t[0x6F] = illRMW("RRA", AmAbsolute, (*CPU).opRRA)
	t[0x7F] = illRMW("RRA", AmAbsoluteX, (*CPU).opRRA)
	t[0x7B] = illRMW("RRA", AmAbsoluteY, (*CPU).opRRA)
	t[0x63] = illRMW("RRA", AmIndirectX, (*CPU).opRRA)
	t[0x73] = illRMW("RRA", AmIndirectY, (*CPU).opRRA)

	// DCP
	t[0xC7] = illRMW("DCP", AmZeroPage, (*CPU).opDCP)
	t[0xD7] = illRMW("DCP", AmZeroPageX, (*CPU).opDCP)
	t[0xCF] = illRMW("DCP", AmAbsolute, (*CPU).opDCP)
	t[0xDF] = illRMW("DCP", AmAbsoluteX, (*CPU).opDCP)
	t[0xDB] = illRMW("DCP", AmAbsoluteY, (*CPU).opDCP)
	t[0xC3] = illRMW("DCP", AmIndirectX, (*CPU).opDCP)
	t[0xD3] = illRMW("DCP", AmIndirectY, (*CPU).opDCP)

	// ISB (ISC)
	t[0xE7] = illRMW("ISB", AmZeroPage, (*CPU).opISB)
	t[0xF7] = illRMW("ISB", AmZeroPageX, (*CPU).opISB)
	t[0xEF] = illRMW("ISB", AmAbsolute, (*CPU).opISB)
	t[0xFF] = illRMW("ISB", AmAbsoluteX, (*CPU).opISB)
	t[0xFB] = illRMW("ISB", AmAbsoluteY, (*CPU).opISB)
	t[0xE3] = illRMW("ISB", AmIndirectX, (*CPU).opISB)
	t[0xF3] = illRMW("ISB", AmIndirectY, (*CPU).opISB)

	// LAX
	t[0xA7] = illRead("LAX", AmZeroPage, (*CPU).opLAX)
	t[0xB7] = illRead("LAX", AmZeroPageY, (*CPU).opLAX)
	t[0xAF] = illRead("LAX", AmAbsolute, (*CPU).opLAX)
	t[0xBF] = illRead("LAX", AmAbsoluteY, (*CPU).opLAX)
	t[0xA3] = illRead("LAX", AmIndirectX, (*CPU).opLAX)
	t[0xB3] = illRead("LAX", AmIndirectY, (*CPU).opLAX)

	// SAX (AXS store)
	t[0x87] = illWrite("SAX", AmZeroPage, (*CPU).opSAX)
	t[0x97] = illWrite("SAX", AmZeroPageY, (*CPU).opSAX)
	t[0x8F] = illWrite("SAX", AmAbsolute, (*CPU).opSAX)
	t[0x83] = illWrite("SAX", AmIndirectX, (*CPU).opSAX)

	// immediate-mode combination ops
	t[0x0B] = illRead("ANC", AmImmediate, (*CPU).opANC)
	t[0x2B] = illRead("ANC", AmImmediate, (*CPU).opANC)
	t[0x4B] = illRead("ALR", AmImmediate, (*CPU).opALR)
	t[0x6B] = illRead("ARR", AmImmediate, (*CPU).opARR)
	t[0x8B] = illRead("ANE", AmImmediate, (*CPU).opANE)
	t[0xAB] = illRead("LAX", AmImmediate, (*CPU).opLXA)
	t[0xCB] = illRead("SBX", AmImmediate, (*CPU).opSBX)
	t[0xEB] = illRead("SBC", AmImmediate, (*CPU).opSBC)

	// illegal NOPs: implied (single byte, 2 cycles)
	for _, op := range []byte{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		t[op] = illImplied("NOP", opNOP)
	}
	// illegal NOPs: immediate operand, discarded
	for _, op := range []byte{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		t[op] = illRead("NOP", AmImmediate, opNOPRead)
	}
	// illegal NOPs: zero page operand, discarded
	for _, op := range []byte{0x04, 0x44, 0x64} {
		t[op] = illRead("NOP", AmZeroPage, opNOPRead)
	}
	// illegal NOPs: zero page,X operand, discarded
	for _, op := range []byte{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		t[op] = illRead("NOP", AmZeroPageX, opNOPRead)
	}
	// illegal NOP: absolute operand, discarded
	t[0x0C] = illRead("NOP", AmAbsolute, opNOPRead)
	// illegal NOPs: absolute,X operand (page-cross-sensitive), discarded
	for _, op := range []byte{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		t[op] = illRead("NOP", AmAbsoluteX, opNOPRead)
	}
}

// fillUnstable wires the handful of opcodes whose real-silicon behavior
// depends on bus capacitance and differs across fabrication runs (SHA, SHX,
// SHY, TAS/SHS, LAS) plus the JAM/KIL opcodes that lock up a real 6502. None
// of these have a single agreed-upon deterministic behavior, so rather than
// guess, they are wired as inert implied-mode placeholders that consume the
// opcode fetch and otherwise do nothing; no caller of this table should rely
// on them for anything beyond "it doesn't crash the decoder."
func fillUnstable(t *[256]opEntry) {
	unstable := []byte{
		0x9F, 0x93, // SHA
		0x9E, // SHX
		0x9C, // SHY
		0x9B, // TAS/SHS
		0xBB, // LAS
		0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2, // JAM
	}
	for _, op := range unstable {
		t[op] = illImplied("NOP*", opNOP)
	}
}
