package mos6502

// This file holds the per-instruction execution bodies referenced by the
// opcode table in opcodes.go. Each function's signature is dictated by its
// opKind: read instructions consume an already-fetched operand, write
// instructions produce the byte to store, read-modify-write instructions
// transform an already-fetched value into the one written back.

// --- loads / stores -----------------------------------------------------

func (c *CPU) opLDA(v uint8) { c.A = v; c.setNZ(v) }
func (c *CPU) opLDX(v uint8) { c.X = v; c.setNZ(v) }
func (c *CPU) opLDY(v uint8) { c.Y = v; c.setNZ(v) }

func (c *CPU) opSTA() uint8 { return c.A }
func (c *CPU) opSTX() uint8 { return c.X }
func (c *CPU) opSTY() uint8 { return c.Y }

// --- ALU read instructions -----------------------------------------------

func (c *CPU) opADC(v uint8) { c.adc(v) }
func (c *CPU) opSBC(v uint8) { c.sbc(v) }

func (c *CPU) opAND(v uint8) { c.A &= v; c.setNZ(c.A) }
func (c *CPU) opORA(v uint8) { c.A |= v; c.setNZ(c.A) }
func (c *CPU) opEOR(v uint8) { c.A ^= v; c.setNZ(c.A) }

func (c *CPU) compare(reg, v uint8) {
	r := reg - v
	c.setFlag(flagC, reg >= v)
	c.setNZ(r)
}

func (c *CPU) opCMP(v uint8) { c.compare(c.A, v) }
func (c *CPU) opCPX(v uint8) { c.compare(c.X, v) }
func (c *CPU) opCPY(v uint8) { c.compare(c.Y, v) }

func (c *CPU) opBIT(v uint8) {
	c.setFlag(flagZ, c.A&v == 0)
	c.setFlag(flagV, v&0x40 != 0)
	c.setFlag(flagN, v&0x80 != 0)
}

func opNOPRead(c *CPU, v uint8) {}

// --- read-modify-write ----------------------------------------------------

func (c *CPU) opASL(v uint8) uint8 {
	c.setFlag(flagC, v&0x80 != 0)
	r := v << 1
	c.setNZ(r)
	return r
}

func (c *CPU) opLSR(v uint8) uint8 {
	c.setFlag(flagC, v&0x01 != 0)
	r := v >> 1
	c.setNZ(r)
	return r
}

func (c *CPU) opROL(v uint8) uint8 {
	carryIn := uint8(0)
	if c.getFlag(flagC) {
		carryIn = 1
	}
	c.setFlag(flagC, v&0x80 != 0)
	r := (v << 1) | carryIn
	c.setNZ(r)
	return r
}

func (c *CPU) opROR(v uint8) uint8 {
	carryIn := uint8(0)
	if c.getFlag(flagC) {
		carryIn = 0x80
	}
	c.setFlag(flagC, v&0x01 != 0)
	r := (v >> 1) | carryIn
	c.setNZ(r)
	return r
}

func (c *CPU) opINC(v uint8) uint8 { r := v + 1; c.setNZ(r); return r }
func (c *CPU) opDEC(v uint8) uint8 { r := v - 1; c.setNZ(r); return r }

// --- implied / accumulator ------------------------------------------------

func (c *CPU) opCLC() { c.setFlag(flagC, false) }
func (c *CPU) opSEC() { c.setFlag(flagC, true) }
func (c *CPU) opCLI() { c.setFlag(flagI, false) }
func (c *CPU) opSEI() { c.setFlag(flagI, true) }
func (c *CPU) opCLV() { c.setFlag(flagV, false) }
func (c *CPU) opCLD() { c.setFlag(flagD, false) }
func (c *CPU) opSED() { c.setFlag(flagD, true) }

func (c *CPU) opTAX() { c.X = c.A; c.setNZ(c.X) }
func (c *CPU) opTXA() { c.A = c.X; c.setNZ(c.A) }
func (c *CPU) opTAY() { c.Y = c.A; c.setNZ(c.Y) }
func (c *CPU) opTYA() { c.A = c.Y; c.setNZ(c.A) }
func (c *CPU) opTSX() { c.X = c.S; c.setNZ(c.X) }
func (c *CPU) opTXS() { c.S = c.X }
func (c *CPU) opDEX() { c.X--; c.setNZ(c.X) }
func (c *CPU) opDEY() { c.Y--; c.setNZ(c.Y) }
func (c *CPU) opINX() { c.X++; c.setNZ(c.X) }
func (c *CPU) opINY() { c.Y++; c.setNZ(c.Y) }
func opNOP(_ *CPU)    {}

func (c *CPU) opASLAcc() { c.A = c.opASL(c.A) }
func (c *CPU) opLSRAcc() { c.A = c.opLSR(c.A) }
func (c *CPU) opROLAcc() { c.A = c.opROL(c.A) }
func (c *CPU) opRORAcc() { c.A = c.opROR(c.A) }

// --- branches --------------------------------------------------------

func (c *CPU) brBPL() bool { return !c.getFlag(flagN) }
func (c *CPU) brBMI() bool { return c.getFlag(flagN) }
func (c *CPU) brBVC() bool { return !c.getFlag(flagV) }
func (c *CPU) brBVS() bool { return c.getFlag(flagV) }
func (c *CPU) brBCC() bool { return !c.getFlag(flagC) }
func (c *CPU) brBCS() bool { return c.getFlag(flagC) }
func (c *CPU) brBNE() bool { return !c.getFlag(flagZ) }
func (c *CPU) brBEQ() bool { return c.getFlag(flagZ) }

// --- stack ---------------------------------------------------------------

func (c *CPU) opPHA() uint8 { return c.A }
func (c *CPU) opPHP() uint8 { return c.P | flagB | flagU }

func (c *CPU) opPLA(v uint8) { c.A = v; c.setNZ(v) }
func (c *CPU) opPLP(v uint8) { c.P = (v &^ flagB) | flagU }

// --- undocumented opcodes --------------------------------------------------

func (c *CPU) opSLO(v uint8) uint8 { r := c.opASL(v); c.A |= r; c.setNZ(c.A); return r }
func (c *CPU) opRLA(v uint8) uint8 { r := c.opROL(v); c.A &= r; c.setNZ(c.A); return r }
func (c *CPU) opSRE(v uint8) uint8 { r := c.opLSR(v); c.A ^= r; c.setNZ(c.A); return r }
func (c *CPU) opRRA(v uint8) uint8 { r := c.opROR(v); c.adc(r); return r }
func (c *CPU) opDCP(v uint8) uint8 { r := v - 1; c.compare(c.A, r); return r }
func (c *CPU) opISB(v uint8) uint8 { r := v + 1; c.sbc(r); return r }

func (c *CPU) opLAX(v uint8) { c.A, c.X = v, v; c.setNZ(v) }
func (c *CPU) opSAX() uint8  { return c.A & c.X }

func (c *CPU) opANC(v uint8) {
	c.A &= v
	c.setNZ(c.A)
	c.setFlag(flagC, c.A&0x80 != 0)
}

func (c *CPU) opALR(v uint8) {
	c.A &= v
	c.setFlag(flagC, c.A&0x01 != 0)
	c.A >>= 1
	c.setNZ(c.A)
}

func (c *CPU) opARR(v uint8) { c.arr(v) }

// opANE ("XAA"): the documented-but-unreliable-on-real-silicon formula is
// approximated with the commonly quoted magic constant 0xEE, covering only
// the stable subset of its behavior.
func (c *CPU) opANE(v uint8) {
	c.A = (c.A | 0xEE) & c.X & v
	c.setNZ(c.A)
}

func (c *CPU) opLXA(v uint8) {
	c.A = (c.A | 0xEE) & v
	c.X = c.A
	c.setNZ(c.A)
}

func (c *CPU) opSBX(v uint8) {
	r := (c.A & c.X) - v
	c.setFlag(flagC, (c.A&c.X) >= v)
	c.X = r
	c.setNZ(r)
}
