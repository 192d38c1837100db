package z80

// decodeCB builds the microOp sequence for a plain (non-indexed) CB-prefixed
// opcode, using the same x/y/z decomposition as the main table: x selects the
// group (rotate/shift, BIT, RES, SET), y the sub-op or bit number, z the
// operand register. The caller (beginInstruction) already bumped R for the
// CB byte itself; Tick arms the next opcode fetch automatically once the
// returned queue drains, so decodeCB never does that itself.
func decodeCB(c *CPU, opcode uint8) []microOp {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	switch x {
	case 0:
		return cbShift(c, y, z)
	case 1:
		return cbBit(c, y, z)
	case 2:
		return cbResSet(c, z, func(v uint8) uint8 { return v &^ (1 << y) })
	default:
		return cbResSet(c, z, func(v uint8) uint8 { return v | (1 << y) })
	}
}

// shiftOp applies one of the eight rotate/shift primitives, returning the
// result and the new carry flag.
func shiftOp(y uint8, c *CPU, v uint8) (uint8, uint8) {
	switch y {
	case 0:
		return rlc(v)
	case 1:
		return rrc(v)
	case 2:
		return rl(v, c.carryBit())
	case 3:
		return rr(v, c.carryBit())
	case 4:
		return sla(v)
	case 5:
		return sra(v)
	case 6:
		return sll(v)
	default:
		return srl(v)
	}
}

func cbShift(c *CPU, y, z uint8) []microOp {
	if z == 6 {
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memReadSeq(addr, func(c *CPU, v uint8) {
				r, carry := shiftOp(y, c, v)
				c.shiftFlags(r, carry)
				c.queue = append(c.queue, memWriteSeq(addr, r)...)
			})
		})
	}
	v := c.reg8Get(z)
	r, carry := shiftOp(y, c, v)
	c.shiftFlags(r, carry)
	c.reg8Set(z, r)
	return nil
}

// cbBit implements BIT b,r / BIT b,(HL). The undocumented X/Y flag bits come
// from the tested value for register operands, or from the high byte of WZ
// for BIT b,(HL). The (IX+d)/(IY+d) forms go through indexedCBBody, which
// uses the high byte of IX+d/IY+d.
func cbBit(c *CPU, y, z uint8) []microOp {
	if z == 6 {
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memReadSeq(addr, func(c *CPU, v uint8) {
				c.bitFlags(y, v, uint8(c.WZ()>>8))
			})
		})
	}
	v := c.reg8Get(z)
	c.bitFlags(y, v, v)
	return nil
}

func (c *CPU) bitFlags(bit, v, xyFrom uint8) {
	set := v&(1<<bit) != 0
	f := (c.F() & FlagC) | FlagH | (xyFrom & (FlagX | FlagY))
	if !set {
		f |= FlagZ | FlagP
	}
	if bit == 7 && set {
		f |= FlagS
	}
	c.SetF(f)
}

// cbResSet implements the shared shape of RES b,r/(HL) and SET b,r/(HL):
// apply edit to the operand and write it back, touching no flags.
func cbResSet(c *CPU, z uint8, edit func(uint8) uint8) []microOp {
	if z == 6 {
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memReadSeq(addr, func(c *CPU, v uint8) {
				c.queue = append(c.queue, memWriteSeq(addr, edit(v))...)
			})
		})
	}
	c.reg8Set(z, edit(c.reg8Get(z)))
	return nil
}
