package z80

// This file holds the register-level effects shared by the main, CB and ED
// decode tables: arithmetic/logic on A, the INC/DEC/rotate/shift primitives,
// and 16-bit ADD/ADC/SBC. Each operates directly on the CPU's packed
// register banks through the Registers accessors.

func (c *CPU) aluAdd(v uint8, withCarry bool) {
	carry := uint8(0)
	if withCarry && c.F()&FlagC != 0 {
		carry = 1
	}
	r, f := addFlags(c.A(), v, carry)
	c.SetA(r)
	c.SetF(f)
}

func (c *CPU) aluSub(v uint8, withCarry bool) {
	carry := uint8(0)
	if withCarry && c.F()&FlagC != 0 {
		carry = 1
	}
	r, f := subFlags(c.A(), v, carry)
	c.SetA(r)
	c.SetF(f)
}

func (c *CPU) aluAnd(v uint8) { r := c.A() & v; c.SetA(r); c.SetF(andFlags(r)) }
func (c *CPU) aluOr(v uint8)  { r := c.A() | v; c.SetA(r); c.SetF(orFlags(r)) }
func (c *CPU) aluXor(v uint8) { r := c.A() ^ v; c.SetA(r); c.SetF(xorFlags(r)) }
func (c *CPU) aluCp(v uint8)  { c.SetF(cpFlags(c.A(), v)) }

func (c *CPU) aluInc(v uint8) uint8 {
	r, f := incFlags(v)
	c.SetF((c.F() & FlagC) | f)
	return r
}

func (c *CPU) aluDec(v uint8) uint8 {
	r, f := decFlags(v)
	c.SetF((c.F() & FlagC) | f)
	return r
}

// rotate/shift primitives. The second return value is the new carry-out (0
// or 1), the bit that rotated or shifted out.
func rlc(v uint8) (uint8, uint8) {
	carry := v >> 7
	r := (v << 1) | carry
	return r, carry
}
func rrc(v uint8) (uint8, uint8) {
	carry := v & 1
	r := (v >> 1) | (carry << 7)
	return r, carry
}
func rl(v, carryIn uint8) (uint8, uint8) {
	carry := v >> 7
	r := (v << 1) | carryIn
	return r, carry
}
func rr(v, carryIn uint8) (uint8, uint8) {
	carry := v & 1
	r := (v >> 1) | (carryIn << 7)
	return r, carry
}
func sla(v uint8) (uint8, uint8) { return v << 1, v >> 7 }
func sra(v uint8) (uint8, uint8) { return (v >> 1) | (v & 0x80), v & 1 }
func sll(v uint8) (uint8, uint8) { return (v << 1) | 1, v >> 7 } // undocumented "SLL"/"SL1"
func srl(v uint8) (uint8, uint8) { return v >> 1, v & 1 }

func (c *CPU) shiftFlags(r, carry uint8) {
	c.SetF(sz53pTable[r] | carry)
}

func (c *CPU) carryBit() uint8 {
	if c.F()&FlagC != 0 {
		return 1
	}
	return 0
}

func (c *CPU) add16(dst, b uint16, writeDst func(uint16)) {
	r, f := add16Flags(dst, b)
	writeDst(r)
	c.SetF((c.F() &^ (FlagC | FlagH | FlagN | FlagX | FlagY)) | f)
}

func (c *CPU) adc16(dst, b uint16, writeDst func(uint16)) {
	r, f := adc16Flags(dst, b, c.carryBit())
	writeDst(r)
	c.SetF(f)
}

func (c *CPU) sbc16(dst, b uint16, writeDst func(uint16)) {
	r, f := sbc16Flags(dst, b, c.carryBit())
	writeDst(r)
	c.SetF(f)
}

// daa implements the Z80's decimal-adjust, ported from the well-known
// table-driven derivation (same result as the classic diff/factor approach
// used by remogatto/z80 and its descendants).
func (c *CPU) daa() {
	a := c.A()
	f := c.F()
	add := uint8(0)
	carry := f & FlagC

	if f&FlagH != 0 || a&0x0F > 9 {
		add = 6
	}
	if carry != 0 || a > 0x99 {
		add |= 0x60
		carry = FlagC
	}
	if f&FlagN != 0 {
		half := f&FlagH != 0 && a&0x0F < 6
		a -= add
		if half {
			f |= FlagH
		} else {
			f &^= FlagH
		}
	} else {
		if a&0x0F > 9 {
			f |= FlagH
		} else {
			f &^= FlagH
		}
		a += add
	}

	c.SetA(a)
	c.SetF((sz53pTable[a] &^ FlagC) | carry | (f & (FlagN | FlagH)))
}

func (c *CPU) cpl() {
	a := ^c.A()
	c.SetA(a)
	c.SetF((c.F() & (FlagC | FlagP | FlagZ | FlagS)) | FlagH | FlagN | (a & (FlagX | FlagY)))
}

func (c *CPU) scf() {
	c.SetF((c.F() & (FlagP | FlagZ | FlagS)) | FlagC | (c.A() & (FlagX | FlagY)))
}

func (c *CPU) ccf() {
	hadCarry := c.F() & FlagC
	newCarry := hadCarry ^ FlagC
	half := uint8(0)
	if hadCarry != 0 {
		half = FlagH
	}
	c.SetF((c.F()&(FlagP|FlagZ|FlagS))|newCarry|half|(c.A()&(FlagX|FlagY)))
}

func (c *CPU) neg() {
	r, f := subFlags(0, c.A(), 0)
	c.SetA(r)
	c.SetF(f)
}
