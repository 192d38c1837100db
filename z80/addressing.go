package z80

// reg8Get/reg8Set implement the z/y 3-bit register field {B,C,D,E,H,L,(HL),A}
// from the standard Z80 opcode decomposition. Codes 4/5 (H/L) are redirected
// to IXH/IXL or IYH/IYL whenever a DD/FD prefix is active, matching the
// well-documented undocumented direct-index-half-register opcodes. Code 6,
// (HL)/(IX+d)/(IY+d), is never handled here: it always needs a bus cycle, so
// callers route it through withEffectiveAddr instead.

func (c *CPU) reg8Get(code uint8) uint8 {
	switch code {
	case 0:
		return c.B()
	case 1:
		return c.C()
	case 2:
		return c.D()
	case 3:
		return c.E()
	case 4:
		if c.UseIX() {
			return uint8(c.IX() >> 8)
		}
		if c.UseIY() {
			return uint8(c.IY() >> 8)
		}
		return c.H()
	case 5:
		if c.UseIX() {
			return uint8(c.IX())
		}
		if c.UseIY() {
			return uint8(c.IY())
		}
		return c.L()
	case 7:
		return c.A()
	}
	return 0
}

func (c *CPU) reg8Set(code uint8, v uint8) {
	switch code {
	case 0:
		c.SetB(v)
	case 1:
		c.SetC(v)
	case 2:
		c.SetD(v)
	case 3:
		c.SetE(v)
	case 4:
		if c.UseIX() {
			c.SetIX(uint16(v)<<8 | uint16(c.IX()&0xFF))
		} else if c.UseIY() {
			c.SetIY(uint16(v)<<8 | uint16(c.IY()&0xFF))
		} else {
			c.SetH(v)
		}
	case 5:
		if c.UseIX() {
			c.SetIX(c.IX()&0xFF00 | uint16(v))
		} else if c.UseIY() {
			c.SetIY(c.IY()&0xFF00 | uint16(v))
		} else {
			c.SetL(v)
		}
	case 7:
		c.SetA(v)
	}
}

// plainReg8Get/Set access the B,C,D,E,H,L,_,A field without the IXH/IXL
// redirect. Real hardware never applies the undocumented half-register
// substitution to the register field paired with a z==6/y==6 (HL)-coded
// operand: "LD H,(IX+d)" loads into plain H even under a DD prefix, since
// mixing direct-index-half access with memory-indirect addressing in the
// same instruction is not an opcode that exists.
func plainReg8Get(c *CPU, code uint8) uint8 {
	switch code {
	case 0:
		return c.B()
	case 1:
		return c.C()
	case 2:
		return c.D()
	case 3:
		return c.E()
	case 4:
		return c.H()
	case 5:
		return c.L()
	case 7:
		return c.A()
	}
	return 0
}

func plainReg8Set(c *CPU, code uint8, v uint8) {
	switch code {
	case 0:
		c.SetB(v)
	case 1:
		c.SetC(v)
	case 2:
		c.SetD(v)
	case 3:
		c.SetE(v)
	case 4:
		c.SetH(v)
	case 5:
		c.SetL(v)
	case 7:
		c.SetA(v)
	}
}

// rp returns one of BC/DE/HL(or IX/IY)/SP for the 2-bit p field.
func (c *CPU) rpGet(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.IXIY()
	case 3:
		return c.SP()
	}
	return 0
}

func (c *CPU) rpSet(p uint8, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetIXIY(v)
	case 3:
		c.SetSP(v)
	}
}

// rp2 is the PUSH/POP variant, substituting AF for SP at p==3.
func (c *CPU) rp2Get(p uint8) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.rpGet(p)
}

func (c *CPU) rp2Set(p uint8, v uint16) {
	if p == 3 {
		c.SetAF(v)
		return
	}
	c.rpSet(p, v)
}

func condTrue(c *CPU, y uint8) bool {
	f := c.F()
	switch y {
	case 0:
		return f&FlagZ == 0
	case 1:
		return f&FlagZ != 0
	case 2:
		return f&FlagC == 0
	case 3:
		return f&FlagC != 0
	case 4:
		return f&FlagP == 0
	case 5:
		return f&FlagP != 0
	case 6:
		return f&FlagS == 0
	case 7:
		return f&FlagS != 0
	}
	return false
}

// withEffectiveAddr resolves the (HL)/(IX+d)/(IY+d) target for a z==6 8-bit
// operand. For plain HL, the address is already known and cont runs
// immediately at decode time with no extra bus cycles. For an indexed
// prefix, it queues the displacement fetch and the 5-T-state offset-compute
// window before appending cont's own sequence to the running queue.
func withEffectiveAddr(c *CPU, cont func(c *CPU, addr uint16) []microOp) []microOp {
	if !(c.UseIX() || c.UseIY()) {
		return cont(c, c.HL())
	}
	var ops []microOp
	ops = append(ops, pcReadSeq(func(c *CPU, d uint8) {
		c.displ = int8(d)
	})...)
	ops = append(ops, internalCycles(5)...)
	ops = append(ops, func(c *CPU, in Pins) {
		base := c.IX()
		if c.UseIY() {
			base = c.IY()
		}
		addr := uint16(int32(base) + int32(c.displ))
		rest := cont(c, addr)
		c.queue = append(c.queue, rest...)
	})
	return ops
}
