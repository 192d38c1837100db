package z80

// decodeMain decodes one of the base (non-prefixed, non-CB, non-ED) opcodes
// using the standard x/y/z/p/q bitfield decomposition of the Z80 opcode
// byte, rather than a literal 256-entry table: x = bits 6-7, y = bits 3-5,
// z = bits 0-2, p = y>>1, q = y&1. This is the well-known compact
// decomposition used by most modern Z80 decoders and keeps the ~250
// instruction forms (including their DD/FD-redirected addressing) in one
// readable switch instead of a quarter-thousand hand-written cases.
func decodeMain(c *CPU, opcode uint8) []microOp {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return decodeMainX0(c, y, z, p, q)
	case 1:
		return decodeMainX1(c, y, z)
	case 2:
		return decodeAluReg(c, y, z)
	case 3:
		return decodeMainX3(c, y, z, p, q)
	}
	return nil
}

func decodeMainX0(c *CPU, y, z, p, q uint8) []microOp {
	switch z {
	case 0:
		switch {
		case y == 0: // NOP
			return nil
		case y == 1: // EX AF,AF'
			c.ExchangeAF()
			return nil
		case y == 2: // DJNZ d
			return buildDJNZ(c)
		case y == 3: // JR d
			return buildJR(c, nil)
		default: // JR cc[y-4],d
			cc := y - 4
			return buildJR(c, func(c *CPU) bool { return condTrue(c, cc) })
		}
	case 1:
		if q == 0 { // LD rp[p],nn
			return pcRead16Seq(func(c *CPU, v uint16) { c.rpSet(p, v) })
		}
		// ADD HL,rp[p]
		return append(internalCycles(7), func(c *CPU, in Pins) {
			c.add16(c.IXIY(), c.rpGet(p), func(v uint16) { c.SetIXIY(v) })
		})
	case 2:
		return decodeIndirectLoad(c, p, q)
	case 3:
		if q == 0 {
			return append(internalCycles(2), func(c *CPU, in Pins) { c.rpSet(p, c.rpGet(p)+1) })
		}
		return append(internalCycles(2), func(c *CPU, in Pins) { c.rpSet(p, c.rpGet(p)-1) })
	case 4: // INC r[y]
		return decodeIncDecReg(c, y, true)
	case 5: // DEC r[y]
		return decodeIncDecReg(c, y, false)
	case 6: // LD r[y],n
		if y == 6 {
			return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
				return pcReadSeq(func(c *CPU, n uint8) {
					c.queue = append(c.queue, memWriteSeq(addr, n)...)
				})
			})
		}
		return pcReadSeq(func(c *CPU, n uint8) { c.reg8Set(y, n) })
	case 7:
		return decodeMiscA(c, y)
	}
	return nil
}

func decodeMiscA(c *CPU, y uint8) []microOp {
	switch y {
	case 0: // RLCA
		r, carry := rlc(c.A())
		c.SetA(r)
		c.SetF((c.F() & (FlagS | FlagZ | FlagP)) | carry | (r & (FlagX | FlagY)))
	case 1: // RRCA
		r, carry := rrc(c.A())
		c.SetA(r)
		c.SetF((c.F() & (FlagS | FlagZ | FlagP)) | carry | (r & (FlagX | FlagY)))
	case 2: // RLA
		r, carry := rl(c.A(), c.carryBit())
		c.SetA(r)
		c.SetF((c.F() & (FlagS | FlagZ | FlagP)) | carry | (r & (FlagX | FlagY)))
	case 3: // RRA
		r, carry := rr(c.A(), c.carryBit())
		c.SetA(r)
		c.SetF((c.F() & (FlagS | FlagZ | FlagP)) | carry | (r & (FlagX | FlagY)))
	case 4:
		c.daa()
	case 5:
		c.cpl()
	case 6:
		c.scf()
	case 7:
		c.ccf()
	}
	return nil
}

func decodeIncDecReg(c *CPU, y uint8, inc bool) []microOp {
	apply := func(v uint8) uint8 {
		if inc {
			return c.aluInc(v)
		}
		return c.aluDec(v)
	}
	if y == 6 {
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memReadSeq(addr, func(c *CPU, v uint8) {
				r := apply(v)
				c.queue = append(c.queue, internalCycle)
				c.queue = append(c.queue, memWriteSeq(addr, r)...)
			})
		})
	}
	v := c.reg8Get(y)
	c.reg8Set(y, apply(v))
	return nil
}

func decodeIndirectLoad(c *CPU, p, q uint8) []microOp {
	if q == 0 {
		switch p {
		case 0:
			return memWriteSeq(c.BC(), c.A())
		case 1:
			return memWriteSeq(c.DE(), c.A())
		case 2:
			return pcRead16Seq(func(c *CPU, addr uint16) {
				c.SetWZ(addr + 1)
				c.queue = append(c.queue, memWriteSeq(addr, uint8(c.IXIY()))...)
				c.queue = append(c.queue, memWriteSeq(addr+1, uint8(c.IXIY()>>8))...)
			})
		case 3:
			return pcRead16Seq(func(c *CPU, addr uint16) {
				c.SetWZ(addr + 1)
				c.queue = append(c.queue, memWriteSeq(addr, c.A())...)
			})
		}
	}
	switch p {
	case 0:
		return memReadSeq(c.BC(), func(c *CPU, v uint8) { c.SetA(v); c.SetWZ(c.BC() + 1) })
	case 1:
		return memReadSeq(c.DE(), func(c *CPU, v uint8) { c.SetA(v); c.SetWZ(c.DE() + 1) })
	case 2:
		return pcRead16Seq(func(c *CPU, addr uint16) {
			c.SetWZ(addr + 1)
			c.queue = append(c.queue, memReadSeq(addr, func(c *CPU, lo uint8) {
				c.tmpByte = lo
				c.queue = append(c.queue, memReadSeq(addr+1, func(c *CPU, hi uint8) {
					c.SetIXIY(uint16(hi)<<8 | uint16(c.tmpByte))
				})...)
			})...)
		})
	case 3:
		return pcRead16Seq(func(c *CPU, addr uint16) {
			c.SetWZ(addr + 1)
			c.queue = append(c.queue, memReadSeq(addr, func(c *CPU, v uint8) { c.SetA(v) })...)
		})
	}
	return nil
}

func decodeMainX1(c *CPU, y, z uint8) []microOp {
	if y == 6 && z == 6 { // HALT
		c.halted = true
		return nil
	}
	if z == 6 { // LD r[y],(HL/IX+d/IY+d) -- y always means plain H/L here
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memReadSeq(addr, func(c *CPU, v uint8) { plainReg8Set(c, y, v) })
		})
	}
	if y == 6 { // LD (HL/IX+d/IY+d),r[z] -- z always means plain H/L here
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memWriteSeq(addr, plainReg8Get(c, z))
		})
	}
	c.reg8Set(y, c.reg8Get(z))
	return nil
}

func decodeAluReg(c *CPU, y, z uint8) []microOp {
	if z == 6 {
		return withEffectiveAddr(c, func(c *CPU, addr uint16) []microOp {
			return memReadSeq(addr, func(c *CPU, v uint8) { applyAlu(c, y, v) })
		})
	}
	applyAlu(c, y, c.reg8Get(z))
	return nil
}

func applyAlu(c *CPU, y uint8, v uint8) {
	switch y {
	case 0:
		c.aluAdd(v, false)
	case 1:
		c.aluAdd(v, true)
	case 2:
		c.aluSub(v, false)
	case 3:
		c.aluSub(v, true)
	case 4:
		c.aluAnd(v)
	case 5:
		c.aluXor(v)
	case 6:
		c.aluOr(v)
	case 7:
		c.aluCp(v)
	}
}

func decodeMainX3(c *CPU, y, z, p, q uint8) []microOp {
	switch z {
	case 0: // RET cc[y]
		var ops []microOp
		ops = append(ops, internalCycle)
		ops = append(ops, func(c *CPU, in Pins) {
			if condTrue(c, y) {
				c.queue = append(c.queue, popSeq(func(c *CPU, v uint16) {
					c.SetPC(v)
					c.SetWZ(v)
				})...)
			}
		})
		return ops
	case 1:
		if q == 0 { // POP rp2[p]
			return popSeq(func(c *CPU, v uint16) { c.rp2Set(p, v) })
		}
		switch p {
		case 0: // RET
			return popSeq(func(c *CPU, v uint16) { c.SetPC(v); c.SetWZ(v) })
		case 1: // EXX
			c.Exchange()
			return nil
		case 2: // JP (HL)/(IX)/(IY) -- no indirection, just the register value
			c.SetPC(c.IXIY())
			return nil
		case 3: // LD SP,HL/IX/IY
			return append(internalCycles(2), func(c *CPU, in Pins) { c.SetSP(c.IXIY()) })
		}
	case 2: // JP cc[y],nn
		return pcRead16Seq(func(c *CPU, addr uint16) {
			c.SetWZ(addr)
			if condTrue(c, y) {
				c.SetPC(addr)
			}
		})
	case 3:
		switch y {
		case 0: // JP nn
			return pcRead16Seq(func(c *CPU, addr uint16) { c.SetPC(addr); c.SetWZ(addr) })
		case 2: // OUT (n),A
			return pcReadSeq(func(c *CPU, n uint8) {
				addr := uint16(c.A())<<8 | uint16(n)
				c.queue = append(c.queue, ioWriteSeq(addr, c.A())...)
			})
		case 3: // IN A,(n)
			return pcReadSeq(func(c *CPU, n uint8) {
				addr := uint16(c.A())<<8 | uint16(n)
				c.queue = append(c.queue, ioReadSeq(addr, func(c *CPU, v uint8) { c.SetA(v) })...)
			})
		case 4: // EX (SP),HL/IX/IY -- SP itself never moves
			sp := c.SP()
			old := c.IXIY()
			return memReadSeq(sp, func(c *CPU, lo uint8) {
				c.queue = append(c.queue, memReadSeq(sp+1, func(c *CPU, hi uint8) {
					newVal := uint16(hi)<<8 | uint16(lo)
					c.queue = append(c.queue, internalCycle)
					c.queue = append(c.queue, memWriteSeq(sp+1, uint8(old>>8))...)
					c.queue = append(c.queue, memWriteSeq(sp, uint8(old))...)
					c.queue = append(c.queue, func(c *CPU, in Pins) {
						c.SetIXIY(newVal)
						c.SetWZ(newVal)
					})
				})...)
			})
		case 5: // EX DE,HL
			de, hl := c.DE(), c.HL()
			c.SetDE(hl)
			c.SetHL(de)
			return nil
		case 6: // DI
			c.SetIFF1(false)
			c.SetIFF2(false)
			return nil
		case 7: // EI
			c.SetIFF1(true)
			c.SetIFF2(true)
			c.eiSuppressOnce = true
			return nil
		}
	case 4: // CALL cc[y],nn
		return pcRead16Seq(func(c *CPU, addr uint16) {
			c.SetWZ(addr)
			if condTrue(c, y) {
				c.queue = append(c.queue, internalCycle)
				c.queue = append(c.queue, pushSeq(c.PC())...)
				c.queue = append(c.queue, func(c *CPU, in Pins) { c.SetPC(addr) })
			}
		})
	case 5:
		if q == 0 { // PUSH rp2[p]
			return append([]microOp{internalCycle}, pushSeq(c.rp2Get(p))...)
		}
		switch p {
		case 0: // CALL nn
			return pcRead16Seq(func(c *CPU, addr uint16) {
				c.SetWZ(addr)
				c.queue = append(c.queue, pushSeq(c.PC())...)
				c.queue = append(c.queue, func(c *CPU, in Pins) { c.SetPC(addr) })
			})
		}
	case 6: // alu[y] A,n
		return pcReadSeq(func(c *CPU, n uint8) { applyAlu(c, y, n) })
	case 7: // RST y*8
		dest := uint16(y) * 8
		ops := append([]microOp{internalCycle}, pushSeq(c.PC())...)
		ops = append(ops, func(c *CPU, in Pins) { c.SetPC(dest); c.SetWZ(dest) })
		return ops
	}
	return nil
}

// buildJR builds JR d (cond==nil) or JR cc,d: reads the signed displacement,
// and if taken (or unconditional), spends 5 T-states applying PC+=d, the
// last of which is the one that actually writes PC/WZ.
func buildJR(c *CPU, cond func(c *CPU) bool) []microOp {
	return pcReadSeq(func(c *CPU, d uint8) {
		if cond == nil || cond(c) {
			dest := uint16(int32(c.PC()) + int32(int8(d)))
			ops := internalCycles(4)
			ops = append(ops, func(c *CPU, in Pins) { c.SetPC(dest); c.SetWZ(dest) })
			c.queue = append(c.queue, ops...)
		}
	})
}

// buildDJNZ decrements B during the single extra T-state that extends its
// opcode fetch to 5 T-states, then behaves like JR if B is now nonzero.
func buildDJNZ(c *CPU) []microOp {
	return []microOp{func(c *CPU, in Pins) {
		c.SetB(c.B() - 1)
		taken := c.B() != 0
		c.queue = append(c.queue, buildJR(c, func(c *CPU) bool { return taken })...)
	}}
}

// pcRead16Seq reads a little-endian 16-bit immediate from PC (two tMR
// reads) and delivers it to then.
func pcRead16Seq(then func(c *CPU, v uint16)) []microOp {
	var lo uint8
	return pcReadSeq(func(c *CPU, l uint8) {
		lo = l
		c.queue = append(c.queue, pcReadSeq(func(c *CPU, hi uint8) {
			then(c, uint16(hi)<<8|uint16(lo))
		})...)
	})
}
