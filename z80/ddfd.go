package z80

// buildIndexedCB builds the DDCB/FDCB double-prefix sequence: displacement
// byte, then the CB-style opcode byte, then the operation at (IX+d)/(IY+d).
// Unlike plain CB ops, every non-BIT form here also writes its result back
// into the z-selected register copy unless z==6 (e.g. DD CB 05 06 is
// RLC (IX+5) with the result copied into (HL) only, i.e. no extra
// register write, since z==6 there; any other low 3 bits also land in that
// register).
func buildIndexedCB(c *CPU) []microOp {
	var ops []microOp
	ops = append(ops, pcReadSeq(func(c *CPU, d uint8) {
		c.displ = int8(d)
	})...)
	ops = append(ops, pcReadSeq(func(c *CPU, op uint8) {
		c.queue = append(c.queue, indexedCBBody(c, op)...)
	})...)
	return ops
}

func indexedCBBody(c *CPU, opcode uint8) []microOp {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	base := c.IX()
	if c.UseIY() {
		base = c.IY()
	}
	addr := uint16(int32(base) + int32(c.displ))

	var ops []microOp
	ops = append(ops, internalCycles(2)...)
	ops = append(ops, memReadSeq(addr, func(c *CPU, v uint8) {
		var result uint8
		switch x {
		case 0:
			carry := uint8(0)
			result, carry = shiftOp(y, c, v)
			c.shiftFlags(result, carry)
			c.queue = append(c.queue, memWriteSeq(addr, result)...)
			if z != 6 {
				c.queue = append(c.queue, writeBackReg(z, result))
			}
		case 1:
			c.bitFlags(y, v, uint8(addr>>8))
		case 2:
			result = v &^ (1 << y)
			c.queue = append(c.queue, memWriteSeq(addr, result)...)
			if z != 6 {
				c.queue = append(c.queue, writeBackReg(z, result))
			}
		default:
			result = v | (1 << y)
			c.queue = append(c.queue, memWriteSeq(addr, result)...)
			if z != 6 {
				c.queue = append(c.queue, writeBackReg(z, result))
			}
		}
		c.ClearPrefix()
	})...)
	return ops
}

// writeBackReg stores v into the z-selected plain register. This bypasses
// reg8Set's IXH/IXL redirect on purpose: the DDCB/FDCB write-back quirk
// always targets the plain B/C/D/E/H/L/A register, never IXH/IXL, since the
// instruction is already using IX/IY for the memory address itself.
func writeBackReg(z uint8, v uint8) microOp {
	return func(c *CPU, in Pins) {
		switch z {
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
}
