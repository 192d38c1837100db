package z80

// buildNMI constructs the 11-T-state NMI acceptance sequence: IFF1 is saved
// into IFF2 (so RETN can restore it), IFF1 is cleared, and PC is pushed and
// redirected to the fixed vector 0x0066.
func buildNMI(c *CPU) []microOp {
	c.SetIFF2(c.IFF1())
	c.SetIFF1(false)
	c.BumpR()

	var ops []microOp
	ops = append(ops, internalCycles(3)...)
	ops = append(ops, pushSeq(c.PC())...)
	ops = append(ops, func(c *CPU, in Pins) {
		c.SetPC(0x0066)
		c.pins = opcodeFetch(0x0066)
	})
	return ops
}

// buildINTAck constructs the maskable-interrupt acceptance sequence, which
// depends on the current interrupt mode.
func buildINTAck(c *CPU) []microOp {
	c.SetIFF1(false)
	c.SetIFF2(false)
	c.BumpR()

	switch c.IM() {
	case 1:
		var ops []microOp
		ops = append(ops, internalCycles(5)...)
		ops = append(ops, pushSeq(c.PC())...)
		ops = append(ops, func(c *CPU, in Pins) {
			c.SetPC(0x0038)
			c.pins = opcodeFetch(0x0038)
		})
		return ops

	case 2:
		n := 0
		var vecLow uint8
		ack := func(c *CPU, in Pins) {
			n++
			if n == 1 {
				c.pins = iorqM1Read(0)
				return
			}
			if n < 6 {
				return
			}
			vecLow = in.Data()
			ret := c.PC()
			rest := pushSeq(ret)
			rest = append(rest, memReadSeq(uint16(c.I())<<8|uint16(vecLow), func(c *CPU, lo uint8) {
				c.tmpByte = lo
			})...)
			rest = append(rest, memReadSeq(uint16(c.I())<<8|uint16(vecLow)+1, func(c *CPU, hi uint8) {
				dest := uint16(hi)<<8 | uint16(c.tmpByte)
				c.SetPC(dest)
				c.pins = opcodeFetch(dest)
			})...)
			c.queue = append(c.queue, rest...)
		}
		return repeatSeq(6, ack)

	default: // IM 0: simplified to the overwhelmingly common case of a
		// device placing a single-byte RST nn on the bus; any other byte
		// falls back to IM 1 behavior rather than decoding an arbitrary
		// multi-byte instruction.
		n := 0
		var opByte uint8
		ack := func(c *CPU, in Pins) {
			n++
			if n == 1 {
				c.pins = iorqM1Read(0)
				return
			}
			if n < 6 {
				return
			}
			opByte = in.Data()
			dest := uint16(0x0038)
			if opByte&0xC7 == 0xC7 {
				dest = uint16(opByte & 0x38)
			}
			rest := pushSeq(c.PC())
			rest = append(rest, func(c *CPU, in Pins) {
				c.SetPC(dest)
				c.pins = opcodeFetch(dest)
			})
			c.queue = append(c.queue, rest...)
		}
		return repeatSeq(6, ack)
	}
}
