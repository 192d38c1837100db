package mos6502

import "tickchip/bits"

// AddrMode enumerates the 6502's addressing modes; Implied
// also covers Accumulator mode, since both are a 1-extra-cycle dummy read
// that operates on a register rather than memory.
type AddrMode uint8

const (
	AmImplied AddrMode = iota
	AmImmediate
	AmZeroPage
	AmZeroPageX
	AmZeroPageY
	AmAbsolute
	AmAbsoluteX
	AmAbsoluteY
	AmIndirectX
	AmIndirectY
	AmRelative
	AmIndirect // JMP only
)

// opKind tells buildSequence which family of bus-cycle sequence to emit.
type opKind uint8

const (
	kImplied opKind = iota
	kRead
	kWrite
	kRMW
	kBranch
	kJMP
	kJMPIndirect
	kJSR
	kRTS
	kRTI
	kBRK
	kPush
	kPull
)

// opEntry is one row of the 256-entry opcode table. Exactly one of
// implied/read/write/rmw/branch is populated, selected by kind; push reuses
// write (value to push), pull reuses read (value popped, applied to a
// register or to P).
type opEntry struct {
	mnem    string
	mode    AddrMode
	kind    opKind
	illegal bool

	implied func(c *CPU)
	read    func(c *CPU, v uint8)
	write   func(c *CPU) uint8
	rmw     func(c *CPU, v uint8) uint8
	branch  func(c *CPU) bool
}

// buildSequence runs the immediate (first) bus request for opcode and
// returns the remaining microOps; the total instruction cycle count is 1
// (the fetch, already consumed by beginInstruction) plus the length of the
// returned slice, plus any microOps a step appends to c.queue while it runs
// (the page-crossing fix-up and taken-branch cycles).
func buildSequence(c *CPU, opcode uint8) []microOp {
	e := &opcodeTable[opcode]
	switch e.kind {
	case kImplied:
		return buildImplied(c, e)
	case kRead:
		return buildReadSeq(c, e)
	case kWrite:
		return buildWriteSeq(c, e)
	case kRMW:
		return buildRMWSeq(c, e)
	case kBranch:
		return buildBranch(c, e)
	case kJMP:
		return buildJMP(c)
	case kJMPIndirect:
		return buildJMPIndirect(c)
	case kJSR:
		return buildJSR(c)
	case kRTS:
		return buildRTS(c)
	case kRTI:
		return buildRTI(c)
	case kBRK:
		return buildInterrupt(c)
	case kPush:
		return buildPush(c, e)
	case kPull:
		return buildPull(c, e)
	}
	panic("mos6502: unhandled opcode kind")
}

// --- implied / accumulator --------------------------------------------

func buildImplied(c *CPU, e *opEntry) []microOp {
	c.requestRead(c.PC)
	return []microOp{
		func(c *CPU, in Pins) {
			e.implied(c)
			c.armNextFetch()
		},
	}
}

// --- read-family ---------------------------------------------------------

func buildReadSeq(c *CPU, e *opEntry) []microOp {
	switch e.mode {
	case AmImmediate:
		addr := c.PC
		c.PC++
		c.requestRead(addr)
		return []microOp{
			func(c *CPU, in Pins) {
				e.read(c, in.Data())
				c.armNextFetch()
			},
		}

	case AmZeroPage:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.requestRead(uint16(in.Data())) },
			func(c *CPU, in Pins) { e.read(c, in.Data()); c.armNextFetch() },
		}

	case AmZeroPageX:
		return zeroPageIndexedRead(c, e, func(c *CPU) uint8 { return c.X })
	case AmZeroPageY:
		return zeroPageIndexedRead(c, e, func(c *CPU) uint8 { return c.Y })

	case AmAbsolute:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
			func(c *CPU, in Pins) { c.hi = in.Data(); c.requestRead(bits.Word(c.hi, c.lo)) },
			func(c *CPU, in Pins) { e.read(c, in.Data()); c.armNextFetch() },
		}

	case AmAbsoluteX:
		return absoluteIndexedRead(c, e, func(c *CPU) uint8 { return c.X })
	case AmAbsoluteY:
		return absoluteIndexedRead(c, e, func(c *CPU) uint8 { return c.Y })

	case AmIndirectX:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.requestRead(uint16(c.ptr + c.X)) },
			func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(uint16(c.ptr + c.X + 1)) },
			func(c *CPU, in Pins) { c.hi = in.Data(); c.requestRead(bits.Word(c.hi, c.lo)) },
			func(c *CPU, in Pins) { e.read(c, in.Data()); c.armNextFetch() },
		}

	case AmIndirectY:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(uint16(c.ptr + 1)) },
			indirectYIndexStep(&c.ea, &c.pageCrossed, c.Y),
			func(c *CPU, in Pins) {
				if c.pageCrossed {
					c.requestRead(c.ea)
					c.queue = append(c.queue, func(c *CPU, in Pins) {
						e.read(c, in.Data())
						c.armNextFetch()
					})
					return
				}
				e.read(c, in.Data())
				c.armNextFetch()
			},
		}
	}
	panic("mos6502: unhandled read addressing mode")
}

func zeroPageIndexedRead(c *CPU, e *opEntry, idx func(*CPU) uint8) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
		func(c *CPU, in Pins) { c.requestRead(uint16(c.ptr + idx(c))) },
		func(c *CPU, in Pins) { e.read(c, in.Data()); c.armNextFetch() },
	}
}

// indirectYIndexStep consumes the pointer's high byte, computes both the
// corrected effective address (stored into *ea) and whether indexing
// crossed a page (stored into *crossed), then issues the uncorrected dummy
// read all existing callers need before deciding whether to early-out.
func indirectYIndexStep(ea *uint16, crossed *bool, idx uint8) microOp {
	return func(c *CPU, in Pins) {
		c.hi = in.Data()
		base := bits.Word(c.hi, c.lo)
		low := uint16(c.lo) + uint16(idx)
		*crossed = low > 0xFF
		*ea = base + uint16(idx)
		uncorrected := (uint16(c.hi) << 8) | (low & 0xFF)
		c.requestRead(uncorrected)
	}
}

func absoluteIndexedRead(c *CPU, e *opEntry, idx func(*CPU) uint8) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
		func(c *CPU, in Pins) {
			c.hi = in.Data()
			i := idx(c)
			base := bits.Word(c.hi, c.lo)
			low := uint16(c.lo) + uint16(i)
			c.pageCrossed = low > 0xFF
			c.ea = base + uint16(i)
			uncorrected := (uint16(c.hi) << 8) | (low & 0xFF)
			c.requestRead(uncorrected)
		},
		func(c *CPU, in Pins) {
			if c.pageCrossed {
				c.requestRead(c.ea)
				c.queue = append(c.queue, func(c *CPU, in Pins) {
					e.read(c, in.Data())
					c.armNextFetch()
				})
				return
			}
			e.read(c, in.Data())
			c.armNextFetch()
		},
	}
}

// --- write-family (always takes the indexed-mode dummy cycle) ------------

func buildWriteSeq(c *CPU, e *opEntry) []microOp {
	switch e.mode {
	case AmZeroPage:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.requestWrite(uint16(in.Data()), e.write(c)) },
			func(c *CPU, in Pins) { c.armNextFetch() },
		}
	case AmZeroPageX:
		return zeroPageIndexedWrite(c, e, func(c *CPU) uint8 { return c.X })
	case AmZeroPageY:
		return zeroPageIndexedWrite(c, e, func(c *CPU) uint8 { return c.Y })
	case AmAbsolute:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
			func(c *CPU, in Pins) {
				c.hi = in.Data()
				c.requestWrite(bits.Word(c.hi, c.lo), e.write(c))
			},
			func(c *CPU, in Pins) { c.armNextFetch() },
		}
	case AmAbsoluteX:
		return absoluteIndexedWrite(c, e, func(c *CPU) uint8 { return c.X })
	case AmAbsoluteY:
		return absoluteIndexedWrite(c, e, func(c *CPU) uint8 { return c.Y })
	case AmIndirectX:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.requestRead(uint16(c.ptr + c.X)) },
			func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(uint16(c.ptr + c.X + 1)) },
			func(c *CPU, in Pins) { c.hi = in.Data(); c.requestWrite(bits.Word(c.hi, c.lo), e.write(c)) },
			func(c *CPU, in Pins) { c.armNextFetch() },
		}
	case AmIndirectY:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(uint16(c.ptr + 1)) },
			indirectYIndexStep(&c.ea, &c.pageCrossed, c.Y),
			func(c *CPU, in Pins) { c.requestWrite(c.ea, e.write(c)) },
			func(c *CPU, in Pins) { c.armNextFetch() },
		}
	}
	panic("mos6502: unhandled write addressing mode")
}

func zeroPageIndexedWrite(c *CPU, e *opEntry, idx func(*CPU) uint8) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
		func(c *CPU, in Pins) { c.requestWrite(uint16(c.ptr+idx(c)), e.write(c)) },
		func(c *CPU, in Pins) { c.armNextFetch() },
	}
}

func absoluteIndexedWrite(c *CPU, e *opEntry, idx func(*CPU) uint8) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
		func(c *CPU, in Pins) {
			c.hi = in.Data()
			i := idx(c)
			base := bits.Word(c.hi, c.lo)
			c.ea = base + uint16(i)
			uncorrected := (uint16(c.hi) << 8) | ((uint16(c.lo) + uint16(i)) & 0xFF)
			c.requestRead(uncorrected)
		},
		func(c *CPU, in Pins) { c.requestWrite(c.ea, e.write(c)) },
		func(c *CPU, in Pins) { c.armNextFetch() },
	}
}

// --- read-modify-write -----------------------------------------------

func buildRMWSeq(c *CPU, e *opEntry) []microOp {
	writeback := func(c *CPU, in Pins) {
		c.operand = in.Data()
		c.requestWrite(c.ea, c.operand)
	}
	commit := func(c *CPU, in Pins) {
		c.requestWrite(c.ea, e.rmw(c, c.operand))
	}
	finish := func(c *CPU, in Pins) { c.armNextFetch() }

	switch e.mode {
	case AmZeroPage:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ea = uint16(in.Data()); c.requestRead(c.ea) },
			writeback, commit, finish,
		}
	case AmZeroPageX:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.ea = uint16(c.ptr + c.X); c.requestRead(c.ea) },
			writeback, commit, finish,
		}
	case AmAbsolute:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
			func(c *CPU, in Pins) { c.hi = in.Data(); c.ea = bits.Word(c.hi, c.lo); c.requestRead(c.ea) },
			writeback, commit, finish,
		}
	case AmAbsoluteX:
		return absoluteIndexedRMW(c, writeback, commit, finish, func(c *CPU) uint8 { return c.X })
	case AmAbsoluteY:
		return absoluteIndexedRMW(c, writeback, commit, finish, func(c *CPU) uint8 { return c.Y })
	case AmIndirectX:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.requestRead(uint16(c.ptr + c.X)) },
			func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(uint16(c.ptr + c.X + 1)) },
			func(c *CPU, in Pins) { c.hi = in.Data(); c.ea = bits.Word(c.hi, c.lo); c.requestRead(c.ea) },
			writeback, commit, finish,
		}
	case AmIndirectY:
		c.armOperandByte()
		return []microOp{
			func(c *CPU, in Pins) { c.ptr = in.Data(); c.requestRead(uint16(c.ptr)) },
			func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(uint16(c.ptr + 1)) },
			indirectYIndexStep(&c.ea, &c.pageCrossed, c.Y),
			func(c *CPU, in Pins) { c.requestRead(c.ea) },
			writeback, commit, finish,
		}
	}
	panic("mos6502: unhandled rmw addressing mode")
}

func absoluteIndexedRMW(c *CPU, writeback, commit, finish microOp, idx func(*CPU) uint8) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
		func(c *CPU, in Pins) {
			c.hi = in.Data()
			i := idx(c)
			base := bits.Word(c.hi, c.lo)
			c.ea = base + uint16(i)
			uncorrected := (uint16(c.hi) << 8) | ((uint16(c.lo) + uint16(i)) & 0xFF)
			c.requestRead(uncorrected)
		},
		func(c *CPU, in Pins) { c.requestRead(c.ea) },
		writeback, commit, finish,
	}
}

// --- branches --------------------------------------------------------

func buildBranch(c *CPU, e *opEntry) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) {
			rel := int8(in.Data())
			if !e.branch(c) {
				c.armNextFetch()
				return
			}
			base := c.PC
			target := uint16(int32(base) + int32(rel))
			c.ea = target
			glitch := (base & 0xFF00) | (target & 0x00FF)
			c.pageCrossed = (target & 0xFF00) != (base & 0xFF00)
			c.requestRead(glitch)
			c.queue = append(c.queue, func(c *CPU, in Pins) {
				if c.pageCrossed {
					c.requestRead(c.ea)
					c.queue = append(c.queue, func(c *CPU, in Pins) {
						c.PC = c.ea
						c.armNextFetch()
					})
					return
				}
				c.PC = c.ea
				c.armNextFetch()
			})
		},
	}
}

// --- jumps and subroutine linkage --------------------------------------

func buildJMP(c *CPU) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
		func(c *CPU, in Pins) { c.hi = in.Data(); c.PC = bits.Word(c.hi, c.lo); c.armNextFetch() },
	}
}

func buildJMPIndirect(c *CPU) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.lo = in.Data(); c.armOperandByte() },
		func(c *CPU, in Pins) {
			c.hi = in.Data()
			c.ea = bits.Word(c.hi, c.lo)
			c.requestRead(c.ea)
		},
		func(c *CPU, in Pins) {
			c.lo = in.Data()
			var hiAddr uint16
			if uint8(c.ea) == 0xFF { // classic JMP ($xxFF) page bug
				hiAddr = c.ea & 0xFF00
			} else {
				hiAddr = c.ea + 1
			}
			c.requestRead(hiAddr)
		},
		func(c *CPU, in Pins) { c.PC = bits.Word(in.Data(), c.lo); c.armNextFetch() },
	}
}

func buildJSR(c *CPU) []microOp {
	c.armOperandByte()
	return []microOp{
		func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.pushByte(uint8(c.PC >> 8)) },
		func(c *CPU, in Pins) { c.pushByte(uint8(c.PC)) },
		func(c *CPU, in Pins) { c.requestRead(c.PC) },
		func(c *CPU, in Pins) { c.PC = bits.Word(in.Data(), c.lo); c.armNextFetch() },
	}
}

func buildRTS(c *CPU) []microOp {
	c.requestRead(c.PC)
	return []microOp{
		func(c *CPU, in Pins) { c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.S++; c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.lo = in.Data(); c.S++; c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.ea = bits.Word(in.Data(), c.lo); c.requestRead(c.ea) },
		func(c *CPU, in Pins) { c.PC = c.ea + 1; c.armNextFetch() },
	}
}

func buildRTI(c *CPU) []microOp {
	c.requestRead(c.PC)
	return []microOp{
		func(c *CPU, in Pins) { c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.S++; c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.P = (in.Data() &^ flagB) | flagU; c.S++; c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.lo = in.Data(); c.S++; c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.PC = bits.Word(in.Data(), c.lo); c.armNextFetch() },
	}
}

// --- stack push/pull ---------------------------------------------------

func buildPush(c *CPU, e *opEntry) []microOp {
	c.requestRead(c.PC)
	return []microOp{
		func(c *CPU, in Pins) { c.pushByte(e.write(c)) },
		func(c *CPU, in Pins) { c.armNextFetch() },
	}
}

func buildPull(c *CPU, e *opEntry) []microOp {
	c.requestRead(c.PC)
	return []microOp{
		func(c *CPU, in Pins) { c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { c.S++; c.requestRead(0x0100 | uint16(c.S)) },
		func(c *CPU, in Pins) { e.read(c, in.Data()); c.armNextFetch() },
	}
}

// --- BRK / IRQ / NMI / RESET --------------------------------------------

func buildInterrupt(c *CPU) []microOp {
	if c.brkFlags == intNone {
		c.brkFlags = intBRK
	}
	kind := c.brkFlags

	dummyAddr := c.PC
	if kind == intBRK {
		c.PC++
	}
	c.requestRead(dummyAddr)

	suppress := kind == intReset
	return []microOp{
		func(c *CPU, in Pins) { c.pushOrPeek(uint8(c.PC>>8), suppress) },
		func(c *CPU, in Pins) { c.pushOrPeek(uint8(c.PC), suppress) },
		func(c *CPU, in Pins) {
			p := c.P | flagU
			if kind == intBRK {
				p |= flagB
			} else {
				p &^= flagB
			}
			c.pushOrPeek(p, suppress)
		},
		func(c *CPU, in Pins) {
			vec := vectorFor(kind)
			c.ea = vec
			c.requestRead(vec)
		},
		func(c *CPU, in Pins) { c.lo = in.Data(); c.requestRead(c.ea + 1) },
		func(c *CPU, in Pins) {
			c.hi = in.Data()
			c.PC = bits.Word(c.hi, c.lo)
			c.setFlag(flagI, true)
			c.armNextFetch()
		},
	}
}

func vectorFor(k intKind) uint16 {
	switch k {
	case intNMI:
		return 0xFFFA
	case intReset:
		return 0xFFFC
	default:
		return 0xFFFE
	}
}

// --- small request helpers shared by the builders above -----------------

func (c *CPU) armOperandByte() {
	c.requestRead(c.PC)
	c.PC++
}

func (c *CPU) armNextFetch() { c.pins = withFetch(c.pins, c.PC) }

// requestRead arms the next cycle's read. On a 6510, $0000/$0001 are the
// chip's own DDR/port registers: the address still appears on the external
// bus cycle-accurately, but the data the next microOp observes is the
// port's, substituted in Tick via internalPending rather than supplied by
// the host.
func (c *CPU) requestRead(addr uint16) {
	if c.variant == Variant6510 && addr <= 0x0001 {
		if addr == 0x0000 {
			c.internalData = c.io.readDDR()
		} else {
			c.internalData = c.io.readData()
		}
		c.internalPending = true
	}
	c.pins = withRead(c.pins, addr)
}

func (c *CPU) requestWrite(addr uint16, data uint8) {
	if c.variant == Variant6510 && addr <= 0x0001 {
		if addr == 0x0000 {
			c.io.writeDDR(data)
		} else {
			c.io.writeData(data)
		}
	}
	c.pins = withWrite(c.pins, addr, data)
}

func (c *CPU) pushByte(v uint8) {
	c.requestWrite(0x0100|uint16(c.S), v)
	c.S--
}

func (c *CPU) pushOrPeek(v uint8, peek bool) {
	addr := 0x0100 | uint16(c.S)
	if peek {
		c.requestRead(addr)
	} else {
		c.requestWrite(addr, v)
	}
	c.S--
}
