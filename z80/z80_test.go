package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// harness drives a CPU against flat 64KB memory and a 256-entry IO space,
// servicing each Tick's bus request the way a host must. Mirrors the
// mos6502 harness's shape: a CPU, backing storage, and whatever the previous
// Tick's response needs to be fed back in as the next one's input.
type harness struct {
	cpu *CPU
	mem [65536]byte
	io  [256]byte
	in  Pins

	int, nmi bool
	wait     uint8
	// intVector is placed on the bus during an IORQ+M1 acknowledge cycle,
	// standing in for whatever a daisy-chained peripheral would drive.
	intVector uint8
}

func newHarness() *harness {
	return &harness{cpu: New(Config{})}
}

func (h *harness) applyControl(p Pins) Pins {
	p = p.SetBit(intBit, h.int).SetBit(nmiBit, h.nmi)
	return SetWait(p, h.wait)
}

func (h *harness) step() Pins {
	out := h.cpu.Tick(h.applyControl(h.in))
	switch {
	case Iorq(out) && M1(out):
		h.in = out.SetData(h.intVector)
	case Mreq(out) && Rd(out):
		h.in = out.SetData(h.mem[out.Addr()])
	case Mreq(out) && Wr(out):
		h.mem[out.Addr()] = out.Data()
		h.in = out
	case Iorq(out) && Rd(out):
		h.in = out.SetData(h.io[out.Addr()&0xFF])
	case Iorq(out) && Wr(out):
		h.io[out.Addr()&0xFF] = out.Data()
		h.in = out
	default:
		h.in = out
	}
	return out
}

func (h *harness) run(n int) {
	for i := 0; i < n; i++ {
		h.step()
	}
}

// loadAt copies bytes into memory starting at addr; it runs no cycles.
// Tests then run generously overshooting cycle counts so the next opcode
// fetch is also armed, and check state rather than exact cycle counts
// except where a test specifically targets timing.
func (h *harness) loadAt(addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		h.mem[int(addr)+i] = b
	}
}

func TestResetState(t *testing.T) {
	h := newHarness()
	assert.Equal(t, uint16(0xFFFF), h.cpu.AF())
	assert.Equal(t, uint16(0xFFFF), h.cpu.SP())
	assert.Equal(t, uint16(0), h.cpu.PC())
	assert.False(t, h.cpu.IFF1())
	assert.False(t, h.cpu.IFF2())
	assert.Equal(t, uint8(0), h.cpu.IM())
	assert.Equal(t, uint8(0), h.cpu.R())
}

func TestRBumpWrapsPreservingBit7(t *testing.T) {
	h := newHarness()
	h.cpu.SetR(0xFF) // bit 7 set, low 7 bits at max
	h.cpu.BumpR()
	assert.Equal(t, uint8(0x80), h.cpu.R())
}

func TestPushPopAFRoundTripsUndocumentedBits(t *testing.T) {
	h := newHarness()
	h.cpu.SetSP(0x8000)
	h.cpu.SetAF(0x1234)
	h.loadAt(0, 0xF5, 0xF1) // PUSH AF; POP AF
	h.run(1 + 11 + 10) // +1: the first Tick only presents the boot fetch request
	assert.Equal(t, uint16(0x1234), h.cpu.AF())
}

func TestEXXRoundTrips(t *testing.T) {
	h := newHarness()
	h.cpu.SetBC(0x1111)
	h.cpu.SetDE(0x2222)
	h.cpu.SetHL(0x3333)
	h.cpu.SetAF(0xABCD)
	h.loadAt(0, 0xD9, 0xD9) // EXX; EXX
	h.run(3) // +1 boot fetch, then two 1-tick EXX instructions
	assert.Equal(t, uint16(0x1111), h.cpu.BC())
	assert.Equal(t, uint16(0x2222), h.cpu.DE())
	assert.Equal(t, uint16(0x3333), h.cpu.HL())
	assert.Equal(t, uint16(0xABCD), h.cpu.AF(), "EXX must never touch AF")
}

func TestDJNZLoopsUntilBIsZero(t *testing.T) {
	h := newHarness()
	h.cpu.SetB(3)
	// DJNZ -2 loops on itself; terminates with B==0 and PC past the opcode.
	h.loadAt(0, 0x10, 0xFE)
	h.run(26) // 1 boot fetch + two taken iterations (10 ticks each) + one not-taken (5)
	assert.Equal(t, uint8(0), h.cpu.B())
	assert.Equal(t, uint16(2), h.cpu.PC())
}

func TestLDAImmediateImmediateThenIndirectSetsWZ(t *testing.T) {
	h := newHarness()
	h.mem[0x4000] = 0x99
	h.loadAt(0, 0x3A, 0x00, 0x40) // LD A,(0x4000)
	h.run(14) // +1 boot fetch
	assert.Equal(t, uint8(0x99), h.cpu.A())
	assert.Equal(t, uint16(0x4001), h.cpu.WZ())
}

func TestIndexedCBWriteBackQuirk(t *testing.T) {
	h := newHarness()
	h.cpu.SetIX(0x2000)
	h.mem[0x2005] = 0x80 // top bit set, RLC rotates it into carry and bit 0
	h.loadAt(0, 0xDD, 0xCB, 0x05, 0x06) // RLC (IX+5) ; z==6, no register write-back
	h.run(24) // +1 boot fetch
	assert.Equal(t, uint8(0x01), h.mem[0x2005])
	assert.Equal(t, uint8(0), h.cpu.B(), "z==6 must not write back to any register")

	h2 := newHarness()
	h2.cpu.SetIX(0x2000)
	h2.mem[0x2005] = 0x80
	h2.loadAt(0, 0xDD, 0xCB, 0x05, 0x00) // RLC (IX+5),B -- z==0 also copies into B
	h2.run(24) // +1 boot fetch
	assert.Equal(t, uint8(0x01), h2.mem[0x2005])
	assert.Equal(t, uint8(0x01), h2.cpu.B(), "non-6 low bits copy the result into the register")
}

func TestIM2InterruptVectorsThroughTable(t *testing.T) {
	h := newHarness()
	h.cpu.SetI(0x20)
	h.cpu.SetIM(2)
	h.cpu.SetIFF1(true)
	h.cpu.SetIFF2(true)
	h.cpu.SetSP(0x8000)
	h.cpu.SetPC(0x1000)
	h.mem[0x2004] = 0x34
	h.mem[0x2005] = 0x12
	h.intVector = 0x04

	h.int = true
	h.run(20) // +1 boot fetch before the interrupt-ack sequence begins

	assert.Equal(t, uint16(0x1234), h.cpu.PC())
	assert.False(t, h.cpu.IFF1())
	assert.False(t, h.cpu.IFF2())
	assert.Equal(t, uint16(0x7FFE), h.cpu.SP(), "PC was pushed before the vector jump")
}

func TestLDIRCopiesAndStopsAtZero(t *testing.T) {
	h := newHarness()
	h.cpu.SetHL(0x1000)
	h.cpu.SetDE(0x2000)
	h.cpu.SetBC(3)
	h.mem[0x1000], h.mem[0x1001], h.mem[0x1002] = 0xAA, 0xBB, 0xCC
	h.loadAt(0, 0xED, 0xB0) // LDIR

	h.run(1 + 21 + 21 + 16 + 4) // +1 boot fetch

	assert.Equal(t, uint16(0x1003), h.cpu.HL())
	assert.Equal(t, uint16(0x2003), h.cpu.DE())
	assert.Equal(t, uint16(0), h.cpu.BC())
	assert.Equal(t, uint8(0xAA), h.mem[0x2000])
	assert.Equal(t, uint8(0xBB), h.mem[0x2001])
	assert.Equal(t, uint8(0xCC), h.mem[0x2002])
}

func TestHalfcarryAndOverflowOnADD(t *testing.T) {
	h := newHarness()
	h.cpu.SetA(0x0F)
	h.loadAt(0, 0xC6, 0x01) // ADD A,1 -- half-carry out of bit 3
	h.run(8) // +1 boot fetch
	assert.Equal(t, uint8(0x10), h.cpu.A())
	assert.NotZero(t, h.cpu.F()&FlagH)
	assert.Zero(t, h.cpu.F()&FlagC)
}
