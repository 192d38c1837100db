package mos6502

import "tickchip/pins"

// Pins is the shared 64-bit pin-bus word; re-exported so callers need not
// import tickchip/pins directly just to wire a CPU into a scheduler.
type Pins = pins.Pins

// Variant selects between the plain 6502 and the 6510 (with its built-in
// 6-bit IO port, as used by the C64).
type Variant int

const (
	Variant6502 Variant = iota
	Variant6510
)

// Variant6510Config describes the 6510's built-in IO port. IOIn/IOOut are
// optional; a nil IOIn reads back as all-pullups.
type Variant6510Config struct {
	IOIn       func() uint8
	IOOut      func(uint8)
	IOPullup   uint8
	IOFloating uint8
}

// Config bundles the construction-time knobs a CPU needs before its first Tick.
type Config struct {
	Variant     Variant
	BCDDisabled bool // forces binary ADC/SBC even with D set (NES 6502 variant)
	IO          Variant6510Config
}

// intKind distinguishes the trigger for a BRK-shaped 7-cycle sequence, the
// source of the status byte BRK pushes to the stack.
type intKind uint8

const (
	intNone intKind = iota
	intBRK          // real BRK instruction
	intIRQ
	intNMI
	intReset
)

// microOp is one clock cycle's worth of CPU-side work: consume the data
// byte the host placed on the bus in response to the previous cycle's
// request (already reflected in in), and produce the pins for the next
// cycle's request. The final microOp of every instruction's queue also
// arms the next opcode fetch.
type microOp func(c *CPU, in Pins)

// CPU is a cycle-stepped 6502/6510 core. Exactly one clock cycle elapses
// per Tick call; state is never mutated outside Tick.
type CPU struct {
	A, X, Y uint8
	S       uint8
	P       uint8
	PC      uint16

	pins Pins

	queue []microOp
	qi    int

	// Cross-cycle scratch used while building an instruction's bus
	// sequence; meaning is opcode/addressing-mode dependent.
	ptr, lo, hi uint8
	ea          uint16
	operand     uint8
	pageCrossed bool
	opcode      uint8

	brkFlags intKind

	// Edge/level interrupt pipelines: one cycle of latency between a pin
	// transition and the decoder acting on it.
	nmiEdgePipe uint8 // bit0 = edge seen this cycle, propagates to bit1 before use
	nmiLine     bool  // previous cycle's sampled NMI pin, for edge detection
	nmiLatched  bool  // edge has propagated far enough to force an NMI sequence
	irqLevel    bool  // IRQ pin asserted AND I was clear, sampled with 1-cycle delay

	resetPending bool

	bcdDisabled bool
	variant     Variant
	io          ioPort

	// internalPending/internalData let requestRead substitute the 6510 IO
	// port's value for whatever the host places on the bus in response to
	// a $0000/$0001 access, since that access never actually reaches the
	// host.
	internalPending bool
	internalData    uint8
}

// Status flag bit positions.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // unused, always 1 when pushed
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

func (c *CPU) getFlag(f uint8) bool { return c.P&f != 0 }

func (c *CPU) setFlag(f uint8, v bool) {
	if v {
		c.P |= f
	} else {
		c.P &^= f
	}
}

func (c *CPU) setNZ(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}

// New constructs a CPU held in the power-on reset sequence; the caller must
// call Tick with RES asserted for the first several cycles exactly as real
// hardware requires.
func New(cfg Config) *CPU {
	c := &CPU{
		bcdDisabled: cfg.BCDDisabled,
		variant:     cfg.Variant,
	}
	if cfg.Variant == Variant6510 {
		c.io = newIOPort(cfg.IO)
	}
	c.resetPending = true
	c.pins = withFetch(0, 0)
	return c
}

// Tick simulates exactly one clock cycle. pins carries the host's response
// to the bus request from the previous call (the data bus, plus whatever
// IRQ/NMI/RDY/RES the host chooses to assert this cycle); the returned pins
// describe the bus access the host must service before the next Tick.
func (c *CPU) Tick(in Pins) Pins {
	if Res(in) {
		c.resetPending = true
	}

	// RDY stretches the pending read cycle: re-present the same request
	// unchanged. Write cycles ignore RDY. Interrupt lines
	// are still sampled every cycle, stretched or not.
	if Rd(c.pins) && Rdy(in) {
		c.updateInterruptPipelines(in, c.getFlag(flagI))
		return c.pins
	}

	if c.internalPending {
		in = in.SetData(c.internalData)
		c.internalPending = false
	}

	// IRQ polling uses the I flag as it stood before this cycle's own
	// instruction body runs. CLI/SEI/PLP only take effect for interrupt
	// purposes starting the cycle after they execute, which is what gives
	// CLI its documented one-instruction-delayed IRQ response.
	flagIBefore := c.getFlag(flagI)

	if len(c.queue) == 0 {
		// Sample interrupts using state accumulated through all prior
		// cycles, before this cycle's own pin levels are folded in below.
		c.evaluateInterrupts()
		c.beginInstruction(in.Data())
		// beginInstruction already armed the bus request for the next
		// cycle (via the sequence builder's own immediate request); this
		// cycle's bus work, the opcode fetch, is done.
		c.updateInterruptPipelines(in, flagIBefore)
		return c.pins
	}

	op := c.queue[c.qi]
	c.qi++
	op(c, in)
	if c.qi >= len(c.queue) {
		c.queue, c.qi = nil, 0
	}

	c.updateInterruptPipelines(in, flagIBefore)

	return c.pins
}

func (c *CPU) updateInterruptPipelines(in Pins, flagIBefore bool) {
	nmiNow := Nmi(in)
	if nmiNow && !c.nmiLine {
		c.nmiEdgePipe |= 1
	}
	c.nmiLine = nmiNow
	// propagate the pipeline by one cycle; bit1 is "ready to act on"
	if c.nmiEdgePipe&1 != 0 {
		c.nmiEdgePipe = (c.nmiEdgePipe &^ 1) | 2
		c.nmiLatched = true
	}

	c.irqLevel = Irq(in) && !flagIBefore
}

func (c *CPU) evaluateInterrupts() {
	if c.resetPending {
		c.resetPending = false
		c.nmiLatched = false
		c.brkFlags = intReset
		c.opcode = 0x00
		return
	}
	if c.nmiLatched {
		c.nmiLatched = false
		c.brkFlags = intNMI
		c.opcode = 0x00
		return
	}
	if c.irqLevel {
		c.brkFlags = intIRQ
		c.opcode = 0x00
		return
	}
	c.brkFlags = intNone
}

// beginInstruction runs when the queue has drained: fetchedByte is the
// opcode byte the previous cycle's fetch placed on the bus, unless an
// interrupt sequence overrides it (evaluateInterrupts already set
// c.brkFlags/c.opcode in that case).
func (c *CPU) beginInstruction(fetchedByte uint8) {
	if c.brkFlags == intNone {
		c.opcode = fetchedByte
		c.PC++
	}
	c.queue, c.qi = buildSequence(c, c.opcode), 0
}
