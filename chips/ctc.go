package chips

import "tickchip/z80"

// ctcChannelMode selects whether a CTC channel decrements on external
// trigger edges (counter mode) or on its own prescaled clock (timer mode).
type ctcChannelMode int

const (
	ctcModeTimer ctcChannelMode = iota
	ctcModeCounter
)

// Control-word bits, Z80 CTC convention: D0 marks a control word (as
// opposed to an interrupt-vector word), D2 says a time-constant byte
// follows next, D4 selects the trigger edge, D5 the prescaler, D6 the mode,
// D7 the per-channel interrupt enable.
const (
	ctcCtrlWord        uint8 = 1 << 0
	ctcSoftwareReset   uint8 = 1 << 1
	ctcTimeConstFollow uint8 = 1 << 2
	ctcRisingEdge      uint8 = 1 << 4
	ctcPrescale256     uint8 = 1 << 5
	ctcModeCounterBit  uint8 = 1 << 6
	ctcInterruptEnable uint8 = 1 << 7
)

type ctcChannel struct {
	mode             ctcChannelMode
	prescaler        int
	interruptEnabled bool

	awaitingConstant bool
	timeConstant     uint8

	started         bool
	counter         int
	prescaleCounter int

	zcto    bool
	pending bool
}

// CTC is a four-channel Z80 counter/timer, daisy-chain capable: it claims an
// interrupt-acknowledge cycle for whichever of its channels has the
// highest-priority pending request, and otherwise leaves IEIO untouched so a
// lower-priority chip later in the Peripherals slice still gets a chance.
// Modeled on the real Z80 CTC's channel/control-word/vector layout; no
// single chip header covers it the way the 6522 VIA's does.
type CTC struct {
	Base     uint16
	Vector   uint8
	channels [4]ctcChannel
}

// NewCTC returns a CTC claiming four consecutive IO ports starting at base.
func NewCTC(base uint16) *CTC {
	return &CTC{Base: base}
}

// Trigger delivers one active edge on channel ch's CLK/TRG line: in counter
// mode this decrements the channel directly, in timer mode it starts the
// prescaled countdown (real hardware also requires the edge to match the
// channel's configured polarity, which this model does not track).
func (c *CTC) Trigger(ch int) {
	if ch < 0 || ch >= len(c.channels) {
		return
	}
	ch2 := &c.channels[ch]
	switch ch2.mode {
	case ctcModeCounter:
		c.decrement(ch)
	case ctcModeTimer:
		ch2.started = true
	}
}

// Tick advances every channel in timer mode by one system clock, folding in
// its prescaler, and asserts INT while any channel has an unacknowledged
// interrupt pending.
func (c *CTC) Tick(p Pins) Pins {
	for i := range c.channels {
		ch := &c.channels[i]
		if ch.mode != ctcModeTimer || !ch.started {
			continue
		}
		ch.prescaleCounter++
		if ch.prescaleCounter >= ch.prescaler {
			ch.prescaleCounter = 0
			c.decrement(i)
		}
	}
	if c.anyPending() {
		p = z80.SetInt(p, true)
	}
	return p
}

func (c *CTC) decrement(i int) {
	ch := &c.channels[i]
	ch.counter--
	if ch.counter <= 0 {
		ch.zcto = true
		if ch.interruptEnabled {
			ch.pending = true
		}
		ch.counter = int(ch.timeConstant)
		if ch.counter == 0 {
			ch.counter = 256
		}
	}
}

func (c *CTC) anyPending() bool {
	for i := range c.channels {
		if c.channels[i].pending {
			return true
		}
	}
	return false
}

// ZCTO reports and clears channel ch's zero-count/timeout latch, the pulse a
// real CTC drives on its own ZC/TO pin; callers wanting edge-triggered
// behavior (e.g. chaining one channel's output into another's CLK/TRG) poll
// this once per Tick.
func (c *CTC) ZCTO(ch int) bool {
	fired := c.channels[ch].zcto
	c.channels[ch].zcto = false
	return fired
}

// IORQ services both plain register IO (control/vector words, time
// constants, counter reads) and, when offered an interrupt-acknowledge
// cycle, the daisy-chain claim protocol: the highest-index-lowest-priority
// rule is left to Peripherals slice order, exactly as countingPeripheral's
// test convention establishes, so CTC only needs to decide whether it has a
// request of its own to make.
func (c *CTC) IORQ(p Pins) Pins {
	if z80.Iorq(p) && z80.M1(p) {
		return c.claimAck(p)
	}

	addr := p.Addr()
	if addr < c.Base || addr > c.Base+3 {
		return p
	}
	ch := int(addr - c.Base)

	if z80.Rd(p) {
		return p.SetData(uint8(c.channels[ch].counter))
	}
	c.writeRegister(ch, p.Data())
	return p
}

func (c *CTC) claimAck(p Pins) Pins {
	if !z80.Ieio(p) {
		return p
	}
	for i := range c.channels {
		if !c.channels[i].pending {
			continue
		}
		vector := (c.Vector &^ 0x07) | uint8(i<<1)
		p = p.SetData(vector)
		p = z80.SetIeio(p, false)
		c.channels[i].pending = false
		return p
	}
	return p
}

func (c *CTC) writeRegister(ch int, data uint8) {
	ch2 := &c.channels[ch]

	if ch2.awaitingConstant {
		ch2.timeConstant = data
		ch2.counter = int(data)
		if ch2.counter == 0 {
			ch2.counter = 256
		}
		ch2.awaitingConstant = false
		return
	}

	if data&ctcCtrlWord == 0 {
		c.Vector = data &^ 0x01
		return
	}

	if data&ctcSoftwareReset != 0 {
		ch2.started = false
		ch2.pending = false
		ch2.zcto = false
		ch2.prescaleCounter = 0
	}

	if data&ctcModeCounterBit != 0 {
		ch2.mode = ctcModeCounter
	} else {
		ch2.mode = ctcModeTimer
	}
	if data&ctcPrescale256 != 0 {
		ch2.prescaler = 256
	} else {
		ch2.prescaler = 16
	}
	ch2.interruptEnabled = data&ctcInterruptEnable != 0
	ch2.awaitingConstant = data&ctcTimeConstFollow != 0
}
