// Package chips implements example peripherals exercising the scheduler's
// Peripheral contract: chips.VIA (6522-style, 6502-side) and chips.CTC
// (Z80-side, daisy-chain capable). Neither models a full real-world chip;
// each covers the register and timer behavior a host needs to drive a clock
// or a handful of IO lines off the shared pin bus.
package chips

import (
	"tickchip/mos6502"
	"tickchip/pins"
)

// Pins is the shared pin-bus word, re-exported so callers need not import
// tickchip/pins directly just to wire a chip into a Machine.
type Pins = pins.Pins

// VIA register offsets from Base, matching the 6522's RS0-RS3 address lines.
const (
	regORB = iota
	regORA
	regDDRB
	regDDRA
	regT1CL
	regT1CH
	regT1LL
	regT1LH
	regT2CL
	regT2CH
	regSR
	regACR
	regPCR
	regIFR
	regIER
	regORANoHandshake
)

const (
	ifrCA2 uint8 = 1 << 0
	ifrCA1 uint8 = 1 << 1
	ifrSR  uint8 = 1 << 2
	ifrCB2 uint8 = 1 << 3
	ifrCB1 uint8 = 1 << 4
	ifrT2  uint8 = 1 << 5
	ifrT1  uint8 = 1 << 6
	ifrIRQ uint8 = 1 << 7
)

const (
	acrT2PulseCount uint8 = 1 << 5 // 1 = count PB6 edges, 0 = one-shot timed
	acrT1Continuous uint8 = 1 << 6 // 1 = free-run, re-arming every load+2 ticks
	acrT1OutputPB7  uint8 = 1 << 7
)

// VIA is a 6522-style versatile interface adapter: two 8-bit ports with data
// direction registers, a free-running or one-shot 16-bit timer (T1), a
// one-shot 16-bit timer with an optional pulse-counting mode (T2), and an
// interrupt flag/enable pair feeding a single IRQ output. Grounded on the
// m6522 register map and timer semantics: writing the high byte of a timer's
// counter (T1CH/T2CH) is what actually arms it, loading the counter from the
// latch that was staged by the preceding low-byte write.
type VIA struct {
	// Base is the address of register 0 (ORB); the chip claims Base..Base+15.
	Base uint16

	ora, orb   uint8
	ddra, ddrb uint8

	t1Counter, t1Latch uint16
	t1Active           bool

	t2Counter, t2Latch uint16
	t2LatchLow         uint8
	t2Active           bool

	acr, pcr uint8
	ifr, ier uint8
}

// NewVIA returns a VIA claiming the 16-register window starting at base.
func NewVIA(base uint16) *VIA {
	return &VIA{Base: base}
}

// PA returns the port A output latch as driven onto pins configured as
// outputs by DDRA; bits configured as inputs read back as idle-high, since
// this model has no external device wired to the port.
func (v *VIA) PA() uint8 { return (v.ora & v.ddra) | (0xFF &^ v.ddra) }

// PB is PA's counterpart for port B.
func (v *VIA) PB() uint8 { return (v.orb & v.ddrb) | (0xFF &^ v.ddrb) }

// CountPB6Edge advances T2 by one when it is configured to count pulses on
// PB6 rather than run off the clock; a host wires this to its own model of
// whatever drives PB6.
func (v *VIA) CountPB6Edge() {
	if v.t2Active && v.acr&acrT2PulseCount != 0 {
		v.tickT2()
	}
}

// Tick advances both timers by one clock cycle and updates the composite
// IRQ output. T1 in continuous mode (ACR bit 6) re-arms itself from the
// latch on every underflow and fires on each one; in one-shot mode it fires
// once per load and then holds. T2 always counts down from its load exactly
// once, whether driven by the clock or by CountPB6Edge, and never reloads on
// its own.
func (v *VIA) Tick(p Pins) Pins {
	if v.t1Active {
		v.t1Counter--
		if v.t1Counter == 0 {
			v.ifr |= ifrT1
			if v.acr&acrT1Continuous != 0 {
				v.t1Counter = v.t1Latch + 2
			} else {
				v.t1Active = false
			}
		}
	}
	if v.t2Active && v.acr&acrT2PulseCount == 0 {
		v.tickT2()
	}

	if v.ifr&v.ier&0x7F != 0 {
		v.ifr |= ifrIRQ
		p = mos6502.SetIrq(p, true)
	} else {
		v.ifr &^= ifrIRQ
	}
	return p
}

func (v *VIA) tickT2() {
	v.t2Counter--
	if v.t2Counter == 0 {
		v.ifr |= ifrT2
		v.t2Active = false
	}
}

// IORQ services a memory-mapped register access: addresses outside the
// chip's 16-register window pass through untouched.
func (v *VIA) IORQ(p Pins) Pins {
	addr := p.Addr()
	if addr < v.Base || addr > v.Base+15 {
		return p
	}
	reg := uint8(addr - v.Base)
	if mos6502.Rd(p) {
		return p.SetData(v.readRegister(reg))
	}
	v.writeRegister(reg, p.Data())
	return p
}

func (v *VIA) readRegister(reg uint8) uint8 {
	switch reg {
	case regORB:
		return v.PB()
	case regORA, regORANoHandshake:
		return v.PA()
	case regDDRB:
		return v.ddrb
	case regDDRA:
		return v.ddra
	case regT1CL:
		v.ifr &^= ifrT1
		return uint8(v.t1Counter)
	case regT1CH:
		return uint8(v.t1Counter >> 8)
	case regT1LL:
		return uint8(v.t1Latch)
	case regT1LH:
		return uint8(v.t1Latch >> 8)
	case regT2CL:
		v.ifr &^= ifrT2
		return uint8(v.t2Counter)
	case regT2CH:
		return uint8(v.t2Counter >> 8)
	case regSR:
		return 0
	case regACR:
		return v.acr
	case regPCR:
		return v.pcr
	case regIFR:
		ifr := v.ifr
		if ifr&v.ier&0x7F != 0 {
			ifr |= ifrIRQ
		}
		return ifr
	case regIER:
		return v.ier | 0x80
	}
	return 0
}

func (v *VIA) writeRegister(reg, data uint8) {
	switch reg {
	case regORB:
		v.orb = data
	case regORA, regORANoHandshake:
		v.ora = data
	case regDDRB:
		v.ddrb = data
	case regDDRA:
		v.ddra = data
	case regT1CL:
		v.t1Latch = (v.t1Latch &^ 0xFF) | uint16(data)
	case regT1CH:
		v.t1Latch = (v.t1Latch & 0xFF) | uint16(data)<<8
		v.t1Counter = v.t1Latch + 2
		v.t1Active = true
		v.ifr &^= ifrT1
	case regT1LL:
		v.t1Latch = (v.t1Latch &^ 0xFF) | uint16(data)
	case regT1LH:
		v.t1Latch = (v.t1Latch & 0xFF) | uint16(data)<<8
		v.ifr &^= ifrT1
	case regT2CL:
		v.t2LatchLow = data
	case regT2CH:
		v.t2Latch = uint16(v.t2LatchLow) | uint16(data)<<8
		v.t2Counter = v.t2Latch + 2
		v.t2Active = true
		v.ifr &^= ifrT2
	case regACR:
		v.acr = data
	case regPCR:
		v.pcr = data
	case regIFR:
		v.ifr &^= data & 0x7F
	case regIER:
		if data&0x80 != 0 {
			v.ier |= data & 0x7F
		} else {
			v.ier &^= data & 0x7F
		}
	}
}
