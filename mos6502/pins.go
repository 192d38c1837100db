// Package mos6502 implements a cycle-stepped MOS Technology 6502/6510
// decoder: one Tick call simulates exactly one clock cycle of bus behavior,
// matching the pin-bus contract of the [tickchip/pins] package.
package mos6502

import "tickchip/pins"

// Control-line bit positions within the pin word, fixed by the wire
// protocol between the CPU and its host.
const (
	rwBit   = 24 // 1 = read, 0 = write
	syncBit = 25 // opcode fetch cycle
	irqBit  = 26
	nmiBit  = 27
	rdyBit  = 28
	aecBit  = 29 // address-enable-control (bus-sharing ack, e.g. VIC-II badlines)
	resBit  = 30

	// 6510-only IO port pins, P0..P5.
	p0Bit = 32
)

// Rd reports whether the pins request a read cycle (RW asserted).
func Rd(p pins.Pins) bool { return p.Bit(rwBit) }

// Sync reports whether the pins are an opcode-fetch cycle.
func Sync(p pins.Pins) bool { return p.Bit(syncBit) }

// Irq reports whether the host is asserting the IRQ line.
func Irq(p pins.Pins) bool { return p.Bit(irqBit) }

// Nmi reports whether the host is asserting the NMI line.
func Nmi(p pins.Pins) bool { return p.Bit(nmiBit) }

// Rdy reports whether the host is asserting RDY (1 = stall, hold the CPU on
// its current read cycle until released).
func Rdy(p pins.Pins) bool { return p.Bit(rdyBit) }

// Res reports whether the host is asserting RESET (active low on real
// silicon; here we follow the pin word's convention of "bit set == asserted"
// like every other control line, so callers pass true while RES is held).
func Res(p pins.Pins) bool { return p.Bit(resBit) }

// SetIrq, SetNmi, SetRdy and SetRes let a host (scheduler, test harness)
// drive the lines the CPU never drives back at itself.
func SetIrq(p pins.Pins, on bool) pins.Pins { return p.SetBit(irqBit, on) }
func SetNmi(p pins.Pins, on bool) pins.Pins { return p.SetBit(nmiBit, on) }
func SetRdy(p pins.Pins, on bool) pins.Pins { return p.SetBit(rdyBit, on) }
func SetRes(p pins.Pins, on bool) pins.Pins { return p.SetBit(resBit, on) }

func withRead(p pins.Pins, addr uint16) pins.Pins {
	return p.SetAddr(addr).SetBit(rwBit, true).SetBit(syncBit, false)
}

func withWrite(p pins.Pins, addr uint16, data uint8) pins.Pins {
	return p.SetAddr(addr).SetData(data).SetBit(rwBit, false).SetBit(syncBit, false)
}

func withFetch(p pins.Pins, addr uint16) pins.Pins {
	return p.SetAddr(addr).SetBit(rwBit, true).SetBit(syncBit, true)
}
