// Package scheduler implements the host side of the tick contract: the loop
// that calls a CPU's Tick, routes the returned pins to memory or a
// peripheral, clocks every attached peripheral, and feeds the result back in
// as the next cycle's input. Grounded on the same per-tick Clock() shape as
// mgnes's bus.Bus, generalized from one hardwired NES bus into a
// CPU-family-agnostic driver over the MemoryBus/IOBus/Peripheral interfaces.
package scheduler

import "tickchip/pins"

// Pins is the shared 64-bit pin-bus word; re-exported so callers need not
// import tickchip/pins directly just to wire a Machine together.
type Pins = pins.Pins

// MemoryBus is the host's backing store for MREQ-addressed accesses.
type MemoryBus interface {
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
}

// IOBus is the host's backing store for IORQ-addressed accesses that aren't
// claimed by any attached Peripheral's own IORQ handler.
type IOBus interface {
	In(addr uint16) uint8
	Out(addr uint16, data uint8)
}

// Peripheral is the tick/IORQ contract every chip in package chips
// implements. Package chips declares no interface of its own; this is the
// only declaration, so a scheduler-only caller never needs to depend on
// any concrete peripheral; chips.VIA and chips.CTC satisfy this interface
// structurally.
type Peripheral interface {
	// Tick advances one clock edge, observing and driving only the pins
	// this chip owns (typically an interrupt line, port pins, or the
	// daisy-chain IEIO/RETI bits).
	Tick(p Pins) Pins
	// IORQ services a CPU-initiated register read or write: the chip
	// inspects its own chip-select/register-select bits and, on a
	// matching access, drives or consumes the data bus.
	IORQ(p Pins) Pins
}
