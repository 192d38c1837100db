package scheduler

import "tickchip/z80"

// Z80Machine wires a Z80 core to a MemoryBus, an optional IOBus, and zero or
// more daisy-chained peripherals, handling this family's host
// responsibilities: MREQ/IORQ-routed access and the IORQ|M1
// interrupt-acknowledge daisy chain. It generates no WAIT states itself.
type Z80Machine struct {
	CPU         *z80.CPU
	Mem         MemoryBus
	IO          IOBus
	Peripherals []Peripheral

	// Int and Nmi are asserted by the host (or by a Peripheral.Tick result
	// the host ORs in) before each Step.
	Int, Nmi bool

	pins Pins
}

// NewZ80Machine constructs a Machine ready to Step from a freshly reset CPU.
func NewZ80Machine(cpu *z80.CPU, mem MemoryBus, io IOBus, peripherals ...Peripheral) *Z80Machine {
	return &Z80Machine{CPU: cpu, Mem: mem, IO: io, Peripherals: peripherals}
}

// Step drives exactly one clock cycle: CPU tick, MREQ/IORQ service
// (including the interrupt-acknowledge daisy chain), and peripheral
// clocking. Peripherals are ticked every cycle regardless of what the CPU's
// pins requested, matching real hardware where every chip on the bus
// observes every clock edge.
func (m *Z80Machine) Step() Pins {
	in := m.pins
	// Int is an open-collector wire-OR: a peripheral that asserted it during
	// the previous cycle's Tick must still be heard here, alongside whatever
	// the host itself is asserting. Nmi is edge-triggered by the CPU core
	// itself, so it is simply host-driven.
	in = z80.SetInt(in, m.Int || z80.Int(in))
	in = z80.SetNmi(in, m.Nmi)

	out := m.CPU.Tick(in)

	switch {
	case z80.Mreq(out) && z80.Rd(out):
		out = out.SetData(m.Mem.Read(out.Addr()))
	case z80.Mreq(out) && z80.Wr(out):
		m.Mem.Write(out.Addr(), out.Data())
	case z80.Iorq(out) && z80.M1(out):
		out = m.serviceInterruptAck(out)
	case z80.Iorq(out) && z80.Rd(out):
		if m.IO != nil {
			out = out.SetData(m.IO.In(out.Addr()))
		}
		out = m.serviceIORQ(out)
	case z80.Iorq(out) && z80.Wr(out):
		if m.IO != nil {
			m.IO.Out(out.Addr(), out.Data())
		}
		out = m.serviceIORQ(out)
	}

	for _, p := range m.Peripherals {
		out = p.Tick(out)
	}

	m.pins = out
	return out
}

// serviceIORQ lets every attached peripheral inspect an IO cycle for its own
// chip-select match; a non-matching peripheral's IORQ must return p
// unchanged.
func (m *Z80Machine) serviceIORQ(p Pins) Pins {
	for _, per := range m.Peripherals {
		p = per.IORQ(p)
	}
	return p
}

// serviceInterruptAck runs the interrupt-acknowledge daisy chain: the
// host asserts IEIO, and priority-ordered peripherals inspect and may clear
// it as they claim the acknowledgment by driving their vector byte onto the
// data bus via their own IORQ handler.
func (m *Z80Machine) serviceInterruptAck(p Pins) Pins {
	p = z80.SetIeio(p, true)
	for _, per := range m.Peripherals {
		p = per.IORQ(p)
	}
	return p
}

// Run drives n clock cycles.
func (m *Z80Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}
