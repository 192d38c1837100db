package scheduler

import "tickchip/mos6502"

// MOS6502Machine wires a 6502/6510 core to a MemoryBus and zero or more
// peripherals, handling this family's host responsibilities: RW/SYNC-routed
// memory access, IRQ/NMI/RDY pass-through, and
// per-tick peripheral clocking.
type MOS6502Machine struct {
	CPU         *mos6502.CPU
	Mem         MemoryBus
	Peripherals []Peripheral

	// Irq, Nmi and Rdy are asserted by the host before each Step; Rdy
	// defaults false (not stalling) on the zero value, matching how a real
	// RDY line sits released until a bus-sharing peripheral pulls it low.
	Irq, Nmi, Res bool
	Rdy           bool

	pins Pins
}

// NewMOS6502Machine constructs a Machine with RDY released (the common case
// of no bus-sharing peripheral currently holding the CPU off the bus).
func NewMOS6502Machine(cpu *mos6502.CPU, mem MemoryBus, peripherals ...Peripheral) *MOS6502Machine {
	return &MOS6502Machine{CPU: cpu, Mem: mem, Peripherals: peripherals}
}

// Step drives exactly one clock cycle through the full pipeline: CPU tick,
// memory service, peripheral clocking.
func (m *MOS6502Machine) Step() Pins {
	in := m.pins
	// IRQ/NMI are open-collector wire-ORs: a peripheral that asserted one on
	// the previous cycle's Tick must still be heard here, alongside whatever
	// the host itself is asserting.
	in = mos6502.SetIrq(in, m.Irq || mos6502.Irq(in))
	in = mos6502.SetNmi(in, m.Nmi || mos6502.Nmi(in))
	in = mos6502.SetRes(in, m.Res)
	in = mos6502.SetRdy(in, m.Rdy)

	out := m.CPU.Tick(in)

	if mos6502.Rd(out) {
		out = out.SetData(m.Mem.Read(out.Addr()))
	} else {
		m.Mem.Write(out.Addr(), out.Data())
	}

	// The 6502 family has no separate IO address space: a memory-mapped
	// peripheral like chips.VIA claims its own address range out of the same
	// access mos6502.Rd above already routed through Mem, overriding the
	// data bus on a read it recognizes as its own.
	for _, p := range m.Peripherals {
		out = p.IORQ(out)
	}

	for _, p := range m.Peripherals {
		out = p.Tick(out)
	}

	m.pins = out
	return out
}

// Run drives n clock cycles.
func (m *MOS6502Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}
