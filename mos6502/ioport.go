package mos6502

// ioPort models the 6510's built-in 6-bit bidirectional IO port at
// addresses $0000 (DDR) and $0001 (data), the mechanism the C64 uses to
// bank RAM/ROM/IO and to drive the datassette. A bit set in the DDR drives
// that pin from the latch; a bit clear lets the pin float, in which case it
// reads back from IOIn (IOPullup when IOIn is nil), with the IOFloating bits
// always reading as 1. The value last driven on a pin is not retained once
// its DDR bit is cleared.
type ioPort struct {
	ddr   uint8
	latch uint8

	in       func() uint8
	out      func(uint8)
	pullup   uint8
	floating uint8
}

func newIOPort(cfg Variant6510Config) ioPort {
	return ioPort{
		in:       cfg.IOIn,
		out:      cfg.IOOut,
		pullup:   cfg.IOPullup,
		floating: cfg.IOFloating,
	}
}

func (p *ioPort) readDDR() uint8 { return p.ddr }

func (p *ioPort) writeDDR(v uint8) {
	p.ddr = v
	p.drive()
}

func (p *ioPort) readData() uint8 {
	external := p.pullup
	if p.in != nil {
		external = p.in()
	}
	return ((external | (p.floating &^ p.ddr)) &^ p.ddr) | (p.latch & p.ddr)
}

func (p *ioPort) writeData(v uint8) {
	p.latch = v
	p.drive()
}

func (p *ioPort) drive() {
	if p.out != nil {
		p.out(p.latch & p.ddr)
	}
}
