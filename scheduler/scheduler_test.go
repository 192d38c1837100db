package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tickchip/mos6502"
	"tickchip/z80"
)

// flatMem is the simplest possible MemoryBus: a flat 64KB array, exactly
// like the CPU packages' own test harnesses, except addressed through the
// MemoryBus interface a real host would implement.
type flatMem [65536]byte

func (m *flatMem) Read(addr uint16) uint8     { return m[addr] }
func (m *flatMem) Write(addr uint16, v uint8) { m[addr] = v }

// flatIO is a 256-port IOBus backed by a flat array, mirroring the z80
// package's own test harness convention of addressing IO by the low byte.
type flatIO [256]byte

func (io *flatIO) In(addr uint16) uint8     { return io[addr&0xFF] }
func (io *flatIO) Out(addr uint16, v uint8) { io[addr&0xFF] = v }

// countingPeripheral is a minimal Peripheral: it counts every Tick and IORQ
// call it receives, and on an interrupt-acknowledge cycle (IORQ|M1 with
// IEIO still asserted, meaning no higher-priority device upstream has
// already claimed it) drives vector onto the bus and clears IEIO, the usual
// daisy-chain claim protocol.
type countingPeripheral struct {
	ticks, iorqs int
	vector       uint8
}

func (p *countingPeripheral) Tick(pins Pins) Pins {
	p.ticks++
	return pins
}

func (p *countingPeripheral) IORQ(pins Pins) Pins {
	p.iorqs++
	if z80.Iorq(pins) && z80.M1(pins) && z80.Ieio(pins) {
		pins = pins.SetData(p.vector)
		pins = z80.SetIeio(pins, false)
	}
	return pins
}

func TestMOS6502MachineLoadsImmediateThroughMemoryBus(t *testing.T) {
	mem := &flatMem{}
	mem[0xFFFC], mem[0xFFFD] = 0x00, 0x80
	mem[0x8000] = 0xA9 // LDA #$42
	mem[0x8001] = 0x42

	per := &countingPeripheral{}
	m := NewMOS6502Machine(mos6502.New(mos6502.Config{}), mem, per)

	m.Res = true
	m.Step()
	m.Res = false
	m.Run(6) // completes the 7-cycle reset sequence, PC lands on $8000

	m.Run(2) // LDA # is 2 cycles: operand fetch, then the register write
	assert.Equal(t, uint8(0x42), m.CPU.A)
	assert.Equal(t, uint16(0x8002), m.CPU.PC)
	assert.Equal(t, 9, per.ticks, "every attached peripheral ticks once per Step regardless of bus activity")
}

func TestZ80MachineLoadsImmediateThroughMemoryBus(t *testing.T) {
	mem := &flatMem{}
	mem[0] = 0x3E // LD A,n
	mem[1] = 0x42

	m := NewZ80Machine(z80.New(z80.Config{}), mem, nil)
	m.Run(1 + 1 + 3) // boot fetch, decode dispatch, 3-cycle operand read
	assert.Equal(t, uint8(0x42), m.CPU.A())
}

func TestZ80MachineRoutesIOThroughIOBus(t *testing.T) {
	mem := &flatMem{}
	mem[0] = 0xDB // IN A,(n)
	mem[1] = 0x10

	io := &flatIO{}
	io[0x10] = 0x99

	cpu := z80.New(z80.Config{})
	cpu.SetA(0) // so the port's high byte (A) doesn't perturb the port address
	m := NewZ80Machine(cpu, mem, io)

	m.Run(1 + 1 + 3 + 4) // boot fetch, decode dispatch, operand read, IO read
	assert.Equal(t, uint8(0x99), m.CPU.A())
}

func TestZ80MachineInterruptAckConsultsPeripherals(t *testing.T) {
	mem := &flatMem{}

	cpu := z80.New(z80.Config{})
	cpu.SetI(0x20)
	cpu.SetIM(2)
	cpu.SetIFF1(true)
	cpu.SetIFF2(true)
	cpu.SetSP(0x8000)
	mem[0x2004] = 0x34
	mem[0x2005] = 0x12

	per := &countingPeripheral{vector: 0x04}
	m := NewZ80Machine(cpu, mem, nil, per)
	m.Int = true

	m.Run(20) // boot fetch, decode dispatch into the IM2 ack sequence, 18-cycle drain
	assert.Equal(t, uint16(0x1234), m.CPU.PC())
	assert.True(t, per.iorqs > 0, "the daisy chain must be offered the acknowledge cycle")
}
