// Command tickdemo is a small reference host for the tick scheduler: flat
// 64KB RAM, a chosen CPU core, optional VIA/CTC peripherals, and a -trace
// flag that logs every clock cycle's pin word. It is not a claim to emulate
// any named machine, just the scheduler contract driven end-to-end.
//
// Grounded on master-g-childhood/go/mgnes/cmd/pure6502's load-and-step
// shape, adapted from an interactive terminal debugger into a flag-driven
// batch runner.
package main

import (
	"flag"
	"log"
	"os"

	"tickchip/chips"
	"tickchip/mem"
	"tickchip/mos6502"
	"tickchip/scheduler"
	"tickchip/z80"
)

func main() {
	var (
		family   = flag.String("cpu", "6502", "CPU family to run: 6502 or z80")
		romPath  = flag.String("rom", "", "path to a raw binary image to load")
		loadAt   = flag.Uint("load", 0x8000, "address to load the ROM image at")
		resetVec = flag.Uint("reset", 0x8000, "6502 reset vector target (ignored for z80, which always starts at 0)")
		ticks    = flag.Int("ticks", 1000, "number of clock cycles to run")
		trace    = flag.Bool("trace", false, "log every tick's pin word")
		via      = flag.Bool("via", false, "attach a 6522-style VIA at $9000 (6502 only)")
		ctc      = flag.Bool("ctc", false, "attach a Z80 CTC at IO ports $80-$83 (z80 only)")
	)
	flag.Parse()

	ram := mem.NewRAM()
	if *romPath != "" {
		rom, err := os.ReadFile(*romPath)
		if err != nil {
			log.Fatalf("tickdemo: reading ROM: %v", err)
		}
		ram.Load(uint16(*loadAt), rom)
	}

	switch *family {
	case "6502":
		runMOS6502(ram, uint16(*resetVec), *ticks, *trace, *via)
	case "z80":
		runZ80(ram, *ticks, *trace, *ctc)
	default:
		log.Fatalf("tickdemo: unknown -cpu %q, want 6502 or z80", *family)
	}
}

func runMOS6502(ram *mem.RAM, resetVec uint16, ticks int, trace, attachVIA bool) {
	ram.Write(0xFFFC, uint8(resetVec))
	ram.Write(0xFFFD, uint8(resetVec>>8))

	var peripherals []scheduler.Peripheral
	if attachVIA {
		peripherals = append(peripherals, chips.NewVIA(0x9000))
	}

	m := scheduler.NewMOS6502Machine(mos6502.New(mos6502.Config{}), ram, peripherals...)
	m.Res = true
	m.Step()
	m.Res = false

	for i := 0; i < ticks; i++ {
		out := m.Step()
		if trace {
			log.Printf("tick %6d: %s pc=%04X a=%02X x=%02X y=%02X", i, out, m.CPU.PC, m.CPU.A, m.CPU.X, m.CPU.Y)
		}
	}
}

func runZ80(ram *mem.RAM, ticks int, trace, attachCTC bool) {
	var peripherals []scheduler.Peripheral
	if attachCTC {
		peripherals = append(peripherals, chips.NewCTC(0x80))
	}

	m := scheduler.NewZ80Machine(z80.New(z80.Config{}), ram, nil, peripherals...)

	for i := 0; i < ticks; i++ {
		out := m.Step()
		if trace {
			log.Printf("tick %6d: %s pc=%04X a=%02X", i, out, m.CPU.PC(), m.CPU.A())
		}
	}
}
