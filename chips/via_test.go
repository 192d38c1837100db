package chips

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tickchip/pins"
)

// rwBit mirrors mos6502's own (unexported) control-line position, so a
// peripheral test may address it directly rather than driving a full CPU
// just to flip one bit.
const rwBit uint = 24

func viaRead(addr uint16) Pins {
	return pins.Pins(0).SetAddr(addr).SetBit(rwBit, true)
}

func viaWrite(addr uint16, data uint8) Pins {
	return pins.Pins(0).SetAddr(addr).SetData(data).SetBit(rwBit, false)
}

func TestVIATimer1OneShotFiresExactlyOnce(t *testing.T) {
	v := NewVIA(0x4000)
	v.IORQ(viaWrite(0x4000+regT1CL, 3))
	v.IORQ(viaWrite(0x4000+regT1CH, 0)) // arms: counter = latch(3) + 2 = 5

	var out Pins
	for i := 0; i < 4; i++ {
		out = v.Tick(out)
		assert.False(t, v.ifr&ifrT1 != 0, "must not fire before the 5th tick")
	}
	out = v.Tick(out)
	assert.True(t, v.ifr&ifrT1 != 0, "fires on the 5th tick (latch+2)")

	v.ifr &^= ifrT1
	for i := 0; i < 20; i++ {
		out = v.Tick(out)
	}
	assert.False(t, v.ifr&ifrT1 != 0, "one-shot mode never re-arms on its own")
}

func TestVIATimer1ContinuousReArmsEveryLatchPlusTwo(t *testing.T) {
	v := NewVIA(0x4000)
	v.IORQ(viaWrite(0x4000+regACR, acrT1Continuous))
	v.IORQ(viaWrite(0x4000+regT1CL, 2))
	v.IORQ(viaWrite(0x4000+regT1CH, 0)) // period = 2 + 2 = 4 ticks

	var out Pins
	fires := 0
	for i := 0; i < 12; i++ {
		out = v.Tick(out)
		if v.ifr&ifrT1 != 0 {
			fires++
			v.ifr &^= ifrT1
		}
	}
	assert.Equal(t, 3, fires, "12 ticks at a 4-tick period fires exactly 3 times")
}

func TestVIAInterruptLineAssertedOnlyWhenEnabled(t *testing.T) {
	v := NewVIA(0x4000)
	v.IORQ(viaWrite(0x4000+regT1CL, 0))
	v.IORQ(viaWrite(0x4000+regT1CH, 0)) // period = 2

	out := v.Tick(pins.Pins(0))
	out = v.Tick(out)
	assert.False(t, irqAsserted(out), "T1 fired but IER never enabled it")

	v.IORQ(viaWrite(0x4000+regIER, 0x80|ifrT1))
	v.IORQ(viaWrite(0x4000+regT1CL, 0))
	v.IORQ(viaWrite(0x4000+regT1CH, 0))
	out = v.Tick(pins.Pins(0))
	out = v.Tick(out)
	assert.True(t, irqAsserted(out))
}

func irqAsserted(p Pins) bool { return p.Bit(26) }

func TestVIAPortReadbackRespectsDataDirection(t *testing.T) {
	v := NewVIA(0x4000)
	v.IORQ(viaWrite(0x4000+regDDRA, 0xFF)) // all outputs
	v.IORQ(viaWrite(0x4000+regORA, 0x07))

	out := v.IORQ(viaRead(0x4000 + regORA))
	assert.Equal(t, uint8(0x07), out.Data())
}

func TestVIAAddressOutsideWindowIsIgnored(t *testing.T) {
	v := NewVIA(0x4000)
	in := viaRead(0x5000)
	out := v.IORQ(in)
	assert.Equal(t, in, out)
}
