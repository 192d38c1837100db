package chips

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tickchip/pins"
	"tickchip/z80"
)

// Control-line bit positions mirroring z80's own (unexported) layout, so a
// peripheral test may address the wire protocol directly rather than
// driving a full CPU.
const (
	testIorqBit uint = 26
	testRdBit   uint = 27
	testWrBit   uint = 28
	testM1Bit   uint = 24
	testIeioBit uint = 37
)

func ctcIn(addr uint16) Pins {
	return pins.Pins(0).SetAddr(addr).SetBit(testIorqBit, true).SetBit(testRdBit, true)
}

func ctcOut(addr uint16, data uint8) Pins {
	return pins.Pins(0).SetAddr(addr).SetData(data).SetBit(testIorqBit, true).SetBit(testWrBit, true)
}

func ctcAck() Pins {
	return pins.Pins(0).SetBit(testIorqBit, true).SetBit(testM1Bit, true).SetBit(testIeioBit, true)
}

func TestCTCCounterModeDecrementsOnEachTrigger(t *testing.T) {
	c := NewCTC(0x00)
	// control word: D0=1 control, D2=1 constant follows, D6=1 counter mode
	c.IORQ(ctcOut(0, ctcCtrlWord|ctcTimeConstFollow|ctcModeCounterBit))
	c.IORQ(ctcOut(0, 4)) // time constant 4

	for i := 0; i < 3; i++ {
		c.Trigger(0)
		assert.False(t, c.ZCTO(0), "must not underflow before the 4th edge")
	}
	c.Trigger(0)
	assert.True(t, c.ZCTO(0), "underflows on the 4th edge")

	out := c.IORQ(ctcIn(0))
	assert.Equal(t, uint8(4), out.Data(), "counter auto-reloads from the time constant")
}

func TestCTCTimerModeDecrementsOncePerPrescaler(t *testing.T) {
	c := NewCTC(0x00)
	// timer mode, prescaler 16 (D5=0), constant follows
	c.IORQ(ctcOut(0, ctcCtrlWord|ctcTimeConstFollow))
	c.IORQ(ctcOut(0, 2)) // time constant 2: fires after 2*16=32 ticks
	c.Trigger(0)         // starts the prescaled countdown in timer mode

	var out Pins
	for i := 0; i < 31; i++ {
		out = c.Tick(out)
		assert.False(t, c.ZCTO(0))
	}
	out = c.Tick(out)
	assert.True(t, c.ZCTO(0), "fires on the 32nd tick (time constant * prescaler)")
}

func TestCTCAssertsInterruptOnlyWhenEnabled(t *testing.T) {
	c := NewCTC(0x00)
	c.IORQ(ctcOut(0, ctcCtrlWord|ctcTimeConstFollow|ctcModeCounterBit))
	c.IORQ(ctcOut(0, 1))
	c.Trigger(0)
	out := c.Tick(Pins(0))
	assert.False(t, z80.Int(out), "interrupt enable bit was never set")

	c.IORQ(ctcOut(0, ctcCtrlWord|ctcTimeConstFollow|ctcModeCounterBit|ctcInterruptEnable))
	c.IORQ(ctcOut(0, 1))
	c.Trigger(0)
	out = c.Tick(Pins(0))
	assert.True(t, z80.Int(out))
}

func TestCTCDaisyChainClaimsAckOnlyWhenPending(t *testing.T) {
	c := NewCTC(0x00)
	c.Vector = 0x40
	c.IORQ(ctcOut(0, ctcCtrlWord|ctcTimeConstFollow|ctcModeCounterBit|ctcInterruptEnable))
	c.IORQ(ctcOut(0, 1))

	ack := ctcAck()
	out := c.IORQ(ack)
	assert.Equal(t, ack, out, "no pending request, IEIO must pass through untouched")

	c.Trigger(0)
	out = c.IORQ(ack)
	assert.Equal(t, uint8(0x40), out.Data())
	assert.False(t, z80.Ieio(out), "a claiming chip clears IEIO for downstream chips")
}
