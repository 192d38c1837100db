package pins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddrDataRoundTrip(t *testing.T) {
	var p Pins
	p = p.SetAddr(0x8000)
	p = p.SetData(0x42)
	assert.Equal(t, uint16(0x8000), p.Addr())
	assert.Equal(t, uint8(0x42), p.Data())

	p = p.SetAddr(0x0001)
	assert.Equal(t, uint16(0x0001), p.Addr())
	assert.Equal(t, uint8(0x42), p.Data(), "changing addr must not disturb data")
}

func TestSetBitPreservesOthers(t *testing.T) {
	p := Make(0, 0x1234, 0x56)
	p = p.SetBit(26, true) // arbitrary control line
	assert.True(t, p.Bit(26))
	assert.Equal(t, uint16(0x1234), p.Addr())
	assert.Equal(t, uint8(0x56), p.Data())

	p = p.SetBit(26, false)
	assert.False(t, p.Bit(26))
}

func TestCopyData(t *testing.T) {
	src := Make(0, 0, 0xAA).SetBit(30, true)
	dst := Make(0xFF, 0x9000, 0x00)

	dst = dst.CopyData(src)
	assert.Equal(t, uint8(0xAA), dst.Data())
	assert.Equal(t, uint16(0x9000), dst.Addr(), "CopyData must not disturb addr")
	assert.False(t, dst.Bit(30), "CopyData must not disturb dst's own control bits")
}

func TestMakeIsZeroAboveSuppliedFields(t *testing.T) {
	ctrl := uint64(0x3) << 24
	p := Make(ctrl, 0x0100, 0x01)
	assert.Equal(t, Pins(ctrl), p&^Pins(0xFFFFFF))
	assert.Equal(t, uint16(0x0100), p.Addr())
	assert.Equal(t, uint8(0x01), p.Data())
}
