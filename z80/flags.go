package z80

// Flag bit positions in F, the usual 8080-style layout
// including the undocumented X/Y copies of result bits 3 and 5.
const (
	FlagC uint8 = 1 << 0
	FlagN uint8 = 1 << 1
	FlagP uint8 = 1 << 2
	FlagV       = FlagP
	FlagX uint8 = 1 << 3
	FlagH uint8 = 1 << 4
	FlagY uint8 = 1 << 5
	FlagZ uint8 = 1 << 6
	FlagS uint8 = 1 << 7
)

// Precomputed tables, the standard remogatto/z80-derived layout also used by
// the pack's oisee-z80-optimizer cpu/flags.go.
var (
	sz53Table   [256]uint8
	sz53pTable  [256]uint8
	parityTable [256]uint8

	halfcarryAddTable = [8]uint8{0, FlagH, FlagH, FlagH, 0, 0, 0, FlagH}
	halfcarrySubTable = [8]uint8{0, 0, FlagH, 0, FlagH, 0, FlagH, FlagH}
	overflowAddTable  = [8]uint8{0, 0, 0, FlagV, FlagV, 0, 0, 0}
	overflowSubTable  = [8]uint8{0, FlagV, 0, 0, 0, 0, FlagV, 0}
)

func init() {
	for i := 0; i < 256; i++ {
		sz53Table[i] = uint8(i) & (FlagX | FlagY | FlagS)

		v, parity := uint8(i), uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= v & 1
			v >>= 1
		}
		if parity == 0 {
			parityTable[i] = FlagP
		}
		sz53pTable[i] = sz53Table[i] | parityTable[i]
	}
	sz53Table[0] |= FlagZ
	sz53pTable[0] |= FlagZ
}

// halfcarryIndex/overflowIndex pick the 3-bit lookup index from the carry-out
// of bit 3 (half-carry) or bit 7 (overflow) of each of a, b and the result.
func halfcarryIndex(a, b, r uint8) int {
	return int(((a & 0x08) >> 3) | ((b & 0x08) >> 2) | ((r & 0x08) >> 1))
}

func overflowIndex(a, b, r uint8) int {
	return int(((a & 0x80) >> 7) | ((b & 0x80) >> 6) | ((r & 0x80) >> 5))
}

// addFlags computes SZYHXVNC for an 8-bit add (ADD/ADC A,x).
func addFlags(a, b, carryIn uint8) (result, flags uint8) {
	sum := uint16(a) + uint16(b) + uint16(carryIn)
	result = uint8(sum)
	flags = sz53Table[result]
	if sum > 0xFF {
		flags |= FlagC
	}
	flags |= halfcarryAddTable[halfcarryIndex(a, b, result)]
	flags |= overflowAddTable[overflowIndex(a, b, result)]
	return result, flags
}

// subFlags computes SZYHXVNC for an 8-bit subtract (SUB/SBC/CP A,x).
func subFlags(a, b, carryIn uint8) (result, flags uint8) {
	diff := int16(a) - int16(b) - int16(carryIn)
	result = uint8(diff)
	flags = sz53Table[result] | FlagN
	if diff < 0 {
		flags |= FlagC
	}
	flags |= halfcarrySubTable[halfcarryIndex(a, b, result)]
	flags |= overflowSubTable[overflowIndex(a, b, result)]
	return result, flags
}

// cpFlags is subFlags but the X/Y bits come from the operand, not the
// result, matching documented CP behavior.
func cpFlags(a, b uint8) uint8 {
	_, flags := subFlags(a, b, 0)
	flags = (flags &^ (FlagX | FlagY)) | (b & (FlagX | FlagY))
	return flags
}

func andFlags(r uint8) uint8 { return sz53pTable[r] | FlagH }
func orFlags(r uint8) uint8  { return sz53pTable[r] }
func xorFlags(r uint8) uint8 { return sz53pTable[r] }

// incFlags/decFlags compute flags for the unary INC/DEC r forms, which never
// touch carry.
func incFlags(before uint8) (result, flags uint8) {
	result = before + 1
	flags = sz53Table[result]
	if result == 0x80 {
		flags |= FlagV
	}
	if result&0x0F == 0 {
		flags |= FlagH
	}
	return result, flags
}

func decFlags(before uint8) (result, flags uint8) {
	result = before - 1
	flags = sz53Table[result] | FlagN
	if result == 0x7F {
		flags |= FlagV
	}
	if result&0x0F == 0x0F {
		flags |= FlagH
	}
	return result, flags
}

// add16Flags computes flags for ADD HL/IX/IY,rr: only C, H and the X/Y copies
// (taken from the high byte of the result) are affected; S, Z, P/V are left
// untouched by the caller.
func add16Flags(a, b uint16) (result uint16, flags uint8) {
	sum := uint32(a) + uint32(b)
	result = uint16(sum)
	flags = uint8(result>>8) & (FlagX | FlagY)
	if sum > 0xFFFF {
		flags |= FlagC
	}
	flags |= halfcarryAddTable[halfcarryIndex(uint8(a>>8), uint8(b>>8), uint8(result>>8))]
	return result, flags
}

// adc16Flags/sbc16Flags compute full SZYHXVNC for ADC/SBC HL,rr.
func adc16Flags(a, b uint16, carryIn uint8) (result uint16, flags uint8) {
	sum := uint32(a) + uint32(b) + uint32(carryIn)
	result = uint16(sum)
	flags = uint8(result>>8) & (FlagX | FlagY | FlagS)
	if result == 0 {
		flags |= FlagZ
	}
	if sum > 0xFFFF {
		flags |= FlagC
	}
	hi, bhi, rhi := uint8(a>>8), uint8(b>>8), uint8(result>>8)
	flags |= halfcarryAddTable[halfcarryIndex(hi, bhi, rhi)]
	flags |= overflowAddTable[overflowIndex(hi, bhi, rhi)]
	return result, flags
}

func sbc16Flags(a, b uint16, carryIn uint8) (result uint16, flags uint8) {
	diff := int32(a) - int32(b) - int32(carryIn)
	result = uint16(diff)
	flags = uint8(result>>8)&(FlagX|FlagY|FlagS) | FlagN
	if result == 0 {
		flags |= FlagZ
	}
	if diff < 0 {
		flags |= FlagC
	}
	hi, bhi, rhi := uint8(a>>8), uint8(b>>8), uint8(result>>8)
	flags |= halfcarrySubTable[halfcarryIndex(hi, bhi, rhi)]
	flags |= overflowSubTable[overflowIndex(hi, bhi, rhi)]
	return result, flags
}
