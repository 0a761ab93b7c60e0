package cpu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"

// flags carries the computed Z N H C values of one operation. The
// instruction's descriptor decides which of them reach F.
type flags struct {
	z, n, h, c bool
}

// applyFlags merges computed flags into F according to the descriptor:
// '-' keeps the bit, '0' and '1' force it, a letter takes the computed value.
func applyFlags(r *Registers, desc instructions.FlagEffects, f flags) {
	computed := [4]bool{f.z, f.n, f.h, f.c}
	masks := [4]byte{FlagZ, FlagN, FlagH, FlagC}
	for i, m := range masks {
		switch desc.Effect(i) {
		case instructions.Reset:
			r.SetFlag(m, false)
		case instructions.Set:
			r.SetFlag(m, true)
		case instructions.Computed:
			r.SetFlag(m, computed[i])
		}
	}
}

func halfCarryAdd(a, b, carry byte) bool { return (a&0x0F)+(b&0x0F)+carry > 0x0F }
func carryAdd(a, b, carry byte) bool     { return uint16(a)+uint16(b)+uint16(carry) > 0xFF }
func halfBorrow(a, b, carry byte) bool   { return int(a&0x0F)-int(b&0x0F)-int(carry) < 0 }
func borrow(a, b, carry byte) bool       { return int(a)-int(b)-int(carry) < 0 }

func bit(on bool) byte {
	if on {
		return 1
	}
	return 0
}

func add8(a, b byte, carryIn bool) (byte, flags) {
	ci := bit(carryIn)
	res := a + b + ci
	return res, flags{z: res == 0, h: halfCarryAdd(a, b, ci), c: carryAdd(a, b, ci)}
}

func sub8(a, b byte, carryIn bool) (byte, flags) {
	ci := bit(carryIn)
	res := a - b - ci
	return res, flags{z: res == 0, n: true, h: halfBorrow(a, b, ci), c: borrow(a, b, ci)}
}

func and8(a, b byte) (byte, flags) {
	res := a & b
	return res, flags{z: res == 0, h: true}
}

func or8(a, b byte) (byte, flags) {
	res := a | b
	return res, flags{z: res == 0}
}

func xor8(a, b byte) (byte, flags) {
	res := a ^ b
	return res, flags{z: res == 0}
}

func inc8(v byte) (byte, flags) {
	res := v + 1
	return res, flags{z: res == 0, h: halfCarryAdd(v, 1, 0)}
}

func dec8(v byte) (byte, flags) {
	res := v - 1
	return res, flags{z: res == 0, n: true, h: halfBorrow(v, 1, 0)}
}

func add16(a, b uint16) (uint16, flags) {
	res := uint32(a) + uint32(b)
	return uint16(res), flags{h: (a&0x0FFF)+(b&0x0FFF) > 0x0FFF, c: res > 0xFFFF}
}

// addSPOffset covers ADD SP,r8 and LD HL,SP+r8. H and C come from the low
// byte as an unsigned addition.
func addSPOffset(sp uint16, off byte) (uint16, flags) {
	res := sp + uint16(int16(int8(off)))
	return res, flags{h: (sp&0x0F)+uint16(off&0x0F) > 0x0F, c: (sp&0xFF)+uint16(off) > 0xFF}
}

// shift implements the CB rotate and shift family plus the A-register
// rotates.
func shift(m instructions.Mnemonic, v byte, carryIn bool) (byte, flags) {
	var res byte
	var c bool
	switch m {
	case instructions.RLC, instructions.RLCA:
		res, c = v<<1|v>>7, v&0x80 != 0
	case instructions.RRC, instructions.RRCA:
		res, c = v>>1|v<<7, v&0x01 != 0
	case instructions.RL, instructions.RLA:
		res, c = v<<1|bit(carryIn), v&0x80 != 0
	case instructions.RR, instructions.RRA:
		res, c = v>>1|bit(carryIn)<<7, v&0x01 != 0
	case instructions.SLA:
		res, c = v<<1, v&0x80 != 0
	case instructions.SRA:
		res, c = v>>1|v&0x80, v&0x01 != 0
	case instructions.SRL:
		res, c = v>>1, v&0x01 != 0
	case instructions.SWAP:
		res = v<<4 | v>>4
	}
	return res, flags{z: res == 0, c: c}
}

// daa adjusts A to packed BCD after an addition or subtraction.
func daa(a byte, n, h, c bool) (byte, flags) {
	var adj byte
	carry := c
	if !n {
		if c || a > 0x99 {
			adj |= 0x60
			carry = true
		}
		if h || a&0x0F > 0x09 {
			adj |= 0x06
		}
		a += adj
	} else {
		if c {
			adj |= 0x60
		}
		if h {
			adj |= 0x06
		}
		a -= adj
	}
	return a, flags{z: a == 0, n: n, c: carry}
}
