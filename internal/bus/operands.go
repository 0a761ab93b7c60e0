package bus

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	in "github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"
)

const ioBase = 0xFF00

func (b *Bus) fetch8() byte {
	v := b.ReadAddress(b.regs.PC)
	b.regs.PC++
	return v
}

func (b *Bus) fetch16() uint16 {
	lo := uint16(b.fetch8())
	hi := uint16(b.fetch8())
	return hi<<8 | lo
}

func (b *Bus) read16(addr uint16) uint16 {
	return uint16(b.ReadAddress(addr+1))<<8 | uint16(b.ReadAddress(addr))
}

func (b *Bus) write16(addr, v uint16) {
	b.WriteAddress(addr, byte(v))
	b.WriteAddress(addr+1, byte(v>>8))
}

func isRegister(op in.Operand) bool {
	switch op {
	case in.A, in.F, in.B, in.C, in.D, in.E, in.H, in.L,
		in.AF, in.BC, in.DE, in.HL, in.SP, in.PC,
		in.FlagZ, in.FlagN, in.FlagH, in.FlagCY:
		return true
	}
	return false
}

// address resolves an indirect operand to its effective address. Immediate
// forms consume their bytes at PC.
func (b *Bus) address(op in.Operand) (uint16, bool) {
	switch op {
	case in.IndBC:
		return b.regs.BC(), true
	case in.IndDE:
		return b.regs.DE(), true
	case in.IndHL, in.IndHLInc, in.IndHLDec:
		return b.regs.HL(), true
	case in.IndC:
		return ioBase + uint16(b.regs.C), true
	case in.IndA8:
		return ioBase + uint16(b.fetch8()), true
	case in.IndA16:
		return b.fetch16(), true
	}
	return 0, false
}

// postAdjust applies the HL step of (HL+) and (HL-).
func (b *Bus) postAdjust(op in.Operand) {
	switch op {
	case in.IndHLInc:
		b.regs.SetHL(b.regs.HL() + 1)
	case in.IndHLDec:
		b.regs.SetHL(b.regs.HL() - 1)
	}
}

// Read resolves an operand to a value. Bit selectors give their number,
// conditions give 1 or 0, memory operands give the byte they address.
func (b *Bus) Read(op in.Operand) uint16 {
	if n, ok := op.BitIndex(); ok {
		return uint16(n)
	}
	if v, ok := op.RSTVector(); ok {
		return v
	}
	if isRegister(op) {
		v, err := b.regs.Read(op)
		if err != nil {
			b.faultf(ErrInvalidOperand, "read %v", err)
		}
		return v
	}
	if op.IsIndirect() {
		addr, _ := b.address(op)
		v := b.ReadAddress(addr)
		b.postAdjust(op)
		return uint16(v)
	}
	switch op {
	case in.D8, in.A8, in.R8:
		return uint16(b.fetch8())
	case in.D16, in.A16:
		return b.fetch16()
	case in.SPPlusR8:
		off := int8(b.fetch8())
		return uint16(int32(b.regs.SP) + int32(off))
	case in.CondZ:
		return cond(b.regs.Flag(cpu.FlagZ))
	case in.CondNZ:
		return cond(!b.regs.Flag(cpu.FlagZ))
	case in.CondC:
		return cond(b.regs.Flag(cpu.FlagC))
	case in.CondNC:
		return cond(!b.regs.Flag(cpu.FlagC))
	}
	b.faultf(ErrInvalidOperand, "read %q", op.String())
	return 0
}

// Write stores value through an operand. Writing a bit selector sets or
// clears that bit of F.
func (b *Bus) Write(op in.Operand, value uint16) {
	if n, ok := op.BitIndex(); ok && n < 8 {
		mask := byte(1) << uint(n)
		b.regs.SetFlag(mask, value != 0)
		return
	}
	if isRegister(op) {
		if err := b.regs.Write(op, value); err != nil {
			b.faultf(ErrInvalidOperand, "write %v", err)
		}
		return
	}
	if op.IsIndirect() {
		addr, _ := b.address(op)
		b.WriteAddress(addr, byte(value))
		b.postAdjust(op)
		return
	}
	b.faultf(ErrInvalidOperand, "write %q", op.String())
}

// Write16 stores a 16-bit value little-endian at a memory operand.
func (b *Bus) Write16(op in.Operand, value uint16) {
	addr, ok := b.address(op)
	if !ok {
		b.faultf(ErrInvalidOperand, "write16 %q", op.String())
		return
	}
	b.write16(addr, value)
}

// Push decrements SP by 2 and stores value there.
func (b *Bus) Push(value uint16) {
	b.regs.SP -= 2
	b.write16(b.regs.SP, value)
}

// Pop loads the value at SP and increments SP by 2.
func (b *Bus) Pop() uint16 {
	v := b.read16(b.regs.SP)
	b.regs.SP += 2
	return v
}

func cond(ok bool) uint16 {
	if ok {
		return 1
	}
	return 0
}
