package cpu

import (
	in "github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"
)

const (
	opDI byte = 0xF3
	opEI byte = 0xFB
)

// operands returns (destination, source) for ALU forms. Single-operand
// entries operate on A.
func operands(ins in.Instruction) (dst, src in.Operand) {
	if ins.Operand2 == in.None {
		return in.A, ins.Operand1
	}
	return ins.Operand1, ins.Operand2
}

// branch splits a control-flow entry into its condition (None when
// unconditional) and its target operand.
func branch(ins in.Instruction) (cond, target in.Operand) {
	if ins.Operand1.IsCondition() {
		return ins.Operand1, ins.Operand2
	}
	return in.None, ins.Operand1
}

func taken(b Bus, cond in.Operand) bool {
	return cond == in.None || b.Read(cond) != 0
}

// Execute applies one decoded instruction and returns its cycle count.
func (c *CPU) Execute(b Bus, ins in.Instruction) int {
	r := b.Registers()

	switch ins.Mnemonic {
	case in.NOP:

	case in.HALT:
		c.halted = true

	case in.STOP:
		if ins.Operand1 != in.None {
			b.Read(ins.Operand1)
		}
		c.stopped = true

	case in.PREFIX:
		c.cbPending = true

	case in.LD, in.LDH, in.LDI, in.LDD:
		c.load(b, r, ins)

	case in.PUSH:
		b.Push(b.Read(ins.Operand1))

	case in.POP:
		v := b.Pop()
		if ins.Operand1 == in.AF {
			v &= 0xFFF0
		}
		b.Write(ins.Operand1, v)
		return ins.Cycles

	case in.ADD:
		switch ins.Operand1 {
		case in.HL:
			res, f := add16(r.HL(), b.Read(ins.Operand2))
			r.SetHL(res)
			applyFlags(r, ins.Flags, f)
		case in.SP:
			res, f := addSPOffset(r.SP, byte(b.Read(ins.Operand2)))
			r.SP = res
			applyFlags(r, ins.Flags, f)
		default:
			dst, src := operands(ins)
			res, f := add8(byte(b.Read(dst)), byte(b.Read(src)), false)
			b.Write(dst, uint16(res))
			applyFlags(r, ins.Flags, f)
		}

	case in.ADC, in.SUB, in.SBC, in.AND, in.OR, in.XOR, in.CP:
		dst, src := operands(ins)
		x, y := byte(b.Read(dst)), byte(b.Read(src))
		var res byte
		var f flags
		switch ins.Mnemonic {
		case in.ADC:
			res, f = add8(x, y, r.Flag(FlagC))
		case in.SUB, in.CP:
			res, f = sub8(x, y, false)
		case in.SBC:
			res, f = sub8(x, y, r.Flag(FlagC))
		case in.AND:
			res, f = and8(x, y)
		case in.OR:
			res, f = or8(x, y)
		case in.XOR:
			res, f = xor8(x, y)
		}
		if ins.Mnemonic != in.CP {
			b.Write(dst, uint16(res))
		}
		applyFlags(r, ins.Flags, f)

	case in.INC, in.DEC:
		v := b.Read(ins.Operand1)
		if ins.Operand1.Is16() {
			if ins.Mnemonic == in.INC {
				v++
			} else {
				v--
			}
			b.Write(ins.Operand1, v)
			break
		}
		var res byte
		var f flags
		if ins.Mnemonic == in.INC {
			res, f = inc8(byte(v))
		} else {
			res, f = dec8(byte(v))
		}
		b.Write(ins.Operand1, uint16(res))
		applyFlags(r, ins.Flags, f)

	case in.BIT, in.SET, in.RES:
		n, ok := ins.Operand1.BitIndex()
		if !ok {
			c.log.Errorf("cpu: %s has no bit selector", ins)
			return 0
		}
		v := byte(b.Read(ins.Operand2))
		mask := byte(1) << uint(n)
		switch ins.Mnemonic {
		case in.BIT:
			applyFlags(r, ins.Flags, flags{z: v&mask == 0})
		case in.SET:
			b.Write(ins.Operand2, uint16(v|mask))
		case in.RES:
			b.Write(ins.Operand2, uint16(v&^mask))
		}

	case in.RLC, in.RRC, in.RL, in.RR, in.SLA, in.SRA, in.SRL, in.SWAP:
		res, f := shift(ins.Mnemonic, byte(b.Read(ins.Operand1)), r.Flag(FlagC))
		b.Write(ins.Operand1, uint16(res))
		applyFlags(r, ins.Flags, f)

	case in.RLCA, in.RRCA, in.RLA, in.RRA:
		res, f := shift(ins.Mnemonic, r.A, r.Flag(FlagC))
		r.A = res
		applyFlags(r, ins.Flags, f)

	case in.DAA:
		res, f := daa(r.A, r.Flag(FlagN), r.Flag(FlagH), r.Flag(FlagC))
		r.A = res
		applyFlags(r, ins.Flags, f)

	case in.CPL:
		r.A = ^r.A
		applyFlags(r, ins.Flags, flags{})

	case in.CCF:
		applyFlags(r, ins.Flags, flags{c: !r.Flag(FlagC)})

	case in.SCF:
		applyFlags(r, ins.Flags, flags{c: true})

	case in.JP:
		cond, target := branch(ins)
		ok := taken(b, cond)
		addr := b.Read(target)
		if !ok {
			return ins.CyclesNotTaken
		}
		r.PC = addr

	case in.JR:
		cond, target := branch(ins)
		ok := taken(b, cond)
		off := int8(byte(b.Read(target)))
		if !ok {
			return ins.CyclesNotTaken
		}
		r.PC = uint16(int32(r.PC) + int32(off))

	case in.CALL:
		cond, target := branch(ins)
		ok := taken(b, cond)
		addr := b.Read(target)
		if !ok {
			return ins.CyclesNotTaken
		}
		b.Push(r.PC)
		r.PC = addr

	case in.RET:
		if !taken(b, ins.Operand1) {
			return ins.CyclesNotTaken
		}
		r.PC = b.Pop()

	case in.RETI:
		r.PC = b.Pop()
		c.ime = true
		c.eiPending = false

	case in.RST:
		vec, ok := ins.Operand1.RSTVector()
		if !ok {
			c.log.Errorf("cpu: %s has no restart vector", ins)
			return 0
		}
		b.Push(r.PC)
		r.PC = vec

	case in.DI, in.EI:
		switch ins.OpCode {
		case opDI:
			c.ime = false
			c.eiPending = false
		case opEI:
			if !c.ime {
				c.eiPending = true
			}
		default:
			c.log.Errorf("cpu: %s at unexpected opcode", ins)
		}

	default:
		c.log.Errorf("cpu: no execute case for %s at PC=%04X", ins, r.PC)
		return 0
	}
	return ins.Cycles
}

func (c *CPU) load(b Bus, r *Registers, ins in.Instruction) {
	switch {
	case ins.Operand2 == in.SPPlusR8:
		// flags come from the carries out of SP + offset
		sp := r.SP
		res := b.Read(in.SPPlusR8)
		carries := sp ^ res ^ (res - sp)
		b.Write(ins.Operand1, res)
		applyFlags(r, ins.Flags, flags{h: carries&0x0010 != 0, c: carries&0x0100 != 0})
	case ins.Operand2 == in.SP && ins.Operand1.IsIndirect():
		b.Write16(ins.Operand1, r.SP)
	default:
		b.Write(ins.Operand1, b.Read(ins.Operand2))
	}
}
