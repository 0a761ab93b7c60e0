package instructions

import "fmt"

// Effect describes what an instruction does to one flag.
type Effect int

const (
	Keep Effect = iota
	Reset
	Set
	Computed
)

// FlagEffects is a four character Z N H C descriptor such as "Z0H-".
type FlagEffects string

// Effect returns the effect on flag i (0=Z, 1=N, 2=H, 3=C).
func (f FlagEffects) Effect(i int) Effect {
	if i < 0 || i >= len(f) {
		return Keep
	}
	switch f[i] {
	case '-':
		return Keep
	case '0':
		return Reset
	case '1':
		return Set
	}
	return Computed
}

func (f FlagEffects) valid() bool {
	if len(f) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		switch f[i] {
		case '-', '0', '1', "ZNHC"[i]:
		default:
			return false
		}
	}
	return true
}

// Instruction is one decoded table entry.
type Instruction struct {
	OpCode         byte
	Prefixed       bool
	Mnemonic       Mnemonic
	Length         int
	Cycles         int
	CyclesNotTaken int
	Flags          FlagEffects
	Group          string
	Operand1       Operand
	Operand2       Operand
}

func (in Instruction) String() string {
	s := in.Mnemonic.String()
	if in.Operand1 != None {
		s += " " + in.Operand1.String()
	}
	if in.Operand2 != None {
		s += "," + in.Operand2.String()
	}
	if in.Prefixed {
		return fmt.Sprintf("CB %02X %s", in.OpCode, s)
	}
	return fmt.Sprintf("%02X %s", in.OpCode, s)
}
