package cpu

import (
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"
)

// ErrInvalidOperand is returned for names outside the register file.
var ErrInvalidOperand = errors.New("invalid register operand")

// Flag masks within F.
const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

// Registers is the SM83 register file. Pairs are views over the 8-bit halves,
// high byte first.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16
}

// NewRegisters returns the DMG post-boot register state.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset restores the power-on defaults.
func (r *Registers) Reset() {
	r.A, r.F = 0x01, 0xB0
	r.B, r.C = 0x00, 0x13
	r.D, r.E = 0x00, 0xD8
	r.H, r.L = 0x01, 0x4D
	r.SP = 0xFFFE
	r.PC = 0x0100
}

func (r *Registers) AF() uint16     { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) }
func (r *Registers) BC() uint16     { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) DE() uint16     { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) HL() uint16     { return uint16(r.H)<<8 | uint16(r.L) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

// Flag reports whether the flag bit mask is set in F.
func (r *Registers) Flag(mask byte) bool { return r.F&mask != 0 }

// SetFlag sets or clears the flag bit mask in F.
func (r *Registers) SetFlag(mask byte, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

func flagMask(name instructions.Operand) byte {
	switch name {
	case instructions.FlagZ:
		return FlagZ
	case instructions.FlagN:
		return FlagN
	case instructions.FlagH:
		return FlagH
	case instructions.FlagCY:
		return FlagC
	}
	return 0
}

// Read returns the value of a register, pair or flag token.
func (r *Registers) Read(name instructions.Operand) (uint16, error) {
	switch name {
	case instructions.A:
		return uint16(r.A), nil
	case instructions.F:
		return uint16(r.F), nil
	case instructions.B:
		return uint16(r.B), nil
	case instructions.C:
		return uint16(r.C), nil
	case instructions.D:
		return uint16(r.D), nil
	case instructions.E:
		return uint16(r.E), nil
	case instructions.H:
		return uint16(r.H), nil
	case instructions.L:
		return uint16(r.L), nil
	case instructions.AF:
		return r.AF(), nil
	case instructions.BC:
		return r.BC(), nil
	case instructions.DE:
		return r.DE(), nil
	case instructions.HL:
		return r.HL(), nil
	case instructions.SP:
		return r.SP, nil
	case instructions.PC:
		return r.PC, nil
	case instructions.FlagZ, instructions.FlagN, instructions.FlagH, instructions.FlagCY:
		if r.Flag(flagMask(name)) {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperand, name.String())
}

// Write stores value into a register, pair or flag token. 8-bit registers
// keep the low byte. A non-zero value sets a flag token.
func (r *Registers) Write(name instructions.Operand, value uint16) error {
	switch name {
	case instructions.A:
		r.A = byte(value)
	case instructions.F:
		r.F = byte(value)
	case instructions.B:
		r.B = byte(value)
	case instructions.C:
		r.C = byte(value)
	case instructions.D:
		r.D = byte(value)
	case instructions.E:
		r.E = byte(value)
	case instructions.H:
		r.H = byte(value)
	case instructions.L:
		r.L = byte(value)
	case instructions.AF:
		r.SetAF(value)
	case instructions.BC:
		r.SetBC(value)
	case instructions.DE:
		r.SetDE(value)
	case instructions.HL:
		r.SetHL(value)
	case instructions.SP:
		r.SP = value
	case instructions.PC:
		r.PC = value
	case instructions.FlagZ, instructions.FlagN, instructions.FlagH, instructions.FlagCY:
		r.SetFlag(flagMask(name), value != 0)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOperand, name.String())
	}
	return nil
}

func (r Registers) String() string {
	return fmt.Sprintf("A: %02X F: %02X B: %02X C: %02X D: %02X E: %02X H: %02X L: %02X SP: %04X PC: %04X",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC)
}
