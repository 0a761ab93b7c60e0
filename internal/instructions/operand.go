package instructions

import (
	"fmt"
	"strconv"
)

// Operand is a symbolic operand token resolved by the bus.
type Operand int

const (
	None Operand = iota

	// bit selectors "0".."15"
	Bit0
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
	Bit8
	Bit9
	Bit10
	Bit11
	Bit12
	Bit13
	Bit14
	Bit15

	// RST vectors "00H".."38H"
	RST00
	RST08
	RST10
	RST18
	RST20
	RST28
	RST30
	RST38

	D8
	D16
	A8
	A16
	R8

	A
	F
	B
	C
	D
	E
	H
	L
	AF
	BC
	DE
	HL
	SP
	PC

	IndBC
	IndDE
	IndHL
	IndC
	IndA8
	IndA16
	IndHLInc
	IndHLDec
	SPPlusR8

	CondZ
	CondNZ
	CondC
	CondNC

	// flag tokens for direct register access
	FlagZ
	FlagN
	FlagH
	FlagCY

	numOperands
)

var operandNames = [numOperands]string{
	None: "",
	Bit0: "0", Bit1: "1", Bit2: "2", Bit3: "3", Bit4: "4", Bit5: "5", Bit6: "6", Bit7: "7",
	Bit8: "8", Bit9: "9", Bit10: "10", Bit11: "11", Bit12: "12", Bit13: "13", Bit14: "14", Bit15: "15",
	RST00: "00H", RST08: "08H", RST10: "10H", RST18: "18H",
	RST20: "20H", RST28: "28H", RST30: "30H", RST38: "38H",
	D8: "d8", D16: "d16", A8: "a8", A16: "a16", R8: "r8",
	A: "A", F: "F", B: "B", C: "C", D: "D", E: "E", H: "H", L: "L",
	AF: "AF", BC: "BC", DE: "DE", HL: "HL", SP: "SP", PC: "PC",
	IndBC: "(BC)", IndDE: "(DE)", IndHL: "(HL)", IndC: "(C)",
	IndA8: "(a8)", IndA16: "(a16)", IndHLInc: "(HL+)", IndHLDec: "(HL-)",
	SPPlusR8: "SP+r8",
	CondZ: "Z", CondNZ: "NZ", CondC: "C", CondNC: "NC",
	FlagZ: "flag:Z", FlagN: "flag:N", FlagH: "flag:H", FlagCY: "flag:C",
}

var operandByName = func() map[string]Operand {
	m := make(map[string]Operand, numOperands)
	for i := Operand(1); i < numOperands; i++ {
		switch i {
		case CondC: // shares "C" with the register
			continue
		}
		m[operandNames[i]] = i
	}
	return m
}()

// ParseOperand resolves a token in the context of its mnemonic. An empty token
// is None. "C" is the carry condition for JP/JR/CALL/RET and register C
// everywhere else.
func ParseOperand(token string, m Mnemonic) (Operand, error) {
	if token == "" {
		return None, nil
	}
	if token == "C" && m.IsControlFlow() {
		return CondC, nil
	}
	if op, ok := operandByName[token]; ok {
		return op, nil
	}
	return None, fmt.Errorf("unknown operand %q", token)
}

func (o Operand) String() string {
	if o < 0 || o >= numOperands {
		return "Operand(" + strconv.Itoa(int(o)) + ")"
	}
	return operandNames[o]
}

// BitIndex returns the number of a bit selector.
func (o Operand) BitIndex() (int, bool) {
	if o >= Bit0 && o <= Bit15 {
		return int(o - Bit0), true
	}
	return 0, false
}

// RSTVector returns the restart address of an RST token.
func (o Operand) RSTVector() (uint16, bool) {
	if o >= RST00 && o <= RST38 {
		return uint16(o-RST00) * 8, true
	}
	return 0, false
}

func (o Operand) IsCondition() bool { return o >= CondZ && o <= CondNC }
func (o Operand) IsFlag() bool      { return o >= FlagZ && o <= FlagCY }
func (o Operand) IsImmediate() bool { return o >= D8 && o <= R8 }

// IsIndirect reports whether o addresses memory.
func (o Operand) IsIndirect() bool { return o >= IndBC && o <= IndHLDec }

// Is16 reports whether o names a 16-bit value.
func (o Operand) Is16() bool {
	switch o {
	case D16, A16, AF, BC, DE, HL, SP, PC, SPPlusR8:
		return true
	}
	return false
}
