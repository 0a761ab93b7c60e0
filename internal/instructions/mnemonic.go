package instructions

// Mnemonic selects the execute-time behaviour of an instruction.
type Mnemonic int

const (
	Unknown Mnemonic = iota
	NOP
	LD
	LDH
	LDI
	LDD
	PUSH
	POP
	ADD
	ADC
	SUB
	SBC
	AND
	OR
	XOR
	CP
	INC
	DEC
	BIT
	SET
	RES
	RLC
	RRC
	RL
	RR
	SLA
	SRA
	SRL
	SWAP
	RLCA
	RRCA
	RLA
	RRA
	DAA
	CPL
	CCF
	SCF
	JP
	JR
	CALL
	RET
	RETI
	RST
	DI
	EI
	HALT
	STOP
	PREFIX
	ILLEGAL
	numMnemonics
)

var mnemonicNames = [numMnemonics]string{
	Unknown: "???",
	NOP:     "NOP", LD: "LD", LDH: "LDH", LDI: "LDI", LDD: "LDD",
	PUSH: "PUSH", POP: "POP",
	ADD: "ADD", ADC: "ADC", SUB: "SUB", SBC: "SBC",
	AND: "AND", OR: "OR", XOR: "XOR", CP: "CP",
	INC: "INC", DEC: "DEC",
	BIT: "BIT", SET: "SET", RES: "RES",
	RLC: "RLC", RRC: "RRC", RL: "RL", RR: "RR",
	SLA: "SLA", SRA: "SRA", SRL: "SRL", SWAP: "SWAP",
	RLCA: "RLCA", RRCA: "RRCA", RLA: "RLA", RRA: "RRA",
	DAA: "DAA", CPL: "CPL", CCF: "CCF", SCF: "SCF",
	JP: "JP", JR: "JR", CALL: "CALL", RET: "RET", RETI: "RETI", RST: "RST",
	DI: "DI", EI: "EI", HALT: "HALT", STOP: "STOP",
	PREFIX: "PREFIX", ILLEGAL: "ILLEGAL",
}

var mnemonicByName = func() map[string]Mnemonic {
	m := make(map[string]Mnemonic, numMnemonics)
	for i := Mnemonic(1); i < numMnemonics; i++ {
		m[mnemonicNames[i]] = i
	}
	return m
}()

// ParseMnemonic maps a token to its Mnemonic. Unrecognised tokens give Unknown.
func ParseMnemonic(s string) Mnemonic {
	return mnemonicByName[s]
}

func (m Mnemonic) String() string {
	if m < 0 || m >= numMnemonics {
		return mnemonicNames[Unknown]
	}
	return mnemonicNames[m]
}

// IsControlFlow reports whether m takes a condition operand.
func (m Mnemonic) IsControlFlow() bool {
	switch m {
	case JP, JR, CALL, RET:
		return true
	}
	return false
}
