package instructions

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrMalformedTable is returned when an opcode resource cannot be decoded.
var ErrMalformedTable = errors.New("malformed instruction table")

//go:embed opcodes.yaml
var opcodesYAML []byte

// Table holds the base and CB-prefixed decode tables. It is read-only after
// Load and may be shared between CPUs.
type Table struct {
	Base [256]Instruction
	CB   [256]Instruction
}

// Lookup returns the entry for op.
func (t *Table) Lookup(op byte, prefixed bool) Instruction {
	if prefixed {
		return t.CB[op]
	}
	return t.Base[op]
}

type entry struct {
	Mnemonic string `yaml:"mnemonic"`
	Length   int    `yaml:"length"`
	Cycles   []int  `yaml:"cycles"`
	Flags    string `yaml:"flags"`
	Group    string `yaml:"group"`
	Operand1 string `yaml:"operand1"`
	Operand2 string `yaml:"operand2"`
}

type document struct {
	Unprefixed map[string]entry `yaml:"unprefixed"`
	CBPrefixed map[string]entry `yaml:"cbprefixed"`
}

// Load decodes a YAML opcode resource.
func Load(r io.Reader) (*Table, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	t := &Table{}
	if err := fill(&t.Base, doc.Unprefixed, false); err != nil {
		return nil, fmt.Errorf("%w: unprefixed: %v", ErrMalformedTable, err)
	}
	if err := fill(&t.CB, doc.CBPrefixed, true); err != nil {
		return nil, fmt.Errorf("%w: cbprefixed: %v", ErrMalformedTable, err)
	}
	return t, nil
}

func fill(dst *[256]Instruction, src map[string]entry, prefixed bool) error {
	if len(src) != 256 {
		return fmt.Errorf("have %d entries, want 256", len(src))
	}
	seen := [256]bool{}
	for key, e := range src {
		n, err := strconv.ParseUint(key, 0, 8)
		if err != nil {
			return fmt.Errorf("bad opcode key %q", key)
		}
		op := byte(n)
		if seen[op] {
			return fmt.Errorf("duplicate opcode %02X", op)
		}
		seen[op] = true
		in, err := e.instruction(op, prefixed)
		if err != nil {
			return fmt.Errorf("opcode %02X: %v", op, err)
		}
		dst[op] = in
	}
	return nil
}

func (e entry) instruction(op byte, prefixed bool) (Instruction, error) {
	m := ParseMnemonic(e.Mnemonic)
	if e.Mnemonic == "" {
		return Instruction{}, errors.New("missing mnemonic")
	}
	if e.Length < 1 || e.Length > 3 {
		return Instruction{}, fmt.Errorf("bad length %d", e.Length)
	}
	if len(e.Cycles) == 0 || len(e.Cycles) > 2 {
		return Instruction{}, fmt.Errorf("bad cycles %v", e.Cycles)
	}
	flags := FlagEffects(e.Flags)
	if !flags.valid() {
		return Instruction{}, fmt.Errorf("bad flags %q", e.Flags)
	}
	op1, err := ParseOperand(e.Operand1, m)
	if err != nil {
		return Instruction{}, err
	}
	op2, err := ParseOperand(e.Operand2, m)
	if err != nil {
		return Instruction{}, err
	}
	in := Instruction{
		OpCode:         op,
		Prefixed:       prefixed,
		Mnemonic:       m,
		Length:         e.Length,
		Cycles:         e.Cycles[0],
		CyclesNotTaken: e.Cycles[0],
		Flags:          flags,
		Group:          e.Group,
		Operand1:       op1,
		Operand2:       op2,
	}
	if len(e.Cycles) == 2 {
		in.CyclesNotTaken = e.Cycles[1]
	}
	return in, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table decoded from the embedded resource. It panics if
// the resource is malformed, since nothing can execute without it.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(bytes.NewReader(opcodesYAML))
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
