package cpu

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/log"
)

// Bus is the operand and memory surface the CPU executes against.
type Bus interface {
	Read(op instructions.Operand) uint16
	Write(op instructions.Operand, value uint16)
	// Write16 stores a 16-bit value little-endian at a memory operand.
	Write16(op instructions.Operand, value uint16)
	Push(value uint16)
	Pop() uint16
	ReadAddress(addr uint16) byte
	Registers() *Registers
}

// State is the run state of the CPU.
type State int

const (
	Running State = iota
	Halted
	Stopped
)

func (s State) String() string {
	switch s {
	case Halted:
		return "halted"
	case Stopped:
		return "stopped"
	}
	return "running"
}

// haltCycles is what a halted CPU reports per idle step.
const haltCycles = 4

// CPU is the SM83 fetch/decode/execute engine. Registers live on the bus; the
// CPU holds only control state and a shared decode table.
type CPU struct {
	table *instructions.Table

	halted    bool
	stopped   bool
	cbPending bool
	ime       bool
	// EI enables IME after the following instruction
	eiPending bool

	trace bool
	log   log.Logger
}

// New creates a CPU over a shared table. A nil table selects the embedded one.
func New(table *instructions.Table) *CPU {
	if table == nil {
		table = instructions.Default()
	}
	return &CPU{table: table, log: log.Null()}
}

// SetLogger routes diagnostics and the optional trace.
func (c *CPU) SetLogger(l log.Logger) {
	if l == nil {
		l = log.Null()
	}
	c.log = l
}

// SetTrace enables per-instruction Debugf output.
func (c *CPU) SetTrace(on bool) { c.trace = on }

func (c *CPU) Table() *instructions.Table { return c.table }

func (c *CPU) Halted() bool  { return c.halted }
func (c *CPU) Stopped() bool { return c.stopped }
func (c *CPU) IME() bool     { return c.ime }

// SetIME sets the interrupt master enable and cancels a pending EI.
func (c *CPU) SetIME(on bool) {
	c.ime = on
	c.eiPending = false
}

// Wake leaves HALT or STOP.
func (c *CPU) Wake() {
	c.halted = false
	c.stopped = false
}

func (c *CPU) State() State {
	switch {
	case c.stopped:
		return Stopped
	case c.halted:
		return Halted
	}
	return Running
}

// Reset clears control state. Registers are reset by their owner.
func (c *CPU) Reset() {
	c.halted = false
	c.stopped = false
	c.cbPending = false
	c.ime = false
	c.eiPending = false
}

// Fetch reads the byte at PC and advances PC.
func (c *CPU) Fetch(b Bus) byte {
	pc := uint16(b.Read(instructions.PC))
	op := b.ReadAddress(pc)
	b.Write(instructions.PC, uint16(pc+1))
	return op
}

// Decode looks op up in the CB table when a prefix is pending, else in the
// base table.
func (c *CPU) Decode(op byte) instructions.Instruction {
	if c.cbPending {
		c.cbPending = false
		return c.table.CB[op]
	}
	return c.table.Base[op]
}

// Step runs one instruction and returns the cycles it took. A CB prefix and
// its opcode form a single step.
func (c *CPU) Step(b Bus) int {
	if c.stopped {
		return 0
	}
	if c.halted {
		return haltCycles
	}
	enableIME := c.eiPending

	pc := b.Registers().PC
	in := c.Decode(c.Fetch(b))
	if in.Mnemonic == instructions.PREFIX {
		c.Execute(b, in)
		in = c.Decode(c.Fetch(b))
	}
	if c.trace {
		c.log.Debugf("%04X  %-18s %s", pc, in.String(), b.Registers().String())
	}
	cycles := c.Execute(b, in)

	if enableIME && c.eiPending {
		c.ime = true
		c.eiPending = false
	}
	return cycles
}
