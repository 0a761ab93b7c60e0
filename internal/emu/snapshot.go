package emu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
)

// RegisterSnapshot is a copy of the register file and CPU control state.
type RegisterSnapshot struct {
	cpu.Registers
	IME    bool
	State  cpu.State
	IF, IE byte
	Cycles uint64
}

func (s RegisterSnapshot) String() string {
	return fmt.Sprintf("%s IME: %t IF: %02X IE: %02X %s", s.Registers.String(), s.IME, s.IF, s.IE, s.State)
}

// Registers returns a snapshot of the current register state.
func (m *Machine) Registers() RegisterSnapshot {
	if m.bus == nil {
		return RegisterSnapshot{State: cpu.Stopped}
	}
	return RegisterSnapshot{
		Registers: *m.bus.Registers(),
		IME:       m.bus.CPU().IME(),
		State:     m.bus.CPU().State(),
		IF:        m.bus.IF(),
		IE:        m.bus.IE(),
		Cycles:    m.bus.Cycles(),
	}
}
