// Package timer models the DIV/TIMA/TMA/TAC register set.
package timer

// InterruptRequester raises an interrupt by IF bit number.
type InterruptRequester func(bit int)

// InterruptBit is the IF bit the timer raises on TIMA overflow.
const InterruptBit = 2

// Register addresses.
const (
	AddrDIV  = 0xFF04
	AddrTIMA = 0xFF05
	AddrTMA  = 0xFF06
	AddrTAC  = 0xFF07
)

// cyclesPerTick is the width of one Div step in CPU cycles.
const cyclesPerTick = 4

// periods gives the Div ticks per TIMA increment for TAC&3.
var periods = [4]int{64, 1, 4, 16}

// Timer is a resumable stepper fed with the cycles of each instruction.
type Timer struct {
	Div  uint16 // free-running, one step per 4 cycles
	TIMA byte
	TMA  byte
	TAC  byte

	cycles int // leftover cycles below one Div tick
	ticks  int // Div ticks since the last TIMA increment
}

func New() *Timer { return &Timer{} }

// Reset clears the counters and registers.
func (t *Timer) Reset() { *t = Timer{} }

// Enabled reports TAC bit 2.
func (t *Timer) Enabled() bool { return t.TAC&0x04 != 0 }

// Step advances the timer by cycles. TIMA overflow reloads TMA and requests
// the timer interrupt through req.
func (t *Timer) Step(cycles int, req InterruptRequester) {
	t.cycles += cycles
	for t.cycles >= cyclesPerTick {
		t.cycles -= cyclesPerTick
		t.Div++
		if !t.Enabled() {
			continue
		}
		t.ticks++
		if t.ticks < periods[t.TAC&0x03] {
			continue
		}
		t.ticks = 0
		t.TIMA++
		if t.TIMA == 0 {
			t.TIMA = t.TMA
			if req != nil {
				req(InterruptBit)
			}
		}
	}
}

// Read returns a timer register. DIV exposes the upper bits of the counter.
func (t *Timer) Read(addr uint16) byte {
	switch addr {
	case AddrDIV:
		return byte(t.Div >> 6)
	case AddrTIMA:
		return t.TIMA
	case AddrTMA:
		return t.TMA
	case AddrTAC:
		return t.TAC | 0xF8
	}
	return 0xFF
}

// Write stores a timer register. Any DIV write resets the divider.
func (t *Timer) Write(addr uint16, value byte) {
	switch addr {
	case AddrDIV:
		t.Div = 0
		t.ticks = 0
		t.cycles = 0
	case AddrTIMA:
		t.TIMA = value
	case AddrTMA:
		t.TMA = value
	case AddrTAC:
		t.TAC = value & 0x07
	}
}
