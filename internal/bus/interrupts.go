package bus

import "math/bits"

// Interrupt names an IF/IE bit.
type Interrupt int

const (
	VBlank Interrupt = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// interruptCycles is the cost of dispatching to a vector.
const interruptCycles = 20

// Vector returns the handler address.
func (i Interrupt) Vector() uint16 { return 0x40 + 8*uint16(i) }

func (i Interrupt) String() string {
	switch i {
	case VBlank:
		return "vblank"
	case LCDStat:
		return "lcd-stat"
	case Timer:
		return "timer"
	case Serial:
		return "serial"
	case Joypad:
		return "joypad"
	}
	return "unknown"
}

// RequestInterrupt latches kind in IF. It is serviced at the next
// instruction boundary.
func (b *Bus) RequestInterrupt(kind Interrupt) {
	if kind < VBlank || kind > Joypad {
		b.faultf(ErrInvalidOperand, "interrupt %d", int(kind))
		return
	}
	b.ifr |= 1 << uint(kind)
}

func (b *Bus) requestBit(bit int) { b.RequestInterrupt(Interrupt(bit)) }

// IF returns the pending interrupt flags.
func (b *Bus) IF() byte { return b.ifr }

// IE returns the interrupt enable mask.
func (b *Bus) IE() byte { return b.ie }

// HandleInterrupts services the lowest pending enabled interrupt when IME is
// set and returns the cycles spent. A pending interrupt also wakes a halted
// CPU with IME clear; STOP only ends on joypad.
func (b *Bus) HandleInterrupts() int {
	pending := b.ifr & b.ie & 0x1F
	if pending == 0 {
		return 0
	}
	c := b.cpu
	if c.Halted() || (c.Stopped() && pending&(1<<uint(Joypad)) != 0) {
		c.Wake()
	}
	if !c.IME() {
		return 0
	}
	kind := Interrupt(bits.TrailingZeros8(pending))
	b.ifr &^= 1 << uint(kind)
	c.SetIME(false)
	b.Push(b.regs.PC)
	b.regs.PC = kind.Vector()
	return interruptCycles
}
