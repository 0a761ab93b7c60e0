// Package bus ties the CPU, cartridge, PPU and timer together. It resolves
// symbolic operands, routes addresses through the memory map, dispatches
// interrupts and drives the per-instruction schedule.
package bus

import (
	"errors"
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/log"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/timer"
)

var (
	ErrInvalidOperand = errors.New("invalid operand")
	ErrInvalidAddress = errors.New("invalid address")
)

// Policy decides what an invalid operand or address does.
type Policy int

const (
	// Lenient logs the fault and returns a sentinel value.
	Lenient Policy = iota
	// Strict also latches the first fault; Step and Run then return it.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

const (
	wramSize = 0x2000
	hramSize = 0x7F
	bootSize = 0x100
)

// Bus owns every component of one emulation session.
type Bus struct {
	regs  *cpu.Registers
	cpu   *cpu.CPU
	cart  *cart.Cartridge
	ppu   *ppu.PPU
	timer *timer.Timer

	wram *memory.Bank
	hram *memory.Bank
	io   [0x80]byte
	ifr  byte // FF0F, low 5 bits
	ie   byte // FFFF

	boot       []byte
	bootActive bool
	serial     io.Writer

	table  *instructions.Table
	trace  bool
	policy Policy
	fault  error
	log    log.Logger
	cycles uint64
}

// Option configures a Bus.
type Option func(*Bus)

func WithLogger(l log.Logger) Option { return func(b *Bus) { b.log = l } }
func WithPolicy(p Policy) Option     { return func(b *Bus) { b.policy = p } }

// WithTable shares a decode table instead of the embedded default.
func WithTable(t *instructions.Table) Option {
	return func(b *Bus) { b.table = t }
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(on bool) Option {
	return func(b *Bus) { b.trace = on }
}

// New builds a bus around a cartridge. A nil cartridge reads as open bus.
func New(c *cart.Cartridge, opts ...Option) *Bus {
	b := &Bus{
		regs:  cpu.NewRegisters(),
		cart:  c,
		ppu:   ppu.New(),
		timer: timer.New(),
		wram:  memory.NewBank("WRAM", wramSize),
		hram:  memory.NewBank("HRAM", hramSize),
		log:   log.Null(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = log.Null()
	}
	b.cpu = cpu.New(b.table)
	b.cpu.SetLogger(b.log)
	b.cpu.SetTrace(b.trace)
	return b
}

func (b *Bus) Registers() *cpu.Registers  { return b.regs }
func (b *Bus) CPU() *cpu.CPU              { return b.cpu }
func (b *Bus) PPU() *ppu.PPU              { return b.ppu }
func (b *Bus) Timer() *timer.Timer        { return b.timer }
func (b *Bus) Cartridge() *cart.Cartridge { return b.cart }
func (b *Bus) Policy() Policy             { return b.policy }
func (b *Bus) Cycles() uint64             { return b.cycles }

// SetSerialWriter receives every byte sent over the serial port. Test ROMs
// report through it.
func (b *Bus) SetSerialWriter(w io.Writer) { b.serial = w }

// Fault returns the latched fault under the Strict policy.
func (b *Bus) Fault() error { return b.fault }

// ClearFault drops a latched fault so the loop can resume.
func (b *Bus) ClearFault() { b.fault = nil }

// SetBootROM maps a boot image over 0x0000–0x00FF until FF50 is written, and
// starts execution at 0x0000.
func (b *Bus) SetBootROM(boot []byte) {
	if len(boot) < bootSize {
		b.boot, b.bootActive = nil, false
		return
	}
	b.boot = append([]byte(nil), boot[:bootSize]...)
	b.bootActive = true
	b.regs.PC = 0x0000
}

// BootROMActive reports whether the boot overlay is mapped.
func (b *Bus) BootROMActive() bool { return b.bootActive }

// Reset returns every component to power-on state. The cartridge and boot
// image stay loaded; the cartridge's bank registers are reset too.
func (b *Bus) Reset() {
	if b.cart != nil {
		b.cart.Reset()
	}
	b.regs.Reset()
	b.cpu.Reset()
	b.timer.Reset()
	b.ppu.Reset()
	b.wram.Clear()
	b.hram.Clear()
	b.io = [0x80]byte{}
	b.ifr, b.ie = 0, 0
	b.fault = nil
	b.cycles = 0
	if b.boot != nil {
		b.bootActive = true
		b.regs.PC = 0x0000
	}
}

// faultf reports an invalid operand or address through the policy.
func (b *Bus) faultf(kind error, format string, args ...any) {
	err := fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
	b.log.Errorf("bus: %v (PC=%04X)", err, b.regs.PC)
	if b.policy == Strict && b.fault == nil {
		b.fault = err
	}
}

// Memory returns a snapshot of one region for inspection. Cartridge regions
// show the banks currently mapped.
func (b *Bus) Memory(region memory.Region) []byte {
	switch region {
	case memory.VRAM:
		return b.ppu.VRAM()
	case memory.OAM:
		return b.ppu.OAM()
	case memory.WRAM, memory.Echo:
		return b.wram.Bytes()
	case memory.HRAM:
		return b.hram.Bytes()
	case memory.IO:
		return b.ReadRange(0xFF00, 0x80)
	case memory.InterruptEnable:
		return []byte{b.ie}
	case memory.Unusable:
		return b.ReadRange(0xFEA0, 0x60)
	}
	if b.cart == nil {
		return nil
	}
	switch region {
	case memory.ROMBank0:
		return b.cart.ROMBankData(0)
	case memory.ROMBankN:
		return b.cart.ROMBankData(b.cart.ROMBank())
	case memory.ExternalRAM:
		return b.cart.RAMBankData()
	}
	return nil
}
