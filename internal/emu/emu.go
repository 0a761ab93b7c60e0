// Package emu owns one emulation session: the cartridge, the bus and the
// components behind it, plus the control and status surfaces hosts use.
package emu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instructions"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/log"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/romfile"
)

// ErrNoCartridge is returned when the session is driven before a ROM is loaded.
var ErrNoCartridge = errors.New("no cartridge loaded")

// FrameCycles is one LCD frame worth of machine cycles.
const FrameCycles = 70224

type Machine struct {
	cfg     Config
	log     log.Logger
	table   *instructions.Table
	bus     *bus.Bus
	romPath string
}

func New(cfg Config) *Machine {
	l := cfg.Logger
	if l == nil {
		l = log.Null()
	}
	return &Machine{cfg: cfg, log: l, table: instructions.Default()}
}

// LoadROM replaces the cartridge and rebuilds the session around it.
func (m *Machine) LoadROM(rom []byte) error {
	c, err := cart.New(rom)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	if !c.PassesHeaderChecksum() {
		m.log.Infof("emu: header checksum mismatch for %q", c.Title())
	}
	policy := bus.Lenient
	if m.cfg.Strict {
		policy = bus.Strict
	}
	m.bus = bus.New(c,
		bus.WithLogger(m.log),
		bus.WithPolicy(policy),
		bus.WithTable(m.table),
		bus.WithTrace(m.cfg.Trace),
	)
	m.boot()
	m.log.Infof("emu: loaded %s (%s, %d KiB ROM, fingerprint %016x)",
		c.Title(), c.CartridgeType(), c.ROMSize()/1024, c.Fingerprint())
	return nil
}

// LoadROMFile reads a ROM image (or an archive holding one) from disk.
func (m *Machine) LoadROMFile(path string) error {
	data, err := romfile.Load(path)
	if err != nil {
		return err
	}
	if err := m.LoadROM(data); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// ROMPath returns the file the current cartridge came from, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// boot either maps the boot image or applies the DMG post-boot IO state.
func (m *Machine) boot() {
	if len(m.cfg.BootROM) >= 0x100 {
		m.bus.SetBootROM(m.cfg.BootROM)
		m.bus.Registers().SP = 0xFFFE
		return
	}
	m.applyDMGPostBootIO()
}

// Reset restores power-on registers and IO while keeping the cartridge.
func (m *Machine) Reset() error {
	if m.bus == nil {
		return ErrNoCartridge
	}
	m.bus.Reset()
	m.boot()
	return nil
}

// applyDMGPostBootIO sets the IO registers the boot ROM leaves behind, so
// ROMs can start at 0x0100 with the LCD on.
func (m *Machine) applyDMGPostBootIO() {
	b := m.bus
	b.WriteAddress(0xFF00, 0xCF) // JOYP
	b.WriteAddress(0xFF05, 0x00) // TIMA
	b.WriteAddress(0xFF06, 0x00) // TMA
	b.WriteAddress(0xFF07, 0x00) // TAC
	b.WriteAddress(0xFF40, 0x91) // LCDC: LCD on, BG on, tiles 8000
	b.WriteAddress(0xFF42, 0x00) // SCY
	b.WriteAddress(0xFF43, 0x00) // SCX
	b.WriteAddress(0xFF45, 0x00) // LYC
	b.WriteAddress(0xFF47, 0xFC) // BGP
	b.WriteAddress(0xFF48, 0xFF) // OBP0
	b.WriteAddress(0xFF49, 0xFF) // OBP1
	b.WriteAddress(0xFF4A, 0x00) // WY
	b.WriteAddress(0xFF4B, 0x00) // WX
	b.WriteAddress(0xFFFF, 0x00) // IE
}

// RequestInterrupt raises an interrupt line as a peripheral would.
func (m *Machine) RequestInterrupt(kind bus.Interrupt) {
	if m.bus != nil {
		m.bus.RequestInterrupt(kind)
	}
}

// Step runs one scheduler step.
func (m *Machine) Step() (int, error) {
	if m.bus == nil {
		return 0, ErrNoCartridge
	}
	return m.bus.Step()
}

// RunFor runs until at least cycles machine cycles have elapsed.
func (m *Machine) RunFor(cycles int) (int, error) {
	if m.bus == nil {
		return 0, ErrNoCartridge
	}
	return m.bus.RunFor(cycles)
}

// StepFrame runs one LCD frame worth of cycles.
func (m *Machine) StepFrame() error {
	_, err := m.RunFor(FrameCycles)
	return err
}

// Run drives the session until ctx is done or a Strict fault stops it.
func (m *Machine) Run(ctx context.Context) error {
	if m.bus == nil {
		return ErrNoCartridge
	}
	return m.bus.Run(ctx)
}

// SetSerialWriter receives bytes the program sends over the serial port.
func (m *Machine) SetSerialWriter(w io.Writer) {
	if m.bus != nil {
		m.bus.SetSerialWriter(w)
	}
}

// SaveBattery returns external cartridge RAM for battery-backed boards. The
// file IO is left to the caller.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if m.bus == nil || !m.bus.Cartridge().HasBattery() {
		return nil, false
	}
	data := m.bus.Cartridge().SaveRAM()
	return data, len(data) > 0
}

// LoadBattery restores external RAM saved by SaveBattery.
func (m *Machine) LoadBattery(data []byte) bool {
	if m.bus == nil || !m.bus.Cartridge().HasBattery() {
		return false
	}
	m.bus.Cartridge().LoadRAM(data)
	return true
}

// Loaded reports whether a cartridge is in the session.
func (m *Machine) Loaded() bool { return m.bus != nil }

// Bus exposes the session's bus for hosts that need direct access.
func (m *Machine) Bus() *bus.Bus { return m.bus }

func (m *Machine) Cartridge() *cart.Cartridge {
	if m.bus == nil {
		return nil
	}
	return m.bus.Cartridge()
}

func (m *Machine) Cycles() uint64 {
	if m.bus == nil {
		return 0
	}
	return m.bus.Cycles()
}

func (m *Machine) State() cpu.State {
	if m.bus == nil {
		return cpu.Stopped
	}
	return m.bus.CPU().State()
}

// Memory returns a snapshot of one region of the address space.
func (m *Machine) Memory(region memory.Region) []byte {
	if m.bus == nil {
		return nil
	}
	return m.bus.Memory(region)
}

// Fault returns the fault latched under the Strict policy, if any.
func (m *Machine) Fault() error {
	if m.bus == nil {
		return nil
	}
	return m.bus.Fault()
}
