package cart

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"
)

const (
	ROMBankSize = 0x4000
	RAMBankSize = 0x2000
)

// controller is the banking logic behind the cartridge address windows.
// Addresses are CPU addresses.
type controller interface {
	// Read covers ROM (0x0000–0x7FFF) and external RAM (0xA000–0xBFFF).
	Read(addr uint16) byte
	// Write handles register writes (0x0000–0x7FFF) and external RAM writes.
	Write(addr uint16, value byte)
	ROMBank() int
	RAMBank() int
}

// banks holds the cartridge memory as fixed-size bank views. Bank numbers
// wrap modulo the physical count, like the unconnected high address lines on
// real boards.
type banks struct {
	rom []*memory.Bank
	ram []*memory.Bank
}

func (b *banks) readROM(bank, off int) byte {
	if len(b.rom) == 0 {
		return 0xFF
	}
	return b.rom[bank%len(b.rom)].ReadByte(off)
}

func (b *banks) readRAM(bank, off int) byte {
	if len(b.ram) == 0 {
		return 0xFF
	}
	return b.ram[bank%len(b.ram)].ReadByte(off)
}

func (b *banks) writeRAM(bank, off int, v byte) {
	if len(b.ram) == 0 {
		return
	}
	b.ram[bank%len(b.ram)].Write(off, v)
}

// Cartridge owns a ROM image and its external RAM. Header views are derived
// from the raw buffer on every call.
type Cartridge struct {
	rom  []byte
	size int
	banks
	ctrl controller
}

// New builds a cartridge from a ROM image. The image is copied. A bad header
// checksum does not stop loading; see PassesHeaderChecksum.
func New(data []byte) (*Cartridge, error) {
	if len(data) <= headerEnd {
		return nil, fmt.Errorf("load cartridge: %w (%d bytes)", ErrHeaderTooShort, len(data))
	}
	n := (len(data) + ROMBankSize - 1) / ROMBankSize
	if n < 2 {
		n = 2
	}
	rom := make([]byte, n*ROMBankSize)
	copy(rom, data)
	for i := len(data); i < len(rom); i++ {
		rom[i] = 0xFF
	}

	c := &Cartridge{rom: rom, size: len(data)}
	for i := 0; i < n; i++ {
		c.banks.rom = append(c.banks.rom, memory.BankOf(fmt.Sprintf("ROM%d", i), rom[i*ROMBankSize:(i+1)*ROMBankSize:(i+1)*ROMBankSize]))
	}

	t := cartTypes[c.TypeCode()]
	ramSize, ramBanks := decodeRAMSize(rom[ramSizeAddr])
	switch {
	case t.mapper == mapperMBC2:
		c.banks.ram = []*memory.Bank{memory.NewBank("SRAM0", 512)}
	case ramBanks > 0:
		per := ramSize / ramBanks
		for i := 0; i < ramBanks; i++ {
			c.banks.ram = append(c.banks.ram, memory.NewBank(fmt.Sprintf("SRAM%d", i), per))
		}
	}

	c.ctrl = c.newController()
	return c, nil
}

func (c *Cartridge) newController() controller {
	switch cartTypes[c.TypeCode()].mapper {
	case mapperMBC1:
		return newMBC1(&c.banks)
	case mapperMBC2:
		return newMBC2(&c.banks)
	case mapperMBC3:
		return newMBC3(&c.banks)
	case mapperMBC5:
		return newMBC5(&c.banks)
	}
	// unsupported mappers run as ROM-only so homebrew and tests still boot
	return newROMOnly(&c.banks)
}

// Reset puts the controller back to power-on banking with RAM disabled.
// RAM contents survive.
func (c *Cartridge) Reset() { c.ctrl = c.newController() }

// Read returns a byte from the ROM or external RAM window.
func (c *Cartridge) Read(addr uint16) byte { return c.ctrl.Read(addr) }

// Write forwards a bank register or external RAM write.
func (c *Cartridge) Write(addr uint16, value byte) { c.ctrl.Write(addr, value) }

// ROMBank is the bank currently mapped at 0x4000–0x7FFF.
func (c *Cartridge) ROMBank() int { return c.ctrl.ROMBank() % len(c.banks.rom) }

// RAMBank is the bank currently mapped at 0xA000–0xBFFF.
func (c *Cartridge) RAMBank() int { return c.ctrl.RAMBank() }

// ROMBankData returns a copy of ROM bank i.
func (c *Cartridge) ROMBankData(i int) []byte {
	return c.banks.rom[i%len(c.banks.rom)].Bytes()
}

// RAMBankData returns a copy of the mapped external RAM bank, or nil.
func (c *Cartridge) RAMBankData() []byte {
	if len(c.banks.ram) == 0 {
		return nil
	}
	return c.banks.ram[c.RAMBank()%len(c.banks.ram)].Bytes()
}

// Title is the header title, title-cased ("TESTROM" reads "Testrom").
func (c *Cartridge) Title() string {
	return cases.Title(language.Und).String(strings.ToLower(rawTitle(c.rom)))
}

func (c *Cartridge) CGB() bool      { return c.rom[cgbFlagAddr]&0x80 != 0 }
func (c *Cartridge) SGB() bool      { return c.rom[sgbFlagAddr] == 0x03 }
func (c *Cartridge) TypeCode() byte { return c.rom[typeAddr] }

// CartridgeType names the mapper and its extras, e.g. "MBC1+RAM+BATTERY".
func (c *Cartridge) CartridgeType() string { return cartTypeString(c.TypeCode()) }

func (c *Cartridge) HasBattery() bool { return cartTypes[c.TypeCode()].feats&featBattery != 0 }
func (c *Cartridge) HasRTC() bool     { return c.HasTimer() }
func (c *Cartridge) HasTimer() bool   { return cartTypes[c.TypeCode()].feats&featTimer != 0 }
func (c *Cartridge) HasRumble() bool  { return cartTypes[c.TypeCode()].feats&featRumble != 0 }
func (c *Cartridge) HasCamera() bool  { return cartTypes[c.TypeCode()].feats&featCamera != 0 }

func (c *Cartridge) OldLicensee() string {
	code := c.rom[oldLicAddr]
	if name, ok := oldLicensees[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%02X)", code)
}

func (c *Cartridge) NewLicensee() string {
	raw := string(c.rom[newLicAddr : newLicAddr+2])
	if code, ok := newLicenseeCode(raw); ok {
		if name, ok := newLicensees[code]; ok {
			return name
		}
	}
	return fmt.Sprintf("unknown (%q)", raw)
}

// Licensee resolves the publisher through the old code, or the new code when
// the old one defers to it.
func (c *Cartridge) Licensee() string {
	if c.rom[oldLicAddr] == usesNewLicense {
		return c.NewLicensee()
	}
	return c.OldLicensee()
}

func (c *Cartridge) ROMSize() int {
	size, _ := decodeROMSize(c.rom[romSizeAddr])
	return size
}

func (c *Cartridge) RAMSize() int {
	size, _ := decodeRAMSize(c.rom[ramSizeAddr])
	return size
}

func (c *Cartridge) NumROMBanks() int {
	_, n := decodeROMSize(c.rom[romSizeAddr])
	return n
}

func (c *Cartridge) NumRAMBanks() int {
	_, n := decodeRAMSize(c.rom[ramSizeAddr])
	return n
}

func (c *Cartridge) Destination() string {
	if d, ok := destinations[c.rom[destAddr]]; ok {
		return d
	}
	return fmt.Sprintf("unknown (%02X)", c.rom[destAddr])
}

func (c *Cartridge) Version() byte        { return c.rom[versionAddr] }
func (c *Cartridge) HeaderChecksum() byte { return c.rom[checksumAddr] }

// PassesHeaderChecksum recomputes the header checksum and compares it with
// the stored byte.
func (c *Cartridge) PassesHeaderChecksum() bool { return HeaderChecksumOK(c.rom) }

// Header returns a decoded copy of the header.
func (c *Cartridge) Header() *Header {
	h, _ := ParseHeader(c.rom)
	return h
}

// Fingerprint is an xxhash64 of the loaded image.
func (c *Cartridge) Fingerprint() uint64 { return xxhash.Sum64(c.rom[:c.size]) }

// SaveRAM returns a copy of external RAM, or nil when the board has none.
func (c *Cartridge) SaveRAM() []byte {
	if len(c.banks.ram) == 0 {
		return nil
	}
	var out []byte
	for _, b := range c.banks.ram {
		out = append(out, b.Bytes()...)
	}
	return out
}

// LoadRAM restores external RAM from a SaveRAM image.
func (c *Cartridge) LoadRAM(data []byte) {
	for _, b := range c.banks.ram {
		if len(data) == 0 {
			return
		}
		n := b.Len()
		if n > len(data) {
			n = len(data)
		}
		b.Load(data[:n])
		data = data[n:]
	}
}

// HexView formats ROM bytes [start, end) as rows of 16 for inspection panels.
func (c *Cartridge) HexView(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.rom) {
		end = len(c.rom)
	}
	var sb strings.Builder
	for row := start &^ 0x0F; row < end; row += 16 {
		fmt.Fprintf(&sb, "%04X:", row)
		for i := row; i < row+16 && i < end; i++ {
			if i < start {
				sb.WriteString("   ")
				continue
			}
			fmt.Fprintf(&sb, " %02X", c.rom[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (c *Cartridge) String() string {
	sum := "ok"
	if !c.PassesHeaderChecksum() {
		sum = "BAD"
	}
	return fmt.Sprintf("%q v%d %s, %d KiB ROM (%d banks), %d KiB RAM, licensee %s, checksum %s, xxh64 %016x",
		c.Title(), c.Version(), c.CartridgeType(), c.ROMSize()/1024, c.NumROMBanks(), c.RAMSize()/1024,
		c.Licensee(), sum, c.Fingerprint())
}
