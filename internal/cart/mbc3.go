package cart

// mbc3 implements ROM/RAM banking without the real-time clock.
//   - 0000-1FFF: RAM enable (0x0A in low nibble)
//   - 2000-3FFF: ROM bank low 7 bits (0 maps to 1)
//   - 4000-5FFF: RAM bank 0-3, or RTC register 08-0C (reads 0xFF here)
//   - 6000-7FFF: clock latch, ignored
type mbc3 struct {
	b *banks

	ramEnabled bool
	romBank    byte
	ramBank    byte
}

func newMBC3(b *banks) *mbc3 { return &mbc3{b: b, romBank: 1} }

func (m *mbc3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.b.readROM(0, int(addr))
	case addr < 0x8000:
		return m.b.readROM(m.ROMBank(), int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || m.ramBank > 0x03 {
			return 0xFF
		}
		return m.b.readRAM(int(m.ramBank), int(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr < 0x6000:
		m.ramBank = value
	case addr < 0x8000:
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled && m.ramBank <= 0x03 {
			m.b.writeRAM(int(m.ramBank), int(addr-0xA000), value)
		}
	}
}

func (m *mbc3) ROMBank() int { return int(m.romBank) }
func (m *mbc3) RAMBank() int { return int(m.ramBank & 0x03) }
