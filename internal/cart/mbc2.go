package cart

// mbc2 has 16 ROM banks and 512 half-bytes of built-in RAM. Address bit 8
// selects between the RAM enable and ROM bank registers.
type mbc2 struct {
	b *banks

	romBank    byte
	ramEnabled bool
}

func newMBC2(b *banks) *mbc2 { return &mbc2{b: b, romBank: 1} }

func (m *mbc2) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.b.readROM(0, int(addr))
	case addr < 0x8000:
		return m.b.readROM(int(m.romBank), int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		// 512 bytes echoed through the window, upper nibble open
		return m.b.readRAM(0, int(addr&0x01FF)) | 0xF0
	}
	return 0xFF
}

func (m *mbc2) Write(addr uint16, value byte) {
	switch {
	case addr < 0x4000:
		if addr&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
			return
		}
		m.romBank = value & 0x0F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled {
			m.b.writeRAM(0, int(addr&0x01FF), value&0x0F)
		}
	}
}

func (m *mbc2) ROMBank() int { return int(m.romBank) }
func (m *mbc2) RAMBank() int { return 0 }
