package cart

// mbc5 supports up to 8 MiB of ROM and 128 KiB of RAM. Bank 0 is selectable
// in the switchable window.
type mbc5 struct {
	b *banks

	romBank    uint16 // 9 bits
	ramBank    byte   // 0..15
	ramEnabled bool
}

func newMBC5(b *banks) *mbc5 { return &mbc5{b: b, romBank: 1} }

func (m *mbc5) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.b.readROM(0, int(addr))
	case addr < 0x8000:
		return m.b.readROM(int(m.romBank), int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.b.readRAM(int(m.ramBank), int(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc5) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case addr < 0x4000:
		m.romBank = m.romBank&0x0FF | uint16(value&0x01)<<8
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled {
			m.b.writeRAM(int(m.ramBank), int(addr-0xA000), value)
		}
	}
}

func (m *mbc5) ROMBank() int { return int(m.romBank) }
func (m *mbc5) RAMBank() int { return int(m.ramBank) }
