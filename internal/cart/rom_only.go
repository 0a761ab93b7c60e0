package cart

// romOnly maps two fixed banks. Boards with RAM (types 08/09) expose one
// always-enabled RAM bank.
type romOnly struct {
	b *banks
}

func newROMOnly(b *banks) *romOnly { return &romOnly{b: b} }

func (m *romOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.b.readROM(0, int(addr))
	case addr < 0x8000:
		return m.b.readROM(1, int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		return m.b.readRAM(0, int(addr-0xA000))
	}
	return 0xFF
}

func (m *romOnly) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF {
		m.b.writeRAM(0, int(addr-0xA000), value)
	}
}

func (m *romOnly) ROMBank() int { return 1 }
func (m *romOnly) RAMBank() int { return 0 }
