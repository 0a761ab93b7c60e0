package cart

// mbc1 supports ROM banking up to 2 MiB and RAM up to 32 KiB.
type mbc1 struct {
	b *banks

	romLow5    byte // lower 5 bits of the ROM bank (0 reads as 1)
	high2      byte // RAM bank in mode 1, ROM bank bits 5-6 in either mode
	ramEnabled bool
	mode       byte // 0: ROM banking, 1: RAM banking
}

func newMBC1(b *banks) *mbc1 {
	return &mbc1{b: b, romLow5: 1}
}

func (m *mbc1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		bank := 0
		if m.mode == 1 {
			bank = int(m.high2) << 5
		}
		return m.b.readROM(bank, int(addr))
	case addr < 0x8000:
		return m.b.readROM(m.ROMBank(), int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.b.readRAM(m.RAMBank(), int(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		m.romLow5 = value & 0x1F
		if m.romLow5 == 0 {
			m.romLow5 = 1
		}
	case addr < 0x6000:
		m.high2 = value & 0x03
	case addr < 0x8000:
		m.mode = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled {
			m.b.writeRAM(m.RAMBank(), int(addr-0xA000), value)
		}
	}
}

func (m *mbc1) ROMBank() int { return int(m.romLow5) | int(m.high2)<<5 }

func (m *mbc1) RAMBank() int {
	if m.mode == 1 {
		return int(m.high2)
	}
	return 0
}
