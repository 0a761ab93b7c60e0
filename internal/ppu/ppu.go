package ppu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"

// InterruptRequester is a callback signature to request IF bits (0:VBlank, 1:STAT, etc.).
type InterruptRequester func(bit int)

// Interrupt bits raised by the PPU.
const (
	VBlankBit = 0
	STATBit   = 1
)

// Register addresses.
const (
	AddrLCDC = 0xFF40
	AddrSTAT = 0xFF41
	AddrSCY  = 0xFF42
	AddrSCX  = 0xFF43
	AddrLY   = 0xFF44
	AddrLYC  = 0xFF45
	AddrDMA  = 0xFF46
	AddrBGP  = 0xFF47
	AddrOBP0 = 0xFF48
	AddrOBP1 = 0xFF49
	AddrWY   = 0xFF4A
	AddrWX   = 0xFF4B
)

const (
	VRAMStart = 0x8000
	VRAMSize  = 0x2000
	OAMStart  = 0xFE00
	OAMSize   = 0xA0

	// Lines per frame and the first V-Blank line.
	Lines      = 154
	VBlankLine = 144
)

// STAT bits
const (
	statCoincidence = 1 << 2
	statHBlankIRQ   = 1 << 3
	statVBlankIRQ   = 1 << 4
	statOAMIRQ      = 1 << 5
	statLYCIRQ      = 1 << 6
)

// Registers is a snapshot of the LCD register set.
type Registers struct {
	LCDC, STAT, SCY, SCX, LY, LYC, DMA, BGP, OBP0, OBP1, WY, WX byte
}

// PPU owns VRAM and OAM and the LCD registers. Timing is one scanline per
// Step; pixel output is left to whoever reads VRAM.
type PPU struct {
	vram *memory.Bank
	oam  *memory.Bank

	LCDC byte
	STAT byte // mode bits 0-1, coincidence bit 2, enables bits 3-6
	SCY  byte
	SCX  byte
	LY   byte
	LYC  byte
	DMA  byte
	BGP  byte
	OBP0 byte
	OBP1 byte
	WY   byte
	WX   byte
}

func New() *PPU {
	return &PPU{
		vram: memory.NewBank("VRAM", VRAMSize),
		oam:  memory.NewBank("OAM", OAMSize),
	}
}

// Reset clears video memory and registers.
func (p *PPU) Reset() {
	p.vram.Clear()
	p.oam.Clear()
	p.LCDC, p.STAT, p.SCY, p.SCX, p.LY, p.LYC = 0, 0, 0, 0, 0, 0
	p.DMA, p.BGP, p.OBP0, p.OBP1, p.WY, p.WX = 0, 0, 0, 0, 0, 0
}

// LCDOn reports LCDC bit 7.
func (p *PPU) LCDOn() bool { return p.LCDC&0x80 != 0 }

// Mode returns STAT bits 0-1.
func (p *PPU) Mode() byte { return p.STAT & 0x03 }

// Read returns bytes for VRAM, OAM, and PPU IO registers. Returns 0xFF for others.
func (p *PPU) Read(addr uint16) byte {
	switch {
	case addr >= VRAMStart && addr < VRAMStart+VRAMSize:
		return p.vram.ReadByte(int(addr - VRAMStart))
	case addr >= OAMStart && addr < OAMStart+OAMSize:
		return p.oam.ReadByte(int(addr - OAMStart))
	}
	switch addr {
	case AddrLCDC:
		return p.LCDC
	case AddrSTAT:
		// bit 7 reads as 1 on DMG
		return 0x80 | p.STAT&0x7F
	case AddrSCY:
		return p.SCY
	case AddrSCX:
		return p.SCX
	case AddrLY:
		return p.LY
	case AddrLYC:
		return p.LYC
	case AddrDMA:
		return p.DMA
	case AddrBGP:
		return p.BGP
	case AddrOBP0:
		return p.OBP0
	case AddrOBP1:
		return p.OBP1
	case AddrWY:
		return p.WY
	case AddrWX:
		return p.WX
	}
	return 0xFF
}

// Write handles writes to VRAM, OAM, and PPU IO regs. Others are ignored here.
func (p *PPU) Write(addr uint16, value byte) {
	switch {
	case addr >= VRAMStart && addr < VRAMStart+VRAMSize:
		p.vram.Write(int(addr-VRAMStart), value)
		return
	case addr >= OAMStart && addr < OAMStart+OAMSize:
		p.oam.Write(int(addr-OAMStart), value)
		return
	}
	switch addr {
	case AddrLCDC:
		was := p.LCDOn()
		p.LCDC = value
		if was != p.LCDOn() {
			// switching the LCD either way restarts at line 0
			p.LY = 0
			p.setMode(0, nil)
			p.updateLYC(nil)
		}
	case AddrSTAT:
		p.STAT = p.STAT&0x07 | value&0x78
	case AddrSCY:
		p.SCY = value
	case AddrSCX:
		p.SCX = value
	case AddrLY:
		p.LY = 0
		p.updateLYC(nil)
	case AddrLYC:
		p.LYC = value
		p.updateLYC(nil)
	case AddrDMA:
		p.DMA = value
	case AddrBGP:
		p.BGP = value
	case AddrOBP0:
		p.OBP0 = value
	case AddrOBP1:
		p.OBP1 = value
	case AddrWY:
		p.WY = value
	case AddrWX:
		p.WX = value
	}
}

// Step advances one scanline while the LCD is on. Entering line 144 raises
// V-Blank; LY wraps after line 153.
func (p *PPU) Step(req InterruptRequester) {
	if !p.LCDOn() {
		return
	}
	p.LY++
	if p.LY >= Lines {
		p.LY = 0
	}
	switch {
	case p.LY == VBlankLine:
		p.setMode(1, req)
		request(req, VBlankBit)
	case p.LY < VBlankLine:
		p.setMode(0, req)
	}
	p.updateLYC(req)
}

func request(req InterruptRequester, bit int) {
	if req != nil {
		req(bit)
	}
}

func (p *PPU) setMode(mode byte, req InterruptRequester) {
	if p.STAT&0x03 == mode {
		return
	}
	p.STAT = p.STAT&^0x03 | mode&0x03
	switch mode {
	case 0:
		if p.STAT&statHBlankIRQ != 0 {
			request(req, STATBit)
		}
	case 1:
		if p.STAT&statVBlankIRQ != 0 {
			request(req, STATBit)
		}
	case 2:
		if p.STAT&statOAMIRQ != 0 {
			request(req, STATBit)
		}
	}
}

func (p *PPU) updateLYC(req InterruptRequester) {
	if p.LY != p.LYC {
		p.STAT &^= statCoincidence
		return
	}
	p.STAT |= statCoincidence
	if p.STAT&statLYCIRQ != 0 {
		request(req, STATBit)
	}
}

// VRAM returns a copy of video RAM.
func (p *PPU) VRAM() []byte { return p.vram.Bytes() }

// OAM returns a copy of sprite attribute memory.
func (p *PPU) OAM() []byte { return p.oam.Bytes() }

// Registers returns the current register values.
func (p *PPU) Registers() Registers {
	return Registers{
		LCDC: p.LCDC, STAT: p.Read(AddrSTAT), SCY: p.SCY, SCX: p.SCX, LY: p.LY, LYC: p.LYC,
		DMA: p.DMA, BGP: p.BGP, OBP0: p.OBP0, OBP1: p.OBP1, WY: p.WY, WX: p.WX,
	}
}
