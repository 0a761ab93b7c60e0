package bus

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/timer"
)

// IO registers handled by the bus itself.
const (
	addrJOYP = 0xFF00
	addrSB   = 0xFF01
	addrSC   = 0xFF02
	addrIF   = 0xFF0F
	addrBOOT = 0xFF50
)

// ReadAddress routes a read through the memory map.
func (b *Bus) ReadAddress(addr uint16) byte {
	if b.bootActive && addr < bootSize {
		return b.boot[addr]
	}
	r, ok := memory.Lookup(addr)
	if !ok {
		b.faultf(ErrInvalidAddress, "read %04X", addr)
		return 0xFF
	}
	switch r.Region {
	case memory.ROMBank0, memory.ROMBankN, memory.ExternalRAM:
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(addr)
	case memory.VRAM, memory.OAM:
		return b.ppu.Read(addr)
	case memory.WRAM, memory.Echo:
		return b.wram.ReadByte(r.Offset(addr))
	case memory.Unusable:
		return 0xFF
	case memory.IO:
		return b.readIO(addr)
	case memory.HRAM:
		return b.hram.ReadByte(r.Offset(addr))
	case memory.InterruptEnable:
		return b.ie
	}
	b.faultf(ErrInvalidAddress, "read %04X in %s", addr, r.Region)
	return 0xFF
}

// WriteAddress routes a write through the memory map.
func (b *Bus) WriteAddress(addr uint16, value byte) {
	r, ok := memory.Lookup(addr)
	if !ok {
		b.faultf(ErrInvalidAddress, "write %04X", addr)
		return
	}
	switch r.Region {
	case memory.ROMBank0, memory.ROMBankN, memory.ExternalRAM:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}
	case memory.VRAM, memory.OAM:
		b.ppu.Write(addr, value)
	case memory.WRAM, memory.Echo:
		b.wram.Write(r.Offset(addr), value)
	case memory.Unusable:
	case memory.IO:
		b.writeIO(addr, value)
	case memory.HRAM:
		b.hram.Write(r.Offset(addr), value)
	case memory.InterruptEnable:
		b.ie = value
	default:
		b.faultf(ErrInvalidAddress, "write %04X in %s", addr, r.Region)
	}
}

// ReadRange returns length bytes starting at addr. Reads past 0xFFFF are
// faults and stop the range.
func (b *Bus) ReadRange(addr uint16, length int) []byte {
	out := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		a := int(addr) + i
		if a > 0xFFFF {
			b.faultf(ErrInvalidAddress, "range %04X+%d passes FFFF", addr, length)
			break
		}
		out = append(out, b.ReadAddress(uint16(a)))
	}
	return out
}

func (b *Bus) readIO(addr uint16) byte {
	switch {
	case addr >= timer.AddrDIV && addr <= timer.AddrTAC:
		return b.timer.Read(addr)
	case addr >= ppu.AddrLCDC && addr <= ppu.AddrWX:
		return b.ppu.Read(addr)
	}
	switch addr {
	case addrJOYP:
		// no buttons held: selection bits echo back, inputs read high
		return 0xC0 | b.io[0]&0x30 | 0x0F
	case addrIF:
		return 0xE0 | b.ifr
	case addrBOOT:
		if b.bootActive {
			return 0xFE
		}
		return 0xFF
	}
	return b.io[addr-ioBase]
}

func (b *Bus) writeIO(addr uint16, value byte) {
	switch {
	case addr >= timer.AddrDIV && addr <= timer.AddrTAC:
		b.timer.Write(addr, value)
		return
	case addr == ppu.AddrDMA:
		b.ppu.Write(addr, value)
		b.dma(value)
		return
	case addr >= ppu.AddrLCDC && addr <= ppu.AddrWX:
		b.ppu.Write(addr, value)
		return
	}
	switch addr {
	case addrSC:
		b.io[addr-ioBase] = value
		if value&0x81 == 0x81 {
			b.serialTransfer()
		}
	case addrIF:
		b.ifr = value & 0x1F
	case addrBOOT:
		if value != 0 {
			b.bootActive = false
		}
	default:
		b.io[addr-ioBase] = value
	}
}

// serialTransfer completes an internally clocked transfer at once: the byte
// in SB goes to the serial sink, SB reads back 0xFF and the Serial interrupt
// is raised.
func (b *Bus) serialTransfer() {
	out := b.io[addrSB-ioBase]
	if b.serial != nil {
		if _, err := b.serial.Write([]byte{out}); err != nil {
			b.log.Errorf("bus: serial sink: %v", err)
		}
	}
	b.io[addrSB-ioBase] = 0xFF
	b.io[addrSC-ioBase] &^= 0x80
	b.RequestInterrupt(Serial)
}

// dma copies 160 bytes from value<<8 into OAM at once.
func (b *Bus) dma(value byte) {
	src := uint16(value) << 8
	for i := uint16(0); i < ppu.OAMSize; i++ {
		b.ppu.Write(ppu.OAMStart+i, b.ReadAddress(src+i))
	}
}
