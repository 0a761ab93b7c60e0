package render

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"

const (
	Width  = 160
	Height = 144
)

// LCDC bits the background view reads.
const (
	lcdcBGOn       = 0x01
	lcdcBGMap9C00  = 0x08
	lcdcTiles8000  = 0x10
	lcdcDisplayOn  = 0x80
	bgMap9800      = 0x9800
	bgMap9C00      = 0x9C00
	tileMapColumns = 32
)

// BGLine renders Width background color indices for line ly, scrolled by
// scx/scy and wrapping around the 32x32 tile map.
func BGLine(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [Width]byte {
	var out [Width]byte

	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31

	tileX := (uint16(scx) >> 3) & 31
	fineX := int(scx & 7)

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(tileData8000, mapBase+mapY*tileMapColumns+tileX, fineY)
	f.Fetch()
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}

	for x := 0; x < Width; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			f.Configure(tileData8000, mapBase+mapY*tileMapColumns+tileX, fineY)
			f.Fetch()
		}
		out[x], _ = q.Pop()
	}
	return out
}

// Shades are the four DMG greens, lightest first, as RGBA.
var Shades = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// Shade maps a color index through a BGP-style palette register.
func Shade(palette, ci byte) [4]byte {
	return Shades[(palette>>(2*(ci&3)))&3]
}

// Background fills pix (Width*Height RGBA) with the visible background
// described by regs. With the display off the screen is blank; with the
// background disabled it shows color 0.
func Background(pix []byte, mem VRAMReader, regs ppu.Registers) {
	if len(pix) < Width*Height*4 {
		return
	}
	if regs.LCDC&lcdcDisplayOn == 0 {
		fill(pix, Shades[0])
		return
	}
	if regs.LCDC&lcdcBGOn == 0 {
		fill(pix, Shade(regs.BGP, 0))
		return
	}
	mapBase := uint16(bgMap9800)
	if regs.LCDC&lcdcBGMap9C00 != 0 {
		mapBase = bgMap9C00
	}
	tiles8000 := regs.LCDC&lcdcTiles8000 != 0
	for y := 0; y < Height; y++ {
		line := BGLine(mem, mapBase, tiles8000, regs.SCX, regs.SCY, byte(y))
		row := pix[y*Width*4:]
		for x, ci := range line {
			shade := Shade(regs.BGP, ci)
			copy(row[x*4:x*4+4], shade[:])
		}
	}
}

func fill(pix []byte, c [4]byte) {
	for i := 0; i+4 <= len(pix); i += 4 {
		copy(pix[i:i+4], c[:])
	}
}
