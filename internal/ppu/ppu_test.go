package ppu

import "testing"

type irqLog []int

func (l *irqLog) req(bit int) { *l = append(*l, bit) }

func (l irqLog) count(bit int) int {
	n := 0
	for _, b := range l {
		if b == bit {
			n++
		}
	}
	return n
}

func TestPPU_LCDOffDoesNotAdvance(t *testing.T) {
	p := New()
	var got irqLog
	for i := 0; i < 200; i++ {
		p.Step(got.req)
	}
	if p.LY != 0 || len(got) != 0 {
		t.Fatalf("LCD off: LY=%d irqs=%v", p.LY, got)
	}
}

func TestPPU_VBlankAt144AndWrap(t *testing.T) {
	p := New()
	p.Write(AddrLCDC, 0x80)
	var got irqLog
	for i := 0; i < 143; i++ {
		p.Step(got.req)
	}
	if got.count(VBlankBit) != 0 {
		t.Fatalf("V-Blank requested before line 144")
	}
	p.Step(got.req)
	if p.LY != 144 || got.count(VBlankBit) != 1 {
		t.Fatalf("LY=%d vblank=%d want 144/1", p.LY, got.count(VBlankBit))
	}
	if p.Mode() != 1 {
		t.Fatalf("mode at LY=144 got %d want 1", p.Mode())
	}
	for i := 0; i < 10; i++ {
		p.Step(got.req)
	}
	if p.LY != 0 {
		t.Fatalf("LY after 154 steps got %d want 0", p.LY)
	}
	if p.Mode() != 0 {
		t.Fatalf("mode after wrap got %d want 0", p.Mode())
	}
	if got.count(VBlankBit) != 1 {
		t.Fatalf("V-Blank requested %d times in one frame", got.count(VBlankBit))
	}
}

func TestPPU_LYCCoincidence(t *testing.T) {
	p := New()
	p.Write(AddrSTAT, statLYCIRQ)
	p.Write(AddrLYC, 2)
	p.Write(AddrLCDC, 0x80)
	var got irqLog
	p.Step(got.req)
	if got.count(STATBit) != 0 || p.Read(AddrSTAT)&statCoincidence != 0 {
		t.Fatalf("coincidence at LY=1")
	}
	p.Step(got.req)
	if got.count(STATBit) != 1 {
		t.Fatalf("STAT requests at LY=2 got %d want 1", got.count(STATBit))
	}
	if p.Read(AddrSTAT)&statCoincidence == 0 {
		t.Fatalf("coincidence flag not set at LY=LYC")
	}
}

func TestPPU_RegisterAccess(t *testing.T) {
	p := New()
	p.Write(AddrSTAT, 0xFF)
	if got := p.Read(AddrSTAT); got != 0xF8 {
		t.Fatalf("STAT read got %02x want f8 (low bits read-only)", got)
	}
	p.LY = 77
	p.Write(AddrLY, 0x12)
	if p.LY != 0 {
		t.Fatalf("LY write did not reset: %d", p.LY)
	}
	p.Write(0x8000, 0x3C)
	p.Write(0xFE9F, 0x44)
	if p.Read(0x8000) != 0x3C || p.VRAM()[0] != 0x3C {
		t.Fatalf("VRAM write lost")
	}
	if p.Read(0xFE9F) != 0x44 || p.OAM()[OAMSize-1] != 0x44 {
		t.Fatalf("OAM write lost")
	}
	if p.Read(0xFF4C) != 0xFF {
		t.Fatalf("unmapped register read not FF")
	}
}
