package cpu_test

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
)

// run builds a ROM-only cartridge with code at 0x0100 and steps the CPU n
// times, returning the bus and the cycles of the last step.
func run(t *testing.T, code []byte, n int) (*bus.Bus, int) {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], code)
	c, err := cart.New(rom)
	if err != nil {
		t.Fatalf("cart.New: %v", err)
	}
	b := bus.New(c)
	last := 0
	for i := 0; i < n; i++ {
		last = b.CPU().Step(b)
	}
	return b, last
}

func TestCPU_LoadImmediate(t *testing.T) {
	b, cycles := run(t, []byte{0x06, 0x42}, 1) // LD B,d8
	r := b.Registers()
	if r.B != 0x42 {
		t.Fatalf("B got %02x want 42", r.B)
	}
	if r.PC != 0x0102 {
		t.Fatalf("PC got %04x want 0102", r.PC)
	}
	if cycles != 8 {
		t.Fatalf("cycles got %d want 8", cycles)
	}
}

func TestCPU_IncWrapSetsZero(t *testing.T) {
	// LD A,FF ; INC A
	b, _ := run(t, []byte{0x3E, 0xFF, 0x3C}, 2)
	r := b.Registers()
	if r.A != 0 || !r.Flag(cpu.FlagZ) || !r.Flag(cpu.FlagH) || r.Flag(cpu.FlagN) {
		t.Fatalf("A=%02x F=%02x", r.A, r.F)
	}
	// INC leaves carry alone; post-boot F has C set.
	if !r.Flag(cpu.FlagC) {
		t.Fatalf("INC A cleared carry")
	}
}

func TestCPU_XorAClearsA(t *testing.T) {
	b, cycles := run(t, []byte{0xAF}, 1)
	r := b.Registers()
	if r.A != 0 || r.F != cpu.FlagZ {
		t.Fatalf("A=%02x F=%02x", r.A, r.F)
	}
	if cycles != 4 {
		t.Fatalf("cycles got %d want 4", cycles)
	}
}

func TestCPU_StoreAbsolute(t *testing.T) {
	// LD A,5A ; LD (C123),A
	b, _ := run(t, []byte{0x3E, 0x5A, 0xEA, 0x23, 0xC1}, 2)
	if got := b.ReadAddress(0xC123); got != 0x5A {
		t.Fatalf("(C123) got %02x want 5a", got)
	}
	if b.Registers().PC != 0x0105 {
		t.Fatalf("PC got %04x", b.Registers().PC)
	}
}

func TestCPU_StoreSP(t *testing.T) {
	// LD (C000),SP
	b, _ := run(t, []byte{0x08, 0x00, 0xC0}, 1)
	if lo, hi := b.ReadAddress(0xC000), b.ReadAddress(0xC001); lo != 0xFE || hi != 0xFF {
		t.Fatalf("stored SP %02x%02x want FFFE", hi, lo)
	}
}

func TestCPU_CallRet(t *testing.T) {
	code := make([]byte, 0x20)
	copy(code, []byte{0xCD, 0x10, 0x01}) // CALL 0110
	code[0x10] = 0xC9                    // RET
	b, cycles := run(t, code, 1)
	r := b.Registers()
	if r.PC != 0x0110 || r.SP != 0xFFFC {
		t.Fatalf("after CALL PC=%04x SP=%04x", r.PC, r.SP)
	}
	if cycles != 24 {
		t.Fatalf("CALL cycles got %d want 24", cycles)
	}
	cycles = b.CPU().Step(b)
	if r.PC != 0x0103 || r.SP != 0xFFFE {
		t.Fatalf("after RET PC=%04x SP=%04x", r.PC, r.SP)
	}
	if cycles != 16 {
		t.Fatalf("RET cycles got %d want 16", cycles)
	}
}

func TestCPU_ConditionalJumpCycles(t *testing.T) {
	// XOR A sets Z ; JR NZ,+5 not taken ; JR Z,+2 taken
	b, cycles := run(t, []byte{0xAF, 0x20, 0x05, 0x28, 0x02}, 2)
	if cycles != 8 {
		t.Fatalf("JR NZ not taken cycles %d want 8", cycles)
	}
	if b.Registers().PC != 0x0103 {
		t.Fatalf("PC got %04x want 0103", b.Registers().PC)
	}
	cycles = b.CPU().Step(b)
	if cycles != 12 {
		t.Fatalf("JR Z taken cycles %d want 12", cycles)
	}
	if b.Registers().PC != 0x0107 {
		t.Fatalf("PC got %04x want 0107", b.Registers().PC)
	}
}

func TestCPU_RelativeJumpBackwards(t *testing.T) {
	// NOP ; JR -3 lands on 0x0100
	b, _ := run(t, []byte{0x00, 0x18, 0xFD}, 2)
	if b.Registers().PC != 0x0100 {
		t.Fatalf("PC got %04x want 0100", b.Registers().PC)
	}
}

func TestCPU_DAAAfterAdd(t *testing.T) {
	// LD A,15 ; ADD A,27 ; DAA
	b, _ := run(t, []byte{0x3E, 0x15, 0xC6, 0x27, 0x27}, 3)
	if a := b.Registers().A; a != 0x42 {
		t.Fatalf("A got %02x want 42", a)
	}
}

func TestCPU_SubAndCompare(t *testing.T) {
	// LD A,10 ; CP 10 ; SUB 01
	b, _ := run(t, []byte{0x3E, 0x10, 0xFE, 0x10}, 2)
	r := b.Registers()
	if r.A != 0x10 || !r.Flag(cpu.FlagZ) || !r.Flag(cpu.FlagN) {
		t.Fatalf("CP: A=%02x F=%02x", r.A, r.F)
	}
	b, _ = run(t, []byte{0x3E, 0x10, 0xD6, 0x01}, 2)
	r = b.Registers()
	if r.A != 0x0F || !r.Flag(cpu.FlagH) || r.Flag(cpu.FlagC) {
		t.Fatalf("SUB: A=%02x F=%02x", r.A, r.F)
	}
}

func TestCPU_PrefixedBitOps(t *testing.T) {
	// LD H,80 ; BIT 7,H ; RES 7,H ; BIT 7,H ; SET 0,H
	code := []byte{0x26, 0x80, 0xCB, 0x7C, 0xCB, 0xBC, 0xCB, 0x7C, 0xCB, 0xC4}
	b, cycles := run(t, code, 2)
	r := b.Registers()
	if r.Flag(cpu.FlagZ) || !r.Flag(cpu.FlagH) {
		t.Fatalf("BIT 7 of 80 F=%02x", r.F)
	}
	if cycles != 8 {
		t.Fatalf("CB step cycles %d want 8", cycles)
	}
	b.CPU().Step(b)
	if r.H != 0x00 {
		t.Fatalf("RES 7,H got %02x", r.H)
	}
	b.CPU().Step(b)
	if !r.Flag(cpu.FlagZ) {
		t.Fatalf("BIT 7 of 00 did not set Z")
	}
	b.CPU().Step(b)
	if r.H != 0x01 {
		t.Fatalf("SET 0,H got %02x", r.H)
	}
	if r.PC != 0x010A {
		t.Fatalf("PC got %04x want 010a", r.PC)
	}
}

func TestCPU_PushPop(t *testing.T) {
	// LD BC,1234 ; PUSH BC ; POP DE
	b, _ := run(t, []byte{0x01, 0x34, 0x12, 0xC5, 0xD1}, 3)
	r := b.Registers()
	if r.DE() != 0x1234 || r.SP != 0xFFFE {
		t.Fatalf("DE=%04x SP=%04x", r.DE(), r.SP)
	}
}

func TestCPU_PopAFMasksLowNibble(t *testing.T) {
	// LD BC,12FF ; PUSH BC ; POP AF
	b, _ := run(t, []byte{0x01, 0xFF, 0x12, 0xC5, 0xF1}, 3)
	r := b.Registers()
	if r.A != 0x12 || r.F != 0xF0 {
		t.Fatalf("A=%02x F=%02x want 12 f0", r.A, r.F)
	}
}

func TestCPU_EIDelaysOneInstruction(t *testing.T) {
	// EI ; NOP ; NOP
	b, _ := run(t, []byte{0xFB, 0x00, 0x00}, 1)
	c := b.CPU()
	if c.IME() {
		t.Fatalf("IME set immediately after EI")
	}
	c.Step(b)
	if !c.IME() {
		t.Fatalf("IME not set after the following instruction")
	}
}

func TestCPU_DICancelsPendingEI(t *testing.T) {
	// EI ; DI ; NOP
	b, _ := run(t, []byte{0xFB, 0xF3, 0x00}, 3)
	if b.CPU().IME() {
		t.Fatalf("IME set after EI;DI")
	}
}

func TestCPU_HaltIdles(t *testing.T) {
	b, _ := run(t, []byte{0x76, 0x3C}, 1)
	c := b.CPU()
	if c.State() != cpu.Halted {
		t.Fatalf("state %s want halted", c.State())
	}
	a := b.Registers().A
	if cycles := c.Step(b); cycles != 4 {
		t.Fatalf("halted step cycles %d want 4", cycles)
	}
	if b.Registers().A != a {
		t.Fatalf("halted CPU executed INC A")
	}
}

func TestCPU_LoadIncrementIndirect(t *testing.T) {
	// LD HL,C000 ; LD A,77 ; LD (HL+),A ; LD (HL-),A
	b, _ := run(t, []byte{0x21, 0x00, 0xC0, 0x3E, 0x77, 0x22, 0x32}, 4)
	if b.ReadAddress(0xC000) != 0x77 || b.ReadAddress(0xC001) != 0x77 {
		t.Fatalf("indirect stores missing")
	}
	if hl := b.Registers().HL(); hl != 0xC000 {
		t.Fatalf("HL got %04x want c000", hl)
	}
}

func TestCPU_HighPageLoad(t *testing.T) {
	// LD A,3C ; LDH (80),A ; XOR A ; LDH A,(80)
	b, _ := run(t, []byte{0x3E, 0x3C, 0xE0, 0x80, 0xAF, 0xF0, 0x80}, 4)
	if a := b.Registers().A; a != 0x3C {
		t.Fatalf("A got %02x want 3c", a)
	}
}

func TestCPU_RST(t *testing.T) {
	b, _ := run(t, []byte{0xEF}, 1) // RST 28H
	r := b.Registers()
	if r.PC != 0x0028 {
		t.Fatalf("PC got %04x want 0028", r.PC)
	}
	if ret := uint16(b.ReadAddress(r.SP)) | uint16(b.ReadAddress(r.SP+1))<<8; ret != 0x0101 {
		t.Fatalf("return address %04x want 0101", ret)
	}
}

func TestCPU_DecodeUsesCBTableAfterPrefix(t *testing.T) {
	c := cpu.New(nil)
	if got := c.Decode(0x7C).String(); got != "7C LD A,H" {
		t.Fatalf("base decode %q", got)
	}
	if got := c.Table().CB[0x7C].String(); got != "CB 7C BIT 7,H" {
		t.Fatalf("CB entry %q", got)
	}
}
