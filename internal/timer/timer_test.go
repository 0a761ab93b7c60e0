package timer

import "testing"

type requests []int

func (r *requests) req(bit int) { *r = append(*r, bit) }

func TestTimer_OverflowOnceAtFastestRate(t *testing.T) {
	tm := New()
	tm.Write(AddrTMA, 0xAB)
	tm.Write(AddrTAC, 0x05) // enabled, fastest
	var got requests
	for i := 0; i < 256; i++ {
		tm.Step(4, got.req)
	}
	if len(got) != 1 || got[0] != InterruptBit {
		t.Fatalf("interrupt requests got %v want [2]", got)
	}
	if tm.TIMA != 0xAB {
		t.Fatalf("TIMA after overflow got %02x want ab", tm.TIMA)
	}
}

func TestTimer_Rates(t *testing.T) {
	cases := []struct {
		tac  byte
		want byte
	}{
		{0x05, 64}, {0x06, 16}, {0x07, 4}, {0x04, 1},
	}
	for _, c := range cases {
		tm := New()
		tm.Write(AddrTAC, c.tac)
		tm.Step(256, nil)
		if tm.TIMA != c.want {
			t.Fatalf("TAC=%02x: TIMA after 256 cycles got %d want %d", c.tac, tm.TIMA, c.want)
		}
	}
}

func TestTimer_DisabledDoesNotCount(t *testing.T) {
	tm := New()
	tm.Write(AddrTAC, 0x01)
	tm.Step(4096, nil)
	if tm.TIMA != 0 {
		t.Fatalf("TIMA counted while disabled: %02x", tm.TIMA)
	}
	if tm.Read(AddrDIV) != 16 {
		t.Fatalf("DIV got %02x want 10", tm.Read(AddrDIV))
	}
}

func TestTimer_DIVWriteResets(t *testing.T) {
	tm := New()
	tm.Step(1000, nil)
	if tm.Read(AddrDIV) == 0 {
		t.Fatalf("DIV did not advance")
	}
	tm.Write(AddrDIV, 0x55)
	if tm.Read(AddrDIV) != 0 || tm.Div != 0 {
		t.Fatalf("DIV write did not reset: %02x", tm.Read(AddrDIV))
	}
}

func TestTimer_TACUnusedBitsReadHigh(t *testing.T) {
	tm := New()
	tm.Write(AddrTAC, 0xFD)
	if got := tm.Read(AddrTAC); got != 0xFD {
		t.Fatalf("TAC read got %02x want fd", got)
	}
}

func TestTimer_PartialCyclesCarry(t *testing.T) {
	tm := New()
	tm.Write(AddrTAC, 0x05)
	tm.Step(3, nil)
	if tm.TIMA != 0 {
		t.Fatalf("TIMA advanced before a full tick")
	}
	tm.Step(1, nil)
	if tm.TIMA != 1 {
		t.Fatalf("TIMA got %d want 1", tm.TIMA)
	}
}
