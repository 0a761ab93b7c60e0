package render

import "testing"

func TestFIFO(t *testing.T) {
	var q fifo
	if q.Len() != 0 {
		t.Fatal("new fifo not empty")
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop from empty should fail")
	}
	for i := 0; i < 32; i++ {
		if !q.Push(byte(i)) {
			t.Fatal("unexpected full")
		}
	}
	if q.Push(0) {
		t.Fatal("should be full")
	}
	for i := 0; i < 32; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatal("unexpected empty")
		}
		if v != byte(i)&3 {
			t.Fatalf("got %d want %d", v, byte(i)&3)
		}
	}
	q.Push(1)
	q.Clear()
	if q.Len() != 0 {
		t.Fatal("Clear left entries")
	}
}

type mockVRAM map[uint16]byte

func (m mockVRAM) Read(addr uint16) byte { return m[addr] }

func TestBGFetcherFetchesEightPixels(t *testing.T) {
	mem := mockVRAM{0x9800: 0, 0x8000: 0x55, 0x8001: 0x33}
	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(true, 0x9800, 0)
	f.Fetch()
	if q.Len() != 8 {
		t.Fatalf("expected 8 pixels in fifo, got %d", q.Len())
	}
	// lo=01010101 hi=00110011
	want := []byte{0, 1, 2, 3, 0, 1, 2, 3}
	for i, w := range want {
		if got, _ := q.Pop(); got != w {
			t.Fatalf("px %d got %d want %d", i, got, w)
		}
	}
}

func TestBGFetcherSignedTileAddressing8800(t *testing.T) {
	mem := mockVRAM{}
	mapBase := uint16(0x9C00)
	mem[mapBase] = 0xFF // tile -1 sits at 0x8FF0
	fineY := byte(5)
	rowAddr := uint16(0x8FF0) + uint16(fineY)*2
	lo, hi := byte(0xA5), byte(0x5A)
	mem[rowAddr] = lo
	mem[rowAddr+1] = hi

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(false, mapBase, fineY)
	f.Fetch()
	row := decodeRow(lo, hi)
	for i := 0; i < 8; i++ {
		if got, _ := q.Pop(); got != row[i] {
			t.Fatalf("px %d got %d want %d", i, got, row[i])
		}
	}
}

func TestSnapshotRead(t *testing.T) {
	s := Snapshot(make([]byte, 0x2000))
	s[0x1FFF] = 0x42
	if s.Read(0x9FFF) != 0x42 {
		t.Fatalf("last VRAM byte not mapped")
	}
	if s.Read(0x7FFF) != 0xFF || s.Read(0xA000) != 0xFF {
		t.Fatalf("out of range reads should be FF")
	}
}
