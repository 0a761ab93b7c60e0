// Package render turns VRAM snapshots into pixels for the debug window. It
// has no graphics dependency so it can be tested headless.
package render

// VRAMReader provides read-only access to tile data by bus address
// (0x8000-0x9FFF).
type VRAMReader interface {
	Read(addr uint16) byte
}

// Snapshot adapts a copy of VRAM to VRAMReader.
type Snapshot []byte

func (s Snapshot) Read(addr uint16) byte {
	i := int(addr) - 0x8000
	if i < 0 || i >= len(s) {
		return 0xFF
	}
	return s[i]
}

// fifo is a ring buffer of 2-bit color indices.
type fifo struct {
	buf  [32]byte
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }
func (q *fifo) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}
func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// bgFetcher pulls one tile row (8 pixels) into the FIFO.
type bgFetcher struct {
	mem           VRAMReader
	fifo          *fifo
	tileData8000  bool   // false: signed indices around 0x9000
	tileIndexAddr uint16 // map entry for the tile
	fineY         byte   // row within the tile
}

func newBGFetcher(mem VRAMReader, f *fifo) *bgFetcher { return &bgFetcher{mem: mem, fifo: f} }

func (fch *bgFetcher) Configure(tileData8000 bool, tileIndexAddr uint16, fineY byte) {
	fch.tileData8000 = tileData8000
	fch.tileIndexAddr = tileIndexAddr
	fch.fineY = fineY & 7
}

// tileRowAddr returns the address of the first byte of row fineY of a tile.
func tileRowAddr(tileNum byte, tileData8000 bool, fineY byte) uint16 {
	if tileData8000 {
		return 0x8000 + uint16(tileNum)*16 + uint16(fineY)*2
	}
	return uint16(0x9000 + int(int8(tileNum))*16 + int(fineY)*2)
}

// decodeRow expands a tile row's two bitplanes into color indices, leftmost
// pixel first.
func decodeRow(lo, hi byte) [8]byte {
	var out [8]byte
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		out[px] = ((hi>>bit)&1)<<1 | (lo>>bit)&1
	}
	return out
}

// Fetch pushes the 8 color indices of the configured tile row.
func (fch *bgFetcher) Fetch() {
	base := tileRowAddr(fch.mem.Read(fch.tileIndexAddr), fch.tileData8000, fch.fineY)
	for _, ci := range decodeRow(fch.mem.Read(base), fch.mem.Read(base+1)) {
		_ = fch.fifo.Push(ci)
	}
}
