package memory

// Bank is a named byte region (VRAM, WRAM, a ROM bank, ...). Offsets are
// relative to the start of the bank. Each bank owns its buffer.
type Bank struct {
	name string
	data []byte
}

// NewBank allocates a zeroed bank of the given size.
func NewBank(name string, size int) *Bank {
	return &Bank{name: name, data: make([]byte, size)}
}

// BankOf wraps data without copying; the caller hands over ownership.
func BankOf(name string, data []byte) *Bank {
	return &Bank{name: name, data: data}
}

func (b *Bank) Name() string { return b.name }
func (b *Bank) Len() int     { return len(b.data) }

// ReadByte returns the byte at offset, or 0xFF past the end of the bank.
func (b *Bank) ReadByte(offset int) byte {
	if offset < 0 || offset >= len(b.data) {
		return 0xFF
	}
	return b.data[offset]
}

// Read returns a copy of length bytes starting at offset. Bytes past the end
// of the bank read as 0xFF.
func (b *Bank) Read(offset, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = b.ReadByte(offset + i)
	}
	return out
}

// Write stores value at offset. Writes past the end are dropped.
func (b *Bank) Write(offset int, value byte) {
	if offset < 0 || offset >= len(b.data) {
		return
	}
	b.data[offset] = value
}

// Bytes returns a copy of the whole bank for inspection.
func (b *Bank) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Load copies data into the start of the bank.
func (b *Bank) Load(data []byte) {
	copy(b.data, data)
}

// Clear zeroes the bank.
func (b *Bank) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}
