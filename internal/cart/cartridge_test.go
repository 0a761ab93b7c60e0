package cart

import (
	"strings"
	"testing"
)

func mustNew(t *testing.T, rom []byte) *Cartridge {
	t.Helper()
	c, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCartridge_TestROMScenario(t *testing.T) {
	c := mustNew(t, buildROM("TESTROM", 0x00, 0x00, 0x00, 32*1024))
	if got := c.Title(); got != "Testrom" {
		t.Fatalf("Title got %q want %q", got, "Testrom")
	}
	if got := c.ROMSize(); got != 32*1024 {
		t.Fatalf("ROMSize got %d want %d", got, 32*1024)
	}
	if got := c.NumROMBanks(); got != 2 {
		t.Fatalf("NumROMBanks got %d want 2", got)
	}
	if got := c.CartridgeType(); got != "ROM ONLY" {
		t.Fatalf("CartridgeType got %q", got)
	}
	if !c.PassesHeaderChecksum() {
		t.Fatalf("PassesHeaderChecksum = false for a well-formed header")
	}
	if got := c.Licensee(); got != "Nintendo R&D" {
		t.Fatalf("Licensee got %q", got)
	}
	if got := c.Destination(); got != "Non-Japanese" {
		t.Fatalf("Destination got %q", got)
	}
}

func TestCartridge_HeaderViewsIdempotent(t *testing.T) {
	c := mustNew(t, buildROM("POKEMON RED", 0x13, 0x05, 0x03, 1024*1024))
	title, typ, size := c.Title(), c.CartridgeType(), c.ROMSize()
	for i := 0; i < 3; i++ {
		if c.Title() != title || c.CartridgeType() != typ || c.ROMSize() != size {
			t.Fatalf("header views changed between reads")
		}
	}
	if title != "Pokemon Red" {
		t.Fatalf("Title got %q", title)
	}
	if !c.HasBattery() || c.HasRTC() {
		t.Fatalf("MBC3+RAM+BATTERY features wrong: battery=%v rtc=%v", c.HasBattery(), c.HasRTC())
	}
	if c.NumRAMBanks() != 4 {
		t.Fatalf("NumRAMBanks got %d want 4", c.NumRAMBanks())
	}
}

func TestCartridge_ChecksumMismatchStillLoads(t *testing.T) {
	rom := buildROM("TESTROM", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0140] ^= 0xFF
	c := mustNew(t, rom)
	if c.PassesHeaderChecksum() {
		t.Fatalf("PassesHeaderChecksum = true after header corruption")
	}
	if !strings.Contains(c.String(), "checksum BAD") {
		t.Fatalf("String() does not report the bad checksum: %s", c)
	}
}

func TestCartridge_Fingerprint(t *testing.T) {
	rom := buildROM("TESTROM", 0x00, 0x00, 0x00, 32*1024)
	a, b := mustNew(t, rom), mustNew(t, rom)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprint not stable: %x vs %x", a.Fingerprint(), b.Fingerprint())
	}
	rom[0x2000] = 0x01
	if mustNew(t, rom).Fingerprint() == a.Fingerprint() {
		t.Fatalf("fingerprint ignores ROM contents")
	}
}

func TestCartridge_CopiesImage(t *testing.T) {
	rom := buildROM("TESTROM", 0x00, 0x00, 0x00, 32*1024)
	c := mustNew(t, rom)
	rom[0x0150] = 0x99
	if c.Read(0x0150) != 0x00 {
		t.Fatalf("cartridge aliases the caller's buffer")
	}
}

func TestCartridge_HexView(t *testing.T) {
	c := mustNew(t, buildROM("TESTROM", 0x00, 0x00, 0x00, 32*1024))
	got := c.HexView(0x0134, 0x013B)
	want := "0130:             54 45 53 54 52 4F 4D\n"
	if got != want {
		t.Fatalf("HexView got %q want %q", got, want)
	}
}

func TestNew_RejectsHeaderlessImage(t *testing.T) {
	if _, err := New(make([]byte, 0x100)); err == nil {
		t.Fatalf("expected error for a headerless image")
	}
}

func TestCartridge_FeatureFlags(t *testing.T) {
	cases := []struct {
		code                          byte
		battery, timer, rumble, camera bool
	}{
		{0x00, false, false, false, false},
		{0x10, true, true, false, false},
		{0x1E, true, false, true, false},
		{0xFC, false, false, false, true},
	}
	for _, tc := range cases {
		c := mustNew(t, buildROM("FEATS", tc.code, 0x00, 0x00, 32*1024))
		if c.HasBattery() != tc.battery || c.HasTimer() != tc.timer || c.HasRTC() != tc.timer ||
			c.HasRumble() != tc.rumble || c.HasCamera() != tc.camera {
			t.Fatalf("%02X: battery=%v timer=%v rumble=%v camera=%v", tc.code,
				c.HasBattery(), c.HasTimer(), c.HasRumble(), c.HasCamera())
		}
	}
}

func TestCartridge_StringCarriesVersion(t *testing.T) {
	c := mustNew(t, buildROM("VER", 0x00, 0x00, 0x00, 32*1024))
	if c.Version() != 0x01 || !strings.Contains(c.String(), `"Ver" v1 ROM ONLY`) {
		t.Fatalf("String() = %s", c)
	}
}

func TestCartridge_ResetRestoresBanking(t *testing.T) {
	c := mustNew(t, bankedROM(0x03, 0x02, 0x02, 8))
	c.Write(0x0000, 0x0A)
	c.Write(0xA000, 0x5A)
	c.Write(0x2000, 0x05)

	c.Reset()
	if c.ROMBank() != 1 || c.Read(0x4000) != 0x01 {
		t.Fatalf("after Reset ROMBank=%d read %02X", c.ROMBank(), c.Read(0x4000))
	}
	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM still enabled after Reset: %02X", got)
	}
	c.Write(0x0000, 0x0A)
	if got := c.Read(0xA000); got != 0x5A {
		t.Fatalf("RAM contents lost by Reset: %02X", got)
	}
}
