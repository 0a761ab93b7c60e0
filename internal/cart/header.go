package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrHeaderTooShort is returned when a buffer ends before 0x014F.
var ErrHeaderTooShort = errors.New("ROM too small to contain header")

const (
	titleStart     = 0x0134
	titleEnd       = 0x0143
	cgbFlagAddr    = 0x0143
	newLicAddr     = 0x0144
	sgbFlagAddr    = 0x0146
	typeAddr       = 0x0147
	romSizeAddr    = 0x0148
	ramSizeAddr    = 0x0149
	destAddr       = 0x014A
	oldLicAddr     = 0x014B
	versionAddr    = 0x014C
	checksumAddr   = 0x014D
	globalSumAddr  = 0x014E
	headerEnd      = 0x014F
	logoAddr       = 0x0104
	usesNewLicense = 0x33
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is a decoded copy of the cartridge header, for logs and tools.
type Header struct {
	Title          string
	CGBFlag        byte
	NewLicensee    string
	SGBFlag        byte
	CartType       byte
	ROMSizeCode    byte
	RAMSizeCode    byte
	Destination    byte
	OldLicensee    byte
	ROMVersion     byte
	HeaderChecksum byte
	GlobalChecksum uint16

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	RAMBanks     int
	CartTypeStr  string
}

// ParseHeader decodes the header region of rom.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) <= headerEnd {
		return nil, fmt.Errorf("parse header: %w (%d bytes)", ErrHeaderTooShort, len(rom))
	}
	h := &Header{
		Title:          rawTitle(rom),
		CGBFlag:        rom[cgbFlagAddr],
		NewLicensee:    string(rom[newLicAddr : newLicAddr+2]),
		SGBFlag:        rom[sgbFlagAddr],
		CartType:       rom[typeAddr],
		ROMSizeCode:    rom[romSizeAddr],
		RAMSizeCode:    rom[ramSizeAddr],
		Destination:    rom[destAddr],
		OldLicensee:    rom[oldLicAddr],
		ROMVersion:     rom[versionAddr],
		HeaderChecksum: rom[checksumAddr],
		GlobalChecksum: binary.BigEndian.Uint16(rom[globalSumAddr : headerEnd+1]),
	}
	h.ROMSizeBytes, h.ROMBanks = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeBytes, h.RAMBanks = decodeRAMSize(h.RAMSizeCode)
	h.CartTypeStr = cartTypeString(h.CartType)
	return h, nil
}

// HeaderChecksumOK runs the boot ROM check over 0x0134–0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) <= checksumAddr {
		return false
	}
	return headerChecksum(rom) == rom[checksumAddr]
}

func headerChecksum(rom []byte) byte {
	var sum byte
	for addr := titleStart; addr <= versionAddr; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum
}

// LogoOK reports whether the boot logo bitmap is intact. Homebrew and test
// ROMs often omit it, so nothing fails on a mismatch.
func LogoOK(rom []byte) bool {
	if len(rom) < logoAddr+len(nintendoLogo) {
		return false
	}
	for i, b := range nintendoLogo {
		if rom[logoAddr+i] != b {
			return false
		}
	}
	return true
}

func rawTitle(rom []byte) string {
	raw := rom[titleStart : titleEnd+1]
	if i := strings.IndexByte(string(raw), 0); i >= 0 {
		raw = raw[:i]
	}
	var sb strings.Builder
	for _, b := range raw {
		if b >= 0x20 && b < 0x7F {
			sb.WriteByte(b)
		}
	}
	return strings.TrimSpace(sb.String())
}

var romSizes = map[byte]struct{ size, banks int }{
	0x00: {32 * 1024, 2},
	0x01: {64 * 1024, 4},
	0x02: {128 * 1024, 8},
	0x03: {256 * 1024, 16},
	0x04: {512 * 1024, 32},
	0x05: {1024 * 1024, 64},
	0x06: {2 * 1024 * 1024, 128},
	0x07: {4 * 1024 * 1024, 256},
	0x08: {8 * 1024 * 1024, 512},
	0x52: {1152 * 1024, 72},
	0x53: {1280 * 1024, 80},
	0x54: {1536 * 1024, 96},
}

func decodeROMSize(code byte) (size, banks int) {
	s := romSizes[code]
	return s.size, s.banks
}

var ramSizes = map[byte]struct{ size, banks int }{
	0x00: {0, 0},
	0x01: {2 * 1024, 1},
	0x02: {8 * 1024, 1},
	0x03: {32 * 1024, 4},
	0x04: {128 * 1024, 16},
	0x05: {64 * 1024, 8},
}

func decodeRAMSize(code byte) (size, banks int) {
	s := ramSizes[code]
	return s.size, s.banks
}

func cartTypeString(code byte) string {
	if t, ok := cartTypes[code]; ok {
		return t.name
	}
	return "UNKNOWN (" + strconv.FormatUint(uint64(code), 16) + ")"
}

// newLicenseeCode converts the two ASCII digits at 0x0144 to the table key.
func newLicenseeCode(s string) (byte, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
