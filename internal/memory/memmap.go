package memory

import (
	"fmt"
	"sort"
)

// Region names one partition of the 16-bit address space.
type Region int

const (
	ROMBank0 Region = iota
	ROMBankN
	VRAM
	ExternalRAM
	WRAM
	Echo
	OAM
	Unusable
	IO
	HRAM
	InterruptEnable
)

var regionNames = [...]string{
	ROMBank0:        "ROM0",
	ROMBankN:        "ROMX",
	VRAM:            "VRAM",
	ExternalRAM:     "SRAM",
	WRAM:            "WRAM",
	Echo:            "ECHO",
	OAM:             "OAM",
	Unusable:        "UNUSABLE",
	IO:              "IO",
	HRAM:            "HRAM",
	InterruptEnable: "IE",
}

func (r Region) String() string {
	if r < 0 || int(r) >= len(regionNames) {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

// Range is an inclusive address range belonging to one region.
type Range struct {
	Region Region
	Start  uint16
	End    uint16
}

func (r Range) Contains(addr uint16) bool { return addr >= r.Start && addr <= r.End }
func (r Range) Size() int                 { return int(r.End) - int(r.Start) + 1 }

// Offset returns addr relative to the start of the range.
func (r Range) Offset(addr uint16) int { return int(addr - r.Start) }

// Map is the DMG memory map, ordered by start address.
var Map = [...]Range{
	{ROMBank0, 0x0000, 0x3FFF},
	{ROMBankN, 0x4000, 0x7FFF},
	{VRAM, 0x8000, 0x9FFF},
	{ExternalRAM, 0xA000, 0xBFFF},
	{WRAM, 0xC000, 0xDFFF},
	{Echo, 0xE000, 0xFDFF},
	{OAM, 0xFE00, 0xFE9F},
	{Unusable, 0xFEA0, 0xFEFF},
	{IO, 0xFF00, 0xFF7F},
	{HRAM, 0xFF80, 0xFFFE},
	{InterruptEnable, 0xFFFF, 0xFFFF},
}

// Lookup returns the range containing addr.
func Lookup(addr uint16) (Range, bool) {
	i := sort.Search(len(Map), func(i int) bool { return Map[i].End >= addr })
	if i == len(Map) || !Map[i].Contains(addr) {
		return Range{}, false
	}
	return Map[i], true
}

// RangeOf returns the range for a region.
func RangeOf(region Region) Range {
	for _, r := range Map {
		if r.Region == region {
			return r
		}
	}
	return Range{Region: region}
}

// Validate checks that the map is contiguous from 0x0000 to 0xFFFF.
func Validate() error {
	next := 0
	for _, r := range Map {
		if int(r.Start) != next {
			return fmt.Errorf("memory map gap or overlap at %04X (%s starts at %04X)", next, r.Region, r.Start)
		}
		if r.End < r.Start {
			return fmt.Errorf("memory map range %s is inverted", r.Region)
		}
		next = int(r.End) + 1
	}
	if next != 0x10000 {
		return fmt.Errorf("memory map ends at %04X", next-1)
	}
	return nil
}
