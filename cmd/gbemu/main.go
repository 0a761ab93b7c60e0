package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	gblog "github.com/FabianRolfMatthiasNoll/gbcore/internal/log"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/statsview"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui/render"
)

type CLIFlags struct {
	ROMPath   string
	BootROM   string
	Scale     int
	Title     string
	Trace     bool
	Strict    bool
	SaveRAM   bool // persist battery RAM next to ROM (.sav)
	StatsView bool

	// headless
	Headless bool
	Frames   int
	Steps    int
	PNGOut   string
	Expect   string // expected background CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb, .gz, .zip, .7z)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional DMG boot ROM")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "log every executed instruction")
	flag.BoolVar(&f.Strict, "strict", false, "stop on the first invalid operand or address")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.BoolVar(&f.StatsView, "statsview", false, "serve runtime statistics on "+statsview.Address)

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.IntVar(&f.Steps, "steps", 0, "instructions to run in headless mode (overrides -frames)")
	flag.StringVar(&f.PNGOut, "outpng", "", "write the final background view to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert background view CRC32 (hex)")
	flag.Parse()
	return f
}

// background renders the machine's current background view as RGBA.
func background(m *emu.Machine) []byte {
	pix := make([]byte, render.Width*render.Height*4)
	render.Background(pix, render.Snapshot(m.Memory(memory.VRAM)), m.Bus().PPU().Registers())
	return pix
}

func runHeadless(m *emu.Machine, f CLIFlags) error {
	start := time.Now()
	if f.Steps > 0 {
		for i := 0; i < f.Steps; i++ {
			if _, err := m.Step(); err != nil {
				return err
			}
		}
	} else {
		frames := f.Frames
		if frames <= 0 {
			frames = 1
		}
		for i := 0; i < frames; i++ {
			if err := m.StepFrame(); err != nil {
				return err
			}
		}
	}
	dur := time.Since(start)

	fb := background(m)
	crc := crc32.ChecksumIEEE(fb)
	log.Printf("headless: cycles=%d elapsed=%s bg_crc32=%08x",
		m.Cycles(), dur.Truncate(time.Millisecond), crc)
	log.Printf("%s", m.Registers())

	if f.PNGOut != "" {
		if err := saveFramePNG(fb, render.Width, render.Height, f.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}

	if f.Expect != "" {
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, pix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func mustRead(path string) []byte {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return b
}

// savePath puts battery RAM next to the ROM with a .sav extension.
func savePath(rom string) string {
	return strings.TrimSuffix(rom, filepath.Ext(rom)) + ".sav"
}

func writeBattery(m *emu.Machine, path string) {
	data, ok := m.SaveBattery()
	if !ok {
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("write %s: %v", path, err)
		return
	}
	log.Printf("wrote %s", path)
}

func main() {
	f := parseFlags()
	if f.StatsView {
		statsview.Launch(os.Stdout)
	}

	m := emu.New(emu.Config{
		Trace:   f.Trace,
		Strict:  f.Strict,
		BootROM: mustRead(f.BootROM),
		Logger:  gblog.New(os.Stderr, f.Trace),
	})
	if f.ROMPath != "" {
		if err := m.LoadROMFile(f.ROMPath); err != nil {
			log.Fatalf("load cart: %v", err)
		}
		log.Printf("ROM: %s", m.Cartridge())
	}

	var sav string
	if f.SaveRAM && f.ROMPath != "" {
		sav = savePath(f.ROMPath)
		if data, err := os.ReadFile(sav); err == nil && m.LoadBattery(data) {
			log.Printf("loaded save RAM: %s (%d bytes)", sav, len(data))
		}
	}

	if f.Headless {
		if !m.Loaded() {
			log.Fatal("headless mode needs -rom")
		}
		if err := runHeadless(m, f); err != nil {
			log.Fatal(err)
		}
		if sav != "" {
			writeBattery(m, sav)
		}
		return
	}

	app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Scale}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	if sav != "" {
		writeBattery(m, sav)
	}
}
