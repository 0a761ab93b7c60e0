package emu

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// Test ROMs print "Passed" or "Failed N tests" over serial.
var (
	passedRe = regexp.MustCompile(`(?i)\bpassed\b`)
	failedRe = regexp.MustCompile(`(?i)\bfailed\b`)
)

var suiteExts = map[string]bool{".gb": true, ".gz": true, ".zip": true, ".7z": true}

func collectROMs(root string) ([]string, error) {
	var roms []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if suiteExts[strings.ToLower(filepath.Ext(path))] {
			roms = append(roms, path)
		}
		return nil
	})
	return roms, err
}

// suiteDir is BLARGG_DIR or testroms/blargg under the module root.
func suiteDir() string {
	if dir := os.Getenv("BLARGG_DIR"); dir != "" {
		return dir
	}
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testroms", "blargg")
	}
	for dir := filepath.Dir(file); ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "testroms", "blargg")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Join("testroms", "blargg")
		}
		dir = parent
	}
}

func envInt(name string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil && n > 0 {
		return n
	}
	return def
}

// runSuiteROM steps frames until the ROM reports a verdict or the frame
// budget runs out.
func runSuiteROM(t *testing.T, path string, frames int) {
	t.Helper()
	m := New(Config{})
	if err := m.LoadROMFile(path); err != nil {
		t.Fatalf("load ROM: %v", err)
	}
	// LoadROMFile builds a new bus, so the sink goes on afterwards.
	var serial bytes.Buffer
	m.SetSerialWriter(&serial)

	for i := 0; i < frames; i++ {
		if err := m.StepFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		switch out := serial.Bytes(); {
		case passedRe.Match(out):
			return
		case failedRe.Match(out):
			t.Fatalf("%s failed:\n%s", filepath.Base(path), out)
		}
	}
	t.Fatalf("%s: no verdict after %d frames; serial:\n%s", filepath.Base(path), frames, serial.String())
}

func TestBlargg(t *testing.T) {
	if os.Getenv("RUN_BLARGG") == "" {
		t.Skip("set RUN_BLARGG=1 and place ROMs under testroms/blargg or set BLARGG_DIR to run")
	}
	dir := suiteDir()
	roms, err := collectROMs(dir)
	if err != nil {
		t.Skipf("no blargg ROMs at %s: %v", dir, err)
	}
	if len(roms) == 0 {
		t.Skipf("no ROMs found in %s", dir)
	}
	frames := envInt("BLARGG_MAX_FRAMES", 1800)
	for _, rom := range roms {
		name := strings.TrimSuffix(filepath.Base(rom), filepath.Ext(rom))
		t.Run(name, func(t *testing.T) { runSuiteROM(t, rom, frames) })
	}
}
