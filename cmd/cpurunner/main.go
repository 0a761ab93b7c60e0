package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	gblog "github.com/FabianRolfMatthiasNoll/gbcore/internal/log"
)

// writerFunc adapts a function to io.Writer
type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (n int, err error) { return f(p) }

// ring keeps the last n entries of anything.
type ring[T any] struct {
	buf  []T
	idx  int
	fill int
}

func newRing[T any](n int) *ring[T] {
	if n < 1 {
		n = 1
	}
	return &ring[T]{buf: make([]T, n)}
}

func (r *ring[T]) add(v T) {
	r.buf[r.idx] = v
	r.idx = (r.idx + 1) % len(r.buf)
	if r.fill < len(r.buf) {
		r.fill++
	}
}

// each visits the entries oldest first.
func (r *ring[T]) each(fn func(T)) {
	start := (r.idx - r.fill + len(r.buf)) % len(r.buf)
	for j := 0; j < r.fill; j++ {
		fn(r.buf[(start+j)%len(r.buf)])
	}
}

// traceLine formats the instruction at PC followed by the register state.
func traceLine(b *bus.Bus) string {
	r := b.Registers()
	op := b.ReadAddress(r.PC)
	tbl := b.CPU().Table()
	in := tbl.Lookup(op, false)
	if op == 0xCB {
		in = tbl.Lookup(b.ReadAddress(r.PC+1), true)
	}
	return fmt.Sprintf("%-18s %s IME=%t IF=%02X IE=%02X", in, r, b.CPU().IME(), b.IF(), b.IE())
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb, .gz, .zip, .7z)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	startPC := flag.Int("pc", 0x0100, "initial PC value")
	trace := flag.Bool("trace", false, "print every instruction with the register state")
	strict := flag.Bool("strict", false, "stop on the first invalid operand or address")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "when -auto detects failure, print a recent trace window (slows down)")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions to include in 'traceOnFail' dump")
	serialWindow := flag.Int("serialWindow", 8192, "number of recent serial bytes to retain for diagnostics on fail")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	var boot []byte
	if *bootPath != "" {
		b, err := os.ReadFile(*bootPath)
		if err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
		boot = b
	}

	m := emu.New(emu.Config{Strict: *strict, BootROM: boot, Logger: gblog.New(os.Stderr, false)})
	if err := m.LoadROMFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}
	b := m.Bus()
	if len(boot) < 0x100 {
		b.Registers().PC = uint16(*startPC)
	}

	// Stream serial to stdout and keep a copy for pattern detection.
	var ser bytes.Buffer
	serRing := newRing[byte](max(*serialWindow, 256))
	w := io.Writer(os.Stdout)
	if *until != "" || *auto {
		w = io.MultiWriter(os.Stdout, &ser, writerFunc(func(p []byte) (int, error) {
			for _, ch := range p {
				serRing.add(ch)
			}
			return len(p), nil
		}))
	}
	m.SetSerialWriter(w)

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	done := func(i int) {
		fmt.Printf("\nDone: steps=%d cycles=%d elapsed=%s\n", i, m.Cycles(), time.Since(start).Truncate(time.Millisecond))
	}
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)
	stageRe := regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
	lastStage := ""
	traces := newRing[string](*traceWindow)

	for i := 0; i < *steps; i++ {
		var line string
		if *trace || *traceOnFail {
			line = traceLine(b)
		}
		cyc, err := m.Step()
		if *trace || *traceOnFail {
			line = fmt.Sprintf("%s cyc=%d", line, cyc)
			if *trace {
				fmt.Println(line)
			}
			if *traceOnFail {
				traces.add(line)
			}
		}
		if err != nil {
			fmt.Printf("\nStopped: %v\n", err)
			done(i + 1)
			os.Exit(3)
		}
		if *auto {
			s := ser.String()
			if mm := stageRe.FindAllString(s, -1); len(mm) > 0 {
				lastStage = mm[len(mm)-1]
			}
			if strings.Contains(strings.ToLower(s), "passed") {
				fmt.Printf("\nDetected PASS in serial output.\n")
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				done(i + 1)
				os.Exit(0)
			}
			if mm := failRe.FindStringSubmatch(s); mm != nil {
				fmt.Printf("\nDetected %s in serial output.\n", mm[0])
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				if *traceOnFail && traces.fill > 0 {
					fmt.Printf("\n--- recent trace (last %d instructions) ---\n", traces.fill)
					traces.each(func(s string) { fmt.Println(s) })
					fmt.Printf("--- end trace ---\n")
				}
				if serRing.fill > 0 {
					fmt.Printf("\n--- recent serial (last %d bytes) ---\n", serRing.fill)
					serRing.each(func(c byte) { fmt.Printf("%c", c) })
					fmt.Printf("\n--- end serial ---\n")
				}
				done(i + 1)
				os.Exit(1)
			}
		} else if *until != "" {
			if strings.Contains(strings.ToLower(ser.String()), strings.ToLower(*until)) {
				fmt.Printf("\nDetected '%s' in serial output.\n", *until)
				done(i + 1)
				return
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			done(i + 1)
			os.Exit(2)
		}
	}
	fmt.Printf("\n%s\n", m.Registers())
	done(*steps)
}
