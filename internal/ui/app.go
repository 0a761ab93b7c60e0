// Package ui is an ebiten debug window over an emulation session: the
// visible background rendered from VRAM and a register panel.
package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/memory"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui/render"
)

const (
	panelWidth = 128
	lineHeight = 16
)

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	pix    []byte
	paused bool
	err    error // last error from the session; pauses the loop
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize((render.Width+panelWidth)*cfg.Scale, render.Height*cfg.Scale)
	return &App{cfg: cfg, m: m, pix: make([]byte, render.Width*render.Height*4)}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.err = a.m.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.m.RequestInterrupt(bus.VBlank)
	}
	if !a.m.Loaded() {
		return nil
	}

	// Single instruction step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if _, err := a.m.Step(); err != nil {
			a.err = err
		}
		return nil
	}
	if a.paused || a.err != nil {
		return nil
	}
	for i := 0; i < a.cfg.FramesPerUpdate; i++ {
		if err := a.m.StepFrame(); err != nil {
			a.err = err
			a.paused = true
			break
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(render.Width, render.Height)
	}
	var regs ppu.Registers
	if b := a.m.Bus(); b != nil {
		regs = b.PPU().Registers()
	}
	render.Background(a.pix, render.Snapshot(a.m.Memory(memory.VRAM)), regs)
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	for i, s := range a.panel() {
		ebitenutil.DebugPrintAt(screen, s, render.Width+4, i*lineHeight)
	}
}

// panel formats the register record for the side panel.
func (a *App) panel() []string {
	if !a.m.Loaded() {
		return []string{"no ROM loaded"}
	}
	r := a.m.Registers()
	status := r.State.String()
	if a.paused {
		status += " (paused)"
	}
	lines := []string{
		fmt.Sprintf("A %02X  F %02X", r.A, r.F),
		fmt.Sprintf("BC %04X DE %04X", r.BC(), r.DE()),
		fmt.Sprintf("HL %04X SP %04X", r.HL(), r.SP),
		fmt.Sprintf("PC %04X IME %t", r.PC, r.IME),
		fmt.Sprintf("IF %02X IE %02X", r.IF, r.IE),
		fmt.Sprintf("cyc %d", r.Cycles),
		status,
	}
	if a.err != nil {
		lines = append(lines, "error:", a.err.Error())
	}
	return lines
}

func (a *App) Layout(outW, outH int) (int, int) { return render.Width + panelWidth, render.Height }
