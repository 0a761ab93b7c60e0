package emu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/log"

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace   bool       // log every executed instruction at debug level
	Strict  bool       // latch the first invalid operand/address and stop
	BootROM []byte     // optional 256-byte DMG boot image; nil starts at 0x0100
	Logger  log.Logger // nil discards diagnostics
}
