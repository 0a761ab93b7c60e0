package bus

import "context"

// Step services interrupts, runs one CPU step and feeds its cycles to the
// timer, then advances the PPU by one line. Under the Strict policy a
// latched fault is returned.
func (b *Bus) Step() (int, error) {
	if b.fault != nil {
		return 0, b.fault
	}
	cycles := b.HandleInterrupts()
	cycles += b.cpu.Step(b)
	b.timer.Step(cycles, b.requestBit)
	b.ppu.Step(b.requestBit)
	b.cycles += uint64(cycles)
	return cycles, b.fault
}

// Run steps until ctx is done or a fault is latched.
func (b *Bus) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := b.Step(); err != nil {
			return err
		}
	}
}

// RunFor steps until at least cycles have elapsed. It returns early on a
// fault, or when the CPU is stopped and nothing can wake it.
func (b *Bus) RunFor(cycles int) (int, error) {
	elapsed := 0
	for elapsed < cycles {
		n, err := b.Step()
		elapsed += n
		if err != nil {
			return elapsed, err
		}
		if n == 0 && b.cpu.Stopped() {
			return elapsed, nil
		}
	}
	return elapsed, nil
}
