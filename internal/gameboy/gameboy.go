// Package gameboy wires the CPU, MMU, PPU, timer, interrupt controller,
// joypad, and APU into a single context and drives it one video frame at
// a time. It is the only component that owns all the others; every
// other package holds references, never ownership, of its neighbours.
package gameboy

import (
	"github.com/corvidlabs/dmg-core/internal/apu"
	"github.com/corvidlabs/dmg-core/internal/boot"
	"github.com/corvidlabs/dmg-core/internal/cartridge"
	"github.com/corvidlabs/dmg-core/internal/cpu"
	"github.com/corvidlabs/dmg-core/internal/interrupts"
	"github.com/corvidlabs/dmg-core/internal/joypad"
	"github.com/corvidlabs/dmg-core/internal/mmu"
	"github.com/corvidlabs/dmg-core/internal/ppu"
	"github.com/corvidlabs/dmg-core/internal/timer"
	"github.com/corvidlabs/dmg-core/internal/types"
	"github.com/corvidlabs/dmg-core/pkg/log"
)

// GameBoy owns every emulated component and the cycle budget that ties
// them together.
type GameBoy struct {
	CPU    *cpu.CPU
	MMU    *mmu.MMU
	PPU    *ppu.PPU
	Timer  *timer.Controller
	IRQ    *interrupts.Controller
	Joypad *joypad.State
	APU    *apu.APU
	Cart   *cartridge.Cartridge

	Log log.Logger

	// OnError receives InvalidOpcode faults from the CPU. No InvalidRead is
	// reported through it: the MMU's read decode covers every address, and
	// its fall-through after the last case panics instead. The core makes
	// no guarantees about its own state once this has fired; the host
	// must treat it as terminal.
	OnError func(kind string, addr uint16)

	// OnFrameTiming, if set, receives the total T-cycle count consumed
	// by each completed RunFrame call. It exists purely for host-side
	// diagnostics (internal/diag's frame-timing histogram); the core
	// never reads it back.
	OnFrameTiming func(cycles int)
}

// Opt configures a GameBoy at construction time.
type Opt func(gb *GameBoy)

// WithBootROM installs a boot ROM image, so the CPU begins execution at
// 0x0000 with every register zeroed instead of at the post-boot state of
// spec.md's scenario S1.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.MMU.SetBootROM(boot.Load(rom))
	}
}

// WithLineSink installs the callback that receives one composed
// scanline at a time.
func WithLineSink(sink ppu.LineSink) Opt {
	return func(gb *GameBoy) { gb.PPU.SetSink(sink) }
}

// WithLogger overrides the default stdout logger.
func WithLogger(l log.Logger) Opt {
	return func(gb *GameBoy) { gb.Log = l; gb.MMU.Log = l }
}

// WithOnError installs the run-time fault callback.
func WithOnError(fn func(kind string, addr uint16)) Opt {
	return func(gb *GameBoy) {
		gb.OnError = fn
		gb.CPU.OnError = fn
	}
}

// WithAudioModule forwards the APU's register window to an external
// synthesiser instead of leaving it a silent register stub.
func WithAudioModule(m apu.Module) Opt {
	return func(gb *GameBoy) { gb.APU.SetModule(m) }
}

// WithRTC replaces the real-time-clock peer that the timer ticks once per
// emulated DMG second. By default New installs the loaded cartridge's own
// controller when it has a TickSecond method (MBC3).
func WithRTC(rtc timer.RTC) Opt {
	return func(gb *GameBoy) { gb.Timer.SetRTC(rtc) }
}

// WithSerialPeer attaches the two-callback serial peripheral stub.
func WithSerialPeer(peer timer.SerialPeer) Opt {
	return func(gb *GameBoy) { gb.Timer.SetSerialPeer(peer) }
}

// WithFrameObserver installs the per-frame T-cycle count callback.
func WithFrameObserver(fn func(cycles int)) Opt {
	return func(gb *GameBoy) { gb.OnFrameTiming = fn }
}

// New loads rom (with ram as its cart-RAM backing store, which may be
// nil for cartridges with no RAM banks) and returns a GameBoy ready to
// run. If no WithBootROM option is given, the CPU and I/O registers are
// brought directly to the post-boot state of spec.md's scenario S1.
func New(rom []byte, ram cartridge.CartRAM, opts ...Opt) (*GameBoy, error) {
	cart, err := cartridge.Load(rom, ram)
	if err != nil {
		return nil, err
	}

	irq := interrupts.NewController()
	video := ppu.New(irq)
	tim := timer.NewController(irq, nil, nil)
	if rtc, ok := cart.MemoryBankController.(timer.RTC); ok {
		tim.SetRTC(rtc)
	}
	pad := joypad.New()
	sound := apu.New()
	bus := mmu.New(cart, video, tim, irq, pad, sound, nil)
	video.SetBusReader(bus.Read)

	gb := &GameBoy{
		CPU:    cpu.New(bus, irq),
		MMU:    bus,
		PPU:    video,
		Timer:  tim,
		IRQ:    irq,
		Joypad: pad,
		APU:    sound,
		Cart:   cart,
		Log:    log.New(),
	}

	for _, opt := range opts {
		opt(gb)
	}

	gb.Reset()
	return gb, nil
}

// Reset restores every component to its power-on state. With no boot
// ROM installed, the CPU and I/O registers land directly on the
// post-boot values of scenario S1; with one installed, the CPU starts
// at 0x0000 with every register cleared and the boot ROM runs as on
// real hardware.
func (gb *GameBoy) Reset() {
	gb.IRQ.Reset()
	gb.PPU.Reset()
	gb.Timer.Reset()
	gb.Joypad.Reset()
	gb.APU.Reset()
	gb.MMU.Reset()
	gb.CPU.Reset()

	if gb.MMU.HasBootROM() {
		return
	}

	gb.CPU.SetAF(0x0100)
	if gb.Cart.Header().HeaderChecksum != 0 {
		gb.CPU.SetF(0xB0)
	} else {
		gb.CPU.SetF(0x80)
	}
	gb.CPU.SetBC(0x0013)
	gb.CPU.SetDE(0x00D8)
	gb.CPU.SetHL(0x014D)
	gb.CPU.SP = 0xFFFE
	gb.CPU.PC = 0x0100

	gb.MMU.Write(types.BGP, 0xFC)
}

// RunFrame runs the CPU, timer, and PPU forward until the PPU reports a
// completed frame (a VBlank edge, or — with the LCD off — an equivalent
// 70224-cycle tick so the host still keeps pumping frames). Each
// CPU.Step is immediately followed by advancing the timer and PPU by the
// same cycle count, so interrupts they raise are only ever observed at
// the top of the next step, never mid-instruction.
func (gb *GameBoy) RunFrame() {
	total := 0
	for !gb.PPU.FrameReady() {
		n := gb.CPU.Step()
		gb.Timer.Advance(n)
		gb.PPU.Advance(n)
		total += n
	}
	gb.PPU.ConsumeFrameReady()
	if gb.OnFrameTiming != nil {
		gb.OnFrameTiming(total)
	}
}
