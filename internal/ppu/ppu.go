// Package ppu implements the DMG picture processing unit: the
// background/window/sprite scanline composer and the Mode 2/3/0/1 state
// machine that drives it. Timing is instruction-granular — a whole
// scanline is composed in one shot at the Mode 2→3 boundary, rather than
// pixel-by-pixel through a per-dot fetcher pipeline.
package ppu

import "github.com/corvidlabs/dmg-core/internal/interrupts"

// LCDC bits.
const (
	lcdcEnable       = 0x80
	lcdcWindowMap    = 0x40
	lcdcWindowEnable = 0x20
	lcdcTileSelect   = 0x10
	lcdcBGMap        = 0x08
	lcdcOBJSize      = 0x04
	lcdcOBJEnable    = 0x02
	lcdcBGEnable     = 0x01
)

// STAT bits.
const (
	statLYCIntEnable   = 0x40
	statMode2IntEnable = 0x20
	statMode1IntEnable = 0x10
	statMode0IntEnable = 0x08
	statCoincidence    = 0x04
)

// Pixel tag bits (bits 4-5 of a composed pixel): which palette produced it.
const (
	TagOBJ0 = 0x00
	TagOBJ1 = 0x10
	TagBG   = 0x20
)

const (
	oamScanCycles  = 80
	drawEndCycles  = 252
	lineCycles     = 456
	vblankStartLY  = 144
	linesPerFrame  = 154
	offCycleFrame  = lineCycles * linesPerFrame
	screenWidth    = 160
)

// LineSink receives a composed scanline. A host wires one in to receive
// the emulated picture; the core holds no framebuffer of its own beyond
// the line currently being composed.
type LineSink func(pixels *[screenWidth]uint8, line uint8)

// PPU owns VRAM, OAM, the LCD register file, and the scanline composer.
type PPU struct {
	irq *interrupts.Controller

	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat         uint8
	scy, scx           uint8
	ly, lyc            uint8
	wy, wx             uint8
	bgp, obp0, obp1    uint8
	bgPalette          [4]uint8
	obp0Palette        [4]uint8
	obp1Palette        [4]uint8

	mode        uint8
	lineCounter uint16
	offCounter  uint32

	windowLineCounter uint8
	wyLatched         uint8

	frameReady bool

	sink      LineSink
	busReader BusReader
	dmaReg    uint8

	line    [screenWidth]uint8
	bgIndex [screenWidth]uint8
}

// New returns a PPU wired to irq. Call SetSink to receive composed lines.
func New(irq *interrupts.Controller) *PPU {
	p := &PPU{irq: irq}
	p.recomputePalettes()
	return p
}

// SetSink installs (or, with nil, removes) the host's line-delivery
// callback.
func (p *PPU) SetSink(sink LineSink) {
	p.sink = sink
}

// FrameReady reports whether a VBlank edge (or, with the LCD off, a
// 70224-cycle off-time tick) has occurred since the last call to
// ConsumeFrameReady.
func (p *PPU) FrameReady() bool {
	return p.frameReady
}

// ConsumeFrameReady clears the frame-ready flag, returning its prior
// value.
func (p *PPU) ConsumeFrameReady() bool {
	v := p.frameReady
	p.frameReady = false
	return v
}

// Reset restores power-on defaults (IO_LCDC=0x91, IO_STAT=0x85).
func (p *PPU) Reset() {
	irq, sink, busReader := p.irq, p.sink, p.busReader
	*p = PPU{irq: irq, sink: sink, busReader: busReader}
	p.lcdc = 0x91
	// STAT's mode bits read back as 1 immediately after reset (a
	// documented post-boot-handoff artifact); the engine itself begins
	// line 0's OAM scan straight away, so internal mode tracking starts
	// at 2 and the next mode transition overwrites this historical value
	// (a CPU write to STAT leaves the mode bits untouched).
	p.stat = 0x85
	p.mode = 2
	p.recomputePalettes()
}

// Advance consumes a cycle budget produced by one CPU instruction,
// driving the Mode 2/3/0/1 state machine (or the LCD-off free-run
// counter) forward by that many T-cycles.
func (p *PPU) Advance(cycles int) {
	if p.lcdc&lcdcEnable == 0 {
		p.advanceOff(cycles)
		return
	}
	for cycles > 0 {
		boundary := p.nextBoundary()
		step := boundary - p.lineCounter
		if int(step) > cycles {
			step = uint16(cycles)
		}
		p.lineCounter += step
		cycles -= int(step)
		if p.lineCounter == boundary {
			p.crossBoundary(boundary)
		}
	}
}

func (p *PPU) advanceOff(cycles int) {
	p.offCounter += uint32(cycles)
	for p.offCounter >= offCycleFrame {
		p.offCounter -= offCycleFrame
		p.frameReady = true
	}
}

// nextBoundary returns the lineCounter value (within the current line)
// at which the next mode or line transition occurs.
func (p *PPU) nextBoundary() uint16 {
	if p.ly >= vblankStartLY {
		return lineCycles
	}
	switch {
	case p.lineCounter < oamScanCycles:
		return oamScanCycles
	case p.lineCounter < drawEndCycles:
		return drawEndCycles
	default:
		return lineCycles
	}
}

func (p *PPU) crossBoundary(boundary uint16) {
	switch {
	case boundary == oamScanCycles && p.ly < vblankStartLY:
		p.enterMode(3)
		p.composeLine()
	case boundary == drawEndCycles && p.ly < vblankStartLY:
		p.enterMode(0)
	case boundary == lineCycles:
		p.lineCounter = 0
		p.advanceLine()
	}
}

func (p *PPU) advanceLine() {
	p.ly++
	if p.ly >= linesPerFrame {
		p.ly = 0
	}
	p.setLY(p.ly)

	switch {
	case p.ly == vblankStartLY:
		p.enterMode(1)
		p.irq.Request(interrupts.VBlankFlag)
		p.frameReady = true
	case p.ly == 0:
		p.windowLineCounter = 0
		p.wyLatched = p.wy
		p.enterMode(2)
	case p.ly < vblankStartLY:
		p.enterMode(2)
	}
}

func (p *PPU) enterMode(mode uint8) {
	p.mode = mode
	p.stat = (p.stat &^ 0x03) | mode
	var bit uint8
	switch mode {
	case 0:
		bit = statMode0IntEnable
	case 1:
		bit = statMode1IntEnable
	case 2:
		bit = statMode2IntEnable
	default:
		return // mode 3 has no dedicated STAT interrupt source
	}
	if p.stat&bit != 0 {
		p.irq.Request(interrupts.LCDFlag)
	}
}

func (p *PPU) setLY(ly uint8) {
	p.ly = ly
	coincidence := ly == p.lyc
	was := p.stat&statCoincidence != 0
	if coincidence {
		p.stat |= statCoincidence
	} else {
		p.stat &^= statCoincidence
	}
	if coincidence && !was && p.stat&statLYCIntEnable != 0 {
		p.irq.Request(interrupts.LCDFlag)
	}
}

// Mode returns the current STAT mode (0-3).
func (p *PPU) Mode() uint8 {
	return p.mode
}

func (p *PPU) recomputePalettes() {
	decode := func(reg uint8) [4]uint8 {
		return [4]uint8{reg & 0x03, (reg >> 2) & 0x03, (reg >> 4) & 0x03, (reg >> 6) & 0x03}
	}
	p.bgPalette = decode(p.bgp)
	p.obp0Palette = decode(p.obp0)
	p.obp1Palette = decode(p.obp1)
}
