// Package apu models the DMG audio register window (0xFF10-0xFF3F).
// Synthesis itself is out of scope: the core forwards reads and writes to
// an external audio module through a narrow callback when one is
// installed, and otherwise behaves like silicon with no audio chip
// listening — reads return the last written value, OR'd with the
// fixed per-register "always high" bits real hardware reports for its
// unused bit positions.
package apu

const (
	baseAddr = 0xFF10
	size     = 0x30
)

// readMask holds, per register offset from 0xFF10, the bits that always
// read back as 1 regardless of what was last written — the well-known
// DMG APU "unused bits" table.
var readMask = [size]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // FF10-14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // FF15-19 (FF15 unused)
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // FF1A-1E
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // FF1F-23 (FF1F unused)
	0x00, 0x00, 0x70, 0xFF, 0xFF, // FF24-28 (FF27-28 unused)
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // FF29-2D (unused)
	0xFF, 0xFF, // FF2E-2F (unused)
}

// Module is an external audio backend. When installed, register reads
// and writes in the 0xFF10-0xFF3F window are forwarded to it instead of
// the internal masked-storage fallback.
type Module interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, val uint8)
}

// APU owns the raw audio register bytes, and optionally forwards to an
// external Module.
type APU struct {
	regs   [size]byte
	module Module
}

// New returns an APU with no audio module installed; register writes are
// retained and read back masked, but produce no sound.
func New() *APU {
	return &APU{}
}

// SetModule installs (or, with nil, removes) the external audio backend.
func (a *APU) SetModule(m Module) {
	a.module = m
}

func (a *APU) Read(addr uint16) uint8 {
	if a.module != nil {
		return a.module.ReadRegister(addr)
	}
	off := addr - baseAddr
	if int(off) >= size {
		return 0xFF
	}
	return a.regs[off] | readMask[off]
}

func (a *APU) Write(addr uint16, val uint8) {
	if a.module != nil {
		a.module.WriteRegister(addr, val)
		return
	}
	off := addr - baseAddr
	if int(off) >= size {
		return
	}
	a.regs[off] = val
}

// Reset clears all audio registers back to power-on zero.
func (a *APU) Reset() {
	a.regs = [size]byte{}
}
