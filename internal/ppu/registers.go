package ppu

import "github.com/corvidlabs/dmg-core/internal/types"

// BusReader supplies bytes from the full CPU address space, used only to
// source an OAM DMA transfer (which can copy from ROM, VRAM, or WRAM).
type BusReader func(addr uint16) uint8

// SetBusReader installs the callback OAM DMA reads its source bytes
// through.
func (p *PPU) SetBusReader(r BusReader) {
	p.busReader = r
}

// ReadVRAM returns a VRAM byte (0x8000-0x9FFF).
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	return p.vram[addr-0x8000]
}

// WriteVRAM stores a VRAM byte.
func (p *PPU) WriteVRAM(addr uint16, val uint8) {
	p.vram[addr-0x8000] = val
}

// ReadOAM returns an OAM byte (0xFE00-0xFE9F).
func (p *PPU) ReadOAM(addr uint16) uint8 {
	return p.oam[addr-0xFE00]
}

// WriteOAM stores an OAM byte.
func (p *PPU) WriteOAM(addr uint16, val uint8) {
	p.oam[addr-0xFE00] = val
}

// Read returns the value visible at one of the PPU's memory-mapped I/O
// registers.
func (p *PPU) Read(addr uint16) uint8 {
	switch addr {
	case types.LCDC:
		return p.lcdc
	case types.STAT:
		return p.stat | 0x80
	case types.SCY:
		return p.scy
	case types.SCX:
		return p.scx
	case types.LY:
		return p.ly
	case types.LYC:
		return p.lyc
	case types.DMA:
		return p.dmaReg
	case types.BGP:
		return p.bgp
	case types.OBP0:
		return p.obp0
	case types.OBP1:
		return p.obp1
	case types.WY:
		return p.wy
	case types.WX:
		return p.wx
	}
	return 0xFF
}

// Write updates the PPU register at addr. Writing DMA triggers an
// immediate, synchronous 0xA0-byte copy into OAM.
func (p *PPU) Write(addr uint16, val uint8) {
	switch addr {
	case types.LCDC:
		wasOn := p.lcdc&lcdcEnable != 0
		p.lcdc = val
		if wasOn && val&lcdcEnable == 0 {
			p.ly = 0
			p.mode = 0
			p.stat = (p.stat &^ 0x03)
			p.lineCounter = 0
			p.offCounter = 0
		}
	case types.STAT:
		p.stat = (p.stat & 0x07) | (val & 0x78)
	case types.SCY:
		p.scy = val
	case types.SCX:
		p.scx = val
	case types.LYC:
		p.lyc = val
		p.setLY(p.ly)
	case types.DMA:
		p.dmaReg = val
		p.runDMA(val)
	case types.BGP:
		p.bgp = val
		p.recomputePalettes()
	case types.OBP0:
		p.obp0 = val
		p.recomputePalettes()
	case types.OBP1:
		p.obp1 = val
		p.recomputePalettes()
	case types.WY:
		p.wy = val
	case types.WX:
		p.wx = val
	}
}

// runDMA performs the synchronous 0xA0-byte source→OAM copy. Source is
// (val<<8); DMA never reads through itself, and no cycle cost or
// OAM-access restriction is modelled (spec scope: instruction-granular
// timing only).
func (p *PPU) runDMA(val uint8) {
	if p.busReader == nil {
		return
	}
	src := uint16(val) << 8
	for i := uint16(0); i < 0xA0; i++ {
		p.oam[i] = p.busReader(src + i)
	}
}
