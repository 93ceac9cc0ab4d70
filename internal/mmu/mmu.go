// Package mmu implements the DMG memory management unit: it resolves
// every 16-bit CPU address to an owning region — cartridge ROM/RAM via
// the loaded MBC, VRAM/OAM via the PPU, WRAM, the I/O register window,
// HRAM, and IE — and performs the read or write. Apart from WRAM, HRAM
// and the boot-ROM overlay state it owns no emulation state; everything
// else is address decoding over components it holds references to.
package mmu

import (
	"fmt"

	"github.com/corvidlabs/dmg-core/internal/apu"
	"github.com/corvidlabs/dmg-core/internal/boot"
	"github.com/corvidlabs/dmg-core/internal/cartridge"
	"github.com/corvidlabs/dmg-core/internal/interrupts"
	"github.com/corvidlabs/dmg-core/internal/joypad"
	"github.com/corvidlabs/dmg-core/internal/ppu"
	"github.com/corvidlabs/dmg-core/internal/timer"
	"github.com/corvidlabs/dmg-core/internal/types"
	"github.com/corvidlabs/dmg-core/pkg/log"
)

// Video is the subset of *ppu.PPU the MMU addresses directly: VRAM/OAM
// storage plus the LCD register file.
type Video interface {
	ReadVRAM(addr uint16) uint8
	WriteVRAM(addr uint16, val uint8)
	ReadOAM(addr uint16) uint8
	WriteOAM(addr uint16, val uint8)
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// MMU wires the cartridge, PPU, timer, interrupt controller, joypad, and
// APU onto the CPU's 16-bit address space.
type MMU struct {
	boot         *boot.ROM
	bootDisabled bool
	bootReg      uint8

	Cart *cartridge.Cartridge

	wram [0x2000]byte
	hram [0x7F]byte

	Video    Video
	Timer    *timer.Controller
	IRQ      *interrupts.Controller
	Joypad   *joypad.State
	Sound    *apu.APU

	Log log.Logger
}

// New returns an MMU wired to the given components. boot may be nil, in
// which case the cartridge is visible at 0x0000-0x00FF from power-on.
func New(cart *cartridge.Cartridge, video Video, tim *timer.Controller, irq *interrupts.Controller, joy *joypad.State, sound *apu.APU, bootROM *boot.ROM) *MMU {
	return &MMU{
		boot:   bootROM,
		Cart:   cart,
		Video:  video,
		Timer:  tim,
		IRQ:    irq,
		Joypad: joy,
		Sound:  sound,
		Log:    log.New(),
	}
}

// SetBootROM installs (or, with nil, removes) the boot-ROM overlay.
// Takes effect on the next Reset.
func (m *MMU) SetBootROM(b *boot.ROM) {
	m.boot = b
}

// HasBootROM reports whether a boot ROM is installed.
func (m *MMU) HasBootROM() bool {
	return m.boot != nil
}

// Reset clears WRAM/HRAM and re-arms the boot-ROM overlay (if one is
// installed).
func (m *MMU) Reset() {
	m.wram = [0x2000]byte{}
	m.hram = [0x7F]byte{}
	m.bootDisabled = m.boot == nil
	if m.bootDisabled {
		m.bootReg = 1
	} else {
		m.bootReg = 0
	}
}

// Read returns the byte visible at addr, per the address map of spec.md
// §4.1. The address-decode switch is exhaustive over the full 16-bit
// space; the trailing panic is an unreachable defensive branch (spec.md
// §4.1's InvalidRead), never taken by a correctly ordered set of cases.
func (m *MMU) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x00FF:
		if !m.bootDisabled {
			return m.boot.Read(addr)
		}
		return m.Cart.Read(addr)
	case addr <= 0x7FFF:
		return m.Cart.Read(addr)
	case addr <= 0x9FFF:
		return m.Video.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return m.Cart.Read(addr)
	case addr <= 0xDFFF:
		return m.wram[addr-0xC000]
	case addr <= 0xFDFF:
		// Echo RAM. The source's __gb_read subtracts ECHO_ADDR (0xE000)
		// across the whole 0xE000-0xFDFF window, including the
		// 0xF000-0xFDFF half — not just 0xE000-0xEFFF. Because wram here
		// is a single flat 0x2000 array indexed the same way the
		// 0xC000-0xDFFF case is (addr-0xC000), subtracting 0xE000
		// uniformly reproduces that exact mirroring without extra cases:
		// do not special-case the top half differently.
		return m.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return m.Video.ReadOAM(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr <= 0xFF7F:
		return m.readIO(addr)
	case addr <= 0xFFFE:
		return m.hram[addr-0xFF80]
	case addr == types.IE:
		return m.IRQ.Read(addr)
	}
	panic(fmt.Sprintf("mmu: invalid read from address %#04x", addr))
}

// Write stores val at addr, per the address map of spec.md §4.1. Writes
// in 0x0000-0x7FFF never reach ROM storage; they reconfigure the MBC.
func (m *MMU) Write(addr uint16, val uint8) {
	switch {
	case addr <= 0x7FFF:
		m.Cart.Write(addr, val)
	case addr <= 0x9FFF:
		m.Video.WriteVRAM(addr, val)
	case addr <= 0xBFFF:
		m.Cart.Write(addr, val)
	case addr <= 0xDFFF:
		m.wram[addr-0xC000] = val
	case addr <= 0xFDFF:
		m.wram[addr-0xE000] = val
	case addr <= 0xFE9F:
		m.Video.WriteOAM(addr, val)
	case addr <= 0xFEFF:
		// unusable region; writes are silently ignored.
	case addr <= 0xFF7F:
		m.writeIO(addr, val)
	case addr <= 0xFFFE:
		m.hram[addr-0xFF80] = val
	case addr == types.IE:
		m.IRQ.Write(addr, val)
	default:
		panic(fmt.Sprintf("mmu: invalid write to address %#04x", addr))
	}
}

func (m *MMU) readIO(addr uint16) uint8 {
	switch {
	case addr == types.P1:
		return m.Joypad.Read()
	case addr == types.SB, addr == types.SC, addr == types.DIV, addr == types.TIMA, addr == types.TMA, addr == types.TAC:
		return m.Timer.Read(addr)
	case addr == types.IF:
		return m.IRQ.Read(addr)
	case addr >= types.NR10 && addr <= types.NR52, addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd:
		return m.Sound.Read(addr)
	case addr >= types.LCDC && addr <= types.WX:
		return m.Video.Read(addr)
	case addr == types.BOOT:
		return m.bootReg
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(addr uint16, val uint8) {
	switch {
	case addr == types.P1:
		m.Joypad.Write(val)
	case addr == types.SB, addr == types.SC, addr == types.DIV, addr == types.TIMA, addr == types.TMA, addr == types.TAC:
		m.Timer.Write(addr, val)
	case addr == types.IF:
		m.IRQ.Write(addr, val)
	case addr >= types.NR10 && addr <= types.NR52, addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd:
		m.Sound.Write(addr, val)
	case addr >= types.LCDC && addr <= types.WX:
		m.Video.Write(addr, val)
	case addr == types.BOOT:
		m.bootReg = val
		if val != 0 {
			m.bootDisabled = true
		}
	default:
		m.Log.Debugf("mmu: unimplemented IO write to %#04x", addr)
	}
}
