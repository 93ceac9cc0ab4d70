// Package cartridge parses the DMG cartridge header and implements the
// Memory Bank Controller state machines (MBC1/2/3/5, plus the unbanked
// ROM-only case) that virtualise a cartridge image into the CPU's 16-bit
// address window (spec.md §4.1).
package cartridge

import "fmt"

// ROMReader supplies ROM bytes from a flat, possibly-banked address space.
// Modelling it as a callback (rather than requiring the MBC to hold the ROM
// slice itself) matches the host-callback contract of spec.md §6 and lets a
// host keep the cartridge image off-heap (e.g. memory-mapped or streamed
// from flash), the way the reference implementation's gb_rom_read does.
type ROMReader func(addr uint32) uint8

// CartRAM is the external, host-owned cart-RAM backing store. Addresses are
// flat offsets into the host's allocation; the MBC never sizes or owns this
// memory itself (spec.md §3, "CartRam").
type CartRAM interface {
	ReadRAM(addr uint32) uint8
	WriteRAM(addr uint32, val uint8)
}

// MemoryBankController is the per-cartridge-type state machine that decides
// which ROM/RAM bank is visible at a given CPU address, per spec.md §4.1.
type MemoryBankController interface {
	// Read returns the byte visible at addr through this controller's
	// current bank selection (0x0000-0x7FFF ROM window, 0xA000-0xBFFF
	// cart-RAM/RTC window).
	Read(addr uint16) uint8
	// Write reconfigures the controller's bank/RAM-enable state, or (for
	// 0xA000-0xBFFF with RAM enabled) writes through to cart RAM.
	Write(addr uint16, val uint8)
}

// ticker is implemented by MBC3, whose real-time clock advances on a
// wall-clock-second cadence independent of CPU cycles (spec.md §4.1, "RTC
// tick"). internal/timer drives it once per DMG clock-second.
type ticker interface {
	TickSecond()
}

// FlatROMReader wraps an in-memory ROM image as a ROMReader, for the common
// case where a host has the whole cartridge loaded.
func FlatROMReader(rom []byte) ROMReader {
	return func(addr uint32) uint8 {
		if int(addr) >= len(rom) {
			return 0xFF
		}
		return rom[addr]
	}
}

// NewController constructs the MemoryBankController appropriate for the
// cartridge-type byte in h, per the mapping in spec.md §3. It returns
// ErrUnsupportedType for any cartridge-type byte this core does not model
// (spec.md §7: CartridgeUnsupported), which covers MBC6/MBC7/HuC/Camera/
// Tama5 (explicit non-goals, spec.md §1).
func NewController(h Header, rom ROMReader, ram CartRAM) (MemoryBankController, error) {
	switch h.CartridgeType {
	case ROM, ROMRAM, ROMRAMBATT:
		return newNoneController(rom, ram), nil
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return newMBC1(h, rom, ram), nil
	case MBC2, MBC2BATT:
		return newMBC2(rom, ram), nil
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		return newMBC3(h, rom, ram), nil
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return newMBC5(h, rom, ram), nil
	default:
		return nil, fmt.Errorf("%w: cartridge type %#02x", ErrUnsupportedType, h.CartridgeType)
	}
}

// ErrUnsupportedType is returned by NewController (and in turn Load) when
// the cartridge-type byte names an MBC kind this core does not implement
// (spec.md §7: GB_INIT_CARTRIDGE_UNSUPPORTED).
var ErrUnsupportedType = fmt.Errorf("cartridge: unsupported cartridge type")

// ErrInvalidChecksum is returned by Load when the header checksum
// invariant of spec.md §3 does not hold.
var ErrInvalidChecksum = fmt.Errorf("cartridge: invalid header checksum")

// promoteZero implements the "bank 0 is illegal, promote to 1" rule for
// MBC3's ROM-bank-select register (MBC1 and MBC2 apply their own promotion
// rules inline).
func promoteZero(bank uint16) uint16 {
	if bank == 0 {
		return 1
	}
	return bank
}
