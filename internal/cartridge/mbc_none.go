package cartridge

// noneController is the unbanked ROM-only cartridge: up to 32KiB of ROM
// with no banking registers, and optionally a single fixed RAM window.
// Writes to the 0x0000-0x7FFF register window are simply ignored
// (spec.md §4.1, "None (ROM-only): writes ignored").
type noneController struct {
	rom     ROMReader
	ram     CartRAM
	hasRAM  bool
}

func newNoneController(rom ROMReader, ram CartRAM) *noneController {
	return &noneController{rom: rom, ram: ram, hasRAM: ram != nil}
}

func (m *noneController) Read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return m.rom(uint32(addr))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.hasRAM {
			return 0xFF
		}
		return m.ram.ReadRAM(uint32(addr - 0xA000))
	}
	return 0xFF
}

func (m *noneController) Write(addr uint16, val uint8) {
	if addr >= 0xA000 && addr < 0xC000 && m.hasRAM {
		m.ram.WriteRAM(uint32(addr-0xA000), val)
	}
	// writes below 0x8000 reconfigure a banking register on a real MBC;
	// there is none here, so they are silently ignored.
}
