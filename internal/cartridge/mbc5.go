package cartridge

// mbc5 implements the MBC5 state machine: a full 9-bit ROM-bank register
// split across two write windows, and a 4-bit RAM-bank register. Unlike
// MBC1-3, bank 0 is a legal, directly-selectable ROM bank (spec.md §4.1,
// "MBC5: ... no bank-0 promotion").
type mbc5 struct {
	rom ROMReader
	ram CartRAM

	romBankMask uint16
	hasRAM      bool
	ramBanks    uint32
	hasRumble   bool

	ramEnabled bool
	romBankLo  uint8
	romBankHi  uint8 // bit 0 only
	ramBank    uint8 // 4 bits; bit 3 selects the rumble motor on cartridges that have one
}

func newMBC5(h Header, rom ROMReader, ram CartRAM) *mbc5 {
	return &mbc5{
		rom:         rom,
		ram:         ram,
		romBankMask: h.ROMBankMask,
		hasRAM:      ram != nil && h.RAMSize > 0,
		ramBanks:    h.RAMSize / 0x2000,
		hasRumble:   h.CartridgeType == MBC5RUMBLE || h.CartridgeType == MBC5RUMBLERAM || h.CartridgeType == MBC5RUMBLERAMBATT,
	}
}

func (m *mbc5) romBank() uint16 {
	return (uint16(m.romBankHi)<<8 | uint16(m.romBankLo)) & m.romBankMask
}

func (m *mbc5) ramBankNum() uint8 {
	bank := m.ramBank & 0x0F
	if m.hasRumble {
		// the rumble motor is driven by bit 3; it is not a host-observable
		// RAM bank selector, so it is masked off here rather than modelled.
		bank &= 0x07
	}
	return bank
}

func (m *mbc5) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom(uint32(addr))
	case addr < 0x8000:
		return m.rom(uint32(m.romBank())*0x4000 + uint32(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.hasRAM || !m.ramEnabled || uint32(m.ramBankNum()) >= m.ramBanks {
			return 0xFF
		}
		return m.ram.ReadRAM(uint32(m.ramBankNum())*0x2000 + uint32(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc5) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = val&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = val
	case addr < 0x4000:
		m.romBankHi = val & 0x01
	case addr < 0x6000:
		m.ramBank = val & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		if m.hasRAM && m.ramEnabled && uint32(m.ramBankNum()) < m.ramBanks {
			m.ram.WriteRAM(uint32(m.ramBankNum())*0x2000+uint32(addr-0xA000), val)
		}
	}
}
