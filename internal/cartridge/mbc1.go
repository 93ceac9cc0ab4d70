package cartridge

// mbc1 implements the MBC1 state machine: a ROM-bank register written at
// 0x2000-0x3FFF, a 2-bit register at 0x4000-0x5FFF that is either the
// upper ROM-bank bits (mode 0) or the RAM-bank number (mode 1), and a
// mode-select latch at 0x6000-0x7FFF.
type mbc1 struct {
	rom ROMReader
	ram CartRAM

	romBankMask uint16
	hasRAM      bool
	ramBanks    uint32

	ramEnabled bool
	bank1      uint8 // written at 0x2000-0x3FFF
	bank2      uint8 // 2 bits, 0x4000-0x5FFF
	mode       bool  // 0x6000-0x7FFF
}

func newMBC1(h Header, rom ROMReader, ram CartRAM) *mbc1 {
	return &mbc1{
		rom:         rom,
		ram:         ram,
		romBankMask: h.ROMBankMask,
		hasRAM:      ram != nil && h.RAMSize > 0,
		ramBanks:    h.RAMSize / 0x2000,
		bank1:       1,
	}
}

// romBank returns the effective bank visible at 0x4000-0x7FFF.
func (m *mbc1) romBank() uint16 {
	bank := uint16(m.bank2)<<5 | uint16(m.bank1)
	return bank & m.romBankMask
}

// zeroBank returns the effective bank visible at 0x0000-0x3FFF: bank 0
// unless mode-1 banking is active, in which case bank2's bits apply there
// too (the "large ROM, mode 1" case of the real MBC1).
func (m *mbc1) zeroBank() uint16 {
	if !m.mode {
		return 0
	}
	return (uint16(m.bank2) << 5) & m.romBankMask
}

func (m *mbc1) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom(uint32(m.zeroBank())*0x4000 + uint32(addr))
	case addr < 0x8000:
		return m.rom(uint32(m.romBank())*0x4000 + uint32(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.hasRAM || !m.ramEnabled {
			return 0xFF
		}
		return m.ram.ReadRAM(uint32(m.ramBank())*0x2000 + uint32(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc1) ramBank() uint8 {
	if !m.mode || m.ramBanks <= 1 {
		return 0
	}
	return m.bank2 & 0x03
}

func (m *mbc1) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = val&0x0F == 0x0A
	case addr < 0x4000:
		// the register keeps the written byte verbatim; only a value
		// whose low 5 bits are already zero gets bumped by one, so banks
		// 0x00/0x20/0x40/0x60 promote to the next bank rather than
		// aliasing bank 0.
		if val&0x1F == 0 {
			val++
		}
		m.bank1 = val
	case addr < 0x6000:
		m.bank2 = val & 0x03
	case addr < 0x8000:
		m.mode = val&0x01 != 0
	case addr >= 0xA000 && addr < 0xC000:
		if m.hasRAM && m.ramEnabled {
			m.ram.WriteRAM(uint32(m.ramBank())*0x2000+uint32(addr-0xA000), val)
		}
	}
}
