package cartridge

// mbc3 implements the MBC3 state machine: an 0x7F-masked (or full 0xFF in
// the more-than-128-banks "extended" case) ROM-bank register, a combined RAM-bank /
// RTC-register-select value at 0x4000-0x5FFF, and a latch register at
// 0x6000-0x7FFF that snapshots the live RTC into a CPU-visible copy on a
// 0->1 edge (spec.md §3 "MbcState", §4.1 "MBC3").
type mbc3 struct {
	rom ROMReader
	ram CartRAM

	romBankMask uint8
	hasRAM      bool
	ramBanks    uint32
	hasRTC      bool

	ramEnabled bool // also gates RTC-register access
	romBank    uint8
	bankSel    uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register

	rtc        rtcRegisters
	rtcLatched rtcRegisters
	latchEdge  uint8
}

func newMBC3(h Header, rom ROMReader, ram CartRAM) *mbc3 {
	romBankMask := uint8(0x7F)
	if h.ROMBankMask > 0x7F {
		romBankMask = 0xFF
	}
	return &mbc3{
		rom:         rom,
		ram:         ram,
		romBankMask: romBankMask,
		hasRAM:      ram != nil && h.RAMSize > 0,
		ramBanks:    h.RAMSize / 0x2000,
		hasRTC:      h.CartridgeType == MBC3TIMERBATT || h.CartridgeType == MBC3TIMERRAMBATT,
		romBank:     1,
	}
}

func (m *mbc3) isRTCSelect() bool {
	return m.bankSel >= 0x08 && m.bankSel <= 0x0C
}

func (m *mbc3) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom(uint32(addr))
	case addr < 0x8000:
		return m.rom(uint32(m.romBank)*0x4000 + uint32(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.isRTCSelect() {
			return m.rtcLatched.read(m.bankSel)
		}
		if !m.hasRAM || uint32(m.bankSel) >= m.ramBanks {
			return 0xFF
		}
		return m.ram.ReadRAM(uint32(m.bankSel)*0x2000 + uint32(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc3) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = val&0x0F == 0x0A
	case addr < 0x4000:
		m.romBank = uint8(promoteZero(uint16(val&m.romBankMask)))
	case addr < 0x6000:
		m.bankSel = val
	case addr < 0x8000:
		edge := val & 0x01
		if m.latchEdge == 0 && edge == 1 {
			m.rtcLatched = m.rtc
		}
		m.latchEdge = edge
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return
		}
		if m.hasRTC && m.isRTCSelect() {
			m.rtc.write(m.bankSel, val)
			return
		}
		if m.hasRAM && uint32(m.bankSel) < m.ramBanks {
			m.ram.WriteRAM(uint32(m.bankSel)*0x2000+uint32(addr-0xA000), val)
		}
	}
}

// TickSecond advances the real-time clock by one wall-clock second. Called
// by internal/timer once per 4,194,304 T-cycles of emulated time.
func (m *mbc3) TickSecond() {
	if !m.hasRTC {
		return
	}
	m.rtc.tickSecond()
}
