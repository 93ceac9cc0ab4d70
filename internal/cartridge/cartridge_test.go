package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRAM is a flat in-memory CartRAM for tests.
type fakeRAM struct {
	bytes []byte
}

func newFakeRAM(size int) *fakeRAM {
	return &fakeRAM{bytes: make([]byte, size)}
}

func (r *fakeRAM) ReadRAM(addr uint32) uint8 {
	return r.bytes[addr]
}

func (r *fakeRAM) WriteRAM(addr uint32, val uint8) {
	r.bytes[addr] = val
}

// buildROM constructs a minimal ROM image of the given bank count with a
// valid header for cartType, stamping each bank's first byte with its own
// bank number so tests can assert which bank got selected.
func buildROM(banks int, cartType Type, ramSizeByte uint8) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	rom[0x0147] = byte(cartType)
	switch banks {
	case 2:
		rom[0x0148] = 0
	case 4:
		rom[0x0148] = 1
	case 8:
		rom[0x0148] = 2
	case 128:
		rom[0x0148] = 6
	case 256:
		rom[0x0148] = 7
	default:
		rom[0x0148] = 0
	}
	rom[0x0149] = ramSizeByte
	rom[0x014D] = computeChecksum(rom)
	return rom
}

func TestValidChecksum(t *testing.T) {
	rom := buildROM(2, ROM, 0)
	assert.True(t, ValidChecksum(rom))
	rom[0x014D] ^= 0xFF
	assert.False(t, ValidChecksum(rom))
}

func TestLoadRejectsShortROM(t *testing.T) {
	_, err := Load(make([]byte, 0x10), nil)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestLoadRejectsBadChecksum(t *testing.T) {
	rom := buildROM(2, ROM, 0)
	rom[0x014D]++
	_, err := Load(rom, nil)
	assert.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestLoadUnsupportedType(t *testing.T) {
	rom := buildROM(2, ROM, 0)
	rom[0x0147] = 0xFE // MMM01, not implemented
	rom[0x014D] = computeChecksum(rom)
	_, err := Load(rom, nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMBC1ZeroBankPromotion(t *testing.T) {
	// 128 banks, ROM-bank mask 0x7F — matches the reference zero-bank
	// promotion scenario.
	rom := buildROM(128, MBC1, 0)
	cart, err := Load(rom, nil)
	require.NoError(t, err)

	cart.Write(0x2000, 0x00)
	assert.Equal(t, byte(1), cart.Read(0x4000), "writing 0x00 to the bank register selects bank 1")

	cart.Write(0x2000, 0x20)
	assert.Equal(t, byte(0x21), cart.Read(0x4000), "writing 0x20 promotes to bank 0x21, not bank 0x20")
}

func TestMBC1RAMBanking(t *testing.T) {
	rom := buildROM(4, MBC1RAMBATT, 0x03) // 32KiB RAM, 4 banks
	ram := newFakeRAM(32 * 1024)
	cart, err := Load(rom, ram)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A) // enable RAM
	cart.Write(0x6000, 0x01) // mode 1: bank2 selects RAM bank
	cart.Write(0x4000, 0x02) // RAM bank 2

	cart.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), ram.bytes[2*0x2000])
}

func TestMBC2RAMUpperNibbleReadsAsF(t *testing.T) {
	rom := buildROM(4, MBC2BATT, 0)
	ram := newFakeRAM(512)
	cart, err := Load(rom, ram)
	require.NoError(t, err)

	cart.Write(0x0000, 0x0A)
	cart.Write(0xA000, 0xFF)
	assert.Equal(t, byte(0xFF), cart.Read(0xA000))
	assert.Equal(t, byte(0x0F), ram.bytes[0])
}

func TestMBC3RTCFreezesAtIllegalCeiling(t *testing.T) {
	rtc := &rtcRegisters{sec: 61}
	rtc.tickSecond()
	assert.Equal(t, uint8(62), rtc.sec)
	rtc.tickSecond()
	assert.Equal(t, uint8(63), rtc.sec)
	rtc.tickSecond()
	assert.Equal(t, uint8(63), rtc.sec, "seconds freeze at 63 instead of wrapping")
}

func TestMBC3RTCCarriesIntoDays(t *testing.T) {
	rtc := &rtcRegisters{sec: 59, min: 59, hour: 23}
	rtc.setDay(0x1FF)
	rtc.tickSecond()
	assert.Equal(t, uint8(0), rtc.sec)
	assert.Equal(t, uint8(0), rtc.min)
	assert.Equal(t, uint8(0), rtc.hour)
	assert.Equal(t, uint16(0), rtc.day())
	assert.True(t, rtc.dayHighFlags&rtcCarryBit != 0, "day overflow sets the sticky carry bit")
}

func TestMBC3LatchCopiesOnRisingEdge(t *testing.T) {
	rom := buildROM(4, MBC3TIMERRAMBATT, 0)
	cart, err := Load(rom, nil)
	require.NoError(t, err)

	m3 := cart.MemoryBankController.(*mbc3)
	m3.rtc.sec = 30

	cart.Write(0x6000, 0x00)
	cart.Write(0x6000, 0x01)
	assert.Equal(t, uint8(30), m3.rtcLatched.sec)

	m3.rtc.sec = 45
	assert.Equal(t, uint8(30), m3.rtcLatched.sec, "latched copy does not track live changes until the next edge")
}

func TestMBC5NoBankZeroPromotion(t *testing.T) {
	rom := buildROM(256, MBC5, 0)
	cart, err := Load(rom, nil)
	require.NoError(t, err)

	cart.Write(0x2000, 0x00)
	assert.Equal(t, byte(0), cart.Read(0x4000), "MBC5 bank 0 is directly selectable, unlike MBC1")
}

func TestFingerprintStable(t *testing.T) {
	rom := buildROM(2, ROM, 0)
	assert.Equal(t, Fingerprint(rom), Fingerprint(rom))
}
