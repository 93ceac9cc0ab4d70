package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadMasksUnusedBits(t *testing.T) {
	a := New()
	a.Write(0xFF11, 0x00)
	assert.Equal(t, uint8(0x3F), a.Read(0xFF11))
}

func TestReadWriteRoundTripsSetBits(t *testing.T) {
	a := New()
	a.Write(0xFF12, 0x42)
	assert.Equal(t, uint8(0x42), a.Read(0xFF12)) // FF12 has no masked bits
}

type fakeModule struct {
	lastWriteAddr uint16
	lastWriteVal  uint8
}

func (f *fakeModule) ReadRegister(addr uint16) uint8 { return 0x55 }
func (f *fakeModule) WriteRegister(addr uint16, val uint8) {
	f.lastWriteAddr, f.lastWriteVal = addr, val
}

func TestForwardsToInstalledModule(t *testing.T) {
	a := New()
	mod := &fakeModule{}
	a.SetModule(mod)

	a.Write(0xFF24, 0x77)
	assert.Equal(t, uint16(0xFF24), mod.lastWriteAddr)
	assert.Equal(t, uint8(0x77), mod.lastWriteVal)
	assert.Equal(t, uint8(0x55), a.Read(0xFF24))
}
