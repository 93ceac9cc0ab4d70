package timer

import (
	"testing"

	"github.com/corvidlabs/dmg-core/internal/interrupts"
	"github.com/corvidlabs/dmg-core/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDivResetsOnWrite(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq, nil, nil)

	c.Advance(1000)
	c.Write(types.DIV, 0x42)
	assert.Equal(t, uint8(0), c.Read(types.DIV))

	c.Advance(300)
	assert.Equal(t, uint8(1), c.Read(types.DIV))
}

func TestTimaOverflowReloadsAndInterrupts(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq, nil, nil)
	irq.Enable = 0x1F

	c.Write(types.TAC, 0x05) // enabled, rate 16
	c.Write(types.TMA, 0xAB)
	c.Write(types.TIMA, 0xFF)

	c.Advance(16)

	assert.Equal(t, uint8(0xAB), c.Read(types.TIMA))
	assert.True(t, irq.Pending())
	src, ok := irq.NextSource()
	assert.True(t, ok)
	assert.Equal(t, interrupts.TimerFlag, src)
}

func TestTimaDisabledDoesNotTick(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq, nil, nil)
	c.Write(types.TAC, 0x01) // rate selected but not enabled
	c.Advance(1000)
	assert.Equal(t, uint8(0), c.Read(types.TIMA))
}

type fakeRTC struct{ ticks int }

func (f *fakeRTC) TickSecond() { f.ticks++ }

func TestRTCTicksOncePerDMGSecond(t *testing.T) {
	irq := interrupts.NewController()
	rtc := &fakeRTC{}
	c := NewController(irq, rtc, nil)

	c.Advance(rtcCycles - 1)
	assert.Equal(t, 0, rtc.ticks)
	c.Advance(1)
	assert.Equal(t, 1, rtc.ticks)
}

type fakePeer struct {
	txVal  uint8
	rxVal  uint8
	rxErr  error
	txSeen bool
}

func (p *fakePeer) Tx(val uint8) {
	p.txVal = val
	p.txSeen = true
}

func (p *fakePeer) Rx() (uint8, error) {
	return p.rxVal, p.rxErr
}

func TestSerialTransferWithPeer(t *testing.T) {
	irq := interrupts.NewController()
	peer := &fakePeer{rxVal: 0x99}
	c := NewController(irq, nil, peer)
	irq.Enable = 0x1F

	c.Write(types.SB, 0x55)
	c.Write(types.SC, 0x81)

	c.Advance(4096)

	assert.True(t, peer.txSeen)
	assert.Equal(t, uint8(0x55), peer.txVal)
	assert.Equal(t, uint8(0x99), c.Read(types.SB))
	assert.True(t, irq.Pending())
	assert.Equal(t, uint8(0), c.Read(types.SC)&0x80)
}

func TestSerialInternalClockNoPeerFillsFF(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq, nil, nil)

	irq.Enable = 0x1F
	c.Write(types.SB, 0x12)
	c.Write(types.SC, 0x81) // internal clock

	c.Advance(4096)

	assert.Equal(t, uint8(0xFF), c.Read(types.SB))
	assert.True(t, irq.Pending())
}

func TestSerialExternalClockNoPeerLeavesSBUnchanged(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq, nil, nil)

	irq.Enable = 0x1F
	c.Write(types.SB, 0x12)
	c.Write(types.SC, 0x80) // external clock, no internal-clock bit

	c.Advance(4096)

	assert.Equal(t, uint8(0x12), c.Read(types.SB))
	assert.False(t, irq.Pending())
}
