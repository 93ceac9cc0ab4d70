// Package timer implements the DIV/TIMA/TMA/TAC timer, the serial
// transfer clock, and the MBC3 real-time-clock tick, all driven by a
// single cycle-budget advance per CPU instruction rather than a
// per-T-cycle event scheduler.
package timer

import (
	"github.com/corvidlabs/dmg-core/internal/interrupts"
	"github.com/corvidlabs/dmg-core/internal/types"
)

// rtcCycles is the number of T-cycles in one DMG clock-second.
const rtcCycles = 4194304

// timaRates maps TAC's low two bits to the TIMA increment period in
// T-cycles.
var timaRates = [4]uint16{1024, 16, 64, 256}

// RTC is implemented by a cartridge controller whose real-time clock
// advances once per wall-clock second (MBC3). Advance drives it when one
// is installed; a cartridge with no RTC leaves this nil.
type RTC interface {
	TickSecond()
}

// SerialPeer supplies the two optional serial-transfer callbacks: Tx
// observes a byte being shifted out, Rx supplies the byte shifted in
// from an external peripheral (or reports none connected).
type SerialPeer interface {
	Tx(val uint8)
	Rx() (uint8, error)
}

// ErrNoConnection is the sentinel error a SerialPeer's Rx should return
// to signal no peripheral is attached.
type ErrNoConnection struct{}

func (ErrNoConnection) Error() string { return "timer: no serial peer connected" }

// Controller owns DIV, TIMA/TMA/TAC, the serial shift clock, and
// (optionally) an MBC3 RTC ticker.
type Controller struct {
	irq *interrupts.Controller
	rtc RTC
	sio SerialPeer

	div        uint8
	divCounter uint16

	tima, tma, tac uint8
	timaCounter    uint16

	sb, sc        uint8
	serialActive  bool
	serialCounter uint16

	rtcCounter uint32
}

// NewController returns a timer wired to irq. rtc and sio may be nil —
// rtc when the loaded cartridge has no real-time clock, sio when the
// host supplies no serial peripheral.
func NewController(irq *interrupts.Controller, rtc RTC, sio SerialPeer) *Controller {
	return &Controller{irq: irq, rtc: rtc, sio: sio, div: 0xAB}
}

// SetRTC installs (or, with nil, removes) the MBC3 real-time-clock peer.
func (c *Controller) SetRTC(rtc RTC) { c.rtc = rtc }

// SetSerialPeer installs (or, with nil, removes) the two-callback serial
// peripheral stub.
func (c *Controller) SetSerialPeer(sio SerialPeer) { c.sio = sio }

// Advance consumes a cycle budget, produced by one CPU instruction, and
// drives DIV, TIMA, the serial clock, and the RTC forward by that many
// T-cycles. It may call irq.Request for a Timer or Serial interrupt.
func (c *Controller) Advance(cycles int) {
	c.advanceDiv(cycles)
	c.advanceTima(cycles)
	c.advanceSerial(cycles)
	c.advanceRTC(cycles)
}

func (c *Controller) advanceDiv(cycles int) {
	c.divCounter += uint16(cycles)
	for c.divCounter >= 256 {
		c.divCounter -= 256
		c.div++
	}
}

func (c *Controller) advanceTima(cycles int) {
	if c.tac&types.Bit2 == 0 {
		return
	}
	rate := timaRates[c.tac&0x03]
	c.timaCounter += uint16(cycles)
	for c.timaCounter >= rate {
		c.timaCounter -= rate
		c.tima++
		if c.tima == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.TimerFlag)
		}
	}
}

func (c *Controller) advanceSerial(cycles int) {
	if !c.serialActive {
		return
	}
	c.serialCounter += uint16(cycles)
	if c.serialCounter < 4096 {
		return
	}
	c.serialCounter = 0
	c.serialActive = false
	c.sc &^= 0x80

	out := c.sb
	var in uint8
	var err error = ErrNoConnection{}
	if c.sio != nil {
		c.sio.Tx(out)
		in, err = c.sio.Rx()
	}
	switch {
	case err == nil:
		c.sb = in
		c.irq.Request(interrupts.SerialFlag)
	case c.sc&0x01 != 0:
		// internal clock, no peripheral: the shift register free-runs
		// and settles high.
		c.sb = 0xFF
		c.irq.Request(interrupts.SerialFlag)
	default:
		// external clock, no peripheral: nothing drives the line.
	}
}

func (c *Controller) advanceRTC(cycles int) {
	if c.rtc == nil {
		return
	}
	c.rtcCounter += uint32(cycles)
	for c.rtcCounter >= rtcCycles {
		c.rtcCounter -= rtcCycles
		c.rtc.TickSecond()
	}
}

// Read returns the value visible at one of the timer/serial I/O
// addresses.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case types.SB:
		return c.sb
	case types.SC:
		return c.sc | 0x7E
	case types.DIV:
		return c.div
	case types.TIMA:
		return c.tima
	case types.TMA:
		return c.tma
	case types.TAC:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write updates the timer/serial register at addr.
func (c *Controller) Write(addr uint16, val uint8) {
	switch addr {
	case types.SB:
		c.sb = val
	case types.SC:
		c.sc = val & 0x81
		if val&0x80 != 0 {
			c.serialActive = true
			c.serialCounter = 0
		}
	case types.DIV:
		c.div = 0
		c.divCounter = 0
	case types.TIMA:
		c.tima = val
	case types.TMA:
		c.tma = val
	case types.TAC:
		c.tac = val & 0x07
	}
}

// Reset restores the timer to its post-boot default state (IO_DIV =
// 0xAB with no boot ROM installed).
func (c *Controller) Reset() {
	*c = Controller{irq: c.irq, rtc: c.rtc, sio: c.sio, div: 0xAB}
}
