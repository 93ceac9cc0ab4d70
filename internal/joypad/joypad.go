// Package joypad emulates the DMG's P1 joypad register: button state is
// supplied by the host, and the core only ever reads it back on a write to
// 0xFF00, per the direct-access contract of the core (spec.md §5).
package joypad

import "github.com/corvidlabs/dmg-core/internal/bits"

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

// State holds the current P1 select lines and the live button state.
type State struct {
	// register holds bits 4-5 (the row select lines) as last written by
	// the CPU; the low nibble is computed on Read.
	register byte
	// pressed is a bitmask of the eight Button values, 1 meaning held.
	pressed Button
}

// New returns a freshly reset joypad with nothing pressed and both row
// selects disabled (reads as all-1s), matching the DMG's post-power value.
func New() *State {
	return &State{register: 0x3F}
}

// Read returns the current value of P1: the action (A/B/Select/Start) row
// if bit 5 is clear, the direction row if bit 4 is clear, else all 1s. A
// held button reads as 0.
func (s *State) Read() uint8 {
	switch {
	case s.register&0x10 == 0:
		return s.register &^ (s.pressed >> 4)
	case s.register&0x20 == 0:
		return s.register &^ (s.pressed & 0x0F)
	default:
		return s.register | 0x0F
	}
}

// Write stores the row-select bits (4-5) of a CPU write to P1.
func (s *State) Write(value byte) {
	s.register = (s.register & 0xCF) | (value & 0x30)
}

// Press marks key as held and reports whether a joypad interrupt should be
// requested: only newly-pressed buttons on a row the game is currently
// selecting raise the interrupt.
func (s *State) Press(key Button) bool {
	wasHeld := s.pressed&key != 0
	s.pressed |= key

	listening := false
	if key <= ButtonStart && !bits.Test(s.register, 5) {
		listening = true
	} else if key > ButtonStart && !bits.Test(s.register, 4) {
		listening = true
	}

	return !wasHeld && listening
}

// Release marks key as no longer held.
func (s *State) Release(key Button) {
	s.pressed &^= key
}

// Reset clears all button state and selects no row.
func (s *State) Reset() {
	s.register = 0x3F
	s.pressed = 0
}
