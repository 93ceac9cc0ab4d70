// Package cpu implements the Sharp LR35902 instruction set: fetch,
// decode, and execute, plus interrupt dispatch and the HALT power state.
// A Step returns the number of T-cycles the instruction consumed; the
// caller (internal/gameboy) advances the timer and PPU by that same
// count afterwards — the CPU never drives another component directly.
package cpu

import "github.com/corvidlabs/dmg-core/internal/interrupts"

// Bus is the subset of the MMU the CPU needs: a flat, 16-bit addressed
// byte-at-a-time memory.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Instruction is one entry of the opcode/CB-opcode tables. Cycles is the
// instruction's base T-cycle cost; Fn executes it and returns any extra
// cycles a taken conditional branch adds (0 for every other instruction).
type Instruction struct {
	Name   string
	Cycles uint8
	Fn     func(c *CPU) uint8
}

// CPU holds the full architectural state of the LR35902: its eight
// 8-bit registers (as four 16-bit pairs), the stack pointer, the program
// counter, the interrupt master enable flag, and the HALT/STOP power
// states.
type CPU struct {
	Registers
	SP uint16
	PC uint16

	IME     bool
	Halted  bool
	Stopped bool

	bus Bus
	irq *interrupts.Controller

	// OnError is invoked when the CPU fetches one of the 11 undefined
	// opcodes. It must be treated as terminal by the host; the CPU
	// makes no further guarantees about its own state afterwards.
	OnError func(kind string, pc uint16)
}

// New returns a CPU wired to the given bus and interrupt controller. Its
// registers are left zeroed; the caller is responsible for bringing it
// to either the boot-ROM entry state (PC=0, everything else zero) or the
// post-boot state of spec §7 scenario S1.
func New(bus Bus, irq *interrupts.Controller) *CPU {
	return &CPU{bus: bus, irq: irq}
}

// Reset clears all architectural state, equivalent to power-on before
// the boot ROM has run.
func (c *CPU) Reset() {
	c.Registers = Registers{}
	c.SP = 0
	c.PC = 0
	c.IME = false
	c.Halted = false
	c.Stopped = false
}

// Step services a pending interrupt or executes exactly one instruction,
// and returns the number of T-cycles consumed (4-24 for an instruction,
// 20 for interrupt dispatch, or a 4-cycle floor while halted with no
// interrupt pending).
func (c *CPU) Step() int {
	if c.Halted {
		if !c.irq.Pending() {
			return 4
		}
		// (IF & IE & 0x1F) != 0 wakes HALT regardless of IME; if IME is
		// false execution simply resumes without dispatching.
		c.Halted = false
	}

	if c.IME {
		if source, ok := c.irq.NextSource(); ok {
			c.IME = false
			c.push16(c.PC)
			c.PC = interrupts.Vectors[source]
			c.irq.Clear(source)
			return 20
		}
	}

	opcode := c.fetch()
	instr := opcodes[opcode]
	if instr.Fn == nil {
		if c.OnError != nil {
			c.OnError("InvalidOpcode", c.PC-1)
		}
		return int(instr.Cycles)
	}
	return int(instr.Cycles) + int(instr.Fn(c))
}

func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(v>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.bus.Read(c.SP)
	c.SP++
	hi := c.bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// readOperand8 reads one of the eight opcode-encoded register operands
// (000=B,001=C,010=D,011=E,100=H,101=L,110=(HL),111=A).
func (c *CPU) readOperand8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B()
	case 1:
		return c.C()
	case 2:
		return c.D()
	case 3:
		return c.E()
	case 4:
		return c.H()
	case 5:
		return c.L()
	case 6:
		return c.bus.Read(c.HL())
	default:
		return c.A()
	}
}

func (c *CPU) writeOperand8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.SetB(v)
	case 1:
		c.SetC(v)
	case 2:
		c.SetD(v)
	case 3:
		c.SetE(v)
	case 4:
		c.SetH(v)
	case 5:
		c.SetL(v)
	case 6:
		c.bus.Write(c.HL(), v)
	default:
		c.SetA(v)
	}
}
