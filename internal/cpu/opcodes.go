package cpu

// opcodes is the base instruction table, indexed by the fetched opcode
// byte. Entries left as the zero Instruction are the 11 undefined
// opcodes (0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC,
// 0xFD); Step reports these through OnError rather than executing them.
var opcodes [256]Instruction

var regName8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func operandCycles(idx uint8, registerCost, memoryCost uint8) uint8 {
	if idx == 6 {
		return memoryCost
	}
	return registerCost
}

func init() {
	opcodes[0x00] = Instruction{"NOP", 4, func(c *CPU) uint8 { return 0 }}
	opcodes[0x10] = Instruction{"STOP", 4, func(c *CPU) uint8 { c.fetch(); c.Stopped = true; return 0 }}
	opcodes[0x76] = Instruction{"HALT", 4, func(c *CPU) uint8 { c.Halted = true; return 0 }}
	opcodes[0xF3] = Instruction{"DI", 4, func(c *CPU) uint8 { c.IME = false; return 0 }}
	opcodes[0xFB] = Instruction{"EI", 4, func(c *CPU) uint8 { c.IME = true; return 0 }}
	opcodes[0x27] = Instruction{"DAA", 4, func(c *CPU) uint8 { c.daa(); return 0 }}
	opcodes[0x2F] = Instruction{"CPL", 4, func(c *CPU) uint8 { c.cpl(); return 0 }}
	opcodes[0x37] = Instruction{"SCF", 4, func(c *CPU) uint8 { c.scf(); return 0 }}
	opcodes[0x3F] = Instruction{"CCF", 4, func(c *CPU) uint8 { c.ccf(); return 0 }}
	// The two-byte CB-prefixed form's total cost (8/12/16, depending on
	// the sub-opcode) already accounts for the prefix fetch; 0xCB itself
	// contributes no separate base cost.
	opcodes[0xCB] = Instruction{"PREFIX CB", 0, func(c *CPU) uint8 {
		sub := cbOpcodes[c.fetch()]
		return sub.Cycles + sub.Fn(c)
	}}

	initLoad16Immediates()
	initLoadIndirectA()
	initIncDec16()
	initAddHL16()
	initIncDecRegister8()
	initLoadRegister8Immediate()
	initRotateAccumulator()
	initLoadSPIndirect()
	initJumpRelative()
	initLoadRegisterToRegister()
	initALURegister()
	initALUImmediate()
	initStackAndControlFlow()
	initMiscLoads()
}

func initLoad16Immediates() {
	entry := func(name string, set func(c *CPU, v uint16)) func(c *CPU) uint8 {
		return func(c *CPU) uint8 {
			set(c, c.fetch16())
			return 0
		}
	}
	opcodes[0x01] = Instruction{"LD BC,d16", 12, entry("LD BC,d16", func(c *CPU, v uint16) { c.SetBC(v) })}
	opcodes[0x11] = Instruction{"LD DE,d16", 12, entry("LD DE,d16", func(c *CPU, v uint16) { c.SetDE(v) })}
	opcodes[0x21] = Instruction{"LD HL,d16", 12, entry("LD HL,d16", func(c *CPU, v uint16) { c.SetHL(v) })}
	opcodes[0x31] = Instruction{"LD SP,d16", 12, entry("LD SP,d16", func(c *CPU, v uint16) { c.SP = v })}
}

func initLoadIndirectA() {
	opcodes[0x02] = Instruction{"LD (BC),A", 8, func(c *CPU) uint8 { c.bus.Write(c.BC(), c.A()); return 0 }}
	opcodes[0x12] = Instruction{"LD (DE),A", 8, func(c *CPU) uint8 { c.bus.Write(c.DE(), c.A()); return 0 }}
	opcodes[0x0A] = Instruction{"LD A,(BC)", 8, func(c *CPU) uint8 { c.SetA(c.bus.Read(c.BC())); return 0 }}
	opcodes[0x1A] = Instruction{"LD A,(DE)", 8, func(c *CPU) uint8 { c.SetA(c.bus.Read(c.DE())); return 0 }}
	opcodes[0x22] = Instruction{"LD (HL+),A", 8, func(c *CPU) uint8 {
		c.bus.Write(c.HL(), c.A())
		c.SetHL(c.HL() + 1)
		return 0
	}}
	opcodes[0x32] = Instruction{"LD (HL-),A", 8, func(c *CPU) uint8 {
		c.bus.Write(c.HL(), c.A())
		c.SetHL(c.HL() - 1)
		return 0
	}}
	opcodes[0x2A] = Instruction{"LD A,(HL+)", 8, func(c *CPU) uint8 {
		c.SetA(c.bus.Read(c.HL()))
		c.SetHL(c.HL() + 1)
		return 0
	}}
	opcodes[0x3A] = Instruction{"LD A,(HL-)", 8, func(c *CPU) uint8 {
		c.SetA(c.bus.Read(c.HL()))
		c.SetHL(c.HL() - 1)
		return 0
	}}
}

func initIncDec16() {
	pairs := []struct {
		op     uint8
		delta  int
		get    func(c *CPU) uint16
		set    func(c *CPU, v uint16)
		name   string
	}{
		{0x03, 1, (*CPU).BC, (*CPU).SetBC, "INC BC"},
		{0x13, 1, (*CPU).DE, (*CPU).SetDE, "INC DE"},
		{0x23, 1, (*CPU).HL, (*CPU).SetHL, "INC HL"},
		{0x0B, -1, (*CPU).BC, (*CPU).SetBC, "DEC BC"},
		{0x1B, -1, (*CPU).DE, (*CPU).SetDE, "DEC DE"},
		{0x2B, -1, (*CPU).HL, (*CPU).SetHL, "DEC HL"},
	}
	for _, p := range pairs {
		p := p
		opcodes[p.op] = Instruction{p.name, 8, func(c *CPU) uint8 {
			p.set(c, uint16(int32(p.get(c))+int32(p.delta)))
			return 0
		}}
	}
	opcodes[0x33] = Instruction{"INC SP", 8, func(c *CPU) uint8 { c.SP++; return 0 }}
	opcodes[0x3B] = Instruction{"DEC SP", 8, func(c *CPU) uint8 { c.SP--; return 0 }}
}

func initAddHL16() {
	opcodes[0x09] = Instruction{"ADD HL,BC", 8, func(c *CPU) uint8 { c.addHL16(c.BC()); return 0 }}
	opcodes[0x19] = Instruction{"ADD HL,DE", 8, func(c *CPU) uint8 { c.addHL16(c.DE()); return 0 }}
	opcodes[0x29] = Instruction{"ADD HL,HL", 8, func(c *CPU) uint8 { c.addHL16(c.HL()); return 0 }}
	opcodes[0x39] = Instruction{"ADD HL,SP", 8, func(c *CPU) uint8 { c.addHL16(c.SP); return 0 }}
}

// initIncDecRegister8 wires INC/DEC for each of the 8 operand slots,
// reusing the same register-index decoder the 0x40-0xBF blocks use.
func initIncDecRegister8() {
	for idx := uint8(0); idx < 8; idx++ {
		if idx == 6 {
			continue // (HL) handled below with its own cycle cost
		}
		idx := idx
		incOp := 0x04 + idx<<3
		decOp := 0x05 + idx<<3
		opcodes[incOp] = Instruction{"INC " + regName8[idx], 4, func(c *CPU) uint8 {
			c.writeOperand8(idx, c.inc8(c.readOperand8(idx)))
			return 0
		}}
		opcodes[decOp] = Instruction{"DEC " + regName8[idx], 4, func(c *CPU) uint8 {
			c.writeOperand8(idx, c.dec8(c.readOperand8(idx)))
			return 0
		}}
	}
	opcodes[0x34] = Instruction{"INC (HL)", 12, func(c *CPU) uint8 {
		c.bus.Write(c.HL(), c.inc8(c.bus.Read(c.HL())))
		return 0
	}}
	opcodes[0x35] = Instruction{"DEC (HL)", 12, func(c *CPU) uint8 {
		c.bus.Write(c.HL(), c.dec8(c.bus.Read(c.HL())))
		return 0
	}}
}

func initLoadRegister8Immediate() {
	for idx := uint8(0); idx < 8; idx++ {
		idx := idx
		op := 0x06 + idx<<3
		opcodes[op] = Instruction{"LD " + regName8[idx] + ",d8", operandCycles(idx, 8, 12), func(c *CPU) uint8 {
			c.writeOperand8(idx, c.fetch())
			return 0
		}}
	}
}

func initRotateAccumulator() {
	// RLCA/RRCA/RLA/RRA always clear Z, unlike their CB-table counterparts.
	opcodes[0x07] = Instruction{"RLCA", 4, func(c *CPU) uint8 { c.SetA(c.rlc(c.A())); c.clearFlag(FlagZero); return 0 }}
	opcodes[0x0F] = Instruction{"RRCA", 4, func(c *CPU) uint8 { c.SetA(c.rrc(c.A())); c.clearFlag(FlagZero); return 0 }}
	opcodes[0x17] = Instruction{"RLA", 4, func(c *CPU) uint8 { c.SetA(c.rl(c.A())); c.clearFlag(FlagZero); return 0 }}
	opcodes[0x1F] = Instruction{"RRA", 4, func(c *CPU) uint8 { c.SetA(c.rr(c.A())); c.clearFlag(FlagZero); return 0 }}
}

func initLoadSPIndirect() {
	opcodes[0x08] = Instruction{"LD (a16),SP", 20, func(c *CPU) uint8 {
		addr := c.fetch16()
		c.bus.Write(addr, uint8(c.SP))
		c.bus.Write(addr+1, uint8(c.SP>>8))
		return 0
	}}
}

func initJumpRelative() {
	jr := func(name string, cond func(c *CPU) bool) Instruction {
		return Instruction{name, 8, func(c *CPU) uint8 {
			e := int8(c.fetch())
			if cond != nil && !cond(c) {
				return 0
			}
			c.PC = uint16(int32(c.PC) + int32(e))
			return 4
		}}
	}
	opcodes[0x18] = jr("JR r8", nil)
	opcodes[0x20] = jr("JR NZ,r8", func(c *CPU) bool { return !c.flag(FlagZero) })
	opcodes[0x28] = jr("JR Z,r8", func(c *CPU) bool { return c.flag(FlagZero) })
	opcodes[0x30] = jr("JR NC,r8", func(c *CPU) bool { return !c.flag(FlagCarry) })
	opcodes[0x38] = jr("JR C,r8", func(c *CPU) bool { return c.flag(FlagCarry) })
}

// initLoadRegisterToRegister fills 0x40-0x7F, the 8x8 LD r,r' block
// (0x76 is HALT, set in init and skipped here).
func initLoadRegisterToRegister() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			dst, src := dst, src
			op := 0x40 + dst<<3 + src
			if op == 0x76 {
				continue
			}
			name := "LD " + regName8[dst] + "," + regName8[src]
			opcodes[op] = Instruction{name, operandCycles(dst, operandCycles(src, 4, 8), 8), func(c *CPU) uint8 {
				c.writeOperand8(dst, c.readOperand8(src))
				return 0
			}}
		}
	}
}

// initALURegister fills 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r.
func initALURegister() {
	ops := []struct {
		name string
		fn   func(c *CPU, v uint8)
	}{
		{"ADD", func(c *CPU, v uint8) { c.SetA(c.add8(c.A(), v, false)) }},
		{"ADC", func(c *CPU, v uint8) { c.SetA(c.add8(c.A(), v, c.flag(FlagCarry))) }},
		{"SUB", func(c *CPU, v uint8) { c.SetA(c.sub8(c.A(), v, false)) }},
		{"SBC", func(c *CPU, v uint8) { c.SetA(c.sub8(c.A(), v, c.flag(FlagCarry))) }},
		{"AND", func(c *CPU, v uint8) { c.SetA(c.and8(c.A(), v)) }},
		{"XOR", func(c *CPU, v uint8) { c.SetA(c.xor8(c.A(), v)) }},
		{"OR", func(c *CPU, v uint8) { c.SetA(c.or8(c.A(), v)) }},
		{"CP", func(c *CPU, v uint8) { c.cp8(c.A(), v) }},
	}
	for group, o := range ops {
		for src := uint8(0); src < 8; src++ {
			group, o, src := group, o, src
			op := 0x80 + uint8(group)<<3 + src
			name := o.name + " A," + regName8[src]
			opcodes[op] = Instruction{name, operandCycles(src, 4, 8), func(c *CPU) uint8 {
				o.fn(c, c.readOperand8(src))
				return 0
			}}
		}
	}
}

func initALUImmediate() {
	opcodes[0xC6] = Instruction{"ADD A,d8", 8, func(c *CPU) uint8 { c.SetA(c.add8(c.A(), c.fetch(), false)); return 0 }}
	opcodes[0xCE] = Instruction{"ADC A,d8", 8, func(c *CPU) uint8 { c.SetA(c.add8(c.A(), c.fetch(), c.flag(FlagCarry))); return 0 }}
	opcodes[0xD6] = Instruction{"SUB d8", 8, func(c *CPU) uint8 { c.SetA(c.sub8(c.A(), c.fetch(), false)); return 0 }}
	opcodes[0xDE] = Instruction{"SBC A,d8", 8, func(c *CPU) uint8 { c.SetA(c.sub8(c.A(), c.fetch(), c.flag(FlagCarry))); return 0 }}
	opcodes[0xE6] = Instruction{"AND d8", 8, func(c *CPU) uint8 { c.SetA(c.and8(c.A(), c.fetch())); return 0 }}
	opcodes[0xEE] = Instruction{"XOR d8", 8, func(c *CPU) uint8 { c.SetA(c.xor8(c.A(), c.fetch())); return 0 }}
	opcodes[0xF6] = Instruction{"OR d8", 8, func(c *CPU) uint8 { c.SetA(c.or8(c.A(), c.fetch())); return 0 }}
	opcodes[0xFE] = Instruction{"CP d8", 8, func(c *CPU) uint8 { c.cp8(c.A(), c.fetch()); return 0 }}
}

func initStackAndControlFlow() {
	push := func(name string, get func(c *CPU) uint16) Instruction {
		return Instruction{name, 16, func(c *CPU) uint8 { c.push16(get(c)); return 0 }}
	}
	pop := func(name string, set func(c *CPU, v uint16)) Instruction {
		return Instruction{name, 12, func(c *CPU) uint8 { set(c, c.pop16()); return 0 }}
	}
	opcodes[0xC5] = push("PUSH BC", (*CPU).BC)
	opcodes[0xD5] = push("PUSH DE", (*CPU).DE)
	opcodes[0xE5] = push("PUSH HL", (*CPU).HL)
	opcodes[0xF5] = push("PUSH AF", (*CPU).AF)
	opcodes[0xC1] = pop("POP BC", (*CPU).SetBC)
	opcodes[0xD1] = pop("POP DE", (*CPU).SetDE)
	opcodes[0xE1] = pop("POP HL", (*CPU).SetHL)
	opcodes[0xF1] = pop("POP AF", (*CPU).SetAF)

	jp := func(name string, cond func(c *CPU) bool) Instruction {
		return Instruction{name, 12, func(c *CPU) uint8 {
			addr := c.fetch16()
			if cond != nil && !cond(c) {
				return 0
			}
			c.PC = addr
			return 4
		}}
	}
	opcodes[0xC3] = Instruction{"JP a16", 16, func(c *CPU) uint8 { c.PC = c.fetch16(); return 0 }}
	opcodes[0xC2] = jp("JP NZ,a16", func(c *CPU) bool { return !c.flag(FlagZero) })
	opcodes[0xCA] = jp("JP Z,a16", func(c *CPU) bool { return c.flag(FlagZero) })
	opcodes[0xD2] = jp("JP NC,a16", func(c *CPU) bool { return !c.flag(FlagCarry) })
	opcodes[0xDA] = jp("JP C,a16", func(c *CPU) bool { return c.flag(FlagCarry) })
	opcodes[0xE9] = Instruction{"JP (HL)", 4, func(c *CPU) uint8 { c.PC = c.HL(); return 0 }}

	call := func(name string, cond func(c *CPU) bool) Instruction {
		return Instruction{name, 12, func(c *CPU) uint8 {
			addr := c.fetch16()
			if cond != nil && !cond(c) {
				return 0
			}
			c.push16(c.PC)
			c.PC = addr
			return 12
		}}
	}
	opcodes[0xCD] = Instruction{"CALL a16", 24, func(c *CPU) uint8 {
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 0
	}}
	opcodes[0xC4] = call("CALL NZ,a16", func(c *CPU) bool { return !c.flag(FlagZero) })
	opcodes[0xCC] = call("CALL Z,a16", func(c *CPU) bool { return c.flag(FlagZero) })
	opcodes[0xD4] = call("CALL NC,a16", func(c *CPU) bool { return !c.flag(FlagCarry) })
	opcodes[0xDC] = call("CALL C,a16", func(c *CPU) bool { return c.flag(FlagCarry) })

	ret := func(name string, cond func(c *CPU) bool) Instruction {
		return Instruction{name, 8, func(c *CPU) uint8 {
			if cond != nil && !cond(c) {
				return 0
			}
			c.PC = c.pop16()
			return 12
		}}
	}
	opcodes[0xC9] = Instruction{"RET", 16, func(c *CPU) uint8 { c.PC = c.pop16(); return 0 }}
	opcodes[0xD9] = Instruction{"RETI", 16, func(c *CPU) uint8 { c.PC = c.pop16(); c.IME = true; return 0 }}
	opcodes[0xC0] = ret("RET NZ", func(c *CPU) bool { return !c.flag(FlagZero) })
	opcodes[0xC8] = ret("RET Z", func(c *CPU) bool { return c.flag(FlagZero) })
	opcodes[0xD0] = ret("RET NC", func(c *CPU) bool { return !c.flag(FlagCarry) })
	opcodes[0xD8] = ret("RET C", func(c *CPU) bool { return c.flag(FlagCarry) })

	for i := uint8(0); i < 8; i++ {
		i := i
		vector := uint16(i) * 8
		opcodes[0xC7+i<<3] = Instruction{"RST", 16, func(c *CPU) uint8 {
			c.push16(c.PC)
			c.PC = vector
			return 0
		}}
	}
}

func initMiscLoads() {
	opcodes[0xE0] = Instruction{"LDH (a8),A", 12, func(c *CPU) uint8 {
		c.bus.Write(0xFF00+uint16(c.fetch()), c.A())
		return 0
	}}
	opcodes[0xF0] = Instruction{"LDH A,(a8)", 12, func(c *CPU) uint8 {
		c.SetA(c.bus.Read(0xFF00 + uint16(c.fetch())))
		return 0
	}}
	opcodes[0xE2] = Instruction{"LD (C),A", 8, func(c *CPU) uint8 {
		c.bus.Write(0xFF00+uint16(c.C()), c.A())
		return 0
	}}
	opcodes[0xF2] = Instruction{"LD A,(C)", 8, func(c *CPU) uint8 {
		c.SetA(c.bus.Read(0xFF00 + uint16(c.C())))
		return 0
	}}
	opcodes[0xEA] = Instruction{"LD (a16),A", 16, func(c *CPU) uint8 {
		c.bus.Write(c.fetch16(), c.A())
		return 0
	}}
	opcodes[0xFA] = Instruction{"LD A,(a16)", 16, func(c *CPU) uint8 {
		c.SetA(c.bus.Read(c.fetch16()))
		return 0
	}}
	opcodes[0xE8] = Instruction{"ADD SP,r8", 16, func(c *CPU) uint8 {
		c.SP = c.addSPSigned(int8(c.fetch()))
		return 0
	}}
	opcodes[0xF8] = Instruction{"LD HL,SP+r8", 12, func(c *CPU) uint8 {
		c.SetHL(c.addSPSigned(int8(c.fetch())))
		return 0
	}}
	opcodes[0xF9] = Instruction{"LD SP,HL", 8, func(c *CPU) uint8 { c.SP = c.HL(); return 0 }}
}
