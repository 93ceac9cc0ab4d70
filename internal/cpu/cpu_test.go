package cpu

import (
	"testing"

	"github.com/corvidlabs/dmg-core/internal/interrupts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(addr uint16) uint8       { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8)   { b.mem[addr] = v }

func newTestCPU() (*CPU, *testBus, *interrupts.Controller) {
	bus := &testBus{}
	irq := interrupts.NewController()
	c := New(bus, irq)
	return c, bus, irq
}

func (b *testBus) load(addr uint16, bytes ...uint8) {
	for i, v := range bytes {
		b.mem[addr+uint16(i)] = v
	}
}

func TestRegisterPairAccessors(t *testing.T) {
	var r Registers
	r.SetBC(0x1234)
	assert.Equal(t, uint8(0x12), r.B())
	assert.Equal(t, uint8(0x34), r.C())
	r.SetB(0xAB)
	assert.Equal(t, uint16(0xAB34), r.BC())
}

func TestFlagRegisterLowNibbleAlwaysZero(t *testing.T) {
	var r Registers
	r.SetF(0xFF)
	assert.Equal(t, uint8(0xF0), r.F())
}

func TestADDSetsHalfCarryAndCarry(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetA(0xFF)
	result := c.add8(c.A(), 0x01, false)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, c.flag(FlagZero))
	assert.True(t, c.flag(FlagHalfCarry))
	assert.True(t, c.flag(FlagCarry))
	assert.False(t, c.flag(FlagSubtract))
}

func TestSUBBorrowFlags(t *testing.T) {
	c, _, _ := newTestCPU()
	result := c.sub8(0x00, 0x01, false)
	assert.Equal(t, uint8(0xFF), result)
	assert.True(t, c.flag(FlagSubtract))
	assert.True(t, c.flag(FlagHalfCarry))
	assert.True(t, c.flag(FlagCarry))
}

func TestANDSetsHalfCarryClearsCarry(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetF(0xF0)
	result := c.and8(0xFF, 0x00)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, c.flag(FlagZero))
	assert.True(t, c.flag(FlagHalfCarry))
	assert.False(t, c.flag(FlagCarry))
}

func TestINCDECLeaveCarryUntouched(t *testing.T) {
	c, _, _ := newTestCPU()
	c.setFlag(FlagCarry)
	result := c.inc8(0xFF)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, c.flag(FlagZero))
	assert.True(t, c.flag(FlagCarry), "INC must not touch C")

	result = c.dec8(0x00)
	assert.Equal(t, uint8(0xFF), result)
	assert.True(t, c.flag(FlagCarry), "DEC must not touch C")
}

func TestAddHLSetsCarryFromBit15NotZ(t *testing.T) {
	c, _, _ := newTestCPU()
	c.setFlag(FlagZero)
	c.SetHL(0xFFFF)
	c.addHL16(0x0001)
	assert.Equal(t, uint16(0x0000), c.HL())
	assert.True(t, c.flag(FlagCarry))
	assert.True(t, c.flag(FlagHalfCarry))
	assert.True(t, c.flag(FlagZero), "ADD HL,r16 must not touch Z")
}

func TestAddSPSignedClearsZAndN(t *testing.T) {
	c, _, _ := newTestCPU()
	c.setFlag(FlagZero)
	c.setFlag(FlagSubtract)
	c.SP = 0x0005
	result := c.addSPSigned(-1)
	assert.Equal(t, uint16(0x0004), result)
	assert.False(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagSubtract))
}

// TestDAAAfterBCDAdd is scenario S5: A=0x45, B=0x38, ADD A,B then DAA.
func TestDAAAfterBCDAdd(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetA(0x45)
	c.SetB(0x38)
	instr := opcodes[0x80] // ADD A,B
	instr.Fn(c)
	assert.Equal(t, uint8(0x7D), c.A())
	assert.False(t, c.flag(FlagSubtract))

	daaInstr := opcodes[0x27]
	daaInstr.Fn(c)
	assert.Equal(t, uint8(0x83), c.A())
	assert.False(t, c.flag(FlagHalfCarry))
	assert.False(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagCarry))
}

func TestRLCAClearsZeroEvenWhenResultIsZero(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetA(0x00)
	opcodes[0x07].Fn(c) // RLCA
	assert.False(t, c.flag(FlagZero), "RLCA always clears Z")
}

func TestCBBitSetsZeroWhenBitClear(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetB(0x00)
	cbOpcodes[0x40].Fn(c) // BIT 0,B
	assert.True(t, c.flag(FlagZero))
	assert.True(t, c.flag(FlagHalfCarry))
	assert.False(t, c.flag(FlagSubtract))
}

func TestCBSetAndRes(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetB(0x00)
	cbOpcodes[0xC0].Fn(c) // SET 0,B
	assert.Equal(t, uint8(0x01), c.B())
	cbOpcodes[0x80].Fn(c) // RES 0,B
	assert.Equal(t, uint8(0x00), c.B())
}

func TestStepExecutesLDRegisterToRegister(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.load(0x0100, 0x47) // LD B,A
	c.PC = 0x0100
	c.SetA(0x99)
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint8(0x99), c.B())
	assert.Equal(t, uint16(0x0101), c.PC)
}

func TestStepLDMemoryOperandCosts8Cycles(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.SetHL(0xC000)
	bus.load(0x0100, 0x46) // LD B,(HL)
	bus.mem[0xC000] = 0x55
	c.PC = 0x0100
	cycles := c.Step()
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x55), c.B())
}

func TestStepJRTakenAddsFourCycles(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.load(0x0100, 0x18, 0x05) // JR +5
	c.PC = 0x0100
	cycles := c.Step()
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0x0107), c.PC)
}

func TestStepCBPrefixedTotalCycles(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.load(0x0100, 0xCB, 0x00) // RLC B
	c.PC = 0x0100
	c.SetB(0x80)
	cycles := c.Step()
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x01), c.B())
	assert.True(t, c.flag(FlagCarry))
}

func TestHALTWakesOnPendingInterruptRegardlessOfIME(t *testing.T) {
	c, bus, irq := newTestCPU()
	bus.load(0x0100, 0x76) // HALT
	c.PC = 0x0100
	c.IME = false
	c.Step()
	require.True(t, c.Halted)

	irq.Enable = 0x1F
	irq.Request(interrupts.TimerFlag)
	cycles := c.Step()
	assert.False(t, c.Halted)
	assert.Equal(t, 4, cycles, "IME false: resumes without dispatching")
}

func TestInterruptDispatchPushesPCAndClearsIME(t *testing.T) {
	c, _, irq := newTestCPU()
	c.PC = 0x1234
	c.SP = 0xFFFE
	c.IME = true
	irq.Enable = 0x1F
	irq.Request(interrupts.VBlankFlag)

	cycles := c.Step()
	assert.Equal(t, 20, cycles)
	assert.False(t, c.IME)
	assert.Equal(t, interrupts.Vectors[interrupts.VBlankFlag], c.PC)
	assert.Equal(t, uint8(0), irq.Flag&(1<<interrupts.VBlankFlag))
}

func TestPushPopRoundTrips(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SP = 0xFFFE
	c.SetBC(0xBEEF)
	opcodes[0xC5].Fn(c) // PUSH BC
	c.SetBC(0x0000)
	opcodes[0xC1].Fn(c) // POP BC
	assert.Equal(t, uint16(0xBEEF), c.BC())
	assert.Equal(t, uint16(0xFFFE), c.SP)
}

func TestCALLAndRETRoundTrip(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.PC = 0x0200
	c.SP = 0xFFFE
	bus.load(0x0200, 0xCD, 0x00, 0x01) // CALL 0x0100
	bus.load(0x0100, 0xC9)             // RET

	cycles := c.Step()
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0x0100), c.PC)

	cycles = c.Step()
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x0203), c.PC)
}

func TestInvalidOpcodeReportsOnError(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.load(0x0100, 0xD3)
	c.PC = 0x0100

	var gotKind string
	var gotPC uint16
	c.OnError = func(kind string, pc uint16) {
		gotKind = kind
		gotPC = pc
	}
	c.Step()
	assert.Equal(t, "InvalidOpcode", gotKind)
	assert.Equal(t, uint16(0x0100), gotPC)
}
