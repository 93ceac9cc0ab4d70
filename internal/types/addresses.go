package types

// HardwareAddress represents the address of a hardware register of the
// Game Boy. The I/O registers are mapped to memory addresses 0xFF00-0xFF7F
// plus IE at 0xFFFF.
type HardwareAddress = uint16

const (
	// P1 selects the input keys to be read by the CPU, and reads back the
	// state of the joypad.
	P1 HardwareAddress = 0xFF00
	// SB is the serial transfer data register.
	SB HardwareAddress = 0xFF01
	// SC is the serial transfer control register.
	SC HardwareAddress = 0xFF02
	// DIV increments at 16384Hz; any write resets it to 0.
	DIV HardwareAddress = 0xFF04
	// TIMA increments at the rate selected by TAC. On overflow it is
	// reloaded from TMA and a timer interrupt is requested.
	TIMA HardwareAddress = 0xFF05
	// TMA holds the reload value for TIMA.
	TMA HardwareAddress = 0xFF06
	// TAC controls the timer: bits 0-1 select the rate, bit 2 enables it.
	TAC HardwareAddress = 0xFF07
	// IF is the interrupt flag register; the top three bits always read 1.
	IF HardwareAddress = 0xFF0F

	// NR10-NR52 is the 0xFF10-0xFF26 APU register window.
	NR10 HardwareAddress = 0xFF10
	NR52 HardwareAddress = 0xFF26
	// WaveRAMStart is the start of the 16-byte wave pattern RAM.
	WaveRAMStart HardwareAddress = 0xFF30
	WaveRAMEnd   HardwareAddress = 0xFF3F

	// LCDC is the LCD control register.
	LCDC HardwareAddress = 0xFF40
	// STAT is the LCD status register; bits 0-2 are read-only from the PPU.
	STAT HardwareAddress = 0xFF41
	// SCY, SCX are the background scroll registers.
	SCY HardwareAddress = 0xFF42
	SCX HardwareAddress = 0xFF43
	// LY is the current scanline (read-only).
	LY HardwareAddress = 0xFF44
	// LYC is the scanline compare register.
	LYC HardwareAddress = 0xFF45
	// DMA triggers a 160-byte OAM DMA transfer from (val<<8).
	DMA HardwareAddress = 0xFF46
	// BGP, OBP0, OBP1 are the monochrome palette registers.
	BGP  HardwareAddress = 0xFF47
	OBP0 HardwareAddress = 0xFF48
	OBP1 HardwareAddress = 0xFF49
	// WY, WX are the window position registers.
	WY HardwareAddress = 0xFF4A
	WX HardwareAddress = 0xFF4B

	// BOOT disables the boot ROM overlay when written with a nonzero value.
	BOOT HardwareAddress = 0xFF50

	// IE is the interrupt enable register.
	IE HardwareAddress = 0xFFFF
)
