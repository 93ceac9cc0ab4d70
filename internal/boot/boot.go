// Package boot provides the DMG boot ROM: the 256-byte program mapped to
// 0x0000-0x00FF from power-on until the game writes to IO_BOOT (0xFF50),
// after which it is permanently invisible for the life of the context.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Size is the length in bytes of the DMG boot ROM.
const Size = 256

// ROM is a boot ROM image together with its MD5 checksum, used to
// identify which physical boot ROM variant was supplied.
type ROM struct {
	raw      []byte
	checksum string
}

// Load wraps a 256-byte DMG boot ROM image. It panics if b is not exactly
// Size bytes long — a malformed boot ROM is a caller error, not a
// run-time condition the core recovers from.
func Load(b []byte) *ROM {
	if len(b) != Size {
		panic(fmt.Sprintf("boot: invalid boot rom length: %d", len(b)))
	}
	sum := md5.Sum(b)
	return &ROM{raw: b, checksum: hex.EncodeToString(sum[:])}
}

// Read returns the byte at the given address (0x0000-0x00FF).
func (b *ROM) Read(addr uint16) uint8 {
	return b.raw[addr]
}

// Checksum returns the hex-encoded MD5 digest of the boot ROM image.
func (b *ROM) Checksum() string {
	if b == nil {
		return ""
	}
	return b.checksum
}

// Model identifies the boot ROM variant by its checksum, or "unknown" if
// it does not match a known dump.
func (b *ROM) Model() string {
	if b == nil {
		return "none"
	}
	if model, ok := knownChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

var knownChecksums = map[string]string{
	DMG0: "Game Boy (DMG-0)",
	DMG:  "Game Boy (DMG-01)",
	MGB:  "Game Boy Pocket",
}

const (
	// DMG0 is the checksum of the early DMG boot ROM variant found in a
	// handful of Japan-only launch units; on a failed Nintendo-logo
	// check it flashes the screen rather than hanging.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the common DMG-01 boot ROM.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB is the checksum of the Game Boy Pocket boot ROM, which differs
	// from DMG by loading 0xFF into A instead of 0x01 so a game can
	// detect MGB hardware.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
)
