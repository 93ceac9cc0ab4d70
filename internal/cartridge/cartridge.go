package cartridge

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Cartridge combines a parsed Header with the MemoryBankController that
// virtualises its banking scheme, exposing the pair as a single unit a
// host wires into the address bus at 0x0000-0x7FFF / 0xA000-0xBFFF.
type Cartridge struct {
	MemoryBankController
	header Header
	md5    string
}

// Header returns the cartridge's parsed header fields.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge's title, trimmed of padding.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// MD5 returns the hex-encoded MD5 digest of the whole ROM image, suitable
// as a stable on-disk save-file name.
func (c *Cartridge) MD5() string {
	return c.md5
}

// Fingerprint returns a fast, non-cryptographic hash of the ROM image for
// use as an in-memory cache key (e.g. keying a compiled-tilemap or
// golden-frame cache across runs of the same ROM) — MD5 is the right
// choice for a durable save filename, xxhash for a hot-path lookup key.
func Fingerprint(rom []byte) uint64 {
	return xxhash.Sum64(rom)
}

// Load parses rom's header, validates its checksum, and constructs the
// MemoryBankController appropriate for its cartridge type. ram is the
// host-owned cart-RAM backing store; it may be nil for cartridges with no
// RAM banks. Load returns ErrInvalidHeader for a too-short ROM,
// ErrInvalidChecksum for a corrupt header, and ErrUnsupportedType for a
// cartridge-type byte naming an MBC kind this core does not model
// (spec.md §7).
func Load(rom []byte, ram CartRAM) (*Cartridge, error) {
	h, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}
	if !ValidChecksum(rom) {
		return nil, fmt.Errorf("%w: want %#02x, computed %#02x", ErrInvalidChecksum, h.HeaderChecksum, computeChecksum(rom))
	}

	mbc, err := NewController(h, FlatROMReader(rom), ram)
	if err != nil {
		return nil, err
	}

	hash := md5.Sum(rom)
	return &Cartridge{
		MemoryBankController: mbc,
		header:               h,
		md5:                  hex.EncodeToString(hash[:]),
	}, nil
}
