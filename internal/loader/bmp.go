package loader

import (
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/bmp"
)

// Palette maps a composed pixel's 2-bit shade (bits 0-1 of the byte
// internal/ppu.LineSink hands a host) to an RGB triple. The host
// chooses which palette to dump with; the shade value itself carries
// no color information of its own.
type Palette [4][3]uint8

// Greyscale is the default palette: white through black.
var Greyscale = Palette{
	{0xFF, 0xFF, 0xFF},
	{0xCC, 0xCC, 0xCC},
	{0x77, 0x77, 0x77},
	{0x00, 0x00, 0x00},
}

// DMGGreen approximates the original DMG's green-tinted LCD.
var DMGGreen = Palette{
	{0x9B, 0xBC, 0x0F},
	{0x8B, 0xAC, 0x0F},
	{0x30, 0x62, 0x30},
	{0x0F, 0x38, 0x0F},
}

const (
	screenWidth  = 160
	screenHeight = 144
)

// Frame accumulates the scanlines a gameboy.GameBoy hands to
// internal/ppu.LineSink into one 160x144 buffer, ready for
// DumpBMP. Sink is the LineSink-shaped callback to hand to
// gameboy.WithLineSink.
type Frame struct {
	rows [screenHeight][screenWidth]uint8
}

// NewFrame returns an empty frame buffer.
func NewFrame() *Frame {
	return &Frame{}
}

// Sink stores one composed scanline. Its signature matches
// internal/ppu.LineSink; callers pass it directly to
// gameboy.WithLineSink without an adapter.
func (fr *Frame) Sink(pixels *[screenWidth]uint8, line uint8) {
	if int(line) >= screenHeight {
		return
	}
	fr.rows[line] = *pixels
}

// DumpBMP encodes the accumulated frame as a BMP using pal, writing it
// to w. Only the low two bits of each stored pixel (the shade) select
// the color; the palette tag in bits 4-5 is discarded, matching the
// host's responsibility to recolor by tag if it wants per-layer
// palettes instead of one flat one.
func (fr *Frame) DumpBMP(w io.Writer, pal Palette) error {
	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			shade := fr.rows[y][x] & 0x03
			rgb := pal[shade]
			img.Set(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF})
		}
	}
	return bmp.Encode(w, img)
}

// DumpBMPFile is a convenience wrapper around DumpBMP that creates (or
// truncates) path.
func (fr *Frame) DumpBMPFile(path string, pal Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fr.DumpBMP(f, pal)
}
