package ppu

import "sort"

// spriteHit describes one OAM entry selected for the current scanline.
type spriteHit struct {
	index          int
	rawY, rawX     uint8
	tile, attr     uint8
}

// composeLine renders the current LY into p.line, then (if a sink is
// installed) hands the finished line to the host. Background, window,
// and sprite layers are each resolved in full for the whole line — there
// is no pixel-FIFO or per-dot fetch state to carry across instructions.
func (p *PPU) composeLine() {
	for x := range p.line {
		p.line[x] = TagBG
		p.bgIndex[x] = 0
	}

	if p.lcdc&lcdcBGEnable != 0 {
		p.renderBackground()
	}
	if p.lcdc&lcdcWindowEnable != 0 {
		p.renderWindow()
	}
	if p.lcdc&lcdcOBJEnable != 0 {
		p.renderSprites()
	}

	if p.sink != nil {
		p.sink(&p.line, p.ly)
	}
}

func (p *PPU) tileDataAddr(tileID uint8, useUnsignedBlock bool) uint16 {
	if useUnsignedBlock {
		return 0x8000 + uint16(tileID)*16
	}
	return uint16(0x9000 + int(int8(tileID))*16)
}

func (p *PPU) tilePixel(tileDataAddr uint16, row, col uint8) uint8 {
	lo := p.vram[tileDataAddr-0x8000+uint16(row)*2]
	hi := p.vram[tileDataAddr-0x8000+uint16(row)*2+1]
	shift := 7 - col
	return ((hi>>shift)&1)<<1 | ((lo>>shift)&1)
}

func (p *PPU) renderBackground() {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcBGMap != 0 {
		mapBase = 0x9C00
	}
	unsignedTiles := p.lcdc&lcdcTileSelect != 0
	srcY := p.scy + p.ly

	for x := 0; x < screenWidth; x++ {
		srcX := p.scx + uint8(x)
		tileRow := srcY / 8
		tileCol := srcX / 8
		tileID := p.vram[mapBase-0x8000+uint16(tileRow)*32+uint16(tileCol)]
		addr := p.tileDataAddr(tileID, unsignedTiles)
		colorIdx := p.tilePixel(addr, srcY%8, srcX%8)
		p.bgIndex[x] = colorIdx
		p.line[x] = TagBG | p.bgPalette[colorIdx]
	}
}

func (p *PPU) renderWindow() {
	if p.ly < p.wyLatched || p.wx > 166 {
		return
	}
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowMap != 0 {
		mapBase = 0x9C00
	}
	unsignedTiles := p.lcdc&lcdcTileSelect != 0
	wx7 := int(p.wx) - 7
	drew := false

	for x := 0; x < screenWidth; x++ {
		winX := x - wx7
		if winX < 0 {
			continue
		}
		drew = true
		tileRow := p.windowLineCounter / 8
		tileCol := uint8(winX) / 8
		tileID := p.vram[mapBase-0x8000+uint16(tileRow)*32+uint16(tileCol)]
		addr := p.tileDataAddr(tileID, unsignedTiles)
		colorIdx := p.tilePixel(addr, p.windowLineCounter%8, uint8(winX)%8)
		p.bgIndex[x] = colorIdx
		p.line[x] = TagBG | p.bgPalette[colorIdx]
	}

	if drew {
		p.windowLineCounter++
	}
}

func (p *PPU) renderSprites() {
	height := uint8(8)
	if p.lcdc&lcdcOBJSize != 0 {
		height = 16
	}

	var hits []spriteHit
	for i := 0; i < 40; i++ {
		rawY := p.oam[i*4]
		diff := int(p.ly) + 16 - int(rawY)
		if diff < 0 || diff >= int(height) {
			continue
		}
		hits = append(hits, spriteHit{
			index: i,
			rawY:  rawY,
			rawX:  p.oam[i*4+1],
			tile:  p.oam[i*4+2],
			attr:  p.oam[i*4+3],
		})
	}

	// the 10 retained sprites are those with the lowest X on the whole
	// line, ties broken by OAM index — a global selection over every
	// on-line hit, not a first-10-scanned cutoff.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rawX != hits[j].rawX {
			return hits[i].rawX < hits[j].rawX
		}
		return hits[i].index < hits[j].index
	})
	if len(hits) > 10 {
		hits = hits[:10]
	}

	// draw back-to-front: highest X (and, on ties, higher OAM index)
	// first, so the lowest-X, lowest-index sprite is drawn last and
	// wins the pixel.
	for i := len(hits) - 1; i >= 0; i-- {
		p.drawSprite(hits[i], height)
	}
}

func (p *PPU) drawSprite(s spriteHit, height uint8) {
	flipY := s.attr&0x40 != 0
	flipX := s.attr&0x20 != 0
	behindBG := s.attr&0x80 != 0
	useOBP1 := s.attr&0x10 != 0

	tileRow := uint8(int(p.ly) + 16 - int(s.rawY))
	if flipY {
		tileRow = height - 1 - tileRow
	}
	tile := s.tile
	if height == 16 {
		tile &^= 0x01
		if tileRow >= 8 {
			tile++
			tileRow -= 8
		}
	}
	addr := 0x8000 + uint16(tile)*16

	for px := uint8(0); px < 8; px++ {
		screenX := int(s.rawX) - 8 + int(px)
		if screenX < 0 || screenX >= screenWidth {
			continue
		}
		col := px
		if flipX {
			col = 7 - px
		}
		colorIdx := p.tilePixel(addr, tileRow, col)
		if colorIdx == 0 {
			continue
		}
		if behindBG && p.bgIndex[screenX] != 0 {
			continue
		}
		palette, tag := p.obp0Palette, uint8(TagOBJ0)
		if useOBP1 {
			palette, tag = p.obp1Palette, TagOBJ1
		}
		p.line[screenX] = tag | palette[colorIdx]
	}
}
