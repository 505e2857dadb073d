package ppu

// Text-mode background sizes (BGxCNT bits 14-15): tile-grid dimensions
// and the screen-block layout used to find a tile map entry.
var textSizeTiles = [4][2]int{
	{32, 32}, // 0: 256x256 px
	{64, 32}, // 1: 512x256 px
	{32, 64}, // 2: 256x512 px
	{64, 64}, // 3: 512x512 px
}

// renderTextBG renders one regular (text) background's current
// scanline into p.bgLine[bg], per spec.md §4.7.1.
func (p *PPU) renderTextBG(bg int) {
	cnt := p.regs.bg[bg].cnt
	screenBase := int(cnt>>8&0x1F) * 0x800
	charBase := int(cnt>>2&0x3) * 0x4000
	is8bpp := cnt&0x80 != 0
	size := int(cnt >> 14 & 0x3)
	tilesW, tilesH := textSizeTiles[size][0], textSizeTiles[size][1]
	widthPx, heightPx := tilesW*8, tilesH*8
	blockCols := 1
	if tilesW == 64 {
		blockCols = 2
	}

	hofs := int(p.regs.bg[bg].hofs)
	vofs := int(p.regs.bg[bg].vofs)
	py := (p.line + vofs) % heightPx

	for x := 0; x < ScreenWidth; x++ {
		px := (x + hofs) % widthPx

		tx, ty := px/8, py/8
		blockX, blockY := tx/32, ty/32
		localTx, localTy := tx%32, ty%32
		scIndex := blockY*blockCols + blockX

		entryAddr := screenBase + scIndex*0x800 + 2*(32*localTy+localTx)
		entry := uint16(p.vram[entryAddr]) | uint16(p.vram[entryAddr+1])<<8

		tileID := int(entry & 0x3FF)
		hflip := entry&0x0400 != 0
		vflip := entry&0x0800 != 0
		palBank := int(entry >> 12 & 0xF)

		tx8, ty8 := px%8, py%8
		if hflip {
			tx8 = 7 - tx8
		}
		if vflip {
			ty8 = 7 - ty8
		}

		color, opaque := p.fetchTilePixel(charBase, tileID, tx8, ty8, is8bpp, palBank)
		if opaque {
			p.bgLine[bg][x] = bgPixel{color: color, set: true}
		}
	}
}

// fetchTilePixel reads one texel from a 4bpp or 8bpp tile and resolves
// it through palette RAM. Returns opaque=false for palette index 0.
func (p *PPU) fetchTilePixel(charBase, tileID, tx8, ty8 int, is8bpp bool, palBank int) (uint16, bool) {
	if is8bpp {
		tileSize := 64
		addr := charBase + tileID*tileSize + ty8*8 + tx8
		if addr >= len(p.vram) {
			return 0, false
		}
		idx := p.vram[addr]
		if idx == 0 {
			return 0, false
		}
		return p.paletteColor(0, int(idx)), true
	}
	tileSize := 32
	addr := charBase + tileID*tileSize + ty8*4 + tx8/2
	if addr >= len(p.vram) {
		return 0, false
	}
	b := p.vram[addr]
	var idx uint8
	if tx8%2 == 0 {
		idx = b & 0xF
	} else {
		idx = b >> 4
	}
	if idx == 0 {
		return 0, false
	}
	return p.paletteColor(palBank, int(idx)), true
}

// paletteColor reads a 16-bit BGR555 color from BG palette RAM. bank
// is ignored (bank 0) for 8bpp lookups.
func (p *PPU) paletteColor(bank, idx int) uint16 {
	offset := (bank*16 + idx) * 2
	if offset+1 >= len(p.palette) {
		return 0
	}
	return uint16(p.palette[offset]) | uint16(p.palette[offset+1])<<8
}

// objPaletteColor is the sprite-palette equivalent (palette RAM's
// second 512-byte half).
func (p *PPU) objPaletteColor(bank, idx int) uint16 {
	offset := 0x200 + (bank*16+idx)*2
	if offset+1 >= len(p.palette) {
		return 0
	}
	return uint16(p.palette[offset]) | uint16(p.palette[offset+1])<<8
}

// affineSizeTiles maps BGxCNT's size field, in affine mode, to a
// square tile-grid edge length.
var affineSizeTiles = [4]int{16, 32, 64, 128}

// renderAffineBG renders one rotation/scaling background, per spec.md
// §4.7.1: texture coordinates step by PA/PC per pixel from the
// internal reference point, which itself advances by PB/PD per
// scanline (handled in advanceAffineReference).
func (p *PPU) renderAffineBG(bg int) {
	cnt := p.regs.bg[bg].cnt
	screenBase := int(cnt>>8&0x1F) * 0x800
	charBase := int(cnt>>2&0x3) * 0x4000
	size := int(cnt >> 14 & 0x3)
	tiles := affineSizeTiles[size]
	pixels := tiles * 8
	wrap := cnt&0x2000 != 0

	a := &p.regs.affine[affineIndex(bg)]
	texX := a.ix
	texY := a.iy

	for x := 0; x < ScreenWidth; x++ {
		fx := texX + int32(x)*int32(a.pa)
		fy := texY + int32(x)*int32(a.pc)
		tx := int(fx >> 8)
		ty := int(fy >> 8)

		if wrap {
			tx = ((tx % pixels) + pixels) % pixels
			ty = ((ty % pixels) + pixels) % pixels
		} else if tx < 0 || ty < 0 || tx >= pixels || ty >= pixels {
			continue
		}

		tileX, tileY := tx/8, ty/8
		tileAddr := screenBase + tileY*tiles + tileX
		if tileAddr >= len(p.vram) {
			continue
		}
		tileID := int(p.vram[tileAddr])

		color, opaque := p.fetchTilePixel(charBase, tileID, tx%8, ty%8, true, 0)
		if opaque {
			p.bgLine[bg][x] = bgPixel{color: color, set: true}
		}
	}
}
