package ppu

// spriteDims maps (shape, size) from OAM attr0/attr1 to pixel
// dimensions (spec.md §4.7.3).
var spriteDims = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},   // shape 0: square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},   // shape 1: horizontal
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},   // shape 2: vertical
}

type oamEntry struct {
	y           int
	affine      bool
	doubleOrOff bool
	objMode     int // 0 normal, 1 semi-transparent, 2 OBJ window
	is8bpp      bool
	shape       int
	x           int
	affineGroup int
	hflip, vflip bool
	size        int
	tileID      int
	priority    int
	palBank     int
}

func (p *PPU) readOAMEntry(i int) oamEntry {
	base := i * 8
	attr0 := uint16(p.oam[base]) | uint16(p.oam[base+1])<<8
	attr1 := uint16(p.oam[base+2]) | uint16(p.oam[base+3])<<8
	attr2 := uint16(p.oam[base+4]) | uint16(p.oam[base+5])<<8

	e := oamEntry{
		y:           int(attr0 & 0xFF),
		affine:      attr0&0x0100 != 0,
		doubleOrOff: attr0&0x0200 != 0,
		objMode:     int(attr0 >> 10 & 0x3),
		is8bpp:      attr0&0x2000 != 0,
		shape:       int(attr0 >> 14 & 0x3),
		x:           int(attr1 & 0x1FF),
		size:        int(attr1 >> 14 & 0x3),
		tileID:      int(attr2 & 0x3FF),
		priority:    int(attr2 >> 10 & 0x3),
		palBank:     int(attr2 >> 12 & 0xF),
	}
	if e.affine {
		e.affineGroup = int(attr1 >> 9 & 0x1F)
	} else {
		e.hflip = attr1&0x1000 != 0
		e.vflip = attr1&0x2000 != 0
	}
	return e
}

// affineParams reads one of the 32 OAM-resident rotation/scale
// matrices; group n is stored in the attr3 fields of the four
// consecutive entries 4n..4n+3 (spec.md §4.7.3).
func (p *PPU) affineParams(group int) (pa, pb, pc, pd int16) {
	read := func(entry int) int16 {
		off := entry*8 + 6
		return int16(uint16(p.oam[off]) | uint16(p.oam[off+1])<<8)
	}
	base := group * 4
	return read(base), read(base + 1), read(base + 2), read(base + 3)
}

// renderSprites scans all 128 OAM entries and composites the ones
// intersecting the current scanline into p.spriteLine.
func (p *PPU) renderSprites() {
	obj1D := p.obj1DMapping()

	for i := 0; i < 128; i++ {
		e := p.readOAMEntry(i)
		if !e.affine && e.doubleOrOff {
			continue // disabled, non-affine
		}
		w, h := spriteDims[e.shape][e.size][0], spriteDims[e.shape][e.size][1]
		boxW, boxH := w, h
		if e.affine && e.doubleOrOff {
			boxW, boxH = w*2, h*2
		}

		rowY := p.line - e.y
		if rowY < 0 {
			rowY += 256
		}
		if rowY >= boxH {
			continue
		}

		var pa, pb, pc, pd int16
		if e.affine {
			pa, pb, pc, pd = p.affineParams(e.affineGroup)
		} else {
			pa, pd = 0x100, 0x100
		}

		cx, cy := boxW/2, boxH/2
		relY := rowY - cy

		for sx := 0; sx < boxW; sx++ {
			screenX := e.x + sx
			if screenX >= 512 {
				screenX -= 512
			}
			if screenX >= ScreenWidth {
				continue
			}
			relX := sx - cx

			var texX, texY int
			if e.affine {
				texX = cx + (int(pa)*relX+int(pb)*relY)>>8
				texY = cy + (int(pc)*relX+int(pd)*relY)>>8
				if texX < 0 || texY < 0 || texX >= w || texY >= h {
					continue
				}
			} else {
				texX, texY = sx, rowY
				if e.hflip {
					texX = w - 1 - texX
				}
				if e.vflip {
					texY = h - 1 - texY
				}
			}

			color, opaque := p.fetchSpritePixel(e, texX, texY, w, obj1D)
			if !opaque {
				continue
			}

			existing := p.spriteLine[screenX]
			if existing.set && existing.priority <= uint8(e.priority) {
				continue
			}
			p.spriteLine[screenX] = spritePixel{
				color:     color,
				set:       true,
				priority:  uint8(e.priority),
				semiTrans: e.objMode == 1,
				isWindow:  e.objMode == 2,
			}
		}
	}
}

// fetchSpritePixel reads one texel from OBJ tile VRAM (0x06010000-
// 0x06017FFF), addressing tiles 1D or 2D per DISPCNT per spec.md
// §4.7.3.
func (p *PPU) fetchSpritePixel(e oamEntry, tx, ty, spriteW int, obj1D bool) (uint16, bool) {
	const objBase = 0x10000
	tileCol, tileRow := tx/8, ty/8
	tx8, ty8 := tx%8, ty%8

	var tileIndex int
	if e.is8bpp {
		tilesPerRow := 32
		if obj1D {
			tilesPerRow = spriteW / 8
		}
		tileIndex = e.tileID/2 + tileRow*tilesPerRow + tileCol
		addr := objBase + tileIndex*64 + ty8*8 + tx8
		if addr >= len(p.vram) {
			return 0, false
		}
		idx := p.vram[addr]
		if idx == 0 {
			return 0, false
		}
		return p.objPaletteColor(0, int(idx)), true
	}

	tilesPerRow := 32
	if obj1D {
		tilesPerRow = spriteW / 8
	}
	tileIndex = e.tileID + tileRow*tilesPerRow + tileCol
	addr := objBase + tileIndex*32 + ty8*4 + tx8/2
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
	return p.objPaletteColor(e.palBank, int(idx)), true
}
