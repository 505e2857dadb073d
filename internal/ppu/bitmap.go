package ppu

// renderBitmap handles display modes 3-5, which write directly into
// the final framebuffer and skip background/sprite composition
// entirely (spec.md §4.7.2).
func (p *PPU) renderBitmap(mode int) {
	switch mode {
	case 3:
		p.renderMode3()
	case 4:
		p.renderMode4()
	case 5:
		p.renderMode5()
	}
}

// Mode 3: full-resolution 240x160 direct-color bitmap, one frame, BG2
// only.
func (p *PPU) renderMode3() {
	base := p.line * ScreenWidth * 2
	row := p.line * ScreenWidth
	for x := 0; x < ScreenWidth; x++ {
		addr := base + x*2
		if addr+1 >= len(p.vram) {
			break
		}
		color := uint16(p.vram[addr]) | uint16(p.vram[addr+1])<<8
		p.Framebuffer[row+x] = color
	}
}

// Mode 4: full-resolution 240x160 paletted bitmap, two page-flipped
// frames, BG2 only.
func (p *PPU) renderMode4() {
	frameBase := p.frameSelect() * 0xA000
	base := frameBase + p.line*ScreenWidth
	row := p.line * ScreenWidth
	for x := 0; x < ScreenWidth; x++ {
		addr := base + x
		if addr >= len(p.vram) {
			break
		}
		idx := p.vram[addr]
		p.Framebuffer[row+x] = p.paletteColor(0, int(idx))
	}
}

// Mode 5: reduced-resolution (160x128) direct-color bitmap, two
// page-flipped frames, BG2 only. Rows/columns outside the bitmap's
// bounds show backdrop color (palette index 0).
func (p *PPU) renderMode5() {
	const bmW, bmH = 160, 128
	row := p.line * ScreenWidth
	if p.line >= bmH {
		backdrop := p.paletteColor(0, 0)
		for x := 0; x < ScreenWidth; x++ {
			p.Framebuffer[row+x] = backdrop
		}
		return
	}
	frameBase := p.frameSelect() * 0xA000
	base := frameBase + p.line*bmW*2
	backdrop := p.paletteColor(0, 0)
	for x := 0; x < ScreenWidth; x++ {
		if x >= bmW {
			p.Framebuffer[row+x] = backdrop
			continue
		}
		addr := base + x*2
		if addr+1 >= len(p.vram) {
			break
		}
		color := uint16(p.vram[addr]) | uint16(p.vram[addr+1])<<8
		p.Framebuffer[row+x] = color
	}
}
