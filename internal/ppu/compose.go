package ppu

// layer identifies a composition source for windowing and blending.
type layer int

const (
	layerBG0 layer = iota
	layerBG1
	layerBG2
	layerBG3
	layerOBJ
	layerBackdrop
)

// candidate is one visible pixel contending for display at a given x.
type candidate struct {
	layer     layer
	color     uint16
	priority  int
	semiTrans bool
}

// compose resolves p.bgLine/p.spriteLine plus windowing and color
// special effects into the current scanline of Framebuffer, per
// spec.md §4.7.4-§4.7.5.
func (p *PPU) compose() {
	anyWindow := p.win0Enabled() || p.win1Enabled() || p.objWinEnabled()
	row := p.line * ScreenWidth

	for x := 0; x < ScreenWidth; x++ {
		bgEnable, objEnable, fxEnable := p.windowMasks(x, anyWindow)

		cands := p.visibleCandidates(x, bgEnable, objEnable)

		top := cands[0]
		color := top.color

		if fxEnable {
			color = p.applyEffects(cands, top)
		}

		p.Framebuffer[row+x] = color
	}
}

// windowMasks decides, for pixel x on the current line, which layers
// are enabled and whether special effects apply, consulting WIN0 >
// WIN1 > OBJ window > outside in priority order.
func (p *PPU) windowMasks(x int, anyWindow bool) (bg [4]bool, obj bool, fx bool) {
	if !anyWindow {
		return [4]bool{true, true, true, true}, true, true
	}

	inWin := func(w windowRegs) bool {
		x1, x2 := int(w.x1), int(w.x2)
		y1, y2 := int(w.y1), int(w.y2)
		inX := x1 <= x2 && x >= x1 && x < x2 || x1 > x2 && (x >= x1 || x < x2)
		inY := y1 <= y2 && p.line >= y1 && p.line < y2 || y1 > y2 && (p.line >= y1 || p.line < y2)
		return inX && inY
	}

	var mask uint16
	switch {
	case p.win0Enabled() && inWin(p.regs.win[0]):
		mask = p.regs.winIn
	case p.win1Enabled() && inWin(p.regs.win[1]):
		mask = p.regs.winIn >> 8
	case p.objWinEnabled() && p.spriteLine[x].set && p.spriteLine[x].isWindow:
		mask = p.regs.winOut >> 8
	default:
		mask = p.regs.winOut
	}

	for i := 0; i < 4; i++ {
		bg[i] = mask&(1<<uint(i)) != 0
	}
	obj = mask&0x10 != 0
	fx = mask&0x20 != 0
	return
}

// visibleCandidates builds the priority-ordered stack of opaque
// layers at pixel x, always terminated by the backdrop.
func (p *PPU) visibleCandidates(x int, bgEnable [4]bool, objEnable bool) []candidate {
	cands := make([]candidate, 0, 6)

	mode := p.bgMode()
	for bg := 0; bg < 4; bg++ {
		if mode == 1 && bg == 3 {
			continue // mode 1 has no BG3
		}
		if mode == 2 && bg < 2 {
			continue // mode 2 has no BG0/BG1
		}
		if !bgEnable[bg] || !p.bgEnabled(bg) {
			continue
		}
		px := p.bgLine[bg][x]
		if !px.set {
			continue
		}
		cands = append(cands, candidate{layer: layer(bg), color: px.color, priority: int(p.regs.bg[bg].cnt & 0x3)})
	}

	if objEnable {
		sp := p.spriteLine[x]
		if sp.set && !sp.isWindow {
			cands = append(cands, candidate{layer: layerOBJ, color: sp.color, priority: int(sp.priority), semiTrans: sp.semiTrans})
		}
	}

	// Stable-sort by priority; OBJ wins ties against BGs, lower BG
	// index wins ties against other BGs (spec.md §4.7.4).
	for i := 1; i < len(cands); i++ {
		j := i
		for j > 0 && less(cands[j], cands[j-1]) {
			cands[j], cands[j-1] = cands[j-1], cands[j]
			j--
		}
	}

	backdrop := p.paletteColor(0, 0)
	cands = append(cands, candidate{layer: layerBackdrop, color: backdrop, priority: 4})
	return cands
}

func less(a, b candidate) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.layer == layerOBJ && b.layer != layerOBJ {
		return true
	}
	if b.layer == layerOBJ && a.layer != layerOBJ {
		return false
	}
	return a.layer < b.layer
}

// effectTarget reports whether layer l is enabled as the given BLDCNT
// target side (0 = first target bits0-5, 1 = second target bits8-13).
func (p *PPU) effectTarget(l layer, second bool) bool {
	bit := uint(l)
	if second {
		bit += 8
	}
	return p.regs.bldcnt&(1<<bit) != 0
}

// applyEffects resolves alpha blend / brightness inc / brightness dec
// on the topmost candidate, per spec.md §4.7.5. Semi-transparent OBJ
// pixels force alpha-blend mode against the next visible layer
// regardless of BLDCNT's mode field.
func (p *PPU) applyEffects(cands []candidate, top candidate) uint16 {
	mode := int(p.regs.bldcnt >> 6 & 0x3)
	semiTransObj := top.layer == layerOBJ && top.semiTrans

	if !semiTransObj && (mode == 0 || !p.effectTarget(top.layer, false)) {
		return top.color
	}

	switch {
	case semiTransObj || mode == 1:
		if len(cands) < 2 || !p.effectTarget(cands[1].layer, true) {
			return top.color
		}
		second := cands[1]
		eva := int(p.regs.bldalpha & 0x1F)
		evb := int(p.regs.bldalpha >> 8 & 0x1F)
		return blendAlpha(top.color, second.color, eva, evb)
	case mode == 2:
		evy := int(p.regs.bldy & 0x1F)
		return blendBrightness(top.color, evy, true)
	case mode == 3:
		evy := int(p.regs.bldy & 0x1F)
		return blendBrightness(top.color, evy, false)
	}
	return top.color
}

func channels(c uint16) (r, g, b int) {
	return int(c & 0x1F), int(c >> 5 & 0x1F), int(c >> 10 & 0x1F)
}

func pack(r, g, b int) uint16 {
	clamp := func(v int) uint16 {
		if v < 0 {
			return 0
		}
		if v > 31 {
			return 31
		}
		return uint16(v)
	}
	return clamp(r) | clamp(g)<<5 | clamp(b)<<10
}

func blendAlpha(a, b uint16, eva, evb int) uint16 {
	ar, ag, ab := channels(a)
	br, bg, bb := channels(b)
	r := (ar*eva + br*evb) / 16
	g := (ag*eva + bg*evb) / 16
	bl := (ab*eva + bb*evb) / 16
	return pack(r, g, bl)
}

func blendBrightness(c uint16, evy int, increase bool) uint16 {
	r, g, b := channels(c)
	if increase {
		r += (31 - r) * evy / 16
		g += (31 - g) * evy / 16
		b += (31 - b) * evy / 16
	} else {
		r -= r * evy / 16
		g -= g * evy / 16
		b -= b * evy / 16
	}
	return pack(r, g, b)
}
