// Package ppu implements the GBA picture processing unit: the
// HDraw/HBlank/VBlank scanline state machine, the six display modes,
// sprite rendering, windowing, and color special effects (spec.md
// §4.6, §4.7). Grounded on the teacher's internal/ppu/ppu.go, which
// already modeled DISPCNT/VCOUNT and a Tick method, but only rendered
// mode 3 and advanced VCount in cycle-lump batches; this package
// replaces both with the exact per-cycle state machine and full
// rendering pipeline spec.md requires.
package ppu

import "goba/internal/irq"

const (
	ScreenWidth  = 240
	ScreenHeight = 160

	hdrawLen   = 1007
	hblankLen  = 1232
	totalLines = 228
	vblankLine = 160
)

// Mode is the PPU's three phases within a scanline.
type Mode int

const (
	ModeHDraw Mode = iota
	ModeHBlank
	ModeVBlank
)

// PPU owns the display control registers, per-background/sprite
// scratch scanline buffers, and the public framebuffer. VRAM, Palette
// RAM and OAM are borrowed slices backed by the bus's arrays — safe
// to hold directly since the scheduler is single-threaded and
// rendering only happens at the HDraw->HBlank boundary (spec.md §5).
type PPU struct {
	vram    []byte
	palette []byte
	oam     []byte
	irqc    *irq.Controller

	cycle int // 0..1231 within the current line
	line  int // 0..227

	Framebuffer [ScreenWidth * ScreenHeight]uint16

	regs registers

	bgLine     [4][ScreenWidth]bgPixel
	spriteLine [ScreenWidth]spritePixel

	frameReady bool
}

type bgPixel struct {
	color uint16
	set   bool
}

type spritePixel struct {
	color      uint16
	set        bool
	priority   uint8
	semiTrans  bool
	isWindow   bool
}

func New(vram, palette, oam []byte, irqc *irq.Controller) *PPU {
	return &PPU{vram: vram, palette: palette, oam: oam, irqc: irqc}
}

func (p *PPU) LY() int { return p.line }

// renderScanline builds the current line's backgrounds and sprites
// (bitmap modes write straight to Framebuffer instead) and, for
// tile modes, composes them into Framebuffer (spec.md §4.7).
func (p *PPU) renderScanline() {
	mode := p.bgMode()
	if mode >= 3 {
		p.renderBitmap(mode)
		return
	}

	for bg := range p.bgLine {
		for x := range p.bgLine[bg] {
			p.bgLine[bg][x] = bgPixel{}
		}
	}
	for x := range p.spriteLine {
		p.spriteLine[x] = spritePixel{}
	}

	switch mode {
	case 0:
		for bg := 0; bg < 4; bg++ {
			if p.bgEnabled(bg) {
				p.renderTextBG(bg)
			}
		}
	case 1:
		for bg := 0; bg < 2; bg++ {
			if p.bgEnabled(bg) {
				p.renderTextBG(bg)
			}
		}
		if p.bgEnabled(2) {
			p.renderAffineBG(2)
		}
	case 2:
		if p.bgEnabled(2) {
			p.renderAffineBG(2)
		}
		if p.bgEnabled(3) {
			p.renderAffineBG(3)
		}
	}

	if p.objEnabled() {
		p.renderSprites()
	}

	p.compose()
}

func (p *PPU) IsFrameReady() bool { return p.frameReady }
func (p *PPU) ClearFrameReady()   { p.frameReady = false }

// Tick advances the PPU by one pixel-clock cycle (spec.md §4.6) and
// reports whether this cycle was a fresh transition into HBlank or
// VBlank, for the DMA controller's trigger check.
func (p *PPU) Tick() (enteredHBlank, enteredVBlank bool) {
	p.cycle++

	if p.cycle == hdrawLen {
		if p.line < vblankLine {
			p.renderScanline()
		}
		p.regs.dispstat |= dispstatHBlank
		if p.regs.dispstat&dispstatHBlankIRQ != 0 {
			p.irqc.Raise(irq.HBlank)
		}
		enteredHBlank = true
	}

	if p.cycle >= hblankLen {
		p.cycle = 0
		p.regs.dispstat &^= dispstatHBlank
		p.line++

		if p.line == vblankLine {
			p.regs.dispstat |= dispstatVBlank
			if p.regs.dispstat&dispstatVBlankIRQ != 0 {
				p.irqc.Raise(irq.VBlank)
			}
			p.refreshAffineReference()
			p.frameReady = true
			enteredVBlank = true
		}
		if p.line >= totalLines {
			p.line = 0
			p.regs.dispstat &^= dispstatVBlank
		} else if p.line < vblankLine {
			p.advanceAffineReference()
		}

		vcount := uint16(p.line)
		lyc := (p.regs.dispstat >> 8) & 0xFF
		if vcount == lyc {
			p.regs.dispstat |= dispstatVCount
			if p.regs.dispstat&dispstatVCountIRQ != 0 {
				p.irqc.Raise(irq.VCount)
			}
		} else {
			p.regs.dispstat &^= dispstatVCount
		}
	}

	return
}
