package ppu

const (
	dispstatVBlank     = 1 << 0
	dispstatHBlank     = 1 << 1
	dispstatVCount     = 1 << 2
	dispstatVBlankIRQ  = 1 << 3
	dispstatHBlankIRQ  = 1 << 4
	dispstatVCountIRQ  = 1 << 5
)

type bgRegs struct {
	cnt  uint16
	hofs uint16
	vofs uint16
}

// affineRegs holds a BG2/3's reference point and matrix. x/y are the
// public 28-bit signed fixed-point registers; ix/iy are the internal
// shadow copy that advances every scanline and is reloaded from x/y
// at VBlank (spec.md §3, §4.6).
type affineRegs struct {
	x, y   int32
	ix, iy int32
	pa, pb, pc, pd int16
}

type windowRegs struct {
	x1, x2 uint8
	y1, y2 uint8
}

type registers struct {
	dispcnt uint16
	dispstat uint16

	bg [4]bgRegs
	affine [2]affineRegs // index 0 = BG2, 1 = BG3

	win [2]windowRegs
	winIn, winOut uint16
	winEnable [2]bool
	objWinEnable bool

	bldcnt  uint16
	bldalpha uint16
	bldy    uint16
}

func (p *PPU) ReadDISPCNT() uint16  { return p.regs.dispcnt }
func (p *PPU) WriteDISPCNT(v uint16) { p.regs.dispcnt = v }

func (p *PPU) ReadDISPSTAT() uint16 { return p.regs.dispstat }
func (p *PPU) WriteDISPSTAT(v uint16) {
	// Bits 0-2 (VBlank/HBlank/VCount flags) are read-only status.
	p.regs.dispstat = (p.regs.dispstat & 0x0007) | (v &^ 0x0007)
}

func (p *PPU) ReadVCOUNT() uint16 { return uint16(p.line) }

func (p *PPU) ReadBGCNT(i int) uint16    { return p.regs.bg[i].cnt }
func (p *PPU) WriteBGCNT(i int, v uint16) { p.regs.bg[i].cnt = v }

func (p *PPU) WriteBGHOFS(i int, v uint16) { p.regs.bg[i].hofs = v & 0x1FF }
func (p *PPU) WriteBGVOFS(i int, v uint16) { p.regs.bg[i].vofs = v & 0x1FF }

// affineIndex converts a BG number (2 or 3) to the internal affine
// slot (0 or 1).
func affineIndex(bg int) int { return bg - 2 }

func signExtend28(v uint32) int32 {
	if v&0x08000000 != 0 {
		return int32(v | 0xF0000000)
	}
	return int32(v)
}

func (p *PPU) WriteBGX(bg int, v uint32) {
	a := &p.regs.affine[affineIndex(bg)]
	a.x = signExtend28(v & 0x0FFFFFFF)
	a.ix = a.x
}

func (p *PPU) WriteBGY(bg int, v uint32) {
	a := &p.regs.affine[affineIndex(bg)]
	a.y = signExtend28(v & 0x0FFFFFFF)
	a.iy = a.y
}

// WriteBGXLo/Hi and WriteBGYLo/Hi let the bus's 16-bit-at-a-time MMIO
// writes update one half of a 28-bit affine reference register
// without disturbing the other.
func (p *PPU) WriteBGXLo(bg int, v uint16) {
	a := &p.regs.affine[affineIndex(bg)]
	raw := (uint32(a.x) &^ 0xFFFF) | uint32(v)
	p.WriteBGX(bg, raw)
}
func (p *PPU) WriteBGXHi(bg int, v uint16) {
	a := &p.regs.affine[affineIndex(bg)]
	raw := (uint32(a.x) & 0xFFFF) | uint32(v)<<16
	p.WriteBGX(bg, raw)
}
func (p *PPU) WriteBGYLo(bg int, v uint16) {
	a := &p.regs.affine[affineIndex(bg)]
	raw := (uint32(a.y) &^ 0xFFFF) | uint32(v)
	p.WriteBGY(bg, raw)
}
func (p *PPU) WriteBGYHi(bg int, v uint16) {
	a := &p.regs.affine[affineIndex(bg)]
	raw := (uint32(a.y) & 0xFFFF) | uint32(v)<<16
	p.WriteBGY(bg, raw)
}

func (p *PPU) WriteBGPA(bg int, v uint16) { p.regs.affine[affineIndex(bg)].pa = int16(v) }
func (p *PPU) WriteBGPB(bg int, v uint16) { p.regs.affine[affineIndex(bg)].pb = int16(v) }
func (p *PPU) WriteBGPC(bg int, v uint16) { p.regs.affine[affineIndex(bg)].pc = int16(v) }
func (p *PPU) WriteBGPD(bg int, v uint16) { p.regs.affine[affineIndex(bg)].pd = int16(v) }

func (p *PPU) WriteWIN0H(v uint16) { p.regs.win[0].x2 = uint8(v); p.regs.win[0].x1 = uint8(v >> 8) }
func (p *PPU) WriteWIN1H(v uint16) { p.regs.win[1].x2 = uint8(v); p.regs.win[1].x1 = uint8(v >> 8) }
func (p *PPU) WriteWIN0V(v uint16) { p.regs.win[0].y2 = uint8(v); p.regs.win[0].y1 = uint8(v >> 8) }
func (p *PPU) WriteWIN1V(v uint16) { p.regs.win[1].y2 = uint8(v); p.regs.win[1].y1 = uint8(v >> 8) }

func (p *PPU) WriteWININ(v uint16)  { p.regs.winIn = v }
func (p *PPU) WriteWINOUT(v uint16) { p.regs.winOut = v }
func (p *PPU) ReadWININ() uint16    { return p.regs.winIn }
func (p *PPU) ReadWINOUT() uint16   { return p.regs.winOut }

func (p *PPU) WriteBLDCNT(v uint16)   { p.regs.bldcnt = v }
func (p *PPU) WriteBLDALPHA(v uint16) { p.regs.bldalpha = v }
func (p *PPU) WriteBLDY(v uint16)     { p.regs.bldy = v }

func (p *PPU) ReadBLDCNT() uint16   { return p.regs.bldcnt }
func (p *PPU) ReadBLDALPHA() uint16 { return p.regs.bldalpha }

// advanceAffineReference steps BG2/3's internal reference point by one
// scanline's worth of PB/PD, per spec.md §4.6.
func (p *PPU) advanceAffineReference() {
	for i := range p.regs.affine {
		a := &p.regs.affine[i]
		a.ix += int32(a.pb)
		a.iy += int32(a.pd)
	}
}

// refreshAffineReference reloads the internal reference point from the
// public registers at the top of VBlank.
func (p *PPU) refreshAffineReference() {
	for i := range p.regs.affine {
		a := &p.regs.affine[i]
		a.ix = a.x
		a.iy = a.y
	}
}

func (p *PPU) bgMode() int        { return int(p.regs.dispcnt & 0x7) }
func (p *PPU) bgEnabled(i int) bool { return p.regs.dispcnt&(1<<(8+i)) != 0 }
func (p *PPU) objEnabled() bool   { return p.regs.dispcnt&(1<<12) != 0 }
func (p *PPU) win0Enabled() bool  { return p.regs.dispcnt&(1<<13) != 0 }
func (p *PPU) win1Enabled() bool  { return p.regs.dispcnt&(1<<14) != 0 }
func (p *PPU) objWinEnabled() bool { return p.regs.dispcnt&(1<<15) != 0 }
func (p *PPU) obj1DMapping() bool { return p.regs.dispcnt&(1<<6) != 0 }
func (p *PPU) frameSelect() int {
	if p.regs.dispcnt&(1<<4) != 0 {
		return 1
	}
	return 0
}
