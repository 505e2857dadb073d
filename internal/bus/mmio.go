package bus

// mmioRead8/mmioWrite8 decompose byte access into the register's
// natural 16-bit granularity (spec.md §4.5 "MMIO registers must
// implement the natural width ... and derive byte accesses from
// read-modify-write"). IF is the exception on the write side: a byte
// write passes only that byte's bits to the write-one-to-clear logic.
func (b *Bus) mmioRead8(off uint32) uint8 {
	if off == 0x301 {
		return 0 // HALTCNT reads back as 0; only the write side matters.
	}
	v := b.mmioRead16(off &^ 1)
	if off&1 != 0 {
		return uint8(v >> 8)
	}
	return uint8(v)
}

func (b *Bus) mmioWrite8(off uint32, val uint8) {
	if off == 0x301 {
		b.SetHalted(true)
		return
	}
	if off >= 0x060 && off < 0x0A8 {
		b.APU.Write8(off-0x060, val)
		return
	}
	if off&^1 == 0x202 {
		if off&1 != 0 {
			b.IRQ.WriteIF(uint16(val) << 8)
		} else {
			b.IRQ.WriteIF(uint16(val))
		}
		return
	}
	cur := b.mmioRead16(off &^ 1)
	if off&1 != 0 {
		cur = (cur & 0x00FF) | uint16(val)<<8
	} else {
		cur = (cur & 0xFF00) | uint16(val)
	}
	b.mmioWrite16(off&^1, cur)
}

// mmioRead16/mmioWrite16 route an MMIO offset (relative to
// 0x04000000) to the owning subsystem, per spec.md §4.5's address
// table. Offsets outside every named window return/ignore 0.
func (b *Bus) mmioRead16(off uint32) uint16 {
	switch {
	case off <= 0x054:
		return b.ppuRead16(off)
	case off >= 0x060 && off < 0x0A8:
		lo := uint16(b.APU.Read8(off - 0x060))
		hi := uint16(b.APU.Read8(off - 0x060 + 1))
		return lo | hi<<8
	case off >= 0x0B0 && off <= 0x0DF:
		return b.dmaRead16(off)
	case off >= 0x100 && off <= 0x10F:
		return b.timerRead16(off)
	case off == 0x130:
		return b.Keypad.ReadKeyInput()
	case off == 0x132:
		return b.Keypad.ReadKeyCnt()
	case off == 0x200:
		return b.IRQ.ReadIE()
	case off == 0x202:
		return b.IRQ.ReadIF()
	case off == 0x208:
		return b.IRQ.ReadIME()
	default:
		return 0
	}
}

func (b *Bus) mmioWrite16(off uint32, v uint16) {
	switch {
	case off <= 0x054:
		b.ppuWrite16(off, v)
	case off >= 0x060 && off < 0x0A8:
		b.APU.Write8(off-0x060, uint8(v))
		b.APU.Write8(off-0x060+1, uint8(v>>8))
	case off >= 0x0B0 && off <= 0x0DF:
		b.dmaWrite16(off, v)
	case off >= 0x100 && off <= 0x10F:
		b.timerWrite16(off, v)
	case off == 0x130:
		// KEYINPUT is host-driven, read-only from the guest's side.
	case off == 0x132:
		b.Keypad.WriteKeyCnt(v)
	case off == 0x200:
		b.IRQ.WriteIE(v)
	case off == 0x202:
		b.IRQ.WriteIF(v)
	case off == 0x208:
		b.IRQ.WriteIME(v)
	}
}

func (b *Bus) ppuRead16(off uint32) uint16 {
	p := b.PPU
	switch off {
	case 0x000:
		return p.ReadDISPCNT()
	case 0x004:
		return p.ReadDISPSTAT()
	case 0x006:
		return p.ReadVCOUNT()
	case 0x008, 0x00A, 0x00C, 0x00E:
		return p.ReadBGCNT(int((off - 0x008) / 2))
	case 0x048:
		return p.ReadWININ()
	case 0x04A:
		return p.ReadWINOUT()
	case 0x050:
		return p.ReadBLDCNT()
	case 0x052:
		return p.ReadBLDALPHA()
	default:
		return 0 // write-only registers (scroll, affine, window, mosaic).
	}
}

func (b *Bus) ppuWrite16(off uint32, v uint16) {
	p := b.PPU
	switch off {
	case 0x000:
		p.WriteDISPCNT(v)
	case 0x004:
		p.WriteDISPSTAT(v)
	case 0x008, 0x00A, 0x00C, 0x00E:
		p.WriteBGCNT(int((off-0x008)/2), v)
	case 0x010, 0x014, 0x018, 0x01C:
		p.WriteBGHOFS(int((off-0x010)/4), v)
	case 0x012, 0x016, 0x01A, 0x01E:
		p.WriteBGVOFS(int((off-0x012)/4), v)
	case 0x020:
		p.WriteBGPA(2, v)
	case 0x022:
		p.WriteBGPB(2, v)
	case 0x024:
		p.WriteBGPC(2, v)
	case 0x026:
		p.WriteBGPD(2, v)
	case 0x028:
		p.WriteBGXLo(2, v)
	case 0x02A:
		p.WriteBGXHi(2, v)
	case 0x02C:
		p.WriteBGYLo(2, v)
	case 0x02E:
		p.WriteBGYHi(2, v)
	case 0x030:
		p.WriteBGPA(3, v)
	case 0x032:
		p.WriteBGPB(3, v)
	case 0x034:
		p.WriteBGPC(3, v)
	case 0x036:
		p.WriteBGPD(3, v)
	case 0x038:
		p.WriteBGXLo(3, v)
	case 0x03A:
		p.WriteBGXHi(3, v)
	case 0x03C:
		p.WriteBGYLo(3, v)
	case 0x03E:
		p.WriteBGYHi(3, v)
	case 0x040:
		p.WriteWIN0H(v)
	case 0x042:
		p.WriteWIN1H(v)
	case 0x044:
		p.WriteWIN0V(v)
	case 0x046:
		p.WriteWIN1V(v)
	case 0x048:
		p.WriteWININ(v)
	case 0x04A:
		p.WriteWINOUT(v)
	case 0x050:
		p.WriteBLDCNT(v)
	case 0x052:
		p.WriteBLDALPHA(v)
	case 0x054:
		p.WriteBLDY(v)
	}
}

func (b *Bus) dmaRead16(off uint32) uint16 {
	i, reg := dmaChannelReg(off)
	ch := &b.DMA.Channels[i]
	switch reg {
	case 8:
		return ch.Count
	case 10:
		return b.DMA.ReadControl(i)
	default:
		return 0 // SAD/DAD are write-only.
	}
}

func (b *Bus) dmaWrite16(off uint32, v uint16) {
	i, reg := dmaChannelReg(off)
	ch := &b.DMA.Channels[i]
	switch reg {
	case 0:
		ch.SrcAddr = (ch.SrcAddr &^ 0xFFFF) | uint32(v)
	case 2:
		ch.SrcAddr = (ch.SrcAddr & 0xFFFF) | uint32(v)<<16
	case 4:
		ch.DstAddr = (ch.DstAddr &^ 0xFFFF) | uint32(v)
	case 6:
		ch.DstAddr = (ch.DstAddr & 0xFFFF) | uint32(v)<<16
	case 8:
		ch.Count = v
	case 10:
		b.DMA.WriteControl(i, v)
	}
}

// dmaChannelReg splits a DMA MMIO offset into its channel index (each
// channel occupies 12 bytes starting at 0x0B0) and the byte offset
// within that channel's register block.
func dmaChannelReg(off uint32) (channel int, reg uint32) {
	rel := off - 0x0B0
	return int(rel / 12), rel % 12
}

func (b *Bus) timerRead16(off uint32) uint16 {
	i := int((off - 0x100) / 4)
	if (off-0x100)%4 == 0 {
		return b.Timers.ReadCounter(i)
	}
	return b.Timers.ReadControl(i)
}

func (b *Bus) timerWrite16(off uint32, v uint16) {
	i := int((off - 0x100) / 4)
	if (off-0x100)%4 == 0 {
		b.Timers.WriteReload(i, v)
	} else {
		b.Timers.WriteControl(i, v)
	}
}
