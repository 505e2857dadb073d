package cpu

import "goba/internal/interfaces"

// readWordRotated implements spec.md §4.3's unaligned-word-read rule:
// the aligned 32-bit word is read, then rotated right by (addr&3)*8.
func readWordRotated(bus interfaces.Bus, addr uint32) uint32 {
	val := bus.Read32(addr &^ 3)
	rot := (addr & 3) * 8
	if rot == 0 {
		return val
	}
	return (val >> rot) | (val << (32 - rot))
}

// readHalfRotated implements the equivalent rule for LDRH: an odd
// address rotates the aligned halfword right by 8.
func readHalfRotated(bus interfaces.Bus, addr uint32) uint32 {
	val := uint32(bus.Read16(addr &^ 1))
	if addr&1 != 0 {
		val = (val >> 8) | (val << 24)
	}
	return val
}

// makeSingleTransferHandler builds LDR/STR. top8 bit5 is I (1 = register
// offset), bit4 P, bit3 U, bit2 B, bit1 W, bit0 L.
func makeSingleTransferHandler(top8, _ uint32) armHandler {
	regOffset := top8&0x20 != 0
	pFlag := top8&0x10 != 0
	uFlag := top8&0x08 != 0
	bFlag := top8&0x04 != 0
	wFlag := top8&0x02 != 0
	lFlag := top8&0x01 != 0

	return func(c *CPU, op uint32) {
		rn := uint8((op >> 16) & 0xF)
		rd := uint8((op >> 12) & 0xF)
		base := c.readReg(rn, 8)

		var offset uint32
		if regOffset {
			rm := uint8(op & 0xF)
			st := ShiftType((op >> 5) & 3)
			amount := (op >> 7) & 0x1F
			rmVal := c.readReg(rm, 8)
			offset, _ = shift(rmVal, st, amount, true, c.regs.GetFlagC())
		} else {
			offset = op & 0xFFF
		}

		effective := base
		if uFlag {
			effective = base + offset
		} else {
			effective = base - offset
		}

		addr := base
		if pFlag {
			addr = effective
		}

		if lFlag {
			var val uint32
			if bFlag {
				val = uint32(c.bus.Read8(addr))
			} else {
				val = readWordRotated(c.bus, addr)
			}
			c.writebackAfterTransfer(rn, pFlag, wFlag, effective)
			c.setReg(rd, val)
		} else {
			var val uint32
			if rd == 15 {
				val = c.readReg(15, 12)
			} else {
				val = c.regs.GetReg(rd)
			}
			if bFlag {
				c.bus.Write8(addr, uint8(val))
			} else {
				c.bus.Write32(addr&^3, val)
			}
			c.writebackAfterTransfer(rn, pFlag, wFlag, effective)
		}
	}
}

// writebackAfterTransfer implements post-indexed (always writes back)
// and pre-indexed-with-W (writes back only if W set) addressing.
func (c *CPU) writebackAfterTransfer(rn uint8, pFlag, wFlag bool, effective uint32) {
	if rn == 15 {
		return
	}
	if !pFlag || wFlag {
		c.regs.SetReg(rn, effective)
	}
}

// makeHalfwordTransferHandler builds LDRH/STRH/LDRSB/LDRSH. top8 bit4
// P, bit3 U, bit2 I (immediate offset), bit1 W, bit0 L; bits4 bit2 S
// (signed), bit1 H (halfword).
func makeHalfwordTransferHandler(top8, bits4 uint32) armHandler {
	pFlag := top8&0x10 != 0
	uFlag := top8&0x08 != 0
	immOffset := top8&0x04 != 0
	wFlag := top8&0x02 != 0
	lFlag := top8&0x01 != 0
	signed := bits4&0x4 != 0
	half := bits4&0x2 != 0

	return func(c *CPU, op uint32) {
		rn := uint8((op >> 16) & 0xF)
		rd := uint8((op >> 12) & 0xF)
		base := c.readReg(rn, 8)

		var offset uint32
		if immOffset {
			offset = ((op >> 4) & 0xF0) | (op & 0xF)
		} else {
			rm := uint8(op & 0xF)
			offset = c.regs.GetReg(rm)
		}

		effective := base
		if uFlag {
			effective = base + offset
		} else {
			effective = base - offset
		}
		addr := base
		if pFlag {
			addr = effective
		}

		if lFlag {
			var val uint32
			switch {
			case half && signed:
				if addr&1 != 0 {
					val = uint32(int32(int8(c.bus.Read8(addr))))
				} else {
					raw := uint16(c.bus.Read16(addr))
					val = uint32(int32(int16(raw)))
				}
			case half && !signed:
				val = readHalfRotated(c.bus, addr)
			case !half && signed:
				val = uint32(int32(int8(c.bus.Read8(addr))))
			default:
				val = uint32(c.bus.Read8(addr))
			}
			c.writebackAfterTransfer(rn, pFlag, wFlag, effective)
			c.setReg(rd, val)
		} else {
			val := c.regs.GetReg(rd)
			c.bus.Write16(addr&^1, uint16(val))
			c.writebackAfterTransfer(rn, pFlag, wFlag, effective)
		}
	}
}

// makeBlockTransferHandler builds LDM/STM. top8 bit4 P, bit3 U, bit2 S,
// bit1 W, bit0 L.
func makeBlockTransferHandler(top8 uint32) armHandler {
	pFlag := top8&0x10 != 0
	uFlag := top8&0x08 != 0
	sFlag := top8&0x04 != 0
	wFlag := top8&0x02 != 0
	lFlag := top8&0x01 != 0

	return func(c *CPU, op uint32) {
		rn := uint8((op >> 16) & 0xF)
		list := op & 0xFFFF
		base := c.regs.GetReg(rn)

		var regs []uint8
		for i := uint8(0); i < 16; i++ {
			if list&(1<<i) != 0 {
				regs = append(regs, i)
			}
		}

		r15InList := list&0x8000 != 0
		userBank := sFlag && (!lFlag || !r15InList)
		cpsrFromSPSR := sFlag && lFlag && r15InList

		count := uint32(len(regs))
		if count == 0 {
			count = 16 // empty list: r15 only, Rn adjusted by 0x40
		}

		var startAddr, endAddr uint32
		if uFlag {
			startAddr = base
			endAddr = base + count*4
		} else {
			startAddr = base - count*4
			endAddr = base
		}

		addr := startAddr
		if pFlag == uFlag {
			// ascending+pre (IB) and descending+post (DA) both start one word in
			addr += 4
		}

		rnOldValue := base
		writebackVal := endAddr
		if !uFlag {
			writebackVal = startAddr
		}

		if len(regs) == 0 {
			if lFlag {
				c.setReg(15, c.bus.Read32(addr&^3))
			} else {
				c.bus.Write32(addr&^3, c.readReg(15, 8))
			}
		} else {
			for idx, reg := range regs {
				if lFlag {
					var val uint32
					if userBank {
						val = c.bus.Read32(addr &^ 3)
						c.regs.SetUserReg(reg, val)
						if reg == 15 {
							c.branched = true
						}
					} else {
						val = c.bus.Read32(addr &^ 3)
						c.setReg(reg, val)
					}
				} else {
					var val uint32
					switch {
					case reg == 15:
						val = c.readReg(15, 12)
					case reg == rn && idx == 0:
						val = rnOldValue
					case reg == rn:
						val = writebackVal
					case userBank:
						val = c.regs.UserReg(reg)
					default:
						val = c.regs.GetReg(reg)
					}
					c.bus.Write32(addr&^3, val)
				}
				addr += 4
			}
			if cpsrFromSPSR {
				c.regs.SetCPSR(c.regs.GetSPSR())
			}
		}

		rnInList := false
		for _, reg := range regs {
			if reg == rn {
				rnInList = true
				break
			}
		}

		if wFlag {
			suppress := lFlag && rnInList
			if !suppress {
				if len(regs) == 0 {
					if uFlag {
						c.regs.SetReg(rn, base+0x40)
					} else {
						c.regs.SetReg(rn, base-0x40)
					}
				} else {
					c.regs.SetReg(rn, writebackVal)
				}
			}
		}
	}
}
