package cpu

// thumbLoadPCRelative builds format 6: LDR Rd, [PC, #Imm8*4]. PC reads
// word-aligned (bit 1 cleared) before adding the offset.
func thumbLoadPCRelative(c *CPU, op uint16) {
	rd := uint8((op >> 8) & 0x7)
	word8 := uint32(op&0xFF) << 2
	base := c.readReg(15, 4) &^ 3
	c.regs.SetReg(rd, c.bus.Read32(base+word8))
}

// makeThumbLoadStoreReg builds format 7: LDR/STR/LDRB/STRB Rd,[Rb,Ro].
// L (top8 bit3) and B (top8 bit2) are known at build time.
func makeThumbLoadStoreReg(top8 uint32) thumbHandler {
	lFlag := top8&0x8 != 0
	bFlag := top8&0x4 != 0
	return func(c *CPU, op uint16) {
		ro := uint8((op >> 6) & 0x7)
		rb := uint8((op >> 3) & 0x7)
		rd := uint8(op & 0x7)
		addr := c.regs.GetReg(rb) + c.regs.GetReg(ro)
		if lFlag {
			if bFlag {
				c.regs.SetReg(rd, uint32(c.bus.Read8(addr)))
			} else {
				c.regs.SetReg(rd, readWordRotated(c.bus, addr))
			}
			return
		}
		if bFlag {
			c.bus.Write8(addr, uint8(c.regs.GetReg(rd)))
		} else {
			c.bus.Write32(addr&^3, c.regs.GetReg(rd))
		}
	}
}

// makeThumbLoadStoreSignExt builds format 8: STRH/LDRH/LDRSB/LDRSH
// Rd,[Rb,Ro]. H (top8 bit3) and S (top8 bit2) are known at build time.
func makeThumbLoadStoreSignExt(top8 uint32) thumbHandler {
	hFlag := top8&0x8 != 0
	sFlag := top8&0x4 != 0
	return func(c *CPU, op uint16) {
		ro := uint8((op >> 6) & 0x7)
		rb := uint8((op >> 3) & 0x7)
		rd := uint8(op & 0x7)
		addr := c.regs.GetReg(rb) + c.regs.GetReg(ro)

		switch {
		case !sFlag && !hFlag: // STRH
			c.bus.Write16(addr&^1, uint16(c.regs.GetReg(rd)))
		case !sFlag && hFlag: // LDRH
			c.regs.SetReg(rd, readHalfRotated(c.bus, addr))
		case sFlag && !hFlag: // LDRSB
			c.regs.SetReg(rd, uint32(int32(int8(c.bus.Read8(addr)))))
		case sFlag && hFlag: // LDRSH
			if addr&1 != 0 {
				c.regs.SetReg(rd, uint32(int32(int8(c.bus.Read8(addr)))))
			} else {
				c.regs.SetReg(rd, uint32(int32(int16(c.bus.Read16(addr)))))
			}
		}
	}
}

// makeThumbLoadStoreImm builds format 9: LDR/STR/LDRB/STRB
// Rd,[Rb,#Offset5]. B (top8 bit4) and L (top8 bit3) are known at build
// time; word transfers scale Offset5 by 4, byte transfers don't.
func makeThumbLoadStoreImm(top8 uint32) thumbHandler {
	bFlag := top8&0x10 != 0
	lFlag := top8&0x8 != 0
	return func(c *CPU, op uint16) {
		offset5 := uint32((op >> 6) & 0x1F)
		rb := uint8((op >> 3) & 0x7)
		rd := uint8(op & 0x7)
		var addr uint32
		if bFlag {
			addr = c.regs.GetReg(rb) + offset5
		} else {
			addr = c.regs.GetReg(rb) + offset5*4
		}

		switch {
		case lFlag && bFlag:
			c.regs.SetReg(rd, uint32(c.bus.Read8(addr)))
		case lFlag && !bFlag:
			c.regs.SetReg(rd, readWordRotated(c.bus, addr))
		case !lFlag && bFlag:
			c.bus.Write8(addr, uint8(c.regs.GetReg(rd)))
		default:
			c.bus.Write32(addr&^3, c.regs.GetReg(rd))
		}
	}
}

// makeThumbLoadStoreHalf builds format 10: LDRH/STRH Rd,[Rb,#Offset5*2].
func makeThumbLoadStoreHalf(top8 uint32) thumbHandler {
	lFlag := top8&0x8 != 0
	return func(c *CPU, op uint16) {
		offset5 := uint32((op >> 6) & 0x1F) * 2
		rb := uint8((op >> 3) & 0x7)
		rd := uint8(op & 0x7)
		addr := c.regs.GetReg(rb) + offset5
		if lFlag {
			c.regs.SetReg(rd, readHalfRotated(c.bus, addr))
		} else {
			c.bus.Write16(addr&^1, uint16(c.regs.GetReg(rd)))
		}
	}
}

// makeThumbSPRelative builds format 11: LDR/STR Rd,[SP,#Word8*4].
func makeThumbSPRelative(top8 uint32) thumbHandler {
	lFlag := top8&0x8 != 0
	return func(c *CPU, op uint16) {
		rd := uint8((op >> 8) & 0x7)
		word8 := uint32(op&0xFF) << 2
		addr := c.regs.GetReg(13) + word8
		if lFlag {
			c.regs.SetReg(rd, readWordRotated(c.bus, addr))
		} else {
			c.bus.Write32(addr&^3, c.regs.GetReg(rd))
		}
	}
}

// makeThumbLoadAddress builds format 12: ADD Rd,PC/SP,#Word8*4.
func makeThumbLoadAddress(top8 uint32) thumbHandler {
	useSP := top8&0x8 != 0
	return func(c *CPU, op uint16) {
		rd := uint8((op >> 8) & 0x7)
		word8 := uint32(op&0xFF) << 2
		var base uint32
		if useSP {
			base = c.regs.GetReg(13)
		} else {
			base = c.readReg(15, 4) &^ 3
		}
		c.regs.SetReg(rd, base+word8)
	}
}

// thumbAddSPOffset builds format 13: ADD SP,#+/-Word7*4.
func thumbAddSPOffset(c *CPU, op uint16) {
	word7 := uint32(op&0x7F) << 2
	if op&0x80 != 0 {
		c.regs.SetReg(13, c.regs.GetReg(13)-word7)
	} else {
		c.regs.SetReg(13, c.regs.GetReg(13)+word7)
	}
}

// makeThumbPushPop builds format 14: PUSH/POP {Rlist[,LR/PC]}. L
// (top8 bit3) selects POP; R (top8 bit0) includes LR (push) or PC
// (pop).
func makeThumbPushPop(top8 uint32) thumbHandler {
	isPop := top8&0x8 != 0
	includeExtra := top8&0x1 != 0

	return func(c *CPU, op uint16) {
		var regs []uint8
		for i := uint8(0); i < 8; i++ {
			if op&(1<<i) != 0 {
				regs = append(regs, i)
			}
		}

		if isPop {
			if includeExtra {
				regs = append(regs, 15)
			}
			addr := c.regs.GetReg(13)
			for _, r := range regs {
				val := c.bus.Read32(addr &^ 3)
				if r == 15 {
					c.setReg(15, val&^1)
				} else {
					c.regs.SetReg(r, val)
				}
				addr += 4
			}
			c.regs.SetReg(13, addr)
			return
		}

		if includeExtra {
			regs = append(regs, 14)
		}
		addr := c.regs.GetReg(13) - uint32(len(regs))*4
		base := addr
		for _, r := range regs {
			c.bus.Write32(addr&^3, c.regs.GetReg(r))
			addr += 4
		}
		c.regs.SetReg(13, base)
	}
}

// makeThumbBlockTransfer builds format 15: LDMIA/STMIA Rb!,{Rlist}.
func makeThumbBlockTransfer(top8 uint32) thumbHandler {
	lFlag := top8&0x8 != 0
	return func(c *CPU, op uint16) {
		rb := uint8((op >> 8) & 0x7)
		var regs []uint8
		for i := uint8(0); i < 8; i++ {
			if op&(1<<i) != 0 {
				regs = append(regs, i)
			}
		}
		addr := c.regs.GetReg(rb)
		for _, r := range regs {
			if lFlag {
				c.regs.SetReg(r, c.bus.Read32(addr&^3))
			} else {
				c.bus.Write32(addr&^3, c.regs.GetReg(r))
			}
			addr += 4
		}
		c.regs.SetReg(rb, addr)
	}
}
