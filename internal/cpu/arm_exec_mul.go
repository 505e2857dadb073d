package cpu

// makeMulHandler builds MUL/MLA. top8 bit1 is the accumulate flag,
// bit0 is S.
func makeMulHandler(top8 uint32) armHandler {
	accumulate := top8&0x2 != 0
	sFlag := top8&0x1 != 0
	return func(c *CPU, op uint32) {
		rd := uint8((op >> 16) & 0xF)
		rn := uint8((op >> 12) & 0xF)
		rs := uint8((op >> 8) & 0xF)
		rm := uint8(op & 0xF)

		result := c.regs.GetReg(rm) * c.regs.GetReg(rs)
		if accumulate {
			result += c.regs.GetReg(rn)
		}
		c.setReg(rd, result)
		if sFlag {
			c.regs.SetFlagZ(result == 0)
			c.regs.SetFlagN(result&0x80000000 != 0)
		}
	}
}

// makeMullHandler builds MULL/MLAL (UMULL/UMLAL/SMULL/SMLAL). top8
// bit2 is the signed (U) flag, bit1 accumulate, bit0 S.
func makeMullHandler(top8 uint32) armHandler {
	signed := top8&0x4 != 0
	accumulate := top8&0x2 != 0
	sFlag := top8&0x1 != 0
	return func(c *CPU, op uint32) {
		rdHi := uint8((op >> 16) & 0xF)
		rdLo := uint8((op >> 12) & 0xF)
		rs := uint8((op >> 8) & 0xF)
		rm := uint8(op & 0xF)

		var product uint64
		if signed {
			product = uint64(int64(int32(c.regs.GetReg(rm))) * int64(int32(c.regs.GetReg(rs))))
		} else {
			product = uint64(c.regs.GetReg(rm)) * uint64(c.regs.GetReg(rs))
		}
		if accumulate {
			product += uint64(c.regs.GetReg(rdHi))<<32 | uint64(c.regs.GetReg(rdLo))
		}

		lo := uint32(product)
		hi := uint32(product >> 32)
		c.setReg(rdLo, lo)
		c.setReg(rdHi, hi)
		if sFlag {
			c.regs.SetFlagZ(product == 0)
			c.regs.SetFlagN(hi&0x80000000 != 0)
		}
	}
}

// makeSwpHandler builds SWP/SWPB. top8 bit2 is the byte flag.
func makeSwpHandler(top8 uint32) armHandler {
	byteSwap := top8&0x4 != 0
	return func(c *CPU, op uint32) {
		rn := uint8((op >> 16) & 0xF)
		rd := uint8((op >> 12) & 0xF)
		rm := uint8(op & 0xF)
		addr := c.regs.GetReg(rn)
		src := c.regs.GetReg(rm)

		if byteSwap {
			old := c.bus.Read8(addr)
			c.bus.Write8(addr, uint8(src))
			c.setReg(rd, uint32(old))
			return
		}

		old := readWordRotated(c.bus, addr)
		c.bus.Write32(addr&^3, src)
		c.setReg(rd, old)
	}
}
