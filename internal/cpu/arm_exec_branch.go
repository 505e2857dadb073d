package cpu

// makeBranchHandler builds B/BL. Bit 24 (top8 bit 4) is the link bit.
func makeBranchHandler(top8 uint32) armHandler {
	link := top8&0x10 != 0
	return func(c *CPU, op uint32) {
		offset := op & 0x00FFFFFF
		if offset&0x00800000 != 0 {
			offset |= 0xFF000000 // sign-extend 24 bits
		}
		offset <<= 2
		pc := c.readReg(15, 8)
		if link {
			c.setReg(14, c.readReg(15, 4))
		}
		c.setReg(15, pc+offset)
	}
}

// execBX branches to Rn, switching to THUMB state if bit 0 is set.
func execBX(c *CPU, op uint32) {
	rn := uint8(op & 0xF)
	target := c.readReg(rn, 8)
	c.regs.SetThumbState(target&1 != 0)
	c.setReg(15, target)
}
