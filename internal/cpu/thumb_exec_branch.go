package cpu

// makeThumbCondBranch builds format 16: conditional branch, PC-relative
// by a signed 8-bit offset doubled.
func makeThumbCondBranch(cond Cond) thumbHandler {
	return func(c *CPU, op uint16) {
		if !c.conditionPasses(cond) {
			return
		}
		offset := int32(int8(op & 0xFF))
		pc := c.readReg(15, 4)
		c.setReg(15, uint32(int32(pc)+offset*2))
	}
}

// thumbBranch builds format 18: unconditional branch by a signed
// 11-bit offset doubled.
func thumbBranch(c *CPU, op uint16) {
	raw := uint32(op & 0x7FF)
	if raw&0x400 != 0 {
		raw |= 0xFFFFF800
	}
	pc := c.readReg(15, 4)
	c.setReg(15, pc+raw*2)
}

// makeThumbLongBranch builds format 19: BL, emitted as a pair of
// opcodes. The first half (H=0) accumulates the high bits into LR;
// the second (H=1) combines them with the low 11 bits, branches, and
// sets LR to the return address with bit 0 set (marking THUMB).
func makeThumbLongBranch(high bool) thumbHandler {
	if !high {
		return func(c *CPU, op uint16) {
			offset := uint32(op & 0x7FF)
			signExt := uint32(0)
			if offset&0x400 != 0 {
				signExt = 0xFF800000
			}
			pc := c.readReg(15, 4)
			c.regs.SetReg(14, pc+(signExt|(offset<<12)))
		}
	}
	return func(c *CPU, op uint16) {
		offset := uint32(op&0x7FF) << 1
		lr := c.regs.GetReg(14)
		nextInstr := c.readReg(15, 2)
		c.setReg(15, lr+offset)
		c.regs.SetReg(14, nextInstr|1)
	}
}
