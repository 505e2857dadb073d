package cpu

// makeThumbHiReg builds format 5: ADD/CMP/MOV/BX with the hi-register
// extension (either operand may address r8-r15). op2 (bits9-8) is
// known from top8 at build time; H1/H2 live in the low byte and are
// read from op at runtime.
func makeThumbHiReg(top8 uint32) thumbHandler {
	op2 := top8 & 0x3
	return func(c *CPU, op uint16) {
		h1 := op&0x80 != 0
		h2 := op&0x40 != 0
		rs := uint8((op >> 3) & 0x7)
		rd := uint8(op & 0x7)
		if h2 {
			rs += 8
		}
		if h1 {
			rd += 8
		}

		switch op2 {
		case 0: // ADD
			result, _, _ := addWithFlags(c.readReg(rd, 4), c.readReg(rs, 4))
			c.setReg(rd, result)
		case 1: // CMP
			result, carry, overflow := subWithFlags(c.readReg(rd, 4), c.readReg(rs, 4))
			c.regs.SetFlagZ(result == 0)
			c.regs.SetFlagN(result&0x80000000 != 0)
			c.regs.SetFlagC(carry)
			c.regs.SetFlagV(overflow)
		case 2: // MOV
			c.setReg(rd, c.readReg(rs, 4))
		case 3: // BX
			target := c.readReg(rs, 4)
			c.regs.SetThumbState(target&1 != 0)
			c.setReg(15, target)
		}
	}
}
