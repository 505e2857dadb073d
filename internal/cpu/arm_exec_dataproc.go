package cpu

// Data-processing opcode field (opcode[24:21]).
const (
	opAND = iota
	opEOR
	opSUB
	opRSB
	opADD
	opADC
	opSBC
	opRSC
	opTST
	opTEQ
	opCMP
	opCMN
	opORR
	opMOV
	opBIC
	opMVN
)

// computeOperand2 evaluates a data-processing instruction's operand 2,
// per spec.md §4.2: an immediate-rotate form when I is set, else a
// register optionally shifted by an immediate or by the low byte of
// another register.
func (c *CPU) computeOperand2(op uint32, iFlag bool, pcOffset uint32) (uint32, bool) {
	if iFlag {
		imm := op & 0xFF
		rotate := ((op >> 8) & 0xF) * 2
		if rotate == 0 {
			return imm, c.regs.GetFlagC()
		}
		return shift(imm, ShiftROR, rotate, true, c.regs.GetFlagC())
	}

	rm := uint8(op & 0xF)
	rmVal := c.readReg(rm, pcOffset)
	st := ShiftType((op >> 5) & 3)

	if op&0x10 != 0 {
		rs := uint8((op >> 8) & 0xF)
		amount := c.readReg(rs, 8) & 0xFF
		if amount == 0 {
			return rmVal, c.regs.GetFlagC()
		}
		return shift(rmVal, st, amount, false, c.regs.GetFlagC())
	}

	amount := (op >> 7) & 0x1F
	return shift(rmVal, st, amount, true, c.regs.GetFlagC())
}

// shiftPCOffset is +12 instead of the usual +8 when the shift amount
// itself is register-specified (spec.md §4.2, resolved open question 2
// in SPEC_FULL.md).
func shiftPCOffset(op uint32, iFlag bool) uint32 {
	if !iFlag && op&0x10 != 0 {
		return 12
	}
	return 8
}

func makeDataProcHandler(top8 uint32) armHandler {
	iFlag := (top8>>5)&1 != 0
	opcode := (top8 >> 1) & 0xF
	sFlag := top8&1 != 0

	return func(c *CPU, op uint32) {
		rn := uint8((op >> 16) & 0xF)
		rd := uint8((op >> 12) & 0xF)
		pcOff := shiftPCOffset(op, iFlag)
		op2, shifterCarry := c.computeOperand2(op, iFlag, pcOff)
		rnVal := c.readReg(rn, pcOff)

		var result uint32
		var carryOut, overflow bool
		logical := false

		switch opcode {
		case opAND, opTST:
			result = rnVal & op2
			logical = true
		case opEOR, opTEQ:
			result = rnVal ^ op2
			logical = true
		case opORR:
			result = rnVal | op2
			logical = true
		case opMOV:
			result = op2
			logical = true
		case opBIC:
			result = rnVal &^ op2
			logical = true
		case opMVN:
			result = ^op2
			logical = true
		case opSUB, opCMP:
			result, carryOut, overflow = subWithFlags(rnVal, op2)
		case opRSB:
			result, carryOut, overflow = subWithFlags(op2, rnVal)
		case opADD, opCMN:
			result, carryOut, overflow = addWithFlags(rnVal, op2)
		case opADC:
			result, carryOut, overflow = addWithCarry(rnVal, op2, c.regs.GetFlagC())
		case opSBC:
			result, carryOut, overflow = subWithCarry(rnVal, op2, c.regs.GetFlagC())
		case opRSC:
			result, carryOut, overflow = subWithCarry(op2, rnVal, c.regs.GetFlagC())
		}

		writesRd := opcode != opTST && opcode != opTEQ && opcode != opCMP && opcode != opCMN

		if sFlag {
			if writesRd && rd == 15 {
				c.regs.SetCPSR(c.regs.GetSPSR())
			} else {
				c.regs.SetFlagZ(result == 0)
				c.regs.SetFlagN(result&0x80000000 != 0)
				if logical {
					c.regs.SetFlagC(shifterCarry)
				} else {
					c.regs.SetFlagC(carryOut)
					c.regs.SetFlagV(overflow)
				}
			}
		}

		if writesRd {
			c.setReg(rd, result)
		}
	}
}

// addWithFlags computes a+b with ARM's carry (unsigned overflow) and
// overflow (signed overflow) definitions.
func addWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b)
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	overflow = (a^b)&0x80000000 == 0 && (a^result)&0x80000000 != 0
	return
}

func addWithCarry(a, b uint32, cin bool) (result uint32, carry, overflow bool) {
	c := uint64(0)
	if cin {
		c = 1
	}
	sum := uint64(a) + uint64(b) + c
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	overflow = (a^b)&0x80000000 == 0 && (a^result)&0x80000000 != 0
	return
}

// subWithFlags computes a-b. Per the resolved open question in
// SPEC_FULL.md, C = NOT borrow, i.e. C is set when a >= b (unsigned).
func subWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	result = a - b
	carry = a >= b
	overflow = (a^b)&0x80000000 != 0 && (a^result)&0x80000000 != 0
	return
}

// subWithCarry computes a-b-(1-cin), used by SBC/RSC. cin is the
// current C flag; ARM's SBC/RSC subtract the NOT of it.
func subWithCarry(a, b uint32, cin bool) (result uint32, carry, overflow bool) {
	borrow := uint64(1)
	if cin {
		borrow = 0
	}
	diff := uint64(a) - uint64(b) - borrow
	result = uint32(diff)
	carry = uint64(a) >= uint64(b)+borrow
	overflow = (a^b)&0x80000000 != 0 && (a^result)&0x80000000 != 0
	return
}
