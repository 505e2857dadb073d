package cpu

// Exception vector addresses.
const (
	vectorUndefined = 0x00000004
	vectorSWI       = 0x00000008
	vectorIRQ       = 0x00000018
)

// enterException performs the mode switch and register save common to
// SWI, undefined-instruction, and IRQ entry (spec.md §4.4): save CPSR
// into the target mode's SPSR, switch mode, force ARM state and IRQ
// disabled, store the return address in the new mode's r14, then jump
// to the fixed vector.
func (c *CPU) enterException(mode uint8, vector uint32, returnAddr uint32) {
	savedCPSR := c.regs.GetCPSR()
	c.regs.SetMode(mode)
	c.regs.SetSPSR(savedCPSR)
	c.regs.SetThumbState(false)
	c.regs.SetIRQDisabled(true)
	c.regs.SetReg(14, returnAddr)
	c.regs.SetReg(15, vector)
	c.branched = true
}

// instrAddr recovers the address of the instruction currently executing
// from the already-advanced PC (Step wrote PC+size before dispatch).
func (c *CPU) instrAddr() uint32 {
	size := uint32(4)
	if c.regs.IsThumb() {
		size = 2
	}
	return c.regs.GetReg(15) - size
}

// execSWI and execUndefined both store instrAddr+4 regardless of
// ARM/THUMB state: spec.md §4.4 notes THUMB's raw +2 offset but that
// "the handler sees the same offset" as ARM's +4.
func execSWI(c *CPU, op uint32) {
	c.enterException(ModeSVC, vectorSWI, c.instrAddr()+4)
}

func execUndefined(c *CPU, op uint32) {
	c.enterException(ModeUND, vectorUndefined, c.instrAddr()+4)
}

// enterIRQ is invoked between instructions by Step, not from the
// dispatch table.
func (c *CPU) enterIRQ() {
	c.enterException(ModeIRQ, vectorIRQ, c.regs.GetReg(15)+4)
}
