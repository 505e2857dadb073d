// Package cpu implements the ARM7TDMI fetch-decode-execute loop: dual
// ARM/THUMB instruction sets, banked registers across seven processor
// modes, the barrel shifter, and exception entry. Grounded on the
// teacher's internal/cpu/cpu.go (Bus-holding CPU struct driving a single
// Step per call), generalized to the const-specialized dispatch tables
// spec.md §4.1/§9 describes in place of the teacher's incomplete
// switch-based decoder.
package cpu

import "goba/internal/interfaces"

// CPU is the ARM7TDMI: register file, attached bus, and the small amount
// of scheduling state (HALT, the branch flag) that the fetch loop needs.
type CPU struct {
	regs *Registers
	bus  interfaces.Bus

	halted bool

	// branched is set by any instruction that writes r15 directly
	// (spec.md §3 "branch flag"). Step clears it and advances PC before
	// the handler runs, so a handler's r15 write is the next fetch
	// address as it stands.
	branched bool
}

// New wires a CPU to its bus and resets it to the ARM7TDMI's power-on
// state.
func New(bus interfaces.Bus) *CPU {
	c := &CPU{bus: bus, regs: NewRegisters()}
	c.Reset()
	return c
}

// Reset puts the CPU at the BIOS reset vector in Supervisor mode, IRQ
// and FIQ disabled, ARM state — mirrors the teacher's Reset.
func (c *CPU) Reset() {
	c.regs = NewRegisters()
	c.regs.SetReg(15, 0x00000000)
	c.halted = false
	c.branched = false
}

func (c *CPU) Registers() *Registers { return c.regs }

func (c *CPU) Halted() bool { return c.halted }
func (c *CPU) Halt()        { c.halted = true }

// Step executes exactly one instruction (or, if an interrupt is pending
// and enabled, dispatches it instead), per spec.md §2's frame loop
// contract. While halted with no pending interrupt it does nothing; the
// driver ticks the bus once per call regardless.
func (c *CPU) Step() {
	if c.halted {
		if c.bus.IRQPending() {
			c.halted = false
		} else {
			return
		}
	}

	if c.bus.IMEEnabled() && c.bus.IRQPending() && !c.regs.IsIRQDisabled() {
		c.enterIRQ()
		return
	}

	c.branched = false
	if c.regs.IsThumb() {
		c.stepThumb()
	} else {
		c.stepARM()
	}
}

func (c *CPU) stepARM() {
	pc := c.regs.GetReg(15)
	op := c.bus.Read32(pc &^ 3)
	if !c.branched {
		c.regs.SetReg(15, pc+4)
	}
	cond := Cond(op >> 28)
	if !c.conditionPasses(cond) {
		return
	}
	idx := ((op >> 16) & 0xFF0) | ((op >> 4) & 0xF)
	armTable[idx](c, op)
}

func (c *CPU) stepThumb() {
	pc := c.regs.GetReg(15)
	op := c.bus.Read16(pc &^ 1)
	if !c.branched {
		c.regs.SetReg(15, pc+2)
	}
	thumbTable[op>>8](c, op)
}

// readReg reads a general register applying the PC-prefetch offset: +8
// in ARM state (or +12 if the instruction uses a register-specified
// shift amount), +4 in THUMB state. Every other register reads its
// live value.
func (c *CPU) readReg(n uint8, pcOffset uint32) uint32 {
	if n != 15 {
		return c.regs.GetReg(n)
	}
	size := uint32(4)
	if c.regs.IsThumb() {
		size = 2
	}
	// GetReg(15) already holds instrAddr+size (Step advances it before
	// executing); rebase to instrAddr then add the requested prefetch
	// offset.
	return c.regs.GetReg(15) - size + pcOffset
}

// setReg writes a general register; writing r15 sets the branch flag and
// force-aligns the target for the current state.
func (c *CPU) setReg(n uint8, v uint32) {
	if n == 15 {
		c.branched = true
		if c.regs.IsThumb() {
			v &^= 1
		} else {
			v &^= 3
		}
	}
	c.regs.SetReg(n, v)
}
