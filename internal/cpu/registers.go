package cpu

import "fmt"

// ARM7TDMI operating modes (CPSR bits 4-0). Bit 4 is always 1; it exists
// only to make the seven encodings "10000".."11111" distinguishable from
// bit patterns that would otherwise collide with unrelated reserved bits.
const (
	ModeUSR uint8 = 0b10000
	ModeFIQ uint8 = 0b10001
	ModeIRQ uint8 = 0b10010
	ModeSVC uint8 = 0b10011
	ModeABT uint8 = 0b10111
	ModeUND uint8 = 0b11011
	ModeSYS uint8 = 0b11111
)

// CPSR bit positions.
const (
	flagT = 5
	flagF = 6
	flagI = 7
	flagV = 28
	flagC = 29
	flagZ = 30
	flagN = 31
)

// bankIndex enumerates the physical register banks. User and System share
// one bank and have no SPSR; the other five each have their own r13/r14 (and
// FIQ additionally r8-r12) plus an SPSR. Keeping this as a small array
// indexed by mode, rather than a map, is the representation spec.md §9
// recommends ("avoid an associative container keyed by mode").
type bankIndex int

const (
	bankUSR bankIndex = iota
	bankFIQ
	bankIRQ
	bankSVC
	bankABT
	bankUND
	bankCount
)

func bankFor(mode uint8) bankIndex {
	switch mode {
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSVC:
		return bankSVC
	case ModeABT:
		return bankABT
	case ModeUND:
		return bankUND
	default: // USR, SYS
		return bankUSR
	}
}

// bank holds one mode's shadowed registers. r8..r12 are only meaningful for
// bankFIQ; every other bank leaves them unused.
type bank struct {
	r8, r9, r10, r11, r12 uint32
	r13, r14              uint32
	spsr                  uint32
}

// Registers is the ARM7TDMI register file: r0-r15, CPSR, and the banked
// stores for every non-User mode. Grounded on the teacher's
// internal/cpu/registers.go, which already used "one field set per mode"
// instead of a map; generalized into a banks array per spec.md §9 and
// extended with UserReg/SetUserReg for LDM^.
type Registers struct {
	r    [8]uint32 // r0-r7: common to every mode, never banked.
	mid  [5]uint32 // live r8-r12 (FIQ's own copy while in FIQ mode).
	sp   uint32    // live r13
	lr   uint32    // live r14
	pc   uint32
	cpsr uint32

	banks [bankCount]bank
}

// NewRegisters returns a register file reset into Supervisor mode, ARM
// state, IRQ and FIQ disabled — the state the ARM7TDMI boots into.
func NewRegisters() *Registers {
	r := &Registers{}
	r.cpsr = uint32(ModeSVC) | (1 << flagF) | (1 << flagI)
	return r
}

func (r *Registers) GetMode() uint8 { return uint8(r.cpsr & 0x1F) }

// SetMode moves the live register file between banks. Per spec.md §4.4:
// the outgoing mode's shadowed registers are saved into its bank, and the
// incoming mode's bank is loaded into the live file, before CPSR's mode
// bits change. FIQ additionally shadows r8-r12; every other mode shares
// r0-r12 and only banks r13/r14 (+SPSR).
func (r *Registers) SetMode(mode uint8) {
	old := r.GetMode()
	if old == mode {
		return
	}
	r.switchBank(old, mode)
	r.cpsr = (r.cpsr &^ 0x1F) | uint32(mode)
}

func (r *Registers) GetCPSR() uint32 { return r.cpsr }

// SetCPSR writes the whole CPSR (used by MSR and by exception return),
// performing the same bank-swap discipline as SetMode when the mode bits
// change.
func (r *Registers) SetCPSR(v uint32) {
	newMode := uint8(v & 0x1F)
	if newMode != r.GetMode() {
		r.switchBank(r.GetMode(), newMode)
	}
	r.cpsr = v
}

func (r *Registers) GetSPSR() uint32 {
	switch r.GetMode() {
	case ModeUSR, ModeSYS:
		return 0
	default:
		return r.banks[bankFor(r.GetMode())].spsr
	}
}

func (r *Registers) SetSPSR(v uint32) {
	switch r.GetMode() {
	case ModeUSR, ModeSYS:
		return
	default:
		r.banks[bankFor(r.GetMode())].spsr = v
	}
}

func (r *Registers) IsThumb() bool         { return r.cpsr&(1<<flagT) != 0 }
func (r *Registers) SetThumbState(t bool)  { r.setFlagBit(flagT, t) }
func (r *Registers) IsFIQDisabled() bool   { return r.cpsr&(1<<flagF) != 0 }
func (r *Registers) SetFIQDisabled(d bool) { r.setFlagBit(flagF, d) }
func (r *Registers) IsIRQDisabled() bool   { return r.cpsr&(1<<flagI) != 0 }
func (r *Registers) SetIRQDisabled(d bool) { r.setFlagBit(flagI, d) }

func (r *Registers) GetFlagN() bool { return r.cpsr&(1<<flagN) != 0 }
func (r *Registers) GetFlagZ() bool { return r.cpsr&(1<<flagZ) != 0 }
func (r *Registers) GetFlagC() bool { return r.cpsr&(1<<flagC) != 0 }
func (r *Registers) GetFlagV() bool { return r.cpsr&(1<<flagV) != 0 }
func (r *Registers) SetFlagN(b bool) { r.setFlagBit(flagN, b) }
func (r *Registers) SetFlagZ(b bool) { r.setFlagBit(flagZ, b) }
func (r *Registers) SetFlagC(b bool) { r.setFlagBit(flagC, b) }
func (r *Registers) SetFlagV(b bool) { r.setFlagBit(flagV, b) }

func (r *Registers) setFlagBit(bit uint, set bool) {
	if set {
		r.cpsr |= 1 << bit
	} else {
		r.cpsr &^= 1 << bit
	}
}

// switchBank performs the three-step register shuffle spec.md §9
// describes: save the outgoing mode's bank, load the incoming mode's
// bank. CPSR's mode bits are updated by the caller.
func (r *Registers) switchBank(oldMode, newMode uint8) {
	oldBank := bankFor(oldMode)
	newBank := bankFor(newMode)

	if oldMode == ModeFIQ {
		r.banks[oldBank].r8 = r.mid[0]
		r.banks[oldBank].r9 = r.mid[1]
		r.banks[oldBank].r10 = r.mid[2]
		r.banks[oldBank].r11 = r.mid[3]
		r.banks[oldBank].r12 = r.mid[4]
	}
	r.banks[oldBank].r13 = r.sp
	r.banks[oldBank].r14 = r.lr

	if newMode == ModeFIQ {
		if oldMode != ModeFIQ {
			// Entering FIQ from any other mode: r8-r12 were the shared
			// USR/SVC/... bank until now, so stash them in banks[bankUSR]
			// before loading FIQ's own r8-r12 (spec.md §4.4).
			r.banks[bankUSR].r8 = r.mid[0]
			r.banks[bankUSR].r9 = r.mid[1]
			r.banks[bankUSR].r10 = r.mid[2]
			r.banks[bankUSR].r11 = r.mid[3]
			r.banks[bankUSR].r12 = r.mid[4]
		}
		r.mid[0] = r.banks[newBank].r8
		r.mid[1] = r.banks[newBank].r9
		r.mid[2] = r.banks[newBank].r10
		r.mid[3] = r.banks[newBank].r11
		r.mid[4] = r.banks[newBank].r12
	} else if oldMode == ModeFIQ {
		// Leaving FIQ into a non-FIQ mode: restore the USR r8-r12 that
		// FIQ entry shadowed away (spec.md §4.4 "switching away from
		// FIQ must undo the FIQ save of r8-r12").
		r.mid[0] = r.banks[bankUSR].r8
		r.mid[1] = r.banks[bankUSR].r9
		r.mid[2] = r.banks[bankUSR].r10
		r.mid[3] = r.banks[bankUSR].r11
		r.mid[4] = r.banks[bankUSR].r12
	}

	r.sp = r.banks[newBank].r13
	r.lr = r.banks[newBank].r14
}

// GetReg reads r0-r15. PC reads the raw stored value; callers needing the
// ARM "PC+8"/THUMB "PC+4" prefetch offset must add it themselves (the
// executor does, since the offset is ARM/THUMB-state dependent, not a
// register-file property).
func (r *Registers) GetReg(n uint8) uint32 {
	switch {
	case n < 8:
		return r.r[n]
	case n < 13:
		return r.mid[n-8]
	case n == 13:
		return r.sp
	case n == 14:
		return r.lr
	case n == 15:
		return r.pc
	default:
		panic(fmt.Sprintf("cpu: register index out of range: r%d", n))
	}
}

func (r *Registers) SetReg(n uint8, v uint32) {
	switch {
	case n < 8:
		r.r[n] = v
	case n < 13:
		r.mid[n-8] = v
	case n == 13:
		r.sp = v
	case n == 14:
		r.lr = v
	case n == 15:
		r.pc = v
	default:
		panic(fmt.Sprintf("cpu: register index out of range: r%d", n))
	}
}

// UserReg/SetUserReg bypass the current mode and always address the User
// bank — used by LDM/STM with the S-bit set and r15 absent from the list
// (spec.md §4.3, resolved as open question 3 in SPEC_FULL.md).
func (r *Registers) UserReg(n uint8) uint32 {
	if r.GetMode() == ModeUSR || r.GetMode() == ModeSYS {
		return r.GetReg(n)
	}
	switch {
	case n < 8:
		return r.r[n]
	case n < 13:
		if r.GetMode() == ModeFIQ {
			return r.banks[bankUSR].regByIndex(n - 8)
		}
		return r.mid[n-8]
	case n == 13:
		return r.banks[bankUSR].r13
	case n == 14:
		return r.banks[bankUSR].r14
	case n == 15:
		return r.pc
	default:
		panic(fmt.Sprintf("cpu: register index out of range: r%d", n))
	}
}

func (r *Registers) SetUserReg(n uint8, v uint32) {
	if r.GetMode() == ModeUSR || r.GetMode() == ModeSYS {
		r.SetReg(n, v)
		return
	}
	switch {
	case n < 8:
		r.r[n] = v
	case n < 13:
		if r.GetMode() == ModeFIQ {
			r.banks[bankUSR].setRegByIndex(n-8, v)
		} else {
			r.mid[n-8] = v
		}
	case n == 13:
		r.banks[bankUSR].r13 = v
	case n == 14:
		r.banks[bankUSR].r14 = v
	case n == 15:
		r.pc = v
	default:
		panic(fmt.Sprintf("cpu: register index out of range: r%d", n))
	}
}

func (b *bank) regByIndex(i uint8) uint32 {
	switch i {
	case 0:
		return b.r8
	case 1:
		return b.r9
	case 2:
		return b.r10
	case 3:
		return b.r11
	case 4:
		return b.r12
	default:
		panic("cpu: bad FIQ bank index")
	}
}

func (b *bank) setRegByIndex(i uint8, v uint32) {
	switch i {
	case 0:
		b.r8 = v
	case 1:
		b.r9 = v
	case 2:
		b.r10 = v
	case 3:
		b.r11 = v
	case 4:
		b.r12 = v
	default:
		panic("cpu: bad FIQ bank index")
	}
}

// String renders the full register file for debug tracing.
func (r *Registers) String() string {
	return fmt.Sprintf(
		"R0=%08X R1=%08X R2=%08X R3=%08X R4=%08X R5=%08X R6=%08X R7=%08X\n"+
			"R8=%08X R9=%08X R10=%08X R11=%08X R12=%08X SP=%08X LR=%08X PC=%08X\n"+
			"CPSR=%08X mode=%02X thumb=%v N=%v Z=%v C=%v V=%v",
		r.GetReg(0), r.GetReg(1), r.GetReg(2), r.GetReg(3),
		r.GetReg(4), r.GetReg(5), r.GetReg(6), r.GetReg(7),
		r.GetReg(8), r.GetReg(9), r.GetReg(10), r.GetReg(11),
		r.GetReg(12), r.GetReg(13), r.GetReg(14), r.GetReg(15),
		r.cpsr, r.GetMode(), r.IsThumb(),
		r.GetFlagN(), r.GetFlagZ(), r.GetFlagC(), r.GetFlagV(),
	)
}
