package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBus is a minimal interfaces.Bus backed by a flat 16 MiB array,
// enough for these instruction-level tests.
type fakeBus struct {
	mem [16 * 1024 * 1024]byte
	ime bool
	irq bool
}

func (b *fakeBus) Read8(addr uint32) uint8   { return b.mem[addr%uint32(len(b.mem))] }
func (b *fakeBus) Write8(addr uint32, v uint8) { b.mem[addr%uint32(len(b.mem))] = v }
func (b *fakeBus) Read16(addr uint32) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}
func (b *fakeBus) Write16(addr uint32, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}
func (b *fakeBus) Read32(addr uint32) uint32 {
	return uint32(b.Read16(addr)) | uint32(b.Read16(addr+2))<<16
}
func (b *fakeBus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}
func (b *fakeBus) IRQPending() bool { return b.irq }
func (b *fakeBus) IMEEnabled() bool { return b.ime }

func armWord(b *fakeBus, addr uint32, op uint32) {
	b.Write32(addr, op)
}

// DP flag semantics: CMP R0, R1 with R0=0, R1=1 must set N, clear Z, clear
// C (borrow occurred), clear V (spec.md §8 scenario 1).
func TestCMPFlags(t *testing.T) {
	b := &fakeBus{}
	c := New(b)
	c.Registers().SetReg(0, 0)
	c.Registers().SetReg(1, 1)
	c.Registers().SetReg(15, 0)

	// CMP R0, R1: cond=AL(1110) 00 I=0 opcode=1010(CMP) S=1 Rn=0 Rd=0000 shifter(Rm=1, LSL#0)
	op := uint32(0xE1500001)
	armWord(b, 0, op)

	c.Step()

	require.True(t, c.Registers().GetFlagN())
	require.False(t, c.Registers().GetFlagZ())
	require.False(t, c.Registers().GetFlagC())
	require.False(t, c.Registers().GetFlagV())
}

// Mode switch preserves banked registers: SWI in User mode must save
// CPSR->SPSR_svc, switch to Supervisor, leave R13_usr untouched in its
// bank, and jump to 0x08 (spec.md §8 scenario 2).
func TestSWIModeSwitch(t *testing.T) {
	b := &fakeBus{}
	c := New(b)
	c.Registers().SetMode(ModeUSR)
	c.Registers().SetReg(13, 0x03007F00)
	c.Registers().SetReg(15, 0)
	savedCPSR := c.Registers().GetCPSR()

	// SWI #0: cond=AL, 1111 then 24-bit comment field.
	armWord(b, 0, 0xEF000000)

	c.Step()

	require.Equal(t, ModeSVC, c.Registers().GetMode())
	require.Equal(t, savedCPSR, c.Registers().GetSPSR())
	require.Equal(t, uint32(0x08), c.Registers().GetReg(15))

	c.Registers().SetMode(ModeUSR)
	require.Equal(t, uint32(0x03007F00), c.Registers().GetReg(13))
}

// Block transfer writeback: STMIA R0!, {R1,R2,R3} with R0=EWRAM base,
// R1=1, R2=2, R3=3 writes three ascending words and leaves R0 pointing
// past the last one (spec.md §8 scenario 6).
func TestSTMIAWriteback(t *testing.T) {
	b := &fakeBus{}
	c := New(b)
	const base = 0x02000000
	c.Registers().SetReg(0, base)
	c.Registers().SetReg(1, 1)
	c.Registers().SetReg(2, 2)
	c.Registers().SetReg(3, 3)
	c.Registers().SetReg(15, 0)

	// STMIA R0!, {R1,R2,R3}: cond=AL 100 P=0 U=1 S=0 W=1 L=0 Rn=0000 reglist=0000000000001110
	op := uint32(0xE8A0000E)
	armWord(b, 0, op)

	c.Step()

	require.Equal(t, uint32(1), b.Read32(base))
	require.Equal(t, uint32(2), b.Read32(base+4))
	require.Equal(t, uint32(3), b.Read32(base+8))
	require.Equal(t, uint32(base+12), c.Registers().GetReg(0))
}

func TestShifterLSLSpecialCases(t *testing.T) {
	// LSL#0 (immediate): passthrough, carry unaffected.
	v, c := shift(0xFFFFFFFF, ShiftLSL, 0, true, false)
	require.Equal(t, uint32(0xFFFFFFFF), v)
	require.False(t, c)

	// LSL#32 (register-specified): result 0, carry = bit 0.
	v, c = shift(0x1, ShiftLSL, 32, false, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	// LSL by >32: result 0, carry false.
	v, c = shift(0xFFFFFFFF, ShiftLSL, 33, false, true)
	require.Equal(t, uint32(0), v)
	require.False(t, c)
}

func TestShifterRORImm0IsRRX(t *testing.T) {
	// ROR#0 encodes RRX: 33-bit rotate right through carry.
	v, c := shift(0x1, ShiftROR, 0, true, true)
	require.Equal(t, uint32(0x80000000), v)
	require.True(t, c) // old bit0 becomes new carry out
}

func TestRegisterBankingFIQRestoresUSR(t *testing.T) {
	r := NewRegisters()
	r.SetMode(ModeUSR)
	r.SetReg(8, 0x11111111)

	r.SetMode(ModeFIQ)
	r.SetReg(8, 0x22222222)

	r.SetMode(ModeUSR)
	require.Equal(t, uint32(0x11111111), r.GetReg(8))
}
