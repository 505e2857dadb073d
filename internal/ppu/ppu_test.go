package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goba/internal/irq"
)

func newTestPPU() *PPU {
	vram := make([]byte, 96*1024)
	pal := make([]byte, 1024)
	oam := make([]byte, 1024)
	return New(vram, pal, oam, &irq.Controller{})
}

// The hdrawLen-th tick of a line crosses into HBlank; every tick before
// it stays in HDraw (spec.md §4.6).
func TestHDrawToHBlankTransition(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < hdrawLen-1; i++ {
		h, v := p.Tick()
		require.False(t, h)
		require.False(t, v)
	}
	h, v := p.Tick()
	require.True(t, h)
	require.False(t, v)
}

func TestLineAdvancesAfterHBlank(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < hblankLen; i++ {
		p.Tick()
	}
	require.Equal(t, 1, p.LY())
}

func TestVBlankEntryAtLine160(t *testing.T) {
	p := newTestPPU()
	enteredVBlank := false
	for line := 0; line < vblankLine && !enteredVBlank; line++ {
		for i := 0; i < hblankLen; i++ {
			_, v := p.Tick()
			if v {
				enteredVBlank = true
			}
		}
	}
	require.True(t, enteredVBlank)
	require.Equal(t, vblankLine, p.LY())
	require.True(t, p.IsFrameReady())
}

func TestFrameWrapsAt228Lines(t *testing.T) {
	p := newTestPPU()
	for line := 0; line < totalLines; line++ {
		for i := 0; i < hblankLen; i++ {
			p.Tick()
		}
	}
	require.Equal(t, 0, p.LY())
}

func TestDISPSTATVBlankIRQ(t *testing.T) {
	irqc := &irq.Controller{}
	p := New(make([]byte, 96*1024), make([]byte, 1024), make([]byte, 1024), irqc)
	p.WriteDISPSTAT(dispstatVBlankIRQ)
	irqc.IE = uint16(irq.VBlank)

	for line := 0; line < vblankLine; line++ {
		for i := 0; i < hblankLen; i++ {
			p.Tick()
		}
	}
	require.NotZero(t, irqc.IF&uint16(irq.VBlank))
	require.True(t, irqc.Pending())
}
