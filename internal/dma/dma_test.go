package dma

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goba/internal/irq"
)

// flatBus is a minimal BusAccessor over a flat array, enough to
// exercise DMA's block-copy loop independent of region dispatch.
type flatBus struct {
	mem [1 << 20]byte
}

func (b *flatBus) Read8(addr uint32) uint8    { return b.mem[addr%uint32(len(b.mem))] }
func (b *flatBus) Write8(addr uint32, v uint8) { b.mem[addr%uint32(len(b.mem))] = v }
func (b *flatBus) Read16(addr uint32) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}
func (b *flatBus) Write16(addr uint32, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}
func (b *flatBus) Read32(addr uint32) uint32 {
	return uint32(b.Read16(addr)) | uint32(b.Read16(addr+2))<<16
}
func (b *flatBus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}

// VBlank-triggered, non-repeating DMA0 of 240 16-bit words copies 480
// bytes and auto-clears its enable bit (spec.md §8 scenario 4).
func TestVBlankTriggeredTransferAndAutoDisable(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)

	const src, dst = 0x1000, 0x2000
	bus := &flatBus{}
	for i := 0; i < 240; i++ {
		bus.Write16(src+uint32(i*2), uint16(0xA000+i))
	}

	ch := &c.Channels[0]
	ch.SrcAddr = src
	ch.DstAddr = dst
	ch.Count = 240
	ch.SrcCtrl = AddrIncrement
	ch.DstCtrl = AddrIncrement
	ch.Timing = TimingVBlank
	ch.Repeat = false
	ch.Enable = true

	// Enabling alone must not fire a VBlank-timed channel.
	c.TickTrigger(false, false, bus)
	require.Equal(t, uint16(0), bus.Read16(dst))

	c.TickTrigger(true, false, bus)

	for i := 0; i < 240; i++ {
		require.Equal(t, uint16(0xA000+i), bus.Read16(dst+uint32(i*2)))
	}
	require.False(t, ch.Enable)
}

func TestImmediateTimingFiresOnRisingEdgeOnly(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)
	bus := &flatBus{}
	bus.Write32(0x1000, 0xDEADBEEF)

	ch := &c.Channels[1]
	ch.SrcAddr = 0x1000
	ch.DstAddr = 0x2000
	ch.Count = 1
	ch.Word32 = true
	ch.SrcCtrl = AddrFixed
	ch.DstCtrl = AddrFixed
	ch.Timing = TimingImmediate
	ch.Enable = true

	c.TickTrigger(false, false, bus)
	require.Equal(t, uint32(0xDEADBEEF), bus.Read32(0x2000))
	require.False(t, ch.Enable) // Repeat defaults false

	bus.Write32(0x2000, 0)
	c.TickTrigger(false, false, bus) // no rising edge now, enable is false
	require.Equal(t, uint32(0), bus.Read32(0x2000))
}

func TestRepeatKeepsChannelArmedAndRaisesIRQ(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)
	bus := &flatBus{}

	ch := &c.Channels[2]
	ch.SrcAddr = 0x1000
	ch.DstAddr = 0x2000
	ch.Count = 1
	ch.SrcCtrl = AddrFixed
	ch.DstCtrl = AddrFixed
	ch.Timing = TimingHBlank
	ch.Repeat = true
	ch.IRQEnable = true
	ch.Enable = true

	c.TickTrigger(false, true, bus)
	require.True(t, ch.Enable)
	require.NotZero(t, irqc.IF&uint16(irq.DMA2))
}

func TestCountZeroUsesMaxCount(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)
	bus := &flatBus{}

	ch := &c.Channels[3]
	ch.SrcAddr = 0x1000
	ch.DstAddr = 0x2000
	ch.Count = 0
	ch.SrcCtrl = AddrIncrement
	ch.DstCtrl = AddrIncrement
	ch.Timing = TimingImmediate
	ch.Enable = true

	require.Equal(t, uint32(0x10000), ch.maxCount())
	c.TickTrigger(false, false, bus)
	require.False(t, ch.Enable)
}
