// Package dma implements the GBA's four DMA channels: address-control
// modes, start-timing triggers, and transfer-size-dependent stride
// (spec.md §4.5, resolved open question 4). Register layout grounded
// on original_source's src/mmu/dma.rs (apply_dma_cnt, AddrControl,
// StartTiming).
package dma

import "goba/internal/irq"

type AddrControl uint8

const (
	AddrIncrement AddrControl = iota
	AddrDecrement
	AddrFixed
	AddrIncrementReload
)

type StartTiming uint8

const (
	TimingImmediate StartTiming = iota
	TimingVBlank
	TimingHBlank
	TimingSpecial
)

var dmaIRQSource = [4]irq.Source{irq.DMA0, irq.DMA1, irq.DMA2, irq.DMA3}

// Channel is one DMA channel's register state.
type Channel struct {
	SrcAddr  uint32
	DstAddr  uint32
	Count    uint16
	DstCtrl  AddrControl
	SrcCtrl  AddrControl
	Repeat   bool
	Word32   bool
	Timing   StartTiming
	IRQEnable bool
	Enable   bool

	// internalSrc/internalDst are the live working addresses,
	// reloaded from SrcAddr/DstAddr when the channel (re)arms —
	// AddrIncrementReload only resets the destination at each
	// re-trigger, not the source.
	internalSrc uint32
	internalDst uint32

	prevEnable bool // for edge detection on the enable bit
	needsArm   bool // internal addresses not yet latched since enable
	wide       bool // channel 3 has a 16-bit word count, others 14-bit
}

func (ch *Channel) maxCount() uint32 {
	if ch.wide {
		return 0x10000
	}
	return 0x4000
}

// BusAccessor is the memory interface a channel copies through once it
// has decided to fire; run performs the whole block transfer
// synchronously (spec.md §5 "DMA execution runs to completion within
// the tick that triggered it; it is not preemptible").
type BusAccessor interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, v uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, v uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, v uint32)
}

// Controller owns all four channels and evaluates trigger conditions
// each bus tick.
type Controller struct {
	Channels [4]Channel
	irqc     *irq.Controller
}

func New(irqc *irq.Controller) *Controller {
	c := &Controller{irqc: irqc}
	c.Channels[3].wide = true
	return c
}

func stride(word32 bool) uint32 {
	if word32 {
		return 4
	}
	return 2
}

// arm reloads a channel's internal working addresses when it is
// (re)armed: on its first fire since the enable bit went high always,
// and on every later re-trigger if AddrIncrementReload selects the
// destination.
func (ch *Channel) arm(firstArm bool) {
	if firstArm {
		ch.internalSrc = ch.SrcAddr
		ch.internalDst = ch.DstAddr
	} else if ch.DstCtrl == AddrIncrementReload {
		ch.internalDst = ch.DstAddr
	}
}

func (ch *Channel) run(bus BusAccessor) {
	n := uint32(ch.Count) & (ch.maxCount() - 1)
	if n == 0 {
		n = ch.maxCount()
	}
	st := stride(ch.Word32)

	for i := uint32(0); i < n; i++ {
		if ch.Word32 {
			bus.Write32(ch.internalDst, bus.Read32(ch.internalSrc))
		} else {
			bus.Write16(ch.internalDst, bus.Read16(ch.internalSrc))
		}

		switch ch.SrcCtrl {
		case AddrIncrement, AddrIncrementReload:
			ch.internalSrc += st
		case AddrDecrement:
			ch.internalSrc -= st
		case AddrFixed:
		}

		switch ch.DstCtrl {
		case AddrIncrement, AddrIncrementReload:
			ch.internalDst += st
		case AddrDecrement:
			ch.internalDst -= st
		case AddrFixed:
		}
	}
}

// TickTrigger is called once per bus tick, after any MMIO writes for
// that tick, and on the PPU's HBlank/VBlank transitions, per spec.md
// §4.5. vblankEdge/hblankEdge report whether the PPU crossed into that
// state this tick.
func (c *Controller) TickTrigger(vblankEdge, hblankEdge bool, bus BusAccessor) {
	for i := range c.Channels {
		ch := &c.Channels[i]

		risingEdge := ch.Enable && !ch.prevEnable
		ch.prevEnable = ch.Enable
		if risingEdge {
			ch.needsArm = true
		}
		if !ch.Enable {
			continue
		}

		var fire bool
		switch ch.Timing {
		case TimingImmediate:
			fire = risingEdge
		case TimingVBlank:
			fire = vblankEdge
		case TimingHBlank:
			fire = hblankEdge
		case TimingSpecial:
			fire = false // video capture / audio FIFO: out of scope
		}
		if !fire {
			continue
		}

		ch.arm(ch.needsArm)
		ch.needsArm = false
		ch.run(bus)

		if ch.IRQEnable {
			c.irqc.Raise(dmaIRQSource[i])
		}
		if !ch.Repeat {
			ch.Enable = false
			ch.prevEnable = false
		}
	}
}

// ReadControl/WriteControl implement DMAxCNT_H.
func (c *Controller) ReadControl(i int) uint16 {
	ch := &c.Channels[i]
	var v uint16
	v |= uint16(ch.DstCtrl&0x3) << 5
	v |= uint16(ch.SrcCtrl&0x3) << 7
	if ch.Repeat {
		v |= 1 << 9
	}
	if ch.Word32 {
		v |= 1 << 10
	}
	v |= uint16(ch.Timing&0x3) << 12
	if ch.IRQEnable {
		v |= 1 << 14
	}
	if ch.Enable {
		v |= 1 << 15
	}
	return v
}

func (c *Controller) WriteControl(i int, v uint16) {
	ch := &c.Channels[i]
	ch.DstCtrl = AddrControl((v >> 5) & 0x3)
	ch.SrcCtrl = AddrControl((v >> 7) & 0x3)
	ch.Repeat = v&(1<<9) != 0
	ch.Word32 = v&(1<<10) != 0
	ch.Timing = StartTiming((v >> 12) & 0x3)
	ch.IRQEnable = v&(1<<14) != 0
	ch.Enable = v&(1<<15) != 0
}
