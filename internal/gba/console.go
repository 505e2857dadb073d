// Package gba wires the CPU, bus, and every MMIO-bearing subsystem
// into one console and drives the frame loop spec.md §5 describes:
// one CPU instruction, then one bus tick, repeated until a frame's
// worth of cycles has elapsed. Grounded on original_source/src/gba.rs's
// Gba struct and step loop, and on the teacher's main.go wiring.
package gba

import (
	"goba/internal/bus"
	"goba/internal/cartridge"
	"goba/internal/cpu"
	"goba/internal/ppu"
)

// CyclesPerFrame is the approximate machine-cycle budget of one 60 Hz
// GBA frame (spec.md §5).
const CyclesPerFrame = 280896

// ScreenWidth/ScreenHeight re-export the PPU's display dimensions for
// host frontends that only want to depend on this package.
const (
	ScreenWidth  = ppu.ScreenWidth
	ScreenHeight = ppu.ScreenHeight
)

// Console owns the whole machine and exposes the host-facing surface:
// Step/RunFrame, the PPU framebuffer, and keypad input.
type Console struct {
	Bus *bus.Bus
	CPU *cpu.CPU

	cycles uint64
}

// New builds a console from a BIOS image and a loaded ROM. bios must
// be exactly 16 KiB (spec.md §6); romData is copied into cartridge ROM.
func New(bios []byte, romData []byte) *Console {
	cart := cartridge.New(romData)
	b := bus.New(bios, cart)
	c := &Console{
		Bus: b,
		CPU: cpu.New(b),
	}
	return c
}

// Step executes exactly one CPU instruction (or services a pending
// IRQ, or idles one cycle while halted) and ticks the bus once,
// per spec.md §5's frame loop contract.
func (c *Console) Step() {
	if c.Bus.Halted() {
		c.CPU.Halt()
		c.Bus.SetHalted(false)
	}
	c.CPU.Step()
	c.cycles++
	c.Bus.Tick(c.cycles)
}

// RunFrame steps the console until the PPU reports a completed frame,
// clears that flag, and returns. The host calls this once per display
// refresh.
func (c *Console) RunFrame() {
	c.Bus.PPU.ClearFrameReady()
	for !c.Bus.PPU.IsFrameReady() {
		c.Step()
	}
}

// Framebuffer exposes the PPU's composed pixels for the current
// frame: 240x160 BGR555 values.
func (c *Console) Framebuffer() *[ScreenWidth * ScreenHeight]uint16 {
	return &c.Bus.PPU.Framebuffer
}

// SetKeys forwards the host's pressed-button mask (1 bit = pressed)
// into the keypad device, which handles the GBA's inverted polarity
// and any keypad-interrupt condition.
func (c *Console) SetKeys(pressedMask uint16) {
	c.Bus.Keypad.SetPressed(pressedMask)
}
