// Package bus implements the GBA's region-dispatched 32-bit address
// space: it owns every memory array and MMIO-bearing subsystem, wires
// IRQ into the CPU, and drives DMA (spec.md §3, §4.5). Grounded on the
// teacher's internal/bus/bus.go, which already dispatched on
// address>>24 into per-region methods; generalized here to the full
// eight-region map plus the MMIO sub-router in mmio.go.
package bus

import (
	"goba/internal/apu"
	"goba/internal/cartridge"
	"goba/internal/dma"
	"goba/internal/irq"
	"goba/internal/keypad"
	"goba/internal/memory"
	"goba/internal/ppu"
	"goba/internal/timer"
)

const (
	regionBIOS = 0x00
	regionEWRAM = 0x02
	regionIWRAM = 0x03
	regionMMIO = 0x04
	regionPalette = 0x05
	regionVRAM = 0x06
	regionOAM = 0x07
	regionROMLo = 0x08
	regionROMHi = 0x0D
	regionSRAM = 0x0E
)

const (
	vramSize    = 96 * 1024
	paletteSize = 1 * 1024
	oamSize     = 1 * 1024
)

// Bus wires every subsystem together and implements interfaces.Bus for
// the CPU.
type Bus struct {
	bios  *memory.Region
	ewram *memory.Region
	iwram *memory.Region

	palette *memory.Region
	vram    *memory.Region
	oam     *memory.Region

	cart *cartridge.Cartridge

	PPU     *ppu.PPU
	DMA     *dma.Controller
	Timers  *timer.Controller
	IRQ     *irq.Controller
	Keypad  *keypad.Device
	APU     *apu.Registers

	halted bool
}

func New(biosImage []byte, cart *cartridge.Cartridge) *Bus {
	irqc := &irq.Controller{}
	palette := memory.NewRegion(paletteSize)
	vram := memory.NewRegion(vramSize)
	oam := memory.NewRegion(oamSize)

	b := &Bus{
		bios:    memory.NewRegionFrom(biosImage, memory.BIOSSize),
		ewram:   memory.NewRegion(memory.EWRAMSize),
		iwram:   memory.NewRegion(memory.IWRAMSize),
		palette: palette,
		vram:    vram,
		oam:     oam,
		cart:    cart,
		PPU:     ppu.New(vram.Bytes(), palette.Bytes(), oam.Bytes(), irqc),
		DMA:     dma.New(irqc),
		Timers:  timer.New(irqc),
		IRQ:     irqc,
		Keypad:  keypad.New(irqc),
		APU:     apu.New(),
	}
	return b
}

// Tick advances the PPU by one cycle and the timers by one cycle, and
// evaluates DMA triggers — the per-cycle side effects the CPU's Step
// loop cannot see directly (spec.md §5 "the bus ticks the PPU,
// timers, and DMA once").
func (b *Bus) Tick(cycleCount uint64) {
	enteredHBlank, enteredVBlank := b.PPU.Tick()
	b.Timers.Tick(cycleCount)
	b.DMA.TickTrigger(enteredVBlank, enteredHBlank, b)
}

func (b *Bus) IRQPending() bool  { return b.IRQ.Pending() }
func (b *Bus) IMEEnabled() bool  { return b.IRQ.Enabled() }

func (b *Bus) Halted() bool     { return b.halted }
func (b *Bus) SetHalted(v bool) { b.halted = v }

func (b *Bus) Read8(addr uint32) uint8 {
	switch addr >> 24 {
	case regionBIOS:
		return b.bios.Read8(addr)
	case regionEWRAM:
		return b.ewram.Read8(addr)
	case regionIWRAM:
		return b.iwram.Read8(addr)
	case regionMMIO:
		return b.mmioRead8(addr & 0xFFFFFF)
	case regionPalette:
		return b.palette.Read8(addr)
	case regionVRAM:
		return b.vram.Read8(vramMirror(addr))
	case regionOAM:
		return b.oam.Read8(addr)
	case regionSRAM:
		return b.cart.ReadSRAM(addr)
	default:
		if isROM(addr) {
			return b.cart.ReadROM8(addr - 0x08000000)
		}
		return 0
	}
}

func (b *Bus) Write8(addr uint32, v uint8) {
	switch addr >> 24 {
	case regionBIOS:
		// Read-only.
	case regionEWRAM:
		b.ewram.Write8(addr, v)
	case regionIWRAM:
		b.iwram.Write8(addr, v)
	case regionMMIO:
		b.mmioWrite8(addr & 0xFFFFFF, v)
	case regionPalette:
		b.palette.Write8(addr, v)
	case regionVRAM:
		b.vram.Write8(vramMirror(addr), v)
	case regionOAM:
		b.oam.Write8(addr, v)
	case regionSRAM:
		b.cart.WriteSRAM(addr, v)
	default:
		// ROM and anything unmapped: read-only / open bus.
	}
}

func (b *Bus) Read16(addr uint32) uint16 {
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return lo | hi<<8
}

// Write16 hands MMIO writes to the register's 16-bit handler directly
// (HALTCNT's halfword at 0x300 excepted), so write-only registers get
// both bytes at once; every other region is written byte by byte.
func (b *Bus) Write16(addr uint32, v uint16) {
	if addr>>24 == regionMMIO {
		if off := (addr & 0xFFFFFF) &^ 1; off != 0x300 {
			b.mmioWrite16(off, v)
			return
		}
	}
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}

func (b *Bus) Read32(addr uint32) uint32 {
	lo := uint32(b.Read16(addr))
	hi := uint32(b.Read16(addr + 2))
	return lo | hi<<16
}

func (b *Bus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}

// vramMirror folds VRAM's 128 KiB address window down to its 96 KiB
// backing size: the top 32 KiB mirrors the second-to-last 32 KiB
// segment rather than wrapping flatly, per real GBA VRAM behavior.
func vramMirror(addr uint32) uint32 {
	a := addr % (128 * 1024)
	if a >= vramSize {
		a -= 32 * 1024
	}
	return a
}

func isROM(addr uint32) bool {
	region := addr >> 24
	return region >= regionROMLo && region <= regionROMHi
}
