// Package interfaces collects the small cross-package contracts that let
// cpu be built and tested independently of the concrete Bus that wires
// the subsystems together.
package interfaces

// Bus is everything the CPU needs from the memory system.
type Bus interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)

	// IRQPending reports whether (IE & IF) != 0, independent of IME.
	// This is the condition that wakes the CPU from HALT.
	IRQPending() bool

	// IMEEnabled reports the interrupt master enable bit. Combined with
	// IRQPending and CPSR.I, this is the condition that triggers the IRQ
	// exception entry sequence (spec.md §4.4).
	IMEEnabled() bool
}
