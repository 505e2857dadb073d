// Package keypad implements KEYINPUT and KEYCNT. KEYINPUT is written by
// the host once per frame (spec.md §6 input contract); KEYCNT is the
// supplemented keypad-interrupt feature described in SPEC_FULL.md,
// grounded on original_source's irq.rs Keypad interrupt source.
package keypad

import "goba/internal/irq"

// Button bit positions within KEYINPUT/KEYCNT (0 = pressed in
// KEYINPUT).
const (
	ButtonA = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonR
	ButtonL
)

// Device holds the live key state plus the interrupt-condition
// register.
type Device struct {
	KeyInput uint16 // bit=0 means pressed
	irqEnable bool
	irqCondAND bool // true = AND of selected bits, false = OR
	irqSelect  uint16

	irqc *irq.Controller
}

func New(irqc *irq.Controller) *Device {
	return &Device{KeyInput: 0x3FF, irqc: irqc}
}

// SetKeyInput stores v as KEYINPUT as given: v is the 10-bit mask in
// the GBA's inverted polarity (bit=0 pressed). SetPressed is the
// variant that takes pressed buttons as 1-bits and inverts them.
func (d *Device) SetKeyInput(v uint16) {
	d.KeyInput = v & 0x3FF
	d.checkIRQ()
}

// SetPressed takes a 1-bit-means-pressed mask (the natural host
// representation) and stores it in the GBA's inverted KEYINPUT form.
func (d *Device) SetPressed(pressedMask uint16) {
	d.SetKeyInput(^pressedMask & 0x3FF)
}

func (d *Device) ReadKeyInput() uint16 { return d.KeyInput }

func (d *Device) ReadKeyCnt() uint16 {
	v := d.irqSelect & 0x3FF
	if d.irqEnable {
		v |= 1 << 14
	}
	if d.irqCondAND {
		v |= 1 << 15
	}
	return v
}

func (d *Device) WriteKeyCnt(v uint16) {
	d.irqSelect = v & 0x3FF
	d.irqEnable = v&(1<<14) != 0
	d.irqCondAND = v&(1<<15) != 0
	d.checkIRQ()
}

func (d *Device) checkIRQ() {
	if !d.irqEnable {
		return
	}
	pressed := ^d.KeyInput & 0x3FF & d.irqSelect
	var fire bool
	if d.irqCondAND {
		fire = pressed == d.irqSelect
	} else {
		fire = pressed != 0
	}
	if fire {
		d.irqc.Raise(irq.Keypad)
	}
}
