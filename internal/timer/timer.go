// Package timer implements the GBA's four 16-bit hardware timers:
// prescaled counting, count-up chaining, and overflow-triggered
// interrupts (spec.md §4.8). Bit layout for TMxCNT grounded on
// original_source's src/mmu/timer.rs apply_tmr_cnt.
package timer

import "goba/internal/irq"

var prescaleDivisor = [4]uint32{1, 64, 256, 1024}

// timerIRQSource maps a timer index to its IRQ bit.
var timerIRQSource = [4]irq.Source{irq.Timer0, irq.Timer1, irq.Timer2, irq.Timer3}

// Timer is one of the four 16-bit counters.
type Timer struct {
	Counter  uint16
	Reload   uint16
	Prescale uint8 // index into prescaleDivisor
	CountUp  bool  // ignored for timer 0, which has no predecessor
	IRQEnable bool
	Start    bool

	overflowed bool // latched for one cycle so timer N+1 can chain off it
}

// Controller owns all four timers and advances them together each bus
// tick, since count-up chaining reads the previous timer's overflow
// from the same cycle.
type Controller struct {
	Timers [4]Timer
	irqc   *irq.Controller
}

func New(irqc *irq.Controller) *Controller {
	return &Controller{irqc: irqc}
}

// Tick advances every enabled timer by one cycle, applying spec.md
// §4.8: increment when the prescale condition matches OR (for timers
// 1-3) when the previous timer overflowed this same cycle.
func (c *Controller) Tick(cycleCount uint64) {
	for i := range c.Timers {
		t := &c.Timers[i]
		t.overflowed = false
		if !t.Start {
			continue
		}

		var fire bool
		if i > 0 && t.CountUp {
			fire = c.Timers[i-1].overflowed
		} else {
			freq := prescaleDivisor[t.Prescale&0x3]
			fire = cycleCount%uint64(freq) == 0
		}
		if !fire {
			continue
		}

		if t.Counter == 0xFFFF {
			t.Counter = t.Reload
			t.overflowed = true
			if t.IRQEnable {
				c.irqc.Raise(timerIRQSource[i])
			}
		} else {
			t.Counter++
		}
	}
}

// ReadCounter/WriteReload implement TMxCNT_L (a write sets the reload
// value, a read returns the live counter); ReadControl/WriteControl
// implement TMxCNT_H (control).
func (c *Controller) ReadCounter(i int) uint16 { return c.Timers[i].Counter }

func (c *Controller) WriteReload(i int, v uint16) { c.Timers[i].Reload = v }

func (c *Controller) ReadControl(i int) uint16 {
	t := &c.Timers[i]
	var v uint16
	v |= uint16(t.Prescale & 0x3)
	if t.CountUp {
		v |= 1 << 2
	}
	if t.IRQEnable {
		v |= 1 << 6
	}
	if t.Start {
		v |= 1 << 7
	}
	return v
}

func (c *Controller) WriteControl(i int, v uint16) {
	t := &c.Timers[i]
	wasStart := t.Start
	t.Prescale = uint8(v & 0x3)
	t.CountUp = v&(1<<2) != 0
	t.IRQEnable = v&(1<<6) != 0
	t.Start = v&(1<<7) != 0
	if t.Start && !wasStart {
		t.Counter = t.Reload
	}
}
