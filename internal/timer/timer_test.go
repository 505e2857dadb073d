package timer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goba/internal/irq"
)

func TestPrescalerGatesIncrement(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)
	c.Timers[0].Prescale = 2 // /256
	c.Timers[0].Start = true

	for cycle := uint64(1); cycle <= 255; cycle++ {
		c.Tick(cycle)
	}
	require.Equal(t, uint16(0), c.Timers[0].Counter)

	c.Tick(256)
	require.Equal(t, uint16(1), c.Timers[0].Counter)
}

func TestOverflowReloadsAndRaisesIRQ(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)
	c.WriteReload(0, 0xFFF0)
	c.Timers[0].Prescale = 0 // /1
	c.Timers[0].IRQEnable = true
	c.Timers[0].Start = true
	c.Timers[0].Counter = 0xFFFF

	c.Tick(1)

	require.Equal(t, uint16(0xFFF0), c.Timers[0].Counter)
	require.NotZero(t, irqc.IF&uint16(irq.Timer0))
}

func TestCountUpChainsOffPredecessorOverflow(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)

	c.Timers[0].Prescale = 0
	c.Timers[0].Start = true
	c.Timers[0].Counter = 0xFFFF
	c.Timers[0].Reload = 0x1000

	c.Timers[1].Start = true
	c.Timers[1].CountUp = true
	c.Timers[1].Counter = 0x5000

	c.Tick(1)

	require.Equal(t, uint16(0x1000), c.Timers[0].Counter)
	require.Equal(t, uint16(0x5001), c.Timers[1].Counter)
}

func TestCountUpIgnoresOwnPrescaleWhenPredecessorIdle(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)

	c.Timers[0].Start = false // predecessor disabled, never overflows

	c.Timers[1].Start = true
	c.Timers[1].CountUp = true
	c.Timers[1].Counter = 10

	for cycle := uint64(1); cycle <= 1024; cycle++ {
		c.Tick(cycle)
	}
	require.Equal(t, uint16(10), c.Timers[1].Counter)
}

func TestStartRisingEdgeReloadsCounter(t *testing.T) {
	irqc := &irq.Controller{}
	c := New(irqc)
	c.WriteReload(0, 0x1234)
	c.Timers[0].Counter = 0x9999

	c.WriteControl(0, 1<<7) // Start bit set, prescale /1

	require.Equal(t, uint16(0x1234), c.Timers[0].Counter)
}
