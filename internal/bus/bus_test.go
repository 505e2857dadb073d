package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goba/internal/cartridge"
	"goba/internal/irq"
)

func newTestBus() *Bus {
	return New(make([]byte, 16*1024), cartridge.New(make([]byte, 0x200)))
}

func TestEWRAMMirroring(t *testing.T) {
	b := newTestBus()
	b.Write8(0x02000000, 0x42)
	require.Equal(t, uint8(0x42), b.Read8(0x02000000+memoryRegionSize(b.ewram)))
}

func TestIWRAMMirroring(t *testing.T) {
	b := newTestBus()
	b.Write8(0x03000000, 0x99)
	require.Equal(t, uint8(0x99), b.Read8(0x03000000+memoryRegionSize(b.iwram)))
}

func TestWrite16ThenRead16RoundTrips(t *testing.T) {
	b := newTestBus()
	b.Write16(0x02001000, 0xBEEF)
	require.Equal(t, uint16(0xBEEF), b.Read16(0x02001000))
}

// IF is write-one-to-clear: writing 1 clears that bit, writing 0
// leaves it untouched (spec.md §4.5, §8).
func TestIFWriteOneToClear(t *testing.T) {
	b := newTestBus()
	b.IRQ.Raise(irq.VBlank)
	require.NotEqual(t, uint16(0), b.Read16(0x04000202))

	b.Write16(0x04000202, 0x0000)
	require.NotEqual(t, uint16(0), b.Read16(0x04000202)) // writing 0 preserves

	b.Write16(0x04000202, 0xFFFF)
	require.Equal(t, uint16(0), b.Read16(0x04000202))
}

func TestBIOSIsReadOnly(t *testing.T) {
	b := newTestBus()
	before := b.Read8(0x0)
	b.Write8(0x0, 0xFF)
	require.Equal(t, before, b.Read8(0x0))
}

func memoryRegionSize(r interface{ Size() int }) uint32 {
	return uint32(r.Size())
}
