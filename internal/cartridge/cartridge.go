// Package cartridge holds the ROM image and cartridge SRAM. Grounded
// on the teacher's internal/cartridge/cartridge.go; extended per
// spec.md §6 to logically extend ROM to 32 MiB with 0xFF fill, and per
// the Non-goals to stub backup detection with a fixed Flash ID rather
// than autodetecting SRAM/Flash/EEPROM.
package cartridge

const (
	romCapacity  = 32 * 1024 * 1024
	sramCapacity = 64 * 1024
)

// flashID is the fixed identifier spec.md's Non-goals accept in place
// of real backup-type autodetection (Macronix MX29L010, a common GBA
// flash part).
var flashID = [2]byte{0xC2, 0x09}

type Cartridge struct {
	rom  []byte // len == romCapacity, tail 0xFF-filled past the image
	sram []byte
}

func New(romData []byte) *Cartridge {
	c := &Cartridge{
		rom:  make([]byte, romCapacity),
		sram: make([]byte, sramCapacity),
	}
	for i := range c.rom {
		c.rom[i] = 0xFF
	}
	copy(c.rom, romData)
	return c
}

func (c *Cartridge) ReadROM8(addr uint32) uint8 {
	return c.rom[addr%romCapacity]
}

func (c *Cartridge) ReadROM16(addr uint32) uint16 {
	i := (addr &^ 1) % romCapacity
	return uint16(c.rom[i]) | uint16(c.rom[i+1])<<8
}

func (c *Cartridge) ReadROM32(addr uint32) uint32 {
	i := (addr &^ 3) % romCapacity
	return uint32(c.rom[i]) | uint32(c.rom[i+1])<<8 | uint32(c.rom[i+2])<<16 | uint32(c.rom[i+3])<<24
}

// ReadSRAM/WriteSRAM: spec.md §3 "SRAM: 8-bit access only". Wider
// accesses are decomposed into bytes by the bus before reaching here.
func (c *Cartridge) ReadSRAM(addr uint32) uint8 {
	return c.sram[addr%sramCapacity]
}

func (c *Cartridge) WriteSRAM(addr uint32, v uint8) {
	c.sram[addr%sramCapacity] = v
}

// ReadFlashID answers the Flash chip-identification command some
// cartridges' backup tooling issues; real SRAM reads are unaffected.
func (c *Cartridge) ReadFlashID(addr uint32) uint8 {
	return flashID[addr&1]
}
