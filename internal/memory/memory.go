// Package memory implements the GBA's flat RAM regions: BIOS, on-board
// and on-chip work RAM, and their mirroring rules (spec.md §3, §8).
// Grounded on the teacher's internal/memory/{bios,ewram,iwram}.go,
// which already modeled each region as a plain byte slice; generalized
// to a single mirrored-region type shared by all three.
package memory

// Region is a fixed-size byte array that wraps reads/writes modulo its
// size — the mirroring behavior spec.md §3 requires for EWRAM and
// IWRAM. BIOS uses the same type, so addresses past its 16 KiB within
// region 0x00 wrap back onto it as well.
type Region struct {
	data []byte
}

func NewRegion(size int) *Region {
	return &Region{data: make([]byte, size)}
}

// NewRegionFrom builds a region from existing bytes, used for BIOS
// images loaded from disk.
func NewRegionFrom(data []byte, size int) *Region {
	r := &Region{data: make([]byte, size)}
	copy(r.data, data)
	return r
}

func (r *Region) Size() int { return len(r.data) }

// Bytes exposes the backing slice directly, for subsystems (the PPU)
// that need a borrowed reference rather than going through the
// region's own wrapping accessors (spec.md §5 "shared resources").
func (r *Region) Bytes() []byte { return r.data }

func (r *Region) Read8(addr uint32) uint8 {
	return r.data[int(addr)%len(r.data)]
}

func (r *Region) Write8(addr uint32, v uint8) {
	r.data[int(addr)%len(r.data)] = v
}

func (r *Region) Read16(addr uint32) uint16 {
	i := int(addr&^1) % len(r.data)
	return uint16(r.data[i]) | uint16(r.data[i+1])<<8
}

func (r *Region) Write16(addr uint32, v uint16) {
	i := int(addr&^1) % len(r.data)
	r.data[i] = uint8(v)
	r.data[i+1] = uint8(v >> 8)
}

func (r *Region) Read32(addr uint32) uint32 {
	i := int(addr&^3) % len(r.data)
	return uint32(r.data[i]) | uint32(r.data[i+1])<<8 | uint32(r.data[i+2])<<16 | uint32(r.data[i+3])<<24
}

func (r *Region) Write32(addr uint32, v uint32) {
	i := int(addr&^3) % len(r.data)
	r.data[i] = uint8(v)
	r.data[i+1] = uint8(v >> 8)
	r.data[i+2] = uint8(v >> 16)
	r.data[i+3] = uint8(v >> 24)
}

const (
	BIOSSize  = 16 * 1024
	EWRAMSize = 256 * 1024
	IWRAMSize = 32 * 1024
)
