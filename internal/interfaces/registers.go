package interfaces

// Registers is the register-file contract that internal/cpu's
// *Registers satisfies. The decoder/executor use that concrete type
// directly; nothing in the repository consumes this interface.
type Registers interface {
	GetReg(n uint8) uint32
	SetReg(n uint8, v uint32)

	GetCPSR() uint32
	SetCPSR(v uint32)
	GetSPSR() uint32
	SetSPSR(v uint32)

	GetMode() uint8
	SetMode(mode uint8)

	IsThumb() bool
	SetThumbState(thumb bool)
	IsFIQDisabled() bool
	SetFIQDisabled(bool)
	IsIRQDisabled() bool
	SetIRQDisabled(bool)

	GetFlagN() bool
	GetFlagZ() bool
	GetFlagC() bool
	GetFlagV() bool
	SetFlagN(bool)
	SetFlagZ(bool)
	SetFlagC(bool)
	SetFlagV(bool)

	// UserReg/SetUserReg read and write the User-mode bank directly,
	// regardless of current mode. Needed for LDM^ with r15 absent
	// (spec.md §4.3, §9 open question 3).
	UserReg(n uint8) uint32
	SetUserReg(n uint8, v uint32)
}
