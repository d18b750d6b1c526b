// Package mmio gives register-level code one way to touch a peripheral's
// memory-mapped block: a Bus handle constructed at startup and passed
// explicitly, never ambient state. On hardware the Bus is a raw pointer
// block; on the host a SimBus stands in so the clock and pin logic is
// testable without a chip.
//
// Access is plain 32-bit read/modify/write with no locking. The HAL assumes
// a single sequential context; concurrent writers to the same register are
// the caller's problem, as on the silicon itself.
package mmio

// Bus provides 32-bit access into one peripheral's register block.
// Offsets are in bytes from the block base and must be word-aligned.
type Bus interface {
	Read32(off uintptr) uint32
	Write32(off uintptr, v uint32)
}

// Reg32 is a handle to one register inside a block.
type Reg32 struct {
	bus Bus
	off uintptr
}

// NewReg32 binds a register handle to an offset within a block.
func NewReg32(bus Bus, off uintptr) Reg32 { return Reg32{bus: bus, off: off} }

func (r Reg32) Get() uint32  { return r.bus.Read32(r.off) }
func (r Reg32) Set(v uint32) { r.bus.Write32(r.off, v) }

// SetBits ORs mask into the register.
func (r Reg32) SetBits(mask uint32) { r.Set(r.Get() | mask) }

// ClearBits ANDs the complement of mask into the register.
func (r Reg32) ClearBits(mask uint32) { r.Set(r.Get() &^ mask) }

// HasBits reports whether any bit of mask is set.
func (r Reg32) HasBits(mask uint32) bool { return r.Get()&mask != 0 }

// ReplaceBits writes val into the field selected by mask<<pos, leaving the
// other bits untouched. val is taken unshifted (field-relative).
func (r Reg32) ReplaceBits(val, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (val&mask)<<pos)
}
