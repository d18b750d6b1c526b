//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// HWBus accesses a real memory-mapped block at a fixed base address.
// Reads and writes are volatile so the compiler cannot elide or reorder
// them across status-bit polls.
type HWBus struct {
	base uintptr
}

// NewHWBus binds a bus to a peripheral base address (e.g. RCC at
// 0x4002_1000 on STM32F3).
func NewHWBus(base uintptr) *HWBus { return &HWBus{base: base} }

func (b *HWBus) Read32(off uintptr) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(b.base + off)).Get()
}

func (b *HWBus) Write32(off uintptr, v uint32) {
	(*volatile.Register32)(unsafe.Pointer(b.base + off)).Set(v)
}
