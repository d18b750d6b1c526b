package gpio

import "stm32hal-go/mmio"

// NewSimPort returns a simulated GPIO register block for host-side tests:
// BSRR writes land in ODR (set bits win over resets, as on hardware) and
// IDR follows ODR, i.e. an unloaded line reads back what it drives. Tests
// that need an external agent on the line (an I2C slave ACK, a button) can
// wrap the OnWrite hook.
func NewSimPort() *mmio.SimBus {
	b := mmio.NewSimBus(blockSize)
	b.OnWrite = func(off uintptr, v uint32) {
		switch off {
		case offBSRR:
			odr := b.Peek(offODR)
			odr = odr&^(v>>16) | v&0xFFFF
			b.Poke(offODR, odr)
			b.Poke(offIDR, odr)
			b.Poke(offBSRR, 0) // write-only, reads as zero
		case offODR:
			b.Poke(offIDR, v)
		}
	}
	return b
}
