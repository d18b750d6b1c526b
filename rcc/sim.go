package rcc

import "stm32hal-go/mmio"

// NewSim returns simulated RCC and flash register blocks for host-side
// tests and tooling. Ready flags track their enable bits and the SWS
// status field mirrors the SW mux selection, so Commit sequences run to
// completion without hardware. As after reset, the internal oscillator
// starts enabled and ready.
func NewSim() (rccBus, flashBus *mmio.SimBus) {
	rb := mmio.NewSimBus(blockSize)
	fb := mmio.NewSimBus(flashBlockSize)

	rb.OnWrite = func(off uintptr, v uint32) {
		switch off {
		case offCR:
			v = latch(v, crHSION, crHSIRDY)
			v = latch(v, crHSEON, crHSERDY)
			v = latch(v, crPLLON, crPLLRDY)
			rb.Poke(offCR, v)
		case offCFGR:
			sw := v >> posSW & maskSW
			v = v&^(maskSWS<<posSWS) | sw<<posSWS
			rb.Poke(offCFGR, v)
		}
	}
	rb.Poke(offCR, crHSION|crHSIRDY)
	return rb, fb
}

// latch mirrors an enable bit onto its ready bit.
func latch(v, on, rdy uint32) uint32 {
	if v&on != 0 {
		return v | rdy
	}
	return v &^ rdy
}
