package rcc

import "stm32hal-go/device"

// Oscillators describes the clock sources available on this board.
type Oscillators struct {
	// HSI enables the internal RC oscillator (frequency fixed by the
	// variant table).
	HSI bool
	// HSE is the external crystal/oscillator frequency in Hz, 0 when the
	// board has none fitted. Board-dependent, so the caller supplies it.
	HSE uint32
}

// Request is a declarative clock configuration. Zero fields mean "don't
// care": SysClk 0 runs straight off the enabled source with no PLL, bus
// fields 0 ask for the fastest legal frequency.
type Request struct {
	SysClk uint32
	HClk   uint32
	PClk1  uint32
	PClk2  uint32
	// USB requires a 48 MHz USB-grade clock to be derivable from the PLL.
	USB bool
}

// Source identifies a system clock source.
type Source uint8

const (
	SrcHSI Source = iota
	SrcHSE
	SrcPLL
)

func (s Source) String() string {
	switch s {
	case SrcHSI:
		return "hsi"
	case SrcHSE:
		return "hse"
	default:
		return "pll"
	}
}

// PLL is a resolved multiplier configuration. Out = src/Prediv*Mul, with
// Prediv fixed at 2 when the internal oscillator feeds the PLL.
type PLL struct {
	Src    Source // SrcHSI or SrcHSE
	Prediv uint32
	Mul    uint32
	Out    uint32
}

// Plan is the immutable output of Resolve: a concrete, validated register
// assignment. It performs no writes itself; Commit applies it.
type Plan struct {
	Source Source
	PLL    *PLL // nil when running straight off an oscillator

	AHBDiv  uint32
	APB1Div uint32
	APB2Div uint32

	SysClk uint32
	HClk   uint32
	PClk1  uint32
	PClk2  uint32

	WaitStates uint8

	// USBDiv/USBClk are set only when the request demanded a USB clock.
	USBDiv *device.Ratio
	USBClk uint32

	// HSEFreq records the crystal the plan was derived from.
	HSEFreq uint32
}
