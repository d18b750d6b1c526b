package rcc

// Clocks is the immutable frequency table of a committed configuration.
// It is created exactly once per successful Commit and freely shared for
// read access; a new configuration means a new resolve/commit cycle, never
// an in-place adjustment.
type Clocks struct {
	sysclk uint32
	hclk   uint32
	pclk1  uint32
	pclk2  uint32
	tclk1  uint32
	tclk2  uint32
	pllOut uint32
	usbClk uint32
}

func clocksFrom(p Plan) Clocks {
	c := Clocks{
		sysclk: p.SysClk,
		hclk:   p.HClk,
		pclk1:  p.PClk1,
		pclk2:  p.PClk2,
		tclk1:  p.PClk1,
		tclk2:  p.PClk2,
		usbClk: p.USBClk,
	}
	// APB timers are clocked at twice the bus frequency whenever the bus
	// prescaler is not 1.
	if p.APB1Div != 1 {
		c.tclk1 = 2 * p.PClk1
	}
	if p.APB2Div != 1 {
		c.tclk2 = 2 * p.PClk2
	}
	if p.PLL != nil {
		c.pllOut = p.PLL.Out
	}
	return c
}

// SysClk is the system clock frequency in Hz.
func (c Clocks) SysClk() uint32 { return c.sysclk }

// HClk is the AHB (core path) frequency in Hz.
func (c Clocks) HClk() uint32 { return c.hclk }

// PClk1 is the low-speed peripheral bus frequency in Hz.
func (c Clocks) PClk1() uint32 { return c.pclk1 }

// PClk2 is the high-speed peripheral bus frequency in Hz.
func (c Clocks) PClk2() uint32 { return c.pclk2 }

// PLL returns the PLL output frequency, false when the PLL is unused.
func (c Clocks) PLL() (uint32, bool) { return c.pllOut, c.pllOut != 0 }

// USB returns the 48 MHz USB clock, false when none was configured.
func (c Clocks) USB() (uint32, bool) { return c.usbClk, c.usbClk != 0 }

// TimerClk returns the input clock of a timer peripheral, false for
// peripherals that are not timers.
func (c Clocks) TimerClk(p Peripheral) (uint32, bool) {
	switch p.apbBus() {
	case 1:
		return c.tclk1, true
	case 2:
		return c.tclk2, true
	default:
		return 0, false
	}
}
