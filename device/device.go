// Package device holds the per chip-variant capability tables the HAL is
// parameterised over: datasheet frequency limits, PLL ranges, the flash
// wait-state table, and the per-pin alternate-function lists. It describes
// what the silicon can do; it never includes board wiring or operating
// choices.
package device

// Ratio is a fixed post-divider expressed as Num/Den (e.g. 3/2 for the
// "divide by 1.5" USB prescaler).
type Ratio struct {
	Num, Den uint32
}

// WaitBand maps a core-clock ceiling to the flash wait states required at
// or below it. Bands are checked in order; the table must cover MaxSys.
type WaitBand struct {
	UpTo   uint32
	States uint8
}

// PinCaps describes one pin slot of a port.
type PinCaps struct {
	Exists bool
	// AF is a bitmask of the alternate functions this pin can route,
	// bit i set = AFi available.
	AF uint16
}

// SupportsAF reports whether function index fn (0..15) is routable.
func (p PinCaps) SupportsAF(fn uint8) bool {
	return p.Exists && fn < 16 && p.AF&(1<<fn) != 0
}

// PortCaps is one GPIO port's pin table.
type PortCaps struct {
	Letter byte // 'A'..'F'
	Pins   [16]PinCaps
}

// Variant is one chip's capability table.
type Variant struct {
	Name string

	// Oscillator limits.
	HSI          uint32 // internal RC frequency, Hz
	HSEMin       uint32
	HSEMax       uint32
	PLLSrcHSIby2 bool // the internal source feeds the PLL through a fixed /2

	// Clock ceilings.
	MaxSys  uint32
	MaxAHB  uint32
	MaxAPB1 uint32
	MaxAPB2 uint32

	// Legal PLL settings (inclusive).
	PLLMulMin, PLLMulMax uint32
	PredivMin, PredivMax uint32

	// USBPre are the fixed dividers from the PLL output to the 48 MHz
	// USB clock.
	USBPre []Ratio

	FlashWait []WaitBand

	Ports []PortCaps

	// PWM lists which pin+function combinations reach a timer compare
	// channel on this package.
	PWM []PWMRoute
}

// PWMRoute ties one pin, via one alternate function, to a timer compare
// channel. Timer is the peripheral number (1, 2, ...), Channel is 1..4.
type PWMRoute struct {
	Port    byte
	Pin     uint8
	AF      uint8
	Timer   uint8
	Channel uint8
}

// PWMRoute looks up the timer channel behind a pin+function combination.
func (v *Variant) PWMRoute(port byte, pin, af uint8) (timer, channel uint8, ok bool) {
	for _, r := range v.PWM {
		if r.Port == port && r.Pin == pin && r.AF == af {
			return r.Timer, r.Channel, true
		}
	}
	return 0, 0, false
}

// Port returns the capability table for a port letter.
func (v *Variant) Port(letter byte) (*PortCaps, bool) {
	for i := range v.Ports {
		if v.Ports[i].Letter == letter {
			return &v.Ports[i], true
		}
	}
	return nil, false
}

// WaitStates returns the flash wait-state count required at coreHz.
// The table is exhaustive up to MaxSys; frequencies beyond it take the
// last band (the resolver refuses them before this matters).
func (v *Variant) WaitStates(coreHz uint32) uint8 {
	for _, b := range v.FlashWait {
		if coreHz <= b.UpTo {
			return b.States
		}
	}
	return v.FlashWait[len(v.FlashWait)-1].States
}

// afMask builds a PinCaps bitmask from function indices.
func afMask(fns ...uint8) uint16 {
	var m uint16
	for _, f := range fns {
		m |= 1 << f
	}
	return m
}

// port builds a PortCaps from a pin->functions table. Pins absent from the
// table do not exist on the package; pins present with no functions are
// plain GPIO only.
func port(letter byte, af map[uint8][]uint8) PortCaps {
	p := PortCaps{Letter: letter}
	for n, fns := range af {
		p.Pins[n] = PinCaps{Exists: true, AF: afMask(fns...)}
	}
	return p
}

func route(port byte, pin, af, timer, channel uint8) PWMRoute {
	return PWMRoute{Port: port, Pin: pin, AF: af, Timer: timer, Channel: channel}
}
