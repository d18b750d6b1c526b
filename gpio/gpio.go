// Package gpio types each physical pin by its current electrical mode:
// Input, Output, Alternate and Analog are distinct Go types, transitions
// consume the old handle and return a new one, and operations exist only
// on the types whose mode supports them. Toggling a pin that is wired to a
// peripheral's alternate function is therefore a compile error, not a
// hardware glitch.
//
// Every transition is a masked read/modify/write on the two or three
// registers owning that pin's bit-field slot; other pins' fields are never
// touched. The package assumes a single sequential context - transitions
// on pins of the same port from an interrupt and the main flow at once are
// the caller's problem.
package gpio

import (
	"stm32hal-go/device"
	"stm32hal-go/errcode"
	"stm32hal-go/mmio"
	"stm32hal-go/rcc"
)

// Register offsets within a GPIO port block.
const (
	offMODER   = 0x00
	offOTYPER  = 0x04
	offOSPEEDR = 0x08
	offPUPDR   = 0x0C
	offIDR     = 0x10
	offODR     = 0x14
	offBSRR    = 0x18
	offAFRL    = 0x20
	offAFRH    = 0x24

	blockSize = 0x2C
)

// MODER field codes.
const (
	modeInput     = 0b00
	modeOutput    = 0b01
	modeAlternate = 0b10
	modeAnalog    = 0b11
)

// Pull selects the pin's internal resistor.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Drive selects the output driver topology.
type Drive uint8

const (
	PushPull Drive = iota
	OpenDrain
)

// Speed selects the output slew rate.
type Speed uint8

const (
	SpeedLow Speed = iota
	SpeedMedium
	SpeedHigh
)

func speedCode(s Speed) uint32 {
	switch s {
	case SpeedMedium:
		return 0b01
	case SpeedHigh:
		return 0b11
	default:
		return 0b00
	}
}

// Port owns one GPIO port's register block and hands out its pins.
type Port struct {
	moder   mmio.Reg32
	otyper  mmio.Reg32
	ospeedr mmio.Reg32
	pupdr   mmio.Reg32
	idr     mmio.Reg32
	odr     mmio.Reg32
	bsrr    mmio.Reg32
	afrl    mmio.Reg32
	afrh    mmio.Reg32

	letter byte
	caps   *device.PortCaps
	taken  uint16
}

// Split binds a port's register block. The port's bus clock must already
// be enabled: the Grant returned by rcc.Enable for this port is the proof.
func Split(bus mmio.Bus, letter byte, grant rcc.Grant, v *device.Variant) (*Port, error) {
	want, ok := rcc.GPIOPort(letter)
	if !ok {
		return nil, errcode.UnknownPort
	}
	if grant.Peripheral() != want {
		return nil, &errcode.E{C: errcode.WrongGrant, Op: "gpio.Split",
			Msg: "grant does not cover port " + string(letter)}
	}
	caps, ok := v.Port(letter)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPort, Op: "gpio.Split",
			Msg: "variant " + v.Name + " has no port " + string(letter)}
	}
	return &Port{
		moder:   mmio.NewReg32(bus, offMODER),
		otyper:  mmio.NewReg32(bus, offOTYPER),
		ospeedr: mmio.NewReg32(bus, offOSPEEDR),
		pupdr:   mmio.NewReg32(bus, offPUPDR),
		idr:     mmio.NewReg32(bus, offIDR),
		odr:     mmio.NewReg32(bus, offODR),
		bsrr:    mmio.NewReg32(bus, offBSRR),
		afrl:    mmio.NewReg32(bus, offAFRL),
		afrh:    mmio.NewReg32(bus, offAFRH),
		letter:  letter,
		caps:    caps,
	}, nil
}

// Letter is the port's letter ('A'..).
func (p *Port) Letter() byte { return p.letter }

// Pin takes ownership of one pin slot, typed in the hardware-default mode
// (floating input). Each slot is handed out exactly once; a second request
// fails with PinInUse instead of aliasing the pin.
func (p *Port) Pin(n uint8) (Input, error) {
	if n > 15 || !p.caps.Pins[n].Exists {
		return Input{}, errcode.UnknownPin
	}
	if p.taken&(1<<n) != 0 {
		return Input{}, errcode.PinInUse
	}
	p.taken |= 1 << n
	return Input{pin: pin{port: p, n: n}, pull: PullNone}, nil
}

// pin is the mode-independent core every typed handle carries.
type pin struct {
	port *Port
	n    uint8
}

func (p pin) setMode(code uint32) {
	p.port.moder.ReplaceBits(code, 0b11, 2*p.n)
}

func (p pin) setPull(pull Pull) {
	p.port.pupdr.ReplaceBits(uint32(pull), 0b11, 2*p.n)
}

func (p pin) setDrive(d Drive) {
	p.port.otyper.ReplaceBits(uint32(d), 0b1, p.n)
}

func (p pin) setSpeed(s Speed) {
	p.port.ospeedr.ReplaceBits(speedCode(s), 0b11, 2*p.n)
}

func (p pin) setAF(fn uint8) {
	r := p.port.afrl
	if p.n >= 8 {
		r = p.port.afrh
	}
	r.ReplaceBits(uint32(fn), 0b1111, 4*(p.n%8))
}

func (p pin) name() string {
	return "P" + string(p.port.letter) + itoa(p.n)
}

func itoa(n uint8) string {
	if n < 10 {
		return string('0' + n)
	}
	return "1" + string('0'+n-10)
}
