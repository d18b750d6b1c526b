package gpio

import "stm32hal-go/errcode"

// Input is a pin configured as a digital input.
type Input struct {
	pin  pin
	pull Pull
}

// Output is a pin configured as a digital output.
type Output struct {
	pin   pin
	drive Drive
	speed Speed
}

// Alternate is a pin routed to a peripheral function. It exposes no
// digital-level operations, only transitions to other modes.
type Alternate struct {
	pin   pin
	fn    uint8
	drive Drive
	speed Speed
}

// Analog is a pin disconnected from the digital path. Beyond transitions,
// its only use is being wired to an ADC channel.
type Analog struct {
	pin pin
}

// ---- shared transition bodies ----

func intoInput(p pin, pull Pull) Input {
	p.setMode(modeInput)
	p.setPull(pull)
	return Input{pin: p, pull: pull}
}

func intoOutput(p pin, d Drive, s Speed) Output {
	p.setMode(modeOutput)
	p.setDrive(d)
	p.setSpeed(s)
	return Output{pin: p, drive: d, speed: s}
}

func intoAlternate(p pin, fn uint8, d Drive, s Speed) (Alternate, error) {
	if fn > 15 || !p.port.caps.Pins[p.n].SupportsAF(fn) {
		return Alternate{}, &errcode.E{C: errcode.AFUnsupported, Op: "gpio.IntoAlternate",
			Msg: p.name() + " cannot route AF" + itoa(fn)}
	}
	p.setMode(modeAlternate)
	p.setDrive(d)
	p.setSpeed(s)
	p.setAF(fn)
	return Alternate{pin: p, fn: fn, drive: d, speed: s}, nil
}

// intoAnalog returns the whole slot to its quiet reset values so a pin
// that round-trips through other modes is register-identical to one that
// went analog directly.
func intoAnalog(p pin) Analog {
	p.setMode(modeAnalog)
	p.setPull(PullNone)
	p.setDrive(PushPull)
	p.setSpeed(SpeedLow)
	return Analog{pin: p}
}

// ---- Input ----

// IntoInput reprograms the pull configuration.
func (i Input) IntoInput(pull Pull) Input { return intoInput(i.pin, pull) }

// IntoOutput reconfigures the pin as an output, consuming the input handle.
func (i Input) IntoOutput(d Drive, s Speed) Output { return intoOutput(i.pin, d, s) }

// IntoAlternate routes the pin to alternate function fn. The function must
// be in this pin's capability table for the selected chip variant.
func (i Input) IntoAlternate(fn uint8, d Drive, s Speed) (Alternate, error) {
	return intoAlternate(i.pin, fn, d, s)
}

// IntoAnalog disconnects the pin from the digital path.
func (i Input) IntoAnalog() Analog { return intoAnalog(i.pin) }

// Pull reports the configured resistor.
func (i Input) Pull() Pull { return i.pull }

// IsHigh reads the input level.
func (i Input) IsHigh() bool { return i.pin.port.idr.HasBits(1 << i.pin.n) }

// IsLow reads the input level.
func (i Input) IsLow() bool { return !i.IsHigh() }

// Name is the conventional pin name, e.g. "PA5".
func (i Input) Name() string { return i.pin.name() }

// ---- Output ----

func (o Output) IntoInput(pull Pull) Input          { return intoInput(o.pin, pull) }
func (o Output) IntoOutput(d Drive, s Speed) Output { return intoOutput(o.pin, d, s) }
func (o Output) IntoAlternate(fn uint8, d Drive, s Speed) (Alternate, error) {
	return intoAlternate(o.pin, fn, d, s)
}
func (o Output) IntoAnalog() Analog { return intoAnalog(o.pin) }

// SetHigh drives the pin high through the set/reset register, atomically
// with respect to other pins of the port.
func (o Output) SetHigh() { o.pin.port.bsrr.Set(1 << o.pin.n) }

// SetLow drives the pin low.
func (o Output) SetLow() { o.pin.port.bsrr.Set(1 << (16 + o.pin.n)) }

// Toggle inverts the driven level.
func (o Output) Toggle() {
	if o.IsSetHigh() {
		o.SetLow()
	} else {
		o.SetHigh()
	}
}

// IsSetHigh reads back the driven level from the output data register.
func (o Output) IsSetHigh() bool { return o.pin.port.odr.HasBits(1 << o.pin.n) }
func (o Output) IsSetLow() bool  { return !o.IsSetHigh() }

// IsHigh reads the actual line level. Meaningful for open-drain outputs,
// where an external device may hold the released line low.
func (o Output) IsHigh() bool { return o.pin.port.idr.HasBits(1 << o.pin.n) }
func (o Output) IsLow() bool  { return !o.IsHigh() }

// SetInternalPullUp enables or disables the internal pull-up. Only
// open-drain outputs may use it; a push-pull driver already defines the
// released level.
func (o Output) SetInternalPullUp(on bool) error {
	if o.drive != OpenDrain {
		return errcode.Unsupported
	}
	if on {
		o.pin.setPull(PullUp)
	} else {
		o.pin.setPull(PullNone)
	}
	return nil
}

// Drive reports the driver topology.
func (o Output) Drive() Drive { return o.drive }

// Speed reports the slew-rate setting.
func (o Output) Speed() Speed { return o.speed }

func (o Output) Name() string { return o.pin.name() }

// Erase drops the pin identity to a runtime value so outputs can be
// collected into slices (LED bars and the like).
func (o Output) Erase() ErasedOutput { return ErasedOutput{pin: o.pin} }

// ---- Alternate ----

func (a Alternate) IntoInput(pull Pull) Input          { return intoInput(a.pin, pull) }
func (a Alternate) IntoOutput(d Drive, s Speed) Output { return intoOutput(a.pin, d, s) }
func (a Alternate) IntoAlternate(fn uint8, d Drive, s Speed) (Alternate, error) {
	return intoAlternate(a.pin, fn, d, s)
}
func (a Alternate) IntoAnalog() Analog { return intoAnalog(a.pin) }

// Function reports the routed alternate-function index.
func (a Alternate) Function() uint8 { return a.fn }

// Port and Index identify the pin, for capability lookups by consumers
// that need to know where a function actually lands (pwm.Attach).
func (a Alternate) Port() byte   { return a.pin.port.letter }
func (a Alternate) Index() uint8 { return a.pin.n }

func (a Alternate) Name() string { return a.pin.name() }

// ---- Analog ----

func (an Analog) IntoInput(pull Pull) Input          { return intoInput(an.pin, pull) }
func (an Analog) IntoOutput(d Drive, s Speed) Output { return intoOutput(an.pin, d, s) }
func (an Analog) IntoAlternate(fn uint8, d Drive, s Speed) (Alternate, error) {
	return intoAlternate(an.pin, fn, d, s)
}

func (an Analog) Name() string { return an.pin.name() }

// ---- ErasedOutput ----

// ErasedOutput is an output pin with its identity moved to runtime.
type ErasedOutput struct {
	pin pin
}

func (e ErasedOutput) SetHigh() { e.pin.port.bsrr.Set(1 << e.pin.n) }
func (e ErasedOutput) SetLow()  { e.pin.port.bsrr.Set(1 << (16 + e.pin.n)) }
func (e ErasedOutput) Toggle() {
	if e.IsSetHigh() {
		e.SetLow()
	} else {
		e.SetHigh()
	}
}
func (e ErasedOutput) IsSetHigh() bool { return e.pin.port.odr.HasBits(1 << e.pin.n) }
func (e ErasedOutput) IsSetLow() bool  { return !e.IsSetHigh() }
func (e ErasedOutput) Name() string    { return e.pin.name() }
