// Package pwm runs the general-purpose and advanced timers as edge-aligned
// PWM generators. A Timer owns the shared time base (prescaler and reload),
// its Channels produce no output until a correctly routed pin is attached.
package pwm

import (
	"stm32hal-go/device"
	"stm32hal-go/errcode"
	"stm32hal-go/gpio"
	"stm32hal-go/mmio"
	"stm32hal-go/rcc"
	"stm32hal-go/x/mathx"
)

// Register offsets within a TIM block. General-purpose and advanced timers
// share this layout; BDTR exists only on the advanced ones.
const (
	offCR1   = 0x00
	offCCMR1 = 0x18
	offCCMR2 = 0x1C
	offCCER  = 0x20
	offPSC   = 0x28
	offARR   = 0x2C
	offCCR1  = 0x34
	offBDTR  = 0x44

	blockSize = 0x50
)

const (
	cr1CEN  = 1 << 0
	cr1ARPE = 1 << 7

	bdtrMOE = 1 << 15

	// One channel's CCMR byte: PWM mode 1 with compare preload.
	ccmrPWM1 = 0b0110_1000
)

// timerNum maps each PWM-capable timer to its peripheral number, the key
// the device routing tables use.
var timerNum = map[rcc.Peripheral]uint8{
	rcc.TIM1: 1,
	rcc.TIM2: 2,
	rcc.TIM3: 3,
	rcc.TIM4: 4,
	rcc.TIM8: 8,
}

// Config sets the PWM carrier.
type Config struct {
	// Freq is the PWM frequency in Hz.
	Freq uint32
	// Resolution is the number of duty steps per period; SetDuty accepts
	// 0 (always low) through Resolution (always high).
	Resolution uint16
}

// Timer is one TIM peripheral running the shared PWM time base.
type Timer struct {
	cr1   mmio.Reg32
	ccmr1 mmio.Reg32
	ccmr2 mmio.Reg32
	ccer  mmio.Reg32
	psc   mmio.Reg32
	arr   mmio.Reg32
	bdtr  mmio.Reg32
	ccr   [4]mmio.Reg32

	periph   rcc.Peripheral
	num      uint8
	v        *device.Variant
	advanced bool
	maxDuty  uint16
}

// New configures a timer for PWM and starts its counter. The grant names
// the timer and proves its bus clock is on; clocks supplies the timer input
// frequency the prescaler is derived from; the variant table tells Attach
// which pins actually reach this timer's channels.
func New(bus mmio.Bus, grant rcc.Grant, clocks rcc.Clocks, v *device.Variant, cfg Config) (*Timer, error) {
	p := grant.Peripheral()
	num, ok := timerNum[p]
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "pwm.New",
			Msg: p.String() + " cannot generate PWM"}
	}
	if cfg.Freq == 0 || cfg.Resolution == 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "pwm.New",
			Msg: "frequency and resolution must be nonzero"}
	}

	tclk, _ := clocks.TimerClk(p)
	pscPlus1 := mathx.RoundDiv(uint64(tclk), uint64(cfg.Freq)*uint64(cfg.Resolution))
	if pscPlus1 == 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "pwm.New",
			Msg: "carrier too fast for the timer clock"}
	}
	if pscPlus1 > 0x10000 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "pwm.New",
			Msg: "carrier too slow for a 16-bit prescaler"}
	}

	t := &Timer{
		cr1:   mmio.NewReg32(bus, offCR1),
		ccmr1: mmio.NewReg32(bus, offCCMR1),
		ccmr2: mmio.NewReg32(bus, offCCMR2),
		ccer:  mmio.NewReg32(bus, offCCER),
		psc:   mmio.NewReg32(bus, offPSC),
		arr:   mmio.NewReg32(bus, offARR),
		bdtr:  mmio.NewReg32(bus, offBDTR),
		ccr: [4]mmio.Reg32{
			mmio.NewReg32(bus, offCCR1),
			mmio.NewReg32(bus, offCCR1+4),
			mmio.NewReg32(bus, offCCR1+8),
			mmio.NewReg32(bus, offCCR1+12),
		},
		periph:   p,
		num:      num,
		v:        v,
		advanced: p == rcc.TIM1 || p == rcc.TIM8,
		maxDuty:  cfg.Resolution,
	}

	t.psc.Set(uint32(pscPlus1 - 1))
	t.arr.Set(uint32(cfg.Resolution) - 1)
	t.cr1.Set(cr1ARPE | cr1CEN)
	return t, nil
}

// Peripheral reports which timer this is.
func (t *Timer) Peripheral() rcc.Peripheral { return t.periph }

// MaxDuty is the duty value giving a constantly high output.
func (t *Timer) MaxDuty() uint16 { return t.maxDuty }

// Channel selects one of the timer's four compare channels. The channel
// carries no output operations until a pin is attached.
func (t *Timer) Channel(n uint8) (Channel, error) {
	if n < 1 || n > 4 {
		return Channel{}, &errcode.E{C: errcode.InvalidParams, Op: "pwm.Channel",
			Msg: "channel must be 1..4"}
	}
	return Channel{t: t, n: n}, nil
}

// Channel is a compare channel without a pin.
type Channel struct {
	t *Timer
	n uint8
}

// Attach routes a pin to the channel and unlocks the output operations.
// The variant routing table must place the pin's alternate function on
// exactly this timer and this channel; timers sharing a function index
// (TIM3 and TIM4 both route through AF2) are told apart by the pin, so a
// near-miss is rejected rather than silently producing a dead output.
func (c Channel) Attach(p gpio.Alternate) (Output, error) {
	tim, ch, ok := c.t.v.PWMRoute(p.Port(), p.Index(), p.Function())
	if !ok || tim != c.t.num || ch != c.n {
		return Output{}, &errcode.E{C: errcode.AFUnsupported, Op: "pwm.Attach",
			Msg: p.Name() + " does not reach " + c.t.periph.String() + " on this channel"}
	}
	ccmr := c.t.ccmr1
	if c.n > 2 {
		ccmr = c.t.ccmr2
	}
	ccmr.ReplaceBits(ccmrPWM1, 0xFF, 8*((c.n-1)%2))
	return Output{t: c.t, n: c.n}, nil
}

// Output is a compare channel with a pin attached.
type Output struct {
	t *Timer
	n uint8
}

// Enable connects the compare output to the pin. Advanced timers
// additionally require the main output enable, which is shared by all
// channels of the timer.
func (o Output) Enable() {
	o.t.ccer.SetBits(1 << (4 * (o.n - 1)))
	if o.t.advanced {
		o.t.bdtr.SetBits(bdtrMOE)
	}
}

// Disable disconnects the compare output; the pin falls to its idle level.
func (o Output) Disable() {
	o.t.ccer.ClearBits(1 << (4 * (o.n - 1)))
}

// MaxDuty is the duty value giving a constantly high output.
func (o Output) MaxDuty() uint16 { return o.t.maxDuty }

// Duty reads back the current compare value.
func (o Output) Duty() uint16 { return uint16(o.t.ccr[o.n-1].Get()) }

// SetDuty programs the compare value, clamped to [0, MaxDuty]. The
// preloaded compare takes effect at the next period boundary.
func (o Output) SetDuty(d uint16) {
	o.t.ccr[o.n-1].Set(uint32(mathx.Clamp(d, 0, o.t.maxDuty)))
}
