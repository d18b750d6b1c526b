package pwm

import (
	"testing"

	"stm32hal-go/device"
	"stm32hal-go/errcode"
	"stm32hal-go/gpio"
	"stm32hal-go/mmio"
	"stm32hal-go/rcc"
)

// rig is the simulated bring-up every test needs: clocks committed at
// 64 MHz (so APB1 timers run at 64 MHz), plus an RCC to hand out grants.
func rig(t *testing.T) (*rcc.RCC, rcc.Clocks) {
	t.Helper()
	v := device.F303()
	rb, fb := rcc.NewSim()
	r := rcc.New(rb, fb, v)
	plan, err := rcc.Resolve(v, rcc.Request{SysClk: 64_000_000},
		rcc.Oscillators{HSI: true, HSE: 8_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	clocks, err := r.CommitWith(plan, rcc.CommitOpts{PollBudget: 64})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return r, clocks
}

func altPin(t *testing.T, r *rcc.RCC, letter byte, n, fn uint8) gpio.Alternate {
	t.Helper()
	port, err := gpio.Split(gpio.NewSimPort(), letter, r.Enable(mustGPIO(t, letter)), device.F303())
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	in, err := port.Pin(n)
	if err != nil {
		t.Fatalf("pin: %v", err)
	}
	alt, err := in.IntoAlternate(fn, gpio.PushPull, gpio.SpeedHigh)
	if err != nil {
		t.Fatalf("alternate: %v", err)
	}
	return alt
}

func mustGPIO(t *testing.T, letter byte) rcc.Peripheral {
	t.Helper()
	p, ok := rcc.GPIOPort(letter)
	if !ok {
		t.Fatalf("no port %c", letter)
	}
	return p
}

func TestNewProgramsTimeBase(t *testing.T) {
	r, clocks := rig(t)
	bus := mmio.NewSimBus(blockSize)

	// TIM3 runs from the doubled APB1 clock: 64 MHz. 1 kHz at 1000 steps
	// needs a /64 prescaler.
	tim, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{Freq: 1000, Resolution: 1000})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := bus.Peek(offPSC); got != 63 {
		t.Fatalf("psc = %d, want 63", got)
	}
	if got := bus.Peek(offARR); got != 999 {
		t.Fatalf("arr = %d, want 999", got)
	}
	if got := bus.Peek(offCR1); got&cr1CEN == 0 || got&cr1ARPE == 0 {
		t.Fatalf("cr1 = %#x, counter not running with preload", got)
	}
	if tim.MaxDuty() != 1000 {
		t.Fatalf("max duty = %d", tim.MaxDuty())
	}
}

func TestNewValidation(t *testing.T) {
	r, clocks := rig(t)
	bus := mmio.NewSimBus(blockSize)

	if _, err := New(bus, r.Enable(rcc.GPIOA), clocks, device.F303(), Config{Freq: 1000, Resolution: 100}); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("port grant: err = %v, want unsupported", err)
	}
	if _, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("zero config: err = %v", err)
	}
	// 1 MHz at 1000 steps wants a 1 GHz tick - faster than the timer clock.
	if _, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{Freq: 1_000_000, Resolution: 1000}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("too fast: err = %v", err)
	}
	// 1 Hz at 1 step wants a /64M prescaler - beyond 16 bits.
	if _, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{Freq: 1, Resolution: 1}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("too slow: err = %v", err)
	}
}

func TestAttachChecksRouting(t *testing.T) {
	r, clocks := rig(t)
	bus := mmio.NewSimBus(blockSize)
	tim, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{Freq: 1000, Resolution: 1000})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ch, err := tim.Channel(1)
	if err != nil {
		t.Fatalf("channel: %v", err)
	}

	// PA6 on AF2 is TIM3 CH1.
	if _, err := ch.Attach(altPin(t, r, 'A', 6, 2)); err != nil {
		t.Fatalf("attach: %v", err)
	}

	// PA0 on AF1 belongs to TIM2, not TIM3.
	if _, err := ch.Attach(altPin(t, r, 'A', 0, 1)); errcode.Of(err) != errcode.AFUnsupported {
		t.Fatalf("foreign pin: err = %v, want af_unsupported", err)
	}

	// PB6 also uses AF2, but it lands on TIM4: the shared function index
	// must not be enough to attach it here.
	if _, err := ch.Attach(altPin(t, r, 'B', 6, 2)); errcode.Of(err) != errcode.AFUnsupported {
		t.Fatalf("tim4 pin on tim3: err = %v, want af_unsupported", err)
	}

	// PA7 is TIM3, but its channel is CH2, not CH1.
	if _, err := ch.Attach(altPin(t, r, 'A', 7, 2)); errcode.Of(err) != errcode.AFUnsupported {
		t.Fatalf("wrong channel: err = %v, want af_unsupported", err)
	}

	if _, err := tim.Channel(5); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("channel 5: err = %v", err)
	}
}

func TestAttachProgramsCompareMode(t *testing.T) {
	r, clocks := rig(t)
	bus := mmio.NewSimBus(blockSize)
	tim, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{Freq: 1000, Resolution: 1000})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Channels 1 and 2 share CCMR1, 3 and 4 share CCMR2.
	cases := []struct {
		n    uint8
		off  uintptr
		pos  uint8
		pin  uint8
		fn   uint8
		port byte
	}{
		{1, offCCMR1, 0, 6, 2, 'A'},  // TIM3 CH1 = PA6
		{2, offCCMR1, 8, 7, 2, 'A'},  // TIM3 CH2 = PA7
		{3, offCCMR2, 0, 0, 2, 'B'},  // TIM3 CH3 = PB0
		{4, offCCMR2, 8, 1, 2, 'B'},  // TIM3 CH4 = PB1
	}
	for _, c := range cases {
		ch, err := tim.Channel(c.n)
		if err != nil {
			t.Fatalf("ch%d: %v", c.n, err)
		}
		if _, err := ch.Attach(altPin(t, r, c.port, c.pin, c.fn)); err != nil {
			t.Fatalf("ch%d attach: %v", c.n, err)
		}
		if got := bus.Peek(c.off) >> c.pos & 0xFF; got != ccmrPWM1 {
			t.Fatalf("ch%d ccmr byte = %#x, want %#x", c.n, got, ccmrPWM1)
		}
	}
}

func TestOutputDuty(t *testing.T) {
	r, clocks := rig(t)
	bus := mmio.NewSimBus(blockSize)
	tim, err := New(bus, r.Enable(rcc.TIM3), clocks, device.F303(), Config{Freq: 1000, Resolution: 1000})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ch, _ := tim.Channel(2)
	out, err := ch.Attach(altPin(t, r, 'A', 7, 2))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	out.Enable()
	if bus.Peek(offCCER)&(1<<4) == 0 {
		t.Fatalf("ccer bit not set")
	}
	if bus.Peek(offBDTR)&bdtrMOE != 0 {
		t.Fatalf("general-purpose timer must not touch bdtr")
	}

	out.SetDuty(250)
	if got := bus.Peek(offCCR1 + 4); got != 250 {
		t.Fatalf("ccr2 = %d", got)
	}
	if out.Duty() != 250 {
		t.Fatalf("duty readback = %d", out.Duty())
	}

	out.SetDuty(5000) // beyond MaxDuty, clamps
	if out.Duty() != out.MaxDuty() {
		t.Fatalf("duty = %d, want clamp to %d", out.Duty(), out.MaxDuty())
	}

	out.Disable()
	if bus.Peek(offCCER)&(1<<4) != 0 {
		t.Fatalf("ccer bit still set")
	}
}

func TestAdvancedTimerMainOutput(t *testing.T) {
	r, clocks := rig(t)
	bus := mmio.NewSimBus(blockSize)
	tim, err := New(bus, r.Enable(rcc.TIM1), clocks, device.F303(), Config{Freq: 20_000, Resolution: 1000})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ch, _ := tim.Channel(1)
	// PA8 on AF6 is TIM1 CH1.
	out, err := ch.Attach(altPin(t, r, 'A', 8, 6))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	out.Enable()
	if bus.Peek(offBDTR)&bdtrMOE == 0 {
		t.Fatalf("advanced timer needs the main output enable")
	}
}
