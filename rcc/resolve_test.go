package rcc

import (
	"reflect"
	"testing"

	"stm32hal-go/device"
	"stm32hal-go/errcode"
)

func TestResolve64MHzScenario(t *testing.T) {
	v := device.F303()
	plan, err := Resolve(v, Request{SysClk: 64_000_000}, Oscillators{HSI: true, HSE: 8_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Source != SrcPLL || plan.PLL == nil {
		t.Fatalf("expected PLL source, got %v", plan.Source)
	}
	// External source, x8 from the 8 MHz crystal.
	if plan.PLL.Src != SrcHSE || plan.PLL.Prediv != 1 || plan.PLL.Mul != 8 {
		t.Fatalf("pll = %+v", plan.PLL)
	}
	if plan.SysClk != 64_000_000 || plan.HClk != 64_000_000 {
		t.Fatalf("sys/hclk = %d/%d", plan.SysClk, plan.HClk)
	}
	// Bus1 max 36 MHz: /1 would be 64, /2 gives 32. Bus2 max 72: /1 fits.
	if plan.APB1Div != 2 || plan.PClk1 != 32_000_000 {
		t.Fatalf("apb1 = /%d -> %d", plan.APB1Div, plan.PClk1)
	}
	if plan.APB2Div != 1 || plan.PClk2 != 64_000_000 {
		t.Fatalf("apb2 = /%d -> %d", plan.APB2Div, plan.PClk2)
	}
	if plan.WaitStates != 2 {
		t.Fatalf("wait states = %d", plan.WaitStates)
	}
}

func TestResolvePicksHighestNotExceeding(t *testing.T) {
	v := device.F303()
	plan, err := Resolve(v, Request{SysClk: 72_000_000}, Oscillators{HSE: 8_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// 72/2 = 36 is exactly the bus1 ceiling; /4 would be needlessly coarse.
	if plan.APB1Div != 2 || plan.PClk1 != 36_000_000 {
		t.Fatalf("apb1 = /%d -> %d, want /2 -> 36MHz", plan.APB1Div, plan.PClk1)
	}
}

func TestResolvePrefersExternalOnTie(t *testing.T) {
	v := device.F303()
	// Both sources can synthesise exactly 48 MHz (8/1*6 and 8/2*12).
	plan, err := Resolve(v, Request{SysClk: 48_000_000}, Oscillators{HSI: true, HSE: 8_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.PLL.Src != SrcHSE {
		t.Fatalf("tie should go to the external source, got %v", plan.PLL.Src)
	}
}

func TestResolveUsesInternalWhenStrictlyCloser(t *testing.T) {
	v := device.F303()
	// Target 45 MHz: best from a 7 MHz crystal is 42, the internal RC
	// reaches 44 (4 MHz x11).
	plan, err := Resolve(v, Request{SysClk: 45_000_000}, Oscillators{HSI: true, HSE: 7_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.PLL.Src != SrcHSI || plan.SysClk != 44_000_000 {
		t.Fatalf("got %v @ %d, want hsi @ 44MHz", plan.PLL.Src, plan.SysClk)
	}
}

func TestResolveBusRequestAboveMaximumFails(t *testing.T) {
	v := device.F303()
	_, err := Resolve(v, Request{SysClk: 64_000_000, PClk1: 50_000_000},
		Oscillators{HSE: 8_000_000})
	if errcode.Of(err) != errcode.BusFrequencyExceeded {
		t.Fatalf("err = %v, want bus_frequency_exceeded (never a clamped plan)", err)
	}

	_, err = Resolve(v, Request{SysClk: 100_000_000}, Oscillators{HSE: 8_000_000})
	if errcode.Of(err) != errcode.BusFrequencyExceeded {
		t.Fatalf("sys above maximum: err = %v", err)
	}
}

func TestResolveUSB(t *testing.T) {
	v := device.F303()

	plan, err := Resolve(v, Request{SysClk: 72_000_000, USB: true}, Oscillators{HSE: 8_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.USBDiv == nil || plan.USBClk != 48_000_000 {
		t.Fatalf("usb = %+v @ %d", plan.USBDiv, plan.USBClk)
	}
	if plan.USBDiv.Num != 3 || plan.USBDiv.Den != 2 {
		t.Fatalf("72 MHz PLL should use the /1.5 prescaler, got %+v", plan.USBDiv)
	}

	// A 7 MHz crystal (internal RC disabled) can hit neither 48 nor 72
	// exactly: the USB restriction empties the search.
	_, err = Resolve(v, Request{SysClk: 72_000_000, USB: true}, Oscillators{HSE: 7_000_000})
	if errcode.Of(err) != errcode.USBClockUnattainable {
		t.Fatalf("err = %v, want usb_clock_unattainable", err)
	}

	// No PLL at all means no USB clock.
	_, err = Resolve(v, Request{USB: true}, Oscillators{HSE: 8_000_000})
	if errcode.Of(err) != errcode.USBClockUnattainable {
		t.Fatalf("raw-source USB: err = %v", err)
	}
}

func TestResolvePLLUnattainable(t *testing.T) {
	v := device.F303()
	// 900 kHz is below what any legal (prediv, mul) pair can synthesise.
	_, err := Resolve(v, Request{SysClk: 900_000}, Oscillators{HSI: true, HSE: 8_000_000})
	if errcode.Of(err) != errcode.PLLUnattainable {
		t.Fatalf("err = %v, want pll_config_unattainable", err)
	}
}

func TestResolveOscillatorValidation(t *testing.T) {
	v := device.F303()
	_, err := Resolve(v, Request{}, Oscillators{HSE: 1_000_000})
	if errcode.Of(err) != errcode.InvalidOscillatorFrequency {
		t.Fatalf("1 MHz crystal: err = %v", err)
	}
	_, err = Resolve(v, Request{}, Oscillators{})
	if errcode.Of(err) != errcode.InvalidOscillatorFrequency {
		t.Fatalf("no source: err = %v", err)
	}
}

func TestResolveDefaultsToRawSource(t *testing.T) {
	v := device.F303()

	plan, err := Resolve(v, Request{}, Oscillators{HSI: true, HSE: 8_000_000})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Source != SrcHSE || plan.PLL != nil || plan.SysClk != 8_000_000 {
		t.Fatalf("plan = %+v, want raw hse", plan)
	}
	if plan.WaitStates != 0 {
		t.Fatalf("8 MHz needs 0 wait states, got %d", plan.WaitStates)
	}

	plan, err = Resolve(v, Request{}, Oscillators{HSI: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Source != SrcHSI || plan.SysClk != v.HSI {
		t.Fatalf("plan = %+v, want raw hsi", plan)
	}
}

func TestResolveIsPure(t *testing.T) {
	v := device.F303()
	req := Request{SysClk: 64_000_000, USB: false}
	osc := Oscillators{HSI: true, HSE: 8_000_000}

	a, err1 := Resolve(v, req, osc)
	b, err2 := Resolve(v, req, osc)
	if err1 != nil || err2 != nil {
		t.Fatalf("errs: %v %v", err1, err2)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolve is not repeatable:\n%+v\n%+v", a, b)
	}
}
