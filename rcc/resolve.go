package rcc

import (
	"stm32hal-go/device"
	"stm32hal-go/errcode"
	"stm32hal-go/x/mathx"
)

const usbClockHz = 48_000_000

// The prescaler sets are fixed by the hardware: discrete dividers, not a
// continuous range.
var (
	ahbDividers = []uint32{1, 2, 4, 8, 16, 64, 128, 256, 512}
	apbDividers = []uint32{1, 2, 4, 8, 16}
)

// Resolve derives a validated clock plan from a declarative request. It is
// pure - no register access - so callers can explore candidate requests
// before committing one. An unattainable request fails explicitly; there is
// no silent fallback, since running at the wrong frequency is worse than
// refusing.
func Resolve(v *device.Variant, req Request, osc Oscillators) (Plan, error) {
	if osc.HSE != 0 && (osc.HSE < v.HSEMin || osc.HSE > v.HSEMax) {
		return Plan{}, &errcode.E{C: errcode.InvalidOscillatorFrequency, Op: "rcc.Resolve",
			Msg: "external oscillator outside datasheet range"}
	}
	if !osc.HSI && osc.HSE == 0 {
		return Plan{}, &errcode.E{C: errcode.InvalidOscillatorFrequency, Op: "rcc.Resolve",
			Msg: "no clock source enabled"}
	}
	if req.SysClk > v.MaxSys {
		return Plan{}, errcode.BusFrequencyExceeded
	}

	plan := Plan{HSEFreq: osc.HSE}

	switch {
	case req.SysClk == 0:
		if req.USB {
			// The USB clock is derived from the PLL; a raw source
			// cannot provide it.
			return Plan{}, errcode.USBClockUnattainable
		}
		// Raw enabled-source frequency, external preferred (crystals
		// are more accurate than the internal RC).
		if osc.HSE != 0 {
			plan.Source, plan.SysClk = SrcHSE, osc.HSE
		} else {
			plan.Source, plan.SysClk = SrcHSI, v.HSI
		}

	case !req.USB && osc.HSE == req.SysClk:
		plan.Source, plan.SysClk = SrcHSE, req.SysClk

	case !req.USB && osc.HSI && v.HSI == req.SysClk:
		plan.Source, plan.SysClk = SrcHSI, req.SysClk

	default:
		pll, err := searchPLL(v, req.SysClk, osc, req.USB)
		if err != nil {
			return Plan{}, err
		}
		plan.Source = SrcPLL
		plan.PLL = &pll
		plan.SysClk = pll.Out
		if req.USB {
			r, _ := usbRatio(v, pll.Out)
			plan.USBDiv = &r
			plan.USBClk = usbClockHz
		}
	}

	// Core/AHB path, then each peripheral bus: highest frequency not
	// exceeding both the hardware maximum and any explicit request.
	var err error
	if plan.AHBDiv, plan.HClk, err = pickDiv(plan.SysClk, ahbDividers, v.MaxAHB, req.HClk); err != nil {
		return Plan{}, err
	}
	if plan.APB1Div, plan.PClk1, err = pickDiv(plan.HClk, apbDividers, v.MaxAPB1, req.PClk1); err != nil {
		return Plan{}, err
	}
	if plan.APB2Div, plan.PClk2, err = pickDiv(plan.HClk, apbDividers, v.MaxAPB2, req.PClk2); err != nil {
		return Plan{}, err
	}

	// Always attainable: the wait-state table is exhaustive.
	plan.WaitStates = v.WaitStates(plan.HClk)

	return plan, nil
}

// pickDiv selects the smallest divider whose output does not exceed the
// bus maximum or the explicit request. A request above the absolute
// maximum is an error, never a silently clamped plan.
func pickDiv(src uint32, divs []uint32, busMax, req uint32) (div, out uint32, err error) {
	if req > busMax {
		return 0, 0, errcode.BusFrequencyExceeded
	}
	cap := busMax
	if req != 0 {
		cap = mathx.Min(cap, req)
	}
	for _, d := range divs {
		if f := src / d; f <= cap {
			return d, f, nil
		}
	}
	return 0, 0, errcode.BusFrequencyExceeded
}

// searchPLL walks the legal (prediv, multiplier) space for the combination
// closest to target without exceeding it. The external source wins ties:
// crystals are assumed more accurate than the internal RC.
func searchPLL(v *device.Variant, target uint32, osc Oscillators, usb bool) (PLL, error) {
	limit := mathx.Min(target, v.MaxSys)

	var best PLL
	found := false
	consider := func(p PLL) {
		if p.Out == 0 || p.Out > limit {
			return
		}
		if usb {
			if _, ok := usbRatio(v, p.Out); !ok {
				return
			}
		}
		// Strictly-better only: earlier (external) candidates keep ties.
		if !found || p.Out > best.Out {
			best, found = p, true
		}
	}

	if osc.HSE != 0 {
		for prediv := v.PredivMin; prediv <= v.PredivMax; prediv++ {
			if osc.HSE%prediv != 0 {
				continue // keep derived frequencies exact
			}
			base := osc.HSE / prediv
			for mul := v.PLLMulMin; mul <= v.PLLMulMax; mul++ {
				consider(PLL{Src: SrcHSE, Prediv: prediv, Mul: mul, Out: base * mul})
			}
		}
	}
	if osc.HSI {
		base, prediv := v.HSI, uint32(1)
		if v.PLLSrcHSIby2 {
			base, prediv = base/2, 2
		}
		for mul := v.PLLMulMin; mul <= v.PLLMulMax; mul++ {
			consider(PLL{Src: SrcHSI, Prediv: prediv, Mul: mul, Out: base * mul})
		}
	}

	if !found {
		if usb {
			// Tell the caller which constraint emptied the search.
			if _, err := searchPLL(v, target, osc, false); err == nil {
				return PLL{}, errcode.USBClockUnattainable
			}
		}
		return PLL{}, errcode.PLLUnattainable
	}
	return best, nil
}

// usbRatio finds a fixed USB prescaler mapping out exactly onto 48 MHz.
func usbRatio(v *device.Variant, out uint32) (device.Ratio, bool) {
	for _, r := range v.USBPre {
		scaled := uint64(out) * uint64(r.Den)
		if scaled%uint64(r.Num) == 0 && scaled/uint64(r.Num) == usbClockHz {
			return r, true
		}
	}
	return device.Ratio{}, false
}
