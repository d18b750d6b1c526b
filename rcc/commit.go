package rcc

import (
	"stm32hal-go/device"
	"stm32hal-go/errcode"
	"stm32hal-go/mmio"
)

// RCC owns the clock-control and flash-latency registers. It is the only
// component permitted to write them. All operations assume a single
// sequential context: no locking is added around register access.
type RCC struct {
	regs  Block
	flash FlashBlock
	v     *device.Variant
}

// New binds the sequencer to the RCC and flash register blocks. Construct
// once at startup and pass the handle explicitly; on the host, NewSim
// supplies the buses.
func New(rccBus, flashBus mmio.Bus, v *device.Variant) *RCC {
	return &RCC{regs: newBlock(rccBus), flash: newFlashBlock(flashBus), v: v}
}

// Variant exposes the capability table the sequencer was built against.
func (r *RCC) Variant() *device.Variant { return r.v }

// CommitOpts tunes commit behaviour.
type CommitOpts struct {
	// PollBudget bounds each ready-bit poll loop. 0 polls forever - the
	// hardware default, where a stuck oscillator hangs the caller. A
	// positive budget makes a dead status bit surface as
	// HardwareNotReady, which hosted and simulated environments need.
	PollBudget int
}

// Commit applies a resolved plan with default options. See CommitWith.
func (r *RCC) Commit(p Plan) (Clocks, error) { return r.CommitWith(p, CommitOpts{}) }

// CommitWith applies a resolved plan to the hardware in the mandated
// order, each step blocking on the corresponding ready flag. Committing
// the same plan twice yields the same Clocks: there is no hidden
// incremental state. Aborting mid-sequence is not supported; on a poll
// budget failure the clock tree is left partially configured.
func (r *RCC) CommitWith(p Plan, o CommitOpts) (Clocks, error) {
	// 1. Raise flash wait states before any clock switch. Extra wait
	// states are always safe; too few, even transiently, are not.
	prevWS := r.flash.ACR.Get() >> posLATENCY & maskLATENCY
	if uint32(p.WaitStates) > prevWS {
		r.flash.ACR.ReplaceBits(uint32(p.WaitStates), maskLATENCY, posLATENCY)
	}

	// 2. Bring up the oscillator feeding the new tree.
	needHSE := p.Source == SrcHSE || (p.PLL != nil && p.PLL.Src == SrcHSE)
	needHSI := p.Source == SrcHSI || (p.PLL != nil && p.PLL.Src == SrcHSI)
	if needHSE {
		r.regs.CR.SetBits(crHSEON)
		if err := pollSet(r.regs.CR, crHSERDY, o.PollBudget); err != nil {
			return Clocks{}, err
		}
	}
	if needHSI {
		r.regs.CR.SetBits(crHSION)
		if err := pollSet(r.regs.CR, crHSIRDY, o.PollBudget); err != nil {
			return Clocks{}, err
		}
	}

	// 3. Program and lock the PLL.
	if p.PLL != nil {
		if err := r.programPLL(p, o); err != nil {
			return Clocks{}, err
		}
	}

	// 4. Bus prescalers.
	r.regs.CFGR.ReplaceBits(hpreBits(p.AHBDiv), maskHPRE, posHPRE)
	r.regs.CFGR.ReplaceBits(ppreBits(p.APB1Div), maskPPRE, posPPRE1)
	r.regs.CFGR.ReplaceBits(ppreBits(p.APB2Div), maskPPRE, posPPRE2)

	// 5. Switch the system clock mux and wait for confirmation.
	sw := swFor(p.Source)
	r.regs.CFGR.ReplaceBits(sw, maskSW, posSW)
	if err := pollField(r.regs.CFGR, maskSWS, posSWS, sw, o.PollBudget); err != nil {
		return Clocks{}, err
	}

	// 6. Wait states may only drop after the core has slowed down.
	if uint32(p.WaitStates) < prevWS {
		r.flash.ACR.ReplaceBits(uint32(p.WaitStates), maskLATENCY, posLATENCY)
	}

	return clocksFrom(p), nil
}

// programPLL reprograms the PLL. The multiplier field is writable only
// while the PLL is off, and the PLL cannot be turned off while it drives
// SYSCLK, so a re-commit parks the mux on the raw source first.
func (r *RCC) programPLL(p Plan, o CommitOpts) error {
	if r.regs.CFGR.Get()>>posSWS&maskSWS == swPLL {
		raw := uint32(swHSI)
		if p.PLL.Src == SrcHSE {
			raw = swHSE
		}
		r.regs.CFGR.ReplaceBits(raw, maskSW, posSW)
		if err := pollField(r.regs.CFGR, maskSWS, posSWS, raw, o.PollBudget); err != nil {
			return err
		}
	}

	r.regs.CR.ClearBits(crPLLON)
	if err := pollClear(r.regs.CR, crPLLRDY, o.PollBudget); err != nil {
		return err
	}

	if p.PLL.Src == SrcHSE {
		r.regs.CFGR2.ReplaceBits(p.PLL.Prediv-1, maskPREDIV, posPREDIV)
		r.regs.CFGR.SetBits(cfgrPLLSRC)
	} else {
		r.regs.CFGR.ClearBits(cfgrPLLSRC)
	}
	r.regs.CFGR.ReplaceBits(p.PLL.Mul-2, maskPLLMUL, posPLLMUL)

	if p.USBDiv != nil {
		if p.USBDiv.Num == 1 {
			r.regs.CFGR.SetBits(cfgrUSBPRE)
		} else {
			r.regs.CFGR.ClearBits(cfgrUSBPRE)
		}
	}

	r.regs.CR.SetBits(crPLLON)
	return pollSet(r.regs.CR, crPLLRDY, o.PollBudget)
}

func swFor(s Source) uint32 {
	switch s {
	case SrcHSE:
		return swHSE
	case SrcPLL:
		return swPLL
	default:
		return swHSI
	}
}

// ---- status polling ----

func pollSet(r mmio.Reg32, mask uint32, budget int) error {
	if budget <= 0 {
		for !r.HasBits(mask) {
		}
		return nil
	}
	for i := 0; i < budget; i++ {
		if r.HasBits(mask) {
			return nil
		}
	}
	return errcode.HardwareNotReady
}

func pollClear(r mmio.Reg32, mask uint32, budget int) error {
	if budget <= 0 {
		for r.HasBits(mask) {
		}
		return nil
	}
	for i := 0; i < budget; i++ {
		if !r.HasBits(mask) {
			return nil
		}
	}
	return errcode.HardwareNotReady
}

func pollField(r mmio.Reg32, mask, pos, want uint32, budget int) error {
	if budget <= 0 {
		for r.Get()>>pos&mask != want {
		}
		return nil
	}
	for i := 0; i < budget; i++ {
		if r.Get()>>pos&mask == want {
			return nil
		}
	}
	return errcode.HardwareNotReady
}

// ---- peripheral clock gating ----

// Grant proves a peripheral's bus clock was enabled; downstream
// constructors (gpio.Split, pwm.New) demand one. The zero Grant is
// invalid.
type Grant struct {
	p Peripheral
}

// Peripheral reports which peripheral the grant covers.
func (g Grant) Peripheral() Peripheral { return g.p }

// Enable sets the peripheral's clock-gate bit. Idempotent: a single bit
// flip with no ordering constraint beyond "before first register access to
// that peripheral".
func (r *RCC) Enable(p Peripheral) Grant {
	reg, bit := p.gate()
	if bit != 0 {
		r.enr(reg).SetBits(bit)
	}
	return Grant{p: p}
}

// Disable clears the peripheral's clock-gate bit. Idempotent.
func (r *RCC) Disable(p Peripheral) {
	reg, bit := p.gate()
	if bit != 0 {
		r.enr(reg).ClearBits(bit)
	}
}

func (r *RCC) enr(e enrReg) mmio.Reg32 {
	switch e {
	case enrAPB1:
		return r.regs.APB1ENR
	case enrAPB2:
		return r.regs.APB2ENR
	default:
		return r.regs.AHBENR
	}
}
