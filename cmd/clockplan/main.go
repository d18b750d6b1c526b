// cmd/clockplan/main.go
//
// Interactive clock-tree planner. Runs the real resolver and commit
// sequencer against simulated registers, so a clock configuration can be
// validated on a workstation before it goes anywhere near a board.
//
//	$ clockplan
//	> variant f303
//	> osc hsi hse=8000000
//	> resolve sys=64000000 usb
//	> commit
package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"stm32hal-go/device"
	"stm32hal-go/rcc"
)

// ---------- Session state ----------

type session struct {
	variant *device.Variant
	osc     rcc.Oscillators
	plan    *rcc.Plan
}

func main() {
	s := &session{variant: device.F303(), osc: rcc.Oscillators{HSI: true}}
	fmt.Printf("clockplan: %s, hsi on. 'help' lists commands.\n", s.variant.Name)

	in := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for in.Scan() {
		args, err := shlex.Split(in.Text())
		if err != nil {
			fmt.Println("parse error:", err)
		} else if len(args) > 0 {
			if args[0] == "quit" || args[0] == "exit" {
				return
			}
			if err := s.run(args[0], args[1:]); err != nil {
				fmt.Println("error:", err)
			}
		}
		fmt.Print("> ")
	}
}

func (s *session) run(cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Print(helpText)
		return nil
	case "variant":
		return s.cmdVariant(args)
	case "osc":
		return s.cmdOsc(args)
	case "resolve":
		return s.cmdResolve(args)
	case "commit":
		return s.cmdCommit()
	case "plan":
		return s.cmdPlan()
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

const helpText = `  variant f302|f303          select the chip capability table
  osc [hsi|nohsi] [hse=HZ]   declare the available oscillators
  resolve sys=HZ [hclk=HZ] [pclk1=HZ] [pclk2=HZ] [usb]
                             plan a clock tree for the request
  plan                       show the current plan
  commit                     run the plan against simulated registers
  quit
`

// ---------- Commands ----------

func (s *session) cmdVariant(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: variant f302|f303")
	}
	switch args[0] {
	case "f302":
		s.variant = device.F302()
	case "f303":
		s.variant = device.F303()
	default:
		return fmt.Errorf("unknown variant %q", args[0])
	}
	s.plan = nil
	fmt.Println("variant:", s.variant.Name)
	return nil
}

func (s *session) cmdOsc(args []string) error {
	osc := rcc.Oscillators{}
	for _, a := range args {
		switch {
		case a == "hsi":
			osc.HSI = true
		case a == "nohsi":
			osc.HSI = false
		case strings.HasPrefix(a, "hse="):
			hz, err := parseHz(strings.TrimPrefix(a, "hse="))
			if err != nil {
				return err
			}
			osc.HSE = hz
		default:
			return fmt.Errorf("unknown oscillator arg %q", a)
		}
	}
	s.osc = osc
	s.plan = nil
	fmt.Printf("oscillators: hsi=%v hse=%s\n", osc.HSI, hz(osc.HSE))
	return nil
}

func (s *session) cmdResolve(args []string) error {
	var req rcc.Request
	for _, a := range args {
		k, v, _ := strings.Cut(a, "=")
		var err error
		switch k {
		case "sys":
			req.SysClk, err = parseHz(v)
		case "hclk":
			req.HClk, err = parseHz(v)
		case "pclk1":
			req.PClk1, err = parseHz(v)
		case "pclk2":
			req.PClk2, err = parseHz(v)
		case "usb":
			req.USB = true
		default:
			err = fmt.Errorf("unknown request arg %q", a)
		}
		if err != nil {
			return err
		}
	}

	plan, err := rcc.Resolve(s.variant, req, s.osc)
	if err != nil {
		return err
	}
	s.plan = &plan
	return s.cmdPlan()
}

func (s *session) cmdPlan() error {
	if s.plan == nil {
		return fmt.Errorf("no plan, run 'resolve' first")
	}
	p := s.plan
	fmt.Printf("  source    %s\n", p.Source)
	if p.PLL != nil {
		fmt.Printf("  pll       %s /%d x%d = %s\n",
			p.PLL.Src, p.PLL.Prediv, p.PLL.Mul, hz(p.PLL.Out))
	}
	fmt.Printf("  sysclk    %s\n", hz(p.SysClk))
	fmt.Printf("  hclk      %s (ahb /%d)\n", hz(p.HClk), p.AHBDiv)
	fmt.Printf("  pclk1     %s (apb1 /%d)\n", hz(p.PClk1), p.APB1Div)
	fmt.Printf("  pclk2     %s (apb2 /%d)\n", hz(p.PClk2), p.APB2Div)
	fmt.Printf("  flash     %d wait state(s)\n", p.WaitStates)
	if p.USBDiv != nil {
		fmt.Printf("  usb       %s (pll /%d.%d)\n",
			hz(p.USBClk), p.USBDiv.Num/p.USBDiv.Den, p.USBDiv.Num%p.USBDiv.Den*5)
	}
	return nil
}

func (s *session) cmdCommit() error {
	if s.plan == nil {
		return fmt.Errorf("no plan, run 'resolve' first")
	}
	rb, fb := rcc.NewSim()
	r := rcc.New(rb, fb, s.variant)
	clocks, err := r.CommitWith(*s.plan, rcc.CommitOpts{PollBudget: 1 << 16})
	if err != nil {
		return err
	}
	fmt.Printf("committed: sysclk=%s hclk=%s pclk1=%s pclk2=%s\n",
		hz(clocks.SysClk()), hz(clocks.HClk()), hz(clocks.PClk1()), hz(clocks.PClk2()))
	if usb, ok := clocks.USB(); ok {
		fmt.Printf("           usb=%s\n", hz(usb))
	}
	return nil
}

// ---------- Formatting ----------

func parseHz(s string) (uint32, error) {
	// Accept bare Hz plus the k/M suffixes people actually type.
	orig := s
	mul := uint64(1)
	switch {
	case strings.HasSuffix(s, "M"):
		mul, s = 1_000_000, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "k"):
		mul, s = 1_000, strings.TrimSuffix(s, "k")
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad frequency %q", orig)
	}
	if n*mul > math.MaxUint32 {
		return 0, fmt.Errorf("frequency %q does not fit 32 bits", orig)
	}
	return uint32(n * mul), nil
}

func hz(v uint32) string {
	switch {
	case v == 0:
		return "off"
	case v%1_000_000 == 0:
		return fmt.Sprintf("%dMHz", v/1_000_000)
	case v%1_000 == 0:
		return fmt.Sprintf("%dkHz", v/1_000)
	default:
		return fmt.Sprintf("%dHz", v)
	}
}
