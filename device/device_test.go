package device

import "testing"

func TestWaitStateBands(t *testing.T) {
	v := F303()
	cases := []struct {
		hz   uint32
		want uint8
	}{
		{8_000_000, 0},
		{24_000_000, 0},
		{24_000_001, 1},
		{48_000_000, 1},
		{64_000_000, 2},
		{72_000_000, 2},
	}
	for _, c := range cases {
		if got := v.WaitStates(c.hz); got != c.want {
			t.Fatalf("WaitStates(%d) = %d, want %d", c.hz, got, c.want)
		}
	}
}

func TestPortLookup(t *testing.T) {
	v := F302()
	if _, ok := v.Port('A'); !ok {
		t.Fatal("F302 must have port A")
	}
	if _, ok := v.Port('E'); ok {
		t.Fatal("F302 has no port E")
	}
	if _, ok := F303().Port('E'); !ok {
		t.Fatal("F303 must have port E")
	}
}

func TestAlternateFunctionTables(t *testing.T) {
	v := F303()
	a, _ := v.Port('A')

	// PA0 routes AF1 (TIM2) but not AF2.
	if !a.Pins[0].SupportsAF(1) {
		t.Fatal("PA0 should support AF1")
	}
	if a.Pins[0].SupportsAF(2) {
		t.Fatal("PA0 should not support AF2")
	}

	// PC14/PC15 exist as plain GPIO with no alternate functions.
	c, _ := v.Port('C')
	if !c.Pins[14].Exists {
		t.Fatal("PC14 exists")
	}
	if c.Pins[14].AF != 0 {
		t.Fatal("PC14 has no alternate functions")
	}

	// PF3 does not exist on this package.
	f, _ := v.Port('F')
	if f.Pins[3].Exists {
		t.Fatal("PF3 is not bonded out")
	}
	if f.Pins[3].SupportsAF(1) {
		t.Fatal("nonexistent pin supports nothing")
	}
}

func TestPWMRouteLookup(t *testing.T) {
	v := F303()

	// PA6 on AF2 reaches TIM3 CH1; PB6 on the same function is TIM4 CH1.
	if tim, ch, ok := v.PWMRoute('A', 6, 2); !ok || tim != 3 || ch != 1 {
		t.Fatalf("PA6/AF2 -> tim%d ch%d ok=%v", tim, ch, ok)
	}
	if tim, ch, ok := v.PWMRoute('B', 6, 2); !ok || tim != 4 || ch != 1 {
		t.Fatalf("PB6/AF2 -> tim%d ch%d ok=%v", tim, ch, ok)
	}
	// PC6 reaches two timers through different functions.
	if tim, _, _ := v.PWMRoute('C', 6, 2); tim != 3 {
		t.Fatalf("PC6/AF2 -> tim%d", tim)
	}
	if tim, _, _ := v.PWMRoute('C', 6, 4); tim != 8 {
		t.Fatalf("PC6/AF4 -> tim%d", tim)
	}
	if _, _, ok := v.PWMRoute('A', 0, 3); ok {
		t.Fatal("PA0/AF3 is not a timer output")
	}
}

func TestPWMRoutesMatchPinCapabilities(t *testing.T) {
	for _, v := range []*Variant{F302(), F303()} {
		for _, r := range v.PWM {
			p, ok := v.Port(r.Port)
			if !ok {
				t.Fatalf("%s: route %+v names a missing port", v.Name, r)
			}
			if !p.Pins[r.Pin].SupportsAF(r.AF) {
				t.Fatalf("%s: route %+v not backed by the pin table", v.Name, r)
			}
			if r.Channel < 1 || r.Channel > 4 {
				t.Fatalf("%s: route %+v has a bad channel", v.Name, r)
			}
		}
	}
}
