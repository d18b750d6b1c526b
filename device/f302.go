package device

// F302 returns the capability table for the STM32F302 (LQFP48-class
// package: ports A-D plus the two PF oscillator-adjacent pins).
func F302() *Variant {
	return &Variant{
		Name: "stm32f302",

		HSI:          8_000_000,
		HSEMin:       4_000_000,
		HSEMax:       32_000_000,
		PLLSrcHSIby2: true,

		MaxSys:  72_000_000,
		MaxAHB:  72_000_000,
		MaxAPB1: 36_000_000,
		MaxAPB2: 72_000_000,

		PLLMulMin: 2, PLLMulMax: 16,
		PredivMin: 1, PredivMax: 16,

		USBPre: []Ratio{{Num: 3, Den: 2}, {Num: 1, Den: 1}},

		FlashWait: []WaitBand{
			{UpTo: 24_000_000, States: 0},
			{UpTo: 48_000_000, States: 1},
			{UpTo: 72_000_000, States: 2},
		},

		Ports: []PortCaps{
			port('A', map[uint8][]uint8{
				0:  {1, 3, 7, 15},
				1:  {0, 1, 3, 7, 9, 15},
				2:  {1, 3, 7, 8, 9, 15},
				3:  {1, 3, 7, 9, 15},
				4:  {3, 6, 7, 15},
				5:  {1, 3, 15},
				6:  {1, 3, 6, 15},
				7:  {1, 3, 6, 15},
				8:  {0, 3, 4, 5, 6, 7, 15},
				9:  {2, 3, 4, 5, 6, 7, 9, 10, 15},
				10: {1, 3, 4, 5, 6, 7, 8, 10, 15},
				11: {5, 6, 7, 9, 11, 12, 15},
				12: {1, 5, 6, 7, 8, 9, 11, 15},
				13: {0, 1, 3, 5, 7, 15},
				14: {0, 3, 4, 6, 7, 15},
				15: {0, 1, 3, 4, 6, 7, 9, 15},
			}),
			port('B', map[uint8][]uint8{
				0:  {3, 6, 15},
				1:  {3, 6, 8, 15},
				2:  {3, 15},
				3:  {0, 1, 3, 6, 7, 15},
				4:  {0, 1, 3, 6, 7, 10, 15},
				5:  {1, 4, 6, 7, 8, 10, 15},
				6:  {1, 3, 4, 7, 15},
				7:  {1, 3, 4, 7, 15},
				8:  {1, 3, 4, 7, 9, 12, 15},
				9:  {1, 4, 6, 7, 8, 9, 15},
				10: {1, 3, 7, 15},
				11: {1, 3, 7, 15},
				12: {3, 4, 5, 6, 7, 15},
				13: {3, 5, 6, 7, 15},
				14: {1, 3, 5, 6, 7, 15},
				15: {0, 1, 2, 4, 5, 15},
			}),
			port('C', map[uint8][]uint8{
				0:  {1, 2},
				1:  {1, 2},
				2:  {1, 2},
				3:  {1, 2, 6},
				4:  {1, 2, 7},
				5:  {1, 2, 3, 7},
				6:  {1, 6, 7},
				7:  {1, 6},
				8:  {1},
				9:  {1, 3, 5},
				10: {1, 6, 7},
				11: {1, 6, 7},
				12: {1, 6, 7},
				13: {4},
				14: {},
				15: {},
			}),
			port('D', map[uint8][]uint8{
				2: {1},
			}),
			port('F', map[uint8][]uint8{
				0: {4, 5, 6},
				1: {4, 5},
			}),
		},

		PWM: []PWMRoute{
			// TIM1
			route('A', 8, 6, 1, 1), route('A', 9, 6, 1, 2),
			route('A', 10, 6, 1, 3), route('A', 11, 11, 1, 4),
			// TIM2
			route('A', 0, 1, 2, 1), route('A', 5, 1, 2, 1), route('A', 15, 1, 2, 1),
			route('A', 1, 1, 2, 2), route('B', 3, 1, 2, 2),
			route('A', 2, 1, 2, 3), route('B', 10, 1, 2, 3),
			route('A', 3, 1, 2, 4), route('B', 11, 1, 2, 4),
		},
	}
}
