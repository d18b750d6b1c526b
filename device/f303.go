package device

// F303 returns the capability table for the STM32F303 (LQFP100-class
// package: ports A-F). Pin alternate-function lists follow the reference
// manual / CubeMX pin database.
func F303() *Variant {
	return &Variant{
		Name: "stm32f303",

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

		// PLL/1.5 (72 MHz) or PLL/1 (48 MHz) both land on 48 MHz.
		USBPre: []Ratio{{Num: 3, Den: 2}, {Num: 1, Den: 1}},

		FlashWait: []WaitBand{
			{UpTo: 24_000_000, States: 0},
			{UpTo: 48_000_000, States: 1},
			{UpTo: 72_000_000, States: 2},
		},

		Ports: []PortCaps{
			port('A', map[uint8][]uint8{
				0:  {1, 3, 7, 8, 9, 10, 15},
				1:  {0, 1, 3, 7, 9, 15},
				2:  {1, 3, 7, 8, 9, 15},
				3:  {1, 3, 7, 9, 15},
				4:  {2, 3, 5, 6, 7, 15},
				5:  {1, 3, 5, 15},
				6:  {1, 2, 3, 4, 5, 6, 8, 15},
				7:  {1, 2, 3, 4, 5, 6, 8, 15},
				8:  {0, 4, 5, 6, 7, 8, 10, 15},
				9:  {3, 4, 5, 6, 7, 8, 9, 10, 15},
				10: {1, 3, 4, 6, 7, 8, 10, 11, 15},
				11: {6, 7, 8, 9, 10, 11, 12, 14, 15},
				12: {1, 6, 7, 8, 9, 10, 11, 14, 15},
				13: {0, 1, 3, 5, 7, 10, 15},
				14: {0, 3, 4, 5, 6, 7, 15},
				15: {0, 1, 2, 4, 5, 6, 7, 9, 15},
			}),
			port('B', map[uint8][]uint8{
				0:  {2, 3, 4, 6, 15},
				1:  {2, 3, 4, 6, 8, 15},
				2:  {3, 15},
				3:  {0, 1, 2, 3, 4, 5, 6, 7, 10, 15},
				4:  {0, 1, 2, 3, 4, 5, 6, 7, 10, 15},
				5:  {1, 2, 3, 4, 5, 6, 7, 10, 15},
				6:  {1, 2, 3, 4, 5, 6, 7, 10, 15},
				7:  {1, 2, 3, 4, 5, 7, 10, 15},
				8:  {1, 2, 3, 4, 8, 9, 10, 12, 15},
				9:  {1, 2, 4, 6, 8, 9, 10, 15},
				10: {1, 3, 7, 15},
				11: {1, 3, 7, 15},
				12: {3, 4, 5, 6, 7, 15},
				13: {3, 5, 6, 7, 15},
				14: {1, 3, 5, 6, 7, 15},
				15: {0, 1, 2, 4, 5, 15},
			}),
			port('C', map[uint8][]uint8{
				0:  {1},
				1:  {1},
				2:  {1, 3},
				3:  {1, 6},
				4:  {1, 7},
				5:  {1, 3, 7},
				6:  {1, 2, 4, 6, 7},
				7:  {1, 2, 4, 6, 7},
				8:  {1, 2, 4, 7},
				9:  {1, 2, 4, 5, 6},
				10: {1, 4, 5, 6, 7},
				11: {1, 4, 5, 6, 7},
				12: {1, 4, 5, 6, 7},
				13: {4},
				14: {},
				15: {},
			}),
			port('D', map[uint8][]uint8{
				0:  {1, 7},
				1:  {1, 4, 6, 7},
				2:  {1, 2, 4, 5},
				3:  {1, 2, 7},
				4:  {1, 2, 7},
				5:  {1, 7},
				6:  {1, 2, 7},
				7:  {1, 2, 7},
				8:  {1, 7},
				9:  {1, 7},
				10: {1, 7},
				11: {1, 7},
				12: {1, 2, 3, 7},
				13: {1, 2, 3},
				14: {1, 2, 3},
				15: {1, 2, 3, 6},
			}),
			port('E', map[uint8][]uint8{
				0:  {1, 2, 4, 7},
				1:  {1, 4, 7},
				2:  {0, 1, 2, 3},
				3:  {0, 1, 2, 3},
				4:  {0, 1, 2, 3},
				5:  {0, 1, 2, 3},
				6:  {0, 1},
				7:  {1, 2},
				8:  {1, 2},
				9:  {1, 2},
				10: {1, 2},
				11: {1, 2},
				12: {1, 2},
				13: {1, 2},
				14: {1, 2, 6},
				15: {1, 2, 7},
			}),
			port('F', map[uint8][]uint8{
				0:  {4, 6},
				1:  {4},
				2:  {1},
				4:  {1, 2},
				6:  {1, 2, 4, 7},
				9:  {1, 3, 5},
				10: {1, 3, 5},
			}),
		},

		PWM: []PWMRoute{
			// TIM1
			route('A', 8, 6, 1, 1), route('A', 9, 6, 1, 2),
			route('A', 10, 6, 1, 3), route('A', 11, 11, 1, 4),
			route('E', 9, 2, 1, 1), route('E', 11, 2, 1, 2),
			route('E', 13, 2, 1, 3), route('E', 14, 2, 1, 4),
			// TIM2
			route('A', 0, 1, 2, 1), route('A', 5, 1, 2, 1), route('A', 15, 1, 2, 1),
			route('A', 1, 1, 2, 2), route('B', 3, 1, 2, 2),
			route('A', 2, 1, 2, 3), route('B', 10, 1, 2, 3),
			route('A', 3, 1, 2, 4), route('B', 11, 1, 2, 4),
			// TIM3
			route('A', 6, 2, 3, 1), route('B', 4, 2, 3, 1), route('C', 6, 2, 3, 1),
			route('A', 7, 2, 3, 2), route('B', 5, 2, 3, 2), route('C', 7, 2, 3, 2),
			route('B', 0, 2, 3, 3), route('C', 8, 2, 3, 3),
			route('B', 1, 2, 3, 4), route('C', 9, 2, 3, 4),
			// TIM4
			route('B', 6, 2, 4, 1), route('D', 12, 2, 4, 1),
			route('B', 7, 2, 4, 2), route('D', 13, 2, 4, 2),
			route('B', 8, 2, 4, 3), route('D', 14, 2, 4, 3),
			route('B', 9, 2, 4, 4), route('D', 15, 2, 4, 4),
			// TIM8
			route('C', 6, 4, 8, 1), route('C', 7, 4, 8, 2),
			route('C', 8, 4, 8, 3), route('C', 9, 4, 8, 4),
		},
	}
}
