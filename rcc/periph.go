package rcc

// Peripheral identifies one clock-gated peripheral. The zero value is
// invalid so a zero Grant proves nothing.
type Peripheral uint8

const (
	GPIOA Peripheral = iota + 1
	GPIOB
	GPIOC
	GPIOD
	GPIOE
	GPIOF
	TIM1
	TIM2
	TIM3
	TIM4
	TIM8
	USART1
	USART2
	USART3
	SPI1
	I2C1
	I2C2
	USBFS
	SYSCFG
	PWR
)

type enrReg uint8

const (
	enrAHB enrReg = iota
	enrAPB1
	enrAPB2
)

// gate returns the enable register and bit for a peripheral.
func (p Peripheral) gate() (enrReg, uint32) {
	switch p {
	case GPIOA:
		return enrAHB, 1 << 17
	case GPIOB:
		return enrAHB, 1 << 18
	case GPIOC:
		return enrAHB, 1 << 19
	case GPIOD:
		return enrAHB, 1 << 20
	case GPIOE:
		return enrAHB, 1 << 21
	case GPIOF:
		return enrAHB, 1 << 22
	case TIM2:
		return enrAPB1, 1 << 0
	case TIM3:
		return enrAPB1, 1 << 1
	case TIM4:
		return enrAPB1, 1 << 2
	case USART2:
		return enrAPB1, 1 << 17
	case USART3:
		return enrAPB1, 1 << 18
	case I2C1:
		return enrAPB1, 1 << 21
	case I2C2:
		return enrAPB1, 1 << 22
	case USBFS:
		return enrAPB1, 1 << 23
	case PWR:
		return enrAPB1, 1 << 28
	case SYSCFG:
		return enrAPB2, 1 << 0
	case TIM1:
		return enrAPB2, 1 << 11
	case SPI1:
		return enrAPB2, 1 << 12
	case TIM8:
		return enrAPB2, 1 << 13
	case USART1:
		return enrAPB2, 1 << 14
	default:
		return enrAHB, 0
	}
}

// apbBus reports which peripheral bus a timer hangs off (1 or 2), for the
// doubled timer-clock rule. Zero for non-timers.
func (p Peripheral) apbBus() int {
	switch p {
	case TIM2, TIM3, TIM4:
		return 1
	case TIM1, TIM8:
		return 2
	default:
		return 0
	}
}

func (p Peripheral) String() string {
	names := [...]string{
		GPIOA: "gpioa", GPIOB: "gpiob", GPIOC: "gpioc", GPIOD: "gpiod",
		GPIOE: "gpioe", GPIOF: "gpiof",
		TIM1: "tim1", TIM2: "tim2", TIM3: "tim3", TIM4: "tim4", TIM8: "tim8",
		USART1: "usart1", USART2: "usart2", USART3: "usart3",
		SPI1: "spi1", I2C1: "i2c1", I2C2: "i2c2",
		USBFS: "usb", SYSCFG: "syscfg", PWR: "pwr",
	}
	if int(p) < len(names) && names[p] != "" {
		return names[p]
	}
	return "unknown"
}

// GPIOPort maps a port letter to its gated peripheral.
func GPIOPort(letter byte) (Peripheral, bool) {
	switch letter {
	case 'A':
		return GPIOA, true
	case 'B':
		return GPIOB, true
	case 'C':
		return GPIOC, true
	case 'D':
		return GPIOD, true
	case 'E':
		return GPIOE, true
	case 'F':
		return GPIOF, true
	default:
		return 0, false
	}
}
