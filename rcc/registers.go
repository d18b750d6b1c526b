package rcc

import "stm32hal-go/mmio"

// Register offsets within the RCC block.
const (
	offCR      = 0x00
	offCFGR    = 0x04
	offAHBENR  = 0x14
	offAPB2ENR = 0x18
	offAPB1ENR = 0x1C
	offCFGR2   = 0x2C

	// Total block span, for sizing simulated buses.
	blockSize = 0x34
)

// CR bits.
const (
	crHSION  = 1 << 0
	crHSIRDY = 1 << 1
	crHSEON  = 1 << 16
	crHSERDY = 1 << 17
	crPLLON  = 1 << 24
	crPLLRDY = 1 << 25
)

// CFGR fields.
const (
	posSW  = 0
	maskSW = 0b11
	swHSI  = 0b00
	swHSE  = 0b01
	swPLL  = 0b10

	posSWS  = 2
	maskSWS = 0b11

	posHPRE  = 4
	maskHPRE = 0b1111

	posPPRE1 = 8
	posPPRE2 = 11
	maskPPRE = 0b111

	cfgrPLLSRC = 1 << 16 // 0: HSI/2, 1: HSE/PREDIV

	posPLLMUL  = 18
	maskPLLMUL = 0b1111

	cfgrUSBPRE = 1 << 22 // 0: PLL/1.5, 1: PLL/1
)

// CFGR2 fields.
const (
	posPREDIV  = 0
	maskPREDIV = 0b1111 // field value = prediv - 1
)

// Flash ACR fields.
const (
	offACR      = 0x00
	posLATENCY  = 0
	maskLATENCY = 0b111

	flashBlockSize = 0x04
)

// Block is the RCC register set, bound to a bus handle.
type Block struct {
	CR      mmio.Reg32
	CFGR    mmio.Reg32
	CFGR2   mmio.Reg32
	AHBENR  mmio.Reg32
	APB1ENR mmio.Reg32
	APB2ENR mmio.Reg32
}

func newBlock(bus mmio.Bus) Block {
	return Block{
		CR:      mmio.NewReg32(bus, offCR),
		CFGR:    mmio.NewReg32(bus, offCFGR),
		CFGR2:   mmio.NewReg32(bus, offCFGR2),
		AHBENR:  mmio.NewReg32(bus, offAHBENR),
		APB1ENR: mmio.NewReg32(bus, offAPB1ENR),
		APB2ENR: mmio.NewReg32(bus, offAPB2ENR),
	}
}

// FlashBlock is the flash interface register set (wait states live here).
type FlashBlock struct {
	ACR mmio.Reg32
}

func newFlashBlock(bus mmio.Bus) FlashBlock {
	return FlashBlock{ACR: mmio.NewReg32(bus, offACR)}
}

// hpreBits encodes an AHB divider into the HPRE field.
func hpreBits(div uint32) uint32 {
	switch div {
	case 1:
		return 0b0000
	case 2:
		return 0b1000
	case 4:
		return 0b1001
	case 8:
		return 0b1010
	case 16:
		return 0b1011
	case 64:
		return 0b1100
	case 128:
		return 0b1101
	case 256:
		return 0b1110
	default: // 512
		return 0b1111
	}
}

// ppreBits encodes an APB divider into a PPRE field.
func ppreBits(div uint32) uint32 {
	switch div {
	case 1:
		return 0b000
	case 2:
		return 0b100
	case 4:
		return 0b101
	case 8:
		return 0b110
	default: // 16
		return 0b111
	}
}
