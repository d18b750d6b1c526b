// Package softi2c bit-bangs an I2C master over two open-drain GPIO
// outputs. It implements the tinygo.org/x/drivers I2C interface, so the
// ecosystem's sensor drivers run over any pin pair, not just the pins the
// hardware I2C blocks are bonded to.
package softi2c

import (
	"time"

	"tinygo.org/x/drivers"

	"stm32hal-go/errcode"
	"stm32hal-go/gpio"
	"stm32hal-go/rcc"
	"stm32hal-go/x/timex"
)

// DefaultFreq is standard-mode I2C.
const DefaultFreq = 100_000

// Config tunes the bus timing.
type Config struct {
	// Freq is the SCL frequency in Hz. Zero selects DefaultFreq.
	Freq uint32
	// StretchBudget bounds the wait for a slave holding SCL low, in
	// polls. Zero selects a generous default; a stuck bus then fails
	// with Timeout instead of hanging.
	StretchBudget int
}

const defaultStretchBudget = 1 << 16

// Master drives the bus. Both pins must be open-drain: the protocol
// depends on either side being able to hold a released line low.
type Master struct {
	scl gpio.Output
	sda gpio.Output

	half    time.Duration
	stretch int
}

var _ drivers.I2C = (*Master)(nil)

// New builds a master over scl and sda. The committed clock table bounds
// the achievable bit rate: a bit-banged edge costs tens of core cycles, so
// rates above HCLK/64 are refused rather than silently delivered slow.
func New(scl, sda gpio.Output, clocks rcc.Clocks, cfg Config) (*Master, error) {
	if scl.Drive() != gpio.OpenDrain || sda.Drive() != gpio.OpenDrain {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "softi2c.New",
			Msg: "scl and sda must be open-drain outputs"}
	}
	freq := cfg.Freq
	if freq == 0 {
		freq = DefaultFreq
	}
	if freq > clocks.HClk()/64 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "softi2c.New",
			Msg: "bit rate too fast for the core clock"}
	}
	stretch := cfg.StretchBudget
	if stretch == 0 {
		stretch = defaultStretchBudget
	}

	m := &Master{
		scl:     scl,
		sda:     sda,
		half:    time.Duration(timex.PeriodFromHz(freq) / 2),
		stretch: stretch,
	}
	// Idle bus: both lines released.
	m.scl.SetHigh()
	m.sda.SetHigh()
	return m, nil
}

// Tx performs a complete transaction: write w (if any), then read into r
// (if any) after a repeated start. Either slice may be empty. A slave
// refusing its address or a data byte fails with Nack after a clean stop.
func (m *Master) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 && len(r) == 0 {
		return nil
	}

	if len(w) > 0 {
		m.start()
		if err := m.writeByte(byte(addr << 1)); err != nil {
			m.stop()
			return err
		}
		for _, b := range w {
			if err := m.writeByte(b); err != nil {
				m.stop()
				return err
			}
		}
	}

	if len(r) > 0 {
		m.start() // repeated start when a write phase preceded
		if err := m.writeByte(byte(addr<<1 | 1)); err != nil {
			m.stop()
			return err
		}
		for i := range r {
			b, err := m.readByte(i == len(r)-1)
			if err != nil {
				m.stop()
				return err
			}
			r[i] = b
		}
	}

	m.stop()
	return nil
}

// start issues a (repeated) start: SDA falls while SCL is high.
func (m *Master) start() {
	m.sda.SetHigh()
	m.scl.SetHigh()
	m.wait()
	m.sda.SetLow()
	m.wait()
	m.scl.SetLow()
}

// stop issues a stop: SDA rises while SCL is high.
func (m *Master) stop() {
	m.sda.SetLow()
	m.wait()
	m.scl.SetHigh()
	m.wait()
	m.sda.SetHigh()
	m.wait()
}

func (m *Master) writeByte(b byte) error {
	for i := 7; i >= 0; i-- {
		if err := m.writeBit(b>>uint(i)&1 != 0); err != nil {
			return err
		}
	}
	// Acknowledge clock: release SDA and sample.
	ack, err := m.readBit()
	if err != nil {
		return err
	}
	if ack { // line stayed high: nobody pulled the acknowledge
		return errcode.Nack
	}
	return nil
}

func (m *Master) readByte(last bool) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := m.readBit()
		if err != nil {
			return 0, err
		}
		b = b<<1 | boolBit(bit)
	}
	// Acknowledge all but the final byte; the final NACK tells the slave
	// to release the bus.
	if err := m.writeBit(last); err != nil {
		return 0, err
	}
	return b, nil
}

func (m *Master) writeBit(high bool) error {
	if high {
		m.sda.SetHigh()
	} else {
		m.sda.SetLow()
	}
	m.wait()
	if err := m.clockHigh(); err != nil {
		return err
	}
	m.wait()
	m.scl.SetLow()
	return nil
}

func (m *Master) readBit() (bool, error) {
	m.sda.SetHigh() // release so the other side can drive
	m.wait()
	if err := m.clockHigh(); err != nil {
		return false, err
	}
	m.wait()
	bit := m.sda.IsHigh()
	m.scl.SetLow()
	return bit, nil
}

// clockHigh releases SCL and waits for it to actually rise. A slave may
// hold it low to stretch the clock; the stretch budget bounds that wait.
func (m *Master) clockHigh() error {
	m.scl.SetHigh()
	for i := 0; i < m.stretch; i++ {
		if m.scl.IsHigh() {
			return nil
		}
	}
	return &errcode.E{C: errcode.Timeout, Op: "softi2c.clockHigh",
		Msg: "slave held " + m.scl.Name() + " low beyond the stretch budget"}
}

func (m *Master) wait() { time.Sleep(m.half) }

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}
