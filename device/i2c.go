package device

import (
	"fmt"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2CBus is a Bus over a periph.io I2C bus at a fixed chip address.
type I2CBus struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

var _ Bus = (*I2CBus)(nil)
var _ Addressable = (*I2CBus)(nil)

// OpenI2C opens the named I2C bus ("" picks the first available) addressing
// the chip at addr.
func OpenI2C(name string, addr uint16) (*I2CBus, error) {
	if _, err := driverreg.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return &I2CBus{bus: bus, dev: i2c.Dev{Addr: addr, Bus: bus}}, nil
}

// SetAddr retargets subsequent transfers to a different chip address on the
// same bus.
func (b *I2CBus) SetAddr(addr uint16) {
	b.dev.Addr = addr
}

func (b *I2CBus) ReadReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := b.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *I2CBus) ReadRegs(reg byte, buf []byte) error {
	return b.dev.Tx([]byte{reg}, buf)
}

func (b *I2CBus) WriteReg(reg, value byte) error {
	return b.dev.Tx([]byte{reg, value}, nil)
}

func (b *I2CBus) WriteRegs(reg byte, data []byte) error {
	return b.dev.Tx(append([]byte{reg}, data...), nil)
}

func (b *I2CBus) Close() error {
	return b.bus.Close()
}
