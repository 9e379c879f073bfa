package device

import (
	"fmt"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// The LSM6DS3 sets bit 7 of the register address for reads.
const spiReadFlag = 0x80

// SPIBus is a Bus over a periph.io SPI port, for board variants where the
// sensor hangs off SPI instead of I2C. Chip select is handled by the port.
type SPIBus struct {
	port spi.PortCloser
	conn spi.Conn
}

var _ Bus = (*SPIBus)(nil)

// OpenSPI opens the named SPI port ("" picks the first available) in the
// sensor's mode 3 at 10 MHz.
func OpenSPI(name string) (*SPIBus, error) {
	if _, err := driverreg.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	conn, err := port.Connect(10*physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi port %q: %w", name, err)
	}
	return &SPIBus{port: port, conn: conn}, nil
}

func (b *SPIBus) ReadReg(reg byte) (byte, error) {
	var rx [2]byte
	if err := b.conn.Tx([]byte{reg | spiReadFlag, 0}, rx[:]); err != nil {
		return 0, err
	}
	return rx[1], nil
}

func (b *SPIBus) ReadRegs(reg byte, buf []byte) error {
	tx := make([]byte, len(buf)+1)
	tx[0] = reg | spiReadFlag
	rx := make([]byte, len(buf)+1)
	if err := b.conn.Tx(tx, rx); err != nil {
		return err
	}
	copy(buf, rx[1:])
	return nil
}

func (b *SPIBus) WriteReg(reg, value byte) error {
	return b.conn.Tx([]byte{reg, value}, nil)
}

func (b *SPIBus) WriteRegs(reg byte, data []byte) error {
	return b.conn.Tx(append([]byte{reg}, data...), nil)
}

func (b *SPIBus) Close() error {
	return b.port.Close()
}
