// Package device drives the tracker's sensor peripherals, primarily the
// LSM6DS3TR-C accelerometer, over an interchangeable register bus so the
// same driver works on the I2C and SPI variants of the board.
package device

// Bus is register-level access to one chip. Implementations are not safe for
// concurrent use; the sampling loop owns the bus.
type Bus interface {
	// ReadReg reads a single register.
	ReadReg(reg byte) (byte, error)
	// ReadRegs burst-reads len(buf) consecutive registers starting at reg.
	// The chip must have register auto-increment enabled.
	ReadRegs(reg byte, buf []byte) error
	// WriteReg writes a single register.
	WriteReg(reg, value byte) error
	// WriteRegs writes consecutive registers starting at reg.
	WriteRegs(reg byte, data []byte) error
	Close() error
}

// Addressable is implemented by buses that carry a chip-select address (I2C).
// Drivers probing multiple addresses type-assert for it; SPI buses address
// by wiring and do not implement it.
type Addressable interface {
	SetAddr(addr uint16)
}
