// Package fuelgauge reads the MAX17048 battery fuel gauge that shares the
// tracker's I2C bus.
package fuelgauge

import (
	"encoding/binary"
	"fmt"

	"steptrack/device"
)

// Addr is the fixed I2C address of the MAX17048.
const Addr uint16 = 0x36

// Register map (all registers are 16-bit, big-endian).
const (
	regVCell   = 0x02
	regSOC     = 0x04
	regMode    = 0x06
	regVersion = 0x08
	regConfig  = 0x0C
	regCommand = 0xFE
)

const (
	quickstartValue = 0x4000
	resetValue      = 0x5400
)

// MAX17048 exposes the gauge's voltage and state-of-charge measurements.
type MAX17048 struct {
	bus device.Bus
}

// New wraps an already-open bus addressed at the gauge.
func New(bus device.Bus) *MAX17048 {
	return &MAX17048{bus: bus}
}

func (g *MAX17048) readWord(reg byte) (uint16, error) {
	var buf [2]byte
	if err := g.bus.ReadRegs(reg, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (g *MAX17048) writeWord(reg byte, value uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], value)
	return g.bus.WriteRegs(reg, buf[:])
}

// Voltage returns the cell voltage in volts. Bits 15:4 hold the measurement
// at 1.25 mV per LSB.
func (g *MAX17048) Voltage() (float64, error) {
	raw, err := g.readWord(regVCell)
	if err != nil {
		return 0, fmt.Errorf("read vcell: %w", err)
	}
	return float64(raw>>4) * 0.00125, nil
}

// StateOfCharge returns the battery charge percentage. The SOC register is
// 8.8 fixed point.
func (g *MAX17048) StateOfCharge() (float64, error) {
	raw, err := g.readWord(regSOC)
	if err != nil {
		return 0, fmt.Errorf("read soc: %w", err)
	}
	return float64(raw) / 256.0, nil
}

// Version returns the chip's silicon version register.
func (g *MAX17048) Version() (uint16, error) {
	v, err := g.readWord(regVersion)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return v, nil
}

// Quickstart restarts the gauge's state-of-charge calculation, for use right
// after a battery swap when the open-circuit voltage is trustworthy.
func (g *MAX17048) Quickstart() error {
	if err := g.writeWord(regMode, quickstartValue); err != nil {
		return fmt.Errorf("quickstart: %w", err)
	}
	return nil
}

// Reset soft-resets the gauge to power-on defaults.
func (g *MAX17048) Reset() error {
	if err := g.writeWord(regCommand, resetValue); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
