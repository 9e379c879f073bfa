package device

import (
	"encoding/binary"
	"errors"
	"fmt"

	"steptrack/tracker"
)

// I2C addresses of the LSM6DS3TR-C depending on the SA0 pin.
const (
	AddrSA0Low  uint16 = 0x6A
	AddrSA0High uint16 = 0x6B
)

// LSM6DS3TR-C register map (accelerometer subset).
const (
	regWhoAmI  = 0x0F
	regCtrl1XL = 0x10
	regCtrl2G  = 0x11
	regCtrl3C  = 0x12
	regStatus  = 0x1E
	regOutXLXL = 0x28 // OUTX_L_XL, first of six accel output registers

	whoAmIValue = 0x6A
)

// STATUS_REG bit 0: new accelerometer data available.
const statusXLDA = 1 << 0

// ErrNotDetected is returned when WHO_AM_I does not answer as an LSM6DS3 on
// any candidate address.
var ErrNotDetected = errors.New("device: LSM6DS3 not detected")

// LSM6DS3 is the accelerometer driver. It satisfies the tracker's Identifier
// handshake and produces raw samples for the tracker's update tick.
type LSM6DS3 struct {
	bus Bus
}

// NewLSM6DS3 wraps an already-open bus. The caller keeps ownership of the
// bus lifetime via Close.
func NewLSM6DS3(bus Bus) *LSM6DS3 {
	return &LSM6DS3{bus: bus}
}

// Identify reads WHO_AM_I and checks for the LSM6DS3 signature. On an
// addressable bus the alternate SA0 address is tried before giving up, since
// the strap pin differs between board revisions.
func (d *LSM6DS3) Identify() bool {
	if d.probe() {
		return true
	}
	if a, ok := d.bus.(Addressable); ok {
		a.SetAddr(AddrSA0High)
		if d.probe() {
			return true
		}
		a.SetAddr(AddrSA0Low)
	}
	return false
}

func (d *LSM6DS3) probe() bool {
	who, err := d.bus.ReadReg(regWhoAmI)
	return err == nil && who == whoAmIValue
}

// Detect is Identify with an error for callers that log.
func (d *LSM6DS3) Detect() error {
	if d.Identify() {
		return nil
	}
	return ErrNotDetected
}

// Configure sets up the control registers: block data update plus register
// auto-increment, accelerometer at 104 Hz ±2g, gyro at 104 Hz (configured
// but never read; the tracker is accelerometer-only).
func (d *LSM6DS3) Configure() error {
	setup := []struct {
		reg, value byte
	}{
		{regCtrl3C, 0x44},  // BDU | IF_INC
		{regCtrl1XL, 0x40}, // ODR_XL = 104 Hz, FS_XL = ±2g
		{regCtrl2G, 0x40},  // ODR_G = 104 Hz, FS_G = ±245 dps
	}
	for _, s := range setup {
		if err := d.bus.WriteReg(s.reg, s.value); err != nil {
			return fmt.Errorf("write ctrl 0x%02X: %w", s.reg, err)
		}
	}
	return nil
}

// ReadSample burst-reads the six accelerometer output registers into a raw
// sample. The output pairs are little-endian int16, low byte first.
func (d *LSM6DS3) ReadSample() (tracker.RawSample, error) {
	var raw [6]byte
	if err := d.bus.ReadRegs(regOutXLXL, raw[:]); err != nil {
		return tracker.RawSample{}, fmt.Errorf("read accel output: %w", err)
	}
	return tracker.RawSample{
		X: int16(binary.LittleEndian.Uint16(raw[0:2])),
		Y: int16(binary.LittleEndian.Uint16(raw[2:4])),
		Z: int16(binary.LittleEndian.Uint16(raw[4:6])),
	}, nil
}

// DataReady reports whether a fresh accelerometer sample is pending.
func (d *LSM6DS3) DataReady() (bool, error) {
	status, err := d.bus.ReadReg(regStatus)
	if err != nil {
		return false, fmt.Errorf("read status: %w", err)
	}
	return status&statusXLDA != 0, nil
}

// Close releases the underlying bus.
func (d *LSM6DS3) Close() error {
	return d.bus.Close()
}
