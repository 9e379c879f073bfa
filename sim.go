package main

import (
	"math"

	"steptrack/tracker"
)

// Synthetic gait timing, assuming the default ~50 Hz sampling cadence.
const (
	simRate      = 50
	simWalkTicks = 40 * simRate // walk for 40 s...
	simRestTicks = 20 * simRate // ...then rest for 20 s
	simStepEvery = simRate / 2  // one footstrike every 500 ms while walking
)

// simSensor is a deterministic stand-in for the accelerometer: 1 g of
// gravity on Z, a little arm sway on X, and a sharp magnitude transient per
// simulated footstrike. Lets the daemon run without hardware.
type simSensor struct {
	tick    uint64
	lsbPerG float64
}

func newSimSensor(scaleG float64) *simSensor {
	return &simSensor{lsbPerG: 1 / scaleG}
}

func (s *simSensor) Identify() bool { return true }

func (s *simSensor) Configure() error { return nil }

func (s *simSensor) Close() error { return nil }

func (s *simSensor) ReadSample() (tracker.RawSample, error) {
	t := s.tick
	s.tick++

	zg := 1.0
	phase := t % (simWalkTicks + simRestTicks)
	// Phase 0 stays quiet so a cold start seeds the baseline on a resting
	// sample instead of mid-impact.
	if phase != 0 && phase < simWalkTicks && phase%simStepEvery == 0 {
		zg = 1.85 // footstrike impact
	}
	xg := 0.03 * math.Sin(2*math.Pi*float64(t)/simRate)

	return tracker.RawSample{
		X: int16(xg * s.lsbPerG),
		Z: int16(zg * s.lsbPerG),
	}, nil
}
