// Package tracker implements the motion-signal processing and step-history
// engine for the wrist tracker: conversion of raw accelerometer samples into
// a gravity-compensated magnitude signal, edge-triggered step detection with
// a refractory period, and an exact trailing-hour step count kept in
// one-minute buckets.
//
// A Tracker is owned by a single caller; it does no I/O, no logging and no
// locking. Timestamps are monotonic milliseconds supplied by the caller.
package tracker

import (
	"fmt"
	"math"
)

// Firmware defaults for the LSM6DS3TR-C at ±2g full scale.
const (
	DefaultScaleG          = 0.000061 // 0.061 mg/LSB
	DefaultBaselineAlpha   = 0.01
	DefaultThresholdG      = 0.35
	DefaultMinStepInterval = 350 // ms
	DefaultHourlyGoal      = 250
)

// RawSample is one 3-axis accelerometer reading in sensor LSBs.
type RawSample struct {
	X, Y, Z int16
}

// Config holds the tunable step-detection parameters.
type Config struct {
	ScaleG          float64 // g per LSB of the raw sample
	BaselineAlpha   float64 // smoothing coefficient of the magnitude baseline, in (0, 1]
	ThresholdG      float64 // high-pass magnitude above this is a step candidate
	MinStepInterval uint32  // ms that must elapse between two accepted steps
	HourlyGoal      uint16  // steps per trailing hour considered "goal reached"
}

// DefaultConfig returns the firmware defaults.
func DefaultConfig() Config {
	return Config{
		ScaleG:          DefaultScaleG,
		BaselineAlpha:   DefaultBaselineAlpha,
		ThresholdG:      DefaultThresholdG,
		MinStepInterval: DefaultMinStepInterval,
		HourlyGoal:      DefaultHourlyGoal,
	}
}

func (c Config) validate() error {
	switch {
	case !(c.ScaleG > 0):
		return fmt.Errorf("tracker: scale must be positive, got %g", c.ScaleG)
	case !(c.BaselineAlpha > 0) || c.BaselineAlpha > 1:
		return fmt.Errorf("tracker: baseline alpha must be in (0, 1], got %g", c.BaselineAlpha)
	case !(c.ThresholdG > 0):
		return fmt.Errorf("tracker: step threshold must be positive, got %g", c.ThresholdG)
	case c.MinStepInterval == 0:
		return fmt.Errorf("tracker: min step interval must be positive")
	case c.HourlyGoal == 0:
		return fmt.Errorf("tracker: hourly goal must be positive")
	}
	return nil
}

// Identifier is the sensor-identity handshake run once per Init. The device
// driver satisfies it; tests and the simulator provide their own.
type Identifier interface {
	Identify() bool
}

// IdentifierFunc adapts a plain function to the Identifier interface.
type IdentifierFunc func() bool

// Identify calls f.
func (f IdentifierFunc) Identify() bool { return f() }

type mode uint8

const (
	modeUninitialized mode = iota
	modeInitialized
	modeDegraded
)

// Tracker holds all per-instance state. Independent trackers share nothing.
type Tracker struct {
	cfg  Config
	mode mode

	rawX, rawY, rawZ    int16
	condX, condY, condZ float64

	baselineSeeded bool
	baseline       float64 // low-pass of |a|, tracks the ~1 g gravity offset
	residual       float64 // |a| - baseline

	stepped    bool // at least one step accepted since Init
	lastStepMS uint32
	totalSteps uint32

	window hourWindow
}

// New returns a zeroed tracker in the uninitialized state. Updates have no
// effect until Init succeeds.
func New(cfg Config) (*Tracker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tracker{cfg: cfg}, nil
}

// Init resets all state and runs the sensor-identity handshake. It returns
// true when the tracker entered the running state. On false the tracker is
// degraded: every Update is a no-op and every query reports its zero value
// until a later Init succeeds.
func (t *Tracker) Init(id Identifier) bool {
	t.reset()
	if id == nil || !id.Identify() {
		t.mode = modeDegraded
		return false
	}
	t.mode = modeInitialized
	return true
}

func (t *Tracker) reset() {
	t.mode = modeUninitialized
	t.rawX, t.rawY, t.rawZ = 0, 0, 0
	t.condX, t.condY, t.condZ = 0, 0, 0
	t.baselineSeeded = false
	t.baseline = 0
	t.residual = 0
	t.stepped = false
	t.lastStepMS = 0
	t.totalSteps = 0
	t.window.reset()
}

// Update advances all state by one tick. now is monotonic milliseconds; the
// caller must not run two Updates concurrently on the same tracker.
func (t *Tracker) Update(now uint32, s RawSample) {
	if t.mode != modeInitialized {
		return
	}

	// 1. Rotate the minute buckets up to now.
	t.window.advance(now)

	// 2. Store the raw reading and convert to g.
	t.rawX, t.rawY, t.rawZ = s.X, s.Y, s.Z
	x := float64(s.X) * t.cfg.ScaleG
	y := float64(s.Y) * t.cfg.ScaleG
	z := float64(s.Z) * t.cfg.ScaleG
	t.condX, t.condY, t.condZ = x, y, z

	// 3. Magnitude, baseline and high-pass residual. The first sample seeds
	// the baseline exactly, so there is no warm-up transient.
	mag := math.Sqrt(x*x + y*y + z*z)
	if !t.baselineSeeded {
		t.baseline = mag
		t.baselineSeeded = true
	} else {
		t.baseline += t.cfg.BaselineAlpha * (mag - t.baseline)
	}
	t.residual = mag - t.baseline

	// 4. Threshold + refractory gate.
	if t.residual > t.cfg.ThresholdG && t.refractoryElapsed(now) {
		t.stepped = true
		t.lastStepMS = now
		t.totalSteps++
		t.window.addStep()
	}
}

// refractoryElapsed reports whether enough time has passed since the last
// accepted step. A clock that did not move forward never accepts a step, so
// the unsigned subtraction cannot underflow.
func (t *Tracker) refractoryElapsed(now uint32) bool {
	if !t.stepped {
		return true
	}
	if now <= t.lastStepMS {
		return false
	}
	return now-t.lastStepMS > t.cfg.MinStepInterval
}

// TotalSteps returns the lifetime step count since the last successful Init.
func (t *Tracker) TotalSteps() uint32 { return t.totalSteps }

// StepsLastHour returns the step count of the trailing 60 minutes, saturating
// at 0xFFFF.
func (t *Tracker) StepsLastHour() uint16 { return t.window.total() }

// GoalReached reports whether the trailing-hour count meets the hourly goal.
func (t *Tracker) GoalReached() bool { return t.StepsLastHour() >= t.cfg.HourlyGoal }

// ActivityLevel classifies the trailing-hour count on the 0..3 scale.
func (t *Tracker) ActivityLevel() Level { return classify(t.StepsLastHour(), t.cfg.HourlyGoal) }

// LastRawSample returns the most recent raw reading in sensor LSBs.
func (t *Tracker) LastRawSample() (x, y, z int16) { return t.rawX, t.rawY, t.rawZ }

// LastConditionedSample returns the most recent reading converted to g.
func (t *Tracker) LastConditionedSample() (x, y, z float64) { return t.condX, t.condY, t.condZ }

// LastResidual returns the most recent high-pass magnitude in g.
func (t *Tracker) LastResidual() float64 { return t.residual }
