package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"steptrack/calories"
	"steptrack/fuelgauge"
	"steptrack/tracker"
)

// sampleSource abstracts the accelerometer for the sampling loop: the real
// LSM6DS3 driver or the simulator.
type sampleSource interface {
	tracker.Identifier
	Configure() error
	ReadSample() (tracker.RawSample, error)
	Close() error
}

// Status is the snapshot broadcast to WebSocket clients and served by the
// status endpoint.
type Status struct {
	Degraded      bool    `json:"degraded"`
	TotalSteps    uint32  `json:"total_steps"`
	StepsLastHour uint16  `json:"steps_last_hour"`
	ActivityLevel string  `json:"activity_level"`
	GoalReached   bool    `json:"goal_reached"`
	Calories      uint32  `json:"calories"`
	BatteryVolts  float64 `json:"battery_volts,omitempty"`
	BatterySOC    float64 `json:"battery_soc,omitempty"`
	UptimeSec     float64 `json:"uptime_sec"`
}

const batteryPollInterval = 30 * time.Second

// engine runs the sampling loop. It is the sole owner of the tracker: all
// updates happen on the run goroutine, and HTTP handlers read the published
// snapshot instead of touching the tracker.
type engine struct {
	log    *slog.Logger
	trk    *tracker.Tracker
	source sampleSource
	gauge  *fuelgauge.MAX17048
	hub    *Hub

	interval time.Duration
	weight   uint16
	height   calories.HeightClass
	ready    bool // false = degraded, skip sensor reads

	mu   sync.Mutex
	last Status
}

func (e *engine) run() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	start := time.Now()
	var (
		prevTotal          uint32
		lastPublish        time.Time
		lastBattery        time.Time
		battVolts, battSOC float64
	)

	for range ticker.C {
		// Monotonic milliseconds since the loop started; the tracker never
		// sees wall-clock time.
		now := uint32(time.Since(start).Milliseconds())

		if e.ready {
			s, err := e.source.ReadSample()
			if err != nil {
				e.log.Warn("sample read failed", "err", err)
				continue
			}
			e.trk.Update(now, s)
		}

		if e.gauge != nil && time.Since(lastBattery) >= batteryPollInterval {
			lastBattery = time.Now()
			if v, err := e.gauge.Voltage(); err == nil {
				battVolts = v
			} else {
				e.log.Debug("battery voltage read failed", "err", err)
			}
			if soc, err := e.gauge.StateOfCharge(); err == nil {
				battSOC = soc
			}
		}

		total := e.trk.TotalSteps()
		stepped := total != prevTotal
		prevTotal = total
		if stepped {
			e.log.Debug("step",
				"total", total,
				"last_hour", e.trk.StepsLastHour(),
				"residual_g", e.trk.LastResidual(),
			)
		}

		// Publish on every accepted step, and at 1 Hz regardless so the
		// uptime and battery fields keep moving.
		if stepped || time.Since(lastPublish) >= time.Second {
			lastPublish = time.Now()
			e.publish(Status{
				Degraded:      !e.ready,
				TotalSteps:    total,
				StepsLastHour: e.trk.StepsLastHour(),
				ActivityLevel: e.trk.ActivityLevel().String(),
				GoalReached:   e.trk.GoalReached(),
				Calories:      calories.FromSteps(total, e.weight, e.height),
				BatteryVolts:  battVolts,
				BatterySOC:    battSOC,
				UptimeSec:     time.Since(start).Seconds(),
			})
		}
	}
}

func (e *engine) publish(st Status) {
	e.mu.Lock()
	e.last = st
	e.mu.Unlock()

	data, err := json.Marshal(st)
	if err != nil {
		e.log.Error("marshal status", "err", err)
		return
	}
	e.hub.Broadcast(data)
}

func (e *engine) snapshot() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *engine) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(e.snapshot()); err != nil {
		e.log.Debug("write status", "err", err)
	}
}
