// Wearable step tracker daemon.
//
// Responsibilities:
//   - sample the LSM6DS3TR-C accelerometer over I2C or SPI at a fixed cadence
//   - run the step engine: magnitude conditioning, step detection,
//     trailing-hour window, activity classification
//   - poll the MAX17048 fuel gauge for battery state
//   - WebSocket /ws → broadcast Status snapshots to dashboard clients
//   - HTTP /api/status → current snapshot as JSON
//
// Run with -simulate to use a synthetic gait source instead of hardware.

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"steptrack/device"
	"steptrack/fuelgauge"
	"steptrack/tracker"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	simulate := flag.Bool("simulate", false, "use a synthetic gait source instead of hardware")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := setupLogger(level)

	source, gauge, err := openSensor(cfg, *simulate, logger)
	if err != nil {
		logger.Error("open sensor bus", "err", err)
		os.Exit(1)
	}
	defer source.Close()

	trk, err := tracker.New(cfg.Tracker.trackerConfig())
	if err != nil {
		logger.Error("tracker config", "err", err)
		os.Exit(1)
	}

	ready := trk.Init(source)
	if ready {
		if err := source.Configure(); err != nil {
			logger.Error("sensor configure failed, running degraded", "err", err)
			trk.Init(tracker.IdentifierFunc(func() bool { return false }))
			ready = false
		} else {
			logger.Info("sensor ready", "transport", cfg.Sensor.Transport)
		}
	} else {
		logger.Warn("sensor identification failed, running degraded")
	}

	height, _ := cfg.Profile.heightClass() // validated at load
	hub := newHub(logger)
	eng := &engine{
		log:      logger,
		trk:      trk,
		source:   source,
		gauge:    gauge,
		hub:      hub,
		interval: time.Duration(cfg.Sensor.SampleIntervalMS) * time.Millisecond,
		weight:   cfg.Profile.WeightLbs,
		height:   height,
		ready:    ready,
	}
	go eng.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.handleWS)
	mux.HandleFunc("/api/status", eng.handleStatus)

	logger.Info("http server listening", "addr", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, mux); err != nil {
		logger.Error("http listen", "err", err)
		os.Exit(1)
	}
}

// openSensor composes the sample source per config: the simulator, or the
// LSM6DS3 on the selected bus transport. On I2C it also opens the fuel gauge
// sharing the bus; a missing gauge is not fatal.
func openSensor(cfg Config, simulate bool, logger *slog.Logger) (sampleSource, *fuelgauge.MAX17048, error) {
	if simulate {
		logger.Info("using simulated gait source")
		return newSimSensor(cfg.Tracker.ScaleG), nil, nil
	}

	switch cfg.Sensor.Transport {
	case "spi":
		bus, err := device.OpenSPI(cfg.Sensor.Bus)
		if err != nil {
			return nil, nil, err
		}
		return device.NewLSM6DS3(bus), nil, nil
	default: // "i2c", enforced by config validation
		addr := cfg.Sensor.Address
		if addr == 0 {
			addr = device.AddrSA0Low
		}
		bus, err := device.OpenI2C(cfg.Sensor.Bus, addr)
		if err != nil {
			return nil, nil, err
		}
		var gauge *fuelgauge.MAX17048
		if cfg.Sensor.Battery {
			gbus, err := device.OpenI2C(cfg.Sensor.Bus, fuelgauge.Addr)
			if err != nil {
				logger.Warn("fuel gauge unavailable", "err", err)
			} else {
				gauge = fuelgauge.New(gbus)
			}
		}
		return device.NewLSM6DS3(bus), gauge, nil
	}
}
