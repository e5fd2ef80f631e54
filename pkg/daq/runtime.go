package daq

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/adapters/archive"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/adapters/mccdaq"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/adapters/nidaq"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/adapters/observability"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/adapters/recorder"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/app/pipeline"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/app/schedule"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/app/valve"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

// RuntimeOption customizes the dependencies wired by NewRuntime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	device        ports.Device
	digitalDevice ports.Device
	recorder      ports.Recorder
	archive       ports.Recorder
	observability ports.Observability
	mccLibrary    mccdaq.Library
	nidaqAPI      nidaq.API
}

// WithDevice injects a pre-opened acquisition device, bypassing vendor
// dispatch.
func WithDevice(d ports.Device) RuntimeOption {
	return func(o *runtimeOverrides) { o.device = d }
}

// WithDigitalDevice injects the device used for the valve write path when it
// differs from the acquisition device.
func WithDigitalDevice(d ports.Device) RuntimeOption {
	return func(o *runtimeOverrides) { o.digitalDevice = d }
}

// WithRecorder replaces the month-partitioned file writer.
func WithRecorder(r ports.Recorder) RuntimeOption {
	return func(o *runtimeOverrides) { o.recorder = r }
}

// WithArchive replaces the SQL archive sink.
func WithArchive(r ports.Recorder) RuntimeOption {
	return func(o *runtimeOverrides) { o.archive = r }
}

// WithObservability plugs in a custom metrics/logging backend.
func WithObservability(obs ports.Observability) RuntimeOption {
	return func(o *runtimeOverrides) { o.observability = obs }
}

// WithMCCLibrary binds the Measurement Computing Universal Library call
// surface (a cgo binding in production; the simulator otherwise).
func WithMCCLibrary(lib mccdaq.Library) RuntimeOption {
	return func(o *runtimeOverrides) { o.mccLibrary = lib }
}

// WithNIDAQmx binds the NI-DAQmx call surface.
func WithNIDAQmx(api nidaq.API) RuntimeOption {
	return func(o *runtimeOverrides) { o.nidaqAPI = api }
}

// Runtime wires device → scheduler → pipeline → partition writer and exposes
// lifecycle hooks for embedding the acquisition loop in any Go service.
type Runtime struct {
	cfg        *Config
	obs        ports.Observability
	device     ports.Device
	digital    ports.Device
	recorder   ports.Recorder
	pipe       *pipeline.Pipeline
	sched      *schedule.Scheduler
	valves     *valve.Controller
	archiveDB  *sql.DB
	metricsSrv *http.Server
	done       chan struct{}
}

// NewRuntime resolves boards by identifier shape (numeric index → MCC,
// device name → NI-DAQmx), validates the channel set against the board
// before any acquisition, and assembles the default adapters. Options
// override any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	set, err := cfg.ChannelSet()
	if err != nil {
		return nil, err
	}

	dev := overrides.device
	if dev == nil {
		dev, err = openDevice(cfg, cfg.AnalogBoard(), overrides, obs)
		if err != nil {
			obs.LogCritical("device_open_failed", err,
				ports.Field{Key: "board", Value: cfg.Boards.Analog})
			return nil, err
		}
	}
	if err := dev.Configure(set); err != nil {
		return nil, err
	}

	digital := overrides.digitalDevice
	if digital == nil {
		if cfg.Boards.Digital == cfg.Boards.Analog {
			digital = dev
		} else {
			digital, err = openDevice(cfg, cfg.DigitalBoard(), overrides, obs)
			if err != nil {
				obs.LogCritical("device_open_failed", err,
					ports.Field{Key: "board", Value: cfg.Boards.Digital})
				return nil, err
			}
		}
	}

	rec := overrides.recorder
	if rec == nil {
		rec = recorder.NewPartitionWriter(cfg.Schedule.SaveRoot, cfg.OperatorInitials)
	}

	pipe := pipeline.New(dev, rec, cfg.Retry, obs)

	var archiveDB *sql.DB
	switch {
	case overrides.archive != nil:
		pipe.AttachArchive(overrides.archive)
	case cfg.Archive.Enabled:
		archiveDB, err = sql.Open(cfg.Archive.Driver, cfg.Archive.DSN)
		if err != nil {
			return nil, fmt.Errorf("open archive db: %w", err)
		}
		if err := ensureArchiveTable(archiveDB, cfg.Archive.Table); err != nil {
			archiveDB.Close()
			return nil, err
		}
		pipe.AttachArchive(archive.New(archiveDB, cfg.Archive.Driver, cfg.Archive.Table))
	}

	rt := &Runtime{
		cfg:       cfg,
		obs:       obs,
		device:    dev,
		digital:   digital,
		recorder:  rec,
		pipe:      pipe,
		archiveDB: archiveDB,
	}
	rt.sched = schedule.NewScheduler(cfg.Interval(), func(ctx context.Context) {
		rt.pipe.RunCycle(ctx)
	}, obs)

	if cfg.Valves.Enabled {
		vc, err := valve.NewController(digital, cfg.Valves.LineA, cfg.Valves.LineB)
		if err != nil {
			return nil, err
		}
		rt.valves = vc
	}

	return rt, nil
}

// openDevice dispatches on the identifier's vendor. When the board cannot be
// resolved and simulation is enabled, it falls back to the built-in
// simulated board instead of failing startup.
func openDevice(cfg *Config, id domain.BoardID, overrides runtimeOverrides, obs ports.Observability) (ports.Device, error) {
	switch id.Vendor() {
	case domain.VendorMCC:
		lib := overrides.mccLibrary
		if lib == nil {
			lib = mccdaq.NewSimulator()
		}
		dev, err := mccdaq.Open(lib, id, mccdaq.Bip10Volts)
		if err != nil && cfg.Simulate && errors.Is(err, domain.ErrDeviceNotFound) {
			obs.LogError("board_missing_simulating", err, ports.Field{Key: "board", Value: id.String()})
			return mccdaq.Open(mccdaq.NewSimulator(), domain.MCCBoard(0), mccdaq.Bip10Volts)
		}
		return dev, err
	case domain.VendorNIDAQ:
		api := overrides.nidaqAPI
		if api == nil {
			api = nidaq.NewSimulator()
		}
		dev, err := nidaq.Open(api, id)
		if err != nil && cfg.Simulate && errors.Is(err, domain.ErrDeviceNotFound) {
			obs.LogError("board_missing_simulating", err, ports.Field{Key: "board", Value: id.String()})
			return nidaq.Open(nidaq.NewSimulator(), domain.NIDevice("Dev1"))
		}
		return dev, err
	default:
		return nil, fmt.Errorf("%w: unsupported board %s", domain.ErrInvalidConfiguration, id)
	}
}

func ensureArchiveTable(db *sql.DB, table string) error {
	_, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			batch_id TEXT NOT NULL,
			ts TIMESTAMP NOT NULL,
			channel INTEGER NOT NULL,
			kind TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL
		)`, table))
	if err != nil {
		return fmt.Errorf("create archive table: %w", err)
	}
	return nil
}

// Start applies the initial valve position, launches the metrics server, and
// begins the scheduler loop. It returns immediately; call Run to block.
func (r *Runtime) Start(ctx context.Context) error {
	if r.valves != nil && r.cfg.Valves.InitialPosition != "" {
		if err := r.valves.Set(r.cfg.Valves.InitialPosition); err != nil {
			return err
		}
	}

	r.startMetrics()

	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		_ = r.sched.Run(ctx)
	}()
	return nil
}

// Run starts the runtime and blocks until ctx is cancelled, then shuts down
// gracefully. An in-flight cycle completes before shutdown proceeds.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	<-r.done

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown closes the metrics server, devices, writer, and archive.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if c, ok := r.recorder.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.digital != nil && r.digital != r.device {
		if err := r.digital.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.device != nil {
		if err := r.device.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.archiveDB != nil {
		if err := r.archiveDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Valves returns the valve controller, or nil when valves are disabled.
func (r *Runtime) Valves() *valve.Controller { return r.valves }

// SchedulerState reports the acquisition loop's current state.
func (r *Runtime) SchedulerState() schedule.State { return r.sched.State() }

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}
