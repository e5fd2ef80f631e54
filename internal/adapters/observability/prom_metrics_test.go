package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromObsMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	obs := NewPromObs()

	obs.IncCounter("daq_cycles_total", 3)
	if got := testutil.ToFloat64(obs.counters["daq_cycles_total"]); got != 3 {
		t.Fatalf("expected cycle counter 3, got %f", got)
	}

	obs.IncCounter("daq_read_retries_total", 2)
	if got := testutil.ToFloat64(obs.counters["daq_read_retries_total"]); got != 2 {
		t.Fatalf("expected retry counter 2, got %f", got)
	}

	obs.SetGauge("daq_last_batch_readings", 8)
	if got := testutil.ToFloat64(obs.gauges["daq_last_batch_readings"]); got != 8 {
		t.Fatalf("expected batch gauge 8, got %f", got)
	}

	obs.ObserveLatency("daq_read_latency_seconds", 0.02)
	hCollector := obs.histos["daq_read_latency_seconds"].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	obs.RecordCycleFailure("device_io", errors.New("timeout"))
	obs.RecordCycleFailure("device_io", errors.New("timeout"))
	obs.RecordCycleFailure("persistence", errors.New("disk full"))
	if got := testutil.ToFloat64(obs.failures.WithLabelValues("device_io")); got != 2 {
		t.Fatalf("expected 2 device_io failures, got %f", got)
	}
	if got := testutil.ToFloat64(obs.failures.WithLabelValues("persistence")); got != 1 {
		t.Fatalf("expected 1 persistence failure, got %f", got)
	}

	// unknown names are ignored rather than panicking mid-cycle
	obs.IncCounter("daq_unknown_total", 1)
	obs.SetGauge("daq_unknown", 1)
	obs.ObserveLatency("daq_unknown_seconds", 1)
}
