package observability

import (
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
	failures *prometheus.CounterVec
}

func NewPromObs() *PromObs {
	cycles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daq_cycles_total",
		Help: "Acquisition cycles attempted.",
	})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daq_records_appended_total",
		Help: "Records appended to the active partition file.",
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daq_read_retries_total",
		Help: "Device reads retried after a transient I/O failure.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daq_cycle_failures_total",
		Help: "Failed acquisition cycles by error kind.",
	}, []string{"kind"})
	batchSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daq_last_batch_readings",
		Help: "Readings in the most recent batch.",
	})
	nextTrigger := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daq_next_trigger_seconds",
		Help: "Seconds until the next aligned trigger.",
	})
	readLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "daq_read_latency_seconds",
		Help:    "Device read latency including retries.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	cycleLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "daq_cycle_duration_seconds",
		Help:    "Full cycle duration from trigger to persisted record.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	prometheus.MustRegister(cycles, records, retries, failures, batchSize, nextTrigger, readLatency, cycleLatency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"daq_cycles_total":           cycles,
			"daq_records_appended_total": records,
			"daq_read_retries_total":     retries,
		},
		gauges: map[string]prometheus.Gauge{
			"daq_last_batch_readings":  batchSize,
			"daq_next_trigger_seconds": nextTrigger,
		},
		histos: map[string]prometheus.Observer{
			"daq_read_latency_seconds":   readLatency,
			"daq_cycle_duration_seconds": cycleLatency,
		},
		failures: failures,
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	log.Printf("INFO: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordCycleFailure(kind string, err error) {
	p.failures.WithLabelValues(kind).Inc()
	log.Printf("ERROR: cycle failed kind=%s err=%v", kind, err)
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
