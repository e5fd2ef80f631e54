// Package pipeline orchestrates one acquisition cycle: device read with
// bounded retry, then persistence. Every error is converted to an Outcome at
// this boundary; nothing propagates to the scheduler.
package pipeline

import (
	"context"
	"time"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

// Outcome is the result of one cycle: a persisted batch, or a classified
// failure that has already been reported.
type Outcome struct {
	Batch *domain.SampleBatch
	Err   error
	Kind  string
}

func (o Outcome) Failed() bool { return o.Err != nil }

type Pipeline struct {
	dev     ports.Device
	rec     ports.Recorder
	archive ports.Recorder
	pol     ports.Policy
	obs     ports.Observability
}

func New(dev ports.Device, rec ports.Recorder, pol ports.Policy, obs ports.Observability) *Pipeline {
	return &Pipeline{dev: dev, rec: rec, pol: pol, obs: obs}
}

// AttachArchive adds the optional secondary sink. Archive failures are
// reported but do not fail the cycle; the partition file is the system of
// record.
func (p *Pipeline) AttachArchive(r ports.Recorder) {
	p.archive = r
}

// RunCycle performs one acquisition synchronously. Transient device I/O
// failures are retried up to the policy bound with a fixed backoff;
// configuration and sequencing errors fail immediately.
func (p *Pipeline) RunCycle(ctx context.Context) Outcome {
	start := time.Now()
	p.obs.IncCounter("daq_cycles_total", 1)

	batch, err := p.readWithRetry(ctx)
	if err != nil {
		return p.fail(err)
	}
	p.obs.ObserveLatency("daq_read_latency_seconds", time.Since(start).Seconds())

	if err := p.rec.Append(batch); err != nil {
		return p.fail(err)
	}

	if p.archive != nil {
		if err := p.archive.Append(batch); err != nil {
			p.obs.LogError("archive_append_failed", err,
				ports.Field{Key: "batch", Value: batch.ID.String()})
		}
	}

	p.obs.IncCounter("daq_records_appended_total", 1)
	p.obs.SetGauge("daq_last_batch_readings", float64(len(batch.Readings)))
	p.obs.ObserveLatency("daq_cycle_duration_seconds", time.Since(start).Seconds())
	return Outcome{Batch: batch}
}

func (p *Pipeline) readWithRetry(ctx context.Context) (*domain.SampleBatch, error) {
	for attempt := 0; ; attempt++ {
		batch, err := p.dev.Read()
		if err == nil {
			return batch, nil
		}
		if !domain.Transient(err) || attempt >= p.pol.MaxReadRetries {
			return nil, err
		}

		p.obs.IncCounter("daq_read_retries_total", 1)
		p.obs.LogError("device_read_retry", err,
			ports.Field{Key: "attempt", Value: attempt + 1},
			ports.Field{Key: "board", Value: p.dev.Board().String()})

		// The cycle is never preempted, so this short sleep is unconditional.
		time.Sleep(p.pol.ReadBackoff)

		if ctx.Err() != nil {
			return nil, err
		}
	}
}

func (p *Pipeline) fail(err error) Outcome {
	kind := domain.ErrorKind(err)
	p.obs.RecordCycleFailure(kind, err)
	return Outcome{Err: err, Kind: kind}
}
