// Package nidaq adapts NI-DAQmx devices (string device names, physical
// channel paths) to the uniform device contract. DAQmx reads return volts
// natively; status codes are translated here and never leak upward.
package nidaq

import (
	"fmt"
	"sync"
	"time"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

type Adapter struct {
	api API
	id  domain.BoardID

	mu         sync.Mutex
	set        domain.ChannelSet
	configured bool
	maxAI      int
	maxLines   int
}

// Open resolves a device name against the driver configuration and queries
// its capability bounds. An unknown name fails with domain.ErrDeviceNotFound.
func Open(api API, id domain.BoardID) (*Adapter, error) {
	if err := api.SelfTest(id.Name()); err != nil {
		return nil, fmt.Errorf("%w: device %q: %v", domain.ErrDeviceNotFound, id.Name(), err)
	}
	maxAI, err := api.AnalogInputCount(id.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: query analog inputs: %v", domain.ErrDeviceIO, err)
	}
	maxLines, err := api.DigitalLineCount(id.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: query digital lines: %v", domain.ErrDeviceIO, err)
	}
	return &Adapter{api: api, id: id, maxAI: maxAI, maxLines: maxLines}, nil
}

func (a *Adapter) Board() domain.BoardID { return a.id }

// Configure validates every channel against the device bounds. No task is
// created here; DAQmx tasks are per-read and torn down by the driver.
func (a *Adapter) Configure(set domain.ChannelSet) error {
	for _, ch := range set {
		if err := a.checkBounds(ch); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.set = append(domain.ChannelSet(nil), set...)
	a.configured = true
	return nil
}

func (a *Adapter) checkBounds(ch domain.Channel) error {
	switch ch.Kind {
	case domain.Analog:
		if ch.Index < 0 || ch.Index >= a.maxAI {
			return fmt.Errorf("%w: analog channel %d not in [0,%d] on %s",
				domain.ErrInvalidChannel, ch.Index, a.maxAI-1, a.id.Name())
		}
	case domain.DigitalIn, domain.DigitalOut:
		if ch.Index < 0 || ch.Index >= a.maxLines {
			return fmt.Errorf("%w: digital line %d not in [0,%d] on %s",
				domain.ErrInvalidChannel, ch.Index, a.maxLines-1, a.id.Name())
		}
	default:
		return fmt.Errorf("%w: channel %d has unknown kind", domain.ErrInvalidChannel, ch.Index)
	}
	return nil
}

// Read samples every readable configured channel once, in configured order.
func (a *Adapter) Read() (*domain.SampleBatch, error) {
	a.mu.Lock()
	configured := a.configured
	set := a.set
	a.mu.Unlock()

	if !configured {
		return nil, fmt.Errorf("%w: read before configure on %s", domain.ErrDeviceNotReady, a.id)
	}

	readable := set.Readable()
	readings := make([]domain.Reading, 0, len(readable))
	ts := time.Now()

	for _, ch := range readable {
		switch ch.Kind {
		case domain.Analog:
			volts, err := a.api.ReadAnalog(a.analogPath(ch.Index))
			if err != nil {
				return nil, fmt.Errorf("%w: read %s: %v", domain.ErrDeviceIO, a.analogPath(ch.Index), err)
			}
			readings = append(readings, domain.Reading{Channel: ch, Value: volts})
		case domain.DigitalIn:
			level, err := a.api.ReadDigital(a.digitalPath(ch.Index))
			if err != nil {
				return nil, fmt.Errorf("%w: read %s: %v", domain.ErrDeviceIO, a.digitalPath(ch.Index), err)
			}
			readings = append(readings, domain.Reading{Channel: ch, Value: boolVal(level)})
		}
	}

	return domain.NewSampleBatch(ts, readings), nil
}

// WriteDigital drives one line of port0.
func (a *Adapter) WriteDigital(line int, level bool) error {
	if line < 0 || line >= a.maxLines {
		return fmt.Errorf("%w: digital line %d not in [0,%d] on %s",
			domain.ErrInvalidChannel, line, a.maxLines-1, a.id.Name())
	}
	if err := a.api.WriteDigital(a.digitalPath(line), level); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrDeviceIO, a.digitalPath(line), err)
	}
	return nil
}

func (a *Adapter) Close() error { return nil }

func (a *Adapter) analogPath(channel int) string {
	return fmt.Sprintf("%s/ai%d", a.id.Name(), channel)
}

func (a *Adapter) digitalPath(line int) string {
	return fmt.Sprintf("%s/port0/line%d", a.id.Name(), line)
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var _ ports.Device = (*Adapter)(nil)
