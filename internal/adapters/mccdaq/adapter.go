// Package mccdaq adapts Measurement Computing boards (Universal Library
// family, numeric board index) to the uniform device contract. Raw 16-bit
// counts are scaled to volts here; UL status codes never leave this package.
package mccdaq

import (
	"fmt"
	"sync"
	"time"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

type Adapter struct {
	lib       Library
	id        domain.BoardID
	boardName string
	rng       Range

	mu         sync.Mutex
	set        domain.ChannelSet
	configured bool
	portOutput bool
	maxAI      int
	maxLines   int
}

// Open resolves a board index against the driver registry and queries its
// capability bounds. An unknown index fails with domain.ErrDeviceNotFound.
func Open(lib Library, id domain.BoardID, rng Range) (*Adapter, error) {
	name, err := lib.BoardName(id.Index())
	if err != nil {
		return nil, fmt.Errorf("%w: board %d: %v", domain.ErrDeviceNotFound, id.Index(), err)
	}
	maxAI, err := lib.AnalogInputCount(id.Index())
	if err != nil {
		return nil, fmt.Errorf("%w: query analog inputs: %v", domain.ErrDeviceIO, err)
	}
	maxLines, err := lib.DigitalLineCount(id.Index())
	if err != nil {
		return nil, fmt.Errorf("%w: query digital lines: %v", domain.ErrDeviceIO, err)
	}
	return &Adapter{
		lib:       lib,
		id:        id,
		boardName: name,
		rng:       rng,
		maxAI:     maxAI,
		maxLines:  maxLines,
	}, nil
}

func (a *Adapter) Board() domain.BoardID { return a.id }

// BoardName reports the registry name the index resolved to.
func (a *Adapter) BoardName() string { return a.boardName }

// Configure validates every channel against the board bounds before any
// hardware access, then sets the digital port direction if the set uses it.
func (a *Adapter) Configure(set domain.ChannelSet) error {
	for _, ch := range set {
		if err := a.checkBounds(ch); err != nil {
			return err
		}
	}

	var wantOut, wantIn bool
	for _, ch := range set {
		switch ch.Kind {
		case domain.DigitalOut:
			wantOut = true
		case domain.DigitalIn:
			wantIn = true
		}
	}
	if wantOut || wantIn {
		if err := a.lib.DConfigPort(a.id.Index(), wantOut); err != nil {
			return fmt.Errorf("%w: configure digital port: %v", domain.ErrDeviceIO, err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.set = append(domain.ChannelSet(nil), set...)
	a.configured = true
	a.portOutput = wantOut
	return nil
}

func (a *Adapter) checkBounds(ch domain.Channel) error {
	switch ch.Kind {
	case domain.Analog:
		if ch.Index < 0 || ch.Index >= a.maxAI {
			return fmt.Errorf("%w: analog channel %d not in [0,%d] on %s",
				domain.ErrInvalidChannel, ch.Index, a.maxAI-1, a.boardName)
		}
	case domain.DigitalIn, domain.DigitalOut:
		if ch.Index < 0 || ch.Index >= a.maxLines {
			return fmt.Errorf("%w: digital line %d not in [0,%d] on %s",
				domain.ErrInvalidChannel, ch.Index, a.maxLines-1, a.boardName)
		}
	default:
		return fmt.Errorf("%w: channel %d has unknown kind", domain.ErrInvalidChannel, ch.Index)
	}
	return nil
}

// Read samples every readable configured channel once, in configured order.
// The timestamp is taken immediately before the first driver call.
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
			counts, err := a.lib.AIn(a.id.Index(), ch.Index, a.rng)
			if err != nil {
				return nil, fmt.Errorf("%w: a_in ch%d: %v", domain.ErrDeviceIO, ch.Index, err)
			}
			readings = append(readings, domain.Reading{Channel: ch, Value: a.toEngUnits(counts)})
		case domain.DigitalIn:
			level, err := a.lib.DBitIn(a.id.Index(), ch.Index)
			if err != nil {
				return nil, fmt.Errorf("%w: d_bit_in line%d: %v", domain.ErrDeviceIO, ch.Index, err)
			}
			readings = append(readings, domain.Reading{Channel: ch, Value: boolVal(level)})
		}
	}

	return domain.NewSampleBatch(ts, readings), nil
}

// toEngUnits converts raw counts to volts over the configured bipolar range.
func (a *Adapter) toEngUnits(counts uint16) float64 {
	span := a.rng.Max - a.rng.Min
	return a.rng.Min + span*float64(counts)/65535
}

// WriteDigital drives one line of the first digital port. The port is
// switched to output on first use if Configure did not already do so.
func (a *Adapter) WriteDigital(line int, level bool) error {
	if line < 0 || line >= a.maxLines {
		return fmt.Errorf("%w: digital line %d not in [0,%d] on %s",
			domain.ErrInvalidChannel, line, a.maxLines-1, a.boardName)
	}

	a.mu.Lock()
	needConfig := !a.portOutput
	a.mu.Unlock()

	if needConfig {
		if err := a.lib.DConfigPort(a.id.Index(), true); err != nil {
			return fmt.Errorf("%w: configure digital port: %v", domain.ErrDeviceIO, err)
		}
		a.mu.Lock()
		a.portOutput = true
		a.mu.Unlock()
	}

	if err := a.lib.DBitOut(a.id.Index(), line, level); err != nil {
		return fmt.Errorf("%w: d_bit_out line%d: %v", domain.ErrDeviceIO, line, err)
	}
	return nil
}

func (a *Adapter) Close() error { return nil }

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var _ ports.Device = (*Adapter)(nil)
