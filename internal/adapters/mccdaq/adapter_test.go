package mccdaq

import (
	"errors"
	"testing"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
)

func TestOpenUnknownBoardFails(t *testing.T) {
	lib := NewSimulator()
	_, err := Open(lib, domain.MCCBoard(7), Bip10Volts)
	if !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Fatalf("expected device not found, got %v", err)
	}
}

func TestConfigureRejectsOutOfRangeWithoutHardwareAccess(t *testing.T) {
	lib := &countingLibrary{Library: NewSimulator()}
	a, err := Open(lib, domain.MCCBoard(0), Bip10Volts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = a.Configure(domain.ChannelSet{{Index: 99, Kind: domain.Analog}})
	if !errors.Is(err, domain.ErrInvalidChannel) {
		t.Fatalf("expected invalid channel, got %v", err)
	}
	if lib.ains != 0 {
		t.Fatalf("expected no analog reads during configure, got %d", lib.ains)
	}

	// a board supporting lines 0-7 must reject line 8 too
	err = a.Configure(domain.ChannelSet{{Index: 8, Kind: domain.DigitalIn}})
	if !errors.Is(err, domain.ErrInvalidChannel) {
		t.Fatalf("expected invalid digital line, got %v", err)
	}
}

func TestReadBeforeConfigureFails(t *testing.T) {
	a, err := Open(NewSimulator(), domain.MCCBoard(0), Bip10Volts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = a.Read()
	if !errors.Is(err, domain.ErrDeviceNotReady) {
		t.Fatalf("expected device not ready, got %v", err)
	}
}

func TestReadPreservesChannelOrderAndLength(t *testing.T) {
	a, err := Open(NewSimulator(), domain.MCCBoard(0), Bip10Volts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	set := domain.ChannelSet{
		{Index: 0, Kind: domain.Analog},
		{Index: 1, Kind: domain.Analog},
		{Index: 3, Kind: domain.DigitalIn},
		{Index: 2, Kind: domain.DigitalOut}, // write path only, excluded from reads
	}
	if err := a.Configure(set); err != nil {
		t.Fatalf("configure: %v", err)
	}

	batch, err := a.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if batch.Timestamp.IsZero() {
		t.Fatalf("expected batch timestamp to be set")
	}
	if len(batch.Readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(batch.Readings))
	}
	for i, want := range []int{0, 1, 3} {
		if batch.Readings[i].Channel.Index != want {
			t.Fatalf("reading %d: expected channel %d, got %d", i, want, batch.Readings[i].Channel.Index)
		}
	}
}

func TestToEngUnitsScaling(t *testing.T) {
	a := &Adapter{rng: Bip10Volts}

	if v := a.toEngUnits(0); v != -10 {
		t.Fatalf("expected -10V at zero counts, got %f", v)
	}
	if v := a.toEngUnits(65535); v != 10 {
		t.Fatalf("expected +10V at full scale, got %f", v)
	}
	mid := a.toEngUnits(32768)
	if mid < -0.01 || mid > 0.01 {
		t.Fatalf("expected ~0V at mid scale, got %f", mid)
	}
}

func TestWriteDigitalLatchesLine(t *testing.T) {
	sim := NewSimulator()
	a, err := Open(sim, domain.MCCBoard(0), Bip10Volts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := a.WriteDigital(2, true); err != nil {
		t.Fatalf("write digital: %v", err)
	}
	level, err := sim.DBitIn(0, 2)
	if err != nil {
		t.Fatalf("bit in: %v", err)
	}
	if !level {
		t.Fatalf("expected line 2 high after write")
	}

	if err := a.WriteDigital(99, true); !errors.Is(err, domain.ErrInvalidChannel) {
		t.Fatalf("expected invalid channel for line 99, got %v", err)
	}
}

func TestReadTranslatesIOFailures(t *testing.T) {
	lib := &countingLibrary{Library: NewSimulator(), failAIn: true}
	a, err := Open(lib, domain.MCCBoard(0), Bip10Volts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := a.Configure(domain.ChannelSet{{Index: 0, Kind: domain.Analog}}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	_, err = a.Read()
	if !errors.Is(err, domain.ErrDeviceIO) {
		t.Fatalf("expected device i/o failure, got %v", err)
	}
}

type countingLibrary struct {
	Library
	ains    int
	failAIn bool
}

func (c *countingLibrary) AIn(board, channel int, rng Range) (uint16, error) {
	c.ains++
	if c.failAIn {
		return 0, &ULError{Code: ulNetTimout, Message: "timeout waiting for device"}
	}
	return c.Library.AIn(board, channel, rng)
}
