package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
schedule:
  interval_seconds: 1800
  save_root: /tmp/daq-data
boards:
  analog: "0"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Boards.Digital != "0" {
		t.Fatalf("expected digital board to default to analog board, got %s", cfg.Boards.Digital)
	}
	if cfg.Retry.MaxReadRetries != 3 {
		t.Fatalf("expected default retries 3, got %d", cfg.Retry.MaxReadRetries)
	}
	if cfg.Retry.ReadBackoff != 250*time.Millisecond {
		t.Fatalf("expected default backoff 250ms, got %s", cfg.Retry.ReadBackoff)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Fatalf("expected default metrics addr :9100, got %s", cfg.Metrics.Addr)
	}
	if cfg.OperatorInitials != "NULL" {
		t.Fatalf("expected default operator NULL, got %s", cfg.OperatorInitials)
	}
	if len(cfg.Channels) != 1 || cfg.Channels[0].Kind != "analog" {
		t.Fatalf("expected default single analog channel, got %v", cfg.Channels)
	}
	if cfg.Interval() != 30*time.Minute {
		t.Fatalf("expected interval 30m, got %s", cfg.Interval())
	}
}

func TestLoadRejectsNonDivisorInterval(t *testing.T) {
	path := writeConfig(t, `
schedule:
  interval_seconds: 700
  save_root: /tmp/daq-data
`)

	_, err := Load(path)
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for 700s interval, got %v", err)
	}
}

func TestLoadRejectsNegativeInterval(t *testing.T) {
	path := writeConfig(t, `
schedule:
  interval_seconds: -600
`)

	_, err := Load(path)
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for negative interval, got %v", err)
	}
}

func TestLoadRejectsUnknownChannelKind(t *testing.T) {
	path := writeConfig(t, `
schedule:
  interval_seconds: 600
channels:
  - index: 0
    kind: frequency
`)

	_, err := Load(path)
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for unknown kind, got %v", err)
	}
}

func TestLoadRejectsArchiveWithoutDSN(t *testing.T) {
	path := writeConfig(t, `
schedule:
  interval_seconds: 600
archive:
  enabled: true
`)

	_, err := Load(path)
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for archive without dsn, got %v", err)
	}
}

func TestChannelSetPreservesOrder(t *testing.T) {
	path := writeConfig(t, `
schedule:
  interval_seconds: 600
boards:
  analog: Dev1
channels:
  - index: 3
    kind: analog
  - index: 0
    kind: digital_in
  - index: 1
    kind: digital_out
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	set, err := cfg.ChannelSet()
	if err != nil {
		t.Fatalf("channel set: %v", err)
	}
	want := domain.ChannelSet{
		{Index: 3, Kind: domain.Analog},
		{Index: 0, Kind: domain.DigitalIn},
		{Index: 1, Kind: domain.DigitalOut},
	}
	if len(set) != len(want) {
		t.Fatalf("expected %d channels, got %d", len(want), len(set))
	}
	for i := range want {
		if set[i] != want[i] {
			t.Fatalf("channel %d: expected %+v, got %+v", i, want[i], set[i])
		}
	}

	if cfg.AnalogBoard().Vendor() != domain.VendorNIDAQ {
		t.Fatalf("expected NIDAQ analog board, got %s", cfg.AnalogBoard())
	}
}
