package daq

import (
	"time"

	base "github.com/illiteratewaffle/Analytical-Data-Acquisition/pkg/daq"
)

// Re-exported errors for convenience.
var (
	ErrDeviceNotFound       = base.ErrDeviceNotFound
	ErrInvalidChannel       = base.ErrInvalidChannel
	ErrDeviceIO             = base.ErrDeviceIO
	ErrDeviceNotReady       = base.ErrDeviceNotReady
	ErrPersistence          = base.ErrPersistence
	ErrInvalidConfiguration = base.ErrInvalidConfiguration
)

// Type aliases so consumers can import the module root directly.
type (
	Config         = base.Config
	ScheduleConfig = base.ScheduleConfig
	BoardsConfig   = base.BoardsConfig
	ChannelConfig  = base.ChannelConfig
	ArchiveConfig  = base.ArchiveConfig
	MetricsConfig  = base.MetricsConfig
	ValveConfig    = base.ValveConfig
	Policy         = base.Policy
	Runtime        = base.Runtime
	RuntimeOption  = base.RuntimeOption
	Channel        = base.Channel
	ChannelKind    = base.ChannelKind
	ChannelSet     = base.ChannelSet
	Reading        = base.Reading
	SampleBatch    = base.SampleBatch
	BoardID        = base.BoardID
	PartitionKey   = base.PartitionKey
	Device         = base.Device
	Recorder       = base.Recorder
	Observability  = base.Observability
	Field          = base.Field
	Outcome        = base.Outcome
	SchedulerState = base.SchedulerState
)

const (
	Analog     = base.Analog
	DigitalIn  = base.DigitalIn
	DigitalOut = base.DigitalOut
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Runtime construction and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithDevice(d Device) RuntimeOption {
	return base.WithDevice(d)
}

func WithDigitalDevice(d Device) RuntimeOption {
	return base.WithDigitalDevice(d)
}

func WithRecorder(r Recorder) RuntimeOption {
	return base.WithRecorder(r)
}

func WithArchive(r Recorder) RuntimeOption {
	return base.WithArchive(r)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

// Scheduling helpers.
func ParseBoardID(s string) (BoardID, error) {
	return base.ParseBoardID(s)
}

func NextTrigger(now time.Time, interval time.Duration) time.Time {
	return base.NextTrigger(now, interval)
}
