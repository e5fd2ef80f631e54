package daq

import (
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/app/pipeline"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/app/schedule"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

// Channel identifies one physical line on a board.
type Channel = domain.Channel

// ChannelKind distinguishes analog, digital input, and digital output lines.
type ChannelKind = domain.ChannelKind

const (
	Analog     = domain.Analog
	DigitalIn  = domain.DigitalIn
	DigitalOut = domain.DigitalOut
)

// ChannelSet is the ordered list of channels sampled each cycle.
type ChannelSet = domain.ChannelSet

// Reading is one channel's value at the batch timestamp.
type Reading = domain.Reading

// SampleBatch is the immutable result of one acquisition cycle.
type SampleBatch = domain.SampleBatch

// BoardID is the union of the two vendor addressing schemes.
type BoardID = domain.BoardID

// PartitionKey names the calendar-month directory a batch lands in.
type PartitionKey = domain.PartitionKey

// Device is the uniform contract over both vendor adapters.
type Device = ports.Device

// Recorder persists acquired batches.
type Recorder = ports.Recorder

// Observability is the reporting boundary for failures and metrics.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Outcome is the result of one acquisition cycle.
type Outcome = pipeline.Outcome

// SchedulerState is the acquisition loop state.
type SchedulerState = schedule.State

// Error taxonomy, re-exported for errors.Is checks by embedders.
var (
	ErrDeviceNotFound       = domain.ErrDeviceNotFound
	ErrInvalidChannel       = domain.ErrInvalidChannel
	ErrDeviceIO             = domain.ErrDeviceIO
	ErrDeviceNotReady       = domain.ErrDeviceNotReady
	ErrPersistence          = domain.ErrPersistence
	ErrInvalidConfiguration = domain.ErrInvalidConfiguration
)

// ParseBoardID resolves the configuration spelling of a board identifier.
func ParseBoardID(s string) (BoardID, error) { return domain.ParseBoardID(s) }

// NextTrigger computes the next wall-clock-aligned trigger instant.
var NextTrigger = schedule.NextTrigger
