package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChannelKind distinguishes the three hardware signal classes a board exposes.
type ChannelKind int

const (
	Analog ChannelKind = iota + 1
	DigitalIn
	DigitalOut
)

// ParseChannelKind maps the configuration spelling to a ChannelKind.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch s {
	case "analog":
		return Analog, nil
	case "digital_in":
		return DigitalIn, nil
	case "digital_out":
		return DigitalOut, nil
	default:
		return 0, fmt.Errorf("%w: unknown channel kind %q", ErrInvalidConfiguration, s)
	}
}

func (k ChannelKind) String() string {
	switch k {
	case Analog:
		return "analog"
	case DigitalIn:
		return "digital_in"
	case DigitalOut:
		return "digital_out"
	default:
		return fmt.Sprintf("channelkind(%d)", int(k))
	}
}

// Channel identifies one physical input/output line on a board.
type Channel struct {
	Index int
	Kind  ChannelKind
}

// ChannelSet is the ordered list of channels sampled each cycle. Order is
// preserved end to end: readings and persisted record columns follow it.
type ChannelSet []Channel

// Readable returns the subset of the set that participates in the read
// cycle. DigitalOut lines are configured for the write path only.
func (cs ChannelSet) Readable() ChannelSet {
	out := make(ChannelSet, 0, len(cs))
	for _, ch := range cs {
		if ch.Kind != DigitalOut {
			out = append(out, ch)
		}
	}
	return out
}

// Reading is one channel's value at the batch timestamp. Digital levels are
// normalized to 0 or 1 so every record column is a float.
type Reading struct {
	Channel Channel
	Value   float64
}

// SampleBatch is the immutable result of one acquisition cycle. The
// timestamp is captured as close to the hardware sample instant as the
// vendor driver allows.
type SampleBatch struct {
	ID        uuid.UUID
	Timestamp time.Time
	Readings  []Reading
}

// NewSampleBatch stamps a fresh batch for the given instant.
func NewSampleBatch(ts time.Time, readings []Reading) *SampleBatch {
	return &SampleBatch{ID: uuid.New(), Timestamp: ts, Readings: readings}
}

// PartitionKey names the calendar-month directory a batch is persisted under.
type PartitionKey string

// PartitionKeyFor derives the YYYY-MM key from a batch timestamp.
func PartitionKeyFor(ts time.Time) PartitionKey {
	return PartitionKey(ts.Format("2006-01"))
}

func (k PartitionKey) String() string { return string(k) }
