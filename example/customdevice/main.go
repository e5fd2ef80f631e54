package main

import (
	"context"
	"fmt"
	"log"
	"time"

	daq "github.com/illiteratewaffle/Analytical-Data-Acquisition"
)

// Shows how to plug a custom recorder in front of the partition writer, for
// instance to forward every batch to a live display.
func main() {
	cfg := &daq.Config{
		Schedule:         daq.ScheduleConfig{IntervalSeconds: 10, SaveRoot: "./data"},
		Boards:           daq.BoardsConfig{Analog: "Dev1", Digital: "Dev1"},
		Channels:         []daq.ChannelConfig{{Index: 0, Kind: "analog"}},
		Retry:            daq.Policy{MaxReadRetries: 3, ReadBackoff: 250 * time.Millisecond},
		Metrics:          daq.MetricsConfig{Addr: ":9101"},
		OperatorInitials: "EX",
	}

	rt, err := daq.NewRuntime(cfg, daq.WithRecorder(printRecorder{}))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := rt.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

type printRecorder struct{}

func (printRecorder) Append(b *daq.SampleBatch) error {
	fmt.Printf("%s", b.Timestamp.Format(time.RFC3339))
	for _, r := range b.Readings {
		fmt.Printf("\t%.4f", r.Value)
	}
	fmt.Println()
	return nil
}

func (printRecorder) Name() string { return "stdout" }
