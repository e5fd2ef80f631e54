package main

import (
	"context"
	"log"
	"time"

	daq "github.com/illiteratewaffle/Analytical-Data-Acquisition"
)

// Runs the acquisition loop against the simulated board for a short while.
func main() {
	cfg := &daq.Config{
		Schedule: daq.ScheduleConfig{IntervalSeconds: 5, SaveRoot: "./data"},
		Boards:   daq.BoardsConfig{Analog: "0", Digital: "0"},
		Channels: []daq.ChannelConfig{
			{Index: 0, Kind: "analog"},
			{Index: 1, Kind: "analog"},
		},
		Retry:            daq.Policy{MaxReadRetries: 3, ReadBackoff: 250 * time.Millisecond},
		Metrics:          daq.MetricsConfig{Addr: ":9100"},
		OperatorInitials: "EX",
	}

	rt, err := daq.NewRuntime(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := rt.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
