package daq

import (
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/app/config"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// ScheduleConfig carries the run interval and save root.
	ScheduleConfig = config.ScheduleConfig
	// BoardsConfig names the board per device role.
	BoardsConfig = config.BoardsConfig
	// ChannelConfig describes one sampled channel.
	ChannelConfig = config.ChannelConfig
	// ArchiveConfig configures the optional SQL archive sink.
	ArchiveConfig = config.ArchiveConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// ValveConfig maps the valve onto digital output lines.
	ValveConfig = config.ValveConfig
	// Policy bounds transient-read retries.
	Policy = ports.Policy
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
