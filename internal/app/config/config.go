package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

type Config struct {
	Schedule ScheduleConfig  `yaml:"schedule"`
	Boards   BoardsConfig    `yaml:"boards"`
	Channels []ChannelConfig `yaml:"channels"`
	Retry    ports.Policy    `yaml:"retry"`
	Archive  ArchiveConfig   `yaml:"archive"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Valves   ValveConfig     `yaml:"valves"`

	// OperatorInitials appears in partition file names.
	OperatorInitials string `yaml:"operator_initials"`

	// Simulate falls back to the built-in signal generator when a board
	// cannot be resolved instead of failing startup.
	Simulate bool `yaml:"simulate"`
}

type ScheduleConfig struct {
	// IntervalSeconds must divide evenly into 3600 so triggers align to the
	// top of every hour.
	IntervalSeconds int    `yaml:"interval_seconds"`
	SaveRoot        string `yaml:"save_root"`
}

// BoardsConfig names the board per device role. An all-digit identifier is a
// Measurement Computing board index, anything else an NI-DAQmx device name.
// Both roles may point at the same physical board.
type BoardsConfig struct {
	Analog  string `yaml:"analog"`
	Digital string `yaml:"digital"`
}

type ChannelConfig struct {
	Index int    `yaml:"index"`
	Kind  string `yaml:"kind"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Table   string `yaml:"table"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ValveConfig maps the two-position valve onto digital output lines of the
// digital board. Position A clears LineA, position B clears LineB, all other
// lines driven high.
type ValveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	LineA           int    `yaml:"line_a"`
	LineB           int    `yaml:"line_b"`
	InitialPosition string `yaml:"initial_position"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Schedule.IntervalSeconds == 0 {
		c.Schedule.IntervalSeconds = 600
	}
	if c.Schedule.SaveRoot == "" {
		c.Schedule.SaveRoot = "./data"
	}
	if c.Boards.Analog == "" {
		c.Boards.Analog = "0"
	}
	if c.Boards.Digital == "" {
		c.Boards.Digital = c.Boards.Analog
	}
	if len(c.Channels) == 0 {
		c.Channels = []ChannelConfig{{Index: 0, Kind: "analog"}}
	}
	if c.Retry.MaxReadRetries == 0 {
		c.Retry.MaxReadRetries = 3
	}
	if c.Retry.ReadBackoff == 0 {
		c.Retry.ReadBackoff = 250 * time.Millisecond
	}
	if c.Archive.Driver == "" {
		c.Archive.Driver = "sqlite3"
	}
	if c.Archive.Table == "" {
		c.Archive.Table = "samples"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.OperatorInitials == "" {
		c.OperatorInitials = "NULL"
	}
	if c.Valves.LineB == 0 && c.Valves.LineA == 0 {
		c.Valves.LineB = 1
	}
}

// Validate enforces the alignment precondition and channel/board sanity. It
// runs at load time; a violated precondition never reaches the scheduler.
func (c *Config) Validate() error {
	iv := c.Schedule.IntervalSeconds
	if iv <= 0 {
		return fmt.Errorf("%w: interval_seconds must be positive, got %d",
			domain.ErrInvalidConfiguration, iv)
	}
	if 3600%iv != 0 {
		return fmt.Errorf("%w: interval_seconds %d does not divide 3600",
			domain.ErrInvalidConfiguration, iv)
	}
	if c.Schedule.SaveRoot == "" {
		return fmt.Errorf("%w: schedule.save_root is required", domain.ErrInvalidConfiguration)
	}
	if _, err := domain.ParseBoardID(c.Boards.Analog); err != nil {
		return fmt.Errorf("boards.analog: %w", err)
	}
	if _, err := domain.ParseBoardID(c.Boards.Digital); err != nil {
		return fmt.Errorf("boards.digital: %w", err)
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("%w: at least one channel must be configured", domain.ErrInvalidConfiguration)
	}
	if _, err := c.ChannelSet(); err != nil {
		return err
	}
	if c.Archive.Enabled && c.Archive.DSN == "" {
		return fmt.Errorf("%w: archive.dsn is required when archive is enabled", domain.ErrInvalidConfiguration)
	}
	switch c.Valves.InitialPosition {
	case "", "A", "B":
	default:
		return fmt.Errorf("%w: valves.initial_position must be A or B, got %q",
			domain.ErrInvalidConfiguration, c.Valves.InitialPosition)
	}
	return nil
}

// Interval returns the run interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Schedule.IntervalSeconds) * time.Second
}

// ChannelSet converts the configured channel list, preserving order.
func (c *Config) ChannelSet() (domain.ChannelSet, error) {
	set := make(domain.ChannelSet, 0, len(c.Channels))
	for _, cc := range c.Channels {
		kind, err := domain.ParseChannelKind(cc.Kind)
		if err != nil {
			return nil, err
		}
		set = append(set, domain.Channel{Index: cc.Index, Kind: kind})
	}
	return set, nil
}

// AnalogBoard returns the parsed analog-role board identifier. Validate must
// have passed.
func (c *Config) AnalogBoard() domain.BoardID {
	id, _ := domain.ParseBoardID(c.Boards.Analog)
	return id
}

// DigitalBoard returns the parsed digital-role board identifier.
func (c *Config) DigitalBoard() domain.BoardID {
	id, _ := domain.ParseBoardID(c.Boards.Digital)
	return id
}
