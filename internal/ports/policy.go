package ports

import "time"

// Policy bounds the pipeline's handling of transient device failures. A
// read that keeps failing after MaxReadRetries additional attempts surfaces
// as a failed cycle; the scheduler cadence is unaffected.
type Policy struct {
	MaxReadRetries int           `yaml:"max_read_retries"`
	ReadBackoff    time.Duration `yaml:"read_backoff"`
}
