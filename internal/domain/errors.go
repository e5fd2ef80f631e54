package domain

import "errors"

// Error taxonomy shared by the adapters, pipeline, and writer. Adapters wrap
// vendor return codes into these sentinels so nothing vendor-specific leaks
// past the device boundary.
var (
	// ErrDeviceNotFound: the board identifier does not resolve to an
	// attached, driver-registered board. Fatal at startup, never retried.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrInvalidChannel: a configured channel index is outside the board's
	// supported range. Surfaced at configure time, before any acquisition.
	ErrInvalidChannel = errors.New("channel out of range")

	// ErrDeviceIO: transient communication failure (USB disconnect, driver
	// timeout). The pipeline retries these a bounded number of times.
	ErrDeviceIO = errors.New("device i/o failure")

	// ErrDeviceNotReady: read attempted before a successful configure.
	ErrDeviceNotReady = errors.New("device not configured")

	// ErrPersistence: the partition directory or file is not writable. The
	// cycle fails; the next trigger retries directory creation.
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidConfiguration: rejected operator configuration (bad interval,
	// unknown channel kind, empty board identifier).
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ErrorKind classifies an error against the taxonomy for reporting. Unknown
// errors are reported as "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDeviceNotFound):
		return "device_not_found"
	case errors.Is(err, ErrInvalidChannel):
		return "invalid_channel"
	case errors.Is(err, ErrDeviceIO):
		return "device_io"
	case errors.Is(err, ErrDeviceNotReady):
		return "device_not_ready"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	default:
		return "internal"
	}
}

// Transient reports whether the pipeline may retry the operation that
// produced err. Only device I/O failures are transient; configuration and
// sequencing errors are not.
func Transient(err error) bool {
	return errors.Is(err, ErrDeviceIO)
}
