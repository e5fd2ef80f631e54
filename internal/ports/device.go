package ports

import "github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"

// Device is the uniform contract over both vendor adapter variants. The
// vendor adapters translate raw return codes and units behind it; nothing
// vendor-specific crosses this boundary.
//
// A Device is exclusively owned by the acquisition pipeline for its process
// lifetime. Calls are strictly sequential: at most one Read is in flight at
// any time.
type Device interface {
	// Configure validates every channel index against the board's supported
	// range and stores the set for subsequent reads. It must fail with
	// domain.ErrInvalidChannel before any acquisition is attempted.
	Configure(set domain.ChannelSet) error

	// Read samples every readable configured channel once and returns a
	// fresh batch. The batch timestamp is captured at the moment of
	// hardware sampling. Fails with domain.ErrDeviceNotReady if Configure
	// has not succeeded, and domain.ErrDeviceIO on transient driver
	// failures. Read must not add its own wait beyond the vendor driver's
	// timeout.
	Read() (*domain.SampleBatch, error)

	// WriteDigital drives one digital output line. Write path only; never
	// used by the read cycle.
	WriteDigital(line int, level bool) error

	// Board reports the identifier the handle was opened from.
	Board() domain.BoardID

	Close() error
}
