package domain

import (
	"fmt"
	"strconv"
)

// Vendor selects which DAQ driver family backs a board.
type Vendor int

const (
	// VendorMCC boards are addressed by the numeric index assigned by the
	// Universal Library board registry.
	VendorMCC Vendor = iota + 1
	// VendorNIDAQ boards are addressed by the device name assigned in the
	// driver configuration utility, e.g. "Dev1".
	VendorNIDAQ
)

func (v Vendor) String() string {
	switch v {
	case VendorMCC:
		return "mcc"
	case VendorNIDAQ:
		return "nidaq"
	default:
		return fmt.Sprintf("vendor(%d)", int(v))
	}
}

// BoardID is the union of the two vendor addressing schemes: a numeric board
// index (MCC) or a device name string (NI-DAQmx). Immutable once a device is
// opened; changing it requires reopening the handle.
type BoardID struct {
	vendor Vendor
	index  int
	name   string
}

// MCCBoard builds a Measurement Computing identifier from a board index.
func MCCBoard(index int) BoardID {
	return BoardID{vendor: VendorMCC, index: index}
}

// NIDevice builds an NI-DAQmx identifier from a device name.
func NIDevice(name string) BoardID {
	return BoardID{vendor: VendorNIDAQ, name: name}
}

// ParseBoardID resolves the configuration spelling of a board identifier.
// An all-digit string is an MCC board index; anything else non-empty is an
// NI-DAQmx device name.
func ParseBoardID(s string) (BoardID, error) {
	if s == "" {
		return BoardID{}, fmt.Errorf("%w: empty board identifier", ErrInvalidConfiguration)
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return BoardID{}, fmt.Errorf("%w: negative board index %d", ErrInvalidConfiguration, n)
		}
		return MCCBoard(n), nil
	}
	return NIDevice(s), nil
}

func (b BoardID) Vendor() Vendor { return b.vendor }

// Index returns the MCC board number. Only meaningful for VendorMCC.
func (b BoardID) Index() int { return b.index }

// Name returns the NI device name. Only meaningful for VendorNIDAQ.
func (b BoardID) Name() string { return b.name }

func (b BoardID) String() string {
	switch b.vendor {
	case VendorMCC:
		return fmt.Sprintf("mcc:%d", b.index)
	case VendorNIDAQ:
		return "nidaq:" + b.name
	default:
		return "board:?"
	}
}
