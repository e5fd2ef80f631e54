package nidaq

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// DAQmx status codes are negative for errors, zero for success. The adapter
// wraps them into the domain taxonomy; they never cross the device boundary.
const (
	statusDeviceNotFound  = -201003
	statusPhysChanInvalid = -200170
	statusReadTimeout     = -200284
)

// DAQmxError carries a raw NI-DAQmx status code and extended error text.
type DAQmxError struct {
	Status  int32
	Message string
}

func (e *DAQmxError) Error() string {
	return fmt.Sprintf("daqmx status %d: %s", e.Status, e.Message)
}

// API is the NI-DAQmx call surface the adapter drives. Physical channel
// paths follow driver convention: "Dev1/ai0", "Dev1/port0/line3". The
// production implementation binds nicaiu.dll / libnidaqmx through cgo; the
// Simulator stands in when no hardware is attached.
type API interface {
	// SelfTest resolves a device name against the driver configuration. An
	// unknown name fails with a DAQmxError (statusDeviceNotFound).
	SelfTest(device string) error

	// AnalogInputCount and DigitalLineCount report capability bounds for
	// configure-time validation.
	AnalogInputCount(device string) (int, error)
	DigitalLineCount(device string) (int, error)

	// ReadAnalog performs one on-demand read and returns volts directly.
	ReadAnalog(physical string) (float64, error)

	ReadDigital(physical string) (bool, error)
	WriteDigital(physical string, level bool) error
}

// SimDevice describes one simulated device.
type SimDevice struct {
	AnalogInputs int
	DigitalLines int
}

// Simulator is the default API used without hardware. Analog inputs produce
// the same slow sine the MCC simulator does; digital lines latch writes.
type Simulator struct {
	mu      sync.Mutex
	devices map[string]SimDevice
	lines   map[string]bool
	t0      time.Time
}

// NewSimulator registers a simulated 8-channel "Dev1".
func NewSimulator() *Simulator {
	s := &Simulator{
		devices: make(map[string]SimDevice),
		lines:   make(map[string]bool),
		t0:      time.Now(),
	}
	s.AddDevice("Dev1", SimDevice{AnalogInputs: 8, DigitalLines: 8})
	return s
}

// AddDevice registers an additional simulated device.
func (s *Simulator) AddDevice(name string, d SimDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[name] = d
}

func (s *Simulator) lookup(device string) (SimDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[device]
	if !ok {
		return SimDevice{}, &DAQmxError{
			Status:  statusDeviceNotFound,
			Message: fmt.Sprintf("device identifier %q is invalid", device),
		}
	}
	return d, nil
}

func (s *Simulator) SelfTest(device string) error {
	_, err := s.lookup(device)
	return err
}

func (s *Simulator) AnalogInputCount(device string) (int, error) {
	d, err := s.lookup(device)
	if err != nil {
		return 0, err
	}
	return d.AnalogInputs, nil
}

func (s *Simulator) DigitalLineCount(device string) (int, error) {
	d, err := s.lookup(device)
	if err != nil {
		return 0, err
	}
	return d.DigitalLines, nil
}

func (s *Simulator) ReadAnalog(physical string) (float64, error) {
	device, channel, err := splitAnalog(physical)
	if err != nil {
		return 0, err
	}
	d, err := s.lookup(device)
	if err != nil {
		return 0, err
	}
	if channel < 0 || channel >= d.AnalogInputs {
		return 0, &DAQmxError{
			Status:  statusPhysChanInvalid,
			Message: fmt.Sprintf("physical channel %q is invalid", physical),
		}
	}
	elapsed := time.Since(s.t0).Seconds()
	phase := float64(channel) * math.Pi / 8
	return 2.5 + 2.5*math.Sin(2*math.Pi*0.1*elapsed+phase), nil
}

func (s *Simulator) ReadDigital(physical string) (bool, error) {
	if err := s.checkLine(physical); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines[physical], nil
}

func (s *Simulator) WriteDigital(physical string, level bool) error {
	if err := s.checkLine(physical); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[physical] = level
	return nil
}

func (s *Simulator) checkLine(physical string) error {
	device, line, err := splitDigital(physical)
	if err != nil {
		return err
	}
	d, err := s.lookup(device)
	if err != nil {
		return err
	}
	if line < 0 || line >= d.DigitalLines {
		return &DAQmxError{
			Status:  statusPhysChanInvalid,
			Message: fmt.Sprintf("physical channel %q is invalid", physical),
		}
	}
	return nil
}

func splitAnalog(physical string) (device string, channel int, err error) {
	i := strings.IndexByte(physical, '/')
	if i < 0 {
		return "", 0, badPhysical(physical)
	}
	device = physical[:i]
	if _, err := fmt.Sscanf(physical[i+1:], "ai%d", &channel); err != nil {
		return "", 0, badPhysical(physical)
	}
	return device, channel, nil
}

func splitDigital(physical string) (device string, line int, err error) {
	i := strings.IndexByte(physical, '/')
	if i < 0 {
		return "", 0, badPhysical(physical)
	}
	device = physical[:i]
	if _, err := fmt.Sscanf(physical[i+1:], "port0/line%d", &line); err != nil {
		return "", 0, badPhysical(physical)
	}
	return device, line, nil
}

func badPhysical(physical string) error {
	return &DAQmxError{
		Status:  statusPhysChanInvalid,
		Message: fmt.Sprintf("physical channel %q is invalid", physical),
	}
}

var _ API = (*Simulator)(nil)
