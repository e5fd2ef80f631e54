package mccdaq

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Range mirrors the Universal Library bipolar input ranges. Raw readings are
// 16-bit counts scaled linearly over [Min, Max] volts.
type Range struct {
	Min float64
	Max float64
}

var (
	Bip20Volts = Range{Min: -20, Max: 20}
	Bip10Volts = Range{Min: -10, Max: 10}
	Bip5Volts  = Range{Min: -5, Max: 5}
)

// Universal Library status codes (subset used by the adapter).
const (
	ulNoErrors  = 0
	ulBadBoard  = 1
	ulDeadAIDev = 5
	ulBadRange  = 30
	ulNetTimout = 158
)

// ULError carries a raw Universal Library status code. The adapter never
// lets one of these escape; it is wrapped into the domain taxonomy.
type ULError struct {
	Code    int
	Message string
}

func (e *ULError) Error() string {
	return fmt.Sprintf("ul error %d: %s", e.Code, e.Message)
}

// Library is the Universal Library call surface the adapter drives. The
// production implementation binds the vendor shared library (cbw64.dll /
// libuldaq) through cgo and is injected at runtime; the Simulator below
// stands in when no hardware is attached.
type Library interface {
	// BoardName resolves a board index against the driver registry. A board
	// that is not attached fails with a ULError (ulBadBoard).
	BoardName(board int) (string, error)

	// AnalogInputCount and DigitalLineCount report the board's capability
	// bounds used for configure-time validation.
	AnalogInputCount(board int) (int, error)
	DigitalLineCount(board int) (int, error)

	// AIn performs one software-paced analog read and returns raw counts.
	AIn(board, channel int, rng Range) (uint16, error)

	// DConfigPort sets the direction of the board's first digital port.
	DConfigPort(board int, output bool) error

	DBitIn(board, line int) (bool, error)
	DBitOut(board, line int, level bool) error
}

// SimBoard describes one simulated board in the registry.
type SimBoard struct {
	Name         string
	AnalogInputs int
	DigitalLines int
}

// Simulator is the default Library used when hardware is absent, mirroring
// the signal generator the original operator software falls back to. Analog
// channels produce a slow sine wave with a per-channel phase offset so tests
// can tell channels apart; digital lines latch the last written level.
type Simulator struct {
	mu     sync.Mutex
	boards map[int]SimBoard
	lines  map[int]map[int]bool
	t0     time.Time
}

// NewSimulator registers a single simulated 8-channel board at index 0.
func NewSimulator() *Simulator {
	s := &Simulator{
		boards: make(map[int]SimBoard),
		lines:  make(map[int]map[int]bool),
		t0:     time.Now(),
	}
	s.AddBoard(0, SimBoard{Name: "USB-1408FS (simulated)", AnalogInputs: 8, DigitalLines: 8})
	return s
}

// AddBoard registers an additional simulated board.
func (s *Simulator) AddBoard(num int, b SimBoard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[num] = b
	s.lines[num] = make(map[int]bool)
}

func (s *Simulator) lookup(board int) (SimBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[board]
	if !ok {
		return SimBoard{}, &ULError{Code: ulBadBoard, Message: fmt.Sprintf("invalid board number %d", board)}
	}
	return b, nil
}

func (s *Simulator) BoardName(board int) (string, error) {
	b, err := s.lookup(board)
	if err != nil {
		return "", err
	}
	return b.Name, nil
}

func (s *Simulator) AnalogInputCount(board int) (int, error) {
	b, err := s.lookup(board)
	if err != nil {
		return 0, err
	}
	return b.AnalogInputs, nil
}

func (s *Simulator) DigitalLineCount(board int) (int, error) {
	b, err := s.lookup(board)
	if err != nil {
		return 0, err
	}
	return b.DigitalLines, nil
}

func (s *Simulator) AIn(board, channel int, rng Range) (uint16, error) {
	b, err := s.lookup(board)
	if err != nil {
		return 0, err
	}
	if channel < 0 || channel >= b.AnalogInputs {
		return 0, &ULError{Code: ulBadRange, Message: fmt.Sprintf("channel %d out of range", channel)}
	}
	volts := s.signal(channel)
	span := rng.Max - rng.Min
	frac := (volts - rng.Min) / span
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return uint16(math.Round(frac * 65535)), nil
}

// signal synthesizes a 0.1 Hz sine centered mid-scale, per-channel phase.
func (s *Simulator) signal(channel int) float64 {
	elapsed := time.Since(s.t0).Seconds()
	phase := float64(channel) * math.Pi / 8
	return 2.5 + 2.5*math.Sin(2*math.Pi*0.1*elapsed+phase)
}

func (s *Simulator) DConfigPort(board int, output bool) error {
	_, err := s.lookup(board)
	return err
}

func (s *Simulator) DBitIn(board, line int) (bool, error) {
	b, err := s.lookup(board)
	if err != nil {
		return false, err
	}
	if line < 0 || line >= b.DigitalLines {
		return false, &ULError{Code: ulBadRange, Message: fmt.Sprintf("line %d out of range", line)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines[board][line], nil
}

func (s *Simulator) DBitOut(board, line int, level bool) error {
	b, err := s.lookup(board)
	if err != nil {
		return err
	}
	if line < 0 || line >= b.DigitalLines {
		return &ULError{Code: ulBadRange, Message: fmt.Sprintf("line %d out of range", line)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[board][line] = level
	return nil
}

var _ Library = (*Simulator)(nil)
