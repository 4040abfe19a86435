package ingest

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/SamSkjord/open-TPT-sub002/internal/monitoring"
	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// SerialSource reads tread-band frames from a sensor MCU attached over a
// serial port. Wire format is one ASCII line per frame:
//
//	<corner>,<t0>,<t1>,...,<tN-1>\n
//
// where corner is FL/FR/RL/RR and N = TreadRows * SensorWidth Celsius
// values. A background goroutine keeps the most recent frame per corner;
// ReadFrame consumes it. Malformed lines are logged and dropped, matching
// the skip-this-cycle failure model.
type SerialSource struct {
	port   serial.Port
	params thermal.DetectionParams
	logf   func(format string, v ...interface{})

	mu     sync.Mutex
	latest map[thermal.Corner]*thermal.ThermalFrame
}

// OpenSerialSource opens the port and starts the background reader.
func OpenSerialSource(portName string, baudRate int, params thermal.DetectionParams) (*SerialSource, error) {
	mode := &serial.Mode{BaudRate: baudRate}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	s := &SerialSource{
		port:   port,
		params: params,
		logf:   monitoring.Prefixed("serial"),
		latest: make(map[thermal.Corner]*thermal.ThermalFrame, 4),
	}
	go s.readLoop()
	return s, nil
}

// ReadFrame returns the most recent unconsumed frame for the corner.
func (s *SerialSource) ReadFrame(corner thermal.Corner) (*thermal.ThermalFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.latest[corner]
	if !ok || f == nil {
		return nil, false
	}
	s.latest[corner] = nil
	return f, true
}

// Close stops the reader by closing the underlying port.
func (s *SerialSource) Close() error {
	return s.port.Close()
}

func (s *SerialSource) readLoop() {
	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		corner, frame, err := ParseFrameLine(line, s.params.TreadRows, s.params.SensorWidth)
		if err != nil {
			s.logf("dropping frame: %v", err)
			continue
		}
		s.mu.Lock()
		s.latest[corner] = frame
		s.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		s.logf("reader stopped: %v", err)
	}
}

// ParseFrameLine parses one wire line into a corner and frame.
func ParseFrameLine(line string, rows, width int) (thermal.Corner, *thermal.ThermalFrame, error) {
	parts := strings.Split(line, ",")
	want := 1 + rows*width
	if len(parts) != want {
		return "", nil, fmt.Errorf("expected %d fields, got %d", want, len(parts))
	}

	corner, err := cornerFromTag(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", nil, err
	}

	frame := thermal.NewThermalFrame(rows, width)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid temperature %q at cell %d: %w", p, i, err)
		}
		frame.Temps[i] = v
	}
	return corner, frame, nil
}

func cornerFromTag(tag string) (thermal.Corner, error) {
	switch strings.ToUpper(tag) {
	case "FL":
		return thermal.FrontLeft, nil
	case "FR":
		return thermal.FrontRight, nil
	case "RL":
		return thermal.RearLeft, nil
	case "RR":
		return thermal.RearRight, nil
	}
	if c := thermal.Corner(strings.ToLower(tag)); c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown corner tag %q", tag)
}
