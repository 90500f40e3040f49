// Package input reads the push button wired to a GPIO line.
//
// The line is biased high with the internal pull-up, so it idles High and reads
// Low while the button is held down.
package input

import (
	"fmt"
	"log/slog"

	"github.com/warthog618/go-gpiocdev"

	"shufflebox/logger"
)

// Consumer is the label the line is requested under, visible in gpioinfo
const Consumer = "shufflebox"

// Level is the logic level of the button line
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Asserted reports whether the level means the button is pressed
func (l Level) Asserted() bool {
	return l == Low
}

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// DetectPress reports a press edge: the line went from High to Low
func DetectPress(previous, current Level) bool {
	return previous == High && current == Low
}

// Line is the part of a requested GPIO line the monitor needs
type Line interface {
	Value() (int, error)
	Close() error
}

// Monitor polls the button line
type Monitor struct {
	line   Line
	logger *slog.Logger
}

// NewMonitor wraps an already requested line
func NewMonitor(line Line) *Monitor {
	return &Monitor{
		line:   line,
		logger: logger.WithComponent("input"),
	}
}

// Open requests offset on chip as a pulled-up input
func Open(chip string, offset int) (*Monitor, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line %s:%d: %w", chip, offset, err)
	}

	m := NewMonitor(l)
	m.logger.Info("Button line requested",
		slog.String("chip", chip),
		slog.Int("line", offset))
	return m, nil
}

// Poll reads the current level of the line
func (m *Monitor) Poll() (Level, error) {
	v, err := m.line.Value()
	if err != nil {
		return High, fmt.Errorf("failed to read button line: %w", err)
	}
	return Level(v != 0), nil
}

// Close releases the line
func (m *Monitor) Close() error {
	return m.line.Close()
}
