package input

import (
	"errors"
	"testing"
)

func TestDetectPress(t *testing.T) {
	tests := []struct {
		previous Level
		current  Level
		want     bool
	}{
		{High, Low, true},
		{High, High, false},
		{Low, Low, false},
		{Low, High, false},
	}

	for _, tt := range tests {
		t.Run(tt.previous.String()+"->"+tt.current.String(), func(t *testing.T) {
			if got := DetectPress(tt.previous, tt.current); got != tt.want {
				t.Errorf("DetectPress(%v, %v) = %v, want %v", tt.previous, tt.current, got, tt.want)
			}
		})
	}
}

type fakeLine struct {
	value  int
	err    error
	closed bool
}

func (l *fakeLine) Value() (int, error) { return l.value, l.err }

func (l *fakeLine) Close() error {
	l.closed = true
	return nil
}

func TestMonitorPoll(t *testing.T) {
	tests := []struct {
		name         string
		line         *fakeLine
		want         Level
		wantAsserted bool
		wantErr      bool
	}{
		{name: "idle", line: &fakeLine{value: 1}, want: High},
		{name: "pressed", line: &fakeLine{value: 0}, want: Low, wantAsserted: true},
		{name: "read error reads as idle", line: &fakeLine{err: errors.New("ebusy")}, want: High, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(tt.line)
			got, err := m.Poll()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Poll() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Poll() = %v, want %v", got, tt.want)
			}
			if got.Asserted() != tt.wantAsserted {
				t.Errorf("Asserted() = %v, want %v", got.Asserted(), tt.wantAsserted)
			}
		})
	}
}

func TestMonitorClose(t *testing.T) {
	l := &fakeLine{value: 1}
	if err := NewMonitor(l).Close(); err != nil {
		t.Fatal(err)
	}
	if !l.closed {
		t.Error("Close() did not release the line")
	}
}
