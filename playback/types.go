package playback

import (
	"github.com/gopxl/beep/v2"
)

// Result classifies how a single play attempt ended
type Result int

const (
	// Completed means the clip was streamed to the end
	Completed Result = iota
	// NotFound means the clip file could not be opened
	NotFound
	// DeviceError means decoding or output failed after the file was opened
	DeviceError
)

func (r Result) String() string {
	switch r {
	case Completed:
		return "completed"
	case NotFound:
		return "not-found"
	case DeviceError:
		return "device-error"
	default:
		return "unknown"
	}
}

// Outcome is the result of Engine.Play along with the error behind a failure
type Outcome struct {
	Path   string
	Result Result
	Err    error
}

// Device is an audio output that plays one streamer at a time
type Device interface {
	// Play starts streaming s and returns immediately
	Play(s beep.Streamer, format beep.Format) error
	// Wait blocks until the current stream has finished. It returns an
	// error when the stream was cut short instead of played to the end.
	// The beep speaker has no way to report hardware faults, so for Speaker
	// the only such case is a Stop or Close while a stream is active.
	Wait() error
	// Playing reports whether a stream is still active
	Playing() bool
	// Stop aborts the current stream
	Stop()
}
