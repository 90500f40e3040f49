package playback

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"shufflebox/logger"
)

// Engine plays clip files on a Device, one at a time
type Engine struct {
	fs     afero.Fs
	device Device
	settle time.Duration
	sleep  func(time.Duration)
	logger *slog.Logger
}

// NewEngine creates a new Engine reading clips from fs.
// settle is the pause observed after every play before control returns.
func NewEngine(fs afero.Fs, device Device, settle time.Duration) *Engine {
	return &Engine{
		fs:     fs,
		device: device,
		settle: settle,
		sleep:  time.Sleep,
		logger: logger.WithComponent("playback"),
	}
}

// Play streams the clip at path and blocks until it has finished or failed.
//
// The device is left stopped and the file closed on every path, and the settle
// delay is always observed, so back-to-back calls never overlap on the output.
func (e *Engine) Play(path string) (out Outcome) {
	out.Path = path

	defer func() {
		e.stopIfPlaying(path)
		e.sleep(e.settle)
	}()

	f, err := e.fs.Open(path)
	if err != nil {
		out.Result, out.Err = NotFound, err
		return out
	}
	// The device must be stopped before the file it reads from is closed.
	defer func() {
		e.stopIfPlaying(path)
		f.Close()
	}()

	src := &FileSource{File: f}
	streamer, format, err := src.GetStreamer()
	if err != nil {
		out.Result, out.Err = DeviceError, err
		return out
	}

	if err := e.device.Play(streamer, format); err != nil {
		out.Result, out.Err = DeviceError, fmt.Errorf("failed to start playback: %w", err)
		return out
	}

	// Nothing else runs on the control thread until the device is done.
	if err := e.device.Wait(); err != nil {
		out.Result, out.Err = DeviceError, fmt.Errorf("playback interrupted: %w", err)
		return out
	}

	if err := src.Err(); err != nil {
		out.Result, out.Err = DeviceError, fmt.Errorf("failed to decode %s: %w", path, err)
		return out
	}

	out.Result = Completed
	return out
}

func (e *Engine) stopIfPlaying(path string) {
	if e.device.Playing() {
		e.logger.Debug("Stopping device still playing", slog.String("path", path))
		e.device.Stop()
	}
}
