package playback

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

var (
	ErrBusy    = errors.New("speaker is already playing")
	ErrStopped = errors.New("playback stopped before the end of the stream")
)

// Speaker is a Device backed by the beep speaker (oto).
// Only one Speaker may exist per process.
type Speaker struct {
	sampleRate beep.SampleRate

	mu      sync.Mutex
	done    chan struct{}
	finish  func(err error)
	err     error
	playing atomic.Bool
}

var _ Device = (*Speaker)(nil)

// NewSpeaker initializes the audio output at sampleRate with a buffer of the given duration
func NewSpeaker(sampleRate beep.SampleRate, buffer time.Duration) (*Speaker, error) {
	err := speaker.Init(sampleRate, sampleRate.N(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	return &Speaker{sampleRate: sampleRate}, nil
}

// Play starts streaming s, resampling it to the speaker rate if needed
func (s *Speaker) Play(streamer beep.Streamer, format beep.Format) error {
	if s.playing.Load() {
		return ErrBusy
	}

	if format.SampleRate != s.sampleRate {
		streamer = beep.Resample(4, format.SampleRate, s.sampleRate, streamer)
	}

	done := make(chan struct{})
	var once sync.Once
	// finish runs on the speaker goroutine at the end of the stream, or from Stop
	finish := func(err error) {
		once.Do(func() {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			s.playing.Store(false)
			close(done)
		})
	}

	s.mu.Lock()
	s.done = done
	s.finish = finish
	s.err = nil
	s.mu.Unlock()

	s.playing.Store(true)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() { finish(nil) })))
	return nil
}

// Wait blocks until the current stream finishes or is stopped.
// It returns ErrStopped when Stop cut the stream short.
func (s *Speaker) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Playing reports whether a stream is active
func (s *Speaker) Playing() bool {
	return s.playing.Load()
}

// Stop clears the speaker and releases anyone blocked in Wait
func (s *Speaker) Stop() {
	speaker.Clear()

	s.mu.Lock()
	finish := s.finish
	s.mu.Unlock()

	if finish != nil {
		finish(ErrStopped)
	}
}

// Close stops playback and closes the audio output
func (s *Speaker) Close() error {
	s.Stop()
	speaker.Close()
	return nil
}
