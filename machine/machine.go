package machine

import (
	"context"
	"log/slog"
	"time"

	"shufflebox/config"
	"shufflebox/input"
	"shufflebox/logger"
	"shufflebox/playback"
	"shufflebox/pool"
)

// Input is polled for the button level
type Input interface {
	Poll() (input.Level, error)
}

// Player plays one clip and blocks until it is done
type Player interface {
	Play(path string) playback.Outcome
}

// Machine is the button-to-playback control loop.
// It owns the draw pool and the last seen button level; only the goroutine
// calling Run or HandlePress may touch it.
type Machine struct {
	catalog  []string
	pool     *pool.Pool
	input    Input
	player   Player
	notifier Notifier

	pollInterval time.Duration
	debounce     time.Duration
	previous     input.Level

	logger *slog.Logger
	wait   func(ctx context.Context, d time.Duration) bool
}

// New creates a new Machine for the given catalog.
// A nil rng draws from math/rand/v2.
func New(cfg *config.Config, catalog []string, in Input, player Player, rng pool.Rand) *Machine {
	return &Machine{
		catalog:      catalog,
		pool:         pool.New(rng),
		input:        in,
		player:       player,
		pollInterval: cfg.Button.PollInterval,
		debounce:     cfg.Button.Debounce,
		previous:     input.High,
		logger:       logger.WithComponent("machine"),
		wait:         sleepContext,
	}
}

// SetNotifier registers a sink for play events
func (m *Machine) SetNotifier(n Notifier) {
	m.notifier = n
}

// Start fills the pool for the first cycle
func (m *Machine) Start() {
	m.logger.Info("Discovered audio file names", slog.Int("count", len(m.catalog)))
	if len(m.catalog) == 0 {
		m.logger.Warn("Catalog is empty, button presses will not play anything")
	}
	m.refill()
}

// Run polls the button until ctx is cancelled.
// Cancellation is checked between polls only; a clip that is playing always finishes.
func (m *Machine) Run(ctx context.Context) error {
	m.logger.Info("Setup complete, press the button to play a random clip")

	for {
		current, err := m.input.Poll()
		if err != nil {
			m.logger.Warn("Failed to poll button", slog.Any("error", err))
			current = m.previous
		}

		if input.DetectPress(m.previous, current) {
			if _, played := m.HandlePress(); played {
				// Debounce
				if !m.wait(ctx, m.debounce) {
					return nil
				}
			}
		}
		m.previous = current

		if !m.wait(ctx, m.pollInterval) {
			return nil
		}
	}
}

// HandlePress draws one clip and plays it. It reports false when there was
// nothing to play because the catalog is empty.
func (m *Machine) HandlePress() (playback.Outcome, bool) {
	m.logger.Info("Button pressed")

	if m.pool.IsEmpty() {
		m.logger.Info("All files played in this cycle, starting a new random cycle")
		m.refill()
	}

	path, err := m.pool.Draw()
	if err != nil {
		m.logger.Error("No audio files available to play after refill attempt")
		return playback.Outcome{}, false
	}

	m.logger.Info("Playing", slog.String("path", path))
	out := m.player.Play(path)

	switch out.Result {
	case playback.NotFound:
		m.logger.Warn("Audio file not found, make sure it exists at the configured path",
			slog.String("path", path),
			slog.Any("error", out.Err))
	case playback.DeviceError:
		m.logger.Error("Playback failed",
			slog.String("path", path),
			slog.Any("error", out.Err))
	}

	m.logger.Info("Finished playing",
		slog.String("path", path),
		slog.String("result", out.Result.String()),
		slog.Int("remaining", m.pool.Len()))

	if m.notifier != nil {
		m.notifier.Notify(PlayEvent{
			Path:      path,
			Result:    out.Result,
			Err:       out.Err,
			Remaining: m.pool.Len(),
			Cycle:     m.pool.Cycle(),
		})
	}

	return out, true
}

// Remaining returns the number of clips left in the current cycle
func (m *Machine) Remaining() int {
	return m.pool.Len()
}

func (m *Machine) refill() {
	m.pool.Refill(m.catalog)
	m.logger.Info("Refilled files for new playback cycle",
		slog.Int("size", m.pool.Len()),
		slog.Int("cycle", m.pool.Cycle()))
}

// Halt parks the process after an unrecoverable startup failure, until ctx ends
func Halt(ctx context.Context, err error) {
	l := logger.WithComponent("machine")
	l.Error("Audio output could not be initialized, halting", slog.Any("error", err))
	l.Error("Check the audio device configuration and wiring")
	<-ctx.Done()
}

// sleepContext waits for d and reports false if ctx ended first
func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
