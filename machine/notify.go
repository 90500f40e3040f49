package machine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/webhook"
	"github.com/disgoorg/snowflake/v2"

	"shufflebox/logger"
	"shufflebox/playback"
)

// PlayEvent describes one finished play attempt
type PlayEvent struct {
	Path      string
	Result    playback.Result
	Err       error
	Remaining int
	Cycle     int
}

// Notifier receives play events. Notify must not block the control loop.
type Notifier interface {
	Notify(ev PlayEvent)
}

// WebhookNotifier posts play events to a Discord webhook from a background worker
type WebhookNotifier struct {
	client webhook.Client
	id     snowflake.ID
	logger *slog.Logger
	events chan PlayEvent
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWebhookNotifier creates a new WebhookNotifier for the given webhook URL
func NewWebhookNotifier(webhookURL string) (*WebhookNotifier, error) {
	client, err := webhook.NewWithURL(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord webhook client: %w", err)
	}

	return &WebhookNotifier{
		client: client,
		id:     client.ID(),
		logger: logger.WithComponent("webhook"),
		events: make(chan PlayEvent, 16),
	}, nil
}

// Start launches the sending worker
func (w *WebhookNotifier) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		for ev := range w.events {
			if err := w.send(ev); err != nil {
				w.logger.Error("Failed to send play event to Discord",
					slog.String("path", ev.Path),
					slog.Any("error", err))
			}
		}
	}()

	w.logger.Info("Discord play notifications enabled", slog.String("webhook", w.id.String()))
}

// Notify queues ev, dropping it when the worker is behind
func (w *WebhookNotifier) Notify(ev PlayEvent) {
	select {
	case w.events <- ev:
	default:
		w.logger.Debug("Notification queue full, dropping play event", slog.String("path", ev.Path))
	}
}

// Stop drains the queue and closes the webhook client
func (w *WebhookNotifier) Stop() {
	w.once.Do(func() {
		close(w.events)
		w.wg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		w.client.Close(ctx)
	})
}

func (w *WebhookNotifier) send(ev PlayEvent) error {
	if _, err := w.client.CreateEmbeds([]discord.Embed{buildEmbed(ev, time.Now())}); err != nil {
		return fmt.Errorf("discord webhook request failed: %w", err)
	}

	w.logger.Debug("Forwarded play event to Discord",
		slog.String("path", ev.Path),
		slog.String("result", ev.Result.String()))
	return nil
}

func buildEmbed(ev PlayEvent, at time.Time) discord.Embed {
	color := 0x00ff00
	title := "🔊 Played " + filepath.Base(ev.Path)
	switch ev.Result {
	case playback.NotFound:
		color = 0xffa500
		title = "⚠️ Missing " + filepath.Base(ev.Path)
	case playback.DeviceError:
		color = 0xff0000
		title = "❌ Failed " + filepath.Base(ev.Path)
	}

	b := discord.NewEmbedBuilder().
		SetTitle(title).
		AddField("Result", ev.Result.String(), true).
		AddField("Remaining", fmt.Sprintf("%d", ev.Remaining), true).
		AddField("Cycle", fmt.Sprintf("%d", ev.Cycle), true).
		SetColor(color).
		SetTimestamp(at)
	if ev.Err != nil {
		b = b.SetDescription(ev.Err.Error())
	}
	return b.Build()
}
