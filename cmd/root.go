package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shufflebox/catalog"
	"shufflebox/config"
	"shufflebox/input"
	"shufflebox/logger"
	"shufflebox/machine"
	"shufflebox/playback"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shufflebox",
	Short: "Play a random audio clip each time a button is pressed",
	Long: `Shufflebox watches a push button wired to a GPIO line and plays one of a
numbered set of WAV clips (0001.wav, 0002.wav, ...) every time it is pressed.

Clips are drawn at random without repeats: every clip is played once, in a random
order, before the set is reshuffled and a new cycle begins.`,
	RunE: runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("folder", "f", "/audio/", "folder prefix of the numbered clips")
	rootCmd.PersistentFlags().IntP("count", "n", 41, "number of clips")
	rootCmd.PersistentFlags().Int("sample-rate", 44100, "audio output sample rate")
	rootCmd.PersistentFlags().Duration("settle", 100*time.Millisecond, "pause after each clip")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// Local flags for the server command
	rootCmd.Flags().String("chip", "gpiochip0", "GPIO chip the button is wired to")
	rootCmd.Flags().IntP("line", "l", 3, "GPIO line offset of the button")
	rootCmd.Flags().Duration("debounce", 300*time.Millisecond, "delay after a press before polling again")
	rootCmd.Flags().String("discord-webhook", "", "Discord webhook URL for play notifications")

	// Bind flags to viper
	viper.BindPFlag("audio.folder", rootCmd.PersistentFlags().Lookup("folder"))
	viper.BindPFlag("audio.count", rootCmd.PersistentFlags().Lookup("count"))
	viper.BindPFlag("audio.sample_rate", rootCmd.PersistentFlags().Lookup("sample-rate"))
	viper.BindPFlag("playback.settle", rootCmd.PersistentFlags().Lookup("settle"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("button.chip", rootCmd.Flags().Lookup("chip"))
	viper.BindPFlag("button.line", rootCmd.Flags().Lookup("line"))
	viper.BindPFlag("button.debounce", rootCmd.Flags().Lookup("debounce"))
	viper.BindPFlag("discord.webhook_url", rootCmd.Flags().Lookup("discord-webhook"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if verbose {
		viper.Set("logging.level", "debug")
	}
}

// loadSetup loads and validates the configuration, then configures logging
func loadSetup() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-signalChan:
			fmt.Printf("\nReceived %s, shutting down gracefully...\n", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signalChan)
	}()

	return ctx, cancel
}

// runServer starts the main application
func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadSetup()
	if err != nil {
		return err
	}

	paths, err := catalog.Build(cfg.Audio.Folder, cfg.Audio.Count)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	spk, err := playback.NewSpeaker(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Buffer)
	if err != nil {
		// No degraded mode without audio output
		machine.Halt(ctx, err)
		return err
	}
	defer spk.Close()
	slog.Info("Audio output initialized", slog.Int("sample_rate", cfg.Audio.SampleRate))

	button, err := input.Open(cfg.Button.Chip, cfg.Button.Line)
	if err != nil {
		return err
	}
	defer button.Close()

	engine := playback.NewEngine(afero.NewOsFs(), spk, cfg.Playback.Settle)
	m := machine.New(cfg, paths, button, engine, nil)

	if cfg.Discord.WebhookURL != "" {
		notifier, err := machine.NewWebhookNotifier(cfg.Discord.WebhookURL)
		if err != nil {
			return err
		}
		notifier.Start()
		defer notifier.Stop()
		m.SetNotifier(notifier)
	}

	m.Start()
	if err := m.Run(ctx); err != nil {
		return fmt.Errorf("control loop failed: %w", err)
	}

	slog.Info("Stopped")
	return nil
}
