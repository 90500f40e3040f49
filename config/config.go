package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Audio clip catalog and output device
	Audio AudioConfig `mapstructure:"audio"`

	// Push button wiring
	Button ButtonConfig `mapstructure:"button"`

	// Playback timing
	Playback PlaybackConfig `mapstructure:"playback"`

	// Discord play notifications
	Discord DiscordConfig `mapstructure:"discord"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// AudioConfig holds the clip folder and speaker settings
type AudioConfig struct {
	Folder     string        `mapstructure:"folder"`
	Count      int           `mapstructure:"count"`
	SampleRate int           `mapstructure:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer"`
}

// ButtonConfig holds the GPIO line the button is wired to
type ButtonConfig struct {
	Chip         string        `mapstructure:"chip"`
	Line         int           `mapstructure:"line"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Debounce     time.Duration `mapstructure:"debounce"`
}

// PlaybackConfig holds playback engine settings
type PlaybackConfig struct {
	Settle time.Duration `mapstructure:"settle"`
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("audio.folder", "/audio/")
	viper.SetDefault("audio.count", 41)
	viper.SetDefault("audio.sample_rate", 44100)
	viper.SetDefault("audio.buffer", "100ms")
	viper.SetDefault("button.chip", "gpiochip0")
	viper.SetDefault("button.line", 3)
	viper.SetDefault("button.poll_interval", "10ms")
	viper.SetDefault("button.debounce", "300ms")
	viper.SetDefault("playback.settle", "100ms")
	viper.SetDefault("discord.webhook_url", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	SetDefaults()

	// Read config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.shufflebox")
	viper.AddConfigPath("/etc/shufflebox")

	// Allow environment variables, e.g. SHUFFLEBOX_AUDIO_COUNT
	viper.SetEnvPrefix("SHUFFLEBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Info("Using config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Audio.Folder == "" {
		return &ConfigError{Field: "audio.folder", Message: "audio folder is required"}
	}
	if c.Audio.Count < 0 {
		return &ConfigError{Field: "audio.count", Message: "audio file count must not be negative"}
	}
	if c.Audio.SampleRate <= 0 {
		return &ConfigError{Field: "audio.sample_rate", Message: "sample rate must be positive"}
	}
	if c.Audio.Buffer <= 0 {
		return &ConfigError{Field: "audio.buffer", Message: "speaker buffer must be positive"}
	}
	if c.Button.Chip == "" {
		return &ConfigError{Field: "button.chip", Message: "GPIO chip is required"}
	}
	if c.Button.Line < 0 {
		return &ConfigError{Field: "button.line", Message: "GPIO line offset must not be negative"}
	}
	if c.Button.PollInterval <= 0 {
		return &ConfigError{Field: "button.poll_interval", Message: "poll interval must be positive"}
	}
	if c.Button.Debounce < 0 {
		return &ConfigError{Field: "button.debounce", Message: "debounce delay must not be negative"}
	}
	if c.Playback.Settle < 0 {
		return &ConfigError{Field: "playback.settle", Message: "settle delay must not be negative"}
	}
	if c.Discord.WebhookURL != "" && !strings.HasPrefix(c.Discord.WebhookURL, "https://") {
		return &ConfigError{Field: "discord.webhook_url", Message: "Discord webhook URL must use https"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
