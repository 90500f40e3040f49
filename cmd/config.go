package cmd

import (
	"fmt"
	"log/slog"

	"shufflebox/config"
	"shufflebox/logger"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for managing and validating shufflebox configuration.",
}

// configValidateCmd validates the current configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the current configuration file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup basic logging for validation
		if err := logger.Setup("info", "text"); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			slog.Error("Configuration validation failed", slog.Any("error", err))
			return err
		}

		slog.Info("Configuration is valid")
		fmt.Println("✅ Configuration is valid")
		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current configuration values from file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Setup("info", "text"); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Println("Current Configuration:")
		fmt.Printf("  Audio:\n")
		fmt.Printf("    Folder: %s\n", cfg.Audio.Folder)
		fmt.Printf("    Count: %d\n", cfg.Audio.Count)
		fmt.Printf("    Sample rate: %d\n", cfg.Audio.SampleRate)
		fmt.Printf("    Buffer: %s\n", cfg.Audio.Buffer)
		fmt.Printf("  Button:\n")
		fmt.Printf("    Chip: %s\n", cfg.Button.Chip)
		fmt.Printf("    Line: %d\n", cfg.Button.Line)
		fmt.Printf("    Poll interval: %s\n", cfg.Button.PollInterval)
		fmt.Printf("    Debounce: %s\n", cfg.Button.Debounce)
		fmt.Printf("  Playback:\n")
		fmt.Printf("    Settle: %s\n", cfg.Playback.Settle)
		fmt.Printf("  Discord:\n")
		fmt.Printf("    Webhook URL: %s\n", maskURL(cfg.Discord.WebhookURL))
		fmt.Printf("  Logging:\n")
		fmt.Printf("    Level: %s\n", cfg.Logging.Level)
		fmt.Printf("    Format: %s\n", cfg.Logging.Format)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

// maskURL masks a webhook URL for display
func maskURL(url string) string {
	if url == "" {
		return "(disabled)"
	}
	if len(url) <= 20 {
		return "***"
	}
	return url[:20] + "***"
}
