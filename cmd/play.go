package cmd

import (
	"fmt"
	"strconv"

	"shufflebox/catalog"
	"shufflebox/playback"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// playCmd plays one clip by number, bypassing the button and the draw pool
var playCmd = &cobra.Command{
	Use:   "play <index>",
	Short: "Play a single clip",
	Long:  "Play the clip with the given number through the configured audio output. Useful to check wiring.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 1 {
			return fmt.Errorf("invalid clip index %q", args[0])
		}

		cfg, err := loadSetup()
		if err != nil {
			return err
		}
		if index > cfg.Audio.Count {
			return fmt.Errorf("clip %d is outside the catalog (1-%d)", index, cfg.Audio.Count)
		}

		spk, err := playback.NewSpeaker(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Buffer)
		if err != nil {
			return err
		}
		defer spk.Close()

		engine := playback.NewEngine(afero.NewOsFs(), spk, cfg.Playback.Settle)
		out := engine.Play(catalog.Path(cfg.Audio.Folder, index))
		if out.Result != playback.Completed {
			return fmt.Errorf("%s: %s: %w", out.Path, out.Result, out.Err)
		}

		fmt.Printf("Played %s\n", out.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
