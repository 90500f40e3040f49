package cmd

import (
	"fmt"

	"shufflebox/catalog"
	"shufflebox/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var showMissingOnly bool

// catalogCmd lists the clip paths and whether each one exists
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the clip catalog",
	Long:  "List every clip path the player will draw from and report which files are missing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		paths, err := catalog.Build(cfg.Audio.Folder, cfg.Audio.Count)
		if err != nil {
			return fmt.Errorf("failed to build catalog: %w", err)
		}

		missing := 0
		for _, e := range catalog.Check(afero.NewOsFs(), paths) {
			if !e.Present {
				missing++
				fmt.Printf("  missing  %s\n", e.Path)
				continue
			}
			if !showMissingOnly {
				fmt.Printf("  ok       %s (%d bytes)\n", e.Path, e.Size)
			}
		}

		fmt.Printf("%d clips, %d missing\n", len(paths), missing)
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&showMissingOnly, "missing", false, "only list missing files")
	rootCmd.AddCommand(catalogCmd)
}
