package cmd

import (
	"fmt"

	"mpdfm/config"
	"mpdfm/core/library"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the music directory and print every playable file",
	Long:  `Walk the configured music directory and print the relative path of every .mp3/.flac file, in the order the library API would return them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		files, err := library.Scan(cfg.MusicDir)
		if err != nil {
			return fmt.Errorf("scan %s: %w", cfg.MusicDir, err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		fmt.Printf("%d files\n", len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
