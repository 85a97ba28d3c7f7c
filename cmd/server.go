package cmd

import (
	"mpdfm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the mpdfm HTTP server",
	Long:  `Start the HTTP server that exposes the MPD remote-control API and the per-user playlist API.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
