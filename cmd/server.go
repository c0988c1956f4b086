package cmd

import (
	"moodfm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the moodfm HTTP server",
	Long:  `Start the moodfm HTTP server, serving the ingestion, deletion and catalog APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
