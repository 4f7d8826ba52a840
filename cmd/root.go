// Package cmd provides the command-line interface for the civic311 pipeline.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "civic311",
	Short: "civic311 moves civic service-request data into a daily reporting mart",
	Long: `civic311 is a two-stage batch pipeline over civic service-request data.

The ingest stage pulls the latest records from a Socrata open-data
endpoint and fully refreshes a raw snapshot collection in MongoDB. The
transform stage aggregates that snapshot into a daily summary mart
(requests per day, category and status), again as a full refresh.

The stages share no runtime state and are meant to be invoked in order
by an external scheduler; they meet only through the persisted
collections.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add the ingest command
	rootCmd.AddCommand(ingestCmd)

	// Add the transform command
	rootCmd.AddCommand(transformCmd)

	// Add the status command
	rootCmd.AddCommand(statusCmd)
}
