// Package cli implements the captioner command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "captioner",
	Short: "Draw captions onto images",
	Long: `captioner overlays a wrapped text caption along the bottom edge of an image.

It runs as an HTTP service (serve), captions local files (render), or
prints the computed layout for a caption (wrap).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "captioner "+version)
	},
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
