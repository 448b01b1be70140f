// Package cmd provides command-line interface functionality for SolidTools.
// SolidTools decodes the chunked solid list mesh containers used by the
// Underground 2, Most Wanted and ProStreet racing titles.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the SolidTools application.
var rootCmd = &cobra.Command{
	Use:   "solidtools",
	Short: "Tools for inspecting solid list mesh containers",
	Long: `SolidTools - utilities for decoding solid list mesh containers
(object headers, materials, vertex streams and faces) from chunked game files.

Currently supports:
  - Underground 2 (profile ug2)
  - Most Wanted (profile mw)
  - ProStreet, including compressed objects (profiles ps, ps-testtrack)

Examples:
  solidtools solids info TRACKGEOMETRY.BIN --profile mw
  solidtools solids dump GEOMETRY.BIN geometry.yaml --profile ug2
  solidtools solids profiles

Use 'solidtools [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
}
