// Package cmd provides command-line interface for solid list processing.
// This file contains commands for inspecting and exporting solid lists.
package cmd

import (
	"fmt"
	"strings"

	"github.com/hansbonini/solidtools/pkg"
	"github.com/hansbonini/solidtools/pkg/common"
	"github.com/spf13/cobra"
)

// solidsCmd represents the parent command for all solid list operations
var solidsCmd = &cobra.Command{
	Use:   "solids",
	Short: "Process solid list mesh containers",
	Long: `Process solid list mesh containers from chunked game files.

Commands:
  info      Print a summary of every solid list in a file
  dump      Export every solid list in a file to YAML
  profiles  List the supported format profiles
  pack      Write a solid list (not supported)

Examples:
  solidtools solids info TRACKGEOMETRY.BIN --profile mw
  solidtools solids dump GEOMETRY.BIN geometry.yaml --profile ps`,
}

// solidsInfoCmd decodes a file and prints list and object summaries
var solidsInfoCmd = &cobra.Command{
	Use:   "info [input_file]",
	Short: "Print a summary of every solid list in a file",
	Long: `Decode every solid list found in a chunked file and print, per object,
its name, hash, materials, faces and vertex buffers.

Example:
  solidtools solids info TRACKGEOMETRY.BIN --profile mw
  solidtools solids info -v GEOMETRY.BIN --profile ug2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		processor, err := newProcessor(cmd)
		if err != nil {
			return err
		}

		lists, err := processor.DecodeInputFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", inputFile, err)
		}

		for i, list := range lists {
			fmt.Printf("Solid list #%d: %s (%s)\n", i, list.ClassType, list.PipelinePath)
			fmt.Printf("  Objects: %d (declared %d)\n", len(list.Objects), list.ObjectCount)
			for _, obj := range list.Objects {
				fmt.Printf("  - %s\n", obj)
				for _, m := range obj.Materials {
					fmt.Printf("      %-32s texture 0x%08X stream %d tris %d\n",
						m.Name, m.TextureHash, m.VertexStreamIndex, m.NumTris)
				}
			}
		}
		return nil
	},
}

// solidsDumpCmd exports every solid list of a file to YAML
var solidsDumpCmd = &cobra.Command{
	Use:   "dump [input_file] [output_file]",
	Short: "Export every solid list in a file to YAML",
	Long: `Decode every solid list found in a chunked file and export it to YAML.
Each list becomes its own YAML document.

Example:
  solidtools solids dump GEOMETRY.BIN geometry.yaml --profile ps`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputFile := args[1]

		processor, err := newProcessor(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Processing file: %s\n", inputFile)
		fmt.Printf("Output file: %s\n", outputFile)

		if err := processor.Process(inputFile, outputFile); err != nil {
			return fmt.Errorf("failed to export solid lists: %w", err)
		}

		fmt.Println("Solid lists exported successfully!")
		return nil
	},
}

// solidsProfilesCmd lists the registered format profiles
var solidsProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the supported format profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range pkg.ProfileNames() {
			profile, err := pkg.ProfileByName(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-14s %s\n", profile.Name, profile.Description)

			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Printf("  list chunks:   %s\n", formatIDs(profile.ListHandlerIDs()))
				fmt.Printf("  object chunks: %s\n", formatIDs(profile.ObjectHandlerIDs()))
			}
		}
		return nil
	},
}

// solidsPackCmd is the write direction, kept so the failure is explicit
var solidsPackCmd = &cobra.Command{
	Use:   "pack [input_file] [output_file]",
	Short: "Write a solid list (not supported)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor, err := newProcessor(cmd)
		if err != nil {
			return err
		}
		return processor.WriteSolidList(cmd.OutOrStdout(), &pkg.SolidList{})
	},
}

// newProcessor applies the verbose flag and resolves the --profile flag
func newProcessor(cmd *cobra.Command) (*pkg.SolidListFileProcessor, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("error getting verbose flag: %w", err)
	}
	common.SetVerboseMode(verbose)

	name, err := cmd.Flags().GetString("profile")
	if err != nil {
		return nil, fmt.Errorf("error getting profile flag: %w", err)
	}
	profile, err := pkg.ProfileByName(name)
	if err != nil {
		return nil, err
	}
	return pkg.NewSolidListProcessor(profile), nil
}

func formatIDs(ids []uint32) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("0x%08X", id))
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(solidsCmd)

	solidsCmd.AddCommand(solidsInfoCmd)
	solidsCmd.AddCommand(solidsDumpCmd)
	solidsCmd.AddCommand(solidsProfilesCmd)
	solidsCmd.AddCommand(solidsPackCmd)

	solidsCmd.PersistentFlags().StringP("profile", "p", pkg.MostWantedProfile.Name,
		fmt.Sprintf("Format profile (%s)", strings.Join(pkg.ProfileNames(), ", ")))
}
