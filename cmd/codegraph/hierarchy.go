package main

import "github.com/spf13/cobra"

// hierarchyCmd is a thin alias for `build --hierarchy-only`, kept as a
// distinct subcommand since skipping reference resolution is a
// common enough entry point to deserve its own name.
var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy [source] [output.json]",
	Short: "Build only the folder/file/definition hierarchy, skipping reference resolution",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		flagHierarchyOnly = true
		return buildCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(hierarchyCmd)
}
