package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/codegraph/orchestrator"
)

var (
	flagHierarchyOnly bool
	flagUseGitignore  bool
	flagAuxIgnore     string
	flagMaxFileSizeMB float64
	flagConfigPath    string
)

var buildCmd = &cobra.Command{
	Use:   "build [source] [output.json]",
	Short: "Build the hierarchy graph for a repository (no LSP client is configured, so reference edges are not resolved)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, output := args[0], args[1]

		cfg := orchestrator.Config{
			RootPath:            source,
			UseGitignore:        flagUseGitignore,
			AuxiliaryIgnorePath: flagAuxIgnore,
			MaxFileSizeMiB:      flagMaxFileSizeMB,
			HierarchyOnly:       flagHierarchyOnly,
			EnvironmentTag:      "codegraph",
		}

		if flagConfigPath != "" {
			fc, err := loadFileConfig(flagConfigPath)
			if err != nil {
				return err
			}
			cfg = fc.toOrchestratorConfig()
			if cfg.RootPath == "" {
				cfg.RootPath = source
			}
			if cmd.Flags().Changed("hierarchy-only") {
				cfg.HierarchyOnly = flagHierarchyOnly
			}
		}

		o := orchestrator.New(cfg, defaultRegistry().Registry)

		start := time.Now()
		fmt.Printf("Building %s from %s...\n", output, source)
		store, err := o.Run(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Done in %v.\n", time.Since(start))

		nodes, edges := store.Export()
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"nodes": nodes, "edges": edges})
	},
}

func init() {
	buildCmd.Flags().BoolVar(&flagHierarchyOnly, "hierarchy-only", false, "skip reference resolution")
	buildCmd.Flags().BoolVar(&flagUseGitignore, "gitignore", true, "respect .gitignore files")
	buildCmd.Flags().StringVar(&flagAuxIgnore, "ignore-file", "", "path to an auxiliary ignore file")
	buildCmd.Flags().Float64Var(&flagMaxFileSizeMB, "max-file-size-mb", 0.8, "skip files larger than this many MiB")
	buildCmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a YAML config file (overrides other flags, except an explicitly passed --hierarchy-only)")
	rootCmd.AddCommand(buildCmd)
}
