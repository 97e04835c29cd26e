package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/codegraph/diffgraph"
	"github.com/viant/codegraph/identity"
	"github.com/viant/codegraph/orchestrator"
)

var flagPrevStates string

var diffCmd = &cobra.Command{
	Use:   "diff [source] [file-diffs.json] [output.json]",
	Short: "Build a diff-mode overlay graph for a set of changed files",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, diffsPath, output := args[0], args[1], args[2]

		var fileDiffs []diffgraph.FileDiff
		raw, err := os.ReadFile(diffsPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &fileDiffs); err != nil {
			return fmt.Errorf("decode file diffs: %w", err)
		}

		cfg := orchestrator.Config{RootPath: source, UseGitignore: true, EnvironmentTag: "codegraph"}
		o := orchestrator.New(cfg, defaultRegistry().Registry)
		if _, err := o.Run(context.Background()); err != nil {
			return err
		}

		prEnv := identity.Environment{Tag: "codegraph", DiffIdentifier: "pr"}
		differ := diffgraph.New(o.Store(), fileDiffs, o.Environment(), prEnv)
		differ.MarkUpdatedAndAddedNodes()

		ext := &diffgraph.ExternalRelationshipStore{}
		if flagPrevStates != "" {
			var prev []diffgraph.PreviousNodeState
			raw, err := os.ReadFile(flagPrevStates)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &prev); err != nil {
				return fmt.Errorf("decode previous node states: %w", err)
			}
			if err := differ.CreateRelationshipsFromPreviousNodeStates(prev, ext); err != nil {
				return err
			}
		}
		if err := differ.AddDeletedFileRelationships(ext); err != nil {
			return err
		}

		filtered := differ.KeepOnlyFilesToCreate()
		nodes, edges := filtered.Export()

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"nodes":                  nodes,
			"edges":                  edges,
			"external_relationships": ext.All(),
		})
	},
}

func init() {
	diffCmd.Flags().StringVar(&flagPrevStates, "previous-states", "", "path to a PreviousNodeState JSON array")
	rootCmd.AddCommand(diffCmd)
}
