// Command codegraph walks a source tree and emits the hierarchy and
// reference property graph the orchestrator package builds.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codegraph",
	Short: "Build a property graph from a source repository",
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("codegraph failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultRegistry() *registryHolder {
	return newRegistryHolder()
}
