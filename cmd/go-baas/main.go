// Package main provides the go-baas CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-baas/pkg/config"
	"github.com/adfharrison1/go-baas/pkg/platform"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// v holds defaults, environment overrides and bound flags.
	v = config.New()

	// cfg is the decoded configuration, loaded before every command but version.
	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "go-baas",
	Short: "go-baas is a small backend-as-a-service",
	Long: `go-baas serves document collections, a keyed tree and file uploads over HTTP.
Stores are chosen by configuration: an embedded engine for local work, or
SQLite, MongoDB, bbolt and Redis backed handles.

Configuration comes from go-baas.yaml in the working directory (or --config),
GOBAAS_* environment variables and flags, in increasing priority.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./go-baas.yaml)")
	rootCmd.PersistentFlags().String("docstore", config.BackendMemory, "document store backend: memory, sqlite or mongo")
	rootCmd.PersistentFlags().String("tree", config.BackendMemory, "tree store backend: memory, bolt or redis")
	rootCmd.PersistentFlags().String("data-file", "go-baas_data.godb", "data file path for the memory backend")
	cobra.CheckErr(v.BindPFlag(config.KeyDocBackend, rootCmd.PersistentFlags().Lookup("docstore")))
	cobra.CheckErr(v.BindPFlag(config.KeyTreeBackend, rootCmd.PersistentFlags().Lookup("tree")))
	cobra.CheckErr(v.BindPFlag(config.KeyDocDataFile, rootCmd.PersistentFlags().Lookup("data-file")))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(usersCmd)
}

// loadConfig decodes and validates configuration for the running command.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	loaded, err := config.Load(v, configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded
	return nil
}

// openPlatform connects the configured stores.
func openPlatform(ctx context.Context) (*platform.Platform, error) {
	p, err := platform.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}
	return p, nil
}
