// Package cmd provides the CLI commands for docsearch.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/docsearch-mcp/internal/config"
	"github.com/dshills/docsearch-mcp/internal/storage"
)

var (
	version = "dev"

	configPath string
	dbPath     string
	corpusDir  string
)

// NewRootCmd creates the root command for the docsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Full-text documentation index and MCP search server",
		Long: `docsearch indexes a directory of markdown documents into bounded-size
passages in SQLite FTS5 and answers ranked search, filter, and relatedness
queries over them, either as one-off CLI calls or as an MCP server on stdio.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate(fmt.Sprintf(
		"docsearch version {{.Version}} (%s build, driver %s)\n",
		storage.BuildMode, storage.DriverName))

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "Corpus directory (overrides config)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig resolves the effective configuration from file, environment,
// and flags, flags last.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if corpusDir != "" {
		cfg.CorpusDir = corpusDir
	}
	return cfg, nil
}
