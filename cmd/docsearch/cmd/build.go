package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/docsearch-mcp/internal/indexer"
	"github.com/dshills/docsearch-mcp/internal/loader"
	"github.com/dshills/docsearch-mcp/internal/storage"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the index from the corpus directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log.SetOutput(os.Stderr)

			docs, err := loader.LoadDir(cfg.CorpusDir)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := indexer.New(store).Build(cmd.Context(), docs)
			if err != nil {
				return err
			}

			fmt.Printf("indexed %d docs into %d chunks (%d tags) in %s\n",
				stats.Docs, stats.Chunks, stats.Tags, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
}
