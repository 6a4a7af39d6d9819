package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/docsearch-mcp/internal/query"
	"github.com/dshills/docsearch-mcp/internal/storage"
)

func newSearchCmd() *cobra.Command {
	var (
		category string
		tags     []string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-off search against the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.SearchLimit
			}

			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			results, err := query.NewEngine(store).Search(cmd.Context(), query.SearchRequest{
				Query:    strings.Join(args, " "),
				Category: category,
				Tags:     tags,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return fmt.Errorf("failed to encode results: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Restrict to one document category")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require a tag (repeatable; all must match)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (default from config)")

	return cmd
}
