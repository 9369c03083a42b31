package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muninndb/muninn/pkg/catalog"
	"github.com/muninndb/muninn/pkg/config"
)

type contextKey string

// catalogKey locates the opened schema catalog in the command context.
const catalogKey contextKey = "catalog"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "muninn",
	Short: "muninn - bulk row codec for the legacy warehouse wire format",
	Long: `muninn decodes and encodes the fixed-width, type-tagged columnar row
format used by legacy warehouse bulk export and load, converting archives
of raw rows to and from delimited text and JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		cat, err := catalog.Open(dataDir + "/catalog")
		if err != nil {
			return fmt.Errorf("failed to open schema catalog: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), catalogKey, cat))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cat, ok := cmd.Context().Value(catalogKey).(*catalog.Catalog); ok {
			return cat.Close()
		}
		return nil
	},
}

// catalogFromContext returns the catalog opened by the root command.
func catalogFromContext(cmd *cobra.Command) (*catalog.Catalog, error) {
	cat, ok := cmd.Context().Value(catalogKey).(*catalog.Catalog)
	if !ok {
		return nil, fmt.Errorf("catalog not found in context")
	}
	return cat, nil
}

// applyExportDefaults fills the delimiter and null-token flags from the
// config file when the user did not set them on the command line.
func applyExportDefaults(cmd *cobra.Command) error {
	path := config.GetDefaultConfigPath()
	if !config.ConfigExists(path) {
		return nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("delimiter"); f != nil && !f.Changed && cfg.Export.Delimiter != "" {
		if err := f.Value.Set(cfg.Export.Delimiter); err != nil {
			return err
		}
	}
	if f := cmd.Flags().Lookup("null"); f != nil && !f.Changed && cfg.Export.NullToken != "" {
		if err := f.Value.Set(cfg.Export.NullToken); err != nil {
			return err
		}
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global data directory flag
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the schema catalog")
}
