package cmd

import (
	"github.com/spf13/cobra"

	"github.com/muninndb/muninn/pkg/schema"
)

// schemaCmd groups the catalog management subcommands
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage cataloged table schemas",
}

var schemaAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add or replace a table schema from a YAML file",
	Long: `Add or replace a table schema from a YAML file.

Example:
  muninn schema add accounts.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		entry, err := cat.Put(s)
		if err != nil {
			return err
		}
		cmd.Printf("Stored schema for %s (revision %s)\n", s.Table, entry.Revision)
		return nil
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Print a cataloged schema as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}
		s, err := cat.Get(args[0])
		if err != nil {
			return err
		}
		data, err := s.Marshal()
		if err != nil {
			return err
		}
		cmd.Print(string(data))
		return nil
	},
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}
		tables, err := cat.List()
		if err != nil {
			return err
		}
		for _, table := range tables {
			cmd.Println(table)
		}
		return nil
	},
}

var schemaRmCmd = &cobra.Command{
	Use:   "rm <table>",
	Short: "Remove a cataloged schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}
		if err := cat.Delete(args[0]); err != nil {
			return err
		}
		cmd.Printf("Removed schema for %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaAddCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaRmCmd)
}
