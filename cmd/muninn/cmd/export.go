package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/muninndb/muninn/pkg/archive"
	"github.com/muninndb/muninn/pkg/codec"
	"github.com/muninndb/muninn/pkg/schema"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <archive>",
	Short: "Decode an archive of raw rows to delimited text or JSON",
	Long: `Decode an archive of raw rows to delimited text or JSON using the
table's cataloged schema.

Examples:
  muninn export accounts.muna --table accounts
  muninn export accounts.muna --table accounts --format json --output accounts.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyExportDefaults(cmd); err != nil {
			return err
		}
		table, _ := cmd.Flags().GetString("table")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")

		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}
		sch, err := cat.Get(table)
		if err != nil {
			return err
		}

		reader, err := archive.Open(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		out := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		var rows int64
		switch format {
		case "csv":
			rows, err = exportCSV(out, reader, sch, delimiter)
		case "json":
			rows, err = exportJSON(out, reader, sch)
		default:
			return fmt.Errorf("unknown format %q (want csv or json)", format)
		}
		if err != nil {
			return err
		}

		cmd.Printf("Exported %d rows from %s\n", rows, table)
		return nil
	},
}

func exportCSV(out io.Writer, reader *archive.Reader, sch *schema.Schema, delimiter string) (int64, error) {
	w := csv.NewWriter(out)
	if delimiter != "" {
		w.Comma, _ = utf8.DecodeRuneInString(delimiter)
	}
	if err := w.Write(sch.Names()); err != nil {
		return 0, err
	}

	var rows int64
	record := make([]string, len(sch.Columns))
	for {
		raw, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		values, err := codec.DecodeRow(sch, raw)
		if err != nil {
			return rows, fmt.Errorf("row %d: %w", rows, err)
		}
		for i, col := range sch.Columns {
			record[i] = formatValue(col, values[i])
		}
		if err := w.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	w.Flush()
	return rows, w.Error()
}

func exportJSON(out io.Writer, reader *archive.Reader, sch *schema.Schema) (int64, error) {
	enc := json.NewEncoder(out)
	var rows int64
	for {
		raw, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		values, err := codec.DecodeRow(sch, raw)
		if err != nil {
			return rows, fmt.Errorf("row %d: %w", rows, err)
		}
		row := make(map[string]interface{}, len(sch.Columns))
		for i, col := range sch.Columns {
			row[col.Name] = values[i]
		}
		if err := enc.Encode(row); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("table", "t", "", "Table whose schema describes the rows (required)")
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().String("delimiter", "|", "Field delimiter for csv output")
	_ = exportCmd.MarkFlagRequired("table")
}
