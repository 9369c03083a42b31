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

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <input>",
	Short: "Encode delimited text or JSON rows into an archive",
	Long: `Encode delimited text or JSON rows into an archive of raw rows using
the table's cataloged schema. A row that does not fit its column widths is
rejected; pass --lenient to truncate it the way the legacy loader did.

Examples:
  muninn load accounts.csv --table accounts --output accounts.muna
  muninn load accounts.json --table accounts --format json --output accounts.muna --lenient`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyExportDefaults(cmd); err != nil {
			return err
		}
		table, _ := cmd.Flags().GetString("table")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		nullToken, _ := cmd.Flags().GetString("null")
		lenient, _ := cmd.Flags().GetBool("lenient")

		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}
		sch, err := cat.Get(table)
		if err != nil {
			return err
		}

		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer in.Close()

		writer, err := archive.Create(output)
		if err != nil {
			return err
		}

		enc := codec.Encoder{Lenient: lenient}
		switch format {
		case "csv":
			err = loadCSV(in, writer, sch, enc, delimiter, nullToken)
		case "json":
			err = loadJSON(in, writer, sch, enc)
		default:
			err = fmt.Errorf("unknown format %q (want csv or json)", format)
		}
		if err != nil {
			writer.Close()
			return err
		}

		rows := writer.Rows()
		if err := writer.Close(); err != nil {
			return err
		}
		cmd.Printf("Loaded %d rows into %s\n", rows, output)
		return nil
	},
}

func loadCSV(in io.Reader, writer *archive.Writer, sch *schema.Schema, enc codec.Encoder, delimiter, nullToken string) error {
	r := csv.NewReader(in)
	if delimiter != "" {
		r.Comma, _ = utf8.DecodeRuneInString(delimiter)
	}

	header, err := r.Read()
	if err == io.EOF {
		return fmt.Errorf("input has no header row")
	}
	if err != nil {
		return err
	}
	order, err := columnOrder(sch, header)
	if err != nil {
		return err
	}

	var rows int64
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		values := make([]interface{}, len(sch.Columns))
		for i, col := range sch.Columns {
			field := record[order[i]]
			if field == nullToken || (field == "" && col.Nullable) {
				if !col.Nullable {
					return fmt.Errorf("row %d: column %q is not nullable", rows, col.Name)
				}
				values[i] = nullValue(col)
				continue
			}
			v, err := parseTextValue(col, field)
			if err != nil {
				return fmt.Errorf("row %d, column %q: %w", rows, col.Name, err)
			}
			values[i] = v
		}
		if err := appendRow(writer, sch, enc, values, rows); err != nil {
			return err
		}
		rows++
	}
}

func loadJSON(in io.Reader, writer *archive.Writer, sch *schema.Schema, enc codec.Encoder) error {
	dec := json.NewDecoder(in)
	dec.UseNumber()

	var rows int64
	for {
		var row map[string]interface{}
		if err := dec.Decode(&row); err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("row %d: invalid JSON: %w", rows, err)
		}
		values := make([]interface{}, len(sch.Columns))
		for i, col := range sch.Columns {
			raw, ok := row[col.Name]
			if !ok {
				return fmt.Errorf("row %d: missing column %q", rows, col.Name)
			}
			if raw == nil {
				if !col.Nullable {
					return fmt.Errorf("row %d: column %q is not nullable", rows, col.Name)
				}
				values[i] = nullValue(col)
				continue
			}
			if num, isNum := raw.(json.Number); isNum {
				v, err := parseTextValue(col, num.String())
				if err != nil {
					return fmt.Errorf("row %d, column %q: %w", rows, col.Name, err)
				}
				values[i] = v
			} else {
				values[i] = raw
			}
		}
		if err := appendRow(writer, sch, enc, values, rows); err != nil {
			return err
		}
		rows++
	}
}

func appendRow(writer *archive.Writer, sch *schema.Schema, enc codec.Encoder, values []interface{}, row int64) error {
	buf, err := enc.EncodeRow(sch, values)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := writer.Append(buf); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}

// columnOrder maps schema positions to header positions, so input files
// may carry columns in any order.
func columnOrder(sch *schema.Schema, header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	order := make([]int, len(sch.Columns))
	for i, col := range sch.Columns {
		pos, ok := index[col.Name]
		if !ok {
			return nil, fmt.Errorf("input header is missing column %q", col.Name)
		}
		order[i] = pos
	}
	return order, nil
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringP("table", "t", "", "Table whose schema describes the rows (required)")
	loadCmd.Flags().StringP("format", "f", "csv", "Input format: csv or json")
	loadCmd.Flags().StringP("output", "o", "", "Archive file to create (required)")
	loadCmd.Flags().String("delimiter", "|", "Field delimiter for csv input")
	loadCmd.Flags().String("null", "NULL", "Field text treated as null in csv input")
	loadCmd.Flags().Bool("lenient", false, "Truncate over-wide values like the legacy loader")
	_ = loadCmd.MarkFlagRequired("table")
	_ = loadCmd.MarkFlagRequired("output")
}
