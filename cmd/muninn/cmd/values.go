package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/muninndb/muninn/pkg/schema"
)

// formatValue renders a decoded value as field text for delimited output.
func formatValue(col schema.Column, v interface{}) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		if col.Type == schema.Time {
			return x.Format("15:04:05")
		}
		return x.Format("2006-01-02 15:04:05")
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// nullValue is what a nullable column carries when the input field is
// null. The wire format has no null indicator, so a null loads as the
// column's zero value: numeric zero, empty text, or the zero day code.
func nullValue(col schema.Column) interface{} {
	switch col.Type {
	case schema.ByteInt, schema.SmallInt, schema.Integer, schema.BigInt:
		return int64(0)
	case schema.Float:
		return float64(0)
	case schema.Decimal:
		return "0"
	case schema.Date:
		// encodes as day code 0
		return "1900-00-00"
	default:
		return ""
	}
}

// parseTextValue converts field text from delimited input to the native
// type the encoder expects for the column.
func parseTextValue(col schema.Column, s string) (interface{}, error) {
	switch col.Type {
	case schema.ByteInt, schema.SmallInt, schema.Integer, schema.BigInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		return n, nil
	case schema.Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a float", s)
		}
		return f, nil
	default:
		return s, nil
	}
}
