// Package schema defines the column descriptor model shared by the row
// decoder and encoder. A schema is the ordered list of column descriptors
// for one table; column order determines the byte layout of every row.
package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Type identifies a column's wire type family.
type Type string

const (
	ByteInt   Type = "byteint"   // 1-byte signed integer
	SmallInt  Type = "smallint"  // 2-byte signed integer
	Integer   Type = "integer"   // 4-byte signed integer
	BigInt    Type = "bigint"    // 8-byte signed integer
	Float     Type = "float"     // IEEE-754 double
	Decimal   Type = "decimal"   // fixed-point, width 1/2/4/8/16 bytes
	Char      Type = "char"      // fixed-width, blank padded
	VarChar   Type = "varchar"   // 2-byte length prefix
	Date      Type = "date"      // 4-byte day code
	Time      Type = "time"      // HH:MM:SS stored as fixed-width text
	Timestamp Type = "timestamp" // YYYY-MM-DD HH:MM:SS stored as fixed-width text
)

// Column describes one column of a table: its wire type, physical width,
// decimal scale and nullability. Columns are immutable once a schema is
// built; the codec shares them read-only across rows.
type Column struct {
	Name     string `yaml:"name"`
	Type     Type   `yaml:"type"`
	Length   int    `yaml:"length,omitempty"`
	Scale    int    `yaml:"scale,omitempty"`
	Nullable bool   `yaml:"nullable,omitempty"`
}

// Schema is the ordered column layout for one table.
type Schema struct {
	Table   string   `yaml:"table"`
	Columns []Column `yaml:"columns"`
}

// integerWidths maps the integer type families to their fixed byte widths.
var integerWidths = map[Type]int{
	ByteInt:  1,
	SmallInt: 2,
	Integer:  4,
	BigInt:   8,
}

// decimalDigits maps the legal decimal byte widths to the maximum number of
// significant digits each can represent.
var decimalDigits = map[int]int{
	1:  2,
	2:  4,
	4:  9,
	8:  18,
	16: 38,
}

// FixedWidth returns the byte width of the integer family type t, or 0 if t
// is not an integer family type.
func FixedWidth(t Type) int {
	return integerWidths[t]
}

// DecimalWidthValid reports whether w is a legal decimal byte width.
func DecimalWidthValid(w int) bool {
	_, ok := decimalDigits[w]
	return ok
}

// Validate checks a single column descriptor for internal consistency.
func (c Column) Validate() error {
	switch c.Type {
	case ByteInt, SmallInt, Integer, BigInt, Float, Date:
		// Fixed widths are implied by the type.
	case Decimal:
		if !DecimalWidthValid(c.Length) {
			return fmt.Errorf("column %q: invalid decimal width %d (want 1, 2, 4, 8 or 16)", c.Name, c.Length)
		}
		if c.Scale < 0 || c.Scale > decimalDigits[c.Length] {
			return fmt.Errorf("column %q: scale %d out of range for %d-byte decimal", c.Name, c.Scale, c.Length)
		}
	case Char, Time, Timestamp:
		if c.Length <= 0 {
			return fmt.Errorf("column %q: %s requires a positive length", c.Name, c.Type)
		}
	case VarChar:
		// Width comes from the inline length prefix.
	default:
		return fmt.Errorf("column %q: unknown type %q", c.Name, c.Type)
	}
	if c.Type != Decimal && c.Scale != 0 {
		return fmt.Errorf("column %q: scale is only meaningful for decimal columns", c.Name)
	}
	return nil
}

// Validate checks every column of the schema.
func (s *Schema) Validate() error {
	if s.Table == "" {
		return fmt.Errorf("schema has no table name")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %q has no columns", s.Table)
	}
	for _, c := range s.Columns {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads and validates a schema from a YAML file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse unmarshals and validates a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the schema to a YAML file, creating parent directories as
// needed.
func (s *Schema) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}

// Marshal renders the schema as YAML.
func (s *Schema) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
