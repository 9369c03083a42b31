// Package catalog persists table schemas between runs, so export and load
// can resolve a table name to its column layout without re-reading schema
// files. Entries live in a pebble keyspace under the data directory; each
// put records a fresh ksuid revision.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"

	"github.com/muninndb/muninn/pkg/schema"
)

// ErrNotFound means the catalog has no schema for the requested table.
var ErrNotFound = errors.New("catalog: table not found")

var keyPrefix = []byte("schema/")

// Entry is one stored schema revision.
type Entry struct {
	Revision string         `yaml:"revision"`
	StoredAt time.Time      `yaml:"stored_at"`
	Schema   *schema.Schema `yaml:"schema"`
}

// Catalog is a pebble-backed table-schema store.
type Catalog struct {
	db *pebble.DB
}

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Put validates and stores a schema under its table name, replacing any
// previous revision.
func (c *Catalog) Put(s *schema.Schema) (*Entry, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	entry := &Entry{
		Revision: ksuid.New().String(),
		StoredAt: time.Now().UTC(),
		Schema:   s,
	}
	data, err := yaml.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog entry: %w", err)
	}
	if err := c.db.Set(tableKey(s.Table), data, pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to store schema for %q: %w", s.Table, err)
	}
	return entry, nil
}

// Get returns the stored schema for a table.
func (c *Catalog) Get(table string) (*schema.Schema, error) {
	entry, err := c.GetEntry(table)
	if err != nil {
		return nil, err
	}
	return entry.Schema, nil
}

// GetEntry returns the stored schema revision for a table.
func (c *Catalog) GetEntry(table string) (*Entry, error) {
	data, closer, err := c.db.Get(tableKey(table))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, table)
		}
		return nil, fmt.Errorf("failed to read schema for %q: %w", table, err)
	}
	defer closer.Close()

	var entry Entry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse catalog entry for %q: %w", table, err)
	}
	return &entry, nil
}

// List returns the names of all cataloged tables in key order.
func (c *Catalog) List() ([]string, error) {
	upper := append(append([]byte{}, keyPrefix...), 0xFF)
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	defer iter.Close()

	var tables []string
	for iter.First(); iter.Valid(); iter.Next() {
		tables = append(tables, string(iter.Key()[len(keyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return tables, nil
}

// Delete removes a table's schema. Deleting an unknown table reports
// ErrNotFound rather than succeeding silently.
func (c *Catalog) Delete(table string) error {
	if _, err := c.GetEntry(table); err != nil {
		return err
	}
	if err := c.db.Delete(tableKey(table), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete schema for %q: %w", table, err)
	}
	return nil
}

// Close closes the underlying store.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func tableKey(table string) []byte {
	return append(append([]byte{}, keyPrefix...), table...)
}
