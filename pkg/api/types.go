package api

import (
	"github.com/muninndb/muninn/pkg/catalog"
	"github.com/muninndb/muninn/pkg/schema"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind string
	Port int
	// Lenient selects the legacy-truncation encode mode for the
	// encode endpoint.
	Lenient bool
}

// SchemaStore defines the catalog operations the API needs
type SchemaStore interface {
	Put(s *schema.Schema) (*catalog.Entry, error)
	Get(table string) (*schema.Schema, error)
	List() ([]string, error)
	Delete(table string) error
}
