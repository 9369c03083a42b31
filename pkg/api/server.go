// Package api exposes the row codec and schema catalog over HTTP: decode
// and encode endpoints per table, schema CRUD, health and prometheus
// metrics.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the HTTP router for the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", s.metrics.InstrumentHandler("GET", "/health", s.handleHealth))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tables", s.metrics.InstrumentHandler("GET", "/v1/tables", s.handleListTables))
		r.Get("/tables/{table}/schema", s.metrics.InstrumentHandler("GET", "/v1/tables/{table}/schema", s.handleGetSchema))
		r.Put("/tables/{table}/schema", s.metrics.InstrumentHandler("PUT", "/v1/tables/{table}/schema", s.handlePutSchema))
		r.Delete("/tables/{table}/schema", s.metrics.InstrumentHandler("DELETE", "/v1/tables/{table}/schema", s.handleDeleteSchema))

		r.Post("/tables/{table}/decode", s.metrics.InstrumentHandler("POST", "/v1/tables/{table}/decode", s.handleDecode))
		r.Post("/tables/{table}/encode", s.metrics.InstrumentHandler("POST", "/v1/tables/{table}/encode", s.handleEncode))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(store SchemaStore, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(store, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting muninn codec API on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, server.Routes())
}
