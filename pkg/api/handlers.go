package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muninndb/muninn/pkg/catalog"
	"github.com/muninndb/muninn/pkg/codec"
	"github.com/muninndb/muninn/pkg/packing"
	"github.com/muninndb/muninn/pkg/schema"
)

// Server holds the API server state
type Server struct {
	catalog SchemaStore
	encoder codec.Encoder
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store SchemaStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		catalog: store,
		encoder: codec.Encoder{Lenient: config.Lenient},
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.catalog.List()
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]interface{}{"tables": tables})
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	sch, err := s.catalog.Get(table)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}
	data, err := sch.Marshal()
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePutSchema(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	sch, err := schema.Parse(body)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sch.Table != table {
		sendError(w, fmt.Sprintf("schema is for table %q, URL names %q", sch.Table, table), http.StatusBadRequest)
		return
	}
	entry, err := s.catalog.Put(sch)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sendSuccess(w, map[string]string{"table": table, "revision": entry.Revision})
}

func (s *Server) handleDeleteSchema(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if err := s.catalog.Delete(table); err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}
	sendSuccess(w, map[string]string{"table": table})
}

// handleDecode turns a stream of length-prefixed row buffers into JSON
// rows keyed by column name.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	sch, err := s.catalog.Get(table)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var rows []map[string]interface{}
	off := 0
	for off < len(body) {
		if len(body)-off < packing.Uint16Size {
			s.recordCodecFailure("decode", codec.ErrShortBuffer, len(rows))
			sendError(w, fmt.Sprintf("row %d: truncated frame prefix", len(rows)), http.StatusUnprocessableEntity)
			return
		}
		n := int(packing.Uint16(body[off : off+packing.Uint16Size]))
		off += packing.Uint16Size
		if len(body)-off < n {
			s.recordCodecFailure("decode", codec.ErrShortBuffer, len(rows))
			sendError(w, fmt.Sprintf("row %d: truncated frame", len(rows)), http.StatusUnprocessableEntity)
			return
		}
		values, err := codec.DecodeRow(sch, body[off:off+n])
		if err != nil {
			s.recordCodecFailure("decode", err, len(rows))
			sendError(w, fmt.Sprintf("row %d: %v", len(rows), err), statusForError(err))
			return
		}
		off += n

		row := make(map[string]interface{}, len(sch.Columns))
		for i, col := range sch.Columns {
			row[col.Name] = values[i]
		}
		rows = append(rows, row)
	}

	s.metrics.RecordRows("decode", true, len(rows), len(body))
	sendSuccess(w, rows)
}

// handleEncode turns a JSON array of rows into a stream of
// length-prefixed row buffers.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	sch, err := s.catalog.Get(table)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		sendError(w, fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest)
		return
	}

	var out bytes.Buffer
	for i, row := range rows {
		values := make([]interface{}, len(sch.Columns))
		for j, col := range sch.Columns {
			raw, ok := row[col.Name]
			if !ok {
				sendError(w, fmt.Sprintf("row %d: missing column %q", i, col.Name), http.StatusUnprocessableEntity)
				return
			}
			v, err := coerceValue(col, raw)
			if err != nil {
				s.recordCodecFailure("encode", err, i)
				sendError(w, fmt.Sprintf("row %d, column %q: %v", i, col.Name, err), statusForError(err))
				return
			}
			values[j] = v
		}
		buf, err := s.encoder.EncodeRow(sch, values)
		if err != nil {
			s.recordCodecFailure("encode", err, i)
			sendError(w, fmt.Sprintf("row %d: %v", i, err), statusForError(err))
			return
		}
		// the 2-byte prefix cannot frame a larger row
		if len(buf) > math.MaxUint16 {
			s.recordCodecFailure("encode", codec.ErrValueRange, i)
			sendError(w, fmt.Sprintf("row %d: %d-byte row exceeds the maximum frame size", i, len(buf)), http.StatusUnprocessableEntity)
			return
		}
		var prefix [packing.Uint16Size]byte
		packing.PutUint16(prefix[:], uint16(len(buf)))
		out.Write(prefix[:])
		out.Write(buf)
	}

	s.metrics.RecordRows("encode", true, len(rows), out.Len())
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Bytes())
}

// coerceValue converts the JSON representation of a value to the native
// type the encoder expects for the column. Strings pass through; numbers
// become int64 or float64 per the column family. Mismatches are left for
// the encoder to reject, so the error taxonomy stays in one place.
func coerceValue(col schema.Column, v interface{}) (interface{}, error) {
	num, ok := v.(json.Number)
	if !ok {
		return v, nil
	}
	switch col.Type {
	case schema.ByteInt, schema.SmallInt, schema.Integer, schema.BigInt:
		n, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not an integer", codec.ErrTypeMismatch, num)
		}
		return n, nil
	case schema.Float:
		f, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a float", codec.ErrTypeMismatch, num)
		}
		return f, nil
	case schema.Decimal:
		return num.String(), nil
	default:
		return num.String(), nil
	}
}

func (s *Server) recordCodecFailure(operation string, err error, rows int) {
	s.metrics.RecordRows(operation, false, rows, 0)
	s.metrics.RecordCodecError(operation, errorKind(err))
}

// statusForError maps the codec and catalog error taxonomy onto HTTP
// status codes: unknown tables are 404, values that cannot be encoded or
// buffers that cannot be decoded are 422, everything else is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrShortBuffer),
		errors.Is(err, codec.ErrTrailingBytes),
		errors.Is(err, codec.ErrTypeMismatch),
		errors.Is(err, codec.ErrValueRange),
		errors.Is(err, codec.ErrMalformedDecimal),
		errors.Is(err, codec.ErrMalformedDate),
		errors.Is(err, codec.ErrConversion):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, codec.ErrShortBuffer):
		return "short_buffer"
	case errors.Is(err, codec.ErrTrailingBytes):
		return "trailing_bytes"
	case errors.Is(err, codec.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, codec.ErrValueRange):
		return "value_range"
	case errors.Is(err, codec.ErrMalformedDecimal):
		return "malformed_decimal"
	case errors.Is(err, codec.ErrMalformedDate):
		return "malformed_date"
	case errors.Is(err, codec.ErrConversion):
		return "conversion"
	default:
		return "other"
	}
}
