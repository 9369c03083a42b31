package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muninndb/muninn/pkg/catalog"
	"github.com/muninndb/muninn/pkg/codec"
	"github.com/muninndb/muninn/pkg/packing"
	"github.com/muninndb/muninn/pkg/schema"
)

// promauto metrics register globally, so the test binary shares one set
var testMetrics = NewMetrics()

func newTestServer(t *testing.T) (*Server, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return NewServer(cat, ServerConfig{}, testMetrics), cat
}

func accountsSchema() *schema.Schema {
	return &schema.Schema{
		Table: "accounts",
		Columns: []schema.Column{
			{Name: "id", Type: schema.Integer},
			{Name: "email", Type: schema.VarChar},
			{Name: "balance", Type: schema.Decimal, Length: 8, Scale: 2},
		},
	}
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func frameRows(t *testing.T, sch *schema.Schema, rows ...[]interface{}) []byte {
	t.Helper()
	var enc codec.Encoder
	var out bytes.Buffer
	for _, values := range rows {
		buf, err := enc.EncodeRow(sch, values)
		require.NoError(t, err)
		require.LessOrEqual(t, len(buf), math.MaxUint16, "row does not fit a frame")
		var prefix [packing.Uint16Size]byte
		packing.PutUint16(prefix[:], uint16(len(buf)))
		out.Write(prefix[:])
		out.Write(buf)
	}
	return out.Bytes()
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSchemaLifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	body, err := accountsSchema().Marshal()
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodPut, "/v1/tables/accounts/schema", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, s, http.MethodGet, "/v1/tables/accounts/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	loaded, err := schema.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "accounts", loaded.Table)
	assert.Len(t, loaded.Columns, 3)

	rec = doRequest(t, s, http.MethodGet, "/v1/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts")

	rec = doRequest(t, s, http.MethodDelete, "/v1/tables/accounts/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/v1/tables/accounts/schema", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutSchemaTableMismatch(t *testing.T) {
	s, _ := newTestServer(t)
	body, err := accountsSchema().Marshal()
	require.NoError(t, err)
	rec := doRequest(t, s, http.MethodPut, "/v1/tables/orders/schema", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeRows(t *testing.T) {
	s, cat := newTestServer(t)
	_, err := cat.Put(accountsSchema())
	require.NoError(t, err)

	body := frameRows(t, accountsSchema(),
		[]interface{}{int64(1), "batman@wayne.co", "-123.45"},
		[]interface{}{int64(2), "alfred@wayne.co", "0.05"},
	)
	rec := doRequest(t, s, http.MethodPost, "/v1/tables/accounts/decode", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, float64(1), resp.Data[0]["id"])
	assert.Equal(t, "batman@wayne.co", resp.Data[0]["email"])
	assert.Equal(t, "-123.45", resp.Data[0]["balance"])
	assert.Equal(t, "0.05", resp.Data[1]["balance"])
}

func TestDecodeUnknownTable(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/tables/ghosts/decode", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecodeTruncatedFrame(t *testing.T) {
	s, cat := newTestServer(t)
	_, err := cat.Put(accountsSchema())
	require.NoError(t, err)

	body := frameRows(t, accountsSchema(), []interface{}{int64(1), "a", "0.00"})
	rec := doRequest(t, s, http.MethodPost, "/v1/tables/accounts/decode", body[:len(body)-3])
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEncodeRows(t *testing.T) {
	s, cat := newTestServer(t)
	_, err := cat.Put(accountsSchema())
	require.NoError(t, err)

	body := []byte(`[
		{"id": 1, "email": "batman@wayne.co", "balance": "-123.45"},
		{"id": 2, "email": "alfred@wayne.co", "balance": 0.05}
	]`)
	rec := doRequest(t, s, http.MethodPost, "/v1/tables/accounts/encode", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

	// round the response back through the decoder
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	sch := accountsSchema()
	off := 0
	var rows [][]interface{}
	for off < len(raw) {
		n := int(packing.Uint16(raw[off : off+2]))
		off += 2
		values, err := codec.DecodeRow(sch, raw[off:off+n])
		require.NoError(t, err)
		off += n
		rows = append(rows, values)
	}
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0][0])
	assert.Equal(t, "-123.45", rows[0][2])
	assert.Equal(t, "0.05", rows[1][2])
}

func TestEncodeRejectsOversizedRow(t *testing.T) {
	s, cat := newTestServer(t)
	_, err := cat.Put(&schema.Schema{
		Table: "wide",
		Columns: []schema.Column{
			{Name: "a", Type: schema.VarChar},
			{Name: "b", Type: schema.VarChar},
		},
	})
	require.NoError(t, err)

	// each column fits its varchar prefix, the framed row does not
	text := strings.Repeat("x", 40000)
	body := []byte(fmt.Sprintf(`[{"a": %q, "b": %q}]`, text, text))
	rec := doRequest(t, s, http.MethodPost, "/v1/tables/wide/encode", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "maximum frame size")
}

func TestEncodeRejectsBadValues(t *testing.T) {
	s, cat := newTestServer(t)
	_, err := cat.Put(accountsSchema())
	require.NoError(t, err)

	testCases := []struct {
		name string
		body string
		code int
	}{
		{"float for integer column", `[{"id": 1.5, "email": "x", "balance": "0.00"}]`, http.StatusUnprocessableEntity},
		{"malformed decimal", `[{"id": 1, "email": "x", "balance": "1.2.3"}]`, http.StatusUnprocessableEntity},
		{"missing column", `[{"id": 1, "email": "x"}]`, http.StatusUnprocessableEntity},
		{"not json", `{{{`, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/v1/tables/accounts/encode", []byte(tc.body))
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}
