package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidence-tools/phonedb/internal/config"
	"github.com/evidence-tools/phonedb/internal/core"
	"github.com/evidence-tools/phonedb/internal/ingest"
	"github.com/evidence-tools/phonedb/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: time.Minute,
		},
		Store: config.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")},
		Ingest: config.IngestConfig{
			Timezone:       "UTC",
			BatchSize:      store.DefaultBatchSize,
			MatchThreshold: core.DefaultMatchThreshold,
			MaxFileSize:    1 << 20,
		},
	}

	st, err := store.Open(cfg.Store.Path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := ingest.NewService(cfg, st)
	require.NoError(t, err)
	require.NoError(t, svc.InitStore(context.Background()))

	return NewServer(svc, cfg)
}

// multipartBody builds a multipart form with one file field.
func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestIngestEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "contacts.csv",
		"Name,Phone Number,Email Id,Last Contacted\n"+
			"Alice,+15550001,alice@example.com,2024-06-07 13:28:00\n")

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats core.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "Contacts", stats.TableName)
	assert.Equal(t, 1, stats.TotalRows)
	assert.Equal(t, 1, stats.ProcessedRows)
	assert.Equal(t, 0, stats.FailedRows)
}

func TestIngestEndpointUnidentifiedSchema(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "mystery.csv", "Foo,Bar\n1,2\n")

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNIDENTIFIED_SCHEMA", resp.Code)
}

func TestIngestEndpointUnsupportedExtension(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "notes.txt", "hello\n")

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "contacts.csv",
		"Name,Phone Number,Email Id,Last Contacted\n"+
			"Alice,+15550001,alice@example.com,\n"+
			"Bob,+15550002,bob@example.com,\n"+
			"Carol,+15550003,carol@example.com,\n")

	req := httptest.NewRequest(http.MethodPost, "/api/preview?rows=2", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Contacts", resp.RecordType)
	assert.Len(t, resp.Rows, 2)
}

func TestPreviewEndpointUnidentifiedSchema(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "mystery.csv", "Foo,Bar\n1,2\n")

	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	// Unidentified files still preview; the type field stays empty.
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.RecordType)
	assert.Equal(t, []string{"Foo", "Bar"}, resp.Headers)
	assert.Len(t, resp.Rows, 1)
}

func TestPreviewEndpointBadRowsParam(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "contacts.csv", "Name\nAlice\n")

	req := httptest.NewRequest(http.MethodPost, "/api/preview?rows=zero", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTablesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var tables []tableInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))

	// KeylogImport shares the Keylogs table, so six tables for seven types.
	assert.Len(t, tables, 6)
	for _, ti := range tables {
		assert.Zero(t, ti.Rows)
		assert.NotEmpty(t, ti.Fields)
	}
}
