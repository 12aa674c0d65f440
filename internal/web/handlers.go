package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/evidence-tools/phonedb/internal/core"
)

// tableInfo is one entry in the /api/tables response.
type tableInfo struct {
	Name   string   `json:"name"`
	Table  string   `json:"table"`
	Fields []string `json:"fields"`
	Rows   int      `json:"rows"`
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTables returns the registered record types with current row
// counts.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	var out []tableInfo
	seen := map[string]bool{}
	for _, rt := range s.service.Types() {
		// Aliased types share a table; report each table once.
		if seen[rt.Table] {
			continue
		}
		seen[rt.Table] = true

		n, err := s.service.CountRows(r.Context(), rt.Table)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		out = append(out, tableInfo{
			Name:   rt.Name,
			Table:  rt.Table,
			Fields: rt.Fields,
			Rows:   n,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleIngest accepts a multipart upload, runs the full pipeline, and
// returns the ingestion statistics.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := s.receiveFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer cleanup()

	stats, err := s.service.Ingest(r.Context(), path)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// previewResponse wraps a sampled table with the identified record
// type. RecordType is empty when no type matched; the sample is still
// returned so the caller can inspect the unrecognized headers.
type previewResponse struct {
	RecordType string `json:"record_type,omitempty"`
	core.RawTable
}

// handlePreview accepts a multipart upload and returns a cleaned sample
// of the rows that would be ingested. Nothing is written to the store.
// The rows query parameter bounds the sample size (default 10).
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "rows must be a positive integer",
				Code:  "BAD_REQUEST",
			})
			return
		}
		limit = n
	}

	path, cleanup, err := s.receiveFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer cleanup()

	table, typeName, err := s.service.Preview(path, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{RecordType: typeName, RawTable: table})
}

// receiveFile extracts the multipart "file" field into a temp file,
// keeping the upload's extension so the reader can dispatch on it. The
// returned cleanup removes the temp file.
func (s *Server) receiveFile(w http.ResponseWriter, r *http.Request) (string, func(), error) {
	maxSize := s.cfg.Ingest.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return "", nil, fmt.Errorf("file too large or invalid form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		return "", nil, fmt.Errorf("%w: filename %q has no extension",
			core.ErrUnsupportedFileType, header.Filename)
	}

	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("save upload: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
