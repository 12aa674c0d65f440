package web

// errors.go provides unified error response handling for the web layer.
// Technical details are logged server-side with the request ID; clients
// get a JSON body with a stable machine-readable code.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evidence-tools/phonedb/internal/core"
	"github.com/evidence-tools/phonedb/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error and writes the mapped JSON
// response. The status code and code string come from classify.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// classify maps pipeline errors to HTTP status codes. Client-side
// problems with the uploaded file are 4xx; everything else is a 500.
func classify(err error) (status int, code string) {
	var unident *core.UnidentifiedSchemaError
	var schema *core.SchemaError

	switch {
	case errors.Is(err, core.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE"
	case errors.As(err, &unident):
		return http.StatusUnprocessableEntity, "UNIDENTIFIED_SCHEMA"
	case errors.As(err, &schema):
		return http.StatusUnprocessableEntity, "SCHEMA_MISMATCH"
	case errors.Is(err, core.ErrTypeNotFound):
		return http.StatusNotFound, "TYPE_NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
