package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFileType is returned when an input file's extension is not
// .csv, .xlsx, or .xls.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrTypeNotFound is returned by Registry.Lookup for an unknown record
// type name.
var ErrTypeNotFound = errors.New("record type not found")

// UnidentifiedSchemaError is returned when no record type matches a file's
// header row. It carries the actual headers so the caller can surface them
// for diagnosis.
type UnidentifiedSchemaError struct {
	Headers []string
}

func (e *UnidentifiedSchemaError) Error() string {
	return fmt.Sprintf("could not identify record type from headers: [%s]",
		strings.Join(e.Headers, ", "))
}

// SchemaError is returned when a record type was identified but none of
// its canonical fields could be resolved from the file's columns.
type SchemaError struct {
	Type   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for %s: %s", e.Type, e.Reason)
}
