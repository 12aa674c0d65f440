// Package core implements the schema-inference and record-normalization
// pipeline for phone-monitoring exports. This package has no UI or storage
// dependencies and can be driven by any shell.
package core

import "time"

// FieldKind is the declared data type of a canonical field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInteger
	KindTimestamp
)

// String returns a human-readable name for a field kind.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// RecordType describes one of the fixed target schemas: its canonical
// field list, the declared kind of each field, and the known source-header
// spellings that map to each field.
type RecordType struct {
	// Name is the registry key and the table name reported in statistics.
	Name string

	// Table is the storage table. Usually equal to Name; KeylogImport
	// shares the Keylogs table.
	Table string

	// Fields are the canonical column names, in storage order.
	Fields []string

	// Kinds holds the declared kind for each field, parallel to Fields.
	Kinds []FieldKind

	// Aliases maps known source-header spellings to canonical field names.
	Aliases map[string]string
}

// KindOf returns the declared kind for a canonical field.
// Unknown fields report KindText.
func (rt RecordType) KindOf(field string) FieldKind {
	for i, f := range rt.Fields {
		if f == field {
			return rt.Kinds[i]
		}
	}
	return KindText
}

// RawTable is an in-memory tabular file: one header row plus data rows.
// No invariant holds on the header names; inferring their meaning is the
// job of the Identifier and Normalizer.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Cell is the coerced value of a single field in a normalized record.
// Defaulted marks cells whose raw value failed coercion and received the
// per-kind default (integer 0, absent timestamp, empty text) instead of
// failing the row. Callers running in strict mode reject such rows.
type Cell struct {
	Kind      FieldKind
	Text      string
	Int       int64
	Time      time.Time
	HasTime   bool
	Defaulted bool
}

// Value returns the cell as a database-ready value. Absent timestamps
// become nil so the store writes NULL.
func (c Cell) Value() any {
	switch c.Kind {
	case KindInteger:
		return c.Int
	case KindTimestamp:
		if !c.HasTime {
			return nil
		}
		return c.Time
	default:
		return c.Text
	}
}

// Record is one normalized row. Cells are parallel to Fields, which lists
// the canonical fields that were resolvable from the source file, in the
// record type's declaration order.
type Record struct {
	Fields []string
	Cells  []Cell
}

// Defaulted reports whether any cell in the record had a default applied.
func (r Record) Defaulted() bool {
	for _, c := range r.Cells {
		if c.Defaulted {
			return true
		}
	}
	return false
}

// Stats summarizes one ingestion call. Produced once per call, never
// persisted.
type Stats struct {
	TableName     string `json:"table_name"`
	TotalRows     int    `json:"total_rows"`
	ProcessedRows int    `json:"processed_rows"`
	FailedRows    int    `json:"failed_rows"`
}
