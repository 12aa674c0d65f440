package core

import (
	"log/slog"
)

// Options control how the Normalizer treats cells that fail coercion.
type Options struct {
	// Strict drops rows containing any defaulted cell instead of keeping
	// them with per-kind defaults. Lenient (false) is the canonical
	// behavior.
	Strict bool

	// StripNonASCII removes non-ASCII runes during the cleaning pre-pass.
	// Lossy for non-English names and message text; off by default.
	StripNonASCII bool
}

// Normalizer maps a raw table's columns onto a record type's canonical
// fields and coerces every cell to its declared kind.
type Normalizer struct {
	times *TimeParser
	opts  Options
	log   *slog.Logger
}

// NewNormalizer creates a normalizer that uses times for timestamp fields.
func NewNormalizer(times *TimeParser, opts Options, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{times: times, opts: opts, log: log}
}

// Normalize projects t down to the canonical fields of rt that can be
// resolved from its headers (directly or via aliases) and coerces every
// cell. It returns the surviving records plus the number of rows dropped
// by strict mode. A SchemaError is returned when zero fields resolve.
//
// Coercion failures never fail the call: in lenient mode the per-kind
// default is applied and logged per column, in strict mode the row is
// dropped and counted.
func (n *Normalizer) Normalize(t RawTable, rt RecordType) (records []Record, dropped int, err error) {
	colIdx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		key := NormalizeHeader(h)
		if _, seen := colIdx[key]; !seen {
			colIdx[key] = i
		}
	}

	// Resolve each canonical field to a source column: canonical name
	// first, then any declared alias. Unresolved fields are simply left
	// out of the projection.
	var fields []string
	var sources []int
	for _, field := range rt.Fields {
		if pos, ok := colIdx[NormalizeHeader(field)]; ok {
			fields = append(fields, field)
			sources = append(sources, pos)
			continue
		}
		for alias, canonical := range rt.Aliases {
			if canonical != field {
				continue
			}
			if pos, ok := colIdx[NormalizeHeader(alias)]; ok {
				fields = append(fields, field)
				sources = append(sources, pos)
				break
			}
		}
	}

	if len(fields) == 0 {
		return nil, 0, &SchemaError{
			Type:   rt.Name,
			Reason: "none of the canonical fields are present in the file",
		}
	}

	defaultCounts := make(map[string]int)

	for _, row := range t.Rows {
		rec := Record{Fields: fields, Cells: make([]Cell, len(fields))}
		for i, src := range sources {
			raw := ""
			if src < len(row) {
				raw = row[src]
			}
			cell := CoerceCell(raw, rt.KindOf(fields[i]), n.times)
			if cell.Defaulted {
				defaultCounts[fields[i]]++
			}
			rec.Cells[i] = cell
		}

		if n.opts.Strict && rec.Defaulted() {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	for field, count := range defaultCounts {
		n.log.Warn("cell coercion failures",
			"type", rt.Name,
			"field", field,
			"count", count,
			"strict", n.opts.Strict,
		)
	}

	return records, dropped, nil
}
