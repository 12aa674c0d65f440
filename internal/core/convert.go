package core

// convert.go coerces raw cell text to the declared field kinds.
//
// Coercion is best-effort: a value that cannot be converted receives the
// per-kind default (integer 0, absent timestamp, empty text) and the cell
// is tagged Defaulted rather than failing the row. The pipeline favors
// ingesting what it can over hard failure; strict callers filter on the
// tag.

import (
	"math"
	"strconv"
	"strings"
)

// CoerceInteger parses a raw value as a whole number. Decimal inputs such
// as "12.0" truncate toward zero, matching the store's INTEGER columns.
// Blank or non-numeric input yields (0, true): zero with the defaulted tag.
func CoerceInteger(raw string) (value int64, defaulted bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(math.Trunc(f)), false
	}
	return 0, true
}

// CoerceCell converts one raw value according to kind, using times for
// timestamp fields.
func CoerceCell(raw string, kind FieldKind, times *TimeParser) Cell {
	switch kind {
	case KindInteger:
		v, defaulted := CoerceInteger(raw)
		return Cell{Kind: kind, Int: v, Defaulted: defaulted}
	case KindTimestamp:
		t, ok := times.Parse(raw)
		// A blank timestamp is absent by policy, not a coercion failure.
		defaulted := !ok && strings.TrimSpace(raw) != ""
		return Cell{Kind: kind, Time: t, HasTime: ok, Defaulted: defaulted}
	default:
		return Cell{Kind: kind, Text: CleanCell(raw)}
	}
}

// CleanCell removes common export artifacts from a cell value: surrounding
// whitespace, the Excel formula prefix (="..."), and stray wrapping quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
