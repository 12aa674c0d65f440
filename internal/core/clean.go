package core

// clean.go is the pre-pass shared by ingestion and preview: it removes the
// structural noise vendor exports carry before any schema work happens.

import "strings"

// CleanTable returns a copy of t with fully-empty rows and fully-empty
// columns dropped and every cell trimmed. Whitespace-only cells collapse
// to the empty string. When stripNonASCII is set, non-ASCII runes are
// removed from every cell; the transform is lossy for non-English content
// and is off by default.
func CleanTable(t RawTable, stripNonASCII bool) RawTable {
	cols := len(t.Headers)

	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if stripNonASCII {
			s = stripHighRunes(s)
		}
		return s
	}

	headers := make([]string, cols)
	for i, h := range t.Headers {
		headers[i] = clean(h)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, cols)
		empty := true
		for i := 0; i < cols && i < len(row); i++ {
			cells[i] = clean(row[i])
			if cells[i] != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, cells)
		}
	}

	// Drop columns that are empty in the header and every surviving row.
	keep := make([]bool, cols)
	for i := 0; i < cols; i++ {
		keep[i] = headers[i] != ""
		if keep[i] {
			continue
		}
		for _, row := range rows {
			if row[i] != "" {
				keep[i] = true
				break
			}
		}
	}

	out := RawTable{}
	for i := 0; i < cols; i++ {
		if keep[i] {
			out.Headers = append(out.Headers, headers[i])
		}
	}
	for _, row := range rows {
		cells := make([]string, 0, len(out.Headers))
		for i := 0; i < cols; i++ {
			if keep[i] {
				cells = append(cells, row[i])
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func stripHighRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
