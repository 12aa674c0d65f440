package core

// timeparse.go turns arbitrary date/time text from vendor exports into
// timezone-aware instants.
//
// Inputs observed in the wild:
//   - blank cells
//   - Unix epoch seconds and spreadsheet serial dates ("45450.5")
//   - vendor formats without a year ("Jun 7, 1:28 PM")
//   - ISO, US, and RFC-style strings, with or without zone info
//
// Parse is a total function: it never returns an error, only (time, false)
// for anything it cannot make sense of.

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of the spreadsheet serial date system.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Layouts without a year component. Parsed values get the current year.
var yearlessLayouts = []string{
	"Jan 2, 3:04 PM",
	"Jan 2, 15:04",
}

// Explicit layouts tried before the generic fallback list.
var explicitLayouts = []string{
	"2006-01-02 15:04:05",
	"Jan 2, 2006 3:04 PM",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04 PM",
}

// fallbackLayouts approximates a free-text date parser. The corpus has no
// general parsing library, so coverage comes from enumerating the formats
// seen in exports.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
}

// TimeParser normalizes raw date/time values into instants in a target
// location.
type TimeParser struct {
	loc *time.Location
	log *slog.Logger

	// now is swappable so tests can pin the current year.
	now func() time.Time
}

// NewTimeParser returns a parser that localizes zone-less values to loc
// and converts zoned values into loc. A nil loc means UTC.
func NewTimeParser(loc *time.Location, log *slog.Logger) *TimeParser {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &TimeParser{loc: loc, log: log, now: time.Now}
}

// Parse converts a raw cell value into an instant in the parser's
// location. The second return is false when the value is blank or
// unparseable; blank is silent, unparseable logs a warning.
func (p *TimeParser) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, ok := p.fromNumber(f); ok {
			return t, true
		}
		p.log.Warn("failed to parse timestamp", "value", raw)
		return time.Time{}, false
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			t = t.AddDate(p.now().Year()-t.Year(), 0, 0)
			return t, true
		}
	}

	for _, layout := range explicitLayouts {
		if t, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			return t.In(p.loc), true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			return t.In(p.loc), true
		}
	}

	p.log.Warn("failed to parse timestamp", "value", raw)
	return time.Time{}, false
}

// fromNumber interprets a numeric value as Unix epoch seconds, falling
// back to a spreadsheet serial date (days since 1899-12-30). Serial dates
// all land in 1970-1971 when read as epoch seconds, so results in that
// band are re-read as serials.
func (p *TimeParser) fromNumber(f float64) (time.Time, bool) {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	t := time.Unix(sec, nsec).In(p.loc)
	if t.Year() > 1971 && t.Year() <= p.now().Year()+10 {
		return t, true
	}

	days := int(f)
	frac := f - float64(days)
	t = serialEpoch.AddDate(0, 0, days).
		Add(time.Duration(frac * 24 * float64(time.Hour)))
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, p.loc)
	if t.Year() >= 1900 && t.Year() <= p.now().Year()+10 {
		return t, true
	}
	return time.Time{}, false
}
