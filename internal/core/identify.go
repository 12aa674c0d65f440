package core

import (
	"strings"
)

// DefaultMatchThreshold is the minimum overlap ratio between a file's
// headers and a record type's field or alias names for the type to match.
// Exact subsets score 1.0, so the threshold is a floor for partial
// matches, never a barrier to exact ones.
const DefaultMatchThreshold = 0.8

// keylogSignature is the normalized header set that short-circuits
// identification to Keylogs. Keylogs' narrow shape overlaps SMS and
// ChatMessages, so the signature check runs before ratio matching.
var keylogSignature = []string{"application", "time", "text"}

// NormalizeHeader canonicalizes a source header for comparison: lowercase,
// trimmed, internal whitespace runs collapsed to single underscores, so
// "Phone Number", "phone number", and "phone_number" compare equal.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// Identifier fuzzy-matches a file's header row against a registry to
// select a record type.
type Identifier struct {
	reg       *Registry
	threshold float64
}

// NewIdentifier creates an identifier over reg. A non-positive threshold
// falls back to DefaultMatchThreshold.
func NewIdentifier(reg *Registry, threshold float64) *Identifier {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Identifier{reg: reg, threshold: threshold}
}

// Identify selects the record type for the given header row, or returns
// an UnidentifiedSchemaError carrying the raw headers. Ties between types
// that both clear the threshold resolve in registry declaration order.
func (id *Identifier) Identify(headers []string) (RecordType, error) {
	headerSet := make(map[string]bool, len(headers))
	for _, h := range headers {
		if n := NormalizeHeader(h); n != "" {
			headerSet[n] = true
		}
	}

	if containsAll(headerSet, keylogSignature) {
		if rt, err := id.reg.Lookup("Keylogs"); err == nil {
			return rt, nil
		}
	}

	for _, rt := range id.reg.Types() {
		if id.fieldRatio(rt, headerSet) >= id.threshold ||
			id.aliasRatio(rt, headerSet) >= id.threshold {
			return rt, nil
		}
	}

	return RecordType{}, &UnidentifiedSchemaError{Headers: headers}
}

// fieldRatio is |canonical fields present in the file| / |canonical fields|.
func (id *Identifier) fieldRatio(rt RecordType, headerSet map[string]bool) float64 {
	hits := 0
	for _, f := range rt.Fields {
		if headerSet[NormalizeHeader(f)] {
			hits++
		}
	}
	return float64(hits) / float64(len(rt.Fields))
}

// aliasRatio is |alias headers present in the file| / |alias headers|.
func (id *Identifier) aliasRatio(rt RecordType, headerSet map[string]bool) float64 {
	if len(rt.Aliases) == 0 {
		return 0
	}
	hits := 0
	for alias := range rt.Aliases {
		if headerSet[NormalizeHeader(alias)] {
			hits++
		}
	}
	return float64(hits) / float64(len(rt.Aliases))
}

func containsAll(set map[string]bool, keys []string) bool {
	for _, k := range keys {
		if !set[k] {
			return false
		}
	}
	return true
}
