package core

import "fmt"

// Registry is an explicit, read-only catalog of record types. Declaration
// order is significant: the Identifier resolves threshold ties in favor of
// the earliest registered type, so tests and callers construct their own
// instances instead of sharing ambient process state.
type Registry struct {
	order []string
	types map[string]RecordType
}

// NewRegistry returns a registry pre-populated with the six phone-export
// record types (plus the KeylogImport alias).
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]RecordType)}
	for _, rt := range catalog() {
		r.Register(rt)
	}
	return r
}

// NewEmptyRegistry returns a registry with no types. Primarily useful for
// tests that need a controlled catalog.
func NewEmptyRegistry() *Registry {
	return &Registry{types: make(map[string]RecordType)}
}

// Register adds a record type. It panics on a duplicate name or a type
// violating the catalog invariants (non-empty field list, kind list length
// equal to field list length); both are programming errors in the static
// catalog, not runtime conditions.
func (r *Registry) Register(rt RecordType) {
	if _, exists := r.types[rt.Name]; exists {
		panic(fmt.Sprintf("record type already registered: %s", rt.Name))
	}
	if len(rt.Fields) == 0 {
		panic(fmt.Sprintf("record type %s has no fields", rt.Name))
	}
	if len(rt.Fields) != len(rt.Kinds) {
		panic(fmt.Sprintf("record type %s: %d fields but %d kinds",
			rt.Name, len(rt.Fields), len(rt.Kinds)))
	}
	if rt.Table == "" {
		rt.Table = rt.Name
	}
	r.order = append(r.order, rt.Name)
	r.types[rt.Name] = rt
}

// Lookup returns a record type by name.
func (r *Registry) Lookup(name string) (RecordType, error) {
	rt, ok := r.types[name]
	if !ok {
		return RecordType{}, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return rt, nil
}

// Types returns all record types in declaration order.
func (r *Registry) Types() []RecordType {
	result := make([]RecordType, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.types[name])
	}
	return result
}

// Len returns the number of registered record types.
func (r *Registry) Len() int {
	return len(r.order)
}
