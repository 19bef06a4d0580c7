package domain

import "sort"

// Registry maps function names to signatures. The first signature added for
// a name is kept; later ones are ignored.
type Registry struct {
	entries map[string]Signature
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Signature)}
}

// Add inserts sig unless its name is already present. It reports whether
// sig was stored.
func (r *Registry) Add(sig Signature) bool {
	if _, exists := r.entries[sig.Name]; exists {
		return false
	}
	r.entries[sig.Name] = sig
	return true
}

func (r *Registry) Get(name string) (Signature, bool) {
	sig, ok := r.entries[name]
	return sig, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the registered names in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entries returns the signatures ordered by name.
func (r *Registry) Entries() []Signature {
	names := r.Names()
	out := make([]Signature, len(names))
	for i, n := range names {
		out[i] = r.entries[n]
	}
	return out
}
