package domain

import "sort"

// EnumSet holds the type names introduced by enum typedefs across every
// input header. It is read-only once built.
type EnumSet struct {
	names map[string]struct{}
}

func NewEnumSet(names ...string) EnumSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			m[n] = struct{}{}
		}
	}
	return EnumSet{names: m}
}

func (s EnumSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s EnumSet) Len() int {
	return len(s.names)
}

// Names returns the members in lexicographic order.
func (s EnumSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
