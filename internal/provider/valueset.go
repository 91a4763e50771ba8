package provider

// ValueSet is a set of values keyed by their provider-assigned stable ids.
// A nil *ValueSet reads as an empty set: Has, Len and Clone accept it, Add
// does not.
type ValueSet struct {
	ids map[string]struct{}
}

// NewValueSet returns a set holding the given ids.
func NewValueSet(ids ...string) *ValueSet {
	s := &ValueSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was not already present. It panics
// on a nil set.
func (s *ValueSet) Add(id string) bool {
	if s == nil {
		panic("provider: Add on a nil ValueSet")
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has reports whether id is in the set.
func (s *ValueSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *ValueSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Clone returns an independent copy of the set.
func (s *ValueSet) Clone() *ValueSet {
	out := &ValueSet{ids: make(map[string]struct{}, s.Len())}
	if s != nil {
		for id := range s.ids {
			out.ids[id] = struct{}{}
		}
	}
	return out
}
