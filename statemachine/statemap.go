package statemachine

// StateMap is an insertion-ordered string->State map. ASL documents are
// JSON objects, and object-key order is significant for serialization
// round-tripping (spec.md §5: "object-key iteration preserves insertion
// order"), so a plain Go map (which iterates in random order) cannot back
// the States field directly.
type StateMap struct {
	order []string
	m     map[string]State
}

// NewStateMap returns an empty ordered map.
func NewStateMap() *StateMap {
	return &StateMap{m: make(map[string]State)}
}

// Set adds or replaces the state named name. A replace keeps its
// original position in iteration order.
func (s *StateMap) Set(name string, state State) {
	if _, exists := s.m[name]; !exists {
		s.order = append(s.order, name)
	}
	s.m[name] = state
}

// Get looks up the state named name.
func (s *StateMap) Get(name string) (State, bool) {
	st, ok := s.m[name]
	return st, ok
}

// Keys returns the state names in insertion order.
func (s *StateMap) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports the number of states.
func (s *StateMap) Len() int { return len(s.order) }
