// Package selection provides the id selection set shared by the wizard,
// the catalog picker and the detail editor. Membership is keyed by id,
// insertion order is preserved and duplicates are impossible.
package selection

type Set struct {
	order   []string
	members map[string]struct{}
}

func NewSet(ids ...string) *Set {
	s := &Set{members: make(map[string]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Set) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Add inserts id at the end of the set. It reports whether the set
// changed; adding a member twice is a no-op.
func (s *Set) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *Set) Remove(id string) bool {
	if !s.Contains(id) {
		return false
	}
	delete(s.members, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle removes id if present, adds it otherwise. It reports whether
// the id is a member after the call.
func (s *Set) Toggle(id string) bool {
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// IDs returns the members in insertion order. The slice is a copy.
func (s *Set) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) Clone() *Set {
	return NewSet(s.order...)
}

func (s *Set) Clear() {
	s.order = nil
	s.members = make(map[string]struct{})
}
