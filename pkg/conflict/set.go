package conflict

// Set accumulates the conflicts of one processing run.
type Set struct {
	conflicts []Conflict
}

func NewSet() *Set {
	return &Set{}
}

func (s *Set) Add(conflicts ...Conflict) {
	s.conflicts = append(s.conflicts, conflicts...)
}

// Merge appends every conflict of other.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	s.Add(other.conflicts...)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.conflicts)
}

// All returns a copy of the conflicts in insertion order.
func (s *Set) All() []Conflict {
	return s.filter(func(Conflict) bool { return true })
}

func (s *Set) Unresolved() []Conflict {
	return s.filter(func(c Conflict) bool { return !c.IsResolved })
}

func (s *Set) Resolved() []Conflict {
	return s.filter(func(c Conflict) bool { return c.IsResolved })
}

// ForDocument returns the conflicts involving name.
func (s *Set) ForDocument(name string) []Conflict {
	return s.filter(func(c Conflict) bool { return c.Involves(name) })
}

// ResolveAll resolves every unresolved conflict with the resolver's default strategies.
func (s *Set) ResolveAll(r *Resolver) {
	for i, c := range s.conflicts {
		if c.IsResolved {
			continue
		}
		s.conflicts[i] = r.Resolve(c)
	}
}

func (s *Set) filter(keep func(Conflict) bool) []Conflict {
	if s == nil {
		return nil
	}
	out := make([]Conflict, 0, len(s.conflicts))
	for _, c := range s.conflicts {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
