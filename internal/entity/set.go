package entity

// Set is an unordered, duplicate-free set of entity handles keyed on identity.
type Set map[ID]Entity

func NewSet(entities ...Entity) Set {
	s := make(Set, len(entities))
	for _, e := range entities {
		s.Add(e)
	}
	return s
}

// Add inserts e and reports whether it was newly added. Nil handles are ignored.
func (s Set) Add(e Entity) bool {
	if IsNil(e) {
		return false
	}
	id := e.ID()
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = e
	return true
}

func (s Set) Contains(e Entity) bool {
	if IsNil(e) {
		return false
	}
	_, ok := s[e.ID()]
	return ok
}

func (s Set) Remove(e Entity) {
	if IsNil(e) {
		return
	}
	delete(s, e.ID())
}

func (s Set) Len() int {
	return len(s)
}

// Clone returns a shallow copy: the handles are shared, the membership is not.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id, e := range s {
		c[id] = e
	}
	return c
}
