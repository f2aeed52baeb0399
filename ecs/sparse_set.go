package ecs

// store is the type-erased view the world keeps of every component set.
type store interface {
	remove(e Entity) bool
	has(e Entity) bool
	len() int
}

// sparseSet keeps components densely packed for iteration, indexed by slot
// id through sparse. Entries remember the full entity so a stale handle
// never reads a recycled slot's component.
type sparseSet[T any] struct {
	dense    []*T
	entities []Entity
	sparse   []int
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if id <= 0 || id > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.entities) || s.entities[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *sparseSet[T]) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.dense[idx], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	if idx, ok := s.index(e); ok {
		s.dense[idx] = v
		return
	}
	id := int(e.id())
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	// a stale entry for an older generation of this slot is overwritten
	if old := s.sparse[id-1]; old >= 0 && old < len(s.entities) && s.entities[old].id() == e.id() {
		s.dense[old] = v
		s.entities[old] = e
		return
	}
	s.dense = append(s.dense, v)
	s.entities = append(s.entities, e)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.entities[last]

	s.dense[idx] = s.dense[last]
	s.entities[idx] = moved
	s.sparse[moved.id()-1] = idx

	s.dense[last] = nil
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	s.sparse[e.id()-1] = -1
	return true
}

func (s *sparseSet[T]) len() int {
	return len(s.dense)
}
