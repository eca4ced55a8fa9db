package ecs

// SparseSet stores one component value per entity slot with dense iteration.
type SparseSet[T any] struct {
	dense  []entityID
	values []T
	sparse []int
}

func (s *SparseSet[T]) has(id entityID) bool {
	if id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == id
}

func (s *SparseSet[T]) get(id entityID) (T, bool) {
	var zero T
	if !s.has(id) {
		return zero, false
	}
	return s.values[s.sparse[id-1]], true
}

func (s *SparseSet[T]) set(id entityID, v T) {
	if id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *SparseSet[T]) remove(id entityID) (T, bool) {
	var zero T
	if !s.has(id) {
		return zero, false
	}
	idx := s.sparse[id-1]
	removed := s.values[idx]
	last := len(s.dense) - 1
	lastID := s.dense[last]

	s.dense[idx] = s.dense[last]
	s.values[idx] = s.values[last]
	s.sparse[lastID-1] = idx

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return removed, true
}

// Len returns the number of stored components.
func (s *SparseSet[T]) Len() int {
	return len(s.dense)
}
